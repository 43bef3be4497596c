package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/rs/zerolog"

	"github.com/voice-scribe/backend/internal/apperr"
	"github.com/voice-scribe/backend/internal/audio"
	"github.com/voice-scribe/backend/internal/pipeline"
)

type fakePipeline struct {
	lastBlob     audio.Blob
	lastLanguage string
	result       *pipeline.Result
	err          error
}

func (f *fakePipeline) Transcribe(ctx context.Context, blob audio.Blob, language string) (*pipeline.Result, error) {
	f.lastBlob = blob
	f.lastLanguage = language
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func multipartUpload(t *testing.T, contentType string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="clip.webm"`)
	hdr.Set("Content-Type", contentType)
	part, err := writer.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("fake audio bytes"))

	for k, v := range fields {
		writer.WriteField(k, v)
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func doTranscribe(t *testing.T, p Transcriber, uploadType string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewTranscribeHandler(p, 1<<20, "auto", zerolog.Nop())
	body, contentType := multipartUpload(t, uploadType, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Transcribe(rec, req)
	return rec
}

func TestTranscribeSuccess(t *testing.T) {
	fake := &fakePipeline{result: &pipeline.Result{
		Transcript:    "hello world",
		SRTTranscript: "1\n00:00:00,000 --> 00:00:01,000\nhello world\n\n",
	}}

	rec := doTranscribe(t, fake, "audio/webm", map[string]string{
		"language":            "en",
		"audio_duration_hint": "3.5",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res pipeline.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Transcript != "hello world" {
		t.Errorf("unexpected transcript %q", res.Transcript)
	}
	if fake.lastLanguage != "en" {
		t.Errorf("language hint not forwarded: %q", fake.lastLanguage)
	}
	if fake.lastBlob.DurationHint != 3.5 {
		t.Errorf("duration hint not forwarded: %v", fake.lastBlob.DurationHint)
	}
	if fake.lastBlob.Filename != "clip.webm" {
		t.Errorf("filename not forwarded: %q", fake.lastBlob.Filename)
	}
}

func TestTranscribeRejectsNonAudioUpload(t *testing.T) {
	rec := doTranscribe(t, &fakePipeline{}, "application/pdf", nil)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
	var body errorBody
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Code != "UNSUPPORTED_FORMAT" {
		t.Errorf("unexpected error code %q", body.Code)
	}
}

func TestTranscribePipelineErrorMapsStatus(t *testing.T) {
	fake := &fakePipeline{err: apperr.EmptyAudio().WithStage(apperr.StageNormalize)}
	rec := doTranscribe(t, fake, "audio/wav", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Code != "EMPTY_AUDIO" || body.Stage != "normalizing" {
		t.Errorf("unexpected error body %+v", body)
	}
}

func TestTranscribeTimeoutMapsTo504(t *testing.T) {
	fake := &fakePipeline{err: apperr.Timeout("waiting for the inference gate")}
	rec := doTranscribe(t, fake, "audio/wav", nil)
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", rec.Code)
	}
}

func TestTranscribeCancelledClient(t *testing.T) {
	fake := &fakePipeline{err: context.Canceled}
	rec := doTranscribe(t, fake, "audio/wav", nil)
	if rec.Code != statusClientClosedRequest {
		t.Fatalf("expected 499, got %d", rec.Code)
	}
}

func TestTranscribeMissingFileField(t *testing.T) {
	h := NewTranscribeHandler(&fakePipeline{}, 1<<20, "auto", zerolog.Nop())

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("language", "en")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Transcribe(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
}
