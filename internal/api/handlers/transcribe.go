package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/voice-scribe/backend/internal/apperr"
	"github.com/voice-scribe/backend/internal/audio"
	"github.com/voice-scribe/backend/internal/pipeline"
)

// Transcriber is the pipeline boundary the handler calls into.
type Transcriber interface {
	Transcribe(ctx context.Context, blob audio.Blob, language string) (*pipeline.Result, error)
}

type TranscribeHandler struct {
	pipeline  Transcriber
	maxUpload int64
	language  string // default language hint, "" or "auto" means autodetect
	log       zerolog.Logger
}

func NewTranscribeHandler(p Transcriber, maxUpload int64, language string, log zerolog.Logger) *TranscribeHandler {
	return &TranscribeHandler{
		pipeline:  p,
		maxUpload: maxUpload,
		language:  language,
		log:       log.With().Str("component", "transcribe_handler").Logger(),
	}
}

// multipartOverhead leaves room for form boundaries and fields beyond
// the audio payload itself.
const multipartOverhead = 1 << 20

// Transcribe accepts one multipart audio upload and answers with the
// plain transcript and its SRT rendering, or a typed error. The request
// context carries client disconnects into the pipeline, so an aborted
// upload cancels normalization and inference for this request only.
func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonAppError(w, apperr.SizeLimitExceeded(r.ContentLength, h.maxUpload))
			return
		}
		jsonAppError(w, apperr.UnsupportedFormat("missing multipart \"file\" field", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !acceptableUploadType(contentType) {
		jsonAppError(w, apperr.UnsupportedFormat("expected an audio upload, got "+contentType, nil))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonAppError(w, apperr.SizeLimitExceeded(r.ContentLength, h.maxUpload))
			return
		}
		jsonAppError(w, apperr.Internal(err))
		return
	}

	language := r.FormValue("language")
	if language == "" {
		language = h.language
	}

	blob := audio.Blob{
		Data:        data,
		Filename:    header.Filename,
		ContentType: contentType,
	}
	if hint, err := strconv.ParseFloat(r.FormValue("audio_duration_hint"), 64); err == nil && hint > 0 {
		blob.DurationHint = hint
	}

	result, err := h.pipeline.Transcribe(r.Context(), blob, language)
	if err != nil {
		jsonAppError(w, err)
		return
	}

	jsonResponse(w, result, http.StatusOK)
}

// acceptableUploadType accepts declared audio and video containers (video
// uploads carry extractable audio tracks) plus the generic types browsers
// use for recorded blobs.
func acceptableUploadType(contentType string) bool {
	if contentType == "" || contentType == "application/octet-stream" {
		return true
	}
	return strings.HasPrefix(contentType, "audio/") || strings.HasPrefix(contentType, "video/")
}
