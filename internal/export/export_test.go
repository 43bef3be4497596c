package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/voice-scribe/backend/internal/apperr"
)

func TestExportText(t *testing.T) {
	p, err := Export("hello", KindText)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.Equal(p.Data, []byte("hello")) {
		t.Errorf("content not verbatim: %q", p.Data)
	}
	if p.Filename != "transcript.txt" {
		t.Errorf("unexpected filename %q", p.Filename)
	}
	if p.ContentType != "text/plain; charset=utf-8" {
		t.Errorf("unexpected content type %q", p.ContentType)
	}
}

func TestExportSubtitle(t *testing.T) {
	srt := "1\n00:00:00,000 --> 00:00:01,000\nhello\n\n"
	p, err := Export(srt, KindSubtitle)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if string(p.Data) != srt {
		t.Errorf("content not verbatim: %q", p.Data)
	}
	if p.Filename != "subtitles.srt" {
		t.Errorf("unexpected filename %q", p.Filename)
	}
	if p.ContentType != "application/x-subrip" {
		t.Errorf("unexpected content type %q", p.ContentType)
	}
}

func TestExportUTF8Verbatim(t *testing.T) {
	content := "안녕하세요 — ünïcôde"
	p, err := Export(content, KindText)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if string(p.Data) != content {
		t.Errorf("UTF-8 content mangled: %q", p.Data)
	}
}

func TestExportInvalidKind(t *testing.T) {
	_, err := Export("hello", Kind("pdf"))
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Code != apperr.CodeInvalidExportKind {
		t.Fatalf("expected INVALID_EXPORT_KIND, got %v", err)
	}
	if appErr.Stage != apperr.StageExport {
		t.Errorf("expected export stage tag, got %q", appErr.Stage)
	}
}
