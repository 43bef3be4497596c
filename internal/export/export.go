// Package export re-packages transcript text into downloadable file
// payloads. It is pure and stateless: callers resupply the full content
// on every request and nothing is cached.
package export

import (
	"github.com/voice-scribe/backend/internal/apperr"
)

// Kind selects the export file flavor.
type Kind string

const (
	KindText     Kind = "text"
	KindSubtitle Kind = "subtitle"
)

// Payload is a downloadable file: verbatim UTF-8 bytes plus the metadata
// the HTTP layer needs to stream it back.
type Payload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Export converts content into a file payload for the given kind. The
// content is encoded verbatim; the only failure mode is an unknown kind.
func Export(content string, kind Kind) (Payload, error) {
	switch kind {
	case KindText:
		return Payload{
			Data:        []byte(content),
			Filename:    "transcript.txt",
			ContentType: "text/plain; charset=utf-8",
		}, nil
	case KindSubtitle:
		return Payload{
			Data:        []byte(content),
			Filename:    "subtitles.srt",
			ContentType: "application/x-subrip",
		}, nil
	default:
		return Payload{}, apperr.InvalidExportKind(string(kind)).WithStage(apperr.StageExport)
	}
}
