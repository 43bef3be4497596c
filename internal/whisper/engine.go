// Package whisper wraps speech-to-text engines behind a common interface
// and owns the single shared inference gate in front of them.
package whisper

import (
	"context"

	"github.com/voice-scribe/backend/internal/audio"
)

// Segment is one time-aligned unit of recognized speech.
type Segment struct {
	Index int     `json:"index"`
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
	Text  string  `json:"text"`
}

// Engine is the common interface for speech-to-text backends.
type Engine interface {
	// Name returns the engine name, e.g. "faster-whisper".
	Name() string
	// Model returns the configured model identifier.
	Model() string
	// Warmup prepares the engine for inference. It is called once,
	// lazily, before the first transcription.
	Warmup(ctx context.Context) error
	// Transcribe runs inference over normalized audio and returns
	// time-aligned segments ordered by ascending start time.
	Transcribe(ctx context.Context, na *audio.Normalized, language string) ([]Segment, error)
}
