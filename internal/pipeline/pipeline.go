// Package pipeline drives one transcription request through its stages:
// normalize, recognize, format. Failures are tagged with the stage they
// came from and no partial transcript ever leaves the pipeline.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/voice-scribe/backend/internal/apperr"
	"github.com/voice-scribe/backend/internal/audio"
	"github.com/voice-scribe/backend/internal/subtitle"
	"github.com/voice-scribe/backend/internal/whisper"
)

// Normalizer decodes an uploaded blob into canonical PCM audio.
type Normalizer interface {
	Normalize(ctx context.Context, blob audio.Blob) (*audio.Normalized, error)
}

// Recognizer runs speech recognition over normalized audio.
type Recognizer interface {
	Transcribe(ctx context.Context, na *audio.Normalized, language string) ([]whisper.Segment, error)
	EngineName() string
	EngineModel() string
}

// Benchmark reports how a run performed relative to its audio length.
type Benchmark struct {
	AudioDurationSeconds float64 `json:"audio_duration_seconds"`
	InferenceTimeSeconds float64 `json:"inference_time_seconds"`
	RealTimeFactor       float64 `json:"real_time_factor"`
	Engine               string  `json:"engine"`
	Model                string  `json:"model"`
}

// Result is the successful output of one run. Transcript and
// SRTTranscript are derived from the same segments and stay consistent.
type Result struct {
	Transcript    string    `json:"transcript"`
	SRTTranscript string    `json:"srt_transcript"`
	Benchmark     Benchmark `json:"benchmark"`
}

// Pipeline wires the stages together. It holds no per-request state;
// the only shared resource behind it is the recognizer's inference gate.
type Pipeline struct {
	normalizer Normalizer
	recognizer Recognizer
	log        zerolog.Logger
}

func New(normalizer Normalizer, recognizer Recognizer, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		normalizer: normalizer,
		recognizer: recognizer,
		log:        log.With().Str("component", "pipeline").Logger(),
	}
}

// Transcribe runs the full pipeline over one audio blob. Temporary audio
// resources are released on every path out of this function.
func (p *Pipeline) Transcribe(ctx context.Context, blob audio.Blob, language string) (*Result, error) {
	run := newRun()
	log := p.log.With().Str("run_id", run.ID).Logger()

	run.advance(StateNormalizing)
	na, err := p.normalizer.Normalize(ctx, blob)
	if err != nil {
		return nil, p.failRun(run, log, err, apperr.StageNormalize)
	}
	defer na.Remove()

	run.advance(StateRecognizing)
	inferStart := time.Now()
	segments, err := p.recognizer.Transcribe(ctx, na, language)
	inferenceTime := time.Since(inferStart)
	if err != nil {
		return nil, p.failRun(run, log, err, apperr.StageRecognize)
	}

	run.advance(StateFormatting)
	cues := make([]subtitle.Cue, len(segments))
	for i, seg := range segments {
		cues[i] = subtitle.Cue{
			Index: seg.Index + 1,
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		}
	}
	formatted, err := subtitle.Compose(cues)
	if err != nil {
		return nil, p.failRun(run, log, err, apperr.StageFormat)
	}

	run.advance(StateCompleted)

	audioDuration := na.Duration.Seconds()
	if blob.DurationHint > 0 {
		audioDuration = blob.DurationHint
	}
	var rtf float64
	if audioDuration > 0 {
		rtf = inferenceTime.Seconds() / audioDuration
	}

	log.Info().
		Int("transcript_chars", len(formatted.PlainText)).
		Int("srt_chars", len(formatted.SubtitleText)).
		Float64("audio_duration_seconds", audioDuration).
		Float64("inference_time_seconds", inferenceTime.Seconds()).
		Float64("real_time_factor", rtf).
		Msg("transcription completed")

	return &Result{
		Transcript:    formatted.PlainText,
		SRTTranscript: formatted.SubtitleText,
		Benchmark: Benchmark{
			AudioDurationSeconds: audioDuration,
			InferenceTimeSeconds: inferenceTime.Seconds(),
			RealTimeFactor:       rtf,
			Engine:               p.recognizer.EngineName(),
			Model:                p.recognizer.EngineModel(),
		},
	}, nil
}

// failRun marks the run failed and returns the error tagged with its
// originating stage. Context cancellation passes through untagged so the
// HTTP layer can tell an aborted client from a pipeline failure.
func (p *Pipeline) failRun(run *Run, log zerolog.Logger, err error, stage apperr.Stage) error {
	run.fail(err.Error())

	if ctxErr := contextError(err); ctxErr != nil {
		log.Debug().Err(err).Str("stage", string(stage)).Msg("run aborted")
		return ctxErr
	}

	tagged := apperr.FromError(err).WithStage(stage)
	log.Error().Err(err).Str("stage", string(stage)).Str("code", string(tagged.Code)).Msg("run failed")
	return tagged
}

func contextError(err error) error {
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	return nil
}
