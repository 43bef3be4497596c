package whisper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/voice-scribe/backend/internal/apperr"
	"github.com/voice-scribe/backend/internal/audio"
)

// Adapter owns the process-wide recognition engine. The engine is warmed
// up once, lazily, on the first call and reused afterwards.
//
// The faster-whisper sidecar is not safe for concurrent inference, so the
// adapter serializes all calls through a capacity-1 gate. A request that
// cannot acquire the gate within gateWait fails with a TIMEOUT error
// instead of queueing indefinitely.
type Adapter struct {
	engine       Engine
	gateWait     time.Duration
	inferTimeout time.Duration
	gate         chan struct{}
	warmed       bool // guarded by the gate
	log          zerolog.Logger
}

func NewAdapter(engine Engine, gateWait, inferTimeout time.Duration, log zerolog.Logger) *Adapter {
	return &Adapter{
		engine:       engine,
		gateWait:     gateWait,
		inferTimeout: inferTimeout,
		gate:         make(chan struct{}, 1),
		log:          log.With().Str("component", "whisper").Logger(),
	}
}

// EngineName returns the name of the wrapped engine.
func (a *Adapter) EngineName() string { return a.engine.Name() }

// EngineModel returns the configured model identifier.
func (a *Adapter) EngineModel() string { return a.engine.Model() }

// Available reports whether the engine can serve inference right now.
// It does not take the gate, so it stays responsive during a long run.
func (a *Adapter) Available(ctx context.Context) bool {
	return a.engine.Warmup(ctx) == nil
}

// Transcribe runs one inference over normalized audio. Calls are fully
// serialized; inference failures are reported as recoverable errors and
// never retried here.
func (a *Adapter) Transcribe(ctx context.Context, na *audio.Normalized, language string) ([]Segment, error) {
	if err := a.acquire(ctx); err != nil {
		return nil, err
	}
	defer a.release()

	// First caller through the gate pays the warmup cost. A failed
	// warmup is not latched, so a sidecar that comes up late recovers.
	if !a.warmed {
		if err := a.engine.Warmup(ctx); err != nil {
			return nil, apperr.Inference(fmt.Errorf("engine warmup: %w", err))
		}
		a.warmed = true
		a.log.Info().
			Str("engine", a.engine.Name()).
			Str("model", a.engine.Model()).
			Msg("recognition engine ready")
	}

	ictx, cancel := context.WithTimeout(ctx, a.inferTimeout)
	defer cancel()

	start := time.Now()
	segments, err := a.engine.Transcribe(ictx, na, language)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) || ictx.Err() == context.DeadlineExceeded {
			return nil, apperr.Timeout("inference")
		}
		return nil, apperr.Inference(err)
	}
	if len(segments) == 0 {
		return nil, apperr.Inference(errors.New("engine returned no segments"))
	}

	// Segments must come out ordered by start time with consecutive
	// indices, whatever the engine emitted.
	sort.SliceStable(segments, func(i, j int) bool { return segments[i].Start < segments[j].Start })
	for i := range segments {
		segments[i].Index = i
	}

	a.log.Debug().
		Int("segments", len(segments)).
		Dur("inference_time", time.Since(start)).
		Msg("inference complete")

	return segments, nil
}

func (a *Adapter) acquire(ctx context.Context) error {
	timer := time.NewTimer(a.gateWait)
	defer timer.Stop()

	select {
	case a.gate <- struct{}{}:
		return nil
	case <-timer.C:
		return apperr.Timeout("waiting for the inference gate")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Adapter) release() { <-a.gate }
