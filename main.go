package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/voice-scribe/backend/internal/api"
	"github.com/voice-scribe/backend/internal/audio"
	"github.com/voice-scribe/backend/internal/config"
	"github.com/voice-scribe/backend/internal/pipeline"
	"github.com/voice-scribe/backend/internal/whisper"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	godotenv.Load()

	cfg := config.Load()
	log := newLogger(cfg)

	normalizer := audio.NewNormalizer(cfg.MaxUploadBytes, cfg.SampleRate, cfg.TmpDir, log)
	engine := whisper.NewClient(cfg.WhisperURL, cfg.WhisperModel, cfg.InferenceTimeout)
	adapter := whisper.NewAdapter(engine, cfg.GateWaitTimeout, cfg.InferenceTimeout, log)
	pl := pipeline.New(normalizer, adapter, log)

	router := api.NewRouter(cfg, pl, adapter, log)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	log.Info().
		Str("addr", addr).
		Str("whisper_url", cfg.WhisperURL).
		Str("model", cfg.WhisperModel).
		Msg("starting transcription server")

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if cfg.LogFormat == "console" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		log = zerolog.New(os.Stdout)
	}
	return log.Level(level).With().Timestamp().Logger()
}
