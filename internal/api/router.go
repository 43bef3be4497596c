package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/voice-scribe/backend/internal/api/handlers"
	"github.com/voice-scribe/backend/internal/api/middleware"
	"github.com/voice-scribe/backend/internal/config"
	"github.com/voice-scribe/backend/internal/whisper"
)

func NewRouter(cfg *config.Config, p handlers.Transcriber, adapter *whisper.Adapter, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	transcribeHandler := handlers.NewTranscribeHandler(p, cfg.MaxUploadBytes, cfg.Language, log)
	exportHandler := handlers.NewExportHandler(log)
	healthHandler := handlers.NewHealthHandler(adapter)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Status)

		// Uploads manage their own body limit sized from config.
		r.Group(func(r chi.Router) {
			r.Use(rateLimiter.Handler)
			r.Post("/transcribe", transcribeHandler.Transcribe)
		})

		// JSON routes get a tight body cap; export payloads are just
		// transcript text resubmitted by the client.
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodySize(cfg.MaxExportBytes))
			r.Post("/export", exportHandler.Export)
		})
	})

	return r
}
