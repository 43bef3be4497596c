package handlers

import (
	"context"
	"net/http"
)

// EngineStatus exposes recognition engine metadata for the health endpoint.
type EngineStatus interface {
	EngineName() string
	EngineModel() string
	Available(ctx context.Context) bool
}

type HealthHandler struct {
	engine EngineStatus
}

func NewHealthHandler(engine EngineStatus) *HealthHandler {
	return &HealthHandler{engine: engine}
}

// Status reports service liveness and whether the recognition engine can
// currently serve inference.
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]interface{}{
		"status":    "ok",
		"engine":    h.engine.EngineName(),
		"model":     h.engine.EngineModel(),
		"available": h.engine.Available(r.Context()),
	}, http.StatusOK)
}
