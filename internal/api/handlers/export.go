package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/voice-scribe/backend/internal/export"
)

type ExportHandler struct {
	log zerolog.Logger
}

func NewExportHandler(log zerolog.Logger) *ExportHandler {
	return &ExportHandler{log: log.With().Str("component", "export_handler").Logger()}
}

type exportRequest struct {
	Content string `json:"content"`
	Kind    string `json:"kind"`
}

// Export streams previously produced transcript text back as a file
// download. Stateless: the caller resupplies the full content each time.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	payload, err := export.Export(req.Content, export.Kind(req.Kind))
	if err != nil {
		jsonAppError(w, err)
		return
	}

	h.log.Debug().Str("kind", req.Kind).Int("bytes", len(payload.Data)).Msg("export download")

	w.Header().Set("Content-Type", payload.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+payload.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload.Data)))
	w.Write(payload.Data)
}
