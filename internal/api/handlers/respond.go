package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/voice-scribe/backend/internal/apperr"
)

func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	jsonResponse(w, errorBody{Error: msg}, status)
}

// errorBody is the wire shape of every failure response: the specific
// error kind, a human-readable message, and the stage that produced it.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Stage string `json:"stage,omitempty"`
}

func jsonAppError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) {
		// The client is gone; nobody reads this response.
		w.WriteHeader(statusClientClosedRequest)
		return
	}
	appErr := apperr.FromError(err)
	jsonResponse(w, errorBody{
		Error: appErr.Message,
		Code:  string(appErr.Code),
		Stage: string(appErr.Stage),
	}, appErr.HTTPStatus)
}

// statusClientClosedRequest is nginx's non-standard 499, used when the
// client disconnected before the pipeline finished.
const statusClientClosedRequest = 499
