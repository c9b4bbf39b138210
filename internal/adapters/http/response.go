package http

import (
	"context"
	"encoding/json"
	"net/http"
)

type successEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type errorEnvelope struct {
	Status string       `json:"status"`
	Error  errorPayload `json:"error"`
}

// errorPayload carries the request id so a client report can be matched to
// the server-side log line.
type errorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func render(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	render(w, status, successEnvelope{Status: "success", Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	render(w, status, successEnvelope{Status: "success", Message: message})
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, code, message string) {
	render(w, status, errorEnvelope{
		Status: "error",
		Error: errorPayload{
			Code:      code,
			Message:   message,
			RequestID: requestIDFromContext(ctx),
		},
	})
}
