package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hookline/notification-engine/internal/application"
	"github.com/hookline/notification-engine/internal/ports"
)

// Handler is the HTTP adapter entrypoint for the administrative surface.
// Keeping only the application dependency here preserves clean adapter boundaries.
type Handler struct {
	service *application.Service
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func parseIntDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func pageFromQuery(r *http.Request) ports.Page {
	return ports.Page{
		Limit:  parseIntDefault(r.URL.Query().Get("limit"), 20),
		Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
	}
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errors.New("invalid " + name)
	}
	return id, nil
}

func writeMappedError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status, code, msg := mapDomainError(err)
	logRequestFailure(ctx, operation, status, code, err)
	writeError(ctx, w, status, code, msg)
}

func writeValidationError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	logRequestFailure(ctx, operation, http.StatusBadRequest, "VALIDATION_ERROR", err)
	writeError(ctx, w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
}

func writeMissingAccountError(ctx context.Context, w http.ResponseWriter, operation string) {
	logRequestFailure(ctx, operation, http.StatusUnauthorized, "UNAUTHORIZED", nil)
	writeError(ctx, w, http.StatusUnauthorized, "UNAUTHORIZED", "missing account identity")
}

// writeFound renders the boolean contract of update/delete style operations.
// Absence is an expected answer here, not a fault, so the envelope stays a
// success with updated=false.
func writeFound(w http.ResponseWriter, found bool) {
	writeSuccess(w, http.StatusOK, map[string]any{"updated": found})
}
