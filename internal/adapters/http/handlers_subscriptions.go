package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Subscription routes identify the user from the gateway-provided header; a
// tenant account can hold many subscribing users.
func userFromRequest(r *http.Request) (string, error) {
	userID := strings.TrimSpace(r.Header.Get(headerUserID))
	if userID == "" {
		return "", errors.New("missing user identity")
	}
	return userID, nil
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "subscribe")
		return
	}
	userID, err := userFromRequest(r)
	if err != nil {
		writeValidationError(r.Context(), w, "subscribe", err)
		return
	}
	err = h.service.Subscribe(r.Context(), accountID, userID,
		chi.URLParam(r, "bundle"), chi.URLParam(r, "application"), chi.URLParam(r, "type"))
	if err != nil {
		writeMappedError(r.Context(), w, "subscribe", err)
		return
	}
	writeMessage(w, http.StatusOK, "Subscribed")
}

func (h *Handler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "unsubscribe")
		return
	}
	userID, err := userFromRequest(r)
	if err != nil {
		writeValidationError(r.Context(), w, "unsubscribe", err)
		return
	}
	removed, err := h.service.Unsubscribe(r.Context(), accountID, userID,
		chi.URLParam(r, "bundle"), chi.URLParam(r, "application"), chi.URLParam(r, "type"))
	if err != nil {
		writeMappedError(r.Context(), w, "unsubscribe", err)
		return
	}
	writeFound(w, removed)
}

func (h *Handler) getSubscription(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "get_subscription")
		return
	}
	userID, err := userFromRequest(r)
	if err != nil {
		writeValidationError(r.Context(), w, "get_subscription", err)
		return
	}
	subscription, err := h.service.GetSubscription(r.Context(), accountID, userID,
		chi.URLParam(r, "bundle"), chi.URLParam(r, "application"), chi.URLParam(r, "type"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_subscription", err)
		return
	}
	writeSuccess(w, http.StatusOK, subscription)
}

func (h *Handler) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "list_subscriptions")
		return
	}
	userID, err := userFromRequest(r)
	if err != nil {
		writeValidationError(r.Context(), w, "list_subscriptions", err)
		return
	}
	items, err := h.service.ListSubscriptionsForUser(r.Context(), accountID, userID)
	if err != nil {
		writeMappedError(r.Context(), w, "list_subscriptions", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"subscriptions": items})
}
