package http

import (
	"net/http"

	"github.com/hookline/notification-engine/internal/application"
	"github.com/hookline/notification-engine/internal/domain"
)

func (h *Handler) createEndpoint(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "create_endpoint")
		return
	}
	var req application.CreateEndpointRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_endpoint", err)
		return
	}
	endpoint, err := h.service.CreateEndpoint(r.Context(), accountID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_endpoint", err)
		return
	}
	writeSuccess(w, http.StatusCreated, endpoint)
}

func (h *Handler) getEndpoint(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "get_endpoint")
		return
	}
	id, err := uuidParam(r, "endpoint_id")
	if err != nil {
		writeValidationError(r.Context(), w, "get_endpoint", err)
		return
	}
	endpoint, err := h.service.GetEndpoint(r.Context(), accountID, id)
	if err != nil {
		writeMappedError(r.Context(), w, "get_endpoint", err)
		return
	}
	writeSuccess(w, http.StatusOK, endpoint)
}

func (h *Handler) listEndpoints(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "list_endpoints")
		return
	}
	query := application.ListEndpointsQuery{
		Type: domain.EndpointType(r.URL.Query().Get("type")),
		Page: pageFromQuery(r),
	}
	if raw := r.URL.Query().Get("active"); raw != "" {
		active := raw == "true"
		query.ActiveOnly = &active
	}

	items, err := h.service.ListEndpoints(r.Context(), accountID, query)
	if err != nil {
		writeMappedError(r.Context(), w, "list_endpoints", err)
		return
	}
	total, err := h.service.CountEndpoints(r.Context(), accountID, query)
	if err != nil {
		writeMappedError(r.Context(), w, "list_endpoints", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"endpoints": items,
		"total":     total,
	})
}

func (h *Handler) updateEndpoint(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "update_endpoint")
		return
	}
	id, err := uuidParam(r, "endpoint_id")
	if err != nil {
		writeValidationError(r.Context(), w, "update_endpoint", err)
		return
	}
	var req application.UpdateEndpointRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_endpoint", err)
		return
	}
	updated, err := h.service.UpdateEndpoint(r.Context(), accountID, id, req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_endpoint", err)
		return
	}
	writeFound(w, updated)
}

func (h *Handler) deleteEndpoint(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "delete_endpoint")
		return
	}
	id, err := uuidParam(r, "endpoint_id")
	if err != nil {
		writeValidationError(r.Context(), w, "delete_endpoint", err)
		return
	}
	deleted, err := h.service.DeleteEndpoint(r.Context(), accountID, id)
	if err != nil {
		writeMappedError(r.Context(), w, "delete_endpoint", err)
		return
	}
	writeFound(w, deleted)
}

func (h *Handler) enableEndpoint(w http.ResponseWriter, r *http.Request) {
	h.setEndpointEnabled(w, r, true, "enable_endpoint")
}

func (h *Handler) disableEndpoint(w http.ResponseWriter, r *http.Request) {
	h.setEndpointEnabled(w, r, false, "disable_endpoint")
}

func (h *Handler) setEndpointEnabled(w http.ResponseWriter, r *http.Request, enabled bool, operation string) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, operation)
		return
	}
	id, err := uuidParam(r, "endpoint_id")
	if err != nil {
		writeValidationError(r.Context(), w, operation, err)
		return
	}
	var updated bool
	if enabled {
		updated, err = h.service.EnableEndpoint(r.Context(), accountID, id)
	} else {
		updated, err = h.service.DisableEndpoint(r.Context(), accountID, id)
	}
	if err != nil {
		writeMappedError(r.Context(), w, operation, err)
		return
	}
	writeFound(w, updated)
}

func (h *Handler) endpointHistory(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "endpoint_history")
		return
	}
	id, err := uuidParam(r, "endpoint_id")
	if err != nil {
		writeValidationError(r.Context(), w, "endpoint_history", err)
		return
	}
	items, err := h.service.ListEndpointHistory(r.Context(), accountID, id, pageFromQuery(r))
	if err != nil {
		writeMappedError(r.Context(), w, "endpoint_history", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"history": items})
}

func (h *Handler) listDefaults(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "list_defaults")
		return
	}
	items, err := h.service.GetDefaultEndpoints(r.Context(), accountID)
	if err != nil {
		writeMappedError(r.Context(), w, "list_defaults", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"endpoints": items})
}

func (h *Handler) addToDefaults(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "add_to_defaults")
		return
	}
	id, err := uuidParam(r, "endpoint_id")
	if err != nil {
		writeValidationError(r.Context(), w, "add_to_defaults", err)
		return
	}
	if err := h.service.AddEndpointToDefaults(r.Context(), accountID, id); err != nil {
		writeMappedError(r.Context(), w, "add_to_defaults", err)
		return
	}
	writeMessage(w, http.StatusOK, "Endpoint added to defaults")
}

func (h *Handler) removeFromDefaults(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "remove_from_defaults")
		return
	}
	id, err := uuidParam(r, "endpoint_id")
	if err != nil {
		writeValidationError(r.Context(), w, "remove_from_defaults", err)
		return
	}
	removed, err := h.service.DeleteEndpointFromDefaults(r.Context(), accountID, id)
	if err != nil {
		writeMappedError(r.Context(), w, "remove_from_defaults", err)
		return
	}
	writeFound(w, removed)
}

func (h *Handler) linkedEndpoints(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "linked_endpoints")
		return
	}
	eventTypeID, err := uuidParam(r, "event_type_id")
	if err != nil {
		writeValidationError(r.Context(), w, "linked_endpoints", err)
		return
	}
	items, err := h.service.GetLinkedEndpoints(r.Context(), accountID, eventTypeID, pageFromQuery(r))
	if err != nil {
		writeMappedError(r.Context(), w, "linked_endpoints", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"endpoints": items})
}

func (h *Handler) linkEndpoint(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "link_endpoint")
		return
	}
	eventTypeID, err := uuidParam(r, "event_type_id")
	if err != nil {
		writeValidationError(r.Context(), w, "link_endpoint", err)
		return
	}
	endpointID, err := uuidParam(r, "endpoint_id")
	if err != nil {
		writeValidationError(r.Context(), w, "link_endpoint", err)
		return
	}
	outcome, err := h.service.LinkEndpoint(r.Context(), accountID, endpointID, eventTypeID)
	if err != nil {
		writeMappedError(r.Context(), w, "link_endpoint", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"linked": outcome.Created()})
}

func (h *Handler) unlinkEndpoint(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "unlink_endpoint")
		return
	}
	eventTypeID, err := uuidParam(r, "event_type_id")
	if err != nil {
		writeValidationError(r.Context(), w, "unlink_endpoint", err)
		return
	}
	endpointID, err := uuidParam(r, "endpoint_id")
	if err != nil {
		writeValidationError(r.Context(), w, "unlink_endpoint", err)
		return
	}
	removed, err := h.service.UnlinkEndpoint(r.Context(), accountID, endpointID, eventTypeID)
	if err != nil {
		writeMappedError(r.Context(), w, "unlink_endpoint", err)
		return
	}
	writeFound(w, removed)
}
