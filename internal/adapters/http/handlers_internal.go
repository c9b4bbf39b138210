package http

import (
	"net/http"

	"github.com/hookline/notification-engine/internal/application"
)

// Internal routes mutate the shared catalog and bypass tenant scoping.
// They are expected to sit behind platform-operator network policy.

func (h *Handler) createBundle(w http.ResponseWriter, r *http.Request) {
	var req application.CreateBundleRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_bundle", err)
		return
	}
	bundle, err := h.service.CreateBundle(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_bundle", err)
		return
	}
	writeSuccess(w, http.StatusCreated, bundle)
}

func (h *Handler) getBundle(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "bundle_id")
	if err != nil {
		writeValidationError(r.Context(), w, "get_bundle", err)
		return
	}
	bundle, err := h.service.GetBundle(r.Context(), id)
	if err != nil {
		writeMappedError(r.Context(), w, "get_bundle", err)
		return
	}
	writeSuccess(w, http.StatusOK, bundle)
}

func (h *Handler) listBundles(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListBundles(r.Context(), pageFromQuery(r))
	if err != nil {
		writeMappedError(r.Context(), w, "list_bundles", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"bundles": items})
}

func (h *Handler) deleteBundle(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "bundle_id")
	if err != nil {
		writeValidationError(r.Context(), w, "delete_bundle", err)
		return
	}
	deleted, err := h.service.DeleteBundle(r.Context(), id)
	if err != nil {
		writeMappedError(r.Context(), w, "delete_bundle", err)
		return
	}
	writeFound(w, deleted)
}

func (h *Handler) createApplication(w http.ResponseWriter, r *http.Request) {
	var req application.CreateApplicationRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_application", err)
		return
	}
	app, err := h.service.CreateApplication(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_application", err)
		return
	}
	writeSuccess(w, http.StatusCreated, app)
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	bundleID, err := uuidParam(r, "bundle_id")
	if err != nil {
		writeValidationError(r.Context(), w, "list_applications", err)
		return
	}
	items, err := h.service.ListApplications(r.Context(), bundleID, pageFromQuery(r))
	if err != nil {
		writeMappedError(r.Context(), w, "list_applications", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"applications": items})
}

func (h *Handler) deleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "application_id")
	if err != nil {
		writeValidationError(r.Context(), w, "delete_application", err)
		return
	}
	deleted, err := h.service.DeleteApplication(r.Context(), id)
	if err != nil {
		writeMappedError(r.Context(), w, "delete_application", err)
		return
	}
	writeFound(w, deleted)
}

func (h *Handler) createEventType(w http.ResponseWriter, r *http.Request) {
	var req application.CreateEventTypeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_event_type", err)
		return
	}
	eventType, err := h.service.CreateEventType(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_event_type", err)
		return
	}
	writeSuccess(w, http.StatusCreated, eventType)
}

func (h *Handler) listEventTypes(w http.ResponseWriter, r *http.Request) {
	applicationID, err := uuidParam(r, "application_id")
	if err != nil {
		writeValidationError(r.Context(), w, "list_event_types", err)
		return
	}
	items, err := h.service.ListEventTypes(r.Context(), applicationID, pageFromQuery(r))
	if err != nil {
		writeMappedError(r.Context(), w, "list_event_types", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"event_types": items})
}

func (h *Handler) deleteEventType(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "event_type_id")
	if err != nil {
		writeValidationError(r.Context(), w, "delete_event_type", err)
		return
	}
	deleted, err := h.service.DeleteEventType(r.Context(), id)
	if err != nil {
		writeMappedError(r.Context(), w, "delete_event_type", err)
		return
	}
	writeFound(w, deleted)
}

func (h *Handler) setDefaultBehaviorGroup(w http.ResponseWriter, r *http.Request) {
	bundleID, err := uuidParam(r, "bundle_id")
	if err != nil {
		writeValidationError(r.Context(), w, "set_default_behavior_group", err)
		return
	}
	groupID, err := uuidParam(r, "group_id")
	if err != nil {
		writeValidationError(r.Context(), w, "set_default_behavior_group", err)
		return
	}
	updated, err := h.service.SetDefaultBehaviorGroup(r.Context(), bundleID, groupID)
	if err != nil {
		writeMappedError(r.Context(), w, "set_default_behavior_group", err)
		return
	}
	writeFound(w, updated)
}
