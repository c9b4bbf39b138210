package http

import (
	"net/http"

	"github.com/hookline/notification-engine/internal/application"
)

func (h *Handler) createBehaviorGroup(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "create_behavior_group")
		return
	}
	var req application.CreateBehaviorGroupRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_behavior_group", err)
		return
	}
	group, err := h.service.CreateBehaviorGroup(r.Context(), accountID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_behavior_group", err)
		return
	}
	writeSuccess(w, http.StatusCreated, group)
}

func (h *Handler) listBehaviorGroupsByBundle(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "list_behavior_groups")
		return
	}
	bundleID, err := uuidParam(r, "bundle_id")
	if err != nil {
		writeValidationError(r.Context(), w, "list_behavior_groups", err)
		return
	}
	groups, err := h.service.ListBehaviorGroupsByBundle(r.Context(), accountID, bundleID)
	if err != nil {
		writeMappedError(r.Context(), w, "list_behavior_groups", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"behavior_groups": groups})
}

func (h *Handler) updateBehaviorGroup(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "update_behavior_group")
		return
	}
	groupID, err := uuidParam(r, "group_id")
	if err != nil {
		writeValidationError(r.Context(), w, "update_behavior_group", err)
		return
	}
	var req application.UpdateBehaviorGroupRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_behavior_group", err)
		return
	}
	updated, err := h.service.UpdateBehaviorGroup(r.Context(), accountID, groupID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_behavior_group", err)
		return
	}
	writeFound(w, updated)
}

func (h *Handler) deleteBehaviorGroup(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "delete_behavior_group")
		return
	}
	groupID, err := uuidParam(r, "group_id")
	if err != nil {
		writeValidationError(r.Context(), w, "delete_behavior_group", err)
		return
	}
	deleted, err := h.service.DeleteBehaviorGroup(r.Context(), accountID, groupID)
	if err != nil {
		writeMappedError(r.Context(), w, "delete_behavior_group", err)
		return
	}
	writeFound(w, deleted)
}

func (h *Handler) addEventTypeBehavior(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "add_event_type_behavior")
		return
	}
	eventTypeID, err := uuidParam(r, "event_type_id")
	if err != nil {
		writeValidationError(r.Context(), w, "add_event_type_behavior", err)
		return
	}
	groupID, err := uuidParam(r, "group_id")
	if err != nil {
		writeValidationError(r.Context(), w, "add_event_type_behavior", err)
		return
	}
	outcome, err := h.service.AddEventTypeBehavior(r.Context(), accountID, eventTypeID, groupID)
	if err != nil {
		writeMappedError(r.Context(), w, "add_event_type_behavior", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"linked": outcome.Created()})
}

func (h *Handler) deleteEventTypeBehavior(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "delete_event_type_behavior")
		return
	}
	eventTypeID, err := uuidParam(r, "event_type_id")
	if err != nil {
		writeValidationError(r.Context(), w, "delete_event_type_behavior", err)
		return
	}
	groupID, err := uuidParam(r, "group_id")
	if err != nil {
		writeValidationError(r.Context(), w, "delete_event_type_behavior", err)
		return
	}
	removed, err := h.service.DeleteEventTypeBehavior(r.Context(), accountID, eventTypeID, groupID)
	if err != nil {
		writeMappedError(r.Context(), w, "delete_event_type_behavior", err)
		return
	}
	writeFound(w, removed)
}

func (h *Handler) addBehaviorGroupAction(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "add_behavior_group_action")
		return
	}
	groupID, err := uuidParam(r, "group_id")
	if err != nil {
		writeValidationError(r.Context(), w, "add_behavior_group_action", err)
		return
	}
	endpointID, err := uuidParam(r, "endpoint_id")
	if err != nil {
		writeValidationError(r.Context(), w, "add_behavior_group_action", err)
		return
	}
	outcome, err := h.service.AddBehaviorGroupAction(r.Context(), accountID, groupID, endpointID)
	if err != nil {
		writeMappedError(r.Context(), w, "add_behavior_group_action", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"linked": outcome.Created()})
}

func (h *Handler) deleteBehaviorGroupAction(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "delete_behavior_group_action")
		return
	}
	groupID, err := uuidParam(r, "group_id")
	if err != nil {
		writeValidationError(r.Context(), w, "delete_behavior_group_action", err)
		return
	}
	endpointID, err := uuidParam(r, "endpoint_id")
	if err != nil {
		writeValidationError(r.Context(), w, "delete_behavior_group_action", err)
		return
	}
	removed, err := h.service.DeleteBehaviorGroupAction(r.Context(), accountID, groupID, endpointID)
	if err != nil {
		writeMappedError(r.Context(), w, "delete_behavior_group_action", err)
		return
	}
	writeFound(w, removed)
}

func (h *Handler) muteEventType(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "mute_event_type")
		return
	}
	eventTypeID, err := uuidParam(r, "event_type_id")
	if err != nil {
		writeValidationError(r.Context(), w, "mute_event_type", err)
		return
	}
	muted, err := h.service.MuteEventType(r.Context(), accountID, eventTypeID)
	if err != nil {
		writeMappedError(r.Context(), w, "mute_event_type", err)
		return
	}
	writeFound(w, muted)
}

func (h *Handler) behaviorGroupsByEventType(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "behavior_groups_by_event_type")
		return
	}
	eventTypeID, err := uuidParam(r, "event_type_id")
	if err != nil {
		writeValidationError(r.Context(), w, "behavior_groups_by_event_type", err)
		return
	}
	groups, err := h.service.FindBehaviorGroupsByEventType(r.Context(), accountID, eventTypeID, pageFromQuery(r))
	if err != nil {
		writeMappedError(r.Context(), w, "behavior_groups_by_event_type", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"behavior_groups": groups})
}

func (h *Handler) eventTypesByBehaviorGroup(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountFromContext(r.Context())
	if !ok {
		writeMissingAccountError(r.Context(), w, "event_types_by_behavior_group")
		return
	}
	groupID, err := uuidParam(r, "group_id")
	if err != nil {
		writeValidationError(r.Context(), w, "event_types_by_behavior_group", err)
		return
	}
	eventTypes, err := h.service.FindEventTypesByBehaviorGroup(r.Context(), accountID, groupID)
	if err != nil {
		writeMappedError(r.Context(), w, "event_types_by_behavior_group", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"event_types": eventTypes})
}
