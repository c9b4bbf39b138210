package application

import (
	"github.com/google/uuid"
	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
)

// LinkOutcome reports what an association-add actually did. The HTTP surface
// flattens it to the historical boolean (created or not), but keeping the
// three-way distinction here means the lossy flattening happens at the edge,
// not inside the engine.
type LinkOutcome int

const (
	LinkError LinkOutcome = iota
	LinkCreated
	LinkAlreadyExists
)

// Created reports the boolean the administrative contract promises: true only
// for a newly inserted association.
func (o LinkOutcome) Created() bool { return o == LinkCreated }

type CreateBehaviorGroupRequest struct {
	BundleID    uuid.UUID `json:"bundle_id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
}

type UpdateBehaviorGroupRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type CreateEndpointRequest struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Enabled     bool                      `json:"enabled"`
	Type        domain.EndpointType       `json:"type"`
	Webhook     *domain.WebhookProperties `json:"properties,omitempty"`
}

type UpdateEndpointRequest struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Enabled     bool                      `json:"enabled"`
	Webhook     *domain.WebhookProperties `json:"properties,omitempty"`
}

type ListEndpointsQuery struct {
	Type       domain.EndpointType
	ActiveOnly *bool
	Page       ports.Page
}

type CreateBundleRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type CreateApplicationRequest struct {
	BundleID    uuid.UUID `json:"bundle_id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
}

type CreateEventTypeRequest struct {
	ApplicationID uuid.UUID `json:"application_id"`
	Name          string    `json:"name"`
	DisplayName   string    `json:"display_name"`
	Description   string    `json:"description"`
}
