package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bundle is the top-level product grouping tenants subscribe notifications
// under. Bundle names are unique process-wide.
type Bundle struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Application is a product component within a Bundle that emits event types.
type Application struct {
	ID          uuid.UUID `json:"id"`
	BundleID    uuid.UUID `json:"bundle_id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventType is the category of a domain event within an Application. It is
// addressable either by id or by the (bundle, application, event type) name
// triple carried on incoming actions.
type EventType struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	Name          string    `json:"name"`
	DisplayName   string    `json:"display_name"`
	Description   string    `json:"description"`
}

// BehaviorGroup is a named, account-owned, reusable set of endpoint actions
// triggerable by one or more event types. At most one behavior group per
// bundle may carry DefaultBehavior.
type BehaviorGroup struct {
	ID              uuid.UUID `json:"id"`
	AccountID       string    `json:"-"`
	BundleID        uuid.UUID `json:"bundle_id"`
	Name            string    `json:"name"`
	DisplayName     string    `json:"display_name"`
	DefaultBehavior bool      `json:"default_behavior"`
	CreatedAt       time.Time `json:"created_at"`

	// Actions is the ordered endpoint-action collection, populated only by
	// reads that fetch it. List responses that must stay lean strip it.
	Actions []BehaviorGroupAction `json:"actions,omitempty"`
}

// BehaviorGroupAction links a behavior group to one endpoint. Insertion order
// is dispatch order.
type BehaviorGroupAction struct {
	BehaviorGroupID uuid.UUID `json:"behavior_group_id"`
	EndpointID      uuid.UUID `json:"endpoint_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// EventTypeBehavior links an event type to a behavior group. Unique per pair.
type EventTypeBehavior struct {
	EventTypeID     uuid.UUID `json:"event_type_id"`
	BehaviorGroupID uuid.UUID `json:"behavior_group_id"`
	CreatedAt       time.Time `json:"created_at"`
}
