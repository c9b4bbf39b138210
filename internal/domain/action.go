package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActionEvent is one event inside an incoming action envelope.
type ActionEvent struct {
	Metadata map[string]any `json:"metadata"`
	Payload  map[string]any `json:"payload"`
}

// Action is an incoming event envelope to be routed to endpoints. It is
// transient: constructed per incoming message and discarded after dispatch.
type Action struct {
	AccountID   string         `json:"account_id"`
	Bundle      string         `json:"bundle"`
	Application string         `json:"application"`
	EventType   string         `json:"event_type"`
	Timestamp   time.Time      `json:"timestamp"`
	Context     map[string]any `json:"context"`
	Events      []ActionEvent  `json:"events"`
}

// Notification pairs an Action with one target endpoint for delivery. The
// fallback event-bus delivery uses a nil endpoint. Never persisted.
type Notification struct {
	Action   Action
	Endpoint *Endpoint
}

// NotificationHistory is the immutable audit record of one delivery attempt.
// Records are append-only; this engine never updates or deletes them.
type NotificationHistory struct {
	ID                 uuid.UUID      `json:"id"`
	AccountID          string         `json:"-"`
	EndpointID         uuid.UUID      `json:"endpoint_id"`
	InvocationTime     time.Time      `json:"invocation_time"`
	InvocationDuration time.Duration  `json:"invocation_duration"`
	InvocationResult   bool           `json:"invocation_result"`
	EventType          string         `json:"event_type"`
	Details            map[string]any `json:"details,omitempty"`
}
