package domain

import (
	"time"

	"github.com/google/uuid"
)

// EndpointType tags the delivery variant of an endpoint.
type EndpointType string

const (
	EndpointTypeWebhook           EndpointType = "webhook"
	EndpointTypeEmailSubscription EndpointType = "email_subscription"
	// EndpointTypeDefault is a placeholder that expands to the account's
	// configured default endpoint set at resolution time.
	EndpointTypeDefault EndpointType = "default"
)

// ValidEndpointType reports whether t is a persistable endpoint variant.
func ValidEndpointType(t EndpointType) bool {
	switch t {
	case EndpointTypeWebhook, EndpointTypeEmailSubscription, EndpointTypeDefault:
		return true
	default:
		return false
	}
}

// EndpointProperties is the closed set of type-specific attribute payloads.
// Only variants that define attributes have a non-nil value on Endpoint.
type EndpointProperties interface {
	endpointProperties()
}

// BasicAuthentication carries optional basic-auth credentials for webhooks.
type BasicAuthentication struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// WebhookProperties is the attribute payload of a webhook endpoint.
type WebhookProperties struct {
	URL                    string               `json:"url"`
	Method                 string               `json:"method"`
	DisableSSLVerification bool                 `json:"disable_ssl_verification"`
	SecretToken            string               `json:"secret_token,omitempty"`
	BasicAuth              *BasicAuthentication `json:"basic_authentication,omitempty"`
}

func (WebhookProperties) endpointProperties() {}

// EmailSubscriptionProperties carries no configuration today but keeps the
// variant closed and explicit.
type EmailSubscriptionProperties struct{}

func (EmailSubscriptionProperties) endpointProperties() {}

// Endpoint is a configured delivery target owned by one account. Properties
// is assembled at read time from the variant's attribute row; it is a value,
// never a lazily mutated cache.
type Endpoint struct {
	ID          uuid.UUID          `json:"id"`
	AccountID   string             `json:"-"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Enabled     bool               `json:"enabled"`
	Type        EndpointType       `json:"type"`
	Properties  EndpointProperties `json:"properties,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// WebhookAttributes returns the webhook payload when present.
func (e Endpoint) WebhookAttributes() (WebhookProperties, bool) {
	props, ok := e.Properties.(WebhookProperties)
	return props, ok
}
