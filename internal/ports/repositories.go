package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/hookline/notification-engine/internal/domain"
)

// Page is the shared pagination contract for list operations. Limit is only
// applied when positive.
type Page struct {
	Limit  int
	Offset int
}

// BundleRepository manages bundles and their owned applications/event types.
// Mutations are internal-only operations; reads serve resolution and the
// administrative surface.
type BundleRepository interface {
	CreateBundle(ctx context.Context, bundle domain.Bundle) (domain.Bundle, error)
	GetBundle(ctx context.Context, id uuid.UUID) (domain.Bundle, error)
	ListBundles(ctx context.Context, page Page) ([]domain.Bundle, error)
	DeleteBundle(ctx context.Context, id uuid.UUID) (bool, error)

	CreateApplication(ctx context.Context, app domain.Application) (domain.Application, error)
	ListApplications(ctx context.Context, bundleID uuid.UUID, page Page) ([]domain.Application, error)
	DeleteApplication(ctx context.Context, id uuid.UUID) (bool, error)

	CreateEventType(ctx context.Context, eventType domain.EventType) (domain.EventType, error)
	ListEventTypes(ctx context.Context, applicationID uuid.UUID, page Page) ([]domain.EventType, error)
	DeleteEventType(ctx context.Context, id uuid.UUID) (bool, error)
}

// BehaviorGroupRepository owns behavior-group persistence, both association
// tables and the single-default-per-bundle invariant. Association writes are
// scoped by joining through the owning behavior group's account so that the
// association's own keys never allow cross-tenant tampering.
type BehaviorGroupRepository interface {
	Create(ctx context.Context, accountID string, group domain.BehaviorGroup) (domain.BehaviorGroup, error)
	ListByBundle(ctx context.Context, accountID string, bundleID uuid.UUID) ([]domain.BehaviorGroup, error)
	Update(ctx context.Context, accountID string, group domain.BehaviorGroup) (bool, error)
	Delete(ctx context.Context, accountID string, groupID uuid.UUID) (bool, error)

	AddEventTypeBehavior(ctx context.Context, accountID string, eventTypeID, groupID uuid.UUID) error
	DeleteEventTypeBehavior(ctx context.Context, accountID string, eventTypeID, groupID uuid.UUID) (bool, error)
	AddBehaviorGroupAction(ctx context.Context, accountID string, groupID, endpointID uuid.UUID) error
	DeleteBehaviorGroupAction(ctx context.Context, accountID string, groupID, endpointID uuid.UUID) (bool, error)

	// SetDefaultBehaviorGroup flips the default flag to the named group and
	// clears it on every sibling of the same bundle in one atomic statement.
	// Internal-only: callers must not expose it with tenant credentials.
	SetDefaultBehaviorGroup(ctx context.Context, bundleID, groupID uuid.UUID) (bool, error)
	MuteEventType(ctx context.Context, accountID string, eventTypeID uuid.UUID) (bool, error)

	FindBehaviorGroupsByEventType(ctx context.Context, accountID string, eventTypeID uuid.UUID, page Page) ([]domain.BehaviorGroup, error)
	FindEventTypesByBehaviorGroup(ctx context.Context, accountID string, groupID uuid.UUID) ([]domain.EventType, error)
}

// EndpointFilter narrows endpoint listing.
type EndpointFilter struct {
	Type       domain.EndpointType
	ActiveOnly *bool
}

// EndpointRepository stores endpoints with their type-specific attribute rows
// and both resolution paths' association tables.
type EndpointRepository interface {
	Create(ctx context.Context, endpoint domain.Endpoint) (domain.Endpoint, error)
	Get(ctx context.Context, accountID string, id uuid.UUID) (domain.Endpoint, error)
	List(ctx context.Context, accountID string, page Page) ([]domain.Endpoint, error)
	ListByType(ctx context.Context, accountID string, filter EndpointFilter, page Page) ([]domain.Endpoint, error)
	Count(ctx context.Context, accountID string) (int64, error)
	CountByType(ctx context.Context, accountID string, filter EndpointFilter) (int64, error)
	// Update writes the base row and, for variants that carry attributes, the
	// attribute row as one transaction. A zero-row base update skips the
	// attribute write entirely.
	Update(ctx context.Context, endpoint domain.Endpoint) (bool, error)
	Delete(ctx context.Context, accountID string, id uuid.UUID) (bool, error)
	SetEnabled(ctx context.Context, accountID string, id uuid.UUID, enabled bool) (bool, error)

	// Legacy direct-link association model, retained during the behavior-group
	// migration window.
	LinkEndpoint(ctx context.Context, accountID string, endpointID, eventTypeID uuid.UUID) error
	UnlinkEndpoint(ctx context.Context, accountID string, endpointID, eventTypeID uuid.UUID) (bool, error)
	GetLinkedEndpoints(ctx context.Context, accountID string, eventTypeID uuid.UUID, page Page) ([]domain.Endpoint, error)
	GetDefaultEndpoints(ctx context.Context, accountID string) ([]domain.Endpoint, error)
	AddEndpointToDefaults(ctx context.Context, accountID string, endpointID uuid.UUID) error
	EndpointInDefaults(ctx context.Context, accountID string, endpointID uuid.UUID) (bool, error)
	DeleteEndpointFromDefaults(ctx context.Context, accountID string, endpointID uuid.UUID) (bool, error)

	// Resolution queries. Both restrict to enabled endpoints and the owning
	// account; ordering follows association insertion order.
	FindActiveTargetEndpoints(ctx context.Context, accountID, bundle, application, eventType string) ([]domain.Endpoint, error)
	FindActiveBehaviorGroupEndpoints(ctx context.Context, accountID, bundle, application, eventType string) ([]domain.Endpoint, error)
}

// EmailSubscriptionType distinguishes instant from aggregated daily mail.
type EmailSubscriptionType string

const (
	EmailSubscriptionInstant EmailSubscriptionType = "INSTANT"
	EmailSubscriptionDaily   EmailSubscriptionType = "DAILY"
)

// EmailSubscription is one user's opt-in for an application's mail.
type EmailSubscription struct {
	AccountID     string
	UserID        string
	ApplicationID uuid.UUID
	Bundle        string
	Application   string
	Type          EmailSubscriptionType
}

// EmailSubscriptionRepository stores per-user opt-ins consulted by the email
// processor. Subscribe is idempotent: re-subscribing is not an error.
type EmailSubscriptionRepository interface {
	Subscribe(ctx context.Context, accountID, userID, bundle, application string, subType EmailSubscriptionType) error
	Unsubscribe(ctx context.Context, accountID, userID, bundle, application string, subType EmailSubscriptionType) (bool, error)
	Get(ctx context.Context, accountID, userID, bundle, application string, subType EmailSubscriptionType) (EmailSubscription, error)
	ListForUser(ctx context.Context, accountID, userID string) ([]EmailSubscription, error)
	CountSubscribers(ctx context.Context, accountID, bundle, application string, subType EmailSubscriptionType) (int64, error)
	ListSubscribers(ctx context.Context, accountID, bundle, application string, subType EmailSubscriptionType) ([]EmailSubscription, error)
}

// NotificationHistoryRepository appends delivery audit records. Records are
// immutable once written.
type NotificationHistoryRepository interface {
	Create(ctx context.Context, history domain.NotificationHistory) (domain.NotificationHistory, error)
	ListByEndpoint(ctx context.Context, accountID string, endpointID uuid.UUID, page Page) ([]domain.NotificationHistory, error)
}
