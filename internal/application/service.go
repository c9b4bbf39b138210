package application

import (
	"log/slog"

	"github.com/hookline/notification-engine/internal/ports"
)

// Service exposes the administrative use-cases: behavior-group registry,
// endpoint directory, catalog administration and email subscriptions.
// Resolution and dispatch live on their own types (Resolver, Dispatcher).
type Service struct {
	bundles        ports.BundleRepository
	behaviorGroups ports.BehaviorGroupRepository
	endpoints      ports.EndpointRepository
	subscriptions  ports.EmailSubscriptionRepository
	histories      ports.NotificationHistoryRepository
	logger         *slog.Logger
}

type Dependencies struct {
	Bundles        ports.BundleRepository
	BehaviorGroups ports.BehaviorGroupRepository
	Endpoints      ports.EndpointRepository
	Subscriptions  ports.EmailSubscriptionRepository
	Histories      ports.NotificationHistoryRepository
	Logger         *slog.Logger
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		bundles:        deps.Bundles,
		behaviorGroups: deps.BehaviorGroups,
		endpoints:      deps.Endpoints,
		subscriptions:  deps.Subscriptions,
		histories:      deps.Histories,
		logger:         logger.With("module", "application", "layer", "service"),
	}
}
