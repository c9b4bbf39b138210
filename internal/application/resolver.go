package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
)

// ActionKey addresses the event type an action targets.
type ActionKey struct {
	AccountID   string
	Bundle      string
	Application string
	EventType   string
}

// endpointStrategy is one named resolution path. Both paths stay behind the
// same resolver during the direct-link migration window instead of being
// merged silently.
type endpointStrategy interface {
	Name() string
	Fetch(ctx context.Context, key ActionKey) ([]domain.Endpoint, error)
}

type legacyTargetStrategy struct {
	endpoints ports.EndpointRepository
}

func (legacyTargetStrategy) Name() string { return "legacy_target" }

func (s legacyTargetStrategy) Fetch(ctx context.Context, key ActionKey) ([]domain.Endpoint, error) {
	return s.endpoints.FindActiveTargetEndpoints(ctx, key.AccountID, key.Bundle, key.Application, key.EventType)
}

type behaviorGroupStrategy struct {
	endpoints ports.EndpointRepository
}

func (behaviorGroupStrategy) Name() string { return "behavior_group" }

func (s behaviorGroupStrategy) Fetch(ctx context.Context, key ActionKey) ([]domain.Endpoint, error) {
	return s.endpoints.FindActiveBehaviorGroupEndpoints(ctx, key.AccountID, key.Bundle, key.Application, key.EventType)
}

// Resolver produces the ordered endpoint sequence for one action. Legacy
// direct links come first, then behavior-group endpoints; Default
// placeholders expand once into the account's default endpoint set.
type Resolver struct {
	endpoints  ports.EndpointRepository
	strategies []endpointStrategy
	logger     *slog.Logger
}

func NewResolver(endpoints ports.EndpointRepository, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		endpoints: endpoints,
		strategies: []endpointStrategy{
			legacyTargetStrategy{endpoints: endpoints},
			behaviorGroupStrategy{endpoints: endpoints},
		},
		logger: logger.With("module", "application", "layer", "resolver"),
	}
}

// Resolve merges both strategies, expands Default placeholders and drops
// duplicates across paths: an endpoint reachable via both the legacy link
// and a behavior group is delivered to once, first occurrence wins. An
// unknown event type yields an empty sequence, never an error.
func (r *Resolver) Resolve(ctx context.Context, key ActionKey) ([]domain.Endpoint, error) {
	// defaults is per-resolve scratch state: fetched at most once per action
	// and discarded with the call, so every action starts clean.
	var defaults []domain.Endpoint
	defaultsLoaded := false
	loadDefaults := func() ([]domain.Endpoint, error) {
		if !defaultsLoaded {
			fetched, err := r.endpoints.GetDefaultEndpoints(ctx, key.AccountID)
			if err != nil {
				return nil, err
			}
			defaults = fetched
			defaultsLoaded = true
		}
		return defaults, nil
	}

	seen := make(map[uuid.UUID]struct{})
	var resolved []domain.Endpoint
	appendEndpoint := func(endpoint domain.Endpoint) {
		if !endpoint.Enabled {
			return
		}
		if _, ok := seen[endpoint.ID]; ok {
			return
		}
		seen[endpoint.ID] = struct{}{}
		resolved = append(resolved, endpoint)
	}

	for _, strategy := range r.strategies {
		endpoints, err := strategy.Fetch(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("%s resolution: %w", strategy.Name(), err)
		}
		for _, endpoint := range endpoints {
			if endpoint.Type != domain.EndpointTypeDefault {
				appendEndpoint(endpoint)
				continue
			}
			// Expansion is capped at one level: a Default endpoint inside the
			// default set is dropped rather than re-expanded, which also
			// rules out cycles.
			expanded, err := loadDefaults()
			if err != nil {
				return nil, fmt.Errorf("default endpoint expansion: %w", err)
			}
			for _, candidate := range expanded {
				if candidate.Type == domain.EndpointTypeDefault {
					r.logger.WarnContext(ctx, "nested default endpoint skipped",
						"operation", "resolve",
						"endpoint_id", candidate.ID,
					)
					continue
				}
				appendEndpoint(candidate)
			}
		}
	}
	return resolved, nil
}
