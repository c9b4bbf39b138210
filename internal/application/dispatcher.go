package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
)

// Dispatcher is the per-action entry point of the engine: it resolves the
// endpoint sequence, routes each notification to the matching processor and
// appends one history record per attempt. Endpoint processing within one
// action is strictly sequential and ordered; the action's storage scope is
// not safe for concurrent use.
type Dispatcher struct {
	resolver  *Resolver
	histories ports.NotificationHistoryRepository
	metrics   ports.DispatchMetrics
	webhook   ports.EndpointTypeProcessor
	email     ports.EndpointTypeProcessor
	eventBus  ports.EndpointTypeProcessor
	logger    *slog.Logger
	nowFn     func() time.Time
}

type DispatcherDependencies struct {
	Resolver  *Resolver
	Histories ports.NotificationHistoryRepository
	Metrics   ports.DispatchMetrics
	Webhook   ports.EndpointTypeProcessor
	Email     ports.EndpointTypeProcessor
	EventBus  ports.EndpointTypeProcessor
	Logger    *slog.Logger
}

func NewDispatcher(deps DispatcherDependencies) *Dispatcher {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		resolver:  deps.Resolver,
		histories: deps.Histories,
		metrics:   deps.Metrics,
		webhook:   deps.Webhook,
		email:     deps.Email,
		eventBus:  deps.EventBus,
		logger:    logger.With("module", "application", "layer", "dispatcher"),
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}

// Dispatch processes one action end to end. A failing processor yields a
// failed history record and the sequence continues with the next endpoint;
// the fallback event-bus delivery runs exactly once per action no matter how
// the endpoint sequence went.
func (d *Dispatcher) Dispatch(ctx context.Context, action domain.Action) error {
	d.metrics.ActionProcessed()

	key := ActionKey{
		AccountID:   action.AccountID,
		Bundle:      action.Bundle,
		Application: action.Application,
		EventType:   action.EventType,
	}
	endpoints, err := d.resolver.Resolve(ctx, key)
	if err != nil {
		return fmt.Errorf("resolve endpoints: %w", err)
	}

	for i := range endpoints {
		endpoint := endpoints[i]
		d.metrics.EndpointTargeted()
		notification := domain.Notification{Action: action, Endpoint: &endpoint}

		history, err := d.processorFor(endpoint.Type).Process(ctx, notification)
		if err != nil {
			d.logger.ErrorContext(ctx, "endpoint processing failed",
				"operation", "dispatch",
				"outcome", "failure",
				"endpoint_id", endpoint.ID,
				"endpoint_type", string(endpoint.Type),
				"event_type", action.EventType,
				"error", err.Error(),
			)
			history = failedHistory(action, endpoint, d.nowFn(), err)
		}
		history.AccountID = action.AccountID
		history.EndpointID = endpoint.ID
		history.EventType = action.EventType

		if _, err := d.histories.Create(ctx, history); err != nil {
			d.logger.ErrorContext(ctx, "history record not persisted",
				"operation", "dispatch",
				"outcome", "failure",
				"endpoint_id", endpoint.ID,
				"error", err.Error(),
			)
		}
	}

	// The fallback channel is independent of the endpoint fan-out: it fires
	// once per action and is not gated on any endpoint outcome. Its result is
	// observed, not persisted.
	if _, err := d.eventBus.Process(ctx, domain.Notification{Action: action}); err != nil {
		d.logger.ErrorContext(ctx, "fallback delivery failed",
			"operation", "dispatch",
			"outcome", "failure",
			"event_type", action.EventType,
			"error", err.Error(),
		)
	}
	return nil
}

// processorFor is the engine's only polymorphic dispatch point. The default
// arm catches Default placeholders that escaped expansion and any unknown
// tag, so the table can never miss a case.
func (d *Dispatcher) processorFor(endpointType domain.EndpointType) ports.EndpointTypeProcessor {
	switch endpointType {
	case domain.EndpointTypeWebhook:
		return d.webhook
	case domain.EndpointTypeEmailSubscription:
		return d.email
	default:
		return d.eventBus
	}
}

func failedHistory(action domain.Action, endpoint domain.Endpoint, at time.Time, cause error) domain.NotificationHistory {
	return domain.NotificationHistory{
		AccountID:        action.AccountID,
		EndpointID:       endpoint.ID,
		InvocationTime:   at,
		InvocationResult: false,
		EventType:        action.EventType,
		Details: map[string]any{
			"error": cause.Error(),
		},
	}
}
