package processors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hookline/notification-engine/internal/domain"
)

// StreamPublisher appends one serialized payload to an outbound stream.
type StreamPublisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// EventBusProcessor republishes the action envelope on the shared event bus.
// It serves two roles: the per-action fallback delivery, which runs with a
// nil endpoint, and the catch-all for endpoint types without a dedicated
// processor.
type EventBusProcessor struct {
	publisher StreamPublisher
	logger    *slog.Logger
	nowFn     func() time.Time
}

func NewEventBusProcessor(publisher StreamPublisher, logger *slog.Logger) *EventBusProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBusProcessor{
		publisher: publisher,
		logger:    logger.With("module", "processors", "layer", "adapter", "processor", "eventbus"),
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}

func (p *EventBusProcessor) Process(ctx context.Context, notification domain.Notification) (domain.NotificationHistory, error) {
	action := notification.Action

	started := p.nowFn()
	history := domain.NotificationHistory{
		AccountID:      action.AccountID,
		InvocationTime: started,
		EventType:      action.EventType,
	}
	if notification.Endpoint != nil {
		history.EndpointID = notification.Endpoint.ID
	}

	payload, err := json.Marshal(action)
	if err != nil {
		return domain.NotificationHistory{}, fmt.Errorf("marshal action: %w", err)
	}

	pubErr := p.publisher.Publish(ctx, payload)
	history.InvocationDuration = time.Since(started)
	history.InvocationResult = pubErr == nil
	if pubErr != nil {
		history.Details = map[string]any{"error": pubErr.Error()}
		p.logger.WarnContext(ctx, "event bus publish failed",
			"operation", "process",
			"outcome", "failure",
			"event_type", action.EventType,
			"error", pubErr.Error(),
		)
	}
	return history, nil
}
