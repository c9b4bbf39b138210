package processors

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
)

// EmailProcessor resolves the subscriber set for the action's application and
// hands the rendered mail to the outbound mail stream. Recipients come from
// per-user opt-ins, never from endpoint attributes.
type EmailProcessor struct {
	subscriptions ports.EmailSubscriptionRepository
	sender        EmailSender
	logger        *slog.Logger
	nowFn         func() time.Time
}

// EmailSender delivers one mail payload to a recipient list. The production
// implementation publishes to the mail stream; tests substitute a recorder.
type EmailSender interface {
	Send(ctx context.Context, recipients []string, action domain.Action) error
}

func NewEmailProcessor(subscriptions ports.EmailSubscriptionRepository, sender EmailSender, logger *slog.Logger) *EmailProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmailProcessor{
		subscriptions: subscriptions,
		sender:        sender,
		logger:        logger.With("module", "processors", "layer", "adapter", "processor", "email"),
		nowFn:         func() time.Time { return time.Now().UTC() },
	}
}

// Process sends instant mail to every subscriber of the action's application.
// An empty subscriber set is a successful no-op delivery.
func (p *EmailProcessor) Process(ctx context.Context, notification domain.Notification) (domain.NotificationHistory, error) {
	endpoint := notification.Endpoint
	if endpoint == nil {
		return domain.NotificationHistory{}, fmt.Errorf("email processor requires an endpoint")
	}
	action := notification.Action

	started := p.nowFn()
	history := domain.NotificationHistory{
		AccountID:      action.AccountID,
		EndpointID:     endpoint.ID,
		InvocationTime: started,
		EventType:      action.EventType,
	}

	subscribers, err := p.subscriptions.ListSubscribers(ctx, action.AccountID, action.Bundle, action.Application, ports.EmailSubscriptionInstant)
	if err != nil {
		return domain.NotificationHistory{}, fmt.Errorf("list subscribers: %w", err)
	}

	recipients := make([]string, 0, len(subscribers))
	for _, sub := range subscribers {
		recipients = append(recipients, sub.UserID)
	}

	if len(recipients) == 0 {
		history.InvocationDuration = time.Since(started)
		history.InvocationResult = true
		history.Details = map[string]any{"recipients": 0}
		return history, nil
	}

	sendErr := p.sender.Send(ctx, recipients, action)
	history.InvocationDuration = time.Since(started)
	history.InvocationResult = sendErr == nil
	history.Details = map[string]any{"recipients": len(recipients)}
	if sendErr != nil {
		history.Details["error"] = sendErr.Error()
		p.logger.WarnContext(ctx, "email delivery failed",
			"operation", "process",
			"outcome", "failure",
			"endpoint_id", endpoint.ID,
			"recipients", len(recipients),
			"error", sendErr.Error(),
		)
	}
	return history, nil
}
