package application

import (
	"context"
	"strings"

	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
)

func parseSubscriptionType(raw string) (ports.EmailSubscriptionType, error) {
	switch ports.EmailSubscriptionType(strings.ToUpper(raw)) {
	case ports.EmailSubscriptionInstant:
		return ports.EmailSubscriptionInstant, nil
	case ports.EmailSubscriptionDaily:
		return ports.EmailSubscriptionDaily, nil
	default:
		return "", domain.ErrInvalidInput
	}
}

// Subscribe opts a user into an application's mail. Re-subscribing is
// idempotent and reports success.
func (s *Service) Subscribe(ctx context.Context, accountID, userID, bundle, application, subType string) error {
	parsed, err := parseSubscriptionType(subType)
	if err != nil {
		return err
	}
	if strings.TrimSpace(userID) == "" {
		return domain.ErrUnauthorized
	}
	return s.subscriptions.Subscribe(ctx, accountID, userID, bundle, application, parsed)
}

func (s *Service) Unsubscribe(ctx context.Context, accountID, userID, bundle, application, subType string) (bool, error) {
	parsed, err := parseSubscriptionType(subType)
	if err != nil {
		return false, err
	}
	return s.subscriptions.Unsubscribe(ctx, accountID, userID, bundle, application, parsed)
}

func (s *Service) GetSubscription(ctx context.Context, accountID, userID, bundle, application, subType string) (ports.EmailSubscription, error) {
	parsed, err := parseSubscriptionType(subType)
	if err != nil {
		return ports.EmailSubscription{}, err
	}
	return s.subscriptions.Get(ctx, accountID, userID, bundle, application, parsed)
}

func (s *Service) ListSubscriptionsForUser(ctx context.Context, accountID, userID string) ([]ports.EmailSubscription, error) {
	return s.subscriptions.ListForUser(ctx, accountID, userID)
}
