package processors

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
)

type staticSubscribers struct {
	users []string
	err   error
}

func (s staticSubscribers) Subscribe(context.Context, string, string, string, string, ports.EmailSubscriptionType) error {
	return nil
}

func (s staticSubscribers) Unsubscribe(context.Context, string, string, string, string, ports.EmailSubscriptionType) (bool, error) {
	return false, nil
}

func (s staticSubscribers) Get(context.Context, string, string, string, string, ports.EmailSubscriptionType) (ports.EmailSubscription, error) {
	return ports.EmailSubscription{}, domain.ErrNotFound
}

func (s staticSubscribers) ListForUser(context.Context, string, string) ([]ports.EmailSubscription, error) {
	return nil, nil
}

func (s staticSubscribers) CountSubscribers(context.Context, string, string, string, ports.EmailSubscriptionType) (int64, error) {
	return int64(len(s.users)), s.err
}

func (s staticSubscribers) ListSubscribers(_ context.Context, accountID, bundle, application string, _ ports.EmailSubscriptionType) ([]ports.EmailSubscription, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]ports.EmailSubscription, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, ports.EmailSubscription{
			AccountID:   accountID,
			UserID:      user,
			Bundle:      bundle,
			Application: application,
			Type:        ports.EmailSubscriptionInstant,
		})
	}
	return out, nil
}

type recordingSender struct {
	recipients [][]string
	err        error
}

func (r *recordingSender) Send(_ context.Context, recipients []string, _ domain.Action) error {
	r.recipients = append(r.recipients, recipients)
	return r.err
}

func emailNotification() domain.Notification {
	return domain.Notification{
		Action: domain.Action{
			AccountID:   "acct-1",
			Bundle:      "insights",
			Application: "policies",
			EventType:   "policy-triggered",
		},
		Endpoint: &domain.Endpoint{
			ID:      uuid.New(),
			Enabled: true,
			Type:    domain.EndpointTypeEmailSubscription,
		},
	}
}

func TestEmailProcessSendsToSubscribers(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	processor := NewEmailProcessor(staticSubscribers{users: []string{"user-1", "user-2"}}, sender, nil)

	history, err := processor.Process(context.Background(), emailNotification())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !history.InvocationResult {
		t.Fatalf("expected successful invocation")
	}
	if len(sender.recipients) != 1 || len(sender.recipients[0]) != 2 {
		t.Fatalf("expected one send to two recipients, got %v", sender.recipients)
	}
	if history.Details["recipients"] != 2 {
		t.Fatalf("expected recipient count in details, got %v", history.Details)
	}
}

func TestEmailProcessEmptySubscriberSetIsSuccess(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	processor := NewEmailProcessor(staticSubscribers{}, sender, nil)

	history, err := processor.Process(context.Background(), emailNotification())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !history.InvocationResult {
		t.Fatalf("an empty subscriber set is a successful no-op")
	}
	if len(sender.recipients) != 0 {
		t.Fatalf("expected no send for an empty subscriber set")
	}
}

func TestEmailProcessSenderFailureIsFailedHistory(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{err: errors.New("stream unavailable")}
	processor := NewEmailProcessor(staticSubscribers{users: []string{"user-1"}}, sender, nil)

	history, err := processor.Process(context.Background(), emailNotification())
	if err != nil {
		t.Fatalf("a send failure must not surface an error, got %v", err)
	}
	if history.InvocationResult {
		t.Fatalf("expected failed invocation on sender error")
	}
}

func TestEmailProcessRepositoryFailureSurfaces(t *testing.T) {
	t.Parallel()

	processor := NewEmailProcessor(staticSubscribers{err: errors.New("database unavailable")}, &recordingSender{}, nil)
	if _, err := processor.Process(context.Background(), emailNotification()); err == nil {
		t.Fatalf("expected repository errors to surface")
	}
}
