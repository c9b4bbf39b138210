package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/hookline/notification-engine/internal/domain"
)

func testAction() domain.Action {
	return domain.Action{
		AccountID:   "acct-1",
		Bundle:      "insights",
		Application: "policies",
		EventType:   "policy-triggered",
	}
}

type dispatchFixture struct {
	endpoints *fakeEndpoints
	histories *fakeHistories
	metrics   *fakeMetrics
	webhook   *stubProcessor
	email     *stubProcessor
	eventBus  *stubProcessor
	dsp       *Dispatcher
}

func newDispatchFixture() *dispatchFixture {
	endpoints := newFakeEndpoints()
	histories := &fakeHistories{}
	metrics := &fakeMetrics{}
	webhook := newStubProcessor("webhook")
	email := newStubProcessor("email")
	eventBus := newStubProcessor("eventbus")
	dsp := NewDispatcher(DispatcherDependencies{
		Resolver:  NewResolver(endpoints, nil),
		Histories: histories,
		Metrics:   metrics,
		Webhook:   webhook,
		Email:     email,
		EventBus:  eventBus,
	})
	return &dispatchFixture{
		endpoints: endpoints,
		histories: histories,
		metrics:   metrics,
		webhook:   webhook,
		email:     email,
		eventBus:  eventBus,
		dsp:       dsp,
	}
}

func TestDispatchProcessesEndpointsInOrder(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	first := f.endpoints.add(webhookEndpoint("acct-1", true))
	second := f.endpoints.add(domain.Endpoint{
		ID:        uuid.New(),
		AccountID: "acct-1",
		Enabled:   true,
		Type:      domain.EndpointTypeEmailSubscription,
	})
	f.endpoints.legacy = []uuid.UUID{first.ID}
	f.endpoints.grouped = []uuid.UUID{second.ID}

	if err := f.dsp.Dispatch(context.Background(), testAction()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(f.webhook.calls) != 1 || f.webhook.calls[0].endpointID != first.ID {
		t.Fatalf("expected webhook processor to handle the first endpoint")
	}
	if len(f.email.calls) != 1 || f.email.calls[0].endpointID != second.ID {
		t.Fatalf("expected email processor to handle the second endpoint")
	}
	if len(f.histories.records) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(f.histories.records))
	}
	for _, record := range f.histories.records {
		if record.AccountID != "acct-1" || record.EventType != "policy-triggered" {
			t.Fatalf("history record missing action stamps: %+v", record)
		}
	}
	if f.metrics.actions != 1 || f.metrics.endpoints != 2 {
		t.Fatalf("unexpected counters: actions=%d endpoints=%d", f.metrics.actions, f.metrics.endpoints)
	}
}

func TestDispatchFallbackRunsExactlyOnce(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	first := f.endpoints.add(webhookEndpoint("acct-1", true))
	f.endpoints.legacy = []uuid.UUID{first.ID}

	if err := f.dsp.Dispatch(context.Background(), testAction()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	fallbacks := 0
	for _, call := range f.eventBus.calls {
		if call.fallback {
			fallbacks++
		}
	}
	if fallbacks != 1 {
		t.Fatalf("expected exactly one fallback delivery, got %d", fallbacks)
	}
}

func TestDispatchFallbackRunsWithEmptyResolution(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	if err := f.dsp.Dispatch(context.Background(), testAction()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(f.eventBus.calls) != 1 || !f.eventBus.calls[0].fallback {
		t.Fatalf("expected a single fallback delivery for an empty resolution")
	}
	if len(f.histories.records) != 0 {
		t.Fatalf("fallback delivery must not persist history, got %d records", len(f.histories.records))
	}
	if f.metrics.actions != 1 || f.metrics.endpoints != 0 {
		t.Fatalf("unexpected counters: actions=%d endpoints=%d", f.metrics.actions, f.metrics.endpoints)
	}
}

func TestDispatchContinuesAfterProcessorFailure(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	failing := f.endpoints.add(webhookEndpoint("acct-1", true))
	healthy := f.endpoints.add(webhookEndpoint("acct-1", true))
	f.endpoints.legacy = []uuid.UUID{failing.ID, healthy.ID}
	f.webhook.failOn[failing.ID] = errors.New("connection refused")

	if err := f.dsp.Dispatch(context.Background(), testAction()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(f.webhook.calls) != 2 {
		t.Fatalf("expected both endpoints processed, got %d calls", len(f.webhook.calls))
	}
	if len(f.histories.records) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(f.histories.records))
	}
	var failedRecord *domain.NotificationHistory
	for i := range f.histories.records {
		if f.histories.records[i].EndpointID == failing.ID {
			failedRecord = &f.histories.records[i]
		}
	}
	if failedRecord == nil || failedRecord.InvocationResult {
		t.Fatalf("expected a failed history record for the failing endpoint")
	}
}

func TestDispatchHistoryPersistFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	f.histories.createErr = errors.New("database unavailable")
	first := f.endpoints.add(webhookEndpoint("acct-1", true))
	second := f.endpoints.add(webhookEndpoint("acct-1", true))
	f.endpoints.legacy = []uuid.UUID{first.ID, second.ID}

	if err := f.dsp.Dispatch(context.Background(), testAction()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(f.webhook.calls) != 2 {
		t.Fatalf("expected delivery to continue past history failures")
	}
}

func TestDispatchRoutesUnknownTypeToEventBus(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	stray := f.endpoints.add(domain.Endpoint{
		ID:        uuid.New(),
		AccountID: "acct-1",
		Enabled:   true,
		Type:      domain.EndpointType("ansible"),
	})
	f.endpoints.legacy = []uuid.UUID{stray.ID}

	if err := f.dsp.Dispatch(context.Background(), testAction()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	// One targeted delivery plus the fallback.
	if len(f.eventBus.calls) != 2 {
		t.Fatalf("expected event bus to absorb the unknown type, got %d calls", len(f.eventBus.calls))
	}
	if f.eventBus.calls[0].endpointID != stray.ID || !f.eventBus.calls[1].fallback {
		t.Fatalf("unexpected event bus call sequence")
	}
}
