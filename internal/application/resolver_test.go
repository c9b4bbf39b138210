package application

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/hookline/notification-engine/internal/domain"
)

func testKey() ActionKey {
	return ActionKey{
		AccountID:   "acct-1",
		Bundle:      "insights",
		Application: "policies",
		EventType:   "policy-triggered",
	}
}

func webhookEndpoint(account string, enabled bool) domain.Endpoint {
	return domain.Endpoint{
		ID:        uuid.New(),
		AccountID: account,
		Name:      "hook",
		Enabled:   enabled,
		Type:      domain.EndpointTypeWebhook,
		Properties: domain.WebhookProperties{
			URL:    "https://example.com/hook",
			Method: "POST",
		},
	}
}

func TestResolveOrdersLegacyBeforeBehaviorGroups(t *testing.T) {
	t.Parallel()

	endpoints := newFakeEndpoints()
	first := endpoints.add(webhookEndpoint("acct-1", true))
	second := endpoints.add(webhookEndpoint("acct-1", true))
	endpoints.legacy = []uuid.UUID{first.ID}
	endpoints.grouped = []uuid.UUID{second.ID}

	resolved, err := NewResolver(endpoints, nil).Resolve(context.Background(), testKey())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(resolved))
	}
	if resolved[0].ID != first.ID || resolved[1].ID != second.ID {
		t.Fatalf("expected legacy endpoint first, got %v then %v", resolved[0].ID, resolved[1].ID)
	}
}

func TestResolveDeduplicatesAcrossPaths(t *testing.T) {
	t.Parallel()

	endpoints := newFakeEndpoints()
	shared := endpoints.add(webhookEndpoint("acct-1", true))
	other := endpoints.add(webhookEndpoint("acct-1", true))
	endpoints.legacy = []uuid.UUID{shared.ID}
	endpoints.grouped = []uuid.UUID{shared.ID, other.ID}

	resolved, err := NewResolver(endpoints, nil).Resolve(context.Background(), testKey())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 endpoints after dedup, got %d", len(resolved))
	}
	if resolved[0].ID != shared.ID || resolved[1].ID != other.ID {
		t.Fatalf("unexpected order after dedup")
	}
}

func TestResolveSkipsDisabledEndpoints(t *testing.T) {
	t.Parallel()

	endpoints := newFakeEndpoints()
	enabled := endpoints.add(webhookEndpoint("acct-1", true))
	disabled := endpoints.add(webhookEndpoint("acct-1", false))
	endpoints.grouped = []uuid.UUID{enabled.ID, disabled.ID}

	resolved, err := NewResolver(endpoints, nil).Resolve(context.Background(), testKey())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 1 || resolved[0].ID != enabled.ID {
		t.Fatalf("expected only the enabled endpoint, got %d", len(resolved))
	}
}

func TestResolveExpandsDefaultPlaceholder(t *testing.T) {
	t.Parallel()

	endpoints := newFakeEndpoints()
	placeholder := endpoints.add(domain.Endpoint{
		ID:        uuid.New(),
		AccountID: "acct-1",
		Name:      "defaults",
		Enabled:   true,
		Type:      domain.EndpointTypeDefault,
	})
	target := endpoints.add(webhookEndpoint("acct-1", true))
	disabledDefault := endpoints.add(webhookEndpoint("acct-1", false))
	endpoints.grouped = []uuid.UUID{placeholder.ID}
	endpoints.defaults = []uuid.UUID{target.ID, disabledDefault.ID}

	resolved, err := NewResolver(endpoints, nil).Resolve(context.Background(), testKey())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 1 || resolved[0].ID != target.ID {
		t.Fatalf("expected the enabled default target only, got %d endpoints", len(resolved))
	}
	for _, endpoint := range resolved {
		if endpoint.Type == domain.EndpointTypeDefault {
			t.Fatalf("placeholder endpoint leaked into resolution")
		}
	}
}

func TestResolveDropsNestedDefault(t *testing.T) {
	t.Parallel()

	endpoints := newFakeEndpoints()
	placeholder := endpoints.add(domain.Endpoint{
		ID:        uuid.New(),
		AccountID: "acct-1",
		Enabled:   true,
		Type:      domain.EndpointTypeDefault,
	})
	nested := endpoints.add(domain.Endpoint{
		ID:        uuid.New(),
		AccountID: "acct-1",
		Enabled:   true,
		Type:      domain.EndpointTypeDefault,
	})
	target := endpoints.add(webhookEndpoint("acct-1", true))
	endpoints.legacy = []uuid.UUID{placeholder.ID}
	endpoints.defaults = []uuid.UUID{nested.ID, target.ID}

	resolved, err := NewResolver(endpoints, nil).Resolve(context.Background(), testKey())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 1 || resolved[0].ID != target.ID {
		t.Fatalf("expected nested default to be dropped, got %d endpoints", len(resolved))
	}
}

func TestResolveFetchesDefaultsOnce(t *testing.T) {
	t.Parallel()

	endpoints := newFakeEndpoints()
	legacyPlaceholder := endpoints.add(domain.Endpoint{
		ID:        uuid.New(),
		AccountID: "acct-1",
		Enabled:   true,
		Type:      domain.EndpointTypeDefault,
	})
	groupedPlaceholder := endpoints.add(domain.Endpoint{
		ID:        uuid.New(),
		AccountID: "acct-1",
		Enabled:   true,
		Type:      domain.EndpointTypeDefault,
	})
	target := endpoints.add(webhookEndpoint("acct-1", true))
	endpoints.legacy = []uuid.UUID{legacyPlaceholder.ID}
	endpoints.grouped = []uuid.UUID{groupedPlaceholder.ID}
	endpoints.defaults = []uuid.UUID{target.ID}

	resolved, err := NewResolver(endpoints, nil).Resolve(context.Background(), testKey())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 1 || resolved[0].ID != target.ID {
		t.Fatalf("expected the default target once, got %d endpoints", len(resolved))
	}
	if endpoints.defaultsCalls != 1 {
		t.Fatalf("expected a single defaults fetch per resolve, got %d", endpoints.defaultsCalls)
	}
}

func TestResolveUnknownEventTypeYieldsEmpty(t *testing.T) {
	t.Parallel()

	endpoints := newFakeEndpoints()
	resolved, err := NewResolver(endpoints, nil).Resolve(context.Background(), testKey())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 0 {
		t.Fatalf("expected empty resolution, got %d endpoints", len(resolved))
	}
}
