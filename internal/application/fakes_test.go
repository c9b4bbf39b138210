package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
)

// In-memory fakes implementing the ports interfaces. They mirror the
// repository contracts closely enough for use-case tests: conflict errors on
// duplicate associations, boolean row-matched results, enabled-only
// resolution reads.

type fakeEndpoints struct {
	mu         sync.Mutex
	byID       map[uuid.UUID]domain.Endpoint
	legacy     []uuid.UUID
	grouped    []uuid.UUID
	defaults   []uuid.UUID
	links      map[uuid.UUID]map[uuid.UUID]bool
	inDefaults map[uuid.UUID]bool

	defaultsCalls int
}

func newFakeEndpoints() *fakeEndpoints {
	return &fakeEndpoints{
		byID:       map[uuid.UUID]domain.Endpoint{},
		links:      map[uuid.UUID]map[uuid.UUID]bool{},
		inDefaults: map[uuid.UUID]bool{},
	}
}

func (f *fakeEndpoints) add(endpoint domain.Endpoint) domain.Endpoint {
	if endpoint.ID == uuid.Nil {
		endpoint.ID = uuid.New()
	}
	f.byID[endpoint.ID] = endpoint
	return endpoint
}

func (f *fakeEndpoints) Create(_ context.Context, endpoint domain.Endpoint) (domain.Endpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	endpoint.ID = uuid.New()
	endpoint.CreatedAt = time.Now().UTC()
	f.byID[endpoint.ID] = endpoint
	return endpoint, nil
}

func (f *fakeEndpoints) Get(_ context.Context, accountID string, id uuid.UUID) (domain.Endpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	endpoint, ok := f.byID[id]
	if !ok || endpoint.AccountID != accountID {
		return domain.Endpoint{}, domain.ErrNotFound
	}
	return endpoint, nil
}

func (f *fakeEndpoints) List(_ context.Context, accountID string, _ ports.Page) ([]domain.Endpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Endpoint
	for _, endpoint := range f.byID {
		if endpoint.AccountID == accountID {
			out = append(out, endpoint)
		}
	}
	return out, nil
}

func (f *fakeEndpoints) ListByType(_ context.Context, accountID string, filter ports.EndpointFilter, _ ports.Page) ([]domain.Endpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Endpoint
	for _, endpoint := range f.byID {
		if endpoint.AccountID != accountID || endpoint.Type != filter.Type {
			continue
		}
		if filter.ActiveOnly != nil && endpoint.Enabled != *filter.ActiveOnly {
			continue
		}
		out = append(out, endpoint)
	}
	return out, nil
}

func (f *fakeEndpoints) Count(ctx context.Context, accountID string) (int64, error) {
	items, _ := f.List(ctx, accountID, ports.Page{})
	return int64(len(items)), nil
}

func (f *fakeEndpoints) CountByType(ctx context.Context, accountID string, filter ports.EndpointFilter) (int64, error) {
	items, _ := f.ListByType(ctx, accountID, filter, ports.Page{})
	return int64(len(items)), nil
}

func (f *fakeEndpoints) Update(_ context.Context, endpoint domain.Endpoint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.byID[endpoint.ID]
	if !ok || existing.AccountID != endpoint.AccountID {
		return false, nil
	}
	endpoint.CreatedAt = existing.CreatedAt
	f.byID[endpoint.ID] = endpoint
	return true, nil
}

func (f *fakeEndpoints) Delete(_ context.Context, accountID string, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	endpoint, ok := f.byID[id]
	if !ok || endpoint.AccountID != accountID {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func (f *fakeEndpoints) SetEnabled(_ context.Context, accountID string, id uuid.UUID, enabled bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	endpoint, ok := f.byID[id]
	if !ok || endpoint.AccountID != accountID {
		return false, nil
	}
	endpoint.Enabled = enabled
	f.byID[id] = endpoint
	return true, nil
}

func (f *fakeEndpoints) LinkEndpoint(_ context.Context, _ string, endpointID, eventTypeID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.links[eventTypeID] == nil {
		f.links[eventTypeID] = map[uuid.UUID]bool{}
	}
	if f.links[eventTypeID][endpointID] {
		return domain.ErrConflict
	}
	f.links[eventTypeID][endpointID] = true
	return nil
}

func (f *fakeEndpoints) UnlinkEndpoint(_ context.Context, _ string, endpointID, eventTypeID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.links[eventTypeID][endpointID] {
		return false, nil
	}
	delete(f.links[eventTypeID], endpointID)
	return true, nil
}

func (f *fakeEndpoints) GetLinkedEndpoints(_ context.Context, accountID string, eventTypeID uuid.UUID, _ ports.Page) ([]domain.Endpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Endpoint
	for id := range f.links[eventTypeID] {
		if endpoint, ok := f.byID[id]; ok && endpoint.AccountID == accountID {
			out = append(out, endpoint)
		}
	}
	return out, nil
}

func (f *fakeEndpoints) GetDefaultEndpoints(_ context.Context, _ string) ([]domain.Endpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defaultsCalls++
	out := make([]domain.Endpoint, 0, len(f.defaults))
	for _, id := range f.defaults {
		out = append(out, f.byID[id])
	}
	return out, nil
}

func (f *fakeEndpoints) AddEndpointToDefaults(_ context.Context, _ string, endpointID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inDefaults[endpointID] {
		return domain.ErrInvalidInput
	}
	f.inDefaults[endpointID] = true
	f.defaults = append(f.defaults, endpointID)
	return nil
}

func (f *fakeEndpoints) EndpointInDefaults(_ context.Context, _ string, endpointID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inDefaults[endpointID], nil
}

func (f *fakeEndpoints) DeleteEndpointFromDefaults(_ context.Context, _ string, endpointID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.inDefaults[endpointID] {
		return false, nil
	}
	delete(f.inDefaults, endpointID)
	for i, id := range f.defaults {
		if id == endpointID {
			f.defaults = append(f.defaults[:i], f.defaults[i+1:]...)
			break
		}
	}
	return true, nil
}

func (f *fakeEndpoints) FindActiveTargetEndpoints(_ context.Context, _, _, _, _ string) ([]domain.Endpoint, error) {
	return f.resolveActive(f.legacy), nil
}

func (f *fakeEndpoints) FindActiveBehaviorGroupEndpoints(_ context.Context, _, _, _, _ string) ([]domain.Endpoint, error) {
	return f.resolveActive(f.grouped), nil
}

func (f *fakeEndpoints) resolveActive(ids []uuid.UUID) []domain.Endpoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Endpoint
	for _, id := range ids {
		endpoint, ok := f.byID[id]
		if ok && endpoint.Enabled {
			out = append(out, endpoint)
		}
	}
	return out
}

type groupKey struct {
	eventTypeID uuid.UUID
	groupID     uuid.UUID
}

type fakeBehaviorGroups struct {
	mu        sync.Mutex
	groups    map[uuid.UUID]domain.BehaviorGroup
	behaviors map[groupKey]bool
	actions   map[groupKey]bool
}

func newFakeBehaviorGroups() *fakeBehaviorGroups {
	return &fakeBehaviorGroups{
		groups:    map[uuid.UUID]domain.BehaviorGroup{},
		behaviors: map[groupKey]bool{},
		actions:   map[groupKey]bool{},
	}
}

func (f *fakeBehaviorGroups) Create(_ context.Context, accountID string, group domain.BehaviorGroup) (domain.BehaviorGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	group.ID = uuid.New()
	group.AccountID = accountID
	group.CreatedAt = time.Now().UTC()
	f.groups[group.ID] = group
	return group, nil
}

func (f *fakeBehaviorGroups) ListByBundle(_ context.Context, accountID string, bundleID uuid.UUID) ([]domain.BehaviorGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.BehaviorGroup
	for _, group := range f.groups {
		if group.AccountID == accountID && group.BundleID == bundleID {
			out = append(out, group)
		}
	}
	// Same ordering contract as the SQL repository: the default group first,
	// then newest to oldest.
	sort.Slice(out, func(i, j int) bool {
		if out[i].DefaultBehavior != out[j].DefaultBehavior {
			return out[i].DefaultBehavior
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeBehaviorGroups) Update(_ context.Context, accountID string, group domain.BehaviorGroup) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.groups[group.ID]
	if !ok || existing.AccountID != accountID {
		return false, nil
	}
	existing.Name = group.Name
	existing.DisplayName = group.DisplayName
	f.groups[group.ID] = existing
	return true, nil
}

func (f *fakeBehaviorGroups) Delete(_ context.Context, accountID string, groupID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	group, ok := f.groups[groupID]
	if !ok || group.AccountID != accountID {
		return false, nil
	}
	delete(f.groups, groupID)
	return true, nil
}

func (f *fakeBehaviorGroups) AddEventTypeBehavior(_ context.Context, accountID string, eventTypeID, groupID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	group, ok := f.groups[groupID]
	if !ok || group.AccountID != accountID {
		return domain.ErrNotFound
	}
	key := groupKey{eventTypeID: eventTypeID, groupID: groupID}
	if f.behaviors[key] {
		return domain.ErrConflict
	}
	f.behaviors[key] = true
	return nil
}

func (f *fakeBehaviorGroups) DeleteEventTypeBehavior(_ context.Context, _ string, eventTypeID, groupID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := groupKey{eventTypeID: eventTypeID, groupID: groupID}
	if !f.behaviors[key] {
		return false, nil
	}
	delete(f.behaviors, key)
	return true, nil
}

func (f *fakeBehaviorGroups) AddBehaviorGroupAction(_ context.Context, accountID string, groupID, endpointID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	group, ok := f.groups[groupID]
	if !ok || group.AccountID != accountID {
		return domain.ErrNotFound
	}
	key := groupKey{eventTypeID: endpointID, groupID: groupID}
	if f.actions[key] {
		return domain.ErrConflict
	}
	f.actions[key] = true
	return nil
}

func (f *fakeBehaviorGroups) DeleteBehaviorGroupAction(_ context.Context, _ string, groupID, endpointID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := groupKey{eventTypeID: endpointID, groupID: groupID}
	if !f.actions[key] {
		return false, nil
	}
	delete(f.actions, key)
	return true, nil
}

func (f *fakeBehaviorGroups) SetDefaultBehaviorGroup(_ context.Context, bundleID, groupID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	target, ok := f.groups[groupID]
	if !ok || target.BundleID != bundleID {
		return false, nil
	}
	for id, group := range f.groups {
		if group.BundleID != bundleID {
			continue
		}
		group.DefaultBehavior = id == groupID
		f.groups[id] = group
	}
	return true, nil
}

func (f *fakeBehaviorGroups) MuteEventType(_ context.Context, accountID string, eventTypeID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	removed := false
	for key := range f.behaviors {
		if key.eventTypeID != eventTypeID {
			continue
		}
		group, ok := f.groups[key.groupID]
		if !ok || group.AccountID != accountID {
			continue
		}
		delete(f.behaviors, key)
		removed = true
	}
	return removed, nil
}

func (f *fakeBehaviorGroups) FindBehaviorGroupsByEventType(_ context.Context, accountID string, eventTypeID uuid.UUID, _ ports.Page) ([]domain.BehaviorGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.BehaviorGroup
	for key := range f.behaviors {
		if key.eventTypeID != eventTypeID {
			continue
		}
		group, ok := f.groups[key.groupID]
		if ok && group.AccountID == accountID {
			out = append(out, group)
		}
	}
	return out, nil
}

func (f *fakeBehaviorGroups) FindEventTypesByBehaviorGroup(_ context.Context, _ string, groupID uuid.UUID) ([]domain.EventType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.EventType
	for key := range f.behaviors {
		if key.groupID == groupID {
			out = append(out, domain.EventType{ID: key.eventTypeID})
		}
	}
	return out, nil
}

type fakeHistories struct {
	mu        sync.Mutex
	records   []domain.NotificationHistory
	createErr error
}

func (f *fakeHistories) Create(_ context.Context, history domain.NotificationHistory) (domain.NotificationHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.NotificationHistory{}, f.createErr
	}
	history.ID = uuid.New()
	f.records = append(f.records, history)
	return history, nil
}

func (f *fakeHistories) ListByEndpoint(_ context.Context, accountID string, endpointID uuid.UUID, _ ports.Page) ([]domain.NotificationHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.NotificationHistory
	for _, record := range f.records {
		if record.AccountID == accountID && record.EndpointID == endpointID {
			out = append(out, record)
		}
	}
	return out, nil
}

type subscriptionKey struct {
	accountID   string
	userID      string
	bundle      string
	application string
	subType     ports.EmailSubscriptionType
}

type fakeSubscriptions struct {
	mu   sync.Mutex
	rows map[subscriptionKey]bool
}

func newFakeSubscriptions() *fakeSubscriptions {
	return &fakeSubscriptions{rows: map[subscriptionKey]bool{}}
}

func (f *fakeSubscriptions) Subscribe(_ context.Context, accountID, userID, bundle, application string, subType ports.EmailSubscriptionType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[subscriptionKey{accountID, userID, bundle, application, subType}] = true
	return nil
}

func (f *fakeSubscriptions) Unsubscribe(_ context.Context, accountID, userID, bundle, application string, subType ports.EmailSubscriptionType) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := subscriptionKey{accountID, userID, bundle, application, subType}
	if !f.rows[key] {
		return false, nil
	}
	delete(f.rows, key)
	return true, nil
}

func (f *fakeSubscriptions) Get(_ context.Context, accountID, userID, bundle, application string, subType ports.EmailSubscriptionType) (ports.EmailSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := subscriptionKey{accountID, userID, bundle, application, subType}
	if !f.rows[key] {
		return ports.EmailSubscription{}, domain.ErrNotFound
	}
	return ports.EmailSubscription{
		AccountID:   accountID,
		UserID:      userID,
		Bundle:      bundle,
		Application: application,
		Type:        subType,
	}, nil
}

func (f *fakeSubscriptions) ListForUser(_ context.Context, accountID, userID string) ([]ports.EmailSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ports.EmailSubscription
	for key := range f.rows {
		if key.accountID == accountID && key.userID == userID {
			out = append(out, ports.EmailSubscription{
				AccountID:   key.accountID,
				UserID:      key.userID,
				Bundle:      key.bundle,
				Application: key.application,
				Type:        key.subType,
			})
		}
	}
	return out, nil
}

func (f *fakeSubscriptions) CountSubscribers(ctx context.Context, accountID, bundle, application string, subType ports.EmailSubscriptionType) (int64, error) {
	items, _ := f.ListSubscribers(ctx, accountID, bundle, application, subType)
	return int64(len(items)), nil
}

func (f *fakeSubscriptions) ListSubscribers(_ context.Context, accountID, bundle, application string, subType ports.EmailSubscriptionType) ([]ports.EmailSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ports.EmailSubscription
	for key := range f.rows {
		if key.accountID == accountID && key.bundle == bundle && key.application == application && key.subType == subType {
			out = append(out, ports.EmailSubscription{
				AccountID:   key.accountID,
				UserID:      key.userID,
				Bundle:      key.bundle,
				Application: key.application,
				Type:        key.subType,
			})
		}
	}
	return out, nil
}

type fakeBundles struct {
	mu      sync.Mutex
	bundles map[uuid.UUID]domain.Bundle
}

func newFakeBundles() *fakeBundles {
	return &fakeBundles{bundles: map[uuid.UUID]domain.Bundle{}}
}

func (f *fakeBundles) CreateBundle(_ context.Context, bundle domain.Bundle) (domain.Bundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.bundles {
		if existing.Name == bundle.Name {
			return domain.Bundle{}, domain.ErrConflict
		}
	}
	bundle.ID = uuid.New()
	f.bundles[bundle.ID] = bundle
	return bundle, nil
}

func (f *fakeBundles) GetBundle(_ context.Context, id uuid.UUID) (domain.Bundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bundle, ok := f.bundles[id]
	if !ok {
		return domain.Bundle{}, domain.ErrNotFound
	}
	return bundle, nil
}

func (f *fakeBundles) ListBundles(_ context.Context, _ ports.Page) ([]domain.Bundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Bundle
	for _, bundle := range f.bundles {
		out = append(out, bundle)
	}
	return out, nil
}

func (f *fakeBundles) DeleteBundle(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bundles[id]; !ok {
		return false, nil
	}
	delete(f.bundles, id)
	return true, nil
}

func (f *fakeBundles) CreateApplication(_ context.Context, app domain.Application) (domain.Application, error) {
	app.ID = uuid.New()
	return app, nil
}

func (f *fakeBundles) ListApplications(_ context.Context, _ uuid.UUID, _ ports.Page) ([]domain.Application, error) {
	return nil, nil
}

func (f *fakeBundles) DeleteApplication(_ context.Context, _ uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeBundles) CreateEventType(_ context.Context, eventType domain.EventType) (domain.EventType, error) {
	eventType.ID = uuid.New()
	return eventType, nil
}

func (f *fakeBundles) ListEventTypes(_ context.Context, _ uuid.UUID, _ ports.Page) ([]domain.EventType, error) {
	return nil, nil
}

func (f *fakeBundles) DeleteEventType(_ context.Context, _ uuid.UUID) (bool, error) {
	return false, nil
}

type fakeMetrics struct {
	mu        sync.Mutex
	actions   int
	endpoints int
}

func (f *fakeMetrics) ActionProcessed() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions++
}

func (f *fakeMetrics) EndpointTargeted() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endpoints++
}

type processedCall struct {
	endpointID uuid.UUID
	fallback   bool
}

// stubProcessor records the notifications it receives and returns a canned
// outcome per endpoint.
type stubProcessor struct {
	mu     sync.Mutex
	name   string
	calls  []processedCall
	failOn map[uuid.UUID]error
	result bool
}

func newStubProcessor(name string) *stubProcessor {
	return &stubProcessor{name: name, failOn: map[uuid.UUID]error{}, result: true}
}

func (p *stubProcessor) Process(_ context.Context, notification domain.Notification) (domain.NotificationHistory, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	call := processedCall{fallback: notification.Endpoint == nil}
	if notification.Endpoint != nil {
		call.endpointID = notification.Endpoint.ID
		if err, ok := p.failOn[notification.Endpoint.ID]; ok {
			p.calls = append(p.calls, call)
			return domain.NotificationHistory{}, err
		}
	}
	p.calls = append(p.calls, call)
	return domain.NotificationHistory{
		InvocationTime:   time.Now().UTC(),
		InvocationResult: p.result,
	}, nil
}

func pageAll() ports.Page { return ports.Page{} }

func newTestService(endpoints *fakeEndpoints, groups *fakeBehaviorGroups, subscriptions *fakeSubscriptions, histories *fakeHistories) *Service {
	return NewService(Dependencies{
		Bundles:        newFakeBundles(),
		BehaviorGroups: groups,
		Endpoints:      endpoints,
		Subscriptions:  subscriptions,
		Histories:      histories,
	})
}
