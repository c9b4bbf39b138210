package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
)

// CreateBehaviorGroup assigns account ownership and links the group to its
// bundle by reference. An invalid bundle reference surfaces ErrNotFound.
func (s *Service) CreateBehaviorGroup(ctx context.Context, accountID string, req CreateBehaviorGroupRequest) (domain.BehaviorGroup, error) {
	if strings.TrimSpace(accountID) == "" {
		return domain.BehaviorGroup{}, domain.ErrUnauthorized
	}
	if req.BundleID == uuid.Nil || strings.TrimSpace(req.Name) == "" {
		return domain.BehaviorGroup{}, domain.ErrInvalidInput
	}
	return s.behaviorGroups.Create(ctx, accountID, domain.BehaviorGroup{
		BundleID:    req.BundleID,
		Name:        strings.TrimSpace(req.Name),
		DisplayName: strings.TrimSpace(req.DisplayName),
	})
}

// ListBehaviorGroupsByBundle returns the bundle's groups with the default
// group first, then by descending creation time.
func (s *Service) ListBehaviorGroupsByBundle(ctx context.Context, accountID string, bundleID uuid.UUID) ([]domain.BehaviorGroup, error) {
	return s.behaviorGroups.ListByBundle(ctx, accountID, bundleID)
}

func (s *Service) UpdateBehaviorGroup(ctx context.Context, accountID string, groupID uuid.UUID, req UpdateBehaviorGroupRequest) (bool, error) {
	if strings.TrimSpace(req.Name) == "" {
		return false, domain.ErrInvalidInput
	}
	return s.behaviorGroups.Update(ctx, accountID, domain.BehaviorGroup{
		ID:          groupID,
		Name:        strings.TrimSpace(req.Name),
		DisplayName: strings.TrimSpace(req.DisplayName),
	})
}

func (s *Service) DeleteBehaviorGroup(ctx context.Context, accountID string, groupID uuid.UUID) (bool, error) {
	return s.behaviorGroups.Delete(ctx, accountID, groupID)
}

// AddEventTypeBehavior links an event type to a behavior group the account
// owns. Duplicate links are swallowed into LinkAlreadyExists with a warning;
// callers keep the idempotent boolean contract while the log retains the
// cause. A behavior group the account does not own surfaces ErrNotFound.
func (s *Service) AddEventTypeBehavior(ctx context.Context, accountID string, eventTypeID, groupID uuid.UUID) (LinkOutcome, error) {
	err := s.behaviorGroups.AddEventTypeBehavior(ctx, accountID, eventTypeID, groupID)
	return s.linkOutcome(ctx, "add_event_type_behavior", err)
}

func (s *Service) DeleteEventTypeBehavior(ctx context.Context, accountID string, eventTypeID, groupID uuid.UUID) (bool, error) {
	return s.behaviorGroups.DeleteEventTypeBehavior(ctx, accountID, eventTypeID, groupID)
}

// AddBehaviorGroupAction appends an endpoint to the group's ordered action
// list. Same conflict policy as AddEventTypeBehavior.
func (s *Service) AddBehaviorGroupAction(ctx context.Context, accountID string, groupID, endpointID uuid.UUID) (LinkOutcome, error) {
	err := s.behaviorGroups.AddBehaviorGroupAction(ctx, accountID, groupID, endpointID)
	return s.linkOutcome(ctx, "add_behavior_group_action", err)
}

func (s *Service) DeleteBehaviorGroupAction(ctx context.Context, accountID string, groupID, endpointID uuid.UUID) (bool, error) {
	return s.behaviorGroups.DeleteBehaviorGroupAction(ctx, accountID, groupID, endpointID)
}

// SetDefaultBehaviorGroup is internal-only: no account scoping. The flag flip
// is a single atomic statement in the repository.
func (s *Service) SetDefaultBehaviorGroup(ctx context.Context, bundleID, groupID uuid.UUID) (bool, error) {
	return s.behaviorGroups.SetDefaultBehaviorGroup(ctx, bundleID, groupID)
}

// MuteEventType removes every behavior-group link for the event type owned by
// the account. The legacy direct-link path is deliberately untouched.
func (s *Service) MuteEventType(ctx context.Context, accountID string, eventTypeID uuid.UUID) (bool, error) {
	return s.behaviorGroups.MuteEventType(ctx, accountID, eventTypeID)
}

func (s *Service) FindBehaviorGroupsByEventType(ctx context.Context, accountID string, eventTypeID uuid.UUID, page ports.Page) ([]domain.BehaviorGroup, error) {
	return s.behaviorGroups.FindBehaviorGroupsByEventType(ctx, accountID, eventTypeID, page)
}

func (s *Service) FindEventTypesByBehaviorGroup(ctx context.Context, accountID string, groupID uuid.UUID) ([]domain.EventType, error) {
	return s.behaviorGroups.FindEventTypesByBehaviorGroup(ctx, accountID, groupID)
}

func (s *Service) linkOutcome(ctx context.Context, operation string, err error) (LinkOutcome, error) {
	switch {
	case err == nil:
		return LinkCreated, nil
	case errors.Is(err, domain.ErrConflict):
		s.logger.WarnContext(ctx, "association already exists",
			"operation", operation,
			"outcome", "already_exists",
		)
		return LinkAlreadyExists, nil
	default:
		return LinkError, err
	}
}
