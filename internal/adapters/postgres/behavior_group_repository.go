package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
	"gorm.io/gorm"
)

type behaviorGroupRepository struct {
	db *gorm.DB
}

func (r *behaviorGroupRepository) Create(ctx context.Context, accountID string, group domain.BehaviorGroup) (domain.BehaviorGroup, error) {
	var created domain.BehaviorGroup
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&bundleModel{}).Where("id = ?", group.BundleID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}

		rec := behaviorGroupModel{
			AccountID:       accountID,
			BundleID:        group.BundleID,
			Name:            group.Name,
			DisplayName:     group.DisplayName,
			DefaultBehavior: false,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		created = toDomainBehaviorGroup(rec, false)
		return nil
	})
	if err != nil {
		return domain.BehaviorGroup{}, err
	}
	return created, nil
}

func (r *behaviorGroupRepository) ListByBundle(ctx context.Context, accountID string, bundleID uuid.UUID) ([]domain.BehaviorGroup, error) {
	var rows []behaviorGroupModel
	// The default group must sort first on every engine, so the boolean is
	// forced through a CASE instead of relying on the engine's native
	// boolean ordering.
	err := r.db.WithContext(ctx).
		Preload("Actions", func(db *gorm.DB) *gorm.DB {
			return db.Order("behavior_group_actions.created_at ASC")
		}).
		Where("account_id = ? AND bundle_id = ?", accountID, bundleID).
		Order("CASE WHEN default_behavior THEN 0 ELSE 1 END, created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	groups := make([]domain.BehaviorGroup, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, toDomainBehaviorGroup(row, true))
	}
	return groups, nil
}

func (r *behaviorGroupRepository) Update(ctx context.Context, accountID string, group domain.BehaviorGroup) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&behaviorGroupModel{}).
		Where("account_id = ? AND id = ?", accountID, group.ID).
		Updates(map[string]any{
			"name":         group.Name,
			"display_name": group.DisplayName,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *behaviorGroupRepository) Delete(ctx context.Context, accountID string, groupID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, groupID).
		Delete(&behaviorGroupModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *behaviorGroupRepository) AddEventTypeBehavior(ctx context.Context, accountID string, eventTypeID, groupID uuid.UUID) error {
	if err := r.requireOwnedGroup(ctx, accountID, groupID); err != nil {
		return err
	}
	rec := eventTypeBehaviorModel{
		EventTypeID:     eventTypeID,
		BehaviorGroupID: groupID,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *behaviorGroupRepository) DeleteEventTypeBehavior(ctx context.Context, accountID string, eventTypeID, groupID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("event_type_id = ? AND behavior_group_id = ?", eventTypeID, groupID).
		Where("behavior_group_id IN (?)", r.ownedGroupIDs(accountID)).
		Delete(&eventTypeBehaviorModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *behaviorGroupRepository) AddBehaviorGroupAction(ctx context.Context, accountID string, groupID, endpointID uuid.UUID) error {
	if err := r.requireOwnedGroup(ctx, accountID, groupID); err != nil {
		return err
	}
	rec := behaviorGroupActionModel{
		BehaviorGroupID: groupID,
		EndpointID:      endpointID,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *behaviorGroupRepository) DeleteBehaviorGroupAction(ctx context.Context, accountID string, groupID, endpointID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("behavior_group_id = ? AND endpoint_id = ?", groupID, endpointID).
		Where("behavior_group_id IN (?)", r.ownedGroupIDs(accountID)).
		Delete(&behaviorGroupActionModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetDefaultBehaviorGroup flips the flag for the whole bundle in one
// statement so there is never a window with zero or multiple defaults.
// Internal-only: the account is deliberately not checked here.
func (r *behaviorGroupRepository) SetDefaultBehaviorGroup(ctx context.Context, bundleID, groupID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&behaviorGroupModel{}).
		Where("bundle_id = ?", bundleID).
		Update("default_behavior", gorm.Expr("(CASE WHEN id = ? THEN TRUE ELSE FALSE END)", groupID))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *behaviorGroupRepository) MuteEventType(ctx context.Context, accountID string, eventTypeID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("event_type_id = ?", eventTypeID).
		Where("behavior_group_id IN (?)", r.ownedGroupIDs(accountID)).
		Delete(&eventTypeBehaviorModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *behaviorGroupRepository) FindBehaviorGroupsByEventType(ctx context.Context, accountID string, eventTypeID uuid.UUID, page ports.Page) ([]domain.BehaviorGroup, error) {
	var rows []behaviorGroupModel
	query := r.db.WithContext(ctx).
		Joins("JOIN event_type_behaviors b ON b.behavior_group_id = behavior_groups.id").
		Where("behavior_groups.account_id = ? AND b.event_type_id = ?", accountID, eventTypeID)
	query = paginate(query, page)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	// Nested action collections are stripped from this read on purpose; the
	// consumers of this listing must receive a lean payload.
	groups := make([]domain.BehaviorGroup, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, toDomainBehaviorGroup(row, false))
	}
	return groups, nil
}

func (r *behaviorGroupRepository) FindEventTypesByBehaviorGroup(ctx context.Context, accountID string, groupID uuid.UUID) ([]domain.EventType, error) {
	var rows []eventTypeModel
	err := r.db.WithContext(ctx).
		Joins("JOIN event_type_behaviors b ON b.event_type_id = event_types.id").
		Joins("JOIN behavior_groups bg ON bg.id = b.behavior_group_id").
		Where("bg.account_id = ? AND bg.id = ?", accountID, groupID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	eventTypes := make([]domain.EventType, 0, len(rows))
	for _, row := range rows {
		eventTypes = append(eventTypes, toDomainEventType(row))
	}
	return eventTypes, nil
}

func (r *behaviorGroupRepository) requireOwnedGroup(ctx context.Context, accountID string, groupID uuid.UUID) error {
	var rec behaviorGroupModel
	err := r.db.WithContext(ctx).
		Select("id").
		Where("account_id = ? AND id = ?", accountID, groupID).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// ownedGroupIDs builds the account-scoping subquery used by association
// deletes: the association rows carry no account column themselves.
func (r *behaviorGroupRepository) ownedGroupIDs(accountID string) *gorm.DB {
	return r.db.Model(&behaviorGroupModel{}).Select("id").Where("account_id = ?", accountID)
}
