package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
	"gorm.io/gorm"
)

type endpointRepository struct {
	db *gorm.DB
}

func (r *endpointRepository) Create(ctx context.Context, endpoint domain.Endpoint) (domain.Endpoint, error) {
	var created domain.Endpoint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := endpointModel{
			AccountID:   endpoint.AccountID,
			Name:        endpoint.Name,
			Description: endpoint.Description,
			Enabled:     endpoint.Enabled,
			Type:        string(endpoint.Type),
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		if props, ok := endpoint.WebhookAttributes(); ok && endpoint.Type == domain.EndpointTypeWebhook {
			endpoint.ID = rec.ID
			webhook := toWebhookModel(endpoint, props)
			if err := tx.Create(&webhook).Error; err != nil {
				return err
			}
			rec.Webhook = &webhook
		}
		created = toDomainEndpoint(rec)
		return nil
	})
	if err != nil {
		return domain.Endpoint{}, err
	}
	return created, nil
}

func (r *endpointRepository) Get(ctx context.Context, accountID string, id uuid.UUID) (domain.Endpoint, error) {
	var rec endpointModel
	err := r.db.WithContext(ctx).
		Preload("Webhook").
		Where("account_id = ? AND id = ?", accountID, id).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Endpoint{}, domain.ErrNotFound
		}
		return domain.Endpoint{}, err
	}
	return toDomainEndpoint(rec), nil
}

func (r *endpointRepository) List(ctx context.Context, accountID string, page ports.Page) ([]domain.Endpoint, error) {
	var rows []endpointModel
	query := r.db.WithContext(ctx).
		Preload("Webhook").
		Where("account_id = ?", accountID).
		Order("created_at DESC")
	query = paginate(query, page)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainEndpoints(rows), nil
}

func (r *endpointRepository) ListByType(ctx context.Context, accountID string, filter ports.EndpointFilter, page ports.Page) ([]domain.Endpoint, error) {
	var rows []endpointModel
	query := r.db.WithContext(ctx).
		Preload("Webhook").
		Where("account_id = ? AND endpoint_type = ?", accountID, string(filter.Type)).
		Order("created_at DESC")
	if filter.ActiveOnly != nil {
		query = query.Where("enabled = ?", *filter.ActiveOnly)
	}
	query = paginate(query, page)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainEndpoints(rows), nil
}

func (r *endpointRepository) Count(ctx context.Context, accountID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&endpointModel{}).
		Where("account_id = ?", accountID).
		Count(&count).Error
	return count, err
}

func (r *endpointRepository) CountByType(ctx context.Context, accountID string, filter ports.EndpointFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&endpointModel{}).
		Where("account_id = ? AND endpoint_type = ?", accountID, string(filter.Type))
	if filter.ActiveOnly != nil {
		query = query.Where("enabled = ?", *filter.ActiveOnly)
	}
	err := query.Count(&count).Error
	return count, err
}

// Update writes the base row and the webhook attribute row inside one
// transaction. When the base update affects zero rows the endpoint does not
// exist for this account and the attribute write is skipped, so no orphan
// attribute row can appear.
func (r *endpointRepository) Update(ctx context.Context, endpoint domain.Endpoint) (bool, error) {
	updated := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&endpointModel{}).
			Where("account_id = ? AND id = ?", endpoint.AccountID, endpoint.ID).
			Updates(map[string]any{
				"name":        endpoint.Name,
				"description": endpoint.Description,
				"enabled":     endpoint.Enabled,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		updated = true

		props, ok := endpoint.WebhookAttributes()
		if !ok || endpoint.Type != domain.EndpointTypeWebhook {
			return nil
		}
		webhook := toWebhookModel(endpoint, props)
		return tx.Model(&endpointWebhookModel{}).
			Where("endpoint_id = ?", endpoint.ID).
			Updates(map[string]any{
				"url":                      webhook.URL,
				"method":                   webhook.Method,
				"disable_ssl_verification": webhook.DisableSSLVerification,
				"secret_token":             webhook.SecretToken,
				"basic_auth_username":      webhook.BasicAuthUsername,
				"basic_auth_password":      webhook.BasicAuthPassword,
			}).Error
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

func (r *endpointRepository) Delete(ctx context.Context, accountID string, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		Delete(&endpointModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *endpointRepository) SetEnabled(ctx context.Context, accountID string, id uuid.UUID, enabled bool) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&endpointModel{}).
		Where("account_id = ? AND id = ?", accountID, id).
		Update("enabled", enabled)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *endpointRepository) LinkEndpoint(ctx context.Context, accountID string, endpointID, eventTypeID uuid.UUID) error {
	rec := endpointTargetModel{
		AccountID:   accountID,
		EndpointID:  endpointID,
		EventTypeID: eventTypeID,
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

func (r *endpointRepository) UnlinkEndpoint(ctx context.Context, accountID string, endpointID, eventTypeID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("account_id = ? AND endpoint_id = ? AND event_type_id = ?", accountID, endpointID, eventTypeID).
		Delete(&endpointTargetModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *endpointRepository) GetLinkedEndpoints(ctx context.Context, accountID string, eventTypeID uuid.UUID, page ports.Page) ([]domain.Endpoint, error) {
	var rows []endpointModel
	query := r.db.WithContext(ctx).
		Preload("Webhook").
		Joins("JOIN endpoint_targets t ON t.endpoint_id = endpoints.id").
		Where("t.account_id = ? AND t.event_type_id = ?", accountID, eventTypeID)
	query = paginate(query, page)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainEndpoints(rows), nil
}

func (r *endpointRepository) GetDefaultEndpoints(ctx context.Context, accountID string) ([]domain.Endpoint, error) {
	var rows []endpointModel
	err := r.db.WithContext(ctx).
		Preload("Webhook").
		Joins("JOIN endpoint_defaults d ON d.endpoint_id = endpoints.id").
		Where("d.account_id = ?", accountID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainEndpoints(rows), nil
}

// AddEndpointToDefaults surfaces both duplicates and unknown endpoints as a
// bad-request signal, matching the administrative contract for the legacy
// defaults list.
func (r *endpointRepository) AddEndpointToDefaults(ctx context.Context, accountID string, endpointID uuid.UUID) error {
	rec := endpointDefaultModel{
		AccountID:  accountID,
		EndpointID: endpointID,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) || isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return err
	}
	return nil
}

func (r *endpointRepository) EndpointInDefaults(ctx context.Context, accountID string, endpointID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&endpointDefaultModel{}).
		Where("account_id = ? AND endpoint_id = ?", accountID, endpointID).
		Count(&count).Error
	return count > 0, err
}

func (r *endpointRepository) DeleteEndpointFromDefaults(ctx context.Context, accountID string, endpointID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("account_id = ? AND endpoint_id = ?", accountID, endpointID).
		Delete(&endpointDefaultModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindActiveTargetEndpoints is the legacy resolution query: endpoints linked
// directly to the event type, enabled only.
func (r *endpointRepository) FindActiveTargetEndpoints(ctx context.Context, accountID, bundle, application, eventType string) ([]domain.Endpoint, error) {
	var rows []endpointModel
	err := r.db.WithContext(ctx).
		Preload("Webhook").
		Joins("JOIN endpoint_targets t ON t.endpoint_id = endpoints.id").
		Joins("JOIN event_types et ON et.id = t.event_type_id").
		Joins("JOIN applications a ON a.id = et.application_id").
		Joins("JOIN bundles b ON b.id = a.bundle_id").
		Where("endpoints.enabled = TRUE AND t.account_id = ?", accountID).
		Where("b.name = ? AND a.name = ? AND et.name = ?", bundle, application, eventType).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainEndpoints(rows), nil
}

// FindActiveBehaviorGroupEndpoints walks Endpoint -> BehaviorGroupAction ->
// BehaviorGroup -> EventTypeBehavior -> EventType, scoped by the behavior
// group's account. Action insertion order is dispatch order.
func (r *endpointRepository) FindActiveBehaviorGroupEndpoints(ctx context.Context, accountID, bundle, application, eventType string) ([]domain.Endpoint, error) {
	var rows []endpointModel
	err := r.db.WithContext(ctx).
		Preload("Webhook").
		Joins("JOIN behavior_group_actions bga ON bga.endpoint_id = endpoints.id").
		Joins("JOIN behavior_groups bg ON bg.id = bga.behavior_group_id").
		Joins("JOIN event_type_behaviors b ON b.behavior_group_id = bg.id").
		Joins("JOIN event_types et ON et.id = b.event_type_id").
		Joins("JOIN applications a ON a.id = et.application_id").
		Joins("JOIN bundles bu ON bu.id = a.bundle_id").
		Where("endpoints.enabled = TRUE AND bg.account_id = ?", accountID).
		Where("bu.name = ? AND a.name = ? AND et.name = ?", bundle, application, eventType).
		Order("bga.created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainEndpoints(rows), nil
}
