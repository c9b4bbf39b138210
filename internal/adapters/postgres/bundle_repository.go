package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
	"gorm.io/gorm"
)

type bundleRepository struct {
	db *gorm.DB
}

func (r *bundleRepository) CreateBundle(ctx context.Context, bundle domain.Bundle) (domain.Bundle, error) {
	rec := bundleModel{
		Name:        bundle.Name,
		DisplayName: bundle.DisplayName,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Bundle{}, domain.ErrConflict
		}
		return domain.Bundle{}, err
	}
	return toDomainBundle(rec), nil
}

func (r *bundleRepository) GetBundle(ctx context.Context, id uuid.UUID) (domain.Bundle, error) {
	var rec bundleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Bundle{}, domain.ErrNotFound
		}
		return domain.Bundle{}, err
	}
	return toDomainBundle(rec), nil
}

func (r *bundleRepository) ListBundles(ctx context.Context, page ports.Page) ([]domain.Bundle, error) {
	var rows []bundleModel
	query := r.db.WithContext(ctx).Order("name ASC")
	query = paginate(query, page)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	bundles := make([]domain.Bundle, 0, len(rows))
	for _, row := range rows {
		bundles = append(bundles, toDomainBundle(row))
	}
	return bundles, nil
}

func (r *bundleRepository) DeleteBundle(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&bundleModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bundleRepository) CreateApplication(ctx context.Context, app domain.Application) (domain.Application, error) {
	rec := applicationModel{
		BundleID:    app.BundleID,
		Name:        app.Name,
		DisplayName: app.DisplayName,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Application{}, domain.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return domain.Application{}, domain.ErrNotFound
		}
		return domain.Application{}, err
	}
	return toDomainApplication(rec), nil
}

func (r *bundleRepository) ListApplications(ctx context.Context, bundleID uuid.UUID, page ports.Page) ([]domain.Application, error) {
	var rows []applicationModel
	query := r.db.WithContext(ctx).Where("bundle_id = ?", bundleID).Order("name ASC")
	query = paginate(query, page)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	apps := make([]domain.Application, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, toDomainApplication(row))
	}
	return apps, nil
}

func (r *bundleRepository) DeleteApplication(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&applicationModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bundleRepository) CreateEventType(ctx context.Context, eventType domain.EventType) (domain.EventType, error) {
	rec := eventTypeModel{
		ApplicationID: eventType.ApplicationID,
		Name:          eventType.Name,
		DisplayName:   eventType.DisplayName,
		Description:   eventType.Description,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.EventType{}, domain.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return domain.EventType{}, domain.ErrNotFound
		}
		return domain.EventType{}, err
	}
	return toDomainEventType(rec), nil
}

func (r *bundleRepository) ListEventTypes(ctx context.Context, applicationID uuid.UUID, page ports.Page) ([]domain.EventType, error) {
	var rows []eventTypeModel
	query := r.db.WithContext(ctx).Where("application_id = ?", applicationID).Order("name ASC")
	query = paginate(query, page)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	eventTypes := make([]domain.EventType, 0, len(rows))
	for _, row := range rows {
		eventTypes = append(eventTypes, toDomainEventType(row))
	}
	return eventTypes, nil
}

func (r *bundleRepository) DeleteEventType(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&eventTypeModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// paginate applies the shared limit/offset contract: limit only counts when
// positive.
func paginate(query *gorm.DB, page ports.Page) *gorm.DB {
	if page.Limit > 0 {
		query = query.Limit(page.Limit).Offset(page.Offset)
	}
	return query
}
