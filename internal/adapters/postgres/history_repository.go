package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
	"gorm.io/gorm"
)

type notificationHistoryRepository struct {
	db *gorm.DB
}

func (r *notificationHistoryRepository) Create(ctx context.Context, history domain.NotificationHistory) (domain.NotificationHistory, error) {
	rec := toHistoryModel(history)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotificationHistory{}, domain.ErrNotFound
		}
		return domain.NotificationHistory{}, err
	}
	return toDomainHistory(rec), nil
}

func (r *notificationHistoryRepository) ListByEndpoint(ctx context.Context, accountID string, endpointID uuid.UUID, page ports.Page) ([]domain.NotificationHistory, error) {
	var rows []notificationHistoryModel
	query := r.db.WithContext(ctx).
		Where("account_id = ? AND endpoint_id = ?", accountID, endpointID).
		Order("invocation_time DESC")
	query = paginate(query, page)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	histories := make([]domain.NotificationHistory, 0, len(rows))
	for _, row := range rows {
		histories = append(histories, toDomainHistory(row))
	}
	return histories, nil
}
