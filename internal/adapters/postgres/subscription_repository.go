package postgres

import (
	"context"
	"errors"

	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
	"gorm.io/gorm"
)

type emailSubscriptionRepository struct {
	db *gorm.DB
}

// Subscribe is idempotent: the conflict target is the full primary key, so a
// re-subscribe leaves the existing row untouched and reports success.
func (r *emailSubscriptionRepository) Subscribe(ctx context.Context, accountID, userID, bundle, application string, subType ports.EmailSubscriptionType) error {
	query := `INSERT INTO endpoint_email_subscriptions (account_id, user_id, application_id, subscription_type)
		SELECT ?, ?, a.id, ?
		FROM applications a JOIN bundles b ON a.bundle_id = b.id
		WHERE a.name = ? AND b.name = ?
		ON CONFLICT (account_id, user_id, application_id, subscription_type) DO NOTHING`
	res := r.db.WithContext(ctx).Exec(query, accountID, userID, string(subType), application, bundle)
	if res.Error != nil {
		return res.Error
	}
	return nil
}

func (r *emailSubscriptionRepository) Unsubscribe(ctx context.Context, accountID, userID, bundle, application string, subType ports.EmailSubscriptionType) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("account_id = ? AND user_id = ? AND subscription_type = ?", accountID, userID, string(subType)).
		Where("application_id IN (?)", r.applicationIDs(bundle, application)).
		Delete(&emailSubscriptionModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *emailSubscriptionRepository) Get(ctx context.Context, accountID, userID, bundle, application string, subType ports.EmailSubscriptionType) (ports.EmailSubscription, error) {
	var row emailSubscriptionModel
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND user_id = ? AND subscription_type = ?", accountID, userID, string(subType)).
		Where("application_id IN (?)", r.applicationIDs(bundle, application)).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.EmailSubscription{}, domain.ErrNotFound
		}
		return ports.EmailSubscription{}, err
	}
	return toDomainEmailSubscription(row, bundle, application), nil
}

func (r *emailSubscriptionRepository) ListForUser(ctx context.Context, accountID, userID string) ([]ports.EmailSubscription, error) {
	type subscriptionRow struct {
		emailSubscriptionModel
		BundleName      string `gorm:"column:bundle_name"`
		ApplicationName string `gorm:"column:application_name"`
	}
	var rows []subscriptionRow
	err := r.db.WithContext(ctx).
		Model(&emailSubscriptionModel{}).
		Select("endpoint_email_subscriptions.*, b.name AS bundle_name, a.name AS application_name").
		Joins("JOIN applications a ON a.id = endpoint_email_subscriptions.application_id").
		Joins("JOIN bundles b ON b.id = a.bundle_id").
		Where("endpoint_email_subscriptions.account_id = ? AND endpoint_email_subscriptions.user_id = ?", accountID, userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	subscriptions := make([]ports.EmailSubscription, 0, len(rows))
	for _, row := range rows {
		subscriptions = append(subscriptions, toDomainEmailSubscription(row.emailSubscriptionModel, row.BundleName, row.ApplicationName))
	}
	return subscriptions, nil
}

func (r *emailSubscriptionRepository) CountSubscribers(ctx context.Context, accountID, bundle, application string, subType ports.EmailSubscriptionType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&emailSubscriptionModel{}).
		Where("account_id = ? AND subscription_type = ?", accountID, string(subType)).
		Where("application_id IN (?)", r.applicationIDs(bundle, application)).
		Count(&count).Error
	return count, err
}

func (r *emailSubscriptionRepository) ListSubscribers(ctx context.Context, accountID, bundle, application string, subType ports.EmailSubscriptionType) ([]ports.EmailSubscription, error) {
	var rows []emailSubscriptionModel
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND subscription_type = ?", accountID, string(subType)).
		Where("application_id IN (?)", r.applicationIDs(bundle, application)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	subscriptions := make([]ports.EmailSubscription, 0, len(rows))
	for _, row := range rows {
		subscriptions = append(subscriptions, toDomainEmailSubscription(row, bundle, application))
	}
	return subscriptions, nil
}

func (r *emailSubscriptionRepository) applicationIDs(bundle, application string) *gorm.DB {
	return r.db.Model(&applicationModel{}).
		Select("applications.id").
		Joins("JOIN bundles b ON b.id = applications.bundle_id").
		Where("applications.name = ? AND b.name = ?", application, bundle)
}
