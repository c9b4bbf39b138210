package postgres

import (
	"github.com/hookline/notification-engine/internal/ports"
	"gorm.io/gorm"
)

// Repositories bundles every Postgres-backed port implementation behind one
// constructor so bootstrap wiring stays flat.
type Repositories struct {
	Bundles            ports.BundleRepository
	BehaviorGroups     ports.BehaviorGroupRepository
	Endpoints          ports.EndpointRepository
	EmailSubscriptions ports.EmailSubscriptionRepository
	Histories          ports.NotificationHistoryRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Bundles:            &bundleRepository{db: db},
		BehaviorGroups:     &behaviorGroupRepository{db: db},
		Endpoints:          &endpointRepository{db: db},
		EmailSubscriptions: &emailSubscriptionRepository{db: db},
		Histories:          &notificationHistoryRepository{db: db},
	}
}
