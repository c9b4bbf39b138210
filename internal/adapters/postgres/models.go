package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type bundleModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name"`
	DisplayName string    `gorm:"column:display_name"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (bundleModel) TableName() string { return "bundles" }

type applicationModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BundleID    uuid.UUID `gorm:"column:bundle_id"`
	Name        string    `gorm:"column:name"`
	DisplayName string    `gorm:"column:display_name"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (applicationModel) TableName() string { return "applications" }

type eventTypeModel struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ApplicationID uuid.UUID `gorm:"column:application_id"`
	Name          string    `gorm:"column:name"`
	DisplayName   string    `gorm:"column:display_name"`
	Description   string    `gorm:"column:description"`
}

func (eventTypeModel) TableName() string { return "event_types" }

type behaviorGroupModel struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID       string    `gorm:"column:account_id"`
	BundleID        uuid.UUID `gorm:"column:bundle_id"`
	Name            string    `gorm:"column:name"`
	DisplayName     string    `gorm:"column:display_name"`
	DefaultBehavior bool      `gorm:"column:default_behavior"`
	CreatedAt       time.Time `gorm:"column:created_at"`

	Actions []behaviorGroupActionModel `gorm:"foreignKey:BehaviorGroupID"`
}

func (behaviorGroupModel) TableName() string { return "behavior_groups" }

type eventTypeBehaviorModel struct {
	EventTypeID     uuid.UUID `gorm:"column:event_type_id;primaryKey"`
	BehaviorGroupID uuid.UUID `gorm:"column:behavior_group_id;primaryKey"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (eventTypeBehaviorModel) TableName() string { return "event_type_behaviors" }

type behaviorGroupActionModel struct {
	BehaviorGroupID uuid.UUID `gorm:"column:behavior_group_id;primaryKey"`
	EndpointID      uuid.UUID `gorm:"column:endpoint_id;primaryKey"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (behaviorGroupActionModel) TableName() string { return "behavior_group_actions" }

type endpointModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID   string    `gorm:"column:account_id"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	Enabled     bool      `gorm:"column:enabled"`
	Type        string    `gorm:"column:endpoint_type"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`

	Webhook *endpointWebhookModel `gorm:"foreignKey:EndpointID"`
}

func (endpointModel) TableName() string { return "endpoints" }

type endpointWebhookModel struct {
	EndpointID             uuid.UUID `gorm:"column:endpoint_id;primaryKey"`
	URL                    string    `gorm:"column:url"`
	Method                 string    `gorm:"column:method"`
	DisableSSLVerification bool      `gorm:"column:disable_ssl_verification"`
	SecretToken            *string   `gorm:"column:secret_token"`
	BasicAuthUsername      *string   `gorm:"column:basic_auth_username"`
	BasicAuthPassword      *string   `gorm:"column:basic_auth_password"`
}

func (endpointWebhookModel) TableName() string { return "endpoint_webhooks" }

type endpointTargetModel struct {
	AccountID   string    `gorm:"column:account_id;primaryKey"`
	EndpointID  uuid.UUID `gorm:"column:endpoint_id;primaryKey"`
	EventTypeID uuid.UUID `gorm:"column:event_type_id;primaryKey"`
}

func (endpointTargetModel) TableName() string { return "endpoint_targets" }

type endpointDefaultModel struct {
	AccountID  string    `gorm:"column:account_id;primaryKey"`
	EndpointID uuid.UUID `gorm:"column:endpoint_id;primaryKey"`
}

func (endpointDefaultModel) TableName() string { return "endpoint_defaults" }

type emailSubscriptionModel struct {
	AccountID        string    `gorm:"column:account_id;primaryKey"`
	UserID           string    `gorm:"column:user_id;primaryKey"`
	ApplicationID    uuid.UUID `gorm:"column:application_id;primaryKey"`
	SubscriptionType string    `gorm:"column:subscription_type;primaryKey"`
}

func (emailSubscriptionModel) TableName() string { return "endpoint_email_subscriptions" }

type notificationHistoryModel struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID            string            `gorm:"column:account_id"`
	EndpointID           uuid.UUID         `gorm:"column:endpoint_id"`
	InvocationTime       time.Time         `gorm:"column:invocation_time"`
	InvocationDurationMS int64             `gorm:"column:invocation_duration_ms"`
	InvocationResult     bool              `gorm:"column:invocation_result"`
	EventType            string            `gorm:"column:event_type"`
	Details              datatypes.JSONMap `gorm:"column:details"`
	CreatedAt            time.Time         `gorm:"column:created_at"`
}

func (notificationHistoryModel) TableName() string { return "notification_history" }
