package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func toDomainBundle(row bundleModel) domain.Bundle {
	return domain.Bundle{
		ID:          row.ID,
		Name:        row.Name,
		DisplayName: row.DisplayName,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func toDomainApplication(row applicationModel) domain.Application {
	return domain.Application{
		ID:          row.ID,
		BundleID:    row.BundleID,
		Name:        row.Name,
		DisplayName: row.DisplayName,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func toDomainEventType(row eventTypeModel) domain.EventType {
	return domain.EventType{
		ID:            row.ID,
		ApplicationID: row.ApplicationID,
		Name:          row.Name,
		DisplayName:   row.DisplayName,
		Description:   row.Description,
	}
}

func toDomainBehaviorGroup(row behaviorGroupModel, withActions bool) domain.BehaviorGroup {
	group := domain.BehaviorGroup{
		ID:              row.ID,
		AccountID:       row.AccountID,
		BundleID:        row.BundleID,
		Name:            row.Name,
		DisplayName:     row.DisplayName,
		DefaultBehavior: row.DefaultBehavior,
		CreatedAt:       row.CreatedAt,
	}
	if withActions {
		for _, action := range row.Actions {
			group.Actions = append(group.Actions, domain.BehaviorGroupAction{
				BehaviorGroupID: action.BehaviorGroupID,
				EndpointID:      action.EndpointID,
				CreatedAt:       action.CreatedAt,
			})
		}
	}
	return group
}

// toDomainEndpoint assembles the endpoint value object, including the
// type-specific properties when the variant defines attributes and the
// attribute row was fetched.
func toDomainEndpoint(row endpointModel) domain.Endpoint {
	endpoint := domain.Endpoint{
		ID:          row.ID,
		AccountID:   row.AccountID,
		Name:        row.Name,
		Description: row.Description,
		Enabled:     row.Enabled,
		Type:        domain.EndpointType(row.Type),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if endpoint.Type == domain.EndpointTypeWebhook && row.Webhook != nil {
		props := domain.WebhookProperties{
			URL:                    row.Webhook.URL,
			Method:                 row.Webhook.Method,
			DisableSSLVerification: row.Webhook.DisableSSLVerification,
		}
		if row.Webhook.SecretToken != nil {
			props.SecretToken = *row.Webhook.SecretToken
		}
		if row.Webhook.BasicAuthUsername != nil || row.Webhook.BasicAuthPassword != nil {
			auth := &domain.BasicAuthentication{}
			if row.Webhook.BasicAuthUsername != nil {
				auth.Username = *row.Webhook.BasicAuthUsername
			}
			if row.Webhook.BasicAuthPassword != nil {
				auth.Password = *row.Webhook.BasicAuthPassword
			}
			props.BasicAuth = auth
		}
		endpoint.Properties = props
	}
	return endpoint
}

func toDomainEndpoints(rows []endpointModel) []domain.Endpoint {
	endpoints := make([]domain.Endpoint, 0, len(rows))
	for _, row := range rows {
		endpoints = append(endpoints, toDomainEndpoint(row))
	}
	return endpoints
}

func toWebhookModel(endpoint domain.Endpoint, props domain.WebhookProperties) endpointWebhookModel {
	row := endpointWebhookModel{
		EndpointID:             endpoint.ID,
		URL:                    props.URL,
		Method:                 props.Method,
		DisableSSLVerification: props.DisableSSLVerification,
		SecretToken:            nullableString(props.SecretToken),
	}
	if props.BasicAuth != nil {
		row.BasicAuthUsername = nullableString(props.BasicAuth.Username)
		row.BasicAuthPassword = nullableString(props.BasicAuth.Password)
	}
	return row
}

func toDomainEmailSubscription(row emailSubscriptionModel, bundle, application string) ports.EmailSubscription {
	return ports.EmailSubscription{
		AccountID:     row.AccountID,
		UserID:        row.UserID,
		ApplicationID: row.ApplicationID,
		Bundle:        bundle,
		Application:   application,
		Type:          ports.EmailSubscriptionType(row.SubscriptionType),
	}
}

func toDomainHistory(row notificationHistoryModel) domain.NotificationHistory {
	return domain.NotificationHistory{
		ID:                 row.ID,
		AccountID:          row.AccountID,
		EndpointID:         row.EndpointID,
		InvocationTime:     row.InvocationTime,
		InvocationDuration: msToDuration(row.InvocationDurationMS),
		InvocationResult:   row.InvocationResult,
		EventType:          row.EventType,
		Details:            map[string]any(row.Details),
	}
}

func toHistoryModel(history domain.NotificationHistory) notificationHistoryModel {
	return notificationHistoryModel{
		ID:                   history.ID,
		AccountID:            history.AccountID,
		EndpointID:           history.EndpointID,
		InvocationTime:       history.InvocationTime,
		InvocationDurationMS: history.InvocationDuration.Milliseconds(),
		InvocationResult:     history.InvocationResult,
		EventType:            history.EventType,
		Details:              datatypes.JSONMap(history.Details),
	}
}

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func nullableString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
