package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
)

// CreateEndpoint validates the variant tag and its attribute payload before
// the repository persists both rows together.
func (s *Service) CreateEndpoint(ctx context.Context, accountID string, req CreateEndpointRequest) (domain.Endpoint, error) {
	if strings.TrimSpace(accountID) == "" {
		return domain.Endpoint{}, domain.ErrUnauthorized
	}
	if strings.TrimSpace(req.Name) == "" || !domain.ValidEndpointType(req.Type) {
		return domain.Endpoint{}, domain.ErrInvalidInput
	}
	endpoint := domain.Endpoint{
		AccountID:   accountID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Enabled:     req.Enabled,
		Type:        req.Type,
	}
	if req.Type == domain.EndpointTypeWebhook {
		if req.Webhook == nil || strings.TrimSpace(req.Webhook.URL) == "" {
			return domain.Endpoint{}, domain.ErrInvalidInput
		}
		endpoint.Properties = *req.Webhook
	}
	return s.endpoints.Create(ctx, endpoint)
}

func (s *Service) GetEndpoint(ctx context.Context, accountID string, id uuid.UUID) (domain.Endpoint, error) {
	return s.endpoints.Get(ctx, accountID, id)
}

func (s *Service) ListEndpoints(ctx context.Context, accountID string, query ListEndpointsQuery) ([]domain.Endpoint, error) {
	if query.Type == "" {
		return s.endpoints.List(ctx, accountID, query.Page)
	}
	filter := ports.EndpointFilter{Type: query.Type, ActiveOnly: query.ActiveOnly}
	return s.endpoints.ListByType(ctx, accountID, filter, query.Page)
}

func (s *Service) CountEndpoints(ctx context.Context, accountID string, query ListEndpointsQuery) (int64, error) {
	if query.Type == "" {
		return s.endpoints.Count(ctx, accountID)
	}
	filter := ports.EndpointFilter{Type: query.Type, ActiveOnly: query.ActiveOnly}
	return s.endpoints.CountByType(ctx, accountID, filter)
}

// UpdateEndpoint keeps the base row and the attribute row consistent: the
// repository treats both writes as one unit and never creates an attribute
// row for an endpoint that does not exist.
func (s *Service) UpdateEndpoint(ctx context.Context, accountID string, id uuid.UUID, req UpdateEndpointRequest) (bool, error) {
	if strings.TrimSpace(req.Name) == "" {
		return false, domain.ErrInvalidInput
	}
	existing, err := s.endpoints.Get(ctx, accountID, id)
	if err != nil {
		return false, err
	}
	endpoint := domain.Endpoint{
		ID:          id,
		AccountID:   accountID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Enabled:     req.Enabled,
		Type:        existing.Type,
	}
	if existing.Type == domain.EndpointTypeWebhook {
		if req.Webhook != nil {
			endpoint.Properties = *req.Webhook
		} else if props, ok := existing.WebhookAttributes(); ok {
			// Callers updating only the base fields keep their webhook
			// attributes byte-identical.
			endpoint.Properties = props
		}
	}
	return s.endpoints.Update(ctx, endpoint)
}

func (s *Service) DeleteEndpoint(ctx context.Context, accountID string, id uuid.UUID) (bool, error) {
	return s.endpoints.Delete(ctx, accountID, id)
}

func (s *Service) EnableEndpoint(ctx context.Context, accountID string, id uuid.UUID) (bool, error) {
	return s.endpoints.SetEnabled(ctx, accountID, id, true)
}

func (s *Service) DisableEndpoint(ctx context.Context, accountID string, id uuid.UUID) (bool, error) {
	return s.endpoints.SetEnabled(ctx, accountID, id, false)
}

// LinkEndpoint is the legacy direct association between an endpoint and an
// event type. Duplicates collapse to LinkAlreadyExists like the
// behavior-group associations.
func (s *Service) LinkEndpoint(ctx context.Context, accountID string, endpointID, eventTypeID uuid.UUID) (LinkOutcome, error) {
	err := s.endpoints.LinkEndpoint(ctx, accountID, endpointID, eventTypeID)
	return s.linkOutcome(ctx, "link_endpoint", err)
}

func (s *Service) UnlinkEndpoint(ctx context.Context, accountID string, endpointID, eventTypeID uuid.UUID) (bool, error) {
	return s.endpoints.UnlinkEndpoint(ctx, accountID, endpointID, eventTypeID)
}

func (s *Service) GetLinkedEndpoints(ctx context.Context, accountID string, eventTypeID uuid.UUID, page ports.Page) ([]domain.Endpoint, error) {
	return s.endpoints.GetLinkedEndpoints(ctx, accountID, eventTypeID, page)
}

func (s *Service) GetDefaultEndpoints(ctx context.Context, accountID string) ([]domain.Endpoint, error) {
	return s.endpoints.GetDefaultEndpoints(ctx, accountID)
}

func (s *Service) AddEndpointToDefaults(ctx context.Context, accountID string, endpointID uuid.UUID) error {
	return s.endpoints.AddEndpointToDefaults(ctx, accountID, endpointID)
}

func (s *Service) EndpointInDefaults(ctx context.Context, accountID string, endpointID uuid.UUID) (bool, error) {
	return s.endpoints.EndpointInDefaults(ctx, accountID, endpointID)
}

func (s *Service) DeleteEndpointFromDefaults(ctx context.Context, accountID string, endpointID uuid.UUID) (bool, error) {
	return s.endpoints.DeleteEndpointFromDefaults(ctx, accountID, endpointID)
}

func (s *Service) ListEndpointHistory(ctx context.Context, accountID string, endpointID uuid.UUID, page ports.Page) ([]domain.NotificationHistory, error) {
	return s.histories.ListByEndpoint(ctx, accountID, endpointID, page)
}
