package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hookline/notification-engine/internal/domain"
	"github.com/hookline/notification-engine/internal/ports"
)

// Catalog administration is internal-only: bundles, applications and event
// types are process-wide, not tenant-scoped.

func (s *Service) CreateBundle(ctx context.Context, req CreateBundleRequest) (domain.Bundle, error) {
	if strings.TrimSpace(req.Name) == "" {
		return domain.Bundle{}, domain.ErrInvalidInput
	}
	return s.bundles.CreateBundle(ctx, domain.Bundle{
		Name:        strings.TrimSpace(req.Name),
		DisplayName: strings.TrimSpace(req.DisplayName),
	})
}

func (s *Service) GetBundle(ctx context.Context, id uuid.UUID) (domain.Bundle, error) {
	return s.bundles.GetBundle(ctx, id)
}

func (s *Service) ListBundles(ctx context.Context, page ports.Page) ([]domain.Bundle, error) {
	return s.bundles.ListBundles(ctx, page)
}

// DeleteBundle cascades through applications, their event types and the
// behaviors hanging off them; the schema owns the cascade.
func (s *Service) DeleteBundle(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.bundles.DeleteBundle(ctx, id)
}

func (s *Service) CreateApplication(ctx context.Context, req CreateApplicationRequest) (domain.Application, error) {
	if req.BundleID == uuid.Nil || strings.TrimSpace(req.Name) == "" {
		return domain.Application{}, domain.ErrInvalidInput
	}
	return s.bundles.CreateApplication(ctx, domain.Application{
		BundleID:    req.BundleID,
		Name:        strings.TrimSpace(req.Name),
		DisplayName: strings.TrimSpace(req.DisplayName),
	})
}

func (s *Service) ListApplications(ctx context.Context, bundleID uuid.UUID, page ports.Page) ([]domain.Application, error) {
	return s.bundles.ListApplications(ctx, bundleID, page)
}

func (s *Service) DeleteApplication(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.bundles.DeleteApplication(ctx, id)
}

func (s *Service) CreateEventType(ctx context.Context, req CreateEventTypeRequest) (domain.EventType, error) {
	if req.ApplicationID == uuid.Nil || strings.TrimSpace(req.Name) == "" {
		return domain.EventType{}, domain.ErrInvalidInput
	}
	return s.bundles.CreateEventType(ctx, domain.EventType{
		ApplicationID: req.ApplicationID,
		Name:          strings.TrimSpace(req.Name),
		DisplayName:   strings.TrimSpace(req.DisplayName),
		Description:   req.Description,
	})
}

func (s *Service) ListEventTypes(ctx context.Context, applicationID uuid.UUID, page ports.Page) ([]domain.EventType, error) {
	return s.bundles.ListEventTypes(ctx, applicationID, page)
}

func (s *Service) DeleteEventType(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.bundles.DeleteEventType(ctx, id)
}
