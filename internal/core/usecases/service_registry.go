package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
	"github.com/RichBen03/SafeRoute/internal/core/ports"
)

// ServiceRegistry manages the catalogue of registered services.
type ServiceRegistry struct {
	services ports.ServiceRepository
}

// NewServiceRegistry creates a ServiceRegistry.
func NewServiceRegistry(services ports.ServiceRepository) *ServiceRegistry {
	return &ServiceRegistry{services: services}
}

func validateService(s *domain.Service) error {
	if s.Name == "" {
		return fmt.Errorf("service name is required: %w", domain.ErrInvalidInput)
	}
	if !domain.KnownServiceType(string(s.Type)) {
		return fmt.Errorf("unknown service type %q: %w", s.Type, domain.ErrInvalidInput)
	}
	if !s.Location.Valid() {
		return fmt.Errorf("service location must be a valid lat/lng pair: %w", domain.ErrInvalidInput)
	}
	return nil
}

// Create registers a new service. The type is stored lowercased.
func (r *ServiceRegistry) Create(ctx context.Context, s *domain.Service) error {
	if err := validateService(s); err != nil {
		return err
	}
	s.Type = domain.ServiceType(strings.ToLower(string(s.Type)))
	return r.services.Create(ctx, s)
}

// Update replaces an existing service.
func (r *ServiceRegistry) Update(ctx context.Context, s *domain.Service) error {
	if s.ID == "" {
		return fmt.Errorf("service id is required: %w", domain.ErrInvalidInput)
	}
	if err := validateService(s); err != nil {
		return err
	}
	s.Type = domain.ServiceType(strings.ToLower(string(s.Type)))
	return r.services.Update(ctx, s)
}

// Delete removes a service.
func (r *ServiceRegistry) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("service id is required: %w", domain.ErrInvalidInput)
	}
	return r.services.Delete(ctx, id)
}

// Get returns a service by id.
func (r *ServiceRegistry) Get(ctx context.Context, id string) (*domain.Service, error) {
	if id == "" {
		return nil, fmt.Errorf("service id is required: %w", domain.ErrInvalidInput)
	}
	return r.services.GetByID(ctx, id)
}

// List returns services, optionally filtered by type (case-insensitive).
func (r *ServiceRegistry) List(ctx context.Context, typeFilter string) ([]domain.Service, error) {
	if typeFilter != "" && !domain.KnownServiceType(typeFilter) {
		return nil, fmt.Errorf("unknown service type %q: %w", typeFilter, domain.ErrInvalidInput)
	}
	return r.services.List(ctx, strings.ToLower(typeFilter))
}
