package ports

import (
	"context"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
)

// ServiceRepository persists registered services.
type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) error
	Update(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	// List returns all services, optionally filtered by type
	// (case-insensitive). An empty typeFilter returns everything.
	List(ctx context.Context, typeFilter string) ([]domain.Service, error)
}

// RouteRepository persists routes and their matched services.
type RouteRepository interface {
	// Create stores the route and its service matches in one transaction.
	Create(ctx context.Context, r *domain.Route) error
	GetByID(ctx context.Context, id, userID string) (*domain.Route, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Route, error)
}

// SearchHistoryRepository persists nearby searches and their results.
type SearchHistoryRepository interface {
	// Create stores the search and its results in one transaction.
	Create(ctx context.Context, h *domain.SearchHistory) error
	ListByUser(ctx context.Context, userID string) ([]domain.SearchHistory, error)
	Delete(ctx context.Context, id, userID string) error
}
