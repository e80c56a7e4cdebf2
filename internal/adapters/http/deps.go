package http

import (
	"github.com/RichBen03/SafeRoute/internal/adapters/postgres"
	"github.com/RichBen03/SafeRoute/internal/core/ports"
	"github.com/RichBen03/SafeRoute/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Registry *usecases.ServiceRegistry
	Planner  *usecases.RoutePlanner
	Search   *usecases.SearchService
	Geocode  *usecases.GeocodeService
	DB       *postgres.DB
	Cache    ports.CacheService
}
