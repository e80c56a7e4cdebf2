package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
	"github.com/RichBen03/SafeRoute/internal/core/usecases"
)

// userID extracts the caller identity set by the gateway. Empty means the
// request is anonymous.
func userID(c *fiber.Ctx) string {
	return c.Get("X-User-ID")
}

// ListServicesHandler lists registered services, optionally by type.
func ListServicesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		services, err := deps.Registry.List(c.Context(), c.Query("type"))
		if err != nil {
			return mapDomainError(c, err)
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		total := len(services)
		if offset >= total {
			services = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			services = services[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: services, Pagination: pg})
	}
}

// GetServiceHandler returns a single service by ID.
func GetServiceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "service id is required")
		}
		service, err := deps.Registry.Get(c.Context(), id)
		if err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(service)
	}
}

// CreateServiceHandler registers a new service.
func CreateServiceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var service domain.Service
		if err := c.BodyParser(&service); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := deps.Registry.Create(c.Context(), &service); err != nil {
			return mapDomainError(c, err)
		}
		return c.Status(201).JSON(service)
	}
}

// UpdateServiceHandler replaces an existing service.
func UpdateServiceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var service domain.Service
		if err := c.BodyParser(&service); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		service.ID = c.Params("id")
		if err := deps.Registry.Update(c.Context(), &service); err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(service)
	}
}

// DeleteServiceHandler removes a service.
func DeleteServiceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Registry.Delete(c.Context(), c.Params("id")); err != nil {
			return mapDomainError(c, err)
		}
		return c.SendStatus(204)
	}
}

// NearbyServicesHandler finds services around a point and records the
// search in the caller's history.
func NearbyServicesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := userID(c)
		if uid == "" {
			return errUnauthorized(c, "X-User-ID header is required")
		}

		lat := c.QueryFloat("lat", 0)
		lng := c.QueryFloat("lng", 0)
		if c.Query("lat") == "" || c.Query("lng") == "" {
			return errBadRequest(c, "lat and lng are required")
		}
		radiusKm := c.QueryFloat("radius_km", usecases.DefaultSearchRadiusKm)

		entry, err := deps.Search.Nearby(c.Context(), uid,
			domain.Coordinate{Lat: lat, Lng: lng}, radiusKm, c.Query("type"), c.Query("q"))
		if err != nil {
			return mapDomainError(c, err)
		}

		c.Set("Cache-Control", "private, max-age=0")
		return c.JSON(entry)
	}
}

// routeRequest is the body for route creation.
type routeRequest struct {
	Origin      domain.Coordinate `json:"origin"`
	Destination domain.Coordinate `json:"destination"`
	RadiusKm    float64           `json:"radius_km"`
}

// CreateRouteHandler plans a route and matches services along its corridor.
func CreateRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := userID(c)
		if uid == "" {
			return errUnauthorized(c, "X-User-ID header is required")
		}

		var req routeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.RadiusKm == 0 {
			req.RadiusKm = 1
		}

		route, err := deps.Planner.Create(c.Context(), uid, req.Origin, req.Destination, req.RadiusKm)
		if err != nil {
			return mapDomainError(c, err)
		}
		return c.Status(201).JSON(route)
	}
}

// GetRouteHandler returns one of the caller's routes with its matches.
func GetRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := userID(c)
		if uid == "" {
			return errUnauthorized(c, "X-User-ID header is required")
		}
		route, err := deps.Planner.Get(c.Context(), c.Params("id"), uid)
		if err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(route)
	}
}

// ListRoutesHandler returns the caller's routes, newest first.
func ListRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := userID(c)
		if uid == "" {
			return errUnauthorized(c, "X-User-ID header is required")
		}
		routes, err := deps.Planner.ListByUser(c.Context(), uid)
		if err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(routes)
	}
}

// GeocodeHandler resolves a free-text address to coordinates.
func GeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		address := c.Query("address")
		if address == "" {
			return errBadRequest(c, "address query parameter is required")
		}
		result, err := deps.Geocode.Resolve(c.Context(), address)
		if err != nil {
			return mapDomainError(c, err)
		}

		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(result)
	}
}

// SearchHistoryHandler returns the caller's searches, newest first.
func SearchHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := userID(c)
		if uid == "" {
			return errUnauthorized(c, "X-User-ID header is required")
		}
		entries, err := deps.Search.History(c.Context(), uid)
		if err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(entries)
	}
}

// DeleteSearchHandler removes one of the caller's history entries.
func DeleteSearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := userID(c)
		if uid == "" {
			return errUnauthorized(c, "X-User-ID header is required")
		}
		if err := deps.Search.DeleteHistory(c.Context(), c.Params("id"), uid); err != nil {
			return mapDomainError(c, err)
		}
		return c.SendStatus(204)
	}
}
