package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
)

// RouteRepo implements ports.RouteRepository with pgx.
type RouteRepo struct {
	db *DB
}

// NewRouteRepo creates a new RouteRepo.
func NewRouteRepo(db *DB) *RouteRepo {
	return &RouteRepo{db: db}
}

// Create inserts a route and its corridor matches in one transaction, so a
// route never appears without the services that were matched for it.
func (r *RouteRepo) Create(ctx context.Context, route *domain.Route) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO routes (user_id, origin_lat, origin_lng, dest_lat, dest_lng,
		                    distance_km, duration_min, geometry, steps)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, route.UserID, route.Origin.Lat, route.Origin.Lng,
		route.Destination.Lat, route.Destination.Lng,
		route.DistanceKm, route.DurationMin, route.Geometry, route.Steps,
	).Scan(&route.ID, &route.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert route: %w", err)
	}

	if len(route.Services) > 0 {
		batch := &pgx.Batch{}
		for i, m := range route.Services {
			batch.Queue(`
				INSERT INTO route_services (route_id, service_id, distance_km, position)
				VALUES ($1, $2, $3, $4)
			`, route.ID, m.Service.ID, m.DistanceKm, i)
		}
		br := tx.SendBatch(ctx, batch)
		for range route.Services {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("insert route service: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("close batch: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID returns a route with its matches, scoped to its owner.
func (r *RouteRepo) GetByID(ctx context.Context, id, userID string) (*domain.Route, error) {
	var route domain.Route
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, user_id, origin_lat, origin_lng, dest_lat, dest_lng,
		       distance_km, duration_min, geometry, COALESCE(steps, '[]'), created_at
		FROM routes WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&route.ID, &route.UserID,
		&route.Origin.Lat, &route.Origin.Lng,
		&route.Destination.Lat, &route.Destination.Lng,
		&route.DistanceKm, &route.DurationMin,
		&route.Geometry, &route.Steps, &route.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}

	matches, err := r.matchesFor(ctx, route.ID)
	if err != nil {
		return nil, err
	}
	route.Services = matches
	return &route, nil
}

// ListByUser returns the user's routes, newest first, without matches.
func (r *RouteRepo) ListByUser(ctx context.Context, userID string) ([]domain.Route, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, user_id, origin_lat, origin_lng, dest_lat, dest_lng,
		       distance_km, duration_min, geometry, COALESCE(steps, '[]'), created_at
		FROM routes WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	var routes []domain.Route
	for rows.Next() {
		var route domain.Route
		if err := rows.Scan(
			&route.ID, &route.UserID,
			&route.Origin.Lat, &route.Origin.Lng,
			&route.Destination.Lat, &route.Destination.Lng,
			&route.DistanceKm, &route.DurationMin,
			&route.Geometry, &route.Steps, &route.CreatedAt,
		); err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

// matchesFor loads the corridor matches recorded for a route, preserving
// the order they were matched in.
func (r *RouteRepo) matchesFor(ctx context.Context, routeID string) ([]domain.ServiceMatch, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT s.id, s.name, s.type, COALESCE(s.address, ''),
		       ST_Y(s.location::geometry) as lat,
		       ST_X(s.location::geometry) as lng,
		       COALESCE(s.contact_number, ''), s.rating, s.created_at,
		       rs.distance_km
		FROM route_services rs
		JOIN services s ON s.id = rs.service_id
		WHERE rs.route_id = $1
		ORDER BY rs.position
	`, routeID)
	if err != nil {
		return nil, fmt.Errorf("list route services: %w", err)
	}
	defer rows.Close()

	var matches []domain.ServiceMatch
	for rows.Next() {
		var m domain.ServiceMatch
		if err := rows.Scan(
			&m.Service.ID, &m.Service.Name, &m.Service.Type, &m.Service.Address,
			&m.Service.Location.Lat, &m.Service.Location.Lng,
			&m.Service.ContactNumber, &m.Service.Rating, &m.Service.CreatedAt,
			&m.DistanceKm,
		); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
