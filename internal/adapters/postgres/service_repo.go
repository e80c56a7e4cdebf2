package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
)

// ServiceRepo implements ports.ServiceRepository with pgx.
type ServiceRepo struct {
	db *DB
}

// NewServiceRepo creates a new ServiceRepo.
func NewServiceRepo(db *DB) *ServiceRepo {
	return &ServiceRepo{db: db}
}

// Create inserts a service and fills in its generated id.
func (r *ServiceRepo) Create(ctx context.Context, s *domain.Service) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO services (name, type, address, location, contact_number, rating)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography, $6, $7)
		RETURNING id, created_at
	`, s.Name, s.Type, s.Address, s.Location.Lng, s.Location.Lat,
		s.ContactNumber, s.Rating).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// Update replaces a service's mutable fields.
func (r *ServiceRepo) Update(ctx context.Context, s *domain.Service) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE services
		SET name = $2, type = $3, address = $4,
		    location = ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography,
		    contact_number = $7, rating = $8
		WHERE id = $1
	`, s.ID, s.Name, s.Type, s.Address, s.Location.Lng, s.Location.Lat,
		s.ContactNumber, s.Rating)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a service.
func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID returns a service by id.
func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	var s domain.Service
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, type, COALESCE(address, ''),
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lng,
		       COALESCE(contact_number, ''), rating, created_at
		FROM services WHERE id = $1
	`, id).Scan(
		&s.ID, &s.Name, &s.Type, &s.Address,
		&s.Location.Lat, &s.Location.Lng,
		&s.ContactNumber, &s.Rating, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &s, nil
}

// List returns services, optionally filtered by type.
func (r *ServiceRepo) List(ctx context.Context, typeFilter string) ([]domain.Service, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, type, COALESCE(address, ''),
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lng,
		       COALESCE(contact_number, ''), rating, created_at
		FROM services
		WHERE $1 = '' OR type = $1
		ORDER BY name
	`, typeFilter)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Type, &s.Address,
			&s.Location.Lat, &s.Location.Lng,
			&s.ContactNumber, &s.Rating, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}
