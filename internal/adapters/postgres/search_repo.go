package postgres

import (
	"context"
	"fmt"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
)

// SearchRepo implements ports.SearchHistoryRepository with pgx. Results are
// stored as a jsonb snapshot so history survives later catalogue edits.
type SearchRepo struct {
	db *DB
}

// NewSearchRepo creates a new SearchRepo.
func NewSearchRepo(db *DB) *SearchRepo {
	return &SearchRepo{db: db}
}

// Create inserts a history entry and fills in its generated id.
func (r *SearchRepo) Create(ctx context.Context, h *domain.SearchHistory) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO search_history (user_id, query, center_lat, center_lng, radius_km, results)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, h.UserID, h.Query, h.Center.Lat, h.Center.Lng, h.RadiusKm, h.Results,
	).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert search: %w", err)
	}
	return nil
}

// ListByUser returns the user's searches, newest first.
func (r *SearchRepo) ListByUser(ctx context.Context, userID string) ([]domain.SearchHistory, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, user_id, query, center_lat, center_lng, radius_km,
		       COALESCE(results, '[]'), created_at
		FROM search_history WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	var entries []domain.SearchHistory
	for rows.Next() {
		var h domain.SearchHistory
		if err := rows.Scan(
			&h.ID, &h.UserID, &h.Query,
			&h.Center.Lat, &h.Center.Lng, &h.RadiusKm,
			&h.Results, &h.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

// Delete removes one history entry, scoped to its owner.
func (r *SearchRepo) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		DELETE FROM search_history WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete search: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
