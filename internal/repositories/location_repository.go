package repositories

import (
	"context"
	"errors"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LocationRepository struct {
	DB *pgxpool.Pool
}

func NewLocationRepository(db *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{DB: db}
}

func (r *LocationRepository) Get(ctx context.Context, id int) (*models.Location, error) {
	var l models.Location
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, city, is_active, created_at
		FROM locations WHERE id=$1`, id,
	).Scan(&l.ID, &l.Name, &l.City, &l.IsActive, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("location %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LocationRepository) List(ctx context.Context) ([]*models.Location, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, city, is_active, created_at
		FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*models.Location
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.City, &l.IsActive, &l.CreatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, &l)
	}
	return locations, rows.Err()
}
