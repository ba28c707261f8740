package repositories

import (
	"context"
	"errors"

	"cms-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SystemSettingRepository struct {
	DB *pgxpool.Pool
}

func NewSystemSettingRepository(db *pgxpool.Pool) *SystemSettingRepository {
	return &SystemSettingRepository{DB: db}
}

func (r *SystemSettingRepository) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	var s models.SystemSetting
	err := r.DB.QueryRow(ctx, `
		SELECT setting_key, setting_value, updated_at
		FROM system_settings WHERE setting_key=$1`, key,
	).Scan(&s.SettingKey, &s.SettingValue, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SystemSettingRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO system_settings (setting_key, setting_value)
		VALUES ($1,$2)
		ON CONFLICT (setting_key) DO UPDATE SET setting_value=$2, updated_at=NOW()`,
		key, value)
	return err
}
