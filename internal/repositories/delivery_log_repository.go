package repositories

import (
	"context"

	"cms-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DeliveryLogRepository is append-only: the core writes audit rows and never
// reads them back.
type DeliveryLogRepository struct {
	DB *pgxpool.Pool
}

func NewDeliveryLogRepository(db *pgxpool.Pool) *DeliveryLogRepository {
	return &DeliveryLogRepository{DB: db}
}

func (r *DeliveryLogRepository) Create(ctx context.Context, l *models.DeliveryLog) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO delivery_logs (entry_id, action, details, actor_id)
		VALUES ($1,$2,$3,$4)`,
		l.EntryID, l.Action, l.Details, l.ActorID)
	return err
}
