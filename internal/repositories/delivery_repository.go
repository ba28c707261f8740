package repositories

import (
	"context"

	"cms-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DeliveryRepository struct {
	DB *pgxpool.Pool
}

func NewDeliveryRepository(db *pgxpool.Pool) *DeliveryRepository {
	return &DeliveryRepository{DB: db}
}

func (r *DeliveryRepository) List(ctx context.Context) ([]*models.Delivery, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, entry_id, recipient_name, recipient_mobile, quantity,
		       remaining_after, amount, due_amount, reason, operator_name, created_at
		FROM deliveries
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []*models.Delivery
	for rows.Next() {
		var d models.Delivery
		err := rows.Scan(&d.ID, &d.EntryID, &d.RecipientName, &d.RecipientMobile,
			&d.Quantity, &d.RemainingAfter, &d.Amount, &d.DueAmount, &d.Reason,
			&d.OperatorName, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, &d)
	}
	return deliveries, rows.Err()
}
