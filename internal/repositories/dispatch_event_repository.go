package repositories

import (
	"context"

	"cms-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DispatchEventRepository struct {
	DB *pgxpool.Pool
}

func NewDispatchEventRepository(db *pgxpool.Pool) *DispatchEventRepository {
	return &DispatchEventRepository{DB: db}
}

func (r *DispatchEventRepository) List(ctx context.Context) ([]*models.DispatchEvent, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, entry_id, release_id, customer_name, customer_mobile, location_name,
		       operator_name, locker_number, pots_dispatched, remaining_pots,
		       payment_amount, due_amount, dispatch_date
		FROM dispatch_events
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.DispatchEvent
	for rows.Next() {
		var ev models.DispatchEvent
		err := rows.Scan(&ev.ID, &ev.EntryID, &ev.ReleaseID, &ev.CustomerName, &ev.CustomerMobile,
			&ev.LocationName, &ev.OperatorName, &ev.LockerNumber, &ev.PotsDispatched,
			&ev.RemainingPots, &ev.PaymentAmount, &ev.DueAmount, &ev.DispatchDate)
		if err != nil {
			return nil, err
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}
