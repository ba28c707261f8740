package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxTxAttempts bounds the automatic retry of a conflicted entry transaction.
const maxTxAttempts = 3

type EntryRepository struct {
	DB *pgxpool.Pool
}

func NewEntryRepository(db *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{DB: db}
}

const entryColumns = `id, customer_id, customer_name, customer_mobile, customer_city,
	location_id, total_pots, pots_delivered, locker_details, status,
	entry_date, expiry_date, payments, renewals, delivery_history,
	import_batch_id, created_by_user_id, created_at, updated_at`

func scanEntry(row pgx.Row) (*models.Entry, error) {
	var e models.Entry
	var lockers, payments, renewals, history []byte
	err := row.Scan(&e.ID, &e.CustomerID, &e.CustomerName, &e.CustomerMobile, &e.CustomerCity,
		&e.LocationID, &e.TotalPots, &e.PotsDelivered, &lockers, &e.Status,
		&e.EntryDate, &e.ExpiryDate, &payments, &renewals, &history,
		&e.ImportBatchID, &e.CreatedByUserID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(lockers, &e.LockerDetails); err != nil {
		return nil, fmt.Errorf("decode locker_details: %w", err)
	}
	if err := json.Unmarshal(payments, &e.Payments); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	if err := json.Unmarshal(renewals, &e.Renewals); err != nil {
		return nil, fmt.Errorf("decode renewals: %w", err)
	}
	if err := json.Unmarshal(history, &e.DeliveryHistory); err != nil {
		return nil, fmt.Errorf("decode delivery_history: %w", err)
	}
	return &e, nil
}

func marshalDocs(e *models.Entry) (lockers, payments, renewals, history []byte, err error) {
	if e.LockerDetails == nil {
		e.LockerDetails = []models.LockerAssignment{}
	}
	if e.Payments == nil {
		e.Payments = []models.PaymentRecord{}
	}
	if e.Renewals == nil {
		e.Renewals = []models.RenewalRecord{}
	}
	if e.DeliveryHistory == nil {
		e.DeliveryHistory = []models.DeliveryTransaction{}
	}
	if lockers, err = json.Marshal(e.LockerDetails); err != nil {
		return
	}
	if payments, err = json.Marshal(e.Payments); err != nil {
		return
	}
	if renewals, err = json.Marshal(e.Renewals); err != nil {
		return
	}
	history, err = json.Marshal(e.DeliveryHistory)
	return
}

func (r *EntryRepository) Create(ctx context.Context, e *models.Entry) error {
	lockers, payments, renewals, history, err := marshalDocs(e)
	if err != nil {
		return err
	}

	return r.DB.QueryRow(ctx, `
		INSERT INTO entries (customer_id, customer_name, customer_mobile, customer_city,
			location_id, total_pots, pots_delivered, locker_details, status,
			entry_date, expiry_date, payments, renewals, delivery_history,
			import_batch_id, created_by_user_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING id, created_at, updated_at`,
		e.CustomerID, e.CustomerName, e.CustomerMobile, e.CustomerCity,
		e.LocationID, e.TotalPots, e.PotsDelivered, lockers, e.Status,
		e.EntryDate, e.ExpiryDate, payments, renewals, history,
		e.ImportBatchID, e.CreatedByUserID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EntryRepository) Get(ctx context.Context, id int) (*models.Entry, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id=$1`, id)
	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("entry %d not found", id)
	}
	return e, err
}

func (r *EntryRepository) List(ctx context.Context) ([]*models.Entry, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+entryColumns+` FROM entries ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountActiveByLocker counts active entries occupying the given locker at a
// location. Used at entry creation to prevent locker collision.
func (r *EntryRepository) CountActiveByLocker(ctx context.Context, locationID int, lockerNumber string) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM entries
		WHERE location_id = $1
		  AND status = 'active'
		  AND locker_details @> $2::jsonb`,
		locationID, fmt.Sprintf(`[{"locker_number": %q}]`, lockerNumber),
	).Scan(&count)
	return count, err
}

// Mutate runs a row-locked read-modify-write on one entry. The mutate callback
// receives the current row and returns the side-effect rows to persist with
// it; any error from the callback aborts the transaction with no state change.
// Store conflicts are retried up to maxTxAttempts before surfacing as a
// transient conflict error.
func (r *EntryRepository) Mutate(ctx context.Context, id int, mutate func(*models.Entry) (*models.EntrySideEffects, error)) (*models.Entry, error) {
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		entry, err := r.mutateOnce(ctx, id, mutate)
		if err == nil {
			return entry, nil
		}
		if !isConflict(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, apperrors.Conflict("entry %d is contended, retry: %v", id, lastErr)
}

func (r *EntryRepository) mutateOnce(ctx context.Context, id int, mutate func(*models.Entry) (*models.EntrySideEffects, error)) (*models.Entry, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id=$1 FOR UPDATE`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("entry %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	effects, err := mutate(entry)
	if err != nil {
		return nil, err
	}

	lockers, payments, renewals, history, err := marshalDocs(entry)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE entries
		SET pots_delivered=$1, locker_details=$2, status=$3, expiry_date=$4,
		    payments=$5, renewals=$6, delivery_history=$7, updated_at=NOW()
		WHERE id=$8`,
		entry.PotsDelivered, lockers, entry.Status, entry.ExpiryDate,
		payments, renewals, history, entry.ID)
	if err != nil {
		return nil, err
	}

	if effects != nil {
		if err := writeSideEffects(ctx, tx, effects); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

func writeSideEffects(ctx context.Context, tx pgx.Tx, fx *models.EntrySideEffects) error {
	if ev := fx.DispatchEvent; ev != nil {
		err := tx.QueryRow(ctx, `
			INSERT INTO dispatch_events (entry_id, release_id, customer_name, customer_mobile,
				location_name, operator_name, locker_number, pots_dispatched,
				remaining_pots, payment_amount, due_amount, dispatch_date)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			RETURNING id`,
			ev.EntryID, ev.ReleaseID, ev.CustomerName, ev.CustomerMobile,
			ev.LocationName, ev.OperatorName, ev.LockerNumber, ev.PotsDispatched,
			ev.RemainingPots, ev.PaymentAmount, ev.DueAmount, ev.DispatchDate,
		).Scan(&ev.ID)
		if err != nil {
			return err
		}
	}

	if l := fx.Log; l != nil {
		_, err := tx.Exec(ctx, `
			INSERT INTO delivery_logs (entry_id, action, details, actor_id)
			VALUES ($1,$2,$3,$4)`,
			l.EntryID, l.Action, l.Details, l.ActorID)
		if err != nil {
			return err
		}
	}

	for i := range fx.Intents {
		in := &fx.Intents[i]
		values, err := json.Marshal(in.SubstitutionValues)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO notification_outbox (template_kind, recipient_mobile,
				substitution_values, correlated_entry_id)
			VALUES ($1,$2,$3,$4)`,
			in.TemplateKind, in.RecipientMobile, values, in.CorrelatedEntryID)
		if err != nil {
			return err
		}
	}
	return nil
}

// isConflict reports a serialization failure or deadlock, the two store
// errors worth retrying.
func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// DeleteByImportBatch removes every entry of an import batch. This is the
// only physical delete in the system and is gated by admin TOTP upstream.
func (r *EntryRepository) DeleteByImportBatch(ctx context.Context, batchID string) (int, error) {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM entries WHERE import_batch_id = $1`, batchID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ListDeliveryHistory flattens the delivery history embedded in entries for
// the reconciliation service, together with the customer fields it needs.
func (r *EntryRepository) ListDeliveryHistory(ctx context.Context) ([]*models.Entry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE jsonb_array_length(delivery_history) > 0
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
