package repositories

import (
	"context"
	"encoding/json"

	"cms-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OutboxRepository struct {
	DB *pgxpool.Pool
}

func NewOutboxRepository(db *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{DB: db}
}

// Append inserts an intent outside any entry transaction. Renewal and release
// paths append through the entry repository's transaction instead.
func (r *OutboxRepository) Append(ctx context.Context, in *models.NotificationIntent) error {
	values, err := json.Marshal(in.SubstitutionValues)
	if err != nil {
		return err
	}
	return r.DB.QueryRow(ctx, `
		INSERT INTO notification_outbox (template_kind, recipient_mobile,
			substitution_values, correlated_entry_id)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		in.TemplateKind, in.RecipientMobile, values, in.CorrelatedEntryID,
	).Scan(&in.ID, &in.CreatedAt)
}

// ListPending returns up to limit undelivered intents, oldest first.
func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]*models.NotificationIntent, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, template_kind, recipient_mobile, substitution_values,
		       correlated_entry_id, status, error_message, created_at, sent_at
		FROM notification_outbox
		WHERE status = 'pending'
		ORDER BY id
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intents []*models.NotificationIntent
	for rows.Next() {
		var in models.NotificationIntent
		var values []byte
		err := rows.Scan(&in.ID, &in.TemplateKind, &in.RecipientMobile, &values,
			&in.CorrelatedEntryID, &in.Status, &in.ErrorMessage, &in.CreatedAt, &in.SentAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(values, &in.SubstitutionValues); err != nil {
			return nil, err
		}
		intents = append(intents, &in)
	}
	return intents, rows.Err()
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE notification_outbox SET status='sent', sent_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id int, reason string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE notification_outbox SET status='failed', error_message=$1 WHERE id=$2`,
		reason, id)
	return err
}
