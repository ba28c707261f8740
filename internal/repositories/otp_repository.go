package repositories

import (
	"context"
	"errors"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OTPRepository struct {
	DB *pgxpool.Pool
}

func NewOTPRepository(db *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{DB: db}
}

// Create stores a new challenge and expires any prior outstanding challenge
// for the same (entry, purpose) in the same transaction, so at most one
// challenge is ever live per pair.
func (r *OTPRepository) Create(ctx context.Context, c *models.OTPChallenge) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE otp_verifications
		SET expires_at = NOW()
		WHERE entry_id = $1 AND purpose = $2 AND verified = FALSE AND expires_at > NOW()`,
		c.EntryID, c.Purpose)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO otp_verifications (entry_id, purpose, code, expires_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		c.EntryID, c.Purpose, c.Code, c.ExpiresAt,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *OTPRepository) Get(ctx context.Context, id int) (*models.OTPChallenge, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT id, entry_id, purpose, code, expires_at, attempts, verified, consumed_at, created_at
		FROM otp_verifications WHERE id = $1`, id)
	return scanChallenge(row)
}

// Mutate runs a row-locked read-modify-write on one challenge. Verification
// and attempt accounting go through here so two concurrent guesses cannot
// both be charged as the same attempt or both succeed.
func (r *OTPRepository) Mutate(ctx context.Context, id int, mutate func(*models.OTPChallenge) error) (*models.OTPChallenge, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		SELECT id, entry_id, purpose, code, expires_at, attempts, verified, consumed_at, created_at
		FROM otp_verifications WHERE id = $1 FOR UPDATE`, id)
	challenge, err := scanChallenge(row)
	if err != nil {
		return nil, err
	}

	if err := mutate(challenge); err != nil {
		// Persist attempt accounting even when the mutation rejects the
		// submission: a wrong code must still be charged.
		if _, uerr := tx.Exec(ctx,
			`UPDATE otp_verifications SET attempts=$1, verified=$2, consumed_at=$3 WHERE id=$4`,
			challenge.Attempts, challenge.Verified, challenge.ConsumedAt, challenge.ID); uerr == nil {
			tx.Commit(ctx)
		}
		return challenge, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE otp_verifications SET attempts=$1, verified=$2, consumed_at=$3 WHERE id=$4`,
		challenge.Attempts, challenge.Verified, challenge.ConsumedAt, challenge.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return challenge, nil
}

func scanChallenge(row pgx.Row) (*models.OTPChallenge, error) {
	var c models.OTPChallenge
	err := row.Scan(&c.ID, &c.EntryID, &c.Purpose, &c.Code, &c.ExpiresAt,
		&c.Attempts, &c.Verified, &c.ConsumedAt, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("otp challenge not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
