package services

import (
	"context"
	"fmt"
	"log"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/models"

	"github.com/pquerna/otp/totp"
)

// TOTPService enrolls admins in TOTP and gates destructive operations behind
// a current code. Import-batch rollback deletes data wholesale, so it demands
// a second factor beyond the JWT.
type TOTPService struct {
	UserRepo  UserStore
	EntryRepo EntryStore
	LogRepo   DeliveryLogStore
}

func NewTOTPService(userRepo UserStore, entryRepo EntryStore, logRepo DeliveryLogStore) *TOTPService {
	return &TOTPService{
		UserRepo:  userRepo,
		EntryRepo: entryRepo,
		LogRepo:   logRepo,
	}
}

// Enroll generates a TOTP secret for an admin and stores it. Returns the
// otpauth:// provisioning URL for the authenticator app.
func (s *TOTPService) Enroll(ctx context.Context, userID int) (string, error) {
	user, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.Role != models.RoleAdmin {
		return "", apperrors.InvalidState("only admins can enroll in TOTP")
	}
	if user.TOTPSecret != nil {
		return "", apperrors.InvalidState("TOTP already enrolled for this user")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "cms-backend",
		AccountName: user.Email,
	})
	if err != nil {
		return "", err
	}

	if err := s.UserRepo.SetTOTPSecret(ctx, userID, key.Secret()); err != nil {
		return "", err
	}
	return key.URL(), nil
}

// verify checks a TOTP code against the user's enrolled secret.
func (s *TOTPService) verify(ctx context.Context, userID int, code string) error {
	user, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == nil {
		return apperrors.InvalidState("TOTP is not enrolled for this user")
	}
	if !totp.Validate(code, *user.TOTPSecret) {
		return apperrors.Validation("invalid TOTP code")
	}
	return nil
}

// RollbackImportBatch removes every entry created under an import batch.
// Admin-only, TOTP-gated.
func (s *TOTPService) RollbackImportBatch(ctx context.Context, batchID, totpCode string, actorID int) (int, error) {
	if batchID == "" {
		return 0, apperrors.Validation("batch id is required")
	}
	if err := s.verify(ctx, actorID, totpCode); err != nil {
		return 0, err
	}

	deleted, err := s.EntryRepo.DeleteByImportBatch(ctx, batchID)
	if err != nil {
		return 0, err
	}

	log.Printf("[Import] Rolled back batch %s, %d entries deleted", batchID, deleted)
	s.LogRepo.Create(ctx, &models.DeliveryLog{
		Action:  models.LogActionBatchRolledBack,
		Details: fmt.Sprintf("batch %s rolled back, %d entries deleted", batchID, deleted),
		ActorID: actorID,
	})
	return deleted, nil
}
