package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/models"
	"cms-backend/internal/timeutil"
)

const (
	otpLength        = 6
	otpExpiryMinutes = 10
	maxOTPAttempts   = 3
)

type OTPService struct {
	OTPRepo   OTPStore
	EntryRepo EntryStore
	LogRepo   DeliveryLogStore
	Outbox    OutboxStore
}

func NewOTPService(otpRepo OTPStore, entryRepo EntryStore, logRepo DeliveryLogStore, outbox OutboxStore) *OTPService {
	return &OTPService{
		OTPRepo:   otpRepo,
		EntryRepo: entryRepo,
		LogRepo:   logRepo,
		Outbox:    outbox,
	}
}

// generateCode creates a secure 6-digit OTP code.
func generateCode() string {
	max := big.NewInt(1000000)
	n, _ := rand.Int(rand.Reader, max)
	return fmt.Sprintf("%0*d", otpLength, n.Int64())
}

// Issue creates a fresh challenge for an entry and purpose. The store expires
// any prior outstanding challenge for the same pair, so at most one is live.
// The code travels to the customer as a notification intent, not in the API
// response.
func (s *OTPService) Issue(ctx context.Context, entryID int, purpose string) (*models.OTPChallenge, error) {
	if purpose != models.OTPPurposeRenewal && purpose != models.OTPPurposeDelivery {
		return nil, apperrors.Validation("purpose must be 'renewal' or 'delivery'")
	}

	entry, err := s.EntryRepo.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}

	challenge := &models.OTPChallenge{
		EntryID:   entry.ID,
		Purpose:   purpose,
		Code:      generateCode(),
		ExpiresAt: timeutil.Now().Add(otpExpiryMinutes * time.Minute),
	}
	if err := s.OTPRepo.Create(ctx, challenge); err != nil {
		return nil, err
	}

	// Best-effort side channels; the challenge stands regardless.
	s.Outbox.Append(ctx, &models.NotificationIntent{
		TemplateKind:       models.TemplateOTP,
		RecipientMobile:    entry.CustomerMobile,
		SubstitutionValues: []string{challenge.Code, fmt.Sprintf("%d", otpExpiryMinutes)},
		CorrelatedEntryID:  entry.ID,
	})
	s.LogRepo.Create(ctx, &models.DeliveryLog{
		EntryID: entry.ID,
		Action:  models.LogActionOTPIssued,
		Details: fmt.Sprintf("OTP issued for %s", purpose),
	})

	return challenge, nil
}

// Verify runs one attempt against a challenge. The read, the decision, and
// the attempt increment happen inside a single row-locked mutation, so two
// concurrent guesses cannot share an attempt slot or both succeed.
func (s *OTPService) Verify(ctx context.Context, challengeID int, submittedCode string) (*models.VerifyOTPResult, error) {
	now := timeutil.Now()
	var result models.VerifyOTPResult

	challenge, err := s.OTPRepo.Mutate(ctx, challengeID, func(c *models.OTPChallenge) error {
		if c.Verified {
			return apperrors.InvalidState("otp challenge already used")
		}
		if now.After(c.ExpiresAt) {
			return apperrors.Expired("otp challenge has expired, request a new one")
		}
		if c.Attempts >= maxOTPAttempts {
			return apperrors.AttemptsExhausted("maximum verification attempts exceeded, request a new otp")
		}

		if c.Code != submittedCode {
			c.Attempts++
			result = models.VerifyOTPResult{Verified: false, AttemptsRemaining: maxOTPAttempts - c.Attempts}
			return nil
		}

		c.Verified = true
		result = models.VerifyOTPResult{Verified: true, AttemptsRemaining: maxOTPAttempts - c.Attempts}
		return nil
	})
	if err != nil {
		if challenge != nil {
			s.LogRepo.Create(ctx, &models.DeliveryLog{
				EntryID: challenge.EntryID,
				Action:  models.LogActionOTPFailed,
				Details: err.Error(),
			})
		}
		return nil, err
	}

	action := models.LogActionOTPFailed
	if result.Verified {
		action = models.LogActionOTPVerified
	}
	s.LogRepo.Create(ctx, &models.DeliveryLog{
		EntryID: challenge.EntryID,
		Action:  action,
		Details: fmt.Sprintf("attempts used: %d", challenge.Attempts),
	})

	return &result, nil
}

// ConsumeVerified checks that the challenge belongs to the entry, was issued
// for the purpose, and has been verified, then marks it consumed. The check
// and the mark happen in one row-locked mutation, so a verified challenge
// authorizes exactly one release or renewal; a second consumer is rejected.
func (s *OTPService) ConsumeVerified(ctx context.Context, challengeID, entryID int, purpose string) error {
	now := timeutil.Now()
	_, err := s.OTPRepo.Mutate(ctx, challengeID, func(c *models.OTPChallenge) error {
		if c.EntryID != entryID || c.Purpose != purpose {
			return apperrors.Validation("otp challenge does not match this operation")
		}
		if !c.Verified {
			return apperrors.InvalidState("otp challenge has not been verified")
		}
		if c.ConsumedAt != nil {
			return apperrors.InvalidState("otp challenge has already been used")
		}
		c.ConsumedAt = &now
		return nil
	})
	return err
}
