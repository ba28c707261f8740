package services

import (
	"context"
	"testing"
	"time"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/models"
	"cms-backend/internal/timeutil"
)

func newOTPHarness(t *testing.T) (*OTPService, *memEntryStore, *memOTPStore) {
	t.Helper()
	entries := newMemEntryStore()
	otps := newMemOTPStore()
	svc := NewOTPService(otps, entries, &memLogStore{}, &memOutbox{})

	entries.Create(context.Background(), &models.Entry{
		CustomerName:   "Ramesh Kumar",
		CustomerMobile: "9876543210",
		TotalPots:      3,
		Status:         models.EntryStatusActive,
	})
	return svc, entries, otps
}

func TestIssueValidatesPurpose(t *testing.T) {
	svc, _, _ := newOTPHarness(t)

	_, err := svc.Issue(context.Background(), 1, "password_reset")
	if !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("error = %v, want validation_error", err)
	}
}

func TestIssueUnknownEntry(t *testing.T) {
	svc, _, _ := newOTPHarness(t)

	_, err := svc.Issue(context.Background(), 99, models.OTPPurposeDelivery)
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("error = %v, want not_found", err)
	}
}

func TestIssueCreatesChallengeAndIntent(t *testing.T) {
	entries := newMemEntryStore()
	otps := newMemOTPStore()
	outbox := &memOutbox{}
	svc := NewOTPService(otps, entries, &memLogStore{}, outbox)

	entries.Create(context.Background(), &models.Entry{
		CustomerMobile: "9876543210",
		Status:         models.EntryStatusActive,
	})

	ch, err := svc.Issue(context.Background(), 1, models.OTPPurposeRenewal)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if len(ch.Code) != 6 {
		t.Errorf("code %q should be 6 digits", ch.Code)
	}
	expiry := time.Until(ch.ExpiresAt)
	if expiry < 9*time.Minute || expiry > 11*time.Minute {
		t.Errorf("expiry window = %v, want ~10 minutes", expiry)
	}

	if len(outbox.intents) != 1 {
		t.Fatalf("outbox intents = %d, want 1", len(outbox.intents))
	}
	intent := outbox.intents[0]
	if intent.TemplateKind != models.TemplateOTP {
		t.Errorf("template = %q, want otp", intent.TemplateKind)
	}
	if intent.RecipientMobile != "9876543210" {
		t.Errorf("recipient = %q, want customer mobile", intent.RecipientMobile)
	}
	if intent.SubstitutionValues[0] != ch.Code {
		t.Error("intent should carry the challenge code")
	}
}

func TestVerifyAttemptsExhausted(t *testing.T) {
	svc, _, _ := newOTPHarness(t)

	ch, err := svc.Issue(context.Background(), 1, models.OTPPurposeDelivery)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	wrong := "000000"
	if wrong == ch.Code {
		wrong = "000001"
	}

	for i, wantRemaining := range []int{2, 1, 0} {
		result, err := svc.Verify(context.Background(), ch.ID, wrong)
		if err != nil {
			t.Fatalf("attempt %d: error = %v", i+1, err)
		}
		if result.Verified {
			t.Fatalf("attempt %d: wrong code must not verify", i+1)
		}
		if result.AttemptsRemaining != wantRemaining {
			t.Errorf("attempt %d: remaining = %d, want %d", i+1, result.AttemptsRemaining, wantRemaining)
		}
	}

	// The correct code is worthless once attempts are used up.
	_, err = svc.Verify(context.Background(), ch.ID, ch.Code)
	if !apperrors.IsKind(err, apperrors.KindAttemptsExhausted) {
		t.Fatalf("error = %v, want attempts_exhausted", err)
	}
}

func TestVerifyCorrectCode(t *testing.T) {
	svc, _, _ := newOTPHarness(t)

	ch, _ := svc.Issue(context.Background(), 1, models.OTPPurposeDelivery)

	result, err := svc.Verify(context.Background(), ch.ID, ch.Code)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !result.Verified {
		t.Fatal("correct code should verify")
	}

	// A verified challenge cannot be replayed through Verify.
	_, err = svc.Verify(context.Background(), ch.ID, ch.Code)
	if !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("error = %v, want invalid_state", err)
	}
}

func TestVerifyExpiredChallenge(t *testing.T) {
	svc, _, otps := newOTPHarness(t)

	stale := &models.OTPChallenge{
		EntryID:   1,
		Purpose:   models.OTPPurposeDelivery,
		Code:      "123456",
		ExpiresAt: timeutil.Now().Add(-time.Minute),
	}
	otps.Create(context.Background(), stale)

	_, err := svc.Verify(context.Background(), stale.ID, "123456")
	if !apperrors.IsKind(err, apperrors.KindExpired) {
		t.Fatalf("error = %v, want expired", err)
	}
}

func TestConsumeVerified(t *testing.T) {
	svc, entries, _ := newOTPHarness(t)
	ctx := context.Background()

	entries.Create(ctx, &models.Entry{CustomerMobile: "9876543211", Status: models.EntryStatusActive})

	ch, _ := svc.Issue(ctx, 1, models.OTPPurposeDelivery)
	if _, err := svc.Verify(ctx, ch.ID, ch.Code); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	tests := []struct {
		name        string
		challengeID int
		entryID     int
		purpose     string
		wantKind    string
	}{
		// Mismatches must not consume the challenge, so they run first.
		{name: "wrong entry", challengeID: ch.ID, entryID: 2, purpose: models.OTPPurposeDelivery, wantKind: apperrors.KindValidation},
		{name: "wrong purpose", challengeID: ch.ID, entryID: 1, purpose: models.OTPPurposeRenewal, wantKind: apperrors.KindValidation},
		{name: "unknown challenge", challengeID: 99, entryID: 1, purpose: models.OTPPurposeDelivery, wantKind: apperrors.KindNotFound},
		{name: "verified and matching", challengeID: ch.ID, entryID: 1, purpose: models.OTPPurposeDelivery},
		{name: "already consumed", challengeID: ch.ID, entryID: 1, purpose: models.OTPPurposeDelivery, wantKind: apperrors.KindInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ConsumeVerified(ctx, tt.challengeID, tt.entryID, tt.purpose)
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("ConsumeVerified() error = %v", err)
				}
				return
			}
			if !apperrors.IsKind(err, tt.wantKind) {
				t.Fatalf("error = %v, want %s", err, tt.wantKind)
			}
		})
	}
}

func TestConsumeVerifiedRejectsUnverified(t *testing.T) {
	svc, _, otps := newOTPHarness(t)
	ctx := context.Background()

	ch, _ := svc.Issue(ctx, 1, models.OTPPurposeDelivery)
	err := svc.ConsumeVerified(ctx, ch.ID, 1, models.OTPPurposeDelivery)
	if !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("error = %v, want invalid_state", err)
	}

	stored, _ := otps.Get(ctx, ch.ID)
	if stored.ConsumedAt != nil {
		t.Error("a rejected consume must not mark the challenge used")
	}
}
