package services

import (
	"context"
	"strings"
	"testing"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/models"
	"cms-backend/internal/timeutil"

	"github.com/pquerna/otp/totp"
)

func newTOTPHarness(t *testing.T) (*TOTPService, *memUserStore, *memEntryStore) {
	t.Helper()
	ctx := context.Background()

	users := newMemUserStore()
	entries := newMemEntryStore()
	svc := NewTOTPService(users, entries, &memLogStore{})

	users.Create(ctx, &models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin})
	users.Create(ctx, &models.User{Name: "Operator", Email: "op@example.com", Role: models.RoleOperator})
	return svc, users, entries
}

func TestEnroll(t *testing.T) {
	svc, users, _ := newTOTPHarness(t)
	ctx := context.Background()

	url, err := svc.Enroll(ctx, 1)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if !strings.HasPrefix(url, "otpauth://totp/") {
		t.Errorf("provisioning url = %q", url)
	}

	admin, _ := users.Get(ctx, 1)
	if admin.TOTPSecret == nil || *admin.TOTPSecret == "" {
		t.Fatal("secret should be stored on the user")
	}

	// Enrollment is one-shot.
	if _, err := svc.Enroll(ctx, 1); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("second Enroll() error = %v, want invalid_state", err)
	}
}

func TestEnrollRejectsOperator(t *testing.T) {
	svc, _, _ := newTOTPHarness(t)

	_, err := svc.Enroll(context.Background(), 2)
	if !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("error = %v, want invalid_state", err)
	}
}

func TestRollbackImportBatch(t *testing.T) {
	svc, users, entries := newTOTPHarness(t)
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, 1); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	admin, _ := users.Get(ctx, 1)

	batchID := "import_2026_08"
	otherBatch := "import_2026_07"
	entries.Create(ctx, &models.Entry{CustomerName: "A", TotalPots: 1, Status: models.EntryStatusActive, ImportBatchID: &batchID})
	entries.Create(ctx, &models.Entry{CustomerName: "B", TotalPots: 1, Status: models.EntryStatusActive, ImportBatchID: &batchID})
	entries.Create(ctx, &models.Entry{CustomerName: "C", TotalPots: 1, Status: models.EntryStatusActive, ImportBatchID: &otherBatch})
	entries.Create(ctx, &models.Entry{CustomerName: "D", TotalPots: 1, Status: models.EntryStatusActive})

	code, err := totp.GenerateCode(*admin.TOTPSecret, timeutil.Now())
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}

	deleted, err := svc.RollbackImportBatch(ctx, batchID, code, 1)
	if err != nil {
		t.Fatalf("RollbackImportBatch() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining, _ := entries.List(ctx)
	if len(remaining) != 2 {
		t.Errorf("remaining entries = %d, want 2", len(remaining))
	}
	for _, e := range remaining {
		if e.ImportBatchID != nil && *e.ImportBatchID == batchID {
			t.Errorf("entry %q from the batch survived", e.CustomerName)
		}
	}
}

func TestRollbackImportBatchValidation(t *testing.T) {
	svc, users, _ := newTOTPHarness(t)
	ctx := context.Background()

	if _, err := svc.RollbackImportBatch(ctx, "", "000000", 1); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("empty batch error = %v, want validation_error", err)
	}

	// Not enrolled yet.
	if _, err := svc.RollbackImportBatch(ctx, "batch", "000000", 1); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("unenrolled error = %v, want invalid_state", err)
	}

	if _, err := svc.Enroll(ctx, 1); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	admin, _ := users.Get(ctx, 1)

	wrong, _ := totp.GenerateCode(*admin.TOTPSecret, timeutil.Now())
	if wrong == "000000" {
		wrong = "000001"
	} else {
		wrong = "000000"
	}
	if _, err := svc.RollbackImportBatch(ctx, "batch", wrong, 1); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("bad code error = %v, want validation_error", err)
	}
}
