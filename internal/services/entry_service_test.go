package services

import (
	"context"
	"testing"
	"time"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/models"
)

func newEntryHarness() (*EntryService, *memEntryStore) {
	entries := newMemEntryStore()
	locations := &memLocationStore{locations: map[int]*models.Location{
		1: {ID: 1, Name: "Haridwar Main", City: "Haridwar", IsActive: true},
	}}
	return NewEntryService(entries, locations), entries
}

func validCreateRequest() *models.CreateEntryRequest {
	return &models.CreateEntryRequest{
		CustomerID:     10,
		CustomerName:   "Ramesh Kumar",
		CustomerMobile: "9876543210",
		CustomerCity:   "Delhi",
		LocationID:     1,
		LockerNumber:   "A-101",
		TotalPots:      3,
	}
}

func TestCreateEntryValidation(t *testing.T) {
	svc, _ := newEntryHarness()

	tests := []struct {
		name     string
		mutate   func(*models.CreateEntryRequest)
		wantKind string
	}{
		{
			name:     "zero pots",
			mutate:   func(r *models.CreateEntryRequest) { r.TotalPots = 0 },
			wantKind: apperrors.KindValidation,
		},
		{
			name:     "missing locker",
			mutate:   func(r *models.CreateEntryRequest) { r.LockerNumber = "" },
			wantKind: apperrors.KindValidation,
		},
		{
			name:     "short mobile",
			mutate:   func(r *models.CreateEntryRequest) { r.CustomerMobile = "98765" },
			wantKind: apperrors.KindValidation,
		},
		{
			name:     "mobile with bad leading digit",
			mutate:   func(r *models.CreateEntryRequest) { r.CustomerMobile = "1876543210" },
			wantKind: apperrors.KindValidation,
		},
		{
			name:     "unsupported payment method",
			mutate:   func(r *models.CreateEntryRequest) { r.PaymentMethod = "card" },
			wantKind: apperrors.KindValidation,
		},
		{
			name:     "unknown location",
			mutate:   func(r *models.CreateEntryRequest) { r.LocationID = 42 },
			wantKind: apperrors.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)
			_, err := svc.CreateEntry(context.Background(), req, 1)
			if !apperrors.IsKind(err, tt.wantKind) {
				t.Fatalf("error = %v, want %s", err, tt.wantKind)
			}
		})
	}
}

func TestCreateEntry(t *testing.T) {
	svc, _ := newEntryHarness()

	req := validCreateRequest()
	req.AmountPaid = 900
	req.PaymentMethod = models.PaymentMethodUPI

	entry, err := svc.CreateEntry(context.Background(), req, 5)
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	if entry.ID == 0 {
		t.Error("entry should be assigned an id")
	}
	if entry.Status != models.EntryStatusActive {
		t.Errorf("status = %q, want active", entry.Status)
	}
	if entry.LocationName != "Haridwar Main" {
		t.Errorf("location name = %q, want denormalized name", entry.LocationName)
	}
	if entry.PotsDelivered != 0 || entry.Remaining() != 3 {
		t.Errorf("fresh entry should hold all %d pots", entry.TotalPots)
	}

	if len(entry.LockerDetails) != 1 {
		t.Fatalf("locker details = %d, want 1", len(entry.LockerDetails))
	}
	locker := entry.LockerDetails[0]
	if locker.LockerNumber != "A-101" || locker.TotalPots != 3 || len(locker.DispatchedPots) != 0 {
		t.Errorf("unexpected locker assignment %+v", locker)
	}

	wantExpiry := entry.EntryDate.Add(30 * 24 * time.Hour)
	if !entry.ExpiryDate.Equal(wantExpiry) {
		t.Errorf("expiry = %v, want entry date + 30 days", entry.ExpiryDate)
	}

	if len(entry.Payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(entry.Payments))
	}
	p := entry.Payments[0]
	if p.Amount != 900 || p.Type != models.PaymentTypeEntry || p.Method != models.PaymentMethodUPI || p.ActorID != 5 {
		t.Errorf("unexpected payment record %+v", p)
	}
}

func TestCreateEntryWithoutPayment(t *testing.T) {
	svc, _ := newEntryHarness()

	entry, err := svc.CreateEntry(context.Background(), validCreateRequest(), 1)
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if len(entry.Payments) != 0 {
		t.Errorf("payments = %d, want none when no amount was paid", len(entry.Payments))
	}
}

func TestCreateEntryRejectsOccupiedLocker(t *testing.T) {
	svc, _ := newEntryHarness()
	ctx := context.Background()

	if _, err := svc.CreateEntry(ctx, validCreateRequest(), 1); err != nil {
		t.Fatalf("first CreateEntry() error = %v", err)
	}

	req := validCreateRequest()
	req.CustomerMobile = "9123456780"
	_, err := svc.CreateEntry(ctx, req, 1)
	if !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Fatalf("error = %v, want invalid_state", err)
	}
}

func TestLockerAvailability(t *testing.T) {
	svc, entries := newEntryHarness()
	ctx := context.Background()

	available, err := svc.IsLockerAvailable(ctx, 1, "A-101")
	if err != nil || !available {
		t.Fatalf("fresh locker should be available, got (%v, %v)", available, err)
	}

	entry, err := svc.CreateEntry(ctx, validCreateRequest(), 1)
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	available, _ = svc.IsLockerAvailable(ctx, 1, "A-101")
	if available {
		t.Error("occupied locker should not be available")
	}

	// The same number at another location is a different locker.
	available, _ = svc.IsLockerAvailable(ctx, 2, "A-101")
	if !available {
		t.Error("locker number is scoped to its location")
	}

	// Completing the entry frees the locker.
	entries.Mutate(ctx, entry.ID, func(e *models.Entry) (*models.EntrySideEffects, error) {
		e.Status = models.EntryStatusCompleted
		return nil, nil
	})
	available, _ = svc.IsLockerAvailable(ctx, 1, "A-101")
	if !available {
		t.Error("completed entries should not occupy lockers")
	}
}

func TestIsEntryExpired(t *testing.T) {
	svc, entries := newEntryHarness()
	ctx := context.Background()

	entry, err := svc.CreateEntry(ctx, validCreateRequest(), 1)
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	expired, err := svc.IsEntryExpired(ctx, entry.ID)
	if err != nil || expired {
		t.Fatalf("fresh entry should not be expired, got (%v, %v)", expired, err)
	}

	entries.Mutate(ctx, entry.ID, func(e *models.Entry) (*models.EntrySideEffects, error) {
		e.ExpiryDate = time.Now().Add(-time.Hour)
		return nil, nil
	})
	expired, err = svc.IsEntryExpired(ctx, entry.ID)
	if err != nil || !expired {
		t.Fatalf("lapsed entry should be expired, got (%v, %v)", expired, err)
	}
}
