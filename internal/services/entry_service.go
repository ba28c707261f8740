package services

import (
	"context"
	"regexp"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/models"
	"cms-backend/internal/timeutil"
)

// Indian mobile numbers: 10 digits, first digit 6-9.
var mobilePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

func validMobile(mobile string) bool {
	return mobilePattern.MatchString(mobile)
}

type EntryService struct {
	EntryRepo    EntryStore
	LocationRepo LocationStore
}

func NewEntryService(entryRepo EntryStore, locationRepo LocationStore) *EntryService {
	return &EntryService{
		EntryRepo:    entryRepo,
		LocationRepo: locationRepo,
	}
}

// CreateEntry admits a new custody entry into a free locker. v1 binds the
// whole entry to a single locker; LockerDetails stays a sequence so
// multi-locker entries remain representable.
func (s *EntryService) CreateEntry(ctx context.Context, req *models.CreateEntryRequest, userID int) (*models.Entry, error) {
	if req.TotalPots < 1 {
		return nil, apperrors.Validation("total pots must be at least 1")
	}
	if req.LockerNumber == "" {
		return nil, apperrors.Validation("locker number is required")
	}
	if !validMobile(req.CustomerMobile) {
		return nil, apperrors.Validation("customer mobile must be a valid 10-digit number")
	}
	if req.PaymentMethod != "" && req.PaymentMethod != models.PaymentMethodCash && req.PaymentMethod != models.PaymentMethodUPI {
		return nil, apperrors.Validation("payment method must be 'cash' or 'upi'")
	}

	location, err := s.LocationRepo.Get(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}

	available, err := s.IsLockerAvailable(ctx, req.LocationID, req.LockerNumber)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, apperrors.InvalidState("locker %s at %s is already occupied by an active entry", req.LockerNumber, location.Name)
	}

	now := timeutil.Now()
	entry := &models.Entry{
		CustomerID:     req.CustomerID,
		CustomerName:   req.CustomerName,
		CustomerMobile: req.CustomerMobile,
		CustomerCity:   req.CustomerCity,
		LocationID:     req.LocationID,
		LocationName:   location.Name,
		TotalPots:      req.TotalPots,
		PotsDelivered:  0,
		LockerDetails: []models.LockerAssignment{{
			LockerNumber:   req.LockerNumber,
			TotalPots:      req.TotalPots,
			DispatchedPots: []string{},
		}},
		Status:          models.EntryStatusActive,
		EntryDate:       now,
		ExpiryDate:      timeutil.AddMonths(now, 1),
		ImportBatchID:   req.ImportBatchID,
		CreatedByUserID: userID,
	}

	if req.AmountPaid > 0 {
		method := req.PaymentMethod
		if method == "" {
			method = models.PaymentMethodCash
		}
		entry.Payments = []models.PaymentRecord{{
			Amount:  req.AmountPaid,
			Date:    now,
			Type:    models.PaymentTypeEntry,
			Method:  method,
			ActorID: userID,
		}}
	}

	if err := s.EntryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// IsLockerAvailable reports whether no active entry occupies the locker at
// the location.
func (s *EntryService) IsLockerAvailable(ctx context.Context, locationID int, lockerNumber string) (bool, error) {
	count, err := s.EntryRepo.CountActiveByLocker(ctx, locationID, lockerNumber)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (s *EntryService) GetEntry(ctx context.Context, id int) (*models.Entry, error) {
	return s.EntryRepo.Get(ctx, id)
}

func (s *EntryService) ListEntries(ctx context.Context) ([]*models.Entry, error) {
	return s.EntryRepo.List(ctx)
}

// IsEntryExpired recomputes the expiry predicate against the current time.
func (s *EntryService) IsEntryExpired(ctx context.Context, id int) (bool, error) {
	entry, err := s.EntryRepo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return entry.IsExpired(timeutil.Now()), nil
}
