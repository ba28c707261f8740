package services

import (
	"context"
	"fmt"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/inventory"
	"cms-backend/internal/metrics"
	"cms-backend/internal/models"
	"cms-backend/internal/timeutil"
)

// DispatchFeed receives committed dispatch events for live observers. It must
// never block the caller; the monitoring hub satisfies it.
type DispatchFeed interface {
	BroadcastDispatch(ev models.DispatchEvent)
}

// DeliveryService is the partial release processor. All validation happens
// before the transactional write; inside the transaction the inventory
// reservation, the entry mutation and the ledger appends land together or
// not at all.
type DeliveryService struct {
	EntryRepo EntryStore
	UserRepo  UserStore
	OTP       *OTPService
	Feed      DispatchFeed // optional
}

func NewDeliveryService(entryRepo EntryStore, userRepo UserStore, otp *OTPService) *DeliveryService {
	return &DeliveryService{
		EntryRepo: entryRepo,
		UserRepo:  userRepo,
		OTP:       otp,
	}
}

// SetFeed attaches a live dispatch feed.
func (s *DeliveryService) SetFeed(feed DispatchFeed) {
	s.Feed = feed
}

// ProcessRelease hands over potsToRelease pots from one locker of an entry.
// Finality is locker-scoped: the release is final when that locker reaches
// zero remaining. The entry itself completes only when no pots remain across
// all of its lockers.
func (s *DeliveryService) ProcessRelease(ctx context.Context, entryID int, req *models.ProcessReleaseRequest, actorID int) (*models.ReleaseResult, error) {
	if req.PotsToRelease < 1 {
		return nil, apperrors.Validation("pots to release must be at least 1")
	}
	if req.LockerNumber == "" {
		return nil, apperrors.Validation("locker number is required")
	}
	if !validMobile(req.HandoverPersonMobile) {
		return nil, apperrors.Validation("handover mobile must be a valid 10-digit number")
	}
	if req.AmountPaid < 0 || req.DueAmount < 0 {
		return nil, apperrors.Validation("amounts must not be negative")
	}
	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCash
	}
	if method != models.PaymentMethodCash && method != models.PaymentMethodUPI {
		return nil, apperrors.Validation("payment method must be 'cash' or 'upi'")
	}

	// Consuming the challenge up front closes the race where two requests
	// share one verification; the loser of the consume is turned away here.
	if err := s.OTP.ConsumeVerified(ctx, req.OTPChallengeID, entryID, models.OTPPurposeDelivery); err != nil {
		return nil, err
	}

	operator, err := s.UserRepo.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var result models.ReleaseResult
	var committedEvent *models.DispatchEvent

	_, err = s.EntryRepo.Mutate(ctx, entryID, func(entry *models.Entry) (*models.EntrySideEffects, error) {
		if entry.Status != models.EntryStatusActive {
			return nil, apperrors.InvalidState("entry %d is %s and cannot release pots", entry.ID, entry.Status)
		}
		if entry.Locker(req.LockerNumber) == nil {
			return nil, apperrors.Validation("locker %s is not assigned to entry %d", req.LockerNumber, entry.ID)
		}

		updated, err := inventory.ReserveRelease(entry, req.LockerNumber, req.PotsToRelease)
		if err != nil {
			return nil, err
		}
		for i := range entry.LockerDetails {
			if entry.LockerDetails[i].LockerNumber == updated.LockerNumber {
				entry.LockerDetails[i] = updated
			}
		}

		if entry.PotsDelivered+req.PotsToRelease > entry.TotalPots {
			return nil, apperrors.OverRelease(entry.Remaining(), req.PotsToRelease)
		}
		entry.PotsDelivered += req.PotsToRelease

		lockerRemaining := updated.RemainingPots()
		now := timeutil.Now()
		releaseID := updated.DispatchedPots[len(updated.DispatchedPots)-1]

		tx := models.DeliveryTransaction{
			ReleaseID:                  releaseID,
			LockerNumber:               req.LockerNumber,
			PotsDelivered:              req.PotsToRelease,
			HandoverPersonName:         req.HandoverPersonName,
			HandoverPersonMobile:       req.HandoverPersonMobile,
			AmountPaid:                 req.AmountPaid,
			DueAmount:                  req.DueAmount,
			Reason:                     req.Reason,
			ActorID:                    actorID,
			RemainingPotsAfterDelivery: lockerRemaining,
			DeliveredAt:                now,
		}
		entry.DeliveryHistory = append(entry.DeliveryHistory, tx)
		entry.Payments = append(entry.Payments, models.PaymentRecord{
			Amount:    req.AmountPaid,
			DueAmount: req.DueAmount,
			Date:      now,
			Type:      models.PaymentTypeDelivery,
			Method:    method,
			ActorID:   actorID,
		})

		if entry.Remaining() == 0 {
			entry.Status = models.EntryStatusCompleted
		}

		result = models.ReleaseResult{
			ReleaseID:      releaseID,
			RemainingPots:  lockerRemaining,
			IsFinalRelease: lockerRemaining == 0,
			EntryStatus:    entry.Status,
		}

		event := &models.DispatchEvent{
			EntryID:        entry.ID,
			ReleaseID:      releaseID,
			CustomerName:   entry.CustomerName,
			CustomerMobile: entry.CustomerMobile,
			LocationName:   entry.LocationName,
			OperatorName:   operator.Name,
			LockerNumber:   req.LockerNumber,
			PotsDispatched: req.PotsToRelease,
			RemainingPots:  lockerRemaining,
			PaymentAmount:  req.AmountPaid,
			DueAmount:      req.DueAmount,
			DispatchDate:   now,
		}
		committedEvent = event

		template := models.TemplateDeliveryPartial
		if result.IsFinalRelease {
			template = models.TemplateDeliveryFinal
		}

		return &models.EntrySideEffects{
			DispatchEvent: event,
			Log: &models.DeliveryLog{
				EntryID: entry.ID,
				Action:  models.LogActionReleaseProcessed,
				Details: fmt.Sprintf("released %d pots from locker %s, %d remaining", req.PotsToRelease, req.LockerNumber, lockerRemaining),
				ActorID: actorID,
			},
			Intents: []models.NotificationIntent{{
				TemplateKind:    template,
				RecipientMobile: entry.CustomerMobile,
				SubstitutionValues: []string{
					entry.CustomerName,
					fmt.Sprintf("%d", req.PotsToRelease),
					fmt.Sprintf("%d", lockerRemaining),
				},
				CorrelatedEntryID: entry.ID,
			}},
		}, nil
	})
	if err != nil {
		metrics.ReleaseFailures.Inc()
		return nil, err
	}

	metrics.ReleasesProcessed.Inc()
	if s.Feed != nil && committedEvent != nil {
		s.Feed.BroadcastDispatch(*committedEvent)
	}
	return &result, nil
}
