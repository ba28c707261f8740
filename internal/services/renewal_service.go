package services

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/metrics"
	"cms-backend/internal/models"
	"cms-backend/internal/timeutil"
)

// defaultRatePerLockerPerMonth applies when system_settings carries no
// override.
const defaultRatePerLockerPerMonth = 300.0

type RenewalService struct {
	EntryRepo   EntryStore
	SettingRepo SettingStore
	OTP         *OTPService
	AdminMobile string
}

func NewRenewalService(entryRepo EntryStore, settingRepo SettingStore, otp *OTPService, adminMobile string) *RenewalService {
	return &RenewalService{
		EntryRepo:   entryRepo,
		SettingRepo: settingRepo,
		OTP:         otp,
		AdminMobile: adminMobile,
	}
}

// ratePerLockerPerMonth reads the configured rate, tolerating a missing or
// malformed setting.
func (s *RenewalService) ratePerLockerPerMonth(ctx context.Context) float64 {
	setting, err := s.SettingRepo.Get(ctx, models.SettingRatePerLockerPerMonth)
	if err != nil || setting == nil {
		return defaultRatePerLockerPerMonth
	}
	rate, err := strconv.ParseFloat(setting.SettingValue, 64)
	if err != nil || rate <= 0 {
		log.Printf("[Renewal] Invalid rate setting %q, using default", setting.SettingValue)
		return defaultRatePerLockerPerMonth
	}
	return rate
}

// adminNotifyMobile prefers the runtime setting over the configured fallback.
func (s *RenewalService) adminNotifyMobile(ctx context.Context) string {
	setting, err := s.SettingRepo.Get(ctx, models.SettingAdminNotifyMobile)
	if err == nil && setting != nil && setting.SettingValue != "" {
		return setting.SettingValue
	}
	return s.AdminMobile
}

// ProcessRenewal extends an entry's storage period. The new expiry restarts
// from now rather than stacking onto the old date, so a lapsed entry renewed
// today is paid up from today. A renewal that would land before the current
// expiry is rejected; the expiry date only ever moves forward. Amount 0 asks
// for the default rate.
func (s *RenewalService) ProcessRenewal(ctx context.Context, entryID int, req *models.ProcessRenewalRequest, actorID int) (*models.RenewalRecord, error) {
	if req.Months < 1 || req.Months > 12 {
		return nil, apperrors.Validation("months must be between 1 and 12")
	}
	if req.Amount < 0 {
		return nil, apperrors.Validation("amount must not be negative")
	}
	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCash
	}
	if method != models.PaymentMethodCash && method != models.PaymentMethodUPI {
		return nil, apperrors.Validation("payment method must be 'cash' or 'upi'")
	}

	if err := s.OTP.ConsumeVerified(ctx, req.OTPChallengeID, entryID, models.OTPPurposeRenewal); err != nil {
		return nil, err
	}

	rate := s.ratePerLockerPerMonth(ctx)
	adminMobile := s.adminNotifyMobile(ctx)

	var record models.RenewalRecord

	_, err := s.EntryRepo.Mutate(ctx, entryID, func(entry *models.Entry) (*models.EntrySideEffects, error) {
		if entry.Status != models.EntryStatusActive {
			return nil, apperrors.InvalidState("entry %d is %s and cannot be renewed", entry.ID, entry.Status)
		}

		amount := req.Amount
		if amount == 0 {
			amount = rate * float64(req.Months) * float64(len(entry.LockerDetails))
		}

		now := timeutil.Now()
		newExpiry := timeutil.AddMonths(now, req.Months)
		// Every renewal must extend the expiry. Restarting from now would
		// otherwise let a short renewal shorten an entry paid well ahead.
		if !newExpiry.After(entry.ExpiryDate) {
			return nil, apperrors.InvalidState(
				"a %d month renewal would not extend the current expiry %s",
				req.Months, entry.ExpiryDate.In(timeutil.IST).Format(timeutil.DateLayout))
		}

		record = models.RenewalRecord{
			Months:        req.Months,
			Amount:        amount,
			Method:        method,
			NewExpiryDate: newExpiry,
			ActorID:       actorID,
			RenewedAt:     now,
		}
		entry.Renewals = append(entry.Renewals, record)
		entry.Payments = append(entry.Payments, models.PaymentRecord{
			Amount:  amount,
			Date:    now,
			Type:    models.PaymentTypeRenewal,
			Method:  method,
			ActorID: actorID,
		})
		entry.ExpiryDate = newExpiry

		intents := []models.NotificationIntent{{
			TemplateKind:    models.TemplateRenewalConfirmed,
			RecipientMobile: entry.CustomerMobile,
			SubstitutionValues: []string{
				entry.CustomerName,
				fmt.Sprintf("%d", req.Months),
				newExpiry.In(timeutil.IST).Format("02 Jan 2006"),
			},
			CorrelatedEntryID: entry.ID,
		}}
		if adminMobile != "" {
			intents = append(intents, models.NotificationIntent{
				TemplateKind:    models.TemplateRenewalAdmin,
				RecipientMobile: adminMobile,
				SubstitutionValues: []string{
					entry.CustomerName,
					fmt.Sprintf("%d", entry.ID),
					fmt.Sprintf("%.2f", amount),
				},
				CorrelatedEntryID: entry.ID,
			})
		}

		return &models.EntrySideEffects{
			Log: &models.DeliveryLog{
				EntryID: entry.ID,
				Action:  models.LogActionRenewalProcessed,
				Details: fmt.Sprintf("renewed %d months for %.2f, new expiry %s", req.Months, amount, newExpiry.Format("2006-01-02")),
				ActorID: actorID,
			},
			Intents: intents,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RenewalsProcessed.Inc()
	return &record, nil
}
