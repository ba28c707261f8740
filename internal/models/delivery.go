package models

// ProcessReleaseRequest is the request body for releasing pots from a locker.
type ProcessReleaseRequest struct {
	LockerNumber         string  `json:"locker_number"`
	PotsToRelease        int     `json:"pots_to_release"`
	HandoverPersonName   string  `json:"handover_person_name"`
	HandoverPersonMobile string  `json:"handover_person_mobile"`
	AmountPaid           float64 `json:"amount_paid"`
	DueAmount            float64 `json:"due_amount"`
	PaymentMethod        string  `json:"payment_method"`
	Reason               string  `json:"reason"`
	OTPChallengeID       int     `json:"otp_challenge_id"`
}

// ReleaseResult reports the outcome of a successful release. Finality is
// locker-scoped: the release is final when that locker's remaining reaches
// zero, even if other lockers on the entry still hold pots.
type ReleaseResult struct {
	ReleaseID      string `json:"release_id"`
	RemainingPots  int    `json:"remaining_pots"`
	IsFinalRelease bool   `json:"is_final_release"`
	EntryStatus    string `json:"entry_status"`
}

// ProcessRenewalRequest is the request body for renewing an entry.
// Amount 0 means "use the default rate".
type ProcessRenewalRequest struct {
	Months         int     `json:"months"` // 1..12
	Amount         float64 `json:"amount"`
	PaymentMethod  string  `json:"payment_method"`
	OTPChallengeID int     `json:"otp_challenge_id"`
}
