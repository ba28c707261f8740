package models

import "time"

// OTP challenge purposes.
const (
	OTPPurposeRenewal  = "renewal"
	OTPPurposeDelivery = "delivery"
)

// OTPChallenge gates a sensitive release/renewal confirmation. A challenge is
// terminal once consumed, expired, or out of attempts; it is never reused.
// ConsumedAt is set when the challenge authorizes its operation, so one
// verification gates exactly one release or renewal.
type OTPChallenge struct {
	ID         int        `json:"id" db:"id"`
	EntryID    int        `json:"entry_id" db:"entry_id"`
	Purpose    string     `json:"purpose" db:"purpose"`
	Code       string     `json:"-" db:"code"` // Never expose the code in JSON responses
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	Attempts   int        `json:"attempts" db:"attempts"`
	Verified   bool       `json:"verified" db:"verified"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty" db:"consumed_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// IssueOTPRequest is the request body for issuing a challenge.
type IssueOTPRequest struct {
	EntryID int    `json:"entry_id"`
	Purpose string `json:"purpose"`
}

// VerifyOTPRequest is the request body for verifying a challenge.
type VerifyOTPRequest struct {
	ChallengeID int    `json:"challenge_id"`
	Code        string `json:"code"`
}

// VerifyOTPResult reports the outcome of a verification attempt. On a wrong
// code the challenge stays open while AttemptsRemaining > 0.
type VerifyOTPResult struct {
	Verified          bool `json:"verified"`
	AttemptsRemaining int  `json:"attempts_remaining"`
}
