package models

import "time"

// Delivery log action tags.
const (
	LogActionReleaseProcessed = "RELEASE_PROCESSED"
	LogActionReleaseRejected  = "RELEASE_REJECTED"
	LogActionOTPIssued        = "OTP_ISSUED"
	LogActionOTPVerified      = "OTP_VERIFIED"
	LogActionOTPFailed        = "OTP_FAILED"
	LogActionRenewalProcessed = "RENEWAL_PROCESSED"
	LogActionBatchRolledBack  = "BATCH_ROLLED_BACK"
)

// DeliveryLog is one append-only audit row for release and verification
// actions. Write-only from the core's perspective.
type DeliveryLog struct {
	ID        int       `json:"id"`
	EntryID   int       `json:"entry_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	ActorID   int       `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}
