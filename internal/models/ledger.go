package models

import "time"

// Payment types and methods accepted on the ledger.
const (
	PaymentTypeEntry    = "entry"
	PaymentTypeRenewal  = "renewal"
	PaymentTypeDelivery = "delivery"

	PaymentMethodCash = "cash"
	PaymentMethodUPI  = "upi"
)

// PaymentRecord is one append-only ledger line on an entry.
type PaymentRecord struct {
	Amount    float64   `json:"amount"`
	DueAmount float64   `json:"due_amount"`
	Date      time.Time `json:"date"`
	Type      string    `json:"type"`   // 'entry', 'renewal' or 'delivery'
	Method    string    `json:"method"` // 'cash' or 'upi'
	ActorID   int       `json:"actor_id"`
}

// RenewalRecord is one expiry extension. Each renewal strictly increases the
// entry's expiry date.
type RenewalRecord struct {
	Months        int       `json:"months"` // 1..12
	Amount        float64   `json:"amount"`
	Method        string    `json:"method"`
	NewExpiryDate time.Time `json:"new_expiry_date"`
	ActorID       int       `json:"actor_id"`
	RenewedAt     time.Time `json:"renewed_at"`
}

// DeliveryTransaction is one partial or final release event recorded on the
// entry itself. RemainingPotsAfterDelivery is captured at write time so the
// history stays readable without replaying prior events.
type DeliveryTransaction struct {
	ReleaseID                  string    `json:"release_id"`
	LockerNumber               string    `json:"locker_number"`
	PotsDelivered              int       `json:"pots_delivered"` // >= 1
	HandoverPersonName         string    `json:"handover_person_name"`
	HandoverPersonMobile       string    `json:"handover_person_mobile"`
	AmountPaid                 float64   `json:"amount_paid"`
	DueAmount                  float64   `json:"due_amount"`
	Reason                     string    `json:"reason"`
	ActorID                    int       `json:"actor_id"`
	RemainingPotsAfterDelivery int       `json:"remaining_pots_after_delivery"`
	DeliveredAt                time.Time `json:"delivered_at"`
}
