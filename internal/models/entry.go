package models

import "time"

// Entry statuses. "partially released" is not a stored status: it is an
// active entry with PotsDelivered > 0. Expiry is a derived predicate, never
// stored, so a renewed entry needs no status repair.
const (
	EntryStatusActive    = "active"
	EntryStatusCompleted = "completed"
)

type Entry struct {
	ID              int                   `json:"id"`
	CustomerID      int                   `json:"customer_id"`
	CustomerName    string                `json:"customer_name"`
	CustomerMobile  string                `json:"customer_mobile"`
	CustomerCity    string                `json:"customer_city"`
	LocationID      int                   `json:"location_id"`
	LocationName    string                `json:"location_name,omitempty"` // Denormalized for display
	TotalPots       int                   `json:"total_pots"`              // Immutable after creation
	PotsDelivered   int                   `json:"pots_delivered"`          // Cumulative, never exceeds TotalPots
	LockerDetails   []LockerAssignment    `json:"locker_details"`
	Status          string                `json:"status"` // 'active' or 'completed'
	EntryDate       time.Time             `json:"entry_date"`
	ExpiryDate      time.Time             `json:"expiry_date"`
	Payments        []PaymentRecord       `json:"payments"`
	Renewals        []RenewalRecord       `json:"renewals"`
	DeliveryHistory []DeliveryTransaction `json:"delivery_history"`
	ImportBatchID   *string               `json:"import_batch_id,omitempty"`
	CreatedByUserID int                   `json:"created_by_user_id"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// Remaining returns the pots still held across all lockers of the entry.
func (e *Entry) Remaining() int {
	return e.TotalPots - e.PotsDelivered
}

// IsExpired reports whether the entry is past its expiry date at the given
// instant. Recomputed on every read; the result is never cached or stored.
func (e *Entry) IsExpired(now time.Time) bool {
	return now.After(e.ExpiryDate)
}

// Locker returns the assignment for the given locker number, or nil.
func (e *Entry) Locker(lockerNumber string) *LockerAssignment {
	for i := range e.LockerDetails {
		if e.LockerDetails[i].LockerNumber == lockerNumber {
			return &e.LockerDetails[i]
		}
	}
	return nil
}

// LockerAssignment binds a sub-count of an entry's pots to one physical
// locker. DispatchedPots holds one opaque release id per pot already handed
// out, so remaining capacity is always derivable from the record itself.
type LockerAssignment struct {
	LockerNumber   string   `json:"locker_number"`
	TotalPots      int      `json:"total_pots"`
	DispatchedPots []string `json:"dispatched_pots"`
}

// RemainingPots is derived: TotalPots minus the dispatched release ids.
func (a *LockerAssignment) RemainingPots() int {
	return a.TotalPots - len(a.DispatchedPots)
}

// CreateEntryRequest is the request body for creating an entry.
type CreateEntryRequest struct {
	CustomerID     int     `json:"customer_id"`
	CustomerName   string  `json:"customer_name"`
	CustomerMobile string  `json:"customer_mobile"`
	CustomerCity   string  `json:"customer_city"`
	LocationID     int     `json:"location_id"`
	LockerNumber   string  `json:"locker_number"`
	TotalPots      int     `json:"total_pots"`
	AmountPaid     float64 `json:"amount_paid"`
	PaymentMethod  string  `json:"payment_method"`
	ImportBatchID  *string `json:"import_batch_id,omitempty"`
}
