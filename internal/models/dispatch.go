package models

import "time"

// Source collection provenance tags on unified dispatch records.
const (
	SourceDispatchEvents  = "dispatch_events"
	SourceDeliveries      = "deliveries"
	SourceEntryDeliveries = "entry_delivery_history"
)

// Dispatch type and payment classification on unified records.
const (
	DispatchTypePartial = "partial"
	DispatchTypeFull    = "full"

	DispatchPaymentFree    = "free"
	DispatchPaymentPartial = "partial"
	DispatchPaymentFull    = "full"
)

// DispatchEvent is a row in the dedicated dispatch-events collection, written
// in the same transaction as the release it records. ReleaseID correlates the
// row with the matching entry-embedded DeliveryTransaction so the
// reconciliation view can collapse the two into one record.
type DispatchEvent struct {
	ID             int       `json:"id"`
	EntryID        int       `json:"entry_id"`
	ReleaseID      string    `json:"release_id"`
	CustomerName   string    `json:"customer_name"`
	CustomerMobile string    `json:"customer_mobile"`
	LocationName   string    `json:"location_name"`
	OperatorName   string    `json:"operator_name"`
	LockerNumber   string    `json:"locker_number"`
	PotsDispatched int       `json:"pots_dispatched"`
	RemainingPots  int       `json:"remaining_pots"`
	PaymentAmount  float64   `json:"payment_amount"`
	DueAmount      float64   `json:"due_amount"`
	DispatchDate   time.Time `json:"dispatch_date"`
}

// Delivery is a row in the older deliveries collection. It predates the
// dispatch-events shape and lacks location and customer fields. The collection
// is read-only legacy data: new releases write dispatch_events only.
type Delivery struct {
	ID              int       `json:"id"`
	EntryID         int       `json:"entry_id"`
	RecipientName   string    `json:"recipient_name"`
	RecipientMobile string    `json:"recipient_mobile"`
	Quantity        int       `json:"quantity"`
	RemainingAfter  int       `json:"remaining_after"`
	Amount          float64   `json:"amount"`
	DueAmount       float64   `json:"due_amount"`
	Reason          string    `json:"reason"`
	OperatorName    string    `json:"operator_name"`
	CreatedAt       time.Time `json:"created_at"`
}

// UnifiedDispatchRecord is the normalized projection produced by the
// reconciliation service. It is recomputed per query and never persisted as
// authoritative.
type UnifiedDispatchRecord struct {
	EntryID          int       `json:"entry_id"`
	CustomerName     string    `json:"customer_name"`
	CustomerMobile   string    `json:"customer_mobile"`
	LocationName     string    `json:"location_name"`
	OperatorName     string    `json:"operator_name"`
	DispatchType     string    `json:"dispatch_type"` // 'partial' or 'full'
	PotsDispatched   int       `json:"pots_dispatched"`
	RemainingPots    int       `json:"remaining_pots"`
	PaymentAmount    float64   `json:"payment_amount"`
	PaymentType      string    `json:"payment_type"` // 'free', 'partial' or 'full'
	SourceCollection string    `json:"source_collection"`
	SourceRecordID   string    `json:"source_record_id"`
	DispatchDate     time.Time `json:"dispatch_date"`
}

// DispatchFilters narrows reconciliation queries. Zero values mean "all".
type DispatchFilters struct {
	EntryID      int       `json:"entry_id"`
	LocationName string    `json:"location_name"`
	OperatorName string    `json:"operator_name"`
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
}

// OperatorDispatchStats is the per-operator slice of the aggregate view.
// Grouping is by display name, so two operators sharing a name merge; the
// reporting view is advisory, not authoritative.
type OperatorDispatchStats struct {
	Dispatches     int     `json:"dispatches"`
	PotsDispatched int     `json:"pots_dispatched"`
	Revenue        float64 `json:"revenue"`
}

// DispatchStats aggregates unified records for reporting.
type DispatchStats struct {
	TotalDispatches   int                              `json:"total_dispatches"`
	PartialDispatches int                              `json:"partial_dispatches"`
	FullDispatches    int                              `json:"full_dispatches"`
	TotalRevenue      float64                          `json:"total_revenue"`
	AverageRevenue    float64                          `json:"average_revenue"`
	ByOperator        map[string]OperatorDispatchStats `json:"by_operator"`
}
