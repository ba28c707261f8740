package models

import "time"

// Notification template kinds. The notify package owns each template's arity;
// the core only guarantees the substitution values match it in order and count.
const (
	TemplateDeliveryPartial  = "delivery_partial"
	TemplateDeliveryFinal    = "delivery_final"
	TemplateRenewalConfirmed = "renewal_confirmed"
	TemplateRenewalAdmin     = "renewal_admin"
	TemplateOTP              = "otp"
)

// Outbox row statuses.
const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// NotificationIntent is a structured, not-yet-transmitted request to notify a
// party. The core appends intents to the outbox inside the same transaction as
// the state change they announce; an external worker renders and sends them.
type NotificationIntent struct {
	ID                 int       `json:"id"`
	TemplateKind       string    `json:"template_kind"`
	RecipientMobile    string    `json:"recipient_mobile"`
	SubstitutionValues []string  `json:"substitution_values"`
	CorrelatedEntryID  int       `json:"correlated_entry_id"`
	Status             string    `json:"status"`
	ErrorMessage       string    `json:"error_message,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	SentAt             *time.Time `json:"sent_at,omitempty"`
}
