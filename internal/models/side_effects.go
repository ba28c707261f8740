package models

// EntrySideEffects are the companion rows a single entry mutation produces.
// The entry repository writes them in the same transaction as the entry row,
// so either all of them land or none do. Outbox intents ride the transaction
// too, but their delivery is asynchronous and best-effort.
type EntrySideEffects struct {
	DispatchEvent *DispatchEvent
	Log           *DeliveryLog
	Intents       []NotificationIntent
}
