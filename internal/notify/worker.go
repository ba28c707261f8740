package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"cms-backend/internal/metrics"
	"cms-backend/internal/models"
)

// OutboxSource is the slice of the outbox the worker needs.
type OutboxSource interface {
	ListPending(ctx context.Context, limit int) ([]*models.NotificationIntent, error)
	MarkSent(ctx context.Context, id int) error
	MarkFailed(ctx context.Context, id int, reason string) error
}

const drainBatchSize = 50

// Worker drains the notification outbox on a fixed interval. Transmission is
// strictly out-of-band: a failed send marks the row failed and never touches
// the entry state that produced it.
type Worker struct {
	Outbox   OutboxSource
	Provider SMSProvider
	Interval time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewWorker(outbox OutboxSource, provider SMSProvider, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Worker{
		Outbox:   outbox,
		Provider: provider,
		Interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the drain loop.
func (w *Worker) Start() {
	log.Println("[Notify] Starting outbox worker...")
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.DrainOnce(context.Background())
			case <-w.stopChan:
				log.Println("[Notify] Stopping outbox worker...")
				return
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight drain to finish.
func (w *Worker) Stop() {
	close(w.stopChan)
	w.wg.Wait()
}

// DrainOnce processes one batch of pending intents.
func (w *Worker) DrainOnce(ctx context.Context) {
	pending, err := w.Outbox.ListPending(ctx, drainBatchSize)
	if err != nil {
		log.Printf("[Notify] Outbox list failed: %v", err)
		return
	}

	for _, intent := range pending {
		message, err := Render(intent)
		if err != nil {
			// Malformed intents are failed permanently, not retried.
			w.Outbox.MarkFailed(ctx, intent.ID, err.Error())
			metrics.NotificationsFailed.Inc()
			continue
		}

		if err := w.Provider.Send(intent.RecipientMobile, message); err != nil {
			log.Printf("[Notify] Send failed for intent %d: %v", intent.ID, err)
			w.Outbox.MarkFailed(ctx, intent.ID, err.Error())
			metrics.NotificationsFailed.Inc()
			continue
		}

		if err := w.Outbox.MarkSent(ctx, intent.ID); err != nil {
			log.Printf("[Notify] Mark sent failed for intent %d: %v", intent.ID, err)
			continue
		}
		metrics.NotificationsSent.Inc()
	}
}
