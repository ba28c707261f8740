package notify

import (
	"context"
	"errors"
	"testing"

	"cms-backend/internal/models"
)

type fakeOutbox struct {
	pending []*models.NotificationIntent
	sent    []int
	failed  map[int]string
}

func newFakeOutbox(intents ...*models.NotificationIntent) *fakeOutbox {
	return &fakeOutbox{pending: intents, failed: make(map[int]string)}
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]*models.NotificationIntent, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id int) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutbox) MarkFailed(ctx context.Context, id int, reason string) error {
	f.failed[id] = reason
	return nil
}

type fakeProvider struct {
	sent    []string
	failFor map[string]error
}

func (f *fakeProvider) Send(mobile, message string) error {
	if err, ok := f.failFor[mobile]; ok {
		return err
	}
	f.sent = append(f.sent, message)
	return nil
}

func TestDrainOnce(t *testing.T) {
	good := &models.NotificationIntent{
		ID:                 1,
		TemplateKind:       models.TemplateOTP,
		RecipientMobile:    "9876543210",
		SubstitutionValues: []string{"123456", "10"},
	}
	malformed := &models.NotificationIntent{
		ID:                 2,
		TemplateKind:       models.TemplateOTP,
		RecipientMobile:    "9876543210",
		SubstitutionValues: []string{"123456"},
	}
	undeliverable := &models.NotificationIntent{
		ID:                 3,
		TemplateKind:       models.TemplateOTP,
		RecipientMobile:    "9000000000",
		SubstitutionValues: []string{"654321", "10"},
	}

	outbox := newFakeOutbox(good, malformed, undeliverable)
	provider := &fakeProvider{failFor: map[string]error{
		"9000000000": errors.New("gateway timeout"),
	}}

	w := NewWorker(outbox, provider, 0)
	w.DrainOnce(context.Background())

	if len(outbox.sent) != 1 || outbox.sent[0] != 1 {
		t.Errorf("sent = %v, want [1]", outbox.sent)
	}
	if _, ok := outbox.failed[2]; !ok {
		t.Error("malformed intent 2 should be marked failed")
	}
	if reason := outbox.failed[3]; reason != "gateway timeout" {
		t.Errorf("intent 3 failure reason = %q, want gateway timeout", reason)
	}
	if len(provider.sent) != 1 {
		t.Fatalf("provider sent %d messages, want 1", len(provider.sent))
	}
}

func TestDrainOnceEmptyOutbox(t *testing.T) {
	outbox := newFakeOutbox()
	provider := &fakeProvider{}

	w := NewWorker(outbox, provider, 0)
	w.DrainOnce(context.Background())

	if len(provider.sent) != 0 {
		t.Error("nothing should be sent from an empty outbox")
	}
}
