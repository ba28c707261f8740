package services

import (
	"context"
	"sync"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/models"
)

// In-memory store fakes. The entry store serializes Mutate calls with a
// mutex, matching the row-lock semantics of the real repository.

type memEntryStore struct {
	mu      sync.Mutex
	nextID  int
	entries map[int]*models.Entry

	events  []*models.DispatchEvent
	logs    []*models.DeliveryLog
	intents []models.NotificationIntent
}

func newMemEntryStore() *memEntryStore {
	return &memEntryStore{nextID: 1, entries: make(map[int]*models.Entry)}
}

func (s *memEntryStore) Create(ctx context.Context, e *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	clone := *e
	s.entries[e.ID] = &clone
	return nil
}

func (s *memEntryStore) Get(ctx context.Context, id int) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, apperrors.NotFound("entry %d not found", id)
	}
	clone := *e
	return &clone, nil
}

func (s *memEntryStore) List(ctx context.Context) ([]*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Entry
	for _, e := range s.entries {
		clone := *e
		out = append(out, &clone)
	}
	return out, nil
}

func (s *memEntryStore) CountActiveByLocker(ctx context.Context, locationID int, lockerNumber string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, e := range s.entries {
		if e.Status != models.EntryStatusActive || e.LocationID != locationID {
			continue
		}
		for _, l := range e.LockerDetails {
			if l.LockerNumber == lockerNumber {
				count++
			}
		}
	}
	return count, nil
}

func (s *memEntryStore) Mutate(ctx context.Context, id int, mutate func(*models.Entry) (*models.EntrySideEffects, error)) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, apperrors.NotFound("entry %d not found", id)
	}

	work := *e
	effects, err := mutate(&work)
	if err != nil {
		return nil, err
	}
	s.entries[id] = &work

	if effects != nil {
		if effects.DispatchEvent != nil {
			effects.DispatchEvent.ID = len(s.events) + 1
			s.events = append(s.events, effects.DispatchEvent)
		}
		if effects.Log != nil {
			s.logs = append(s.logs, effects.Log)
		}
		s.intents = append(s.intents, effects.Intents...)
	}

	clone := work
	return &clone, nil
}

func (s *memEntryStore) ListDeliveryHistory(ctx context.Context) ([]*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Entry
	for _, e := range s.entries {
		if len(e.DeliveryHistory) > 0 {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *memEntryStore) DeleteByImportBatch(ctx context.Context, batchID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for id, e := range s.entries {
		if e.ImportBatchID != nil && *e.ImportBatchID == batchID {
			delete(s.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

type memOTPStore struct {
	mu         sync.Mutex
	nextID     int
	challenges map[int]*models.OTPChallenge
}

func newMemOTPStore() *memOTPStore {
	return &memOTPStore{nextID: 1, challenges: make(map[int]*models.OTPChallenge)}
}

func (s *memOTPStore) Create(ctx context.Context, c *models.OTPChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Issuing a fresh challenge retires any outstanding one for the pair.
	for _, existing := range s.challenges {
		if existing.EntryID == c.EntryID && existing.Purpose == c.Purpose && !existing.Verified {
			existing.Attempts = 3
		}
	}
	c.ID = s.nextID
	s.nextID++
	clone := *c
	s.challenges[c.ID] = &clone
	return nil
}

func (s *memOTPStore) Get(ctx context.Context, id int) (*models.OTPChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[id]
	if !ok {
		return nil, apperrors.NotFound("otp challenge %d not found", id)
	}
	clone := *c
	return &clone, nil
}

func (s *memOTPStore) Mutate(ctx context.Context, id int, mutate func(*models.OTPChallenge) error) (*models.OTPChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[id]
	if !ok {
		return nil, apperrors.NotFound("otp challenge %d not found", id)
	}

	work := *c
	err := mutate(&work)
	// Attempt accounting persists even when the mutation reports an error.
	s.challenges[id] = &work
	clone := work
	if err != nil {
		return &clone, err
	}
	return &clone, nil
}

type memLogStore struct {
	mu   sync.Mutex
	logs []*models.DeliveryLog
}

func (s *memLogStore) Create(ctx context.Context, l *models.DeliveryLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, l)
	return nil
}

type memOutbox struct {
	mu      sync.Mutex
	intents []*models.NotificationIntent
}

func (s *memOutbox) Append(ctx context.Context, in *models.NotificationIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = len(s.intents) + 1
	s.intents = append(s.intents, in)
	return nil
}

type memLocationStore struct {
	locations map[int]*models.Location
}

func (s *memLocationStore) Get(ctx context.Context, id int) (*models.Location, error) {
	l, ok := s.locations[id]
	if !ok {
		return nil, apperrors.NotFound("location %d not found", id)
	}
	return l, nil
}

type memUserStore struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{nextID: 1, users: make(map[int]*models.User)}
}

func (s *memUserStore) Create(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextID
	s.nextID++
	u.IsActive = true
	clone := *u
	s.users[u.ID] = &clone
	return nil
}

func (s *memUserStore) Get(ctx context.Context, id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	clone := *u
	return &clone, nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (s *memUserStore) SetTOTPSecret(ctx context.Context, userID int, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return apperrors.NotFound("user not found")
	}
	u.TOTPSecret = &secret
	return nil
}

type memSettingStore struct {
	mu       sync.Mutex
	settings map[string]string
}

func newMemSettingStore() *memSettingStore {
	return &memSettingStore{settings: make(map[string]string)}
}

func (s *memSettingStore) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.settings[key]
	if !ok {
		return nil, nil
	}
	return &models.SystemSetting{SettingKey: key, SettingValue: v}, nil
}

func (s *memSettingStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}

type memDispatchEventStore struct {
	events []*models.DispatchEvent
}

func (s *memDispatchEventStore) List(ctx context.Context) ([]*models.DispatchEvent, error) {
	return s.events, nil
}

type memDeliveryStore struct {
	deliveries []*models.Delivery
}

func (s *memDeliveryStore) List(ctx context.Context) ([]*models.Delivery, error) {
	return s.deliveries, nil
}
