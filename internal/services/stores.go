package services

import (
	"context"

	"cms-backend/internal/models"
)

// Store interfaces consumed by the services. The repositories package
// satisfies them against PostgreSQL; tests satisfy them in memory.

type EntryStore interface {
	Create(ctx context.Context, e *models.Entry) error
	Get(ctx context.Context, id int) (*models.Entry, error)
	List(ctx context.Context) ([]*models.Entry, error)
	CountActiveByLocker(ctx context.Context, locationID int, lockerNumber string) (int, error)
	Mutate(ctx context.Context, id int, mutate func(*models.Entry) (*models.EntrySideEffects, error)) (*models.Entry, error)
	ListDeliveryHistory(ctx context.Context) ([]*models.Entry, error)
	DeleteByImportBatch(ctx context.Context, batchID string) (int, error)
}

type OTPStore interface {
	Create(ctx context.Context, c *models.OTPChallenge) error
	Get(ctx context.Context, id int) (*models.OTPChallenge, error)
	Mutate(ctx context.Context, id int, mutate func(*models.OTPChallenge) error) (*models.OTPChallenge, error)
}

type DispatchEventStore interface {
	List(ctx context.Context) ([]*models.DispatchEvent, error)
}

type DeliveryStore interface {
	List(ctx context.Context) ([]*models.Delivery, error)
}

type DeliveryLogStore interface {
	Create(ctx context.Context, l *models.DeliveryLog) error
}

type OutboxStore interface {
	Append(ctx context.Context, in *models.NotificationIntent) error
}

type LocationStore interface {
	Get(ctx context.Context, id int) (*models.Location, error)
}

type UserStore interface {
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	SetTOTPSecret(ctx context.Context, userID int, secret string) error
}

type SettingStore interface {
	Get(ctx context.Context, key string) (*models.SystemSetting, error)
	Set(ctx context.Context, key, value string) error
}
