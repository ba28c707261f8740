// Package inventory holds the pure locker capacity math. Nothing here touches
// storage: callers persist the returned assignments inside their own
// transaction.
package inventory

import (
	"crypto/rand"
	"encoding/hex"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/models"
)

// RemainingCapacity returns the undelivered pot count for one locker of an
// entry. Fails with a not-found error when the locker number is not assigned
// to the entry.
func RemainingCapacity(entry *models.Entry, lockerNumber string) (int, error) {
	locker := entry.Locker(lockerNumber)
	if locker == nil {
		return 0, apperrors.NotFound("locker %s is not assigned to entry %d", lockerNumber, entry.ID)
	}
	return locker.RemainingPots(), nil
}

// ReserveRelease returns a copy of the locker assignment with count new opaque
// release ids appended to its dispatched set. The input entry is not modified.
func ReserveRelease(entry *models.Entry, lockerNumber string, count int) (models.LockerAssignment, error) {
	locker := entry.Locker(lockerNumber)
	if locker == nil {
		return models.LockerAssignment{}, apperrors.NotFound("locker %s is not assigned to entry %d", lockerNumber, entry.ID)
	}

	remaining := locker.RemainingPots()
	if count > remaining {
		return models.LockerAssignment{}, apperrors.InsufficientInventory(remaining, count)
	}

	updated := models.LockerAssignment{
		LockerNumber:   locker.LockerNumber,
		TotalPots:      locker.TotalPots,
		DispatchedPots: make([]string, 0, len(locker.DispatchedPots)+count),
	}
	updated.DispatchedPots = append(updated.DispatchedPots, locker.DispatchedPots...)
	for i := 0; i < count; i++ {
		updated.DispatchedPots = append(updated.DispatchedPots, NewReleaseID())
	}
	return updated, nil
}

// NewReleaseID generates an opaque release id for one dispatched pot.
func NewReleaseID() string {
	buf := make([]byte, 8)
	rand.Read(buf)
	return "rel_" + hex.EncodeToString(buf)
}
