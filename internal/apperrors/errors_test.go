package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "validation", err: Validation("bad input"), want: KindValidation},
		{name: "not found", err: NotFound("entry %d not found", 7), want: KindNotFound},
		{name: "invalid state", err: InvalidState("completed"), want: KindInvalidState},
		{name: "insufficient inventory", err: InsufficientInventory(3, 5), want: KindInsufficientInventory},
		{name: "over release", err: OverRelease(2, 4), want: KindOverRelease},
		{name: "expired", err: Expired("gone"), want: KindExpired},
		{name: "attempts exhausted", err: AttemptsExhausted("locked"), want: KindAttemptsExhausted},
		{name: "conflict", err: Conflict("retry"), want: KindConflict},
		{name: "wrapped", err: fmt.Errorf("outer: %w", NotFound("inner")), want: KindNotFound},
		{name: "plain error", err: errors.New("boom"), want: ""},
		{name: "nil", err: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := InsufficientInventory(3, 5)
	if !IsKind(err, KindInsufficientInventory) {
		t.Error("IsKind should match the error's own kind")
	}
	if IsKind(err, KindValidation) {
		t.Error("IsKind should not match a different kind")
	}
}

func TestInsufficientInventoryCarriesRemaining(t *testing.T) {
	err := InsufficientInventory(3, 5)

	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatal("expected *Error")
	}
	if appErr.Remaining != 3 {
		t.Errorf("Remaining = %d, want 3", appErr.Remaining)
	}
	if appErr.Message != "requested 5 pots but only 3 remaining" {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestErrorMessageFormatting(t *testing.T) {
	err := Validation("months must be between %d and %d", 1, 12)
	if err.Error() != "months must be between 1 and 12" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
