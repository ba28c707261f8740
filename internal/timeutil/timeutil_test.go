package timeutil

import (
	"testing"
	"time"
)

func TestAddMonths(t *testing.T) {
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, IST)

	tests := []struct {
		months   int
		wantDays int
	}{
		{months: 1, wantDays: 30},
		{months: 3, wantDays: 90},
		{months: 12, wantDays: 360},
	}

	for _, tt := range tests {
		got := AddMonths(base, tt.months)
		if days := int(got.Sub(base).Hours() / 24); days != tt.wantDays {
			t.Errorf("AddMonths(%d) = %d days, want %d", tt.months, days, tt.wantDays)
		}
	}
}

func TestNowIsIST(t *testing.T) {
	now := Now()
	_, offset := now.Zone()
	if offset != 5*3600+30*60 {
		t.Errorf("offset = %d, want +05:30", offset)
	}
}

func TestToIST(t *testing.T) {
	utc := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ist := ToIST(utc)
	if !ist.Equal(utc) {
		t.Error("conversion must not change the instant")
	}
	if ist.Hour() != 17 || ist.Minute() != 30 {
		t.Errorf("12:00 UTC should read 17:30 IST, got %02d:%02d", ist.Hour(), ist.Minute())
	}
}
