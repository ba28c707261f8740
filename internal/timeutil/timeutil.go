package timeutil

import "time"

// IST is the Indian Standard Time location (UTC+5:30). All expiry math and
// display formatting in the service happens in IST.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Now returns the current time in IST.
func Now() time.Time {
	return time.Now().In(IST)
}

// ToIST converts any time to IST.
func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

// AddMonths extends t by months of 30 days each. Renewal and entry durations
// are flat 30-day blocks, not calendar months.
func AddMonths(t time.Time, months int) time.Time {
	return t.Add(time.Duration(months) * 30 * 24 * time.Hour)
}

// Common layouts for IST formatting.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
