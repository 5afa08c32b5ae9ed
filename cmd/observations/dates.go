package observations

import (
	"fmt"
	"time"
)

const dayFormat = "2006-01-02"

// displayZone pins day boundaries at UTC-05:00, the stations' local
// convention, so "previous day" means the same thing no matter where the
// viewer runs.
var displayZone = time.FixedZone("UTC-5", -5*60*60)

// PreviousDate returns the calendar date one day before date, both in ISO
// YYYY-MM-DD form.
func PreviousDate(date string) (string, error) {
	t, err := time.ParseInLocation(dayFormat, date, displayZone)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return t.AddDate(0, 0, -1).Format(dayFormat), nil
}

// Today is the current calendar date in the display zone.
func Today() string {
	return time.Now().In(displayZone).Format(dayFormat)
}
