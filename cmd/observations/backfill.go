package observations

import (
	"context"
	"errors"
	"fmt"
)

// ErrBackfillExhausted means no day within the attempt bound had data.
var ErrBackfillExhausted = errors.New("no data available")

// LoadWithBackfill fetches the single day [date, date] for station. When a
// day comes back empty it steps one calendar day back and retries, up to
// maxAttempts extra days, so a maintenance gap shows the nearest prior day
// instead of an empty table. Returns the records together with the date
// that actually produced them. At most maxAttempts+1 fetches are issued.
func LoadWithBackfill(ctx context.Context, f Fetcher, station, date string, maxAttempts int) ([]HourlyRecord, string, error) {
	attempt := 0
	for {
		records, err := f.FetchRange(ctx, station, date, date)
		if err != nil {
			return nil, "", fmt.Errorf("fetch %s: %w", date, err)
		}
		if len(records) > 0 {
			return records, date, nil
		}
		if attempt >= maxAttempts {
			return nil, "", fmt.Errorf("%w: searched back to %s", ErrBackfillExhausted, date)
		}
		prev, err := PreviousDate(date)
		if err != nil {
			return nil, "", err
		}
		date = prev
		attempt++
	}
}
