package observations

import (
	"context"
	"errors"
	"testing"
)

// fakeFetcher serves canned single-day responses and records which dates
// were requested, in order.
type fakeFetcher struct {
	days  map[string][]HourlyRecord
	fail  map[string]error
	calls []string
}

func (f *fakeFetcher) FetchRange(_ context.Context, station, start, end string) ([]HourlyRecord, error) {
	f.calls = append(f.calls, start)
	if err := f.fail[start]; err != nil {
		return nil, err
	}
	return f.days[start], nil
}

func rec(station, date string, hour int) HourlyRecord {
	return HourlyRecord{StationCode: station, RepresentedDate: date, RepresentedHour: hour, RecordCount: 1}
}

func TestLoadWithBackfillFirstDayHasData(t *testing.T) {
	f := &fakeFetcher{days: map[string][]HourlyRecord{
		"2024-06-10": {rec("ABC123", "2024-06-10", 0), rec("ABC123", "2024-06-10", 1)},
	}}
	records, date, err := LoadWithBackfill(context.Background(), f, "ABC123", "2024-06-10", 3)
	if err != nil {
		t.Fatalf("LoadWithBackfill: %v", err)
	}
	if len(f.calls) != 1 {
		t.Fatalf("fetch calls = %d, want 1", len(f.calls))
	}
	if date != "2024-06-10" {
		t.Fatalf("produced date = %q, want 2024-06-10", date)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
}

func TestLoadWithBackfillStepsBack(t *testing.T) {
	f := &fakeFetcher{days: map[string][]HourlyRecord{
		"2024-06-09": {rec("ABC123", "2024-06-09", 12)},
	}}
	records, date, err := LoadWithBackfill(context.Background(), f, "ABC123", "2024-06-10", 3)
	if err != nil {
		t.Fatalf("LoadWithBackfill: %v", err)
	}
	wantCalls := []string{"2024-06-10", "2024-06-09"}
	if len(f.calls) != len(wantCalls) {
		t.Fatalf("fetch calls = %v, want %v", f.calls, wantCalls)
	}
	for i := range wantCalls {
		if f.calls[i] != wantCalls[i] {
			t.Fatalf("fetch calls = %v, want %v", f.calls, wantCalls)
		}
	}
	if date != "2024-06-09" {
		t.Fatalf("produced date = %q, want 2024-06-09", date)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
}

// The attempt bound is exact: with maxAttempts=3 the fourth empty day stops
// the search even when the fifth day back would have had data.
func TestLoadWithBackfillExhausted(t *testing.T) {
	f := &fakeFetcher{days: map[string][]HourlyRecord{
		"2024-05-28": {rec("ABC123", "2024-05-28", 7)},
	}}
	_, _, err := LoadWithBackfill(context.Background(), f, "ABC123", "2024-06-01", 3)
	if !errors.Is(err, ErrBackfillExhausted) {
		t.Fatalf("err = %v, want ErrBackfillExhausted", err)
	}
	wantCalls := []string{"2024-06-01", "2024-05-31", "2024-05-30", "2024-05-29"}
	if len(f.calls) != len(wantCalls) {
		t.Fatalf("fetch calls = %v, want %v", f.calls, wantCalls)
	}
	for i := range wantCalls {
		if f.calls[i] != wantCalls[i] {
			t.Fatalf("fetch calls = %v, want %v", f.calls, wantCalls)
		}
	}
}

func TestLoadWithBackfillFetchError(t *testing.T) {
	boom := errors.New("upstream down")
	f := &fakeFetcher{fail: map[string]error{"2024-06-10": boom}}
	_, _, err := LoadWithBackfill(context.Background(), f, "ABC123", "2024-06-10", 3)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if len(f.calls) != 1 {
		t.Fatalf("fetch calls = %d, want 1 (no retry on hard failure)", len(f.calls))
	}
}

func TestLoadWithBackfillMalformedDate(t *testing.T) {
	f := &fakeFetcher{}
	_, _, err := LoadWithBackfill(context.Background(), f, "ABC123", "not-a-date", 3)
	if err == nil {
		t.Fatal("expected parse error")
	}
}
