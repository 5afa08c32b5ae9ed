package observations

import (
	"context"
	"errors"
	"testing"
)

func newTestController() *Controller {
	return NewController(Config{
		MaxAttempts: 3,
		Today:       func() string { return "2024-06-10" },
	})
}

// run executes a controller-issued job synchronously and applies it, the way
// the TUI glue does asynchronously.
func run(t *testing.T, c *Controller, f Fetcher, job Job) {
	t.Helper()
	c.Apply(job.Run(context.Background(), f))
}

func TestSelectStationBackfillsFromToday(t *testing.T) {
	f := &fakeFetcher{days: map[string][]HourlyRecord{
		"2024-06-09": {rec("ABC123", "2024-06-09", 3)},
	}}
	c := newTestController()

	job, ok := c.SelectStation("ABC123")
	if !ok {
		t.Fatal("SelectStation refused")
	}
	if c.State() != StateLoading {
		t.Fatalf("state = %v, want StateLoading", c.State())
	}
	run(t, c, f, job)

	if len(f.calls) != 2 {
		t.Fatalf("fetch calls = %v, want [today, yesterday]", f.calls)
	}
	if c.State() != StateReady {
		t.Fatalf("state = %v, want StateReady", c.State())
	}
	if c.EarliestLoadedDate() != "2024-06-09" {
		t.Fatalf("earliest = %q, want 2024-06-09", c.EarliestLoadedDate())
	}
	if len(c.Records()) != 1 {
		t.Fatalf("records = %d, want 1", len(c.Records()))
	}
	if !c.CanExtend() || c.Loading() {
		t.Fatalf("canExtend=%v loading=%v after ready", c.CanExtend(), c.Loading())
	}
}

func TestSelectStationExhausted(t *testing.T) {
	f := &fakeFetcher{}
	c := newTestController()
	job, _ := c.SelectStation("ABC123")
	run(t, c, f, job)

	if c.State() != StateError {
		t.Fatalf("state = %v, want StateError", c.State())
	}
	if !errors.Is(c.LastError(), ErrBackfillExhausted) {
		t.Fatalf("lastError = %v, want ErrBackfillExhausted", c.LastError())
	}
	if c.CanExtend() {
		t.Fatal("canExtend should be false in error state")
	}
}

func TestSelectStationEmptyNoOp(t *testing.T) {
	c := newTestController()
	if _, ok := c.SelectStation(""); ok {
		t.Fatal("empty station should be a no-op")
	}
	if c.State() != StateIdle {
		t.Fatalf("state = %v, want StateIdle", c.State())
	}
}

func TestJumpWithoutStationNoOp(t *testing.T) {
	c := newTestController()
	if _, ok := c.JumpToDate("2024-06-01"); ok {
		t.Fatal("jump without station should be a no-op")
	}
}

func TestJumpToDateReplacesWindow(t *testing.T) {
	f := &fakeFetcher{days: map[string][]HourlyRecord{
		"2024-06-10": {rec("ABC123", "2024-06-10", 0)},
		"2024-06-09": {rec("ABC123", "2024-06-09", 5)},
		"2024-06-01": {rec("ABC123", "2024-06-01", 8), rec("ABC123", "2024-06-01", 9)},
	}}
	c := newTestController()
	job, _ := c.SelectStation("ABC123")
	run(t, c, f, job)
	if job, ok := c.ExtendBackward(); ok {
		run(t, c, f, job)
	}
	if len(c.Records()) != 2 { // 06-10 plus extension to 06-09
		t.Fatalf("precondition: records = %d, want 2", len(c.Records()))
	}

	jump, ok := c.JumpToDate("2024-06-01")
	if !ok {
		t.Fatal("JumpToDate refused")
	}
	run(t, c, f, jump)

	if len(c.Records()) != 2 || c.Records()[0].RepresentedDate != "2024-06-01" {
		t.Fatalf("jump did not replace window: %+v", c.Records())
	}
	if c.EarliestLoadedDate() != "2024-06-01" {
		t.Fatalf("earliest = %q, want 2024-06-01", c.EarliestLoadedDate())
	}

	// Idempotence: jumping again with no intervening extension gives the
	// same sequence.
	jump2, _ := c.JumpToDate("2024-06-01")
	run(t, c, f, jump2)
	if len(c.Records()) != 2 || c.Records()[1].RepresentedHour != 9 {
		t.Fatalf("second jump diverged: %+v", c.Records())
	}
}

func TestExtendAppendOnlyOrdering(t *testing.T) {
	f := &fakeFetcher{days: map[string][]HourlyRecord{
		"2024-06-10": {rec("ABC123", "2024-06-10", 0)},
		"2024-06-09": {rec("ABC123", "2024-06-09", 1)},
		"2024-06-08": {rec("ABC123", "2024-06-08", 2)},
		"2024-06-07": {rec("ABC123", "2024-06-07", 3)},
	}}
	c := newTestController()
	job, _ := c.SelectStation("ABC123")
	run(t, c, f, job)

	for i := 0; i < 3; i++ {
		ext, ok := c.ExtendBackward()
		if !ok {
			t.Fatalf("extension %d refused", i)
		}
		run(t, c, f, ext)
	}

	wantDates := []string{"2024-06-10", "2024-06-09", "2024-06-08", "2024-06-07"}
	records := c.Records()
	if len(records) != len(wantDates) {
		t.Fatalf("records = %d, want %d", len(records), len(wantDates))
	}
	for i, d := range wantDates {
		if records[i].RepresentedDate != d {
			t.Fatalf("records[%d].date = %q, want %q", i, records[i].RepresentedDate, d)
		}
	}
	if c.EarliestLoadedDate() != "2024-06-07" {
		t.Fatalf("earliest = %q, want 2024-06-07", c.EarliestLoadedDate())
	}
}

func TestExtendSingleFlight(t *testing.T) {
	f := &fakeFetcher{days: map[string][]HourlyRecord{
		"2024-06-10": {rec("ABC123", "2024-06-10", 0)},
		"2024-06-09": {rec("ABC123", "2024-06-09", 1)},
	}}
	c := newTestController()
	job, _ := c.SelectStation("ABC123")
	run(t, c, f, job)
	fetchesBefore := len(f.calls)

	ext, ok := c.ExtendBackward()
	if !ok {
		t.Fatal("first extension refused")
	}
	// A second trigger while the first is in flight must be dropped.
	if _, ok := c.ExtendBackward(); ok {
		t.Fatal("second extension started while one was in flight")
	}
	if len(f.calls) != fetchesBefore {
		t.Fatalf("dropped trigger still fetched: %v", f.calls)
	}

	run(t, c, f, ext)
	if !c.CanExtend() {
		t.Fatal("canExtend should re-arm after completion")
	}
	if len(c.Records()) != 2 {
		t.Fatalf("records = %d, want 2", len(c.Records()))
	}
}

func TestExtendEmptyDayStillAdvances(t *testing.T) {
	f := &fakeFetcher{days: map[string][]HourlyRecord{
		"2024-06-10": {rec("ABC123", "2024-06-10", 0)},
	}}
	c := newTestController()
	job, _ := c.SelectStation("ABC123")
	run(t, c, f, job)

	ext, _ := c.ExtendBackward()
	run(t, c, f, ext)

	if len(c.Records()) != 1 {
		t.Fatalf("empty day appended records: %d", len(c.Records()))
	}
	if c.EarliestLoadedDate() != "2024-06-09" {
		t.Fatalf("earliest = %q, want 2024-06-09 (empty day still advances)", c.EarliestLoadedDate())
	}
	if !c.CanExtend() {
		t.Fatal("canExtend should re-arm")
	}
}

func TestExtendFailureKeepsRecords(t *testing.T) {
	boom := errors.New("upstream down")
	f := &fakeFetcher{
		days: map[string][]HourlyRecord{"2024-06-10": {rec("ABC123", "2024-06-10", 0)}},
		fail: map[string]error{"2024-06-09": boom},
	}
	c := newTestController()
	job, _ := c.SelectStation("ABC123")
	run(t, c, f, job)

	ext, _ := c.ExtendBackward()
	run(t, c, f, ext)

	if len(c.Records()) != 1 {
		t.Fatalf("failure discarded records: %d", len(c.Records()))
	}
	if c.EarliestLoadedDate() != "2024-06-10" {
		t.Fatalf("earliest moved on failure: %q", c.EarliestLoadedDate())
	}
	if !errors.Is(c.LastError(), boom) {
		t.Fatalf("lastError = %v, want %v", c.LastError(), boom)
	}
	if c.State() != StateReady {
		t.Fatalf("state = %v, extension failure is non-fatal", c.State())
	}
	if !c.CanExtend() {
		t.Fatal("canExtend should re-arm so the user can retry")
	}

	// Retry succeeds once the backend recovers.
	f.fail = nil
	f.days["2024-06-09"] = []HourlyRecord{rec("ABC123", "2024-06-09", 4)}
	ext2, ok := c.ExtendBackward()
	if !ok {
		t.Fatal("retry extension refused")
	}
	run(t, c, f, ext2)
	if c.LastError() != nil {
		t.Fatalf("lastError not cleared: %v", c.LastError())
	}
	if len(c.Records()) != 2 || c.EarliestLoadedDate() != "2024-06-09" {
		t.Fatalf("retry did not extend: %d records, earliest %q", len(c.Records()), c.EarliestLoadedDate())
	}
}

// A result from a superseded window must be ignored when it finally lands.
func TestStaleResultDropped(t *testing.T) {
	f := &fakeFetcher{days: map[string][]HourlyRecord{
		"2024-06-10": {rec("AAA111", "2024-06-10", 0), rec("BBB222", "2024-06-10", 0)},
	}}
	c := newTestController()

	jobA, _ := c.SelectStation("AAA111")
	staleResult := jobA.Run(context.Background(), f)

	// User switches station before A's result is applied.
	jobB, _ := c.SelectStation("BBB222")
	run(t, c, f, jobB)
	if c.Station() != "BBB222" || c.State() != StateReady {
		t.Fatalf("precondition: station %q state %v", c.Station(), c.State())
	}
	recordsBefore := len(c.Records())

	c.Apply(staleResult)
	if len(c.Records()) != recordsBefore {
		t.Fatal("stale result mutated the window")
	}
	if c.Station() != "BBB222" {
		t.Fatalf("station = %q after stale apply", c.Station())
	}
}

// A stale extension landing after a jump must not append to the new window.
func TestStaleExtensionDroppedAfterJump(t *testing.T) {
	f := &fakeFetcher{days: map[string][]HourlyRecord{
		"2024-06-10": {rec("ABC123", "2024-06-10", 0)},
		"2024-06-09": {rec("ABC123", "2024-06-09", 1)},
		"2024-06-01": {rec("ABC123", "2024-06-01", 2)},
	}}
	c := newTestController()
	job, _ := c.SelectStation("ABC123")
	run(t, c, f, job)

	ext, _ := c.ExtendBackward()
	pending := ext.Run(context.Background(), f)

	jump, _ := c.JumpToDate("2024-06-01")
	run(t, c, f, jump)

	c.Apply(pending)
	if len(c.Records()) != 1 || c.Records()[0].RepresentedDate != "2024-06-01" {
		t.Fatalf("stale extension leaked into jumped window: %+v", c.Records())
	}
	if c.EarliestLoadedDate() != "2024-06-01" {
		t.Fatalf("earliest = %q, want 2024-06-01", c.EarliestLoadedDate())
	}
}

func TestLastRowVisibleDelegates(t *testing.T) {
	f := &fakeFetcher{days: map[string][]HourlyRecord{
		"2024-06-10": {rec("ABC123", "2024-06-10", 0)},
	}}
	c := newTestController()
	job, _ := c.SelectStation("ABC123")
	run(t, c, f, job)

	ext, ok := c.LastRowVisible()
	if !ok {
		t.Fatal("LastRowVisible refused on a ready window")
	}
	if ext.Date != "2024-06-09" {
		t.Fatalf("extension date = %q, want 2024-06-09", ext.Date)
	}
}
