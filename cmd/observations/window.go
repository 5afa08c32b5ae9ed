package observations

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// State is the controller's coarse lifecycle for the big load operations.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

type opKind int

const (
	opSelect opKind = iota
	opJump
	opExtend
)

// Job describes one fetch operation the controller wants executed. The
// controller itself never touches the network: callers run the job
// (typically inside a tea.Cmd goroutine) and feed the Result back through
// Apply. Tag identifies the window generation the job was issued for, so
// results that outlive their window are dropped instead of corrupting a
// newer one.
type Job struct {
	Tag      uuid.UUID
	Station  string
	Date     string
	kind     opKind
	attempts int
}

// Result is a completed Job. Date is the day that actually produced the
// records, which may be earlier than the requested date after backfill.
type Result struct {
	Job     Job
	Records []HourlyRecord
	Date    string
	Err     error
}

// Run executes the job against f. Select and jump use the bounded backfill
// search; extension is a direct single-day fetch unless extra attempts were
// configured, and an exhausted extension search is an empty day, not an
// error — the window boundary still moves back one day.
func (j Job) Run(ctx context.Context, f Fetcher) Result {
	if j.kind == opExtend {
		if j.attempts <= 0 {
			records, err := f.FetchRange(ctx, j.Station, j.Date, j.Date)
			return Result{Job: j, Records: records, Date: j.Date, Err: err}
		}
		records, date, err := LoadWithBackfill(ctx, f, j.Station, j.Date, j.attempts)
		if errors.Is(err, ErrBackfillExhausted) {
			return Result{Job: j, Date: j.Date}
		}
		return Result{Job: j, Records: records, Date: date, Err: err}
	}
	records, date, err := LoadWithBackfill(ctx, f, j.Station, j.Date, j.attempts)
	return Result{Job: j, Records: records, Date: date, Err: err}
}

// Config carries the product-tunable bounds. MaxAttempts bounds the
// backward search for initial loads and jumps; ExtendAttempts does the same
// for scroll extensions and defaults to 0 (a single direct fetch).
type Config struct {
	MaxAttempts    int
	ExtendAttempts int
	Today          func() string
}

// Controller owns the loaded window: which station, how far back it
// reaches, and the record sequence in the exact order it was assembled.
// All mutation happens through the operation methods plus Apply; readers
// (the table view, the scroll adapter) only look.
type Controller struct {
	cfg     Config
	state   State
	station string

	earliest string
	records  []HourlyRecord

	loading   bool
	canExtend bool
	lastErr   error

	tag uuid.UUID // current window generation
}

func NewController(cfg Config) *Controller {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Today == nil {
		cfg.Today = Today
	}
	return &Controller{cfg: cfg, state: StateIdle}
}

// SelectStation starts a fresh window for station, backfilling from today.
// The previous window, if any, is superseded: its generation tag rotates so
// any still-in-flight result is ignored on arrival.
func (c *Controller) SelectStation(station string) (Job, bool) {
	if station == "" {
		return Job{}, false
	}
	c.station = station
	c.state = StateLoading
	c.loading = true
	c.canExtend = false
	c.lastErr = nil
	c.records = nil
	c.earliest = ""
	c.tag = uuid.New()
	return Job{
		Tag:      c.tag,
		Station:  station,
		Date:     c.cfg.Today(),
		kind:     opSelect,
		attempts: c.cfg.MaxAttempts,
	}, true
}

// JumpToDate replaces the window with one rooted at date. No-op while no
// station is selected.
func (c *Controller) JumpToDate(date string) (Job, bool) {
	if c.station == "" {
		return Job{}, false
	}
	c.state = StateLoading
	c.loading = true
	c.canExtend = false
	c.lastErr = nil
	c.tag = uuid.New()
	return Job{
		Tag:      c.tag,
		Station:  c.station,
		Date:     date,
		kind:     opJump,
		attempts: c.cfg.MaxAttempts,
	}, true
}

// ExtendBackward asks for one more day before the current window boundary.
// Single-flight: while an extension (or any load) is outstanding, further
// calls return false and no fetch happens.
func (c *Controller) ExtendBackward() (Job, bool) {
	if c.station == "" || c.state != StateReady || c.loading || !c.canExtend {
		return Job{}, false
	}
	prev, err := PreviousDate(c.earliest)
	if err != nil {
		c.lastErr = err
		return Job{}, false
	}
	c.loading = true
	c.canExtend = false
	return Job{
		Tag:      c.tag,
		Station:  c.station,
		Date:     prev,
		kind:     opExtend,
		attempts: c.cfg.ExtendAttempts,
	}, true
}

// LastRowVisible is the notification entry point for the scroll adapter:
// the bottom row of the rendered table came into view.
func (c *Controller) LastRowVisible() (Job, bool) {
	return c.ExtendBackward()
}

// Apply folds a completed job back into the window. Results tagged with a
// superseded generation are dropped.
func (c *Controller) Apply(r Result) {
	if r.Job.Tag != c.tag {
		return
	}
	switch r.Job.kind {
	case opSelect, opJump:
		c.loading = false
		if r.Err != nil {
			c.state = StateError
			c.lastErr = r.Err
			return
		}
		c.state = StateReady
		c.records = append([]HourlyRecord(nil), r.Records...)
		c.earliest = r.Date
		c.canExtend = true
	case opExtend:
		c.loading = false
		c.canExtend = true
		if r.Err != nil {
			// Keep what we have; the boundary stays put so the next
			// trigger retries the same day.
			c.lastErr = r.Err
			return
		}
		c.lastErr = nil
		c.records = append(c.records, r.Records...)
		c.earliest = r.Date
	}
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Station() string { return c.station }

func (c *Controller) Records() []HourlyRecord { return c.records }

func (c *Controller) EarliestLoadedDate() string { return c.earliest }

func (c *Controller) Loading() bool { return c.loading }

func (c *Controller) CanExtend() bool { return c.canExtend }

func (c *Controller) LastError() error { return c.lastErr }
