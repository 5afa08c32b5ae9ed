package picker

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// Purpose says what a completed form's value means.
type Purpose int

const (
	PurposeStation Purpose = iota // value is a station code
	PurposeDate                   // value is an ISO date to jump to
)

// Model wraps a single-field huh form: either a station select fed from the
// station directory, or a jump-to-date input.
type Model struct {
	purpose  Purpose
	form     *huh.Form
	value    string
	consumed bool
}

// NewStationPicker builds a select over the available station codes.
func NewStationPicker(stations []string) *Model {
	m := &Model{purpose: PurposeStation}
	if len(stations) > 0 {
		m.value = stations[0]
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Station").Options(selectOptions(stations)...).Value(&m.value),
		),
	).WithShowHelp(false)
	return m
}

// NewDatePicker builds a date input, prefilled with initial when non-empty.
func NewDatePicker(initial string) *Model {
	m := &Model{purpose: PurposeDate, value: initial}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Jump to date (YYYY-MM-DD)").Value(&m.value).Validate(validateDate),
		),
	).WithShowHelp(false)
	return m
}

func validateDate(s string) error {
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func selectOptions(vals []string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(vals))
	for _, v := range vals {
		opts = append(opts, huh.NewOption(v, v))
	}
	return opts
}

func (m *Model) Purpose() Purpose { return m.purpose }

// Init starts the form so the first field has focus.
func (m *Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards messages to the form.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m == nil || m.form == nil {
		return nil
	}
	updated, cmd := m.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.form = f
	}
	return cmd
}

// Done reports the entered value exactly once after the form completes.
func (m *Model) Done() (string, bool) {
	if m == nil || m.form == nil || m.consumed {
		return "", false
	}
	if m.form.State != huh.StateCompleted {
		return "", false
	}
	m.consumed = true
	return strings.TrimSpace(m.value), true
}
