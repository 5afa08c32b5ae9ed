package observations

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// resultMsg carries a completed fetch job back into the update loop.
type resultMsg struct {
	result Result
}

// runJob executes the controller-issued job off the interaction thread and
// reports back via resultMsg.
func (m *Model) runJob(job Job) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{result: job.Run(context.Background(), m.fetcher)}
	}
}

// Select starts a fresh window for station.
func (m *Model) Select(station string) tea.Cmd {
	job, ok := m.ctrl.SelectStation(station)
	if !ok {
		return nil
	}
	m.trigger.Reset()
	m.log.Infow("select station", "station", station, "date", job.Date)
	return tea.Batch(m.runJob(job), m.spin.Tick)
}

// Jump replaces the window with one rooted at date.
func (m *Model) Jump(date string) tea.Cmd {
	job, ok := m.ctrl.JumpToDate(date)
	if !ok {
		return nil
	}
	m.trigger.Reset()
	m.log.Infow("jump to date", "station", job.Station, "date", date)
	return tea.Batch(m.runJob(job), m.spin.Tick)
}

// Update handles observation pane messages: completed fetches, spinner
// ticks, and table navigation. Scrolling onto the last row notifies the
// controller, which decides whether a backward extension actually starts.
func (m *Model) Update(msg tea.Msg, width, height int) tea.Cmd {
	m.ensureTable(width, height)

	// Results and ticks are handled even before the first window size
	// arrives; only table navigation needs the table to exist.
	switch msg := msg.(type) {
	case resultMsg:
		m.ctrl.Apply(msg.result)
		if err := msg.result.Err; err != nil {
			m.log.Warnw("load failed", "station", msg.result.Job.Station, "date", msg.result.Job.Date, "error", err)
		}
		m.refreshRows()
		return nil
	case spinner.TickMsg:
		if !m.ctrl.Loading() {
			return nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return cmd
	}

	if !m.ready {
		return nil
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)

	if m.trigger.Observe(m.tbl.Cursor(), len(m.tbl.Rows())) {
		if job, ok := m.ctrl.LastRowVisible(); ok {
			m.log.Debugw("extend backward", "station", job.Station, "date", job.Date)
			return tea.Batch(cmd, m.runJob(job), m.spin.Tick)
		}
	}
	return cmd
}
