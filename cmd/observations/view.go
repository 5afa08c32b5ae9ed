package observations

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
)

var (
	obsTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	obsInfoStyle  = lipgloss.NewStyle().Faint(true)
	obsErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// View renders the observation table pane for the controller's current state.
func (m *Model) View() string {
	b := &strings.Builder{}
	b.WriteString(obsTitleStyle.Render("Hourly Observations"))
	b.WriteString("\n")

	switch m.ctrl.State() {
	case StateIdle:
		b.WriteString(obsInfoStyle.Render("No station selected. Press 's' to pick one."))
		return b.String()
	case StateLoading:
		b.WriteString(m.spin.View())
		b.WriteString(obsInfoStyle.Render(" Loading observations..."))
		return b.String()
	case StateError:
		b.WriteString(obsErrStyle.Render("no data available"))
		if err := m.ctrl.LastError(); err != nil {
			b.WriteString("\n")
			b.WriteString(obsErrStyle.Render(err.Error()))
		}
		b.WriteString("\n")
		b.WriteString(obsInfoStyle.Render("Pick another station ('s') or date ('g')."))
		return b.String()
	}

	if m.ready {
		b.WriteString(m.tbl.View())
		b.WriteString("\n")
	}

	status := fmt.Sprintf("%d records | loaded back to %s", len(m.ctrl.Records()), m.ctrl.EarliestLoadedDate())
	if m.ctrl.Loading() {
		status += " | " + m.spin.View() + " loading one more day"
	} else {
		status += " | scroll past the bottom for older days"
	}
	b.WriteString(obsInfoStyle.Render(status))
	if err := m.ctrl.LastError(); err != nil {
		b.WriteString("\n")
		b.WriteString(obsErrStyle.Render("last fetch: " + err.Error()))
	}
	return b.String()
}

// SummaryView renders the left pane: window facts plus a timeseries chart of
// one numeric measurement across the loaded records.
func (m *Model) SummaryView(width int) string {
	b := &strings.Builder{}
	b.WriteString(obsTitleStyle.Render("Station Window"))
	b.WriteString("\n")
	if m.ctrl.Station() == "" {
		b.WriteString(obsInfoStyle.Render("Nothing loaded yet."))
		return b.String()
	}
	b.WriteString("Station: ")
	b.WriteString(m.ctrl.Station())
	b.WriteString("\n")
	records := m.ctrl.Records()
	if len(records) == 0 {
		b.WriteString(obsInfoStyle.Render("No records in window."))
		return b.String()
	}
	fmt.Fprintf(b, "Window: %s .. %s\n", m.ctrl.EarliestLoadedDate(), records[0].RepresentedDate)

	name, ok := m.chartMeasurement(records)
	if !ok {
		b.WriteString(obsInfoStyle.Render("No numeric measurement to chart."))
		return b.String()
	}

	type chartPoint struct {
		tm time.Time
		v  float64
	}
	var pts []chartPoint
	var minTime, maxTime time.Time
	var minV, maxV float64
	for _, r := range records {
		v, ok := r.MeasurementValue(name)
		if !ok {
			continue
		}
		tm := r.Time()
		if tm.IsZero() {
			continue
		}
		if len(pts) == 0 || tm.Before(minTime) {
			minTime = tm
		}
		if len(pts) == 0 || tm.After(maxTime) {
			maxTime = tm
		}
		if len(pts) == 0 || v < minV {
			minV = v
		}
		if len(pts) == 0 || v > maxV {
			maxV = v
		}
		pts = append(pts, chartPoint{tm: tm, v: v})
	}
	if len(pts) < 2 {
		b.WriteString(obsInfoStyle.Render("Not enough points to chart " + name + "."))
		return b.String()
	}
	if minV == maxV { // add small padding
		maxV += 0.1
		minV -= 0.1
	}
	chartW := max(24, width-6)
	lc := timeserieslinechart.New(chartW, 10)
	lc.SetTimeRange(minTime, maxTime)
	lc.SetViewTimeAndYRange(minTime, maxTime, minV, maxV)
	for _, p := range pts {
		lc.Push(timeserieslinechart.TimePoint{Time: p.tm, Value: p.v})
	}
	lc.DrawBraille()
	fmt.Fprintf(b, "%s over window:\n", name)
	b.WriteString(lc.View())
	b.WriteString("\n")
	b.WriteString(obsInfoStyle.Render(fmt.Sprintf("%d charted points", len(pts))))
	return b.String()
}

// chartMeasurement picks which measurement to chart: temperature when the
// station reports one, otherwise the first key with a numeric value.
func (m *Model) chartMeasurement(records []HourlyRecord) (string, bool) {
	names := MeasurementNames(records)
	for _, preferred := range []string{"temperature", "temp"} {
		for _, n := range names {
			if n != preferred {
				continue
			}
			if _, ok := records[0].MeasurementValue(n); ok {
				return n, true
			}
		}
	}
	for _, n := range names {
		for _, r := range records {
			if _, ok := r.MeasurementValue(n); ok {
				return n, true
			}
		}
	}
	return "", false
}
