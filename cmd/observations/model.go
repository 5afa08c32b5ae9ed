package observations

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// how many measurement columns fit comfortably next to the fixed ones
const maxMeasurementColumns = 4

// Model wires the window controller to the rendered table: it owns the
// bubbles table showing the record sequence, the spinner for in-flight
// loads, and the scroll trigger that asks the controller for one more day.
type Model struct {
	ctrl    *Controller
	fetcher Fetcher
	log     *zap.SugaredLogger

	tbl     table.Model
	spin    spinner.Model
	trigger BottomTrigger

	columns []string // measurement columns currently shown
	ready   bool
	width   int
	height  int
}

func NewModel(fetcher Fetcher, cfg Config, log *zap.SugaredLogger) *Model {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	return &Model{
		ctrl:    NewController(cfg),
		fetcher: fetcher,
		log:     log,
		spin:    sp,
	}
}

// Controller exposes the window state for read-only collaborators (the
// summary pane, key handling guards).
func (m *Model) Controller() *Controller { return m.ctrl }

// ensureTable creates or resizes the table for the given pane dimensions.
func (m *Model) ensureTable(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	m.width = width
	m.height = height
	tableHeight := max(5, height-8) // leave room for status lines
	if !m.ready {
		t := table.New(
			table.WithColumns(m.tableColumns()),
			table.WithFocused(true),
			table.WithHeight(tableHeight),
		)
		s := table.DefaultStyles()
		s.Header = s.Header.Bold(true).Foreground(lipgloss.Color("111")).BorderBottom(true)
		s.Selected = s.Selected.Foreground(lipgloss.Color("51")).Bold(true)
		t.SetStyles(s)
		m.tbl = t
		m.ready = true
		m.refreshRows()
		return
	}
	m.tbl.SetHeight(tableHeight)
}

func (m *Model) tableColumns() []table.Column {
	cols := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Hour", Width: 4},
		{Title: "Samples", Width: 7},
	}
	for _, name := range m.columns {
		w := max(8, len(name))
		cols = append(cols, table.Column{Title: name, Width: w})
	}
	return cols
}

// refreshRows rebuilds table rows from the controller's record sequence,
// preserving its order exactly.
func (m *Model) refreshRows() {
	if !m.ready {
		return
	}
	records := m.ctrl.Records()
	names := MeasurementNames(records)
	if len(names) > maxMeasurementColumns {
		names = names[:maxMeasurementColumns]
	}
	m.columns = names
	m.tbl.SetColumns(m.tableColumns())

	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		row := table.Row{
			r.RepresentedDate,
			fmt.Sprintf("%02d", r.RepresentedHour),
			fmt.Sprintf("%d", r.RecordCount),
		}
		for _, name := range names {
			row = append(row, r.MeasurementString(name))
		}
		rows = append(rows, row)
	}
	m.tbl.SetRows(rows)
	if m.tbl.Cursor() >= len(rows) {
		m.tbl.SetCursor(max(0, len(rows)-1))
	}
}
