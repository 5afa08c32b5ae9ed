package cmd

import (
	"context"
	"strings"
	"time"

	bhelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/obstail/obstail/cmd/observations"
	"github.com/obstail/obstail/cmd/picker"
)

type model struct {
	rightView string // "table" or "pick"
	obs       *observations.Model
	pick      *picker.Model

	directory   observations.Directory
	stations    []string
	stationsErr error

	log    *zap.SugaredLogger
	width  int
	height int
	// help / key bindings
	keys keyMap
	help bhelp.Model
}

func initialModel(client *observations.Client, cfg observations.Config, log *zap.SugaredLogger) model {
	return model{
		rightView: "table",
		obs:       observations.NewModel(client, cfg, log),
		directory: client,
		log:       log,
		keys:      keys,
		help:      bhelp.New(),
	}
}

// stationsMsg carries the station directory listing (or its failure).
type stationsMsg struct {
	stations []string
	err      error
}

func fetchStationsCmd(d observations.Directory) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		st, err := d.ListStations(ctx)
		return stationsMsg{stations: st, err: err}
	}
}

func (m model) Init() tea.Cmd {
	return fetchStationsCmd(m.directory)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case stationsMsg:
		m.stations, m.stationsErr = msg.stations, msg.err
		if msg.err != nil {
			m.log.Warnw("station directory unavailable", "error", msg.err)
			break
		}
		// First listing: open the picker so the user starts with a station.
		if len(m.stations) > 0 && m.obs.Controller().Station() == "" {
			m.pick = picker.NewStationPicker(m.stations)
			m.rightView = "pick"
			cmds = append(cmds, m.pick.Init())
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.rightView != "pick" { // let form inputs use q
				return m, tea.Quit
			}
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case key.Matches(msg, m.keys.Back):
			if m.rightView == "pick" {
				m.rightView = "table"
				m.pick = nil
				return m, nil
			}
		case key.Matches(msg, m.keys.Stations):
			if m.rightView == "table" {
				if m.stationsErr != nil || len(m.stations) == 0 {
					// retry the directory before offering an empty select
					return m, fetchStationsCmd(m.directory)
				}
				m.pick = picker.NewStationPicker(m.stations)
				m.rightView = "pick"
				return m, m.pick.Init()
			}
		case key.Matches(msg, m.keys.Jump):
			if m.rightView == "table" && m.obs.Controller().Station() != "" {
				m.pick = picker.NewDatePicker(m.obs.Controller().EarliestLoadedDate())
				m.rightView = "pick"
				return m, m.pick.Init()
			}
		}
	}

	// picker consumes key input while open
	if m.rightView == "pick" && m.pick != nil {
		if cmd := m.pick.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if value, ok := m.pick.Done(); ok {
			purpose := m.pick.Purpose()
			m.rightView = "table"
			m.pick = nil
			switch purpose {
			case picker.PurposeStation:
				cmds = append(cmds, m.obs.Select(value))
			case picker.PurposeDate:
				cmds = append(cmds, m.obs.Jump(value))
			}
		}
	}

	// the observation pane always sees fetch results and ticks, but key
	// input only while the table is the active right pane
	_, isKey := msg.(tea.KeyMsg)
	if m.rightView == "table" || !isKey {
		if cmd := m.obs.Update(msg, rightPaneWidth(m.width), m.height); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	leftW := max(24, int(float64(m.width)*0.3))
	rightW := max(20, m.width-leftW-1)

	left := m.obs.SummaryView(leftW)
	var right string
	switch m.rightView {
	case "pick":
		right = picker.View(m.pick)
	default:
		right = m.obs.View()
		if m.stationsErr != nil {
			right += "\n" + errTextStyle.Render("station list: "+m.stationsErr.Error()) +
				"\n" + lipgloss.NewStyle().Faint(true).Render("press 's' to retry")
		}
	}

	leftRendered := lipgloss.NewStyle().Width(leftW).Render(contentStyle.Render(left))
	rightRendered := lipgloss.NewStyle().Width(rightW).Render(contentStyle.Render(right))
	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, dividerStyle.Render("│"), rightRendered)

	header := headerStyle.Render(appTitle) + " " + tabs(m.rightView, max(0, m.width-10))
	sep := dividerStyle.Render(lipgloss.NewStyle().Width(m.width).Render(strings.Repeat("─", max(0, m.width))))
	foot := m.help.View(m.keys)
	layout := lipgloss.JoinVertical(lipgloss.Left, header, sep, columns, sep, foot)
	if m.width > 0 {
		layout = lipgloss.NewStyle().Width(m.width).Render(layout)
	}
	return layout
}

// helper to compute right pane width for updates
func rightPaneWidth(total int) int {
	leftW := max(24, int(float64(total)*0.3))
	return max(20, total-leftW-1)
}
