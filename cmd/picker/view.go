package picker

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var pickerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("219"))
var faint = lipgloss.NewStyle().Faint(true)

// View renders the form with a purpose-appropriate title.
func View(m *Model) string {
	if m == nil {
		return faint.Render("(nothing to pick)")
	}
	b := &strings.Builder{}
	switch m.purpose {
	case PurposeStation:
		b.WriteString(pickerTitleStyle.Render("Select Station"))
	case PurposeDate:
		b.WriteString(pickerTitleStyle.Render("Jump to Date"))
	}
	b.WriteString("\n")
	if m.form != nil {
		b.WriteString(m.form.View())
	}
	b.WriteString("\n")
	b.WriteString(faint.Render("(esc to cancel)"))
	return b.String()
}
