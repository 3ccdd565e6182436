package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zeroprint/waitlist/pkg/models"
)

const (
	heading = "Ready to Take Real Climate Action?"
	intro   = "Join ZeroPrint's waitlist and be part of verified carbon removal."

	// below this the name inputs stack instead of sitting side by side
	narrowWidth = 84
)

var (
	green  = lipgloss.Color("#2F7D4F")
	subtle = lipgloss.Color("241")
	red    = lipgloss.Color("196")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(green)
	introStyle   = lipgloss.NewStyle().Foreground(subtle)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	focusedLabel = labelStyle.Foreground(green)
	fieldStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(subtle).Padding(0, 1)
	focusedField = fieldStyle.BorderForeground(green)

	buttonStyle         = lipgloss.NewStyle().Bold(true).Padding(0, 2).Foreground(lipgloss.Color("#FFFFFF")).Background(green)
	buttonFocusedStyle  = buttonStyle.Background(lipgloss.Color("#1F5C39"))
	buttonDisabledStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("250")).Background(lipgloss.Color("238"))

	successStyle = lipgloss.NewStyle().Bold(true).Foreground(green)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(red)
	hintStyle    = lipgloss.NewStyle().Italic(true).Foreground(subtle)
)

// View renders the form
func (m Model) View() string {
	state := m.ctrl.State()

	var b strings.Builder
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n")
	b.WriteString(introStyle.Render(intro))
	b.WriteString("\n\n")

	var names string
	if m.width > 0 && m.width < narrowWidth {
		names = lipgloss.JoinVertical(lipgloss.Left, m.renderInput(0), m.renderInput(1))
	} else {
		names = lipgloss.JoinHorizontal(lipgloss.Top, m.renderInput(0), "  ", m.renderInput(1))
	}
	b.WriteString(names)
	b.WriteString("\n")
	b.WriteString(m.renderInput(2))
	b.WriteString("\n")
	b.WriteString(m.renderInterest())
	b.WriteString("\n\n")

	label := state.SubmitLabel()
	switch {
	case state.Submitting():
		b.WriteString(buttonDisabledStyle.Render(label))
	case m.focus == focusSubmit:
		b.WriteString(buttonFocusedStyle.Render("▸ " + label))
	default:
		b.WriteString(buttonStyle.Render(label))
	}
	b.WriteString("\n")

	if m.hint != "" {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render(m.hint))
		b.WriteString("\n")
	}
	if msg := state.Result.SuccessMessage(); msg != "" {
		b.WriteString("\n")
		b.WriteString(successStyle.Render("✅ " + printable(msg)))
		b.WriteString("\n")
	}
	if msg := state.Result.ErrorMessage(); msg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("❌ " + printable(msg)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("tab/↓ next • shift+tab/↑ previous • ←/→ choose interest • enter submit • esc quit"))
	return b.String()
}

func (m Model) renderInput(i int) string {
	focused := m.focus == i
	ls, fs := labelStyle, fieldStyle
	if focused {
		ls, fs = focusedLabel, focusedField
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		ls.Render(textFields[i].Label()),
		fs.Render(m.inputs[i].View()),
	)
}

func (m Model) renderInterest() string {
	focused := m.focus == focusInterest
	ls, fs := labelStyle, fieldStyle
	if focused {
		ls, fs = focusedLabel, focusedField
	}
	choice := interestChoices()[m.interest].Label()
	return lipgloss.JoinVertical(lipgloss.Left,
		ls.Render(models.FieldInterest.Label()),
		fs.Width(40).Render("‹ "+choice+" ›"),
	)
}

// printable drops escape sequences and control characters from text the
// registration endpoint supplied before it reaches the terminal.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, ansi.Strip(s))
}
