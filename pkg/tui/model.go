// Package tui renders the waitlist form in a terminal.
//
// The model forwards every edit to a form.Controller and submits through it.
// The network call runs inside a tea.Cmd so the update loop keeps handling
// keys while the submit button is disabled.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/zeroprint/waitlist/pkg/form"
	"github.com/zeroprint/waitlist/pkg/models"
)

// focus positions after the text inputs
const (
	focusInterest = iota + 3
	focusSubmit
	focusCount
)

var textFields = []models.Field{models.FieldFirstName, models.FieldLastName, models.FieldEmail}

var placeholders = map[models.Field]string{
	models.FieldFirstName: "Your first name",
	models.FieldLastName:  "Your last name",
	models.FieldEmail:     "you@example.com",
}

// submittedMsg carries the outcome of a submission back to the update loop
type submittedMsg struct {
	result form.Result
}

// Model is the terminal waitlist form
type Model struct {
	ctrl   *form.Controller
	ctx    context.Context
	logger *zap.Logger

	inputs   []textinput.Model
	interest int // index into interestChoices, 0 is the placeholder
	focus    int
	hint     string
	width    int
}

// Option customises a Model
type Option func(*Model)

// WithContext sets the parent context of submissions
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates the terminal form over ctrl
func New(ctrl *form.Controller, opts ...Option) Model {
	m := Model{
		ctrl:   ctrl,
		ctx:    context.Background(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}

	state := ctrl.State()
	m.inputs = make([]textinput.Model, len(textFields))
	for i, f := range textFields {
		ti := textinput.New()
		ti.Placeholder = placeholders[f]
		ti.Prompt = ""
		ti.Width = 36
		ti.CharLimit = 256
		v, _ := state.Request.Get(f)
		ti.SetValue(v)
		m.inputs[i] = ti
	}
	m.inputs[0].Focus()
	m.interest = interestIndex(state.Request.Interest)
	return m
}

// interestChoices is the select list including the empty placeholder
func interestChoices() []models.Interest {
	return append([]models.Interest{""}, models.Interests...)
}

func interestIndex(value string) int {
	for i, choice := range interestChoices() {
		if string(choice) == value {
			return i
		}
	}
	return 0
}

// Init starts the cursor blink
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key events and submission results
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case submittedMsg:
		m.syncInputs()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.ctrl.Close()
			return m, tea.Quit

		case "tab", "down":
			return m.moveFocus(1), nil

		case "shift+tab", "up":
			return m.moveFocus(-1), nil

		case "enter":
			if m.focus == focusSubmit {
				return m.submit()
			}
			return m.moveFocus(1), nil

		case "left", "right", " ":
			if m.focus == focusInterest {
				step := 1
				if msg.String() == "left" {
					step = -1
				}
				return m.cycleInterest(step), nil
			}
		}
	}

	if m.focus < len(m.inputs) {
		var cmd tea.Cmd
		before := m.inputs[m.focus].Value()
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		if after := m.inputs[m.focus].Value(); after != before {
			m.setField(textFields[m.focus], after)
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) moveFocus(step int) Model {
	if m.focus < len(m.inputs) {
		m.inputs[m.focus].Blur()
	}
	m.focus = (m.focus + step + focusCount) % focusCount
	if m.focus < len(m.inputs) {
		m.inputs[m.focus].Focus()
	}
	return m
}

func (m Model) cycleInterest(step int) Model {
	n := len(interestChoices())
	m.interest = (m.interest + step + n) % n
	m.setField(models.FieldInterest, string(interestChoices()[m.interest]))
	return m
}

func (m *Model) setField(field models.Field, value string) {
	if err := m.ctrl.UpdateField(field, value); err != nil {
		m.logger.Error("Error updating field", zap.String("field", string(field)), zap.Error(err))
		return
	}
	m.hint = ""
}

// submit starts a submission. Nothing is sent while the button is disabled
// or a field is empty.
func (m Model) submit() (tea.Model, tea.Cmd) {
	attempt, err := m.ctrl.Begin()
	switch {
	case errors.Is(err, form.ErrInFlight):
		return m, nil
	case errors.Is(err, form.ErrIncomplete):
		m.hint = missingHint(m.ctrl.State().Request.Missing())
		return m, nil
	case err != nil:
		m.logger.Warn("Submission not started", zap.Error(err))
		return m, nil
	}

	m.hint = ""
	ctrl, ctx := m.ctrl, m.ctx
	return m, func() tea.Msg {
		return submittedMsg{result: ctrl.Run(ctx, attempt)}
	}
}

// syncInputs copies the controller's field values back into the widgets,
// which clears them after a successful submission.
func (m *Model) syncInputs() {
	state := m.ctrl.State()
	for i, f := range textFields {
		v, _ := state.Request.Get(f)
		if m.inputs[i].Value() != v {
			m.inputs[i].SetValue(v)
		}
	}
	m.interest = interestIndex(state.Request.Interest)
}

func missingHint(missing []models.Field) string {
	labels := make([]string, len(missing))
	for i, f := range missing {
		labels[i] = f.Label()
		if f == models.FieldInterest {
			labels[i] = "Interest"
		}
	}
	return "Please fill in: " + strings.Join(labels, ", ")
}
