package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroprint/waitlist/pkg/form"
	"github.com/zeroprint/waitlist/pkg/models"
)

type fakeRegistrar struct {
	calls atomic.Int32
	resp  models.RegistrationResponse
	err   error
}

func (f *fakeRegistrar) Register(ctx context.Context, req models.RegistrationRequest) (models.RegistrationResponse, error) {
	f.calls.Add(1)
	return f.resp, f.err
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return out, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func key(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

// fillForm types all three text fields and picks the first interest.
// Focus ends on the submit button.
func fillForm(t *testing.T, m Model) Model {
	t.Helper()
	m = typeText(t, m, "Ada")
	m, _ = key(t, m, tea.KeyTab)
	m = typeText(t, m, "Lovelace")
	m, _ = key(t, m, tea.KeyTab)
	m = typeText(t, m, "ada@example.com")
	m, _ = key(t, m, tea.KeyTab)
	m, _ = key(t, m, tea.KeyRight)
	m, _ = key(t, m, tea.KeyTab)
	require.Equal(t, focusSubmit, m.focus)
	return m
}

func TestNew_StartsOnFirstInput(t *testing.T) {
	m := New(form.NewController(&fakeRegistrar{}))

	assert.Equal(t, 0, m.focus)
	assert.True(t, m.inputs[0].Focused())
	assert.Equal(t, 0, m.interest)
	assert.Contains(t, m.View(), "Join the Waitlist")
	assert.Contains(t, m.View(), models.InterestPlaceholder)
}

func TestEdits_ReachController(t *testing.T) {
	ctrl := form.NewController(&fakeRegistrar{})
	m := fillForm(t, New(ctrl))

	req := ctrl.State().Request
	assert.Equal(t, models.RegistrationRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Interest:  "business",
	}, req)
	assert.Contains(t, m.View(), "Business")
}

func TestInterest_Cycles(t *testing.T) {
	ctrl := form.NewController(&fakeRegistrar{})
	m := New(ctrl)
	for i := 0; i < 3; i++ {
		m, _ = key(t, m, tea.KeyTab)
	}
	require.Equal(t, focusInterest, m.focus)

	m, _ = key(t, m, tea.KeyLeft)
	assert.Equal(t, "partner", ctrl.State().Request.Interest)
	assert.Contains(t, m.View(), "Potential Partner")

	m, _ = key(t, m, tea.KeyRight)
	assert.Equal(t, "", ctrl.State().Request.Interest)
}

func TestSubmit_IncompleteShowsHintWithoutCall(t *testing.T) {
	reg := &fakeRegistrar{}
	m := New(form.NewController(reg))
	m = typeText(t, m, "Ada")
	m, _ = key(t, m, tea.KeyShiftTab)
	require.Equal(t, focusSubmit, m.focus)

	m, cmd := key(t, m, tea.KeyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, int32(0), reg.calls.Load())
	assert.Contains(t, m.View(), "Please fill in: Last Name, Email Address, Interest")
}

func TestSubmit_SuccessFlow(t *testing.T) {
	reg := &fakeRegistrar{resp: models.RegistrationResponse{Message: "Welcome!"}}
	ctrl := form.NewController(reg)
	m := fillForm(t, New(ctrl))

	m, cmd := key(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Submitting...")
	assert.NotContains(t, m.View(), "Join the Waitlist")

	// activating the disabled button does nothing
	m, again := key(t, m, tea.KeyEnter)
	assert.Nil(t, again)

	m, _ = update(t, m, cmd())

	assert.Equal(t, int32(1), reg.calls.Load())
	view := m.View()
	assert.Contains(t, view, "✅ Welcome!")
	assert.Contains(t, view, "Join the Waitlist")
	assert.NotContains(t, view, "Submitting...")
	for _, in := range m.inputs {
		assert.Empty(t, in.Value())
	}
	assert.Equal(t, 0, m.interest)
	assert.True(t, ctrl.State().Request.IsEmpty())
}

func TestSubmit_SuccessMessageIsPrintable(t *testing.T) {
	reg := &fakeRegistrar{resp: models.RegistrationResponse{Message: "Welcome <you@example.com>!\x1b[2J\x1b]0;pwned\a"}}
	m := fillForm(t, New(form.NewController(reg)))

	m, cmd := key(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	view := m.View()
	assert.Contains(t, view, "✅ Welcome <you@example.com>!")
	assert.NotContains(t, view, "\x1b[2J")
	assert.NotContains(t, view, "pwned")
	assert.NotContains(t, view, "\a")
}

func TestPrintable(t *testing.T) {
	cases := map[string]string{
		"Welcome!\x1b[2J\x1b]0;title\a": "Welcome!",
		"\x1b[31mred\x1b[0m":            "red",
		"Ada <ada@example.com>":         "Ada <ada@example.com>",
		"line\r\nbreak\ttab":            "linebreaktab",
		"no\x00nul":                     "nonul",
	}
	for in, want := range cases {
		assert.Equal(t, want, printable(in), "input %q", in)
	}
}

func TestSubmit_FailureKeepsInput(t *testing.T) {
	reg := &fakeRegistrar{err: errors.New("connection refused")}
	m := fillForm(t, New(form.NewController(reg)))

	m, cmd := key(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	view := m.View()
	assert.Contains(t, view, "❌ Something went wrong. Please try again.")
	assert.NotContains(t, view, "connection refused")
	assert.Equal(t, "Ada", m.inputs[0].Value())
	assert.Equal(t, "ada@example.com", m.inputs[2].Value())
	assert.Equal(t, 1, m.interest)
}

func TestEditWhileSubmitting(t *testing.T) {
	ctrl := form.NewController(&fakeRegistrar{})
	m := fillForm(t, New(ctrl))

	m, cmd := key(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)

	// back to the first field and keep typing while the request is outstanding
	for i := 0; i < 3; i++ {
		m, _ = key(t, m, tea.KeyShiftTab)
	}
	m, _ = key(t, m, tea.KeyShiftTab)
	require.Equal(t, 0, m.focus)
	m = typeText(t, m, "!")

	assert.Equal(t, "Ada!", ctrl.State().Request.FirstName)
	assert.True(t, ctrl.State().Submitting())
}

func TestQuit_ClosesController(t *testing.T) {
	ctrl := form.NewController(&fakeRegistrar{})
	m := New(ctrl)

	_, cmd := key(t, m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, err := ctrl.Begin()
	assert.ErrorIs(t, err, form.ErrClosed)
}

func TestView_NarrowStacksNames(t *testing.T) {
	m := New(form.NewController(&fakeRegistrar{}))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 40})

	lines := strings.Split(m.View(), "\n")
	for _, line := range lines {
		assert.False(t, strings.Contains(line, "First Name") && strings.Contains(line, "Last Name"))
	}
}

func TestProgram_EndToEnd(t *testing.T) {
	reg := &fakeRegistrar{resp: models.RegistrationResponse{Message: "Welcome aboard"}}
	ctrl := form.NewController(reg)
	tm := teatest.NewTestModel(t, New(ctrl), teatest.WithInitialTermSize(100, 40))

	tm.Type("Ada")
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Type("Lovelace")
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Type("ada@example.com")
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Send(tea.KeyMsg{Type: tea.KeyRight})
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Welcome aboard"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	assert.Equal(t, int32(1), reg.calls.Load())
	final, ok := tm.FinalModel(t).(Model)
	require.True(t, ok)
	assert.Empty(t, final.inputs[0].Value())
}
