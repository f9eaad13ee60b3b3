// Package teatest drives bubbletea models synchronously in tests.
//
// Messages go straight through Update and every returned Cmd is executed and
// fed back until the model goes quiet. Cmds that do not return within the
// driver's timeout (ticks, cursor blinks) are dropped, so a model that polls
// on a timer never stalls a test.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDrainDepth bounds Cmd chains that keep producing messages.
const maxDrainDepth = 64

// DefaultCmdTimeout separates store round-trips from timer Cmds.
const DefaultCmdTimeout = 50 * time.Millisecond

// Driver is a synchronous harness around one tea.Model.
type Driver struct {
	t          *testing.T
	model      tea.Model
	cmdTimeout time.Duration
	quitting   bool
}

// Option configures a Driver.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.model, _ = d.model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// WithCmdTimeout overrides DefaultCmdTimeout.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.cmdTimeout = timeout }
}

// New wraps model. Init is run and drained immediately.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{t: t, model: model, cmdTimeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	d.drain(d.model.Init(), 0)
	return d
}

// Model returns the current model.
func (d *Driver) Model() tea.Model { return d.model }

// Quitting reports whether the model asked the program to exit.
func (d *Driver) Quitting() bool { return d.quitting }

// Send dispatches msg and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.t.Helper()
	if d.quitting {
		return
	}
	var cmd tea.Cmd
	d.model, cmd = d.model.Update(msg)
	d.drain(cmd, 0)
}

// Press sends one key per name. Names are bubbletea key strings such as
// "enter", "esc", "left" or "ctrl+c"; anything else is typed as runes.
func (d *Driver) Press(keys ...string) {
	d.t.Helper()
	for _, k := range keys {
		d.Send(KeyMsg(k))
	}
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.t.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// View renders the model.
func (d *Driver) View() string { return d.model.View() }

// RequireView fails the test unless the rendered view contains every want.
func (d *Driver) RequireView(want ...string) {
	d.t.Helper()
	view := d.View()
	for _, w := range want {
		if !strings.Contains(view, w) {
			d.t.Fatalf("view does not contain %q:\n%s", w, view)
		}
	}
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"tab":       tea.KeyTab,
	"backspace": tea.KeyBackspace,
	"space":     tea.KeySpace,
	"ctrl+c":    tea.KeyCtrlC,
}

// KeyMsg builds the key event for name.
func KeyMsg(name string) tea.KeyMsg {
	if t, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.t.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDrainDepth {
		d.t.Logf("teatest: drain depth limit (%d) reached", maxDrainDepth)
		return
	}

	msg := d.exec(cmd)
	switch m := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range m {
			d.drain(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.quitting = true
		return
	}
	if isBlink(msg) {
		return
	}

	var next tea.Cmd
	d.model, next = d.model.Update(msg)
	d.drain(next, depth+1)
}

func (d *Driver) exec(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(d.cmdTimeout):
		return nil
	}
}

// isBlink matches the unexported cursor blink messages of bubbles.
func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
