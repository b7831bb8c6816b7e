// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and returned commands run inline. A command
// that is still blocked after a short grace period, such as one waiting
// on a background result channel, is parked; Await delivers its message
// once it arrives.
package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds command chains so a model that always returns a
// new command cannot hang a test.
const MaxDrainDepth = 100

// cmdGrace separates commands that compute a message from commands that
// wait on something external.
const cmdGrace = 10 * time.Millisecond

type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg is produced.
	Quitting bool

	parked []chan tea.Msg
}

func New(t *testing.T, model tea.Model) *Driver {
	t.Helper()
	return &Driver{T: t, Model: model}
}

// DrainInit runs the model's Init command.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting commands.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, 0)
}

// PressKey sends a character key.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Press sends a special key such as tea.KeyTab or tea.KeyDown.
func (d *Driver) Press(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

func (d *Driver) View() string {
	return d.Model.View()
}

// Parked is the number of commands still waiting to produce a message.
func (d *Driver) Parked() int {
	return len(d.parked)
}

// Await waits up to timeout for any parked command to finish, feeds its
// message through Update and reports whether one arrived.
func (d *Driver) Await(timeout time.Duration) bool {
	d.T.Helper()
	deadline := time.Now().Add(timeout)
	for {
		for i, ch := range d.parked {
			select {
			case msg := <-ch:
				d.parked = append(d.parked[:i], d.parked[i+1:]...)
				d.handle(msg, 0)
				return true
			default:
			}
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		d.handle(msg, depth)
	case <-time.After(cmdGrace):
		d.parked = append(d.parked, ch)
	}
}

func (d *Driver) handle(msg tea.Msg, depth int) {
	d.T.Helper()
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
	default:
		updated, next := d.Model.Update(msg)
		d.Model = updated
		d.drain(next, depth+1)
	}
}
