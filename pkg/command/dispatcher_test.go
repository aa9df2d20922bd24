package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chady-robot/chady/pkg/robot"
)

type fakeSender struct {
	mu      sync.Mutex
	moves   []robot.Command
	colors  []robot.Color
	resets  []robot.BatteryAction
	moveErr error
}

func (f *fakeSender) Move(_ context.Context, cmd robot.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, cmd)
	return f.moveErr
}

func (f *fakeSender) Color(_ context.Context, color robot.Color) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.colors = append(f.colors, color)
	return nil
}

func (f *fakeSender) ResetBattery(_ context.Context, action robot.BatteryAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, action)
	return nil
}

func newTestDispatcher(sender Sender, rate float64) *Dispatcher {
	return NewDispatcher(sender, Config{
		Rate:   rate,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestKeyEvents_OneCallEach(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDispatcher(sender, 0)
	keys := DefaultKeyMap()

	// Three auto-repeat events of a held up arrow.
	up := tea.KeyMsg{Type: tea.KeyUp}
	for i := 0; i < 3; i++ {
		cmd, ok := keys.Lookup(up)
		if !ok {
			t.Fatal("up arrow is not bound")
		}
		d.SendCommand(cmd)
	}
	d.Wait()

	if len(sender.moves) != 3 {
		t.Fatalf("move calls = %d, want 3", len(sender.moves))
	}
	for i, m := range sender.moves {
		if m != robot.Forward {
			t.Errorf("moves[%d] = %s, want forward", i, m)
		}
	}
}

func TestKeyMap_Lookup(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want robot.Command
		ok   bool
	}{
		{"up", tea.KeyMsg{Type: tea.KeyUp}, robot.Forward, true},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, robot.Backward, true},
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, robot.Left, true},
		{"right", tea.KeyMsg{Type: tea.KeyRight}, robot.Right, true},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, robot.Stop, true},
		{"1", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}}, robot.SwitchToAuto, true},
		{"2", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}}, robot.SwitchToManual, true},
		{"unbound", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keys.Lookup(tt.msg)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Lookup() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSendColorAndBattery(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDispatcher(sender, 0)

	d.SendColor(robot.Purple)
	d.SendColor("orange")
	d.ResetBattery(robot.ResetBasedOnVoltage)
	d.Wait()

	if len(sender.colors) != 1 || sender.colors[0] != robot.Purple {
		t.Errorf("colors = %v", sender.colors)
	}
	if len(sender.resets) != 1 || sender.resets[0] != robot.ResetBasedOnVoltage {
		t.Errorf("resets = %v", sender.resets)
	}
}

func TestDoCommand(t *testing.T) {
	sender := &fakeSender{moveErr: errors.New("connection refused")}
	d := newTestDispatcher(sender, 0)

	if err := d.DoCommand(context.Background(), robot.Stop); err == nil {
		t.Error("DoCommand should return the remote failure")
	}
	if err := d.DoCommand(context.Background(), "jump"); !errors.Is(err, robot.ErrInvalidCommand) {
		t.Errorf("DoCommand(jump) = %v, want ErrInvalidCommand", err)
	}
	if len(sender.moves) != 1 {
		t.Errorf("move calls = %d, want 1", len(sender.moves))
	}
}

func TestSendCommand_RateLimited(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDispatcher(sender, 0.001)

	for i := 0; i < 5; i++ {
		d.SendCommand(robot.Left)
	}
	d.Wait()

	// Burst of one, then the limiter drops the rest.
	if len(sender.moves) != 1 {
		t.Errorf("move calls = %d, want 1", len(sender.moves))
	}
}
