package command

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chady-robot/chady/pkg/robot"
)

// KeyMap binds keyboard keys to drive commands.
type KeyMap struct {
	Forward  key.Binding
	Backward key.Binding
	Left     key.Binding
	Right    key.Binding
	Stop     key.Binding
	Auto     key.Binding
	Manual   key.Binding
}

// DefaultKeyMap returns the arrow key layout.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Forward:  key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "forward")),
		Backward: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "backward")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Stop:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "stop")),
		Auto:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "auto")),
		Manual:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "manual")),
	}
}

// Lookup returns the command bound to msg. Every key event, including
// auto-repeat, maps to its own command.
func (k KeyMap) Lookup(msg tea.KeyMsg) (robot.Command, bool) {
	switch {
	case key.Matches(msg, k.Forward):
		return robot.Forward, true
	case key.Matches(msg, k.Backward):
		return robot.Backward, true
	case key.Matches(msg, k.Left):
		return robot.Left, true
	case key.Matches(msg, k.Right):
		return robot.Right, true
	case key.Matches(msg, k.Stop):
		return robot.Stop, true
	case key.Matches(msg, k.Auto):
		return robot.SwitchToAuto, true
	case key.Matches(msg, k.Manual):
		return robot.SwitchToManual, true
	}
	return "", false
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Forward, k.Backward, k.Left, k.Right, k.Stop}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Forward, k.Backward, k.Left, k.Right},
		{k.Stop, k.Auto, k.Manual},
	}
}
