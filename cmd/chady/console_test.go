package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chady-robot/chady/pkg/command"
	"github.com/chady-robot/chady/pkg/logging"
	"github.com/chady-robot/chady/pkg/params"
	"github.com/chady-robot/chady/pkg/robot"
	"github.com/chady-robot/chady/pkg/session"
	"github.com/chady-robot/chady/pkg/telemetry"
)

// fakeRobot stands in for the remote service in all of its roles.
type fakeRobot struct {
	mu        sync.Mutex
	moves     []robot.Command
	colors    []robot.Color
	resets    []robot.BatteryAction
	pushes    map[robot.ParameterName]float64
	loginErr  error
	logoutErr error
	registers int
}

func (f *fakeRobot) Move(_ context.Context, cmd robot.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, cmd)
	return nil
}

func (f *fakeRobot) Color(_ context.Context, color robot.Color) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.colors = append(f.colors, color)
	return nil
}

func (f *fakeRobot) ResetBattery(_ context.Context, action robot.BatteryAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, action)
	return nil
}

func (f *fakeRobot) Parameters(context.Context) (robot.ParameterSet, error) {
	return robot.NewParameterSet(), nil
}

func (f *fakeRobot) SetParameter(_ context.Context, name robot.ParameterName, value float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushes == nil {
		f.pushes = make(map[robot.ParameterName]float64)
	}
	f.pushes[name] = value
	return nil
}

func (f *fakeRobot) Login(_ context.Context, creds robot.Credentials) (robot.Identity, error) {
	if f.loginErr != nil {
		return robot.Identity{}, f.loginErr
	}
	return robot.Identity{Username: creds.Username}, nil
}

func (f *fakeRobot) Register(_ context.Context, creds robot.Credentials) (robot.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registers++
	return robot.Identity{Username: creds.Username}, nil
}

func (f *fakeRobot) Logout(context.Context) error { return f.logoutErr }

func (f *fakeRobot) Motion(context.Context) (robot.Motion, error) {
	return robot.Motion{}, nil
}

func (f *fakeRobot) Battery(context.Context) (robot.Battery, error) {
	return robot.Battery{}, nil
}

func newTestConsole(t *testing.T) (consoleModel, *fakeRobot, *command.Dispatcher) {
	t.Helper()
	fake := &fakeRobot{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := session.NewNotifier(time.Hour)
	dispatcher := command.NewDispatcher(fake, command.Config{Logger: logger})

	m := newConsoleModel(consoleDeps{
		cfg:        robot.DefaultConfig(),
		telemetry:  telemetry.New(fake, telemetry.Config{Logger: logger}),
		session:    session.NewManager(fake, notifier, logger),
		notifier:   notifier,
		params:     params.NewStore(fake, logger),
		dispatcher: dispatcher,
		records:    make(chan logging.Record),
		now:        func() time.Time { return time.Date(2026, 10, 19, 12, 0, 5, 0, time.UTC) },
	})
	return m, fake, dispatcher
}

func press(t *testing.T, m consoleModel, keys ...tea.KeyMsg) (consoleModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var model tea.Model
		model, cmd = m.Update(k)
		m = model.(consoleModel)
	}
	return m, cmd
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	upKey    = tea.KeyMsg{Type: tea.KeyUp}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestConsole_DriveKeys(t *testing.T) {
	m, fake, dispatcher := newTestConsole(t)

	press(t, m, upKey, upKey, typed("2"), typed("R"), typed("F"), typed("V"))
	dispatcher.Wait()

	// Dispatched calls run concurrently, so only the counts are fixed.
	moves := make(map[robot.Command]int)
	for _, cmd := range fake.moves {
		moves[cmd]++
	}
	resets := make(map[robot.BatteryAction]int)
	for _, action := range fake.resets {
		resets[action]++
	}

	if len(fake.moves) != 3 || moves[robot.Forward] != 2 || moves[robot.SwitchToManual] != 1 {
		t.Errorf("moves = %v, want two forward and one switch_to_manual", fake.moves)
	}
	if len(fake.colors) != 1 || fake.colors[0] != robot.Red {
		t.Errorf("colors = %v", fake.colors)
	}
	if len(fake.resets) != 2 || resets[robot.ResetToFull] != 1 || resets[robot.ResetBasedOnVoltage] != 1 {
		t.Errorf("resets = %v, want one of each action", fake.resets)
	}
}

func TestConsole_ParamsPaneTakesArrows(t *testing.T) {
	m, fake, dispatcher := newTestConsole(t)

	m, _ = press(t, m, tabKey, downKey, downKey, upKey)
	dispatcher.Wait()

	if m.focus != focusParams {
		t.Fatalf("focus = %v, want parameters", m.focus)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	if len(fake.moves) != 0 {
		t.Errorf("arrow keys reached the robot: %v", fake.moves)
	}

	m, _ = press(t, m, escKey)
	if m.focus != focusDrive {
		t.Errorf("esc left focus at %v", m.focus)
	}
}

func TestConsole_EditorTakesKeys(t *testing.T) {
	m, fake, dispatcher := newTestConsole(t)

	// Select vertical_kd and open the editor.
	m, _ = press(t, m, tabKey, downKey, enterKey)
	if m.focus != focusEditor {
		t.Fatalf("focus = %v, want editor", m.focus)
	}
	if name, ok := m.params.Selected(); !ok || name != robot.VerticalKd {
		t.Fatalf("selected = %s, %v", name, ok)
	}

	m, _ = press(t, m, typed("1"), typed("2"))
	dispatcher.Wait()
	if len(fake.moves) != 0 {
		t.Errorf("typing in the editor sent commands: %v", fake.moves)
	}

	m, cmd := press(t, m, enterKey)
	if m.focus != focusParams {
		t.Errorf("focus after enter = %v, want parameters", m.focus)
	}
	if m.values[robot.VerticalKd] != 12 {
		t.Errorf("local value = %f, want 12", m.values[robot.VerticalKd])
	}
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	cmd()
	if fake.pushes[robot.VerticalKd] != 12 {
		t.Errorf("pushed = %v", fake.pushes)
	}
}

func TestConsole_LoginDialog(t *testing.T) {
	m, fake, dispatcher := newTestConsole(t)

	m, _ = press(t, m, typed("l"))
	if m.focus != focusLogin || m.login == nil {
		t.Fatalf("login dialog not open, focus = %v", m.focus)
	}

	m, _ = press(t, m, upKey, typed("1"))
	dispatcher.Wait()
	if len(fake.moves) != 0 {
		t.Errorf("keys in the login dialog reached the robot: %v", fake.moves)
	}

	m, _ = press(t, m, escKey)
	if m.focus != focusDrive || m.login != nil {
		t.Errorf("esc did not close the dialog, focus = %v", m.focus)
	}
}

func TestConsole_LoginRegistersUnknownOperator(t *testing.T) {
	m, fake, _ := newTestConsole(t)
	fake.loginErr = &robot.APIError{StatusCode: 400, Message: robot.InvalidCredentialsMessage}

	m, _ = press(t, m, typed("l"))
	m.fields.username = "ada"
	m.fields.password = "secret"

	model, cmd := m.Update(loginSubmitMsg{})
	m = model.(consoleModel)
	if m.focus != focusDrive {
		t.Errorf("focus after submit = %v", m.focus)
	}

	msg := cmd()
	model, _ = m.Update(msg)
	m = model.(consoleModel)

	if fake.registers != 1 {
		t.Errorf("register calls = %d, want 1", fake.registers)
	}
	if !m.sessionState.LoggedIn || m.sessionState.Username != "ada" {
		t.Errorf("session = %+v", m.sessionState)
	}
	if !strings.Contains(m.View(), "Welcome, ada") {
		t.Error("view does not show the welcome line")
	}
}

func TestConsole_FailedLoginReopensDialog(t *testing.T) {
	m, fake, _ := newTestConsole(t)
	fake.loginErr = errors.New("connection refused")

	m, _ = press(t, m, typed("l"))
	m.fields.username = "ada"
	model, cmd := m.Update(loginSubmitMsg{})
	m = model.(consoleModel)
	model, _ = m.Update(cmd())
	m = model.(consoleModel)

	if m.focus != focusLogin || m.fields.username != "ada" {
		t.Errorf("dialog not reopened with the username, focus = %v", m.focus)
	}
	if !strings.Contains(m.View(), "Login failed: connection refused") {
		t.Error("view does not show the failure")
	}
}

func TestConsole_SessionStatusInHeader(t *testing.T) {
	tests := []struct {
		name      string
		logoutErr error
		want      string
	}{
		{name: "logout accepted", want: "Logged out"},
		{name: "logout rejected", logoutErr: errors.New("service unavailable"), want: "Logout failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, fake, _ := newTestConsole(t)
			fake.logoutErr = tt.logoutErr

			m, cmd := press(t, m, typed("o"))
			if cmd == nil {
				t.Fatal("o returned no command")
			}
			model, _ := m.Update(cmd())
			m = model.(consoleModel)

			if m.focus != focusDrive {
				t.Errorf("focus = %v, want drive", m.focus)
			}
			if !strings.Contains(m.View(), tt.want) {
				t.Errorf("view does not contain %q", tt.want)
			}
		})
	}
}

func TestConsole_Notification(t *testing.T) {
	m, _, _ := newTestConsole(t)

	model, _ := m.Update(notifyMsg("11/11 parameters pushed"))
	m = model.(consoleModel)
	if !strings.Contains(m.View(), "11/11 parameters pushed") {
		t.Error("notification not shown")
	}

	model, _ = m.Update(notifyMsg(""))
	m = model.(consoleModel)
	if strings.Contains(m.View(), "11/11 parameters pushed") {
		t.Error("notification not cleared")
	}
}

func TestConsole_Snapshot(t *testing.T) {
	m, _, _ := newTestConsole(t)
	at := time.Date(2026, 10, 19, 12, 0, 1, 0, time.UTC)

	model, _ := m.Update(snapshotMsg{
		Pitch:      []telemetry.Sample{{Time: at, Label: "12:00:01", Value: 3.5}},
		Velocity:   []telemetry.Sample{{Time: at, Label: "12:00:01", Value: -7}},
		Battery:    robot.Battery{ChargeSoc: 87.5, MotorPower: 12.3, LogicPower: 4.1},
		HasBattery: true,
		LastPower:  at,
	})
	m = model.(consoleModel)

	view := m.View()
	for _, want := range []string{"88%", "87.50%", "12.30 W", "4.10 W", "3.50 at 12:00:01", "4 seconds ago"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q", want)
		}
	}
	if !m.lastSample.Equal(at) {
		t.Errorf("lastSample = %v, want %v", m.lastSample, at)
	}
}

func TestConsole_Quit(t *testing.T) {
	m, _, _ := newTestConsole(t)

	_, cmd := press(t, m, typed("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
