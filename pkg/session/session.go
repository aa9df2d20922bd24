// Package session tracks the operator's login state against the robot service.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chady-robot/chady/pkg/robot"
)

// Authenticator is the part of the robot service that handles accounts.
type Authenticator interface {
	Login(ctx context.Context, creds robot.Credentials) (robot.Identity, error)
	Register(ctx context.Context, creds robot.Credentials) (robot.Identity, error)
	Logout(ctx context.Context) error
}

// State is the operator's session as the console sees it.
type State struct {
	LoggedIn bool
	Username string
	Status   string // last status line, e.g. "Login failed: ..."
}

// Manager runs the login, registration and logout protocol.
type Manager struct {
	auth     Authenticator
	notifier *Notifier
	logger   *slog.Logger

	mu    sync.Mutex
	state State
}

// NewManager creates a logged-out session manager.
func NewManager(auth Authenticator, notifier *Notifier, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NewNotifier(DefaultNotifyDelay)
	}
	return &Manager{
		auth:     auth,
		notifier: notifier,
		logger:   logger,
	}
}

// State returns a copy of the current session.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ClearStatus drops the status line, e.g. when the login dialog opens.
func (m *Manager) ClearStatus() {
	m.mu.Lock()
	m.state.Status = ""
	m.mu.Unlock()
}

// Login authenticates the operator. Credentials the service does not know
// are registered right away with one /register call. The returned error
// explains why the operator is not logged in; the state carries the status
// line to show either way.
func (m *Manager) Login(ctx context.Context, username, password string) (State, error) {
	creds := robot.Credentials{Username: username, Password: password}

	id, err := m.auth.Login(ctx, creds)
	if err == nil {
		name := id.Username
		if name == "" {
			name = username
		}
		m.logger.Info("logged in", "username", name)
		return m.loggedIn(name, "Welcome, "+name), nil
	}

	if !errors.Is(err, robot.ErrInvalidCredentials) {
		m.logger.Warn("login failed", "username", username, "error", err)
		return m.setStatus("Login failed: " + robot.Reason(err)), fmt.Errorf("login: %w", err)
	}

	m.logger.Info("unknown credentials, registering", "username", username)
	if _, err := m.auth.Register(ctx, creds); err != nil {
		m.logger.Warn("registration failed", "username", username, "error", err)
		return m.setStatus("Registration failed: " + robot.Reason(err)), fmt.Errorf("register: %w", err)
	}

	m.logger.Info("registered", "username", username)
	return m.loggedIn(username, "Registration successful: Welcome, "+username), nil
}

// Logout ends the session. If the service rejects the request the local
// logged-in flag is left as it was.
func (m *Manager) Logout(ctx context.Context) (State, error) {
	if err := m.auth.Logout(ctx); err != nil {
		m.logger.Error("logout failed", "error", err)
		return m.setStatus("Logout failed"), fmt.Errorf("logout: %w", err)
	}

	m.mu.Lock()
	m.state = State{Status: "Logged out"}
	st := m.state
	m.mu.Unlock()

	m.logger.Info("logged out")
	m.notifier.Notify("Logged out")
	return st, nil
}

func (m *Manager) loggedIn(username, msg string) State {
	m.mu.Lock()
	m.state = State{LoggedIn: true, Username: username, Status: msg}
	st := m.state
	m.mu.Unlock()

	m.notifier.Notify(msg)
	return st
}

func (m *Manager) setStatus(msg string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Status = msg
	return m.state
}
