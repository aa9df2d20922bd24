// Package command sends drive commands, indicator colors and battery resets
// to the robot.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/chady-robot/chady/pkg/robot"
)

// Sender performs the remote calls.
type Sender interface {
	Move(ctx context.Context, cmd robot.Command) error
	Color(ctx context.Context, color robot.Color) error
	ResetBattery(ctx context.Context, action robot.BatteryAction) error
}

// Config holds configuration for the dispatcher.
type Config struct {
	Timeout time.Duration
	Rate    float64 // drive commands per second, 0 means unlimited
	Logger  *slog.Logger
}

// Dispatcher issues commands without waiting for their outcome. Every call
// is an independent request; nothing is queued or coalesced.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger

	inflight sync.WaitGroup
}

// NewDispatcher creates a dispatcher for sender.
func NewDispatcher(sender Sender, cfg Config) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	return &Dispatcher{
		sender:  sender,
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(limit, 1),
		logger:  cfg.Logger,
	}
}

// SendCommand starts a drive request and returns immediately. With a rate
// limit configured, commands over the limit are dropped.
func (d *Dispatcher) SendCommand(cmd robot.Command) {
	if !cmd.Valid() {
		d.logger.Warn("ignoring drive command", "command", cmd, "error", robot.ErrInvalidCommand)
		return
	}
	if !d.limiter.Allow() {
		d.logger.Debug("drive command rate limited", "command", cmd)
		return
	}
	d.fire("move", string(cmd), func(ctx context.Context) error {
		return d.sender.Move(ctx, cmd)
	})
}

// SendColor starts an indicator color request and returns immediately.
func (d *Dispatcher) SendColor(color robot.Color) {
	if !color.Valid() {
		d.logger.Warn("ignoring color", "color", color, "error", robot.ErrInvalidColor)
		return
	}
	d.fire("color", string(color), func(ctx context.Context) error {
		return d.sender.Color(ctx, color)
	})
}

// ResetBattery starts a battery estimator reset and returns immediately.
func (d *Dispatcher) ResetBattery(action robot.BatteryAction) {
	if !action.Valid() {
		d.logger.Warn("ignoring battery reset", "action", action, "error", robot.ErrInvalidBatteryAction)
		return
	}
	d.fire("reset battery", string(action), func(ctx context.Context) error {
		return d.sender.ResetBattery(ctx, action)
	})
}

// DoCommand sends a drive command and waits for the response.
func (d *Dispatcher) DoCommand(ctx context.Context, cmd robot.Command) error {
	if !cmd.Valid() {
		return fmt.Errorf("%w: %q", robot.ErrInvalidCommand, cmd)
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	return d.do(ctx, "move", string(cmd), func(ctx context.Context) error {
		return d.sender.Move(ctx, cmd)
	})
}

// DoColor sets the indicator color and waits for the response.
func (d *Dispatcher) DoColor(ctx context.Context, color robot.Color) error {
	if !color.Valid() {
		return fmt.Errorf("%w: %q", robot.ErrInvalidColor, color)
	}
	return d.do(ctx, "color", string(color), func(ctx context.Context) error {
		return d.sender.Color(ctx, color)
	})
}

// DoResetBattery resets the battery estimator and waits for the response.
func (d *Dispatcher) DoResetBattery(ctx context.Context, action robot.BatteryAction) error {
	if !action.Valid() {
		return fmt.Errorf("%w: %q", robot.ErrInvalidBatteryAction, action)
	}
	return d.do(ctx, "reset battery", string(action), func(ctx context.Context) error {
		return d.sender.ResetBattery(ctx, action)
	})
}

// Wait blocks until every request started by the Send methods has finished.
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

func (d *Dispatcher) fire(op, arg string, call func(context.Context) error) {
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		d.do(context.Background(), op, arg, call)
	}()
}

func (d *Dispatcher) do(ctx context.Context, op, arg string, call func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := call(ctx); err != nil {
		d.logger.Error(op+" failed", "arg", arg, "error", err)
		return fmt.Errorf("%s %s: %w", op, arg, err)
	}
	d.logger.Info(op+" sent", "arg", arg)
	return nil
}
