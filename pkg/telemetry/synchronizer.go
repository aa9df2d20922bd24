// Package telemetry polls the robot's motion and power telemetry and keeps
// rolling histories for the console charts.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chady-robot/chady/pkg/robot"
)

// Source provides telemetry readings.
type Source interface {
	Motion(ctx context.Context) (robot.Motion, error)
	Battery(ctx context.Context) (robot.Battery, error)
}

// Snapshot is an immutable copy of the synchronizer's state.
type Snapshot struct {
	Pitch      []Sample
	Velocity   []Sample
	Battery    robot.Battery
	HasBattery bool
	LastMotion time.Time
	LastPower  time.Time
	MotionErr  error
	PowerErr   error
}

// Config holds configuration for the synchronizer.
type Config struct {
	Interval       time.Duration // poll period of each loop
	HistorySize    int
	RequestTimeout time.Duration
	Logger         *slog.Logger
	Now            func() time.Time
}

// Synchronizer runs the motion and power poll loops.
type Synchronizer struct {
	source   Source
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time

	motionBusy atomic.Bool
	powerBusy  atomic.Bool
	polls      sync.WaitGroup

	mu         sync.RWMutex
	pitch      *Series
	velocity   *Series
	battery    robot.Battery
	hasBattery bool
	lastMotion time.Time
	lastPower  time.Time
	motionErr  error
	powerErr   error

	pubMu   sync.Mutex
	updates chan Snapshot
}

// New creates a synchronizer. Zero config values take the defaults of one
// second polling, 20 samples of history and a five second request timeout.
func New(source Source, cfg Config) *Synchronizer {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 20
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Synchronizer{
		source:   source,
		interval: cfg.Interval,
		timeout:  cfg.RequestTimeout,
		logger:   cfg.Logger,
		now:      cfg.Now,
		pitch:    NewSeries(cfg.HistorySize),
		velocity: NewSeries(cfg.HistorySize),
		updates:  make(chan Snapshot, 1),
	}
}

// Updates returns a channel that holds the latest snapshot. Snapshots the
// reader has not taken yet are replaced by newer ones.
func (s *Synchronizer) Updates() <-chan Snapshot {
	return s.updates
}

// Start runs both poll loops until ctx is cancelled.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.logger.Info("telemetry polling started", "interval", s.interval)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.loop(ctx, "motion", &s.motionBusy, s.PollMotion)
	}()
	go func() {
		defer wg.Done()
		s.loop(ctx, "power", &s.powerBusy, s.PollPower)
	}()
	wg.Wait()
	s.polls.Wait()

	s.logger.Info("telemetry polling stopped")
	return ctx.Err()
}

func (s *Synchronizer) loop(ctx context.Context, name string, busy *atomic.Bool, poll func(context.Context) error) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// At most one request per loop in flight.
			if !busy.CompareAndSwap(false, true) {
				s.logger.Debug("previous poll still running, skipping tick", "loop", name)
				continue
			}
			s.polls.Add(1)
			go func() {
				defer s.polls.Done()
				defer busy.Store(false)
				pctx, cancel := context.WithTimeout(ctx, s.timeout)
				defer cancel()
				poll(pctx)
			}()
		}
	}
}

// PollMotion fetches pitch and velocity once and appends them to the
// histories. On failure the histories are left unchanged.
func (s *Synchronizer) PollMotion(ctx context.Context) error {
	motion, err := s.source.Motion(ctx)
	now := s.now()

	s.mu.Lock()
	if err != nil {
		s.motionErr = err
		s.mu.Unlock()
		s.logger.Warn("fetch motion telemetry", "error", err)
		s.publish()
		return fmt.Errorf("poll motion: %w", err)
	}
	label := now.Format(LabelLayout)
	s.pitch.Push(Sample{Time: now, Label: label, Value: motion.Pitch})
	s.velocity.Push(Sample{Time: now, Label: label, Value: motion.Velocity})
	s.lastMotion = now
	s.motionErr = nil
	s.mu.Unlock()

	s.publish()
	return nil
}

// PollPower fetches the battery state once and replaces the previous one.
// On failure the previous state is kept.
func (s *Synchronizer) PollPower(ctx context.Context) error {
	battery, err := s.source.Battery(ctx)
	now := s.now()

	s.mu.Lock()
	if err != nil {
		s.powerErr = err
		s.mu.Unlock()
		s.logger.Warn("fetch battery telemetry", "error", err)
		s.publish()
		return fmt.Errorf("poll power: %w", err)
	}
	s.battery = battery
	s.hasBattery = true
	s.lastPower = now
	s.powerErr = nil
	s.mu.Unlock()

	s.publish()
	return nil
}

// Snapshot returns a copy of the current histories and battery state.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Pitch:      s.pitch.Samples(),
		Velocity:   s.velocity.Samples(),
		Battery:    s.battery,
		HasBattery: s.hasBattery,
		LastMotion: s.lastMotion,
		LastPower:  s.lastPower,
		MotionErr:  s.motionErr,
		PowerErr:   s.powerErr,
	}
}

func (s *Synchronizer) publish() {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	snap := s.Snapshot()
	for {
		select {
		case s.updates <- snap:
			return
		default:
		}
		// Drop old snapshot if channel full, replace with new
		select {
		case <-s.updates:
		default:
		}
	}
}
