// Package params keeps a local copy of the controller's tuning parameters in
// step with the remote parameter store.
package params

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/chady-robot/chady/pkg/robot"
)

// ErrUnknownParameter is returned for names outside the fixed parameter set.
var ErrUnknownParameter = errors.New("unknown parameter")

// Remote is the authoritative parameter store.
type Remote interface {
	Parameters(ctx context.Context) (robot.ParameterSet, error)
	SetParameter(ctx context.Context, name robot.ParameterName, value float64) error
}

// Store is the local parameter cache. It always holds exactly the fixed
// parameter names. The remote store may diverge from it until FetchAll.
type Store struct {
	remote Remote
	logger *slog.Logger

	mu       sync.RWMutex
	values   robot.ParameterSet
	selected robot.ParameterName
}

// NewStore creates a cache with every parameter at zero.
func NewStore(remote Remote, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		remote: remote,
		logger: logger,
		values: robot.NewParameterSet(),
	}
}

// Values returns a copy of the cached parameters.
func (s *Store) Values() robot.ParameterSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Clone()
}

// Value returns the cached value of one parameter.
func (s *Store) Value(name robot.ParameterName) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[name]
}

// Select marks name as the parameter being edited.
func (s *Store) Select(name robot.ParameterName) error {
	if !name.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	s.mu.Lock()
	s.selected = name
	s.mu.Unlock()
	return nil
}

// Selected returns the parameter being edited, if any.
func (s *Store) Selected() (robot.ParameterName, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.selected != ""
}

// Deselect clears the selection.
func (s *Store) Deselect() {
	s.mu.Lock()
	s.selected = ""
	s.mu.Unlock()
}

// Edit changes the cached value without contacting the remote store.
func (s *Store) Edit(name robot.ParameterName, value float64) error {
	if !name.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	s.mu.Lock()
	s.values[name] = value
	s.mu.Unlock()
	return nil
}

// FetchAll replaces the whole cache with the remote parameters, discarding
// local edits that were not pushed. On failure the cache is unchanged.
func (s *Store) FetchAll(ctx context.Context) error {
	remote, err := s.remote.Parameters(ctx)
	if err != nil {
		s.logger.Error("fetch parameters", "error", err)
		return fmt.Errorf("fetch parameters: %w", err)
	}

	values, missing := remote.Normalize()
	if len(missing) > 0 {
		s.logger.Warn("remote store is missing parameters, using 0", "missing", missing)
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()

	s.logger.Info("parameters fetched", "count", len(values))
	return nil
}

// SetOne parses input and pushes it as the value of name. The cache is not
// updated from the response. Input that is not a number is sent as null.
func (s *Store) SetOne(ctx context.Context, name robot.ParameterName, input string) error {
	if !name.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	value := robot.ParseValue(input)
	if math.IsNaN(value) {
		s.logger.Warn("parameter input is not a number", "parameter", name, "input", input)
	}
	return s.push(ctx, name, value)
}

// SetAll pushes every cached value. Each push is independent: one failure
// neither stops nor rolls back the others.
func (s *Store) SetAll(ctx context.Context) FanOut {
	return s.fanOut(ctx, s.Values())
}

// ClearAll zeroes every cached value and pushes the zeros with the same
// fan-out as SetAll.
func (s *Store) ClearAll(ctx context.Context) FanOut {
	s.mu.Lock()
	s.values = robot.NewParameterSet()
	cleared := s.values.Clone()
	s.mu.Unlock()

	return s.fanOut(ctx, cleared)
}

func (s *Store) fanOut(ctx context.Context, values robot.ParameterSet) FanOut {
	names := values.Names()
	results := make([]PushResult, len(names))

	// Plain Group, not WithContext: a failed push must not cancel the rest.
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			value := values[name]
			results[i] = PushResult{
				Name:  name,
				Value: value,
				Err:   s.push(ctx, name, value),
			}
			return nil
		})
	}
	// Goroutines never return an error; failures are kept per parameter.
	_ = g.Wait()

	out := FanOut{Results: results}
	if failed := out.Failed(); len(failed) > 0 {
		s.logger.Warn("parameter push incomplete", "failed", len(failed), "total", len(results))
	}
	return out
}

func (s *Store) push(ctx context.Context, name robot.ParameterName, value float64) error {
	if err := s.remote.SetParameter(ctx, name, value); err != nil {
		s.logger.Error("set parameter", "parameter", name, "value", value, "error", err)
		return fmt.Errorf("set %s: %w", name, err)
	}
	s.logger.Debug("parameter set", "parameter", name, "value", value)
	return nil
}

// PushResult is the outcome of pushing one parameter.
type PushResult struct {
	Name  robot.ParameterName
	Value float64
	Err   error
}

// FanOut collects the per-parameter outcomes of SetAll or ClearAll.
type FanOut struct {
	Results []PushResult
}

// Failed returns the pushes that did not succeed.
func (f FanOut) Failed() []PushResult {
	var failed []PushResult
	for _, r := range f.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Err joins the errors of all failed pushes, or returns nil.
func (f FanOut) Err() error {
	var errs []error
	for _, r := range f.Failed() {
		errs = append(errs, r.Err)
	}
	return errors.Join(errs...)
}

// Summary describes the outcome in one line for the operator.
func (f FanOut) Summary() string {
	failed := f.Failed()
	ok := len(f.Results) - len(failed)
	if len(failed) == 0 {
		return fmt.Sprintf("%d/%d parameters pushed", ok, len(f.Results))
	}
	names := make([]string, len(failed))
	for i, r := range failed {
		names[i] = string(r.Name)
	}
	return fmt.Sprintf("%d/%d parameters pushed, failed: %s", ok, len(f.Results), strings.Join(names, ", "))
}
