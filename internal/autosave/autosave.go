// Package autosave schedules session saves: debounced after bursts of
// mutation events, periodically as a floor, and on demand. Concurrent
// requests coalesce through a single pending slot, so any burst of triggers
// during an in-flight save produces exactly one follow-up save.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/webdesk/webdesk/internal/bus"
	"github.com/webdesk/webdesk/internal/persist"
)

// Bus topics published by the orchestrator.
const (
	TopicSaved = "autosave.saved"
	TopicError = "autosave.error"
)

// SavedEvent reports a completed save cycle.
type SavedEvent struct {
	At       time.Time
	Backends []string
}

// ErrorEvent reports one backend's failure within a save cycle.
type ErrorEvent struct {
	Backend string
	Err     error
}

// SnapshotFunc produces the serialized session to persist.
type SnapshotFunc func() ([]byte, error)

type saveState int

const (
	stateIdle saveState = iota
	stateRunning
	stateRunningPending
)

// Options configures an enabled orchestrator.
type Options struct {
	// Interval is the periodic save floor. Defaults to 30s.
	Interval time.Duration
	// Debounce is the quiet period after the last mutation event before a
	// save fires. Defaults to 2s.
	Debounce time.Duration
	// Topics are the bus topics whose events schedule a debounced save.
	Topics []string
	// OnError receives per-backend failures in addition to TopicError.
	OnError func(backend string, err error)
}

// Orchestrator drives saves against a set of persistence backends.
type Orchestrator struct {
	snapshot SnapshotFunc
	backends []persist.Backend
	bus      *bus.Bus
	clock    Clock
	logger   *slog.Logger

	mu       sync.Mutex
	enabled  bool
	gen      int
	opts     Options
	state    saveState
	debounce Timer
	periodic Timer
	unsubs   []func()
	lastSave time.Time
}

// New creates a disabled orchestrator. clock may be nil for the wall clock;
// logger may be nil.
func New(snapshot SnapshotFunc, backends []persist.Backend, b *bus.Bus, clock Clock, logger *slog.Logger) *Orchestrator {
	if clock == nil {
		clock = RealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		snapshot: snapshot,
		backends: backends,
		bus:      b,
		clock:    clock,
		logger:   logger,
	}
}

// Enable starts autosaving. Calling Enable on an enabled orchestrator
// replaces its options and timers.
func (o *Orchestrator) Enable(opts Options) {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 2 * time.Second
	}

	o.mu.Lock()
	o.teardownLocked()
	o.enabled = true
	o.gen++
	o.opts = opts
	gen := o.gen

	for _, topic := range opts.Topics {
		unsub := o.bus.Subscribe(topic, func(bus.Event) {
			o.onMutation(gen)
		})
		o.unsubs = append(o.unsubs, unsub)
	}
	o.periodic = o.clock.AfterFunc(opts.Interval, func() {
		o.onPeriodic(gen)
	})
	o.mu.Unlock()

	o.logger.Info("autosave enabled",
		"interval", opts.Interval,
		"debounce", opts.Debounce,
		"backends", len(o.backends))
}

// Disable stops all scheduling atomically: pending timers are canceled and
// mutation events no longer trigger saves. An in-flight save completes but
// schedules nothing further.
func (o *Orchestrator) Disable() {
	o.mu.Lock()
	wasEnabled := o.enabled
	o.teardownLocked()
	o.mu.Unlock()

	if wasEnabled {
		o.logger.Info("autosave disabled")
	}
}

// teardownLocked cancels timers and subscriptions. Callers hold the lock.
func (o *Orchestrator) teardownLocked() {
	o.enabled = false
	o.gen++
	if o.debounce != nil {
		o.debounce.Stop()
		o.debounce = nil
	}
	if o.periodic != nil {
		o.periodic.Stop()
		o.periodic = nil
	}
	for _, unsub := range o.unsubs {
		unsub()
	}
	o.unsubs = nil
}

// IsEnabled reports whether autosaving is active.
func (o *Orchestrator) IsEnabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.enabled
}

// IsSaving reports whether a save cycle is in flight.
func (o *Orchestrator) IsSaving() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state != stateIdle
}

// GetLastSaveTime returns the completion time of the last successful save,
// or the zero time if none has succeeded.
func (o *Orchestrator) GetLastSaveTime() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastSave
}

// onMutation resets the debounce window. Each event during a burst pushes
// the save out again; the save fires once the burst goes quiet.
func (o *Orchestrator) onMutation(gen int) {
	o.mu.Lock()
	if !o.enabled || gen != o.gen {
		o.mu.Unlock()
		return
	}
	if o.debounce != nil {
		o.debounce.Stop()
	}
	o.debounce = o.clock.AfterFunc(o.opts.Debounce, func() {
		o.onDebounce(gen)
	})
	o.mu.Unlock()
}

// onDebounce and onPeriodic check the generation and claim the save slot
// under one lock acquisition, so a Disable that returned cannot be followed
// by a save these callbacks started.
func (o *Orchestrator) onDebounce(gen int) {
	o.mu.Lock()
	if !o.enabled || gen != o.gen {
		o.mu.Unlock()
		return
	}
	o.debounce = nil
	run := o.beginSaveLocked()
	o.mu.Unlock()
	if run {
		o.runSaves()
	}
}

func (o *Orchestrator) onPeriodic(gen int) {
	o.mu.Lock()
	if !o.enabled || gen != o.gen {
		o.mu.Unlock()
		return
	}
	o.periodic = o.clock.AfterFunc(o.opts.Interval, func() {
		o.onPeriodic(gen)
	})
	run := o.beginSaveLocked()
	o.mu.Unlock()
	if run {
		o.runSaves()
	}
}

// SaveNow requests an immediate save. If a save is already in flight the
// request coalesces into the pending slot and SaveNow returns nil; the
// follow-up cycle captures state at least as fresh as this call.
func (o *Orchestrator) SaveNow() error {
	o.mu.Lock()
	run := o.beginSaveLocked()
	o.mu.Unlock()
	if !run {
		return nil
	}
	return o.runSaves()
}

// beginSaveLocked advances the save state machine. It reports whether the
// caller moved idle to running and must run the save loop; every other
// caller has been folded into the pending slot. Callers hold o.mu.
func (o *Orchestrator) beginSaveLocked() bool {
	switch o.state {
	case stateRunning:
		o.state = stateRunningPending
		return false
	case stateRunningPending:
		return false
	}
	o.state = stateRunning
	return true
}

// runSaves performs save cycles until no trigger arrived during the last
// one, then releases the running slot.
func (o *Orchestrator) runSaves() error {
	var firstErr error
	for {
		err := o.saveCycle()
		if firstErr == nil {
			firstErr = err
		}
		o.mu.Lock()
		if o.state == stateRunningPending {
			o.state = stateRunning
			o.mu.Unlock()
			continue
		}
		o.state = stateIdle
		o.mu.Unlock()
		return firstErr
	}
}

// saveCycle serializes once and attempts every backend independently.
func (o *Orchestrator) saveCycle() error {
	data, err := o.snapshot()
	if err != nil {
		err = fmt.Errorf("failed to serialize session: %w", err)
		o.reportError("", err)
		return err
	}

	var errs []error
	var succeeded []string
	for _, backend := range o.backends {
		if err := backend.Persist(context.Background(), data); err != nil {
			o.reportError(backend.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
			continue
		}
		succeeded = append(succeeded, backend.Name())
	}

	if len(succeeded) > 0 {
		now := o.clock.Now()
		o.mu.Lock()
		o.lastSave = now
		o.mu.Unlock()
		o.bus.Publish(TopicSaved, SavedEvent{At: now, Backends: succeeded})
	}
	return errors.Join(errs...)
}

func (o *Orchestrator) reportError(backend string, err error) {
	o.logger.Warn("autosave failed", "backend", backend, "error", err)
	o.bus.Publish(TopicError, ErrorEvent{Backend: backend, Err: err})

	o.mu.Lock()
	onError := o.opts.OnError
	o.mu.Unlock()
	if onError != nil {
		onError(backend, err)
	}
}
