// Package progress models user-visible progress for an operation whose true
// completion time is unknown until the remote call resolves. The estimator
// ramps toward a ceiling on a timer; only a confirmed success reports 100.
package progress

import (
	"sync"
	"time"
)

const (
	// DefaultStep is the increment applied on each tick.
	DefaultStep = 10

	// DefaultInterval is the time between ticks.
	DefaultInterval = 200 * time.Millisecond

	// Ceiling is the highest value the estimator reaches on its own.
	// 100 is only ever reported through Stop on confirmed success, so a
	// still-running job can never show a false "done".
	Ceiling = 90
)

// Estimator produces synthetic progress handles. The zero value is not
// usable; construct with NewEstimator.
type Estimator struct {
	step     int
	interval time.Duration
}

// Option tunes an Estimator.
type Option func(*Estimator)

// WithStep overrides the per-tick increment.
func WithStep(step int) Option {
	return func(e *Estimator) { e.step = step }
}

// WithInterval overrides the tick interval.
func WithInterval(d time.Duration) Option {
	return func(e *Estimator) { e.interval = d }
}

// NewEstimator creates an Estimator with the default step and interval.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{step: DefaultStep, interval: DefaultInterval}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle is one running progress sequence. A handle belongs to exactly one
// in-flight job; running two handles for the same job is a caller bug.
type Handle struct {
	mu      sync.Mutex
	current int
	stopped bool
	done    chan struct{}
	emit    func(int)
}

// Start begins emitting an increasing sequence from 0, stepping on every
// interval and clamping at Ceiling. emit is called from the estimator's
// goroutine; it must not block for long.
func (e *Estimator) Start(emit func(value int)) *Handle {
	h := &Handle{
		done: make(chan struct{}),
		emit: emit,
	}

	h.mu.Lock()
	h.emit(0)
	h.mu.Unlock()

	go func() {
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()
		for {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				h.tick(e.step)
			}
		}
	}()

	return h
}

// tick advances the current value by step, clamped at Ceiling.
// No emission happens once the handle is stopped.
func (h *Handle) tick(step int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	next := h.current + step
	if next > Ceiling {
		next = Ceiling
	}
	if next == h.current {
		return
	}
	h.current = next
	h.emit(next)
}

// Stop cancels the timer and emits final as the last value: 100 on success,
// 0 on reset after failure. No emission follows Stop. Stop is idempotent.
func (h *Handle) Stop(final int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	close(h.done)
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}
	h.current = final
	h.emit(final)
}

// Current returns the last emitted value.
func (h *Handle) Current() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}
