package progress

import (
	"sync"
	"testing"
	"time"
)

// recorder collects emitted values safely across goroutines.
type recorder struct {
	mu     sync.Mutex
	values []int
}

func (r *recorder) emit(v int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.values))
	copy(out, r.values)
	return out
}

func TestEstimator_MonotonicAndCapped(t *testing.T) {
	rec := &recorder{}
	e := NewEstimator(WithStep(10), WithInterval(time.Millisecond))
	h := e.Start(rec.emit)

	// Long enough for the ramp to hit the ceiling many times over.
	time.Sleep(50 * time.Millisecond)
	h.Stop(100)

	values := rec.snapshot()
	if len(values) < 2 {
		t.Fatalf("got %d emissions, want at least 2", len(values))
	}
	if values[0] != 0 {
		t.Errorf("first value = %d, want 0", values[0])
	}
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			t.Fatalf("sequence decreased at %d: %d -> %d", i, values[i-1], values[i])
		}
	}
	for _, v := range values[:len(values)-1] {
		if v > Ceiling {
			t.Fatalf("running value %d exceeds ceiling %d", v, Ceiling)
		}
	}
	if last := values[len(values)-1]; last != 100 {
		t.Errorf("final value = %d, want 100", last)
	}
}

func TestEstimator_StopOnFailureResetsToZero(t *testing.T) {
	rec := &recorder{}
	e := NewEstimator(WithStep(10), WithInterval(time.Millisecond))
	h := e.Start(rec.emit)

	time.Sleep(10 * time.Millisecond)
	h.Stop(0)

	values := rec.snapshot()
	if last := values[len(values)-1]; last != 0 {
		t.Errorf("final value = %d, want 0", last)
	}
	if h.Current() != 0 {
		t.Errorf("Current() = %d, want 0", h.Current())
	}
}

func TestEstimator_NoEmissionAfterStop(t *testing.T) {
	rec := &recorder{}
	e := NewEstimator(WithStep(10), WithInterval(time.Millisecond))
	h := e.Start(rec.emit)

	time.Sleep(5 * time.Millisecond)
	h.Stop(100)
	n := len(rec.snapshot())

	time.Sleep(20 * time.Millisecond)
	if got := len(rec.snapshot()); got != n {
		t.Errorf("emissions after Stop: %d new values", got-n)
	}
}

func TestEstimator_StopIdempotent(t *testing.T) {
	rec := &recorder{}
	e := NewEstimator(WithInterval(time.Millisecond))
	h := e.Start(rec.emit)

	h.Stop(100)
	n := len(rec.snapshot())
	h.Stop(0)
	if got := len(rec.snapshot()); got != n {
		t.Errorf("second Stop emitted %d values", got-n)
	}
	if h.Current() != 100 {
		t.Errorf("Current() = %d, want value from first Stop", h.Current())
	}
}
