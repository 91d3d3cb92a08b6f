// Package metrics defines the sink the statistics decorator reports to.
//
// A Registry hands out named timers and histograms. Implement it to integrate
// with a monitoring system (see subpackage prometheus), or use the in-memory
// Registry returned by NewRegistry.
package metrics

import (
	"math"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Timer records durations.
type Timer interface {
	Update(d time.Duration)
}

// Histogram records integer samples.
type Histogram interface {
	Update(v int64)
}

// Registry resolves names to recorders.
// Asking twice for the same name must return the same recorder.
type Registry interface {
	Timer(name string) Timer
	Histogram(name string) Histogram
}

// Name joins scope and names with dots, skipping empty parts.
//
//	Name("search", "products", "findNearest") // "search.products.findNearest"
func Name(scope string, names ...string) string {
	var b strings.Builder
	b.WriteString(scope)
	for _, n := range names {
		if n == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(n)
	}
	return b.String()
}

// ScopeOf derives a scope from the package path and type name of v.
// Pointers are dereferenced. Unnamed types yield their string form.
func ScopeOf(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// NoopRegistry discards every sample.
type NoopRegistry struct{}

func (NoopRegistry) Timer(string) Timer         { return noopTimer{} }
func (NoopRegistry) Histogram(string) Histogram { return noopHistogram{} }

type noopTimer struct{}

func (noopTimer) Update(time.Duration) {}

type noopHistogram struct{}

func (noopHistogram) Update(int64) {}

// Snapshot is a point-in-time view of a recorder.
type Snapshot struct {
	Count int64
	Sum   int64
	Min   int64
	Max   int64
}

// Mean returns the average sample, or 0 when empty.
func (s Snapshot) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}

// Sample accumulates count, sum, min and max lock-free.
type Sample struct {
	count atomic.Int64
	sum   atomic.Int64
	min   atomic.Int64
	max   atomic.Int64
}

func (s *Sample) init() {
	s.min.Store(math.MaxInt64)
	s.max.Store(math.MinInt64)
}

// Update adds v.
func (s *Sample) Update(v int64) {
	s.count.Add(1)
	s.sum.Add(v)
	for {
		cur := s.min.Load()
		if v >= cur || s.min.CompareAndSwap(cur, v) {
			break
		}
	}
	for {
		cur := s.max.Load()
		if v <= cur || s.max.CompareAndSwap(cur, v) {
			break
		}
	}
}

// Count returns the number of samples.
func (s *Sample) Count() int64 {
	return s.count.Load()
}

// Snapshot returns the current state. Min and Max are 0 when empty.
func (s *Sample) Snapshot() Snapshot {
	snap := Snapshot{
		Count: s.count.Load(),
		Sum:   s.sum.Load(),
	}
	if snap.Count > 0 {
		snap.Min = s.min.Load()
		snap.Max = s.max.Load()
	}
	return snap
}

// MemoryTimer is a Timer backed by a Sample of nanoseconds.
type MemoryTimer struct {
	Sample
}

// Update implements Timer.
func (t *MemoryTimer) Update(d time.Duration) {
	t.Sample.Update(d.Nanoseconds())
}

// MemoryHistogram is a Histogram backed by a Sample.
type MemoryHistogram struct {
	Sample
}

// MemoryRegistry is an in-memory Registry.
// Useful for tests and basic monitoring without external dependencies.
type MemoryRegistry struct {
	mu         sync.Mutex
	timers     map[string]*MemoryTimer
	histograms map[string]*MemoryHistogram
}

// NewRegistry creates an empty MemoryRegistry.
func NewRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		timers:     make(map[string]*MemoryTimer),
		histograms: make(map[string]*MemoryHistogram),
	}
}

// Timer implements Registry.
func (r *MemoryRegistry) Timer(name string) Timer {
	return r.MemoryTimer(name)
}

// Histogram implements Registry.
func (r *MemoryRegistry) Histogram(name string) Histogram {
	return r.MemoryHistogram(name)
}

// MemoryTimer returns the concrete timer for name, creating it if needed.
func (r *MemoryRegistry) MemoryTimer(name string) *MemoryTimer {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timers[name]
	if !ok {
		t = &MemoryTimer{}
		t.init()
		r.timers[name] = t
	}
	return t
}

// MemoryHistogram returns the concrete histogram for name, creating it if needed.
func (r *MemoryRegistry) MemoryHistogram(name string) *MemoryHistogram {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.histograms[name]
	if !ok {
		h = &MemoryHistogram{}
		h.init()
		r.histograms[name] = h
	}
	return h
}

// Names returns the names of all registered timers and histograms.
func (r *MemoryRegistry) Names() (timers, histograms []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for n := range r.timers {
		timers = append(timers, n)
	}
	for n := range r.histograms {
		histograms = append(histograms, n)
	}
	return timers, histograms
}
