package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type scopeType struct{}

func TestName(t *testing.T) {
	assert.Equal(t, "svc.idx.add", Name("svc", "idx", "add"))
	assert.Equal(t, "idx.add", Name("", "idx", "add"))
	assert.Equal(t, "svc.add", Name("svc", "", "add"))
	assert.Equal(t, "svc", Name("svc"))
	assert.Equal(t, Name("svc", "idx", "get"), Name("svc", "idx", "get"))
}

func TestScopeOf(t *testing.T) {
	want := "github.com/hupe1980/vecstats/metrics.scopeType"
	assert.Equal(t, want, ScopeOf(scopeType{}))
	assert.Equal(t, want, ScopeOf(&scopeType{}))
	assert.Equal(t, "int", ScopeOf(1))
	assert.Equal(t, "", ScopeOf(nil))
}

func TestMemoryRegistry(t *testing.T) {
	r := NewRegistry()

	t.Run("same name same recorder", func(t *testing.T) {
		assert.Same(t, r.MemoryTimer("a"), r.Timer("a"))
		assert.Same(t, r.MemoryHistogram("a"), r.Histogram("a"))
	})

	t.Run("timer", func(t *testing.T) {
		tm := r.MemoryTimer("t")
		tm.Update(2 * time.Millisecond)
		tm.Update(4 * time.Millisecond)

		snap := tm.Snapshot()
		assert.Equal(t, int64(2), snap.Count)
		assert.Equal(t, (2 * time.Millisecond).Nanoseconds(), snap.Min)
		assert.Equal(t, (4 * time.Millisecond).Nanoseconds(), snap.Max)
		assert.InDelta(t, float64((3 * time.Millisecond).Nanoseconds()), snap.Mean(), 1)
	})

	t.Run("histogram", func(t *testing.T) {
		h := r.MemoryHistogram("h")
		assert.Equal(t, Snapshot{}, h.Snapshot())

		h.Update(50)
		h.Update(100)
		h.Update(-1)

		snap := h.Snapshot()
		assert.Equal(t, int64(3), snap.Count)
		assert.Equal(t, int64(-1), snap.Min)
		assert.Equal(t, int64(100), snap.Max)
	})

	t.Run("names", func(t *testing.T) {
		timers, histograms := r.Names()
		assert.ElementsMatch(t, []string{"a", "t"}, timers)
		assert.ElementsMatch(t, []string{"a", "h"}, histograms)
	})
}

func TestSampleConcurrentUpdates(t *testing.T) {
	h := NewRegistry().MemoryHistogram("c")

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(base int64) {
			defer wg.Done()
			for j := range int64(100) {
				h.Update(base*100 + j)
			}
		}(int64(i))
	}
	wg.Wait()

	snap := h.Snapshot()
	assert.Equal(t, int64(800), snap.Count)
	assert.Equal(t, int64(0), snap.Min)
	assert.Equal(t, int64(799), snap.Max)
}

func TestNoopRegistry(t *testing.T) {
	var r Registry = NoopRegistry{}
	assert.NotPanics(t, func() {
		r.Timer("x").Update(time.Second)
		r.Histogram("x").Update(1)
	})
}
