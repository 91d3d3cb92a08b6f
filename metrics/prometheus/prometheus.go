// Package prometheus exports decorator metrics through the Prometheus client.
//
//	reg := prometheus.New(prom.DefaultRegisterer, prometheus.WithNamespace("search"))
//	dec, _ := vecstats.New[string, []float32, Doc](reg, "products", "hnsw", approx, exact, 100)
//
// Timers become histograms observed in seconds and suffixed with _seconds.
// Histograms become histograms of raw samples.
//
// Like prometheus.MustRegister, Timer and Histogram panic when a name is
// already taken by an incompatible collector.
package prometheus

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/vecstats/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

var _ metrics.Registry = (*Registry)(nil)

// Options configures the Prometheus registry adapter.
type Options struct {
	// Namespace is prepended to every metric name.
	Namespace string

	// TimerBuckets are the bucket bounds (in seconds) for timers.
	TimerBuckets []float64

	// HistogramBuckets are the bucket bounds for histograms.
	HistogramBuckets []float64
}

// DefaultOptions contains the default configuration.
// Histogram buckets fit accuracy percentages in [0, 100].
var DefaultOptions = Options{
	TimerBuckets:     prometheus.DefBuckets,
	HistogramBuckets: prometheus.LinearBuckets(10, 10, 10),
}

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) func(o *Options) {
	return func(o *Options) {
		o.Namespace = ns
	}
}

// WithTimerBuckets overrides the timer buckets.
func WithTimerBuckets(buckets []float64) func(o *Options) {
	return func(o *Options) {
		o.TimerBuckets = buckets
	}
}

// WithHistogramBuckets overrides the histogram buckets.
func WithHistogramBuckets(buckets []float64) func(o *Options) {
	return func(o *Options) {
		o.HistogramBuckets = buckets
	}
}

// Registry implements metrics.Registry on top of a prometheus.Registerer.
type Registry struct {
	reg  prometheus.Registerer
	opts Options

	mu         sync.Mutex
	collectors map[string]prometheus.Histogram
}

// New creates a Registry that registers its collectors with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
//
// Collectors are registered lazily. A histogram of the same name and help
// that is already registered is reused; any other conflict panics.
func New(reg prometheus.Registerer, optFns ...func(o *Options)) *Registry {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	return &Registry{
		reg:        reg,
		opts:       opts,
		collectors: make(map[string]prometheus.Histogram),
	}
}

// Timer implements metrics.Registry.
func (r *Registry) Timer(name string) metrics.Timer {
	return timer{h: r.histogram(Sanitize(name)+"_seconds", "Duration of "+name, r.opts.TimerBuckets)}
}

// Histogram implements metrics.Registry.
func (r *Registry) Histogram(name string) metrics.Histogram {
	return histogram{h: r.histogram(Sanitize(name), "Samples of "+name, r.opts.HistogramBuckets)}
}

func (r *Registry) histogram(name, help string, buckets []float64) prometheus.Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.collectors[name]; ok {
		return h
	}

	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.opts.Namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	})

	if err := r.reg.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			panic(err)
		}
		existing, ok := are.ExistingCollector.(prometheus.Histogram)
		if !ok {
			panic(err)
		}
		h = existing
	}

	r.collectors[name] = h
	return h
}

// Sanitize maps a dotted metric name onto the Prometheus name charset.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == ':':
			b.WriteRune(c)
		case c >= '0' && c <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

type timer struct {
	h prometheus.Histogram
}

func (t timer) Update(d time.Duration) {
	t.h.Observe(d.Seconds())
}

type histogram struct {
	h prometheus.Histogram
}

func (h histogram) Update(v int64) {
	h.h.Observe(float64(v))
}
