package vecstats

import (
	"context"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/vecstats/index"
	"github.com/hupe1980/vecstats/internal/pool"
	"github.com/hupe1980/vecstats/internal/resource"
	"github.com/hupe1980/vecstats/metrics"
)

// Metric names appended to {scope, indexName}.
const (
	MetricAdd         = "add"
	MetricRemove      = "remove"
	MetricGet         = "get"
	MetricFindNearest = "findNearest"
	MetricSave        = "save"
	MetricAccuracy    = "accuracy"
)

// StatisticsDecorator wraps an approximate index, timing every delegated
// operation and sampling its accuracy against a ground-truth index.
//
// Return values always come from the approximate index unchanged. Size and
// Items are not timed. Accuracy is measured on a background worker for one
// out of every sampleFrequency FindNearest calls.
//
// A StatisticsDecorator is safe for concurrent use if the wrapped indexes are.
type StatisticsDecorator[K comparable, V any, T index.Item[K]] struct {
	approximate index.Index[K, V, T]
	groundTruth index.Index[K, V, T]

	registry         metrics.Registry
	addTimer         metrics.Timer
	removeTimer      metrics.Timer
	getTimer         metrics.Timer
	findNearestTimer metrics.Timer
	saveTimer        metrics.Timer
	accuracyName     string

	sampleFrequency uint64
	sampleCounter   atomic.Uint64
	sampled         atomic.Int64
	measured        atomic.Int64
	skipped         atomic.Int64
	failed          atomic.Int64
	dropped         atomic.Int64

	workers   *pool.WorkerPool
	resources *resource.Controller
	timeout   time.Duration
	logger    *Logger
	closeOnce sync.Once
}

// Stats counts what happened to sampled FindNearest calls.
//
// Every sampled call ends up in exactly one of Measured, Skipped, Failed,
// Dropped or RateLimited once it is no longer pending.
type Stats struct {
	// Sampled is the number of successful FindNearest calls selected for measurement.
	Sampled int64
	// Measured is the number of accuracy samples recorded.
	Measured int64
	// Skipped is the number of measurements whose ground truth was empty.
	Skipped int64
	// Failed is the number of measurements whose ground-truth query failed or panicked.
	Failed int64
	// Dropped is the number of measurements rejected by a full queue or a closed decorator.
	Dropped int64
	// RateLimited is the number of measurements rejected by the rate limit.
	RateLimited int64
	// InFlight is the number of ground-truth queries currently running.
	InFlight int64
	// Workers is the number of background measurement workers.
	Workers int
}

// New creates a StatisticsDecorator.
//
// Metric names are metrics.Name(scope, indexName, operation). sampleFrequency
// must be positive; 1 samples every FindNearest call.
//
// Timers are resolved from registry before New returns, so a registry that
// panics on a name conflict (such as the prometheus adapter) panics here.
func New[K comparable, V any, T index.Item[K]](
	registry metrics.Registry,
	scope, indexName string,
	approximate, groundTruth index.Index[K, V, T],
	sampleFrequency int,
	optFns ...Option,
) (*StatisticsDecorator[K, V, T], error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	if approximate == nil || groundTruth == nil {
		return nil, ErrNilIndex
	}
	if sampleFrequency <= 0 {
		return nil, &ErrInvalidSampleFrequency{SampleFrequency: sampleFrequency}
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	return &StatisticsDecorator[K, V, T]{
		approximate:      approximate,
		groundTruth:      groundTruth,
		registry:         registry,
		addTimer:         registry.Timer(metrics.Name(scope, indexName, MetricAdd)),
		removeTimer:      registry.Timer(metrics.Name(scope, indexName, MetricRemove)),
		getTimer:         registry.Timer(metrics.Name(scope, indexName, MetricGet)),
		findNearestTimer: registry.Timer(metrics.Name(scope, indexName, MetricFindNearest)),
		saveTimer:        registry.Timer(metrics.Name(scope, indexName, MetricSave)),
		accuracyName:     metrics.Name(scope, indexName, MetricAccuracy),
		sampleFrequency:  uint64(sampleFrequency),
		workers:          pool.New(opts.workers, opts.queueSize),
		resources: resource.NewController(resource.Config{
			MaxBackground:      opts.maxConcurrent,
			MeasurementsPerSec: opts.ratePerSec,
			MeasurementBurst:   opts.rateBurst,
		}),
		timeout: opts.timeout,
		logger:  opts.logger.WithIndex(scope, indexName),
	}, nil
}

// observe records the time elapsed since start. Deferred so that failing
// and panicking delegates are timed too.
func observe(t metrics.Timer, start time.Time) {
	t.Update(time.Since(start))
}

// Add times and delegates to the approximate index.
func (d *StatisticsDecorator[K, V, T]) Add(ctx context.Context, item T) error {
	defer observe(d.addTimer, time.Now())
	return d.approximate.Add(ctx, item)
}

// Remove times and delegates to the approximate index.
func (d *StatisticsDecorator[K, V, T]) Remove(ctx context.Context, id K, version int64) (bool, error) {
	defer observe(d.removeTimer, time.Now())
	return d.approximate.Remove(ctx, id, version)
}

// Size returns the size of the approximate index.
func (d *StatisticsDecorator[K, V, T]) Size() int {
	return d.approximate.Size()
}

// Get times and delegates to the approximate index.
func (d *StatisticsDecorator[K, V, T]) Get(ctx context.Context, id K) (T, bool, error) {
	defer observe(d.getTimer, time.Now())
	return d.approximate.Get(ctx, id)
}

// Items returns the items of the approximate index.
func (d *StatisticsDecorator[K, V, T]) Items() []T {
	return d.approximate.Items()
}

// FindNearest times the approximate search and, on sampled calls, schedules
// an accuracy measurement before returning the results unchanged.
func (d *StatisticsDecorator[K, V, T]) FindNearest(ctx context.Context, vector V, k int) ([]index.SearchResult[T], error) {
	results, err := d.findNearest(ctx, vector, k)

	n := d.sampleCounter.Add(1) - 1
	if n%d.sampleFrequency == 0 && err == nil {
		d.scheduleAccuracy(ctx, vector, k, results)
	}

	return results, err
}

func (d *StatisticsDecorator[K, V, T]) findNearest(ctx context.Context, vector V, k int) ([]index.SearchResult[T], error) {
	defer observe(d.findNearestTimer, time.Now())
	return d.approximate.FindNearest(ctx, vector, k)
}

// Save times and delegates to the approximate index.
func (d *StatisticsDecorator[K, V, T]) Save(ctx context.Context, w io.Writer) error {
	defer observe(d.saveTimer, time.Now())
	return d.approximate.Save(ctx, w)
}

// ApproximativeIndex returns the wrapped approximate index.
func (d *StatisticsDecorator[K, V, T]) ApproximativeIndex() index.Index[K, V, T] {
	return d.approximate
}

// GroundTruthIndex returns the wrapped ground-truth index.
func (d *StatisticsDecorator[K, V, T]) GroundTruthIndex() index.Index[K, V, T] {
	return d.groundTruth
}

// Stats returns a snapshot of the sampling counters.
func (d *StatisticsDecorator[K, V, T]) Stats() Stats {
	return Stats{
		Sampled:     d.sampled.Load(),
		Measured:    d.measured.Load(),
		Skipped:     d.skipped.Load(),
		Failed:      d.failed.Load(),
		Dropped:     d.dropped.Load(),
		RateLimited: d.resources.Rejected(),
		InFlight:    d.resources.InFlight(),
		Workers:     d.workers.Workers(),
	}
}

// Close waits for queued accuracy measurements and stops the background
// workers. Delegation keeps working afterwards; sampled calls then record
// no accuracy. Close does not close the wrapped indexes and is idempotent.
func (d *StatisticsDecorator[K, V, T]) Close() error {
	d.closeOnce.Do(func() {
		d.workers.Close()
		d.logger.LogClose(context.Background(), d.Stats())
	})
	return nil
}

func (d *StatisticsDecorator[K, V, T]) scheduleAccuracy(ctx context.Context, vector V, k int, results []index.SearchResult[T]) {
	d.sampled.Add(1)

	if !d.resources.AllowMeasurement() {
		d.logger.LogAccuracyDropped(ctx, k, "rate limited")
		return
	}

	bg := context.WithoutCancel(ctx)
	query := cloneVector(vector)
	approximate := slices.Clone(results)

	if !d.workers.TrySubmit(func() { d.measureAccuracy(bg, query, k, approximate) }) {
		d.dropped.Add(1)
		d.logger.LogAccuracyDropped(ctx, k, "queue full or closed")
	}
}

func (d *StatisticsDecorator[K, V, T]) measureAccuracy(ctx context.Context, vector V, k int, approximate []index.SearchResult[T]) {
	defer func() {
		if r := recover(); r != nil {
			d.failed.Add(1)
			d.logger.LogAccuracyFailure(ctx, k, &ErrMeasurementPanic{Value: r})
		}
	}()

	if err := d.resources.AcquireBackground(ctx); err != nil {
		d.failed.Add(1)
		d.logger.LogAccuracyFailure(ctx, k, err)
		return
	}
	defer d.resources.ReleaseBackground()

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	groundTruth, err := d.groundTruth.FindNearest(ctx, vector, k)
	if err != nil {
		d.failed.Add(1)
		d.logger.LogAccuracyFailure(ctx, k, err)
		return
	}

	accuracy, overlap, ok := Accuracy[K, T](approximate, groundTruth)
	if !ok {
		d.skipped.Add(1)
		d.logger.LogAccuracySkipped(ctx, k, ErrEmptyGroundTruth.Error())
		return
	}

	d.registry.Histogram(d.accuracyName).Update(int64(accuracy))
	d.measured.Add(1)
	d.logger.LogAccuracy(ctx, k, overlap, len(groundTruth), accuracy)
}

// cloneVector copies slice vectors so later caller mutations cannot leak
// into a pending measurement. Other vector types are captured as is.
func cloneVector[V any](v V) V {
	switch x := any(v).(type) {
	case []float32:
		return any(slices.Clone(x)).(V)
	case []float64:
		return any(slices.Clone(x)).(V)
	case []byte:
		return any(slices.Clone(x)).(V)
	default:
		return v
	}
}
