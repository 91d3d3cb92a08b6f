// Package vecstats instruments approximate nearest neighbor indexes.
//
// A StatisticsDecorator wraps an approximate index together with an exact
// ground-truth index of the same items. Every delegated operation is timed
// into a metrics.Registry, and a fraction of FindNearest calls is replayed
// against the ground truth in the background to record how many of the true
// neighbors the approximate index returned.
//
// # Quick Start
//
//	reg := metrics.NewRegistry()
//	truth, _ := flat.New[string, Doc](func(o *flat.Options) { o.Dimension = 128 })
//
//	d, _ := vecstats.New[string, []float32, Doc](reg, "search", "docs", hnswIndex, truth, 100)
//	defer d.Close()
//
//	results, _ := d.FindNearest(ctx, query, 10)
//
// Metric names are built with metrics.Name(scope, indexName, operation), for
// example "search.docs.findNearest". Accuracy percentages (0-100) are
// recorded into the histogram "search.docs.accuracy".
//
// # Sampling
//
// The decorator counts FindNearest calls. Call n (starting at 0) is sampled
// when n is a multiple of the sample frequency and the approximate search
// succeeded. Sampled measurements run on a bounded worker pool and never
// delay or alter the caller's results. When the queue is full the sample is
// dropped and logged.
//
//	d, _ := vecstats.New[string, []float32, Doc](reg, "search", "docs", approx, truth, 10,
//	    vecstats.WithAccuracyWorkers(2),
//	    vecstats.WithAccuracyQueueSize(128),
//	    vecstats.WithAccuracyTimeout(time.Second),
//	    vecstats.WithAccuracyRateLimit(50, 5),
//	)
//
// # Prometheus
//
// The prometheus subpackage of metrics adapts a prometheus.Registerer to the
// Registry interface:
//
//	reg := prometheus.New(promclient.DefaultRegisterer, prometheus.WithNamespace("app"))
//
// # Logging
//
// The decorator logs through log/slog and is silent by default:
//
//	vecstats.New[string, []float32, Doc](reg, "search", "docs", approx, truth, 10,
//	    vecstats.WithLogger(vecstats.NewJSONLogger(slog.LevelDebug)))
package vecstats
