package vecstats

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).
		WithIndex("svc", "products")

	ctx := context.Background()
	logger.LogAccuracy(ctx, 5, 1, 2, 50)
	logger.LogAccuracySkipped(ctx, 5, "empty")
	logger.LogAccuracyDropped(ctx, 5, "rate limited")
	logger.LogAccuracyFailure(ctx, 5, errBoom)
	logger.LogClose(ctx, Stats{Sampled: 3, Measured: 1, Dropped: 2})

	out := buf.String()
	assert.Contains(t, out, `"scope":"svc"`)
	assert.Contains(t, out, `"index":"products"`)
	assert.Contains(t, out, `"accuracy":50`)
	assert.Contains(t, out, "accuracy measurement skipped")
	assert.Contains(t, out, "accuracy measurement dropped")
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"sampled":3`)
	assert.Contains(t, out, `"measured":1`)
	assert.Contains(t, out, `"dropped":2`)
}

func TestNoopLogger(t *testing.T) {
	logger := NoopLogger()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	f := newFixture(t, 1, WithLogger(logger))
	results := []result{{Item: item1, Distance: 0.1}}

	f.approximate.On("FindNearest", mock.Anything, item1.vector, testK).Return(results, nil)
	f.groundTruth.On("FindNearest", mock.Anything, item1.vector, testK).Return(nil, errBoom).Once()

	_, err := f.decorator.FindNearest(context.Background(), item1.vector, testK)
	require.NoError(t, err)
	require.NoError(t, f.decorator.Close())

	out := buf.String()
	require.Contains(t, out, "accuracy measurement failed")
	require.Contains(t, out, `"index":"testindex"`)
	require.Contains(t, out, "statistics decorator closed")
}

func TestCloseLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	f := newFixture(t, 1, WithLogger(logger))

	require.NoError(t, f.decorator.Close())
	require.NoError(t, f.decorator.Close())

	assert.Equal(t, 1, strings.Count(buf.String(), "statistics decorator closed"))
}

func TestWithLoggerNil(t *testing.T) {
	opts := defaultOptions()
	WithLogger(nil)(&opts)
	require.NotNil(t, opts.logger)

	WithLogLevel(slog.LevelWarn)(&opts)
	assert.True(t, opts.logger.Enabled(context.Background(), slog.LevelWarn))
	assert.False(t, opts.logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestOptionDefaults(t *testing.T) {
	opts := defaultOptions()
	WithAccuracyWorkers(0)(&opts)
	WithAccuracyQueueSize(-1)(&opts)
	assert.Equal(t, 1, opts.workers)
	assert.Equal(t, 64, opts.queueSize)

	WithAccuracyWorkers(3)(&opts)
	WithAccuracyQueueSize(0)(&opts)
	WithMaxConcurrentAccuracy(2)(&opts)
	assert.Equal(t, 3, opts.workers)
	assert.Equal(t, 0, opts.queueSize)
	assert.Equal(t, int64(2), opts.maxConcurrent)
}
