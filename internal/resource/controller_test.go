package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Concurrency(t *testing.T) {
	c := NewController(Config{MaxBackground: 2})

	require.NoError(t, c.AcquireBackground(context.Background()))
	require.NoError(t, c.AcquireBackground(context.Background()))
	assert.Equal(t, int64(2), c.InFlight())

	// Third should block until the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireBackground(ctx), context.DeadlineExceeded)
	assert.Equal(t, int64(2), c.InFlight())

	c.ReleaseBackground()
	assert.Equal(t, int64(1), c.InFlight())
	require.NoError(t, c.AcquireBackground(context.Background()))

	c.ReleaseBackground()
	c.ReleaseBackground()
	assert.Equal(t, int64(0), c.InFlight())
}

func TestController_UnlimitedConcurrency(t *testing.T) {
	c := NewController(Config{})

	for range 100 {
		require.NoError(t, c.AcquireBackground(context.Background()))
	}
	assert.Equal(t, int64(100), c.InFlight())
}

func TestController_Rate(t *testing.T) {
	c := NewController(Config{MeasurementsPerSec: 0.001, MeasurementBurst: 2})

	assert.True(t, c.AllowMeasurement())
	assert.True(t, c.AllowMeasurement())
	assert.False(t, c.AllowMeasurement())
	assert.Equal(t, int64(1), c.Rejected())
}

func TestController_DefaultBurst(t *testing.T) {
	c := NewController(Config{MeasurementsPerSec: 0.001})

	assert.True(t, c.AllowMeasurement())
	assert.False(t, c.AllowMeasurement())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	assert.NoError(t, c.AcquireBackground(context.Background()))
	assert.True(t, c.AllowMeasurement())
	c.ReleaseBackground()
	assert.Equal(t, int64(0), c.InFlight())
	assert.Equal(t, int64(0), c.Rejected())
}
