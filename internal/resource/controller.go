package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxBackground is the maximum number of concurrent background jobs.
	// If 0, no limit is enforced.
	MaxBackground int64

	// MeasurementsPerSec is the sustained rate of admitted measurements.
	// If 0, unlimited.
	MeasurementsPerSec float64

	// MeasurementBurst is the token bucket size. Defaults to 1 when a rate is set.
	MeasurementBurst int
}

// Controller manages background concurrency and admission rate.
type Controller struct {
	cfg Config

	bgSem    *semaphore.Weighted // nil if unlimited
	inFlight atomic.Int64

	limiter  *rate.Limiter // nil if unlimited
	rejected atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MaxBackground > 0 {
		c.bgSem = semaphore.NewWeighted(cfg.MaxBackground)
	}

	if cfg.MeasurementsPerSec > 0 {
		burst := cfg.MeasurementBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.MeasurementsPerSec), burst)
	}

	return c
}

// AcquireBackground reserves a background slot.
// Blocks if all slots are busy, until ctx is done.
func (c *Controller) AcquireBackground(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.bgSem != nil {
		if err := c.bgSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	c.inFlight.Add(1)
	return nil
}

// ReleaseBackground releases a background slot.
func (c *Controller) ReleaseBackground() {
	if c == nil {
		return
	}
	c.inFlight.Add(-1)
	if c.bgSem != nil {
		c.bgSem.Release(1)
	}
}

// InFlight returns the number of held background slots.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// AllowMeasurement reports whether a measurement may start now.
// It never blocks.
func (c *Controller) AllowMeasurement() bool {
	if c == nil || c.limiter == nil {
		return true
	}
	if c.limiter.Allow() {
		return true
	}
	c.rejected.Add(1)
	return false
}

// Rejected returns how many measurements the rate limit turned away.
func (c *Controller) Rejected() int64 {
	if c == nil {
		return 0
	}
	return c.rejected.Load()
}
