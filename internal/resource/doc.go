// Package resource bounds the background work spawned by accuracy sampling.
//
// The Controller manages two budgets:
//
//   - Concurrency: limit how many ground-truth queries run at once (semaphore)
//   - Rate: limit how many measurements start per second (token bucket)
//
// # Background Limits
//
//	rc := resource.NewController(resource.Config{
//	    MaxBackground: 2,
//	})
//
//	if err := rc.AcquireBackground(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseBackground()
//
// # Rate Limiting
//
//	rc := resource.NewController(resource.Config{
//	    MeasurementsPerSec: 10,
//	    MeasurementBurst:   5,
//	})
//
//	if !rc.AllowMeasurement() {
//	    // drop this sample
//	}
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
