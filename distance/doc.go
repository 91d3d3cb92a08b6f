// Package distance provides vector distance calculations.
//
// Every distance returned by Provider follows "lower is better" so indexes can
// rank results uniformly.
//
// # Supported Metrics
//
//   - MetricL2: Squared Euclidean distance (default)
//   - MetricCosine: Cosine distance (1 - cosine similarity)
//   - MetricDot: Negative dot product (inner product)
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
//	fn, _ := distance.Provider(distance.MetricCosine)
//	d := fn(a, b)
package distance
