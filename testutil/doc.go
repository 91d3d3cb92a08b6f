// Package testutil provides testing utilities.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random vectors.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.UniformVectors(100, 8) // uniform [0, 1)
//	unit := rng.UnitVectors(100, 8)    // on the unit hypersphere
package testutil
