// SPDX-License-Identifier: MIT
// Package kdtree - deterministic point generators for tests, benchmarks and
// the CLI.
//
// Policy:
//   - seed==0 ⇒ DefaultSeed; any other seed is used verbatim.
//   - Same seed ⇒ identical points on every platform.
//   - Clustered derives one independent stream per cluster (SplitMix64 mix),
//     so adding a cluster does not reshuffle the earlier ones.
//
// math/rand.Rand is not goroutine-safe; every call builds its own stream.
package kdtree

import "math/rand"

// DefaultSeed is used when callers pass seed==0.
const DefaultSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand under the seed policy.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// deriveSeed mixes a parent seed and a stream id with the SplitMix64 finalizer.
func deriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// Uniform returns n points drawn uniformly from the unit cube [0,1)^dim.
// n < 0 or dim < 1 ⇒ ErrDimensionMismatch.
func Uniform(n, dim int, seed int64) ([][]float64, error) {
	if n < 0 || dim < 1 {
		return nil, ErrDimensionMismatch
	}
	r := rngFromSeed(seed)
	pts := make([][]float64, n)
	var i, d int
	for i = 0; i < n; i++ {
		pts[i] = make([]float64, dim)
		for d = 0; d < dim; d++ {
			pts[i][d] = r.Float64()
		}
	}

	return pts, nil
}

// Clustered returns n points spread over k Gaussian blobs with standard
// deviation spread, whose centers are uniform in the unit cube. Points are
// assigned to clusters round-robin.
// n < 0, dim < 1, k < 1 or spread < 0 ⇒ ErrDimensionMismatch.
func Clustered(n, dim, k int, spread float64, seed int64) ([][]float64, error) {
	if n < 0 || dim < 1 || k < 1 || spread < 0 {
		return nil, ErrDimensionMismatch
	}
	base := rngFromSeed(seed)
	parent := base.Int63()

	centers := make([][]float64, k)
	streams := make([]*rand.Rand, k)
	var c, d int
	for c = 0; c < k; c++ {
		streams[c] = rand.New(rand.NewSource(deriveSeed(parent, uint64(c))))
		centers[c] = make([]float64, dim)
		for d = 0; d < dim; d++ {
			centers[c][d] = streams[c].Float64()
		}
	}

	pts := make([][]float64, n)
	for i := 0; i < n; i++ {
		c = i % k
		pts[i] = make([]float64, dim)
		for d = 0; d < dim; d++ {
			pts[i][d] = centers[c][d] + spread*streams[c].NormFloat64()
		}
	}

	return pts, nil
}
