// SPDX-License-Identifier: MIT

package kde

import (
	"errors"

	"go.uber.org/zap"
)

var (
	// ErrNilTree indicates a nil query or reference tree.
	ErrNilTree = errors.New("kde: nil tree")

	// ErrDimensionMismatch indicates query and reference points of different dimension.
	ErrDimensionMismatch = errors.New("kde: dimension mismatch")

	// ErrBandwidth indicates a bandwidth that is not finite and > 0.
	ErrBandwidth = errors.New("kde: bandwidth must be finite and > 0")

	// ErrNilCriterion indicates DualTree was called without a criterion.
	ErrNilCriterion = errors.New("kde: nil criterion")
)

// DefaultBandwidth is the kernel bandwidth h used by DefaultOptions.
const DefaultBandwidth = 0.2

// Options configures DualTree.
//   - Bandwidth: Gaussian kernel bandwidth h (> 0).
//   - Logger:    receives a Debug summary per run; nil ⇒ no logging.
type Options struct {
	Bandwidth float64
	Logger    *zap.Logger
}

// DefaultOptions returns Bandwidth=DefaultBandwidth and no logger.
func DefaultOptions() Options {
	return Options{Bandwidth: DefaultBandwidth}
}

// Stats summarizes one traversal.
type Stats struct {
	Pairs     int     // node pairs visited
	Prunes    int     // pairs answered from bounds
	BaseCases int     // leaf pairs evaluated exactly
	Kernels   int     // exact kernel evaluations
	Spent     float64 // Σ half-widths of pruned pairs (per query node, summed)
}

// Result holds per-query estimates in the caller's query order.
type Result struct {
	Density    []float64
	ErrorBound []float64
	Stats      Stats
}
