// SPDX-License-Identifier: MIT

package kde

import (
	"math"

	"github.com/katalvlaran/lvprune/kdtree"
)

// Naive computes f(q) exactly for every query, in input order.
//
// Complexity: O(|Q|·N·d) time, O(|Q|) memory.
func Naive(queries, refs [][]float64, bandwidth float64) ([]float64, error) {
	if !(bandwidth > 0) || math.IsInf(bandwidth, 0) {
		return nil, ErrBandwidth
	}
	if len(refs) == 0 {
		return nil, kdtree.ErrEmptyPoints
	}
	var (
		dim    = len(refs[0])
		inv2h2 = 1 / (2 * bandwidth * bandwidth)
		norm   = 1 / float64(len(refs))
		out    = make([]float64, len(queries))
	)
	for i, q := range queries {
		if len(q) != dim {
			return nil, ErrDimensionMismatch
		}
		var sum float64
		for _, r := range refs {
			if len(r) != dim {
				return nil, ErrDimensionMismatch
			}
			sum += math.Exp(-kdtree.Dist2(q, r) * inv2h2)
		}
		out[i] = sum * norm
	}

	return out, nil
}
