// SPDX-License-Identifier: MIT

package kdtree

import "math"

// boundsOf computes the bounding box of pts.
func boundsOf(pts [][]float64, dim int) Box {
	b := Box{Lo: make([]float64, dim), Hi: make([]float64, dim)}
	var d int
	for d = 0; d < dim; d++ {
		b.Lo[d] = math.Inf(1)
		b.Hi[d] = math.Inf(-1)
	}
	for _, p := range pts {
		for d = 0; d < dim; d++ {
			if p[d] < b.Lo[d] {
				b.Lo[d] = p[d]
			}
			if p[d] > b.Hi[d] {
				b.Hi[d] = p[d]
			}
		}
	}

	return b
}

// Widest returns the dimension with the largest extent and that extent.
func (b Box) Widest() (int, float64) {
	var (
		best  int
		width = -1.0
	)
	for d := range b.Lo {
		if w := b.Hi[d] - b.Lo[d]; w > width {
			best, width = d, w
		}
	}

	return best, width
}

// Contains reports whether p lies inside b (boundary included).
func (b Box) Contains(p []float64) bool {
	for d := range b.Lo {
		if p[d] < b.Lo[d] || p[d] > b.Hi[d] {
			return false
		}
	}

	return true
}

// MinDist2 is the smallest squared distance between a point of b and a point of o.
// Overlapping boxes give 0.
func (b Box) MinDist2(o Box) float64 {
	var sum, gap float64
	for d := range b.Lo {
		switch {
		case o.Lo[d] > b.Hi[d]:
			gap = o.Lo[d] - b.Hi[d]
		case b.Lo[d] > o.Hi[d]:
			gap = b.Lo[d] - o.Hi[d]
		default:
			gap = 0
		}
		sum += gap * gap
	}

	return sum
}

// MaxDist2 is the largest squared distance between a point of b and a point of o.
func (b Box) MaxDist2(o Box) float64 {
	var sum, span float64
	for d := range b.Lo {
		span = math.Max(o.Hi[d]-b.Lo[d], b.Hi[d]-o.Lo[d])
		sum += span * span
	}

	return sum
}

// Dist2 is the squared Euclidean distance between two points of equal length.
func Dist2(p, q []float64) float64 {
	var sum, diff float64
	for d := range p {
		diff = p[d] - q[d]
		sum += diff * diff
	}

	return sum
}
