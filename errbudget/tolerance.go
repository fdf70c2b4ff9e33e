// SPDX-License-Identifier: MIT

package errbudget

import "math"

// Tolerance evaluates the tolerance function of v for the given bounds and
// remaining budget.
//
// Contract:
//   - Valid inputs (upper ≥ lower ≥ 0, budget ≥ 0, validated params) give a
//     result ≥ 0. Absolute and Hybrid divide by lower, so lower == 0 yields
//     +Inf (or NaN when the numerator is also zero); callers treat a NaN
//     allowed error as "do not prune".
//   - Hybrid reads p.Epsilon, not budget.
//   - An unknown variant returns NaN.
//
// Complexity: O(1), no allocations.
func Tolerance(v Variant, p Params, budget, upper, lower float64) float64 {
	switch v {
	case Absolute:
		return budget / lower
	case Relative:
		return budget
	case Exponential:
		return p.MaxError*math.Exp(-p.Steepness*upper) + p.MinError + budget
	case Gaussian:
		return p.MaxError*math.Exp(-p.Steepness*upper*upper) + p.MinError + budget
	case Hybrid:
		var eps = (1 - math.Exp(-p.Steepness*lower)) * p.Epsilon
		return eps + math.Exp(-p.Steepness*upper)*p.Epsilon/lower
	default:
		return math.NaN()
	}
}
