// SPDX-License-Identifier: MIT

package errbudget

import (
	"fmt"
	"strings"
)

// Variant selects the tolerance function. The set is closed; Tolerance
// dispatches with a single switch.
type Variant int

const (
	// Absolute rescales an absolute tolerance to the current magnitude: budget / lower.
	Absolute Variant = iota

	// Relative uses the remaining budget as a fraction, independent of the bounds.
	Relative

	// Exponential relaxes toward min_error + budget as upper grows (e^(−s·upper) decay).
	Exponential

	// Gaussian is Exponential with e^(−s·upper²) decay.
	Gaussian

	// Hybrid blends a saturating relative term with a decaying absolute term,
	// both scaled by the configured epsilon.
	Hybrid
)

// Parameter names looked up in a ParamSource.
const (
	ParamEpsilon   = "epsilon"
	ParamSteepness = "steepness"
	ParamMaxError  = "max_error"
	ParamMinError  = "min_error"
)

var variantNames = [...]string{
	Absolute:    "absolute",
	Relative:    "relative",
	Exponential: "exponential",
	Gaussian:    "gaussian",
	Hybrid:      "hybrid",
}

// Variants lists every variant in declaration order.
func Variants() []Variant {
	return []Variant{Absolute, Relative, Exponential, Gaussian, Hybrid}
}

// String returns the lower-case variant name, or "Variant(n)" when out of range.
func (v Variant) String() string {
	if v.valid() {
		return variantNames[v]
	}

	return fmt.Sprintf("Variant(%d)", int(v))
}

func (v Variant) valid() bool {
	return v >= Absolute && v <= Hybrid
}

// ParseVariant maps a case-insensitive name to its Variant.
// Unknown names return ErrUnknownVariant.
func ParseVariant(name string) (Variant, error) {
	var key = strings.ToLower(strings.TrimSpace(name))
	for i, s := range variantNames {
		if s == key {
			return Variant(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// RequiredParams returns the parameter names v reads at configuration time,
// in lookup order. It returns nil for an unknown variant.
func (v Variant) RequiredParams() []string {
	switch v {
	case Absolute, Relative:
		return []string{ParamEpsilon}
	case Hybrid:
		return []string{ParamSteepness, ParamEpsilon}
	case Exponential, Gaussian:
		return []string{ParamMaxError, ParamSteepness, ParamMinError}
	default:
		return nil
	}
}
