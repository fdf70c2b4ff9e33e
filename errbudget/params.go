// SPDX-License-Identifier: MIT

package errbudget

import "math"

// Params holds the numeric settings of a criterion. Which fields matter
// depends on the Variant (see Variant.RequiredParams); the others are ignored.
// A Params value is copied into a Criterion and never mutated afterwards.
type Params struct {
	// Epsilon is the configured error tolerance (Absolute, Relative, Hybrid).
	Epsilon float64

	// Steepness controls how fast the hybrid curves decay (Exponential, Gaussian, Hybrid).
	Steepness float64

	// MaxError is the tolerance added at upper≈0 (Exponential, Gaussian).
	MaxError float64

	// MinError is the floor the curve relaxes toward (Exponential, Gaussian).
	MinError float64
}

// ParamSource is a named-parameter lookup. GetRequiredDouble must fail with
// an error wrapping ErrMissingParam when name is absent.
type ParamSource interface {
	GetRequiredDouble(name string) (float64, error)
}

// readParams pulls the fields v requires from src, in RequiredParams order.
func readParams(v Variant, src ParamSource) (Params, error) {
	var (
		p   Params
		x   float64
		err error
	)
	for _, name := range v.RequiredParams() {
		if x, err = src.GetRequiredDouble(name); err != nil {
			return Params{}, err
		}
		*p.field(name) = x
	}

	return p, nil
}

// field returns a pointer to the Params field named by a Param* constant.
func (p *Params) field(name string) *float64 {
	switch name {
	case ParamEpsilon:
		return &p.Epsilon
	case ParamSteepness:
		return &p.Steepness
	case ParamMaxError:
		return &p.MaxError
	default: // ParamMinError
		return &p.MinError
	}
}

// validate checks the fields v requires: finite and non-negative.
func (p Params) validate(v Variant) error {
	if !v.valid() {
		return ErrUnknownVariant
	}
	for _, name := range v.RequiredParams() {
		x := *p.field(name)
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			return paramErrorf(ErrInvalidParam, name)
		}
	}

	return nil
}

// initialBudget is the starting remaining budget for v. The hybrid curves
// already carry their own max/min terms, so their extra slack starts at zero.
func (p Params) initialBudget(v Variant) float64 {
	switch v {
	case Exponential, Gaussian:
		return 0
	default:
		return p.Epsilon
	}
}
