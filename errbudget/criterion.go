// SPDX-License-Identifier: MIT

package errbudget

import (
	"fmt"

	"go.uber.org/zap"
)

// Criterion is a configured tolerance function: a Variant, its Params and
// the ambient options. It is immutable once built and is shared by every
// Node of a tree.
type Criterion struct {
	variant Variant
	params  Params
	opts    options
}

// NewCriterion validates p for v and returns the criterion.
//
// Errors:
//   - ErrUnknownVariant when v is outside the closed set.
//   - ErrInvalidParam (wrapped with the name) when a required field is NaN, ±Inf or negative.
func NewCriterion(v Variant, p Params, opts ...Option) (*Criterion, error) {
	if err := p.validate(v); err != nil {
		return nil, err
	}
	c := &Criterion{variant: v, params: p, opts: gatherOptions(opts)}
	c.opts.log.Debug("errbudget: criterion configured",
		zap.Stringer("variant", v),
		zap.Float64("epsilon", p.Epsilon),
		zap.Float64("steepness", p.Steepness),
		zap.Float64("max_error", p.MaxError),
		zap.Float64("min_error", p.MinError),
	)

	return c, nil
}

// Configure reads the parameters v requires from src and builds the
// criterion. It is the setup step of a run: any error here must abort before
// traversal begins.
//
// Errors:
//   - ErrUnknownVariant for an unknown v.
//   - ErrMissingParam (from src) when a required name is absent.
//   - ErrInvalidParam when a value is NaN, ±Inf or negative.
func Configure(v Variant, src ParamSource, opts ...Option) (*Criterion, error) {
	if !v.valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, v)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil parameter source", ErrConfiguration)
	}
	p, err := readParams(v, src)
	if err != nil {
		return nil, fmt.Errorf("errbudget: configure %s: %w", v, err)
	}

	return NewCriterion(v, p, opts...)
}

// Variant reports the tolerance shape.
func (c *Criterion) Variant() Variant { return c.variant }

// Params returns a copy of the configured parameters.
func (c *Criterion) Params() Params { return c.params }

// InitialBudget is the remaining budget a freshly configured Node starts with:
// Epsilon for Absolute, Relative and Hybrid, zero for Exponential and Gaussian.
func (c *Criterion) InitialBudget() float64 { return c.params.initialBudget(c.variant) }

// Tolerance evaluates the criterion's tolerance function.
func (c *Criterion) Tolerance(budget, upper, lower float64) float64 {
	return Tolerance(c.variant, c.params, budget, upper, lower)
}
