// SPDX-License-Identifier: MIT
// Package errbudget: sentinel errors and the typed invariant error.
//
// Error policy:
//   - Configuration problems surface as errors wrapping ErrConfiguration and
//     abort before any traversal work starts.
//   - Contract breaches during traversal surface as *InvariantError, which
//     unwraps to ErrInvariant. CanPrune returns them; the engine decides.
//   - Callers match with errors.Is / errors.As, never with strings.
//   - Panics are reserved for WithX option constructors (programmer error).

package errbudget

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is the root of every configuration failure.
	ErrConfiguration = errors.New("errbudget: configuration error")

	// ErrMissingParam indicates a required named parameter was absent from
	// the ParamSource. Wrapped with the parameter name at the call site.
	ErrMissingParam = fmt.Errorf("%w: missing required parameter", ErrConfiguration)

	// ErrInvalidParam indicates a parameter is present but NaN, ±Inf or negative.
	ErrInvalidParam = fmt.Errorf("%w: invalid parameter value", ErrConfiguration)

	// ErrUnknownVariant indicates a Variant outside the closed set, or an
	// unrecognized variant name in ParseVariant.
	ErrUnknownVariant = fmt.Errorf("%w: unknown criterion variant", ErrConfiguration)

	// ErrNilCriterion indicates Node.Configure was called with a nil criterion.
	ErrNilCriterion = fmt.Errorf("%w: nil criterion", ErrConfiguration)

	// ErrInvariant is the root of every invariant violation reported by a Node.
	ErrInvariant = errors.New("errbudget: invariant violation")
)

// InvariantKind names the check that failed.
type InvariantKind int

const (
	// InvertedBounds — upper < lower, so the local uncertainty is negative.
	InvertedBounds InvariantKind = iota

	// NaNBounds — one of the bounds is NaN.
	NaNBounds

	// NegativeTolerance — the tolerance function returned a value < 0.
	NegativeTolerance

	// ZeroQueryCount — CanPrune was called on a node whose count is exhausted.
	ZeroQueryCount

	// QueryCountUnderflow — referenceCount exceeds the remaining query count.
	QueryCountUnderflow

	// NegativeQueryCount — SetQueryCount received a negative value.
	NegativeQueryCount

	// BudgetOverdraw — a prune would drive the budget below zero (strict mode only).
	BudgetOverdraw
)

// String returns a stable, lower-case name for the kind.
func (k InvariantKind) String() string {
	switch k {
	case InvertedBounds:
		return "inverted bounds"
	case NaNBounds:
		return "NaN bounds"
	case NegativeTolerance:
		return "negative tolerance"
	case ZeroQueryCount:
		return "zero query count"
	case QueryCountUnderflow:
		return "query count underflow"
	case NegativeQueryCount:
		return "negative query count"
	case BudgetOverdraw:
		return "budget overdraw"
	default:
		return "unknown invariant"
	}
}

// InvariantError reports a contract breach by the traversal engine or a
// configuration that produced nonsensical numbers.
type InvariantError struct {
	Kind  InvariantKind
	Op    string  // operation that detected the breach, e.g. "CanPrune"
	Value float64 // offending value (uncertainty, tolerance, resulting count, ...)
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("errbudget: %s: %s (value=%g)", e.Op, e.Kind, e.Value)
}

// Unwrap lets errors.Is(err, ErrInvariant) match every InvariantError.
func (e *InvariantError) Unwrap() error { return ErrInvariant }

// violation builds an *InvariantError for op.
func violation(op string, kind InvariantKind, value float64) error {
	return &InvariantError{Kind: kind, Op: op, Value: value}
}

// paramErrorf attaches the parameter name to a configuration sentinel.
func paramErrorf(sentinel error, name string) error {
	return fmt.Errorf("%w: %q", sentinel, name)
}
