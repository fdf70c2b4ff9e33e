// SPDX-License-Identifier: MIT

// Package errbudget: functional options for Criterion.
//
// Defaults:
//   - logger:     zap.NewNop() (libraries stay silent unless asked)
//   - assertions: on (debug-class invariant checks enabled)
//   - strict:     off (a prune may overdraw the budget, as the criterion allows)
//
// WithX constructors panic only on nonsensical values (programmer error).

package errbudget

import "go.uber.org/zap"

// Defaults (single source of truth).
const (
	// DefaultAssertions keeps the debug-class checks enabled.
	DefaultAssertions = true

	// DefaultStrictBudget lets the budget go below zero after a prune.
	DefaultStrictBudget = false
)

const panicNilLogger = "errbudget: WithLogger: logger must be non-nil"

// Option configures a Criterion.
type Option func(*options)

type options struct {
	log        *zap.Logger
	assertions bool
	strict     bool
}

func defaultOptions() options {
	return options{
		log:        zap.NewNop(),
		assertions: DefaultAssertions,
		strict:     DefaultStrictBudget,
	}
}

func gatherOptions(opts []Option) options {
	var o = defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithLogger attaches a zap logger. Prune decisions are logged at Debug and
// invariant violations at Warn. Panics on nil.
func WithLogger(log *zap.Logger) Option {
	if log == nil {
		panic(panicNilLogger)
	}

	return func(o *options) { o.log = log }
}

// WithAssertions toggles the debug-class checks: NaN bounds, inverted bounds
// and negative tolerance. The zero-divisor and count-underflow checks always
// run because they guard the node's own state.
func WithAssertions(enabled bool) Option {
	return func(o *options) { o.assertions = enabled }
}

// WithStrictBudget makes a prune that would leave the budget below zero fail
// with BudgetOverdraw. The node is left unchanged in that case.
func WithStrictBudget() Option {
	return func(o *options) { o.strict = true }
}
