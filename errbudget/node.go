// SPDX-License-Identifier: MIT

package errbudget

import (
	"math"

	"go.uber.org/zap"
)

// Node is the per-tree-node error budget. The zero value is unusable until
// Configure is called; the tree builder then calls InitLeaf or InitInternal.
//
// A Node has exactly one writer at a time. It holds no locks.
type Node struct {
	crit       *Criterion
	queryCount int
	budget     float64
}

// NewNode returns a configured node with the given query count.
// It is Configure followed by InitLeaf, for engines that build stats lazily.
func NewNode(c *Criterion, count int) (*Node, error) {
	var n Node
	if err := n.Configure(c); err != nil {
		return nil, err
	}
	n.InitLeaf(count)

	return &n, nil
}

// Configure attaches c and resets the remaining budget to c.InitialBudget().
// The query count is left alone.
func (n *Node) Configure(c *Criterion) error {
	if c == nil {
		return ErrNilCriterion
	}
	n.crit = c
	n.budget = c.InitialBudget()

	return nil
}

// InitLeaf sets the remaining query count to the leaf's range size.
func (n *Node) InitLeaf(count int) {
	n.queryCount = count
}

// InitInternal sets the remaining query count to the node's own range size.
// The children are accepted for symmetry with other per-node statistics and
// are not read: the count is never derived from left+right.
func (n *Node) InitInternal(count int, left, right *Node) {
	n.queryCount = count
}

// QueryCount returns the number of query points still live under the node.
func (n *Node) QueryCount() int { return n.queryCount }

// SetQueryCount overwrites the remaining query count. Engines use it to seed
// the count with something other than the range size (e.g. the reference
// set size). A negative count is rejected and leaves the node unchanged.
func (n *Node) SetQueryCount(count int) error {
	if count < 0 {
		return violation("SetQueryCount", NegativeQueryCount, float64(count))
	}
	n.queryCount = count

	return nil
}

// Budget returns the remaining error budget.
func (n *Node) Budget() float64 { return n.budget }

// Criterion returns the attached criterion (nil before Configure).
func (n *Node) Criterion() *Criterion { return n.crit }

// CanPrune decides whether the bounds [lower, upper] on a reference node's
// contribution are tight enough to skip exact work for referenceCount points.
//
// Algorithm:
//  1. u = ½·(upper − lower), the error incurred by using the bound midpoint.
//  2. tol = Tolerance(variant, params, budget, upper, lower).
//  3. allowed = lower · tol · referenceCount / queryCount.
//  4. u < allowed ⇒ prune: budget −= u, queryCount −= referenceCount.
//     Otherwise the node is not touched.
//
// Decisions are greedy and order-dependent: budget and queryCount only
// shrink, so later calls face an equal or tighter allowance.
//
// Errors (all *InvariantError, matching ErrInvariant); the node is unchanged:
//   - NaNBounds, InvertedBounds, NegativeTolerance (assertion mode only).
//   - ZeroQueryCount when the node's count is already exhausted.
//   - QueryCountUnderflow when referenceCount exceeds the remaining count.
//   - BudgetOverdraw when the prune would overdraw (strict mode only).
//
// ErrNilCriterion is returned when the node was never configured.
//
// A NaN allowed error (e.g. Absolute with lower == 0 and no budget) never prunes.
//
// Complexity: O(1), no allocations when Debug logging is disabled.
func (n *Node) CanPrune(upper, lower float64, referenceCount int) (bool, error) {
	const op = "CanPrune"
	if n.crit == nil {
		return false, ErrNilCriterion
	}
	var (
		o   = &n.crit.opts
		u   float64
		tol float64
	)

	if o.assertions && (math.IsNaN(upper) || math.IsNaN(lower)) {
		return false, n.report(violation(op, NaNBounds, math.NaN()))
	}

	u = 0.5 * (upper - lower)
	if o.assertions && u < 0 {
		return false, n.report(violation(op, InvertedBounds, u))
	}

	tol = n.crit.Tolerance(n.budget, upper, lower)
	if o.assertions && tol < 0 {
		return false, n.report(violation(op, NegativeTolerance, tol))
	}

	if n.queryCount == 0 {
		return false, n.report(violation(op, ZeroQueryCount, 0))
	}
	allowed := lower * tol * float64(referenceCount) / float64(n.queryCount)

	if !(u < allowed) {
		n.trace(false, upper, lower, referenceCount, u, allowed)
		return false, nil
	}

	// Post-conditions are checked before the debit so a violation never
	// leaves the node half-updated.
	if rest := n.queryCount - referenceCount; rest < 0 {
		return false, n.report(violation(op, QueryCountUnderflow, float64(rest)))
	}
	if o.strict && n.budget-u < 0 {
		return false, n.report(violation(op, BudgetOverdraw, n.budget-u))
	}

	n.budget -= u
	n.queryCount -= referenceCount
	n.trace(true, upper, lower, referenceCount, u, allowed)

	return true, nil
}

// trace logs one decision at Debug.
func (n *Node) trace(prune bool, upper, lower float64, refCount int, u, allowed float64) {
	if ce := n.crit.opts.log.Check(zap.DebugLevel, "errbudget: prune decision"); ce != nil {
		ce.Write(
			zap.Bool("prune", prune),
			zap.Float64("upper", upper),
			zap.Float64("lower", lower),
			zap.Int("reference_count", refCount),
			zap.Float64("uncertainty", u),
			zap.Float64("allowed", allowed),
			zap.Float64("budget", n.budget),
			zap.Int("query_count", n.queryCount),
		)
	}
}

// report logs err at Warn and returns it.
func (n *Node) report(err error) error {
	n.crit.opts.log.Warn("errbudget: invariant violation",
		zap.Error(err),
		zap.Stringer("variant", n.crit.variant),
		zap.Int("query_count", n.queryCount),
		zap.Float64("budget", n.budget),
	)

	return err
}
