// SPDX-License-Identifier: MIT

// Package errbudget implements error-budget pruning criteria for dual-tree
// approximation algorithms (kernel sums, N-body, all-nearest-neighbors).
//
// 🚀 What does it decide?
//
//	A dual-tree traversal compares a query node Q against a reference node R
//	and computes cheap bounds [lower, upper] on R's contribution to Q. The
//	Node attached to Q answers one question: are those bounds tight enough,
//	given what Q has already spent, to skip exact work for (Q, R)? If yes,
//	the node debits its budget and the engine uses the bound estimate.
//
// ✨ Tolerance shapes (Variant):
//   - Absolute    — budget / lower
//   - Relative    — budget
//   - Exponential — max_error·e^(−s·upper) + min_error + budget
//   - Gaussian    — max_error·e^(−s·upper²) + min_error + budget
//   - Hybrid      — (1 − e^(−s·lower))·ε + e^(−s·upper)·ε / lower
//
// ⚙️ Usage:
//
//	crit, err := errbudget.Configure(errbudget.Relative, src) // src: ParamSource
//	if err != nil {
//		// errors.Is(err, errbudget.ErrMissingParam)
//	}
//
//	var n errbudget.Node
//	_ = n.Configure(crit)
//	n.InitLeaf(count)
//
//	prune, err := n.CanPrune(upper, lower, refCount)
//	// errors.Is(err, errbudget.ErrInvariant) ⇒ the engine broke the contract
//
// Decision rule (per call):
//
//	u       = ½·(upper − lower)
//	allowed = lower · tolerance · refCount / queryCount
//	prune  ⇔ u < allowed;  then budget −= u, queryCount −= refCount
//
// Budget scope:
//
//	Every Node spends its own budget. Nothing is split from parent to child,
//	and Hybrid reads the configured ε rather than the remaining budget, so the
//	"total error ≤ ε" bound holds per node, not across the whole traversal.
//
// Concurrency:
//
//	A Criterion is immutable and may be shared by any number of goroutines.
//	A Node has a single writer: the goroutine currently processing its tree
//	node. There is no locking.
package errbudget
