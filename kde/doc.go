// SPDX-License-Identifier: MIT

// Package kde computes normalized Gaussian kernel sums with a dual-tree
// traversal pruned by errbudget criteria.
//
// For queries q and references r₁..r_N with bandwidth h:
//
//	f(q) = (1/N) · Σⱼ exp(−‖q − rⱼ‖² / (2h²))      ∈ [0, 1]
//
// Traversal (per node pair Q, R):
//  1. Bound R's contribution to any q ∈ Q from the box distances:
//     dl = |R|/N · K(maxDist), du = |R|/N · K(minDist).
//  2. Ask Q's errbudget.Node whether to prune with referenceCount = |R|.
//     The bounds it sees are on Q's density: lower = settled(Q) + dl, where
//     settled(Q) bounds from below what Q's points already received from
//     pruned and exact pairs, and upper = lower + (du − dl).
//  3. Prune ⇒ credit the midpoint ½·(dl+du) to every q ∈ Q (error ≤ ½·(du−dl)).
//     Otherwise recurse into children (closer reference child first, so the
//     large contributions are settled before the small ones are judged) and
//     evaluate leaf pairs exactly.
//
// Each query node's count is seeded with N, the reference set size: over a
// node's lifetime the pruned reference nodes are disjoint, so the count can
// never underflow.
//
// Result.ErrorBound[i] is the sum of the half-widths pruned on behalf of
// query i, a hard bound on |Density[i] − exact[i]|.
//
// Naive gives the exact O(|Q|·N) baseline.
package kde
