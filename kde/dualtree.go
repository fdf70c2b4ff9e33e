// SPDX-License-Identifier: MIT

package kde

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/lvprune/errbudget"
	"github.com/katalvlaran/lvprune/kdtree"
)

// ctxCheckMask sets how often the traversal polls the context (every 4096 pairs).
const ctxCheckMask = 4095

// engine holds the per-run traversal state. Per-query-node slices are
// indexed by kdtree.Node.ID.
type engine struct {
	ctx context.Context
	qt  *kdtree.Tree
	rt  *kdtree.Tree

	inv2h2 float64 // 1 / (2h²)
	norm   float64 // 1 / N

	stats   []errbudget.Node
	pending []float64 // midpoint credit waiting to be pushed to the points
	settled []float64 // lower bound on the density each node's points already hold
	slack   []float64 // pruned half-widths waiting to be pushed to the points

	density  []float64 // tree order
	errBound []float64 // tree order

	steps int
	st    Stats
}

// DualTree estimates f(q) for every point of qt against rt, pruning with crit.
//
// Errors:
//   - ErrNilTree, ErrNilCriterion, ErrBandwidth, ErrDimensionMismatch on bad input.
//   - An error wrapping errbudget.ErrInvariant if a node reports a violation
//     (e.g. a criterion whose tolerance turns negative).
//   - ctx.Err() if the context is done; polled every 4096 node pairs.
func DualTree(ctx context.Context, qt, rt *kdtree.Tree, crit *errbudget.Criterion, opts Options) (*Result, error) {
	if err := validate(qt, rt, crit, opts.Bandwidth); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nq := len(qt.Nodes())
	e := &engine{
		ctx:      ctx,
		qt:       qt,
		rt:       rt,
		inv2h2:   1 / (2 * opts.Bandwidth * opts.Bandwidth),
		norm:     1 / float64(rt.Len()),
		stats:    make([]errbudget.Node, nq),
		pending:  make([]float64, nq),
		settled:  make([]float64, nq),
		slack:    make([]float64, nq),
		density:  make([]float64, qt.Len()),
		errBound: make([]float64, qt.Len()),
	}
	if err := e.initStats(crit); err != nil {
		return nil, err
	}
	if err := e.visit(qt.Root(), rt.Root()); err != nil {
		return nil, err
	}
	e.pushDown(qt.Root(), 0, 0)

	res := &Result{
		Density:    make([]float64, qt.Len()),
		ErrorBound: make([]float64, qt.Len()),
		Stats:      e.st,
	}
	for j, orig := range qt.Index {
		res.Density[orig] = e.density[j]
		res.ErrorBound[orig] = e.errBound[j]
	}

	if opts.Logger != nil {
		opts.Logger.Debug("kde: dual-tree run complete",
			zap.Stringer("variant", crit.Variant()),
			zap.Int("queries", qt.Len()),
			zap.Int("references", rt.Len()),
			zap.Int("pairs", e.st.Pairs),
			zap.Int("prunes", e.st.Prunes),
			zap.Int("base_cases", e.st.BaseCases),
			zap.Int("kernels", e.st.Kernels),
			zap.Float64("spent", e.st.Spent),
		)
	}

	return res, nil
}

// initStats configures one errbudget.Node per query node, children first,
// then seeds every count with the reference set size.
func (e *engine) initStats(crit *errbudget.Criterion) error {
	var refs = e.rt.Len()

	return e.qt.PostOrder(func(n *kdtree.Node) error {
		s := &e.stats[n.ID]
		if err := s.Configure(crit); err != nil {
			return err
		}
		if n.IsLeaf() {
			s.InitLeaf(n.Count)
		} else {
			s.InitInternal(n.Count, &e.stats[n.Left.ID], &e.stats[n.Right.ID])
		}

		return s.SetQueryCount(refs)
	})
}

func (e *engine) kernel(d2 float64) float64 { return math.Exp(-d2 * e.inv2h2) }

// tick polls the context every ctxCheckMask+1 pairs.
func (e *engine) tick() error {
	e.steps++
	if e.steps&ctxCheckMask != 0 {
		return nil
	}

	return e.ctx.Err()
}

// visit handles one (query node, reference node) pair.
//
// CanPrune sees bounds on q's density rather than on the pair alone:
//
//	lower = settled[q] + dl,  upper = lower + (du − dl)
//
// where settled[q] is a lower bound on what every point of q has already
// received. ½·(upper − lower) is still the pair's half-width, and lower·ε
// is a tolerance relative to q's density.
func (e *engine) visit(q, r *kdtree.Node) error {
	if err := e.tick(); err != nil {
		return err
	}
	e.st.Pairs++

	w := float64(r.Count) * e.norm
	du := w * e.kernel(q.Bounds.MinDist2(r.Bounds))
	dl := w * e.kernel(q.Bounds.MaxDist2(r.Bounds))
	lower := e.settled[q.ID] + dl

	prune, err := e.stats[q.ID].CanPrune(lower+(du-dl), lower, r.Count)
	if err != nil {
		return fmt.Errorf("kde: pair (q=%d, r=%d): %w", q.ID, r.ID, err)
	}
	if prune {
		half := 0.5 * (du - dl)
		e.pending[q.ID] += 0.5 * (du + dl)
		e.slack[q.ID] += half
		e.settled[q.ID] = lower
		e.st.Prunes++
		e.st.Spent += half
		return nil
	}

	switch {
	case q.IsLeaf() && r.IsLeaf():
		e.settled[q.ID] += e.base(q, r)
		return nil
	case q.IsLeaf():
		return e.visitRefChildren(q, r)
	case r.IsLeaf():
		if err = e.visit(e.descend(q, q.Left), r); err != nil {
			return err
		}
		if err = e.visit(e.descend(q, q.Right), r); err != nil {
			return err
		}
	default:
		if err = e.visitRefChildren(e.descend(q, q.Left), r); err != nil {
			return err
		}
		if err = e.visitRefChildren(e.descend(q, q.Right), r); err != nil {
			return err
		}
	}
	e.refine(q)

	return nil
}

// visitRefChildren visits r's children, closer one first, so the larger
// contributions are settled before the far ones are judged against them.
func (e *engine) visitRefChildren(q, r *kdtree.Node) error {
	near, far := r.Left, r.Right
	if q.Bounds.MinDist2(far.Bounds) < q.Bounds.MinDist2(near.Bounds) {
		near, far = far, near
	}
	if err := e.visit(q, near); err != nil {
		return err
	}

	return e.visit(q, far)
}

// descend hands parent's settled bound to child. Settled sums only grow, so
// a bound that held for the parent's points still holds for the child's.
func (e *engine) descend(parent, child *kdtree.Node) *kdtree.Node {
	e.settled[child.ID] = math.Max(e.settled[child.ID], e.settled[parent.ID])

	return child
}

// refine lifts q's settled bound to the weaker of its children's.
func (e *engine) refine(q *kdtree.Node) {
	e.settled[q.ID] = math.Max(e.settled[q.ID], math.Min(e.settled[q.Left.ID], e.settled[q.Right.ID]))
}

// base evaluates a leaf pair exactly and returns the smallest contribution
// any point of q received.
func (e *engine) base(q, r *kdtree.Node) float64 {
	e.st.BaseCases++
	var (
		i, j   int
		minSum = math.Inf(1)
	)
	for i = q.Begin; i < q.Begin+q.Count; i++ {
		var sum float64
		for j = r.Begin; j < r.Begin+r.Count; j++ {
			sum += e.kernel(kdtree.Dist2(e.qt.Points[i], e.rt.Points[j]))
		}
		e.density[i] += sum * e.norm
		minSum = math.Min(minSum, sum*e.norm)
	}
	e.st.Kernels += q.Count * r.Count

	return minSum
}

// pushDown distributes pruned credit and slack from every node to its points.
func (e *engine) pushDown(n *kdtree.Node, credit, slack float64) {
	credit += e.pending[n.ID]
	slack += e.slack[n.ID]
	if n.IsLeaf() {
		for i := n.Begin; i < n.Begin+n.Count; i++ {
			e.density[i] += credit
			e.errBound[i] += slack
		}
		return
	}
	e.pushDown(n.Left, credit, slack)
	e.pushDown(n.Right, credit, slack)
}

func validate(qt, rt *kdtree.Tree, crit *errbudget.Criterion, h float64) error {
	if qt == nil || rt == nil {
		return ErrNilTree
	}
	if crit == nil {
		return ErrNilCriterion
	}
	if !(h > 0) || math.IsInf(h, 0) {
		return ErrBandwidth
	}
	if qt.Dim() != rt.Dim() {
		return ErrDimensionMismatch
	}

	return nil
}
