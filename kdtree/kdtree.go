// SPDX-License-Identifier: MIT

package kdtree

import (
	"math"
	"sort"
)

// DefaultLeafSize is the maximum number of points in a leaf.
const DefaultLeafSize = 16

const panicLeafSize = "kdtree: WithLeafSize: size must be >= 1"

// Option configures Build.
type Option func(*options)

type options struct {
	leafSize int
}

// WithLeafSize sets the maximum leaf population. Panics on size < 1.
func WithLeafSize(size int) Option {
	if size < 1 {
		panic(panicLeafSize)
	}

	return func(o *options) { o.leafSize = size }
}

// Tree is an immutable kd-tree.
type Tree struct {
	// Points is a permuted deep copy of the input; node ranges index into it.
	Points [][]float64

	// Index maps a position in Points back to the input position.
	Index []int

	root  *Node
	nodes []*Node
	dim   int
}

// Build constructs a kd-tree over points. The input is not modified.
//
// Errors: ErrEmptyPoints, ErrDimensionMismatch (ragged rows or zero
// dimension), ErrNaNInf (non-finite coordinate).
func Build(points [][]float64, opts ...Option) (*Tree, error) {
	var o = options{leafSize: DefaultLeafSize}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	dim, err := validatePoints(points)
	if err != nil {
		return nil, err
	}

	t := &Tree{
		Points: make([][]float64, len(points)),
		Index:  make([]int, len(points)),
		dim:    dim,
	}
	for i, p := range points {
		t.Points[i] = append([]float64(nil), p...)
		t.Index[i] = i
	}
	t.root = t.split(0, len(points), o.leafSize)

	return t, nil
}

// split builds the subtree over [begin, begin+count). IDs are assigned in
// preorder: the node first, then its left and right subtrees.
func (t *Tree) split(begin, count, leafSize int) *Node {
	n := &Node{
		ID:     len(t.nodes),
		Begin:  begin,
		Count:  count,
		Bounds: boundsOf(t.Points[begin:begin+count], t.dim),
	}
	t.nodes = append(t.nodes, n)
	if count <= leafSize {
		return n
	}

	d, _ := n.Bounds.Widest()
	sort.Sort(&axisOrder{pts: t.Points[begin : begin+count], idx: t.Index[begin : begin+count], dim: d})

	half := count / 2
	n.Left = t.split(begin, half, leafSize)
	n.Right = t.split(begin+half, count-half, leafSize)

	return n
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Nodes returns every node in preorder; Nodes()[i].ID == i.
func (t *Tree) Nodes() []*Node { return t.nodes }

// Len returns the number of points.
func (t *Tree) Len() int { return len(t.Points) }

// Dim returns the point dimension.
func (t *Tree) Dim() int { return t.dim }

// PostOrder calls fn on every node, children before parents, and stops at the
// first error.
func (t *Tree) PostOrder(fn func(*Node) error) error {
	return postOrder(t.root, fn)
}

func postOrder(n *Node, fn func(*Node) error) error {
	if !n.IsLeaf() {
		if err := postOrder(n.Left, fn); err != nil {
			return err
		}
		if err := postOrder(n.Right, fn); err != nil {
			return err
		}
	}

	return fn(n)
}

// axisOrder sorts a node range by one coordinate, carrying the index
// permutation along. Ties break on the input index for determinism.
type axisOrder struct {
	pts [][]float64
	idx []int
	dim int
}

func (a *axisOrder) Len() int { return len(a.pts) }
func (a *axisOrder) Less(i, j int) bool {
	xi, xj := a.pts[i][a.dim], a.pts[j][a.dim]
	if xi == xj {
		return a.idx[i] < a.idx[j]
	}

	return xi < xj
}
func (a *axisOrder) Swap(i, j int) {
	a.pts[i], a.pts[j] = a.pts[j], a.pts[i]
	a.idx[i], a.idx[j] = a.idx[j], a.idx[i]
}

// validatePoints checks shape and finiteness and returns the dimension.
func validatePoints(points [][]float64) (int, error) {
	if len(points) == 0 {
		return 0, ErrEmptyPoints
	}
	dim := len(points[0])
	if dim == 0 {
		return 0, ErrDimensionMismatch
	}
	for _, p := range points {
		if len(p) != dim {
			return 0, ErrDimensionMismatch
		}
		for _, x := range p {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return 0, ErrNaNInf
			}
		}
	}

	return dim, nil
}
