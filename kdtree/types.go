// SPDX-License-Identifier: MIT

package kdtree

import "errors"

var (
	// ErrEmptyPoints is returned when Build receives no points.
	ErrEmptyPoints = errors.New("kdtree: no points")

	// ErrDimensionMismatch indicates rows of different length, a zero
	// dimension, or an invalid generator size.
	ErrDimensionMismatch = errors.New("kdtree: dimension mismatch")

	// ErrNaNInf indicates a coordinate that is NaN or ±Inf.
	ErrNaNInf = errors.New("kdtree: NaN or Inf coordinate")
)

// Box is an axis-aligned bounding box. Lo[d] ≤ Hi[d] for every dimension.
type Box struct {
	Lo, Hi []float64
}

// Node is one kd-tree node covering Tree.Points[Begin : Begin+Count].
type Node struct {
	ID          int // preorder index; Tree.Nodes()[ID] == node
	Begin       int
	Count       int
	Bounds      Box
	Left, Right *Node
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return n.Left == nil }
