// SPDX-License-Identifier: MIT

// Package kdtree is a compact kd-tree for dual-tree algorithms.
//
// It stores a permuted copy of the input points so every node owns a
// contiguous range [Begin, Begin+Count), and records an axis-aligned bounding
// box per node. Nodes are numbered in preorder (Node.ID), which lets engines
// keep per-node statistics in a flat slice indexed by ID.
//
// Construction:
//   - Split on the widest dimension at the median (by count), so the tree is
//     balanced even for duplicated coordinates.
//   - Stop when Count ≤ leaf size (WithLeafSize, default DefaultLeafSize).
//
// Geometry:
//   - Box.MinDist2 / Box.MaxDist2 bracket the squared distance between any
//     point of one box and any point of another.
//
// Complexity: Build is O(n·log²n) time (sort per level), O(n) memory.
//
// Also included: deterministic point generators (Uniform, Clustered) with
// the seed policy seed==0 ⇒ DefaultSeed.
package kdtree
