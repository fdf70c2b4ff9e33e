// SPDX-License-Identifier: MIT

// Package lvprune is a small toolkit for error-bounded dual-tree
// approximation: pruning criteria, the trees they run over, and a reference
// kernel-sum engine that exercises them end to end.
//
// 🚀 What is lvprune?
//
//	A pure-Go library (plus one CLI) that brings together:
//		• Pruning criteria: five error-budget tolerance shapes with per-node budgets
//		• Parameter sources: in-memory maps, YAML files and environment variables
//		• Space partitioning: kd-trees with bounding boxes and box-to-box distances
//		• Kernel sums: dual-tree Gaussian density estimation with guaranteed bounds
//
// ✨ Why choose lvprune?
//
//   - Explicit contracts – invariant breaches come back as typed errors, never panics
//   - Deterministic – seeded generators, stable tree layout, reproducible runs
//   - Observable – zap logging on every decision when you ask for it
//
// Packages:
//
//	errbudget/ — Variant, Criterion, Node: the prune decision and its budget
//	paramsrc/  — ParamSource implementations (Map, Chain, koanf-backed Koanf)
//	kdtree/    — kd-tree construction, Box geometry, point generators
//	kde/       — dual-tree kernel density sums driven by an errbudget.Criterion
//	cmd/dtkde/ — CLI: run the engine on generated data and compare with the exact sum
//
// Quick start:
//
//	crit, _ := errbudget.NewCriterion(errbudget.Relative, errbudget.Params{Epsilon: 0.05})
//	qt, _ := kdtree.Build(queries)
//	rt, _ := kdtree.Build(refs)
//	res, _ := kde.DualTree(ctx, qt, rt, crit, kde.DefaultOptions())
//	// res.Density[i] is within res.ErrorBound[i] of the exact normalized sum.
//
//	go get github.com/katalvlaran/lvprune
package lvprune
