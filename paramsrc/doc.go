// SPDX-License-Identifier: MIT

// Package paramsrc provides named-parameter sources for errbudget.Configure.
//
// Two implementations:
//   - Map   — an in-memory map, for tests and programmatic setup.
//   - Koanf — a koanf tree loaded from YAML (bytes or file) with an optional
//     environment overlay. Keys are addressed relative to a prefix, so one
//     file can hold several sections:
//
//	criterion:
//	  variant: hybrid
//	  epsilon: 0.05
//	  steepness: 2
//
//	src, err := paramsrc.LoadFile("run.yaml", paramsrc.WithEnv("LVPRUNE_"))
//	crit, err := errbudget.Configure(errbudget.Hybrid, src.Sub("criterion"))
//
// Environment overrides (highest precedence):
//
//	LVPRUNE_CRITERION_EPSILON=0.01  →  criterion.epsilon
//	LVPRUNE_CRITERION_MAX_ERROR=0.2 →  criterion.max_error
//
// Missing keys fail with an error wrapping errbudget.ErrMissingParam; values
// that are not numbers fail with errbudget.ErrInvalidParam.
package paramsrc
