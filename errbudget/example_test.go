// SPDX-License-Identifier: MIT

package errbudget_test

import (
	"fmt"

	"github.com/katalvlaran/lvprune/errbudget"
)

// ExampleNode_CanPrune walks one query node through two decisions.
//
// Scenario:
//
//	Relative criterion, ε = 0.4, 8 live queries.
//	Reference node with 4 points bounded in [0.8, 1.0]:
//	  u       = ½·(1.0 − 0.8)      = 0.1
//	  allowed = 0.8 · 0.4 · 4 / 8  = 0.16  ⇒ prune
//	The second, looser reference node is rejected.
func ExampleNode_CanPrune() {
	crit, err := errbudget.NewCriterion(errbudget.Relative, errbudget.Params{Epsilon: 0.4})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	var n errbudget.Node
	_ = n.Configure(crit)
	n.InitLeaf(8)

	ok, _ := n.CanPrune(1.0, 0.8, 4)
	fmt.Printf("prune=%v count=%d budget=%.2f\n", ok, n.QueryCount(), n.Budget())

	ok, _ = n.CanPrune(2.0, 0.1, 4)
	fmt.Printf("prune=%v count=%d budget=%.2f\n", ok, n.QueryCount(), n.Budget())
	// Output:
	// prune=true count=4 budget=0.30
	// prune=false count=4 budget=0.30
}

// ExampleTolerance prints each variant's tolerance for the same bounds.
func ExampleTolerance() {
	p := errbudget.Params{Epsilon: 0.1, Steepness: 1, MaxError: 0.2, MinError: 0.01}
	for _, v := range errbudget.Variants() {
		fmt.Printf("%-11s %.4f\n", v, errbudget.Tolerance(v, p, 0.1, 2, 1))
	}
	// Output:
	// absolute    0.1000
	// relative    0.1000
	// exponential 0.1371
	// gaussian    0.1137
	// hybrid      0.0767
}
