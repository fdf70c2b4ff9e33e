// SPDX-License-Identifier: MIT

package kde_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lvprune/errbudget"
	"github.com/katalvlaran/lvprune/kde"
	"github.com/katalvlaran/lvprune/kdtree"
)

// ExampleDualTree prunes the whole computation at the root: with a wide
// kernel every reference contributes almost the same amount to every query.
func ExampleDualTree() {
	pts := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	tree, _ := kdtree.Build(pts, kdtree.WithLeafSize(1))
	crit, _ := errbudget.NewCriterion(errbudget.Relative, errbudget.Params{Epsilon: 0.5})

	res, err := kde.DualTree(context.Background(), tree, tree, crit, kde.Options{Bandwidth: 5})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	exact, _ := kde.Naive(pts, pts, 5)
	fmt.Printf("pairs=%d prunes=%d\n", res.Stats.Pairs, res.Stats.Prunes)
	fmt.Printf("estimate=%.4f exact=%.4f bound=%.4f\n", res.Density[0], exact[0], res.ErrorBound[0])
	// Output:
	// pairs=1 prunes=1
	// estimate=0.9804 exact=0.9803 bound=0.0196
}
