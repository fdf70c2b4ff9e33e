// SPDX-License-Identifier: MIT

package paramsrc

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvprune/errbudget"
)

// Chain consults its sources in order; the first one that has the name wins.
// A source error other than ErrMissingParam stops the lookup.
type Chain []errbudget.ParamSource

// GetRequiredDouble implements errbudget.ParamSource.
func (c Chain) GetRequiredDouble(name string) (float64, error) {
	for _, src := range c {
		if src == nil {
			continue
		}
		x, err := src.GetRequiredDouble(name)
		if err == nil {
			return x, nil
		}
		if !errors.Is(err, errbudget.ErrMissingParam) {
			return 0, err
		}
	}

	return 0, fmt.Errorf("paramsrc: %w: %q", errbudget.ErrMissingParam, name)
}
