// SPDX-License-Identifier: MIT

package paramsrc

import (
	"fmt"

	"github.com/katalvlaran/lvprune/errbudget"
)

// Map is an in-memory ParamSource.
type Map map[string]float64

// GetRequiredDouble returns m[name] or an error wrapping errbudget.ErrMissingParam.
func (m Map) GetRequiredDouble(name string) (float64, error) {
	x, ok := m[name]
	if !ok {
		return 0, fmt.Errorf("paramsrc: %w: %q", errbudget.ErrMissingParam, name)
	}

	return x, nil
}
