// Package ordered provides small generic comparison helpers shared by
// retention's signature arithmetic and admission's rate-cell clamping, so
// neither package hand-rolls its own min/max over an ordered scalar.
package ordered

import "golang.org/x/exp/constraints"

// Min returns the lesser of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}
