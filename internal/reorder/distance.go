package reorder

import (
	"math"

	"swaplint/internal/args"
)

// DistanceFunc scores how plausible it is for an actual argument to occupy
// a formal parameter's slot. Lower is more plausible. Implementations must
// be pure: same pair in, same cost out, no side effects. Costs are
// non-negative; Forbidden() pins an actual out of a slot entirely.
type DistanceFunc func(pair args.Pair) float64

// Forbidden returns the cost that excludes a pairing from every candidate
// permutation.
func Forbidden() float64 {
	return math.Inf(1)
}

// IsForbidden reports whether cost marks an excluded pairing.
func IsForbidden(cost float64) bool {
	return math.IsInf(cost, 1)
}
