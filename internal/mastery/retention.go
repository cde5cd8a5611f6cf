package mastery

import "math"

// Forgetting curve constants
const (
	retentionLambda = 0.08
	retentionFloor  = 0.15
)

// Retention estimates the probability a learner can still retrieve an item
// after the given number of days without exposure:
//
//	retention = max(FLOOR, exp(-lambda * days))
//
// Retention never drops below the floor: a learner keeps at least residual
// recognition of anything once learned.
func Retention(days float64) float64 {
	if days < 0 {
		days = 0
	}
	return math.Max(retentionFloor, math.Exp(-retentionLambda*days))
}
