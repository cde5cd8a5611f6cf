package mastery

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetentionAtZero(t *testing.T) {
	assert.InDelta(t, 1.0, Retention(0), epsilon)
}

func TestRetentionNegativeDaysTreatedAsZero(t *testing.T) {
	assert.InDelta(t, 1.0, Retention(-3), epsilon)
}

func TestRetentionNeverBelowFloor(t *testing.T) {
	for days := 0.0; days < 400; days += 3.5 {
		assert.GreaterOrEqual(t, Retention(days), 0.15, "retention below floor at %.1f days", days)
	}
	assert.InDelta(t, 0.15, Retention(365), epsilon)
}

func TestRetentionStrictlyDecreasingUntilFloor(t *testing.T) {
	prev := Retention(0)
	for days := 0.5; ; days += 0.5 {
		got := Retention(days)
		if got <= 0.15+epsilon {
			break
		}
		assert.Less(t, got, prev, "retention must strictly decrease at %.1f days", days)
		prev = got
	}
}

func TestRetentionMatchesCurve(t *testing.T) {
	// Above the floor the curve is exactly exp(-0.08 * days)
	assert.InDelta(t, math.Exp(-0.08*10), Retention(10), epsilon)
}
