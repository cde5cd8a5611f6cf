package mastery

import "math"

// Curve selects how quickly accumulated evidence saturates into mastery
type Curve int

const (
	// CurveDefault is the standard curve for content words
	CurveDefault Curve = iota
	// CurveFunctionWord saturates faster: repeated exposure to grammatical
	// words is less diagnostic, so they reach "known" sooner
	CurveFunctionWord
)

// K-values for the exponential mastery formula
const (
	defaultK      = 10.0
	functionWordK = 5.0
)

func (c Curve) k() float64 {
	if c == CurveFunctionWord {
		return functionWordK
	}
	return defaultK
}

// CurveFor maps a part of speech to its mastery curve
func CurveFor(pos string) Curve {
	if IsFunctionWord(pos) {
		return CurveFunctionWord
	}
	return CurveDefault
}

// Mastery converts accumulated evidence into a score:
//
//	score = 1 - exp(-evidence / K)
//
// Monotonic in evidence, bounded in [0,1), approaches but never reaches 1.
// Non-positive evidence yields 0.
func Mastery(evidence float64, curve Curve) float64 {
	if evidence <= 0 {
		return 0
	}
	return 1 - math.Exp(-evidence/curve.k())
}

// RollingSum decays an exponentially weighted window sum by the elapsed time
// and folds in a new observation:
//
//	newSum = oldSum * exp(-elapsedDays/windowDays) + weight
//
// This approximates a sliding window of windowDays without retaining raw
// history, at O(1) cost per update.
func RollingSum(oldSum, weight, elapsedDays, windowDays float64) float64 {
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	return oldSum*math.Exp(-elapsedDays/windowDays) + weight
}
