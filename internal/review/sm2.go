package review

import (
	"errors"
	"math"
	"time"

	"github.com/example/lexengine/pkg/models"
)

// Grade is a learner's assessment of one recall attempt
type Grade string

const (
	GradeAgain Grade = "again" // Failed to recall
	GradeHard  Grade = "hard"  // Recalled with significant effort
	GradeGood  Grade = "good"  // Recalled after some hesitation
	GradeEasy  Grade = "easy"  // Perfect recall
)

// ErrInvalidGrade is returned for grades outside the four-value set. Checked
// with errors.Is. Invalid grades are rejected before any state changes.
var ErrInvalidGrade = errors.New("review: invalid grade")

// IsValid reports whether g is one of the four known grades
func (g Grade) IsValid() bool {
	switch g {
	case GradeAgain, GradeHard, GradeGood, GradeEasy:
		return true
	}
	return false
}

// Quality maps the four-grade vocabulary onto the classic SM-2 0-5 scale
func (g Grade) Quality() int {
	switch g {
	case GradeHard:
		return 3
	case GradeGood:
		return 4
	case GradeEasy:
		return 5
	default:
		return 0
	}
}

// IsCorrect reports whether the grade counts as a successful recall
func (g Grade) IsCorrect() bool {
	return g.IsValid() && g != GradeAgain
}

// Scheduler adapts review intervals from graded recall attempts using the
// SM-2 family of update rules
type Scheduler struct {
	// MinEase is the ease factor floor
	MinEase float64
	// LapsePenalty is subtracted from the ease factor on a failed recall
	LapsePenalty float64
	// MaxInterval caps the interval growth in days
	MaxInterval int
}

// NewScheduler creates a scheduler with the conventional SM-2 parameters
func NewScheduler() *Scheduler {
	return &Scheduler{
		MinEase:      1.3,
		LapsePenalty: 0.2,
		MaxInterval:  365,
	}
}

// Apply advances the item's scheduling state for one graded attempt at time
// now. Deterministic: the same grade and prior state always produce the same
// next state. The item is untouched when the grade is invalid.
func (s *Scheduler) Apply(item *models.ReviewItem, grade Grade, now time.Time) error {
	if !grade.IsValid() {
		return ErrInvalidGrade
	}

	quality := grade.Quality()
	if quality < 3 {
		// Lapse: back to daily review, ease shrinks but never below the floor
		item.LapseCount++
		item.ConsecutiveCorrect = 0
		item.IntervalDays = 1
		item.EaseFactor = math.Max(s.MinEase, item.EaseFactor-s.LapsePenalty)
	} else {
		item.ConsecutiveCorrect++

		q := float64(quality)
		ease := item.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
		item.EaseFactor = math.Max(s.MinEase, ease)

		switch item.IntervalDays {
		case 0:
			item.IntervalDays = 1
		case 1:
			item.IntervalDays = 6
		default:
			next := int(math.Round(float64(item.IntervalDays) * item.EaseFactor))
			if next > s.MaxInterval {
				next = s.MaxInterval
			}
			item.IntervalDays = next
		}
	}

	item.ReviewCount++
	reviewedAt := now
	item.LastReviewedAt = &reviewedAt
	item.DueAt = now.AddDate(0, 0, item.IntervalDays)
	return nil
}
