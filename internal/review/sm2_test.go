package review

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lexengine/pkg/models"
)

const epsilon = 1e-9

func newItem() *models.ReviewItem {
	return &models.ReviewItem{EaseFactor: 2.5}
}

func TestGradeQualityMapping(t *testing.T) {
	assert.Equal(t, 0, GradeAgain.Quality())
	assert.Equal(t, 3, GradeHard.Quality())
	assert.Equal(t, 4, GradeGood.Quality())
	assert.Equal(t, 5, GradeEasy.Quality())
}

func TestThreeGoodGradesProduceClassicIntervals(t *testing.T) {
	s := NewScheduler()
	item := newItem()
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Apply(item, GradeGood, now))
	assert.Equal(t, 1, item.IntervalDays)

	require.NoError(t, s.Apply(item, GradeGood, now.AddDate(0, 0, 1)))
	assert.Equal(t, 6, item.IntervalDays)

	require.NoError(t, s.Apply(item, GradeGood, now.AddDate(0, 0, 7)))
	assert.Equal(t, 15, item.IntervalDays, "round(6 * 2.5)")

	// "good" leaves the ease factor unchanged
	assert.InDelta(t, 2.5, item.EaseFactor, epsilon)
	assert.Equal(t, 3, item.ConsecutiveCorrect)
	assert.Equal(t, 3, item.ReviewCount)
	assert.Equal(t, 0, item.LapseCount)
}

func TestAgainResetsInterval(t *testing.T) {
	s := NewScheduler()
	item := newItem()
	item.IntervalDays = 15
	item.ConsecutiveCorrect = 3
	now := time.Now()

	require.NoError(t, s.Apply(item, GradeAgain, now))

	assert.Equal(t, 1, item.IntervalDays)
	assert.Equal(t, 0, item.ConsecutiveCorrect)
	assert.Equal(t, 1, item.LapseCount)
	assert.InDelta(t, 2.3, item.EaseFactor, epsilon)
	assert.Equal(t, now.AddDate(0, 0, 1), item.DueAt)
}

func TestEaseFactorNeverBelowFloor(t *testing.T) {
	s := NewScheduler()
	item := newItem()
	now := time.Now()

	for i := 0; i < 20; i++ {
		require.NoError(t, s.Apply(item, GradeAgain, now))
		assert.GreaterOrEqual(t, item.EaseFactor, 1.3)
	}
	assert.InDelta(t, 1.3, item.EaseFactor, epsilon)
	assert.Equal(t, 20, item.LapseCount)
}

func TestHardGradeFromSixDayInterval(t *testing.T) {
	s := NewScheduler()
	item := newItem()
	item.IntervalDays = 6
	item.ConsecutiveCorrect = 1
	now := time.Now()

	require.NoError(t, s.Apply(item, GradeHard, now))

	// EF' = 2.5 + (0.1 - 2*(0.08 + 2*0.02)) = 2.36
	assert.InDelta(t, 2.36, item.EaseFactor, epsilon)
	assert.Equal(t, 14, item.IntervalDays, "round(6 * 2.36)")
	assert.Equal(t, 2, item.ConsecutiveCorrect)
}

func TestEasyGradeBoostsEase(t *testing.T) {
	s := NewScheduler()
	item := newItem()
	now := time.Now()

	require.NoError(t, s.Apply(item, GradeEasy, now))
	assert.InDelta(t, 2.6, item.EaseFactor, epsilon)
	assert.Equal(t, 1, item.IntervalDays)
}

func TestIntervalCappedAtMaximum(t *testing.T) {
	s := NewScheduler()
	item := newItem()
	item.IntervalDays = 300
	now := time.Now()

	require.NoError(t, s.Apply(item, GradeGood, now))
	assert.Equal(t, s.MaxInterval, item.IntervalDays)
}

func TestInvalidGradeRejectedBeforeMutation(t *testing.T) {
	s := NewScheduler()
	item := newItem()
	item.IntervalDays = 6
	item.ConsecutiveCorrect = 2
	before := *item

	err := s.Apply(item, Grade("perfect"), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidGrade))
	assert.Equal(t, before, *item, "state must be untouched")
}

func TestApplyIsDeterministic(t *testing.T) {
	s := NewScheduler()
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	a, b := newItem(), newItem()
	a.IntervalDays, b.IntervalDays = 6, 6
	require.NoError(t, s.Apply(a, GradeHard, now))
	require.NoError(t, s.Apply(b, GradeHard, now))
	assert.Equal(t, *a, *b)
}

func TestDueDateFollowsInterval(t *testing.T) {
	s := NewScheduler()
	item := newItem()
	item.IntervalDays = 1
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Apply(item, GradeGood, now))
	assert.Equal(t, 6, item.IntervalDays)
	assert.Equal(t, now.AddDate(0, 0, 6), item.DueAt)
	require.NotNil(t, item.LastReviewedAt)
	assert.Equal(t, now, *item.LastReviewedAt)
}

func TestLapseThenRecovery(t *testing.T) {
	s := NewScheduler()
	item := newItem()
	now := time.Now()

	// Mature item lapses, then climbs back through the learning steps
	item.IntervalDays = 30
	require.NoError(t, s.Apply(item, GradeAgain, now))
	assert.Equal(t, 1, item.IntervalDays)

	require.NoError(t, s.Apply(item, GradeGood, now))
	assert.Equal(t, 6, item.IntervalDays)

	require.NoError(t, s.Apply(item, GradeGood, now))
	// round(6 * 2.3): the lapse penalty persists into regrowth
	assert.Equal(t, 14, item.IntervalDays)
}
