package review

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/lexengine/internal/database"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	require.NoError(t, database.ConnectInMemory())
	t.Cleanup(func() { database.Close() })
	return NewService(zap.NewNop().Sugar())
}

func testWordID(t *testing.T, lemma string) int {
	t.Helper()
	word, err := database.NewWordRepository().GetOrCreate(lemma, "NOUN", "ga")
	require.NoError(t, err)
	return word.ID
}

func TestRecordAttemptCreatesItemOnFirstExposure(t *testing.T) {
	svc := newTestService(t)
	wordID := testWordID(t, "madra")

	item, attempt, err := svc.RecordAttempt(AttemptInput{
		ClientID: "client-1",
		Language: "ga",
		WordID:   wordID,
		Grade:    GradeGood,
	})
	require.NoError(t, err)

	assert.Equal(t, "flashcard", item.ExerciseType)
	assert.Equal(t, 1, item.IntervalDays)
	assert.Equal(t, 1, item.ReviewCount)
	assert.InDelta(t, 2.5, item.EaseFactor, epsilon)

	// Attempt snapshot carries the before/after scheduling values
	assert.Equal(t, item.ID, attempt.ItemID)
	assert.Equal(t, "good", attempt.Grade)
	assert.True(t, attempt.IsCorrect)
	assert.NotEmpty(t, attempt.RequestID)
	assert.InDelta(t, 2.5, attempt.PreviousEaseFactor, epsilon)
	assert.InDelta(t, 2.5, attempt.NextEaseFactor, epsilon)
	assert.Equal(t, 0, attempt.PreviousIntervalDays)
	assert.Equal(t, 1, attempt.NextIntervalDays)
}

func TestRecordAttemptRejectsInvalidGrade(t *testing.T) {
	svc := newTestService(t)
	wordID := testWordID(t, "madra")

	_, _, err := svc.RecordAttempt(AttemptInput{
		ClientID: "client-1",
		Language: "ga",
		WordID:   wordID,
		Grade:    Grade("excellent"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidGrade))

	// Nothing was created: no due items exist
	due, err := svc.DueItems("client-1", "ga", "", 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestRecordAttemptSequenceAdvancesSchedule(t *testing.T) {
	svc := newTestService(t)
	wordID := testWordID(t, "capall")

	input := AttemptInput{ClientID: "c", Language: "ga", WordID: wordID, Grade: GradeGood}

	var intervals []int
	for i := 0; i < 3; i++ {
		item, _, err := svc.RecordAttempt(input)
		require.NoError(t, err)
		intervals = append(intervals, item.IntervalDays)
	}
	assert.Equal(t, []int{1, 6, 15}, intervals)

	history, err := svc.AttemptHistory(1)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestRecordAttemptDuplicateSubmissionsSerialize(t *testing.T) {
	svc := newTestService(t)
	wordID := testWordID(t, "bó")
	input := AttemptInput{ClientID: "c", Language: "ga", WordID: wordID, Grade: GradeGood}

	first, _, err := svc.RecordAttempt(input)
	require.NoError(t, err)
	second, _, err := svc.RecordAttempt(input)
	require.NoError(t, err)

	// Both applied in order, never interleaved: the second saw the first's state
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.ReviewCount)
	assert.Equal(t, 6, second.IntervalDays)
}

func TestRecordAttemptSeparatesExerciseTypes(t *testing.T) {
	svc := newTestService(t)
	wordID := testWordID(t, "teach")

	card, _, err := svc.RecordAttempt(AttemptInput{
		ClientID: "c", Language: "ga", WordID: wordID,
		ExerciseType: "flashcard", Grade: GradeGood,
	})
	require.NoError(t, err)

	cloze, _, err := svc.RecordAttempt(AttemptInput{
		ClientID: "c", Language: "ga", WordID: wordID,
		ExerciseType: "cloze", Grade: GradeAgain,
	})
	require.NoError(t, err)

	assert.NotEqual(t, card.ID, cloze.ID)
	assert.Equal(t, 0, cloze.ConsecutiveCorrect)
	assert.Equal(t, 1, card.ConsecutiveCorrect)
}

func TestDueItemsOrderAndLimit(t *testing.T) {
	svc := newTestService(t)
	wordA := testWordID(t, "uisce")
	wordB := testWordID(t, "arán")

	// Review in the past so the resulting due dates are already behind us
	past := time.Now().AddDate(0, 0, -10)
	svc.now = func() time.Time { return past }

	// wordA: one good answer, due 9 days ago
	_, _, err := svc.RecordAttempt(AttemptInput{ClientID: "c", Language: "ga", WordID: wordA, Grade: GradeGood})
	require.NoError(t, err)

	// wordB: two good answers, due 4 days ago
	for i := 0; i < 2; i++ {
		_, _, err = svc.RecordAttempt(AttemptInput{ClientID: "c", Language: "ga", WordID: wordB, Grade: GradeGood})
		require.NoError(t, err)
	}

	svc.now = time.Now

	due, err := svc.DueItems("c", "ga", "", 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, wordA, due[0].WordID, "most overdue first")
	assert.Equal(t, wordB, due[1].WordID)

	limited, err := svc.DueItems("c", "ga", "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, wordA, limited[0].WordID)
}

func TestDueItemsUnknownLearner(t *testing.T) {
	svc := newTestService(t)
	due, err := svc.DueItems("nobody", "ga", "", 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestDueItemsFiltersByExerciseType(t *testing.T) {
	svc := newTestService(t)
	wordID := testWordID(t, "fuinneog")

	past := time.Now().AddDate(0, 0, -10)
	svc.now = func() time.Time { return past }

	_, _, err := svc.RecordAttempt(AttemptInput{
		ClientID: "c", Language: "ga", WordID: wordID,
		ExerciseType: "flashcard", Grade: GradeGood,
	})
	require.NoError(t, err)
	_, _, err = svc.RecordAttempt(AttemptInput{
		ClientID: "c", Language: "ga", WordID: wordID,
		ExerciseType: "cloze", Grade: GradeGood,
	})
	require.NoError(t, err)

	svc.now = time.Now

	due, err := svc.DueItems("c", "ga", "cloze", 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "cloze", due[0].ExerciseType)
}
