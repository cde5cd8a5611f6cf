package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lexengine/pkg/models"
)

func seedReviewItem(t *testing.T, repo *ReviewRepository, learnerID int64, wordID int, dueAt time.Time) *models.ReviewItem {
	t.Helper()
	tx, err := DB.Beginx()
	require.NoError(t, err)
	item := &models.ReviewItem{
		LearnerID:    learnerID,
		WordID:       wordID,
		ExerciseType: "flashcard",
		EaseFactor:   2.5,
		DueAt:        dueAt,
	}
	require.NoError(t, repo.CreateTx(tx, item))
	require.NoError(t, tx.Commit())
	return item
}

func TestGetDueForLearnerOrdersByDueDate(t *testing.T) {
	setupTestDB(t)
	learnerID, _ := seedPair(t, "madra")
	capall, err := NewWordRepository().GetOrCreate("capall", "NOUN", "ga")
	require.NoError(t, err)
	cat, err := NewWordRepository().GetOrCreate("cat", "NOUN", "ga")
	require.NoError(t, err)

	repo := NewReviewRepository()
	now := time.Now().UTC()
	overdue := seedReviewItem(t, repo, learnerID, capall.ID, now.AddDate(0, 0, -5))
	barely := seedReviewItem(t, repo, learnerID, cat.ID, now.AddDate(0, 0, -1))
	word, err := NewWordRepository().GetByLemma("madra", "NOUN", "ga")
	require.NoError(t, err)
	seedReviewItem(t, repo, learnerID, word.ID, now.AddDate(0, 0, 3))

	due, err := repo.GetDueForLearner(learnerID, "", now, 10)
	require.NoError(t, err)
	require.Len(t, due, 2, "future item is not due")
	assert.Equal(t, overdue.ID, due[0].ID)
	assert.Equal(t, barely.ID, due[1].ID)

	limited, err := repo.GetDueForLearner(learnerID, "", now, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, overdue.ID, limited[0].ID)
}

func TestGetForUpdateTxMissingReturnsNil(t *testing.T) {
	setupTestDB(t)
	learnerID, wordID := seedPair(t, "madra")

	tx, err := DB.Beginx()
	require.NoError(t, err)
	defer tx.Rollback()

	item, err := NewReviewRepository().GetForUpdateTx(tx, learnerID, wordID, "flashcard")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestGetLearnersWithDueCountsPerLearner(t *testing.T) {
	setupTestDB(t)
	learners := NewLearnerRepository()
	words := NewWordRepository()
	repo := NewReviewRepository()

	a, err := learners.GetOrCreate("alice", "ga")
	require.NoError(t, err)
	b, err := learners.GetOrCreate("bob", "fr")
	require.NoError(t, err)

	now := time.Now().UTC()
	for _, lemma := range []string{"madra", "capall"} {
		word, err := words.GetOrCreate(lemma, "NOUN", "ga")
		require.NoError(t, err)
		seedReviewItem(t, repo, a.ID, word.ID, now.AddDate(0, 0, -1))
	}
	word, err := words.GetOrCreate("chien", "NOUN", "fr")
	require.NoError(t, err)
	seedReviewItem(t, repo, b.ID, word.ID, now.AddDate(0, 0, -2))

	counts, err := repo.GetLearnersWithDue(now)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	byClient := map[string]DueCount{}
	for _, c := range counts {
		byClient[c.ClientID] = c
	}
	assert.Equal(t, 2, byClient["alice"].Count)
	assert.Equal(t, "ga", byClient["alice"].Language)
	assert.Equal(t, 1, byClient["bob"].Count)
	assert.Equal(t, "fr", byClient["bob"].Language)
}

func TestGetLearnersWithDueEmptyWhenNothingDue(t *testing.T) {
	setupTestDB(t)
	learnerID, wordID := seedPair(t, "madra")
	repo := NewReviewRepository()
	seedReviewItem(t, repo, learnerID, wordID, time.Now().UTC().AddDate(0, 0, 5))

	counts, err := repo.GetLearnersWithDue(time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, counts)
}
