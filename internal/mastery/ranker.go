package mastery

import (
	"fmt"
	"iter"
	"sort"
	"time"

	"github.com/example/lexengine/pkg/models"
)

// RankedWord is one row of a learner's lexicon ranking
type RankedWord struct {
	WordID      int       `json:"word_id"`
	Lemma       string    `json:"lemma"`
	POS         string    `json:"pos"`
	Score       float64   `json:"score"`
	Retention   float64   `json:"retention"`
	Urgency     float64   `json:"urgency"`
	LastUpdated time.Time `json:"last_updated"`
}

// Urgency combines mastery and retention into a single review priority.
// Items that are both weakly evidenced and stale rank highest. Kept as a
// standalone policy function so the combination rule stays tunable.
func Urgency(score, daysSinceSeen float64) float64 {
	return (1 - score) * (1 - Retention(daysSinceSeen))
}

// StatsSource is the read side of the statistics store
type StatsSource interface {
	ListByLearner(learnerID int64) ([]models.LexiconEntry, error)
}

// Ranker builds review-priority orderings over a learner's lexicon. It is
// read-only and works off whatever snapshot the store returns.
type Ranker struct {
	stats StatsSource
	now   func() time.Time
}

// NewRanker creates a ranker over the given statistics source
func NewRanker(stats StatsSource) *Ranker {
	return &Ranker{stats: stats, now: time.Now}
}

// Rank returns the learner's words ordered by descending urgency, ties broken
// by most recently seen first. The sequence is restartable and callers may
// stop after any prefix.
func (r *Ranker) Rank(learnerID int64) (iter.Seq[RankedWord], error) {
	entries, err := r.stats.ListByLearner(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to rank lexicon: %w", err)
	}

	now := r.now()
	ranked := make([]RankedWord, 0, len(entries))
	for _, e := range entries {
		days := now.Sub(e.LastUpdated).Hours() / 24
		if days < 0 {
			days = 0
		}
		ranked = append(ranked, RankedWord{
			WordID:      e.WordID,
			Lemma:       e.Lemma,
			POS:         e.POS,
			Score:       e.Score,
			Retention:   Retention(days),
			Urgency:     Urgency(e.Score, days),
			LastUpdated: e.LastUpdated,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Urgency != ranked[j].Urgency {
			return ranked[i].Urgency > ranked[j].Urgency
		}
		return ranked[i].LastUpdated.After(ranked[j].LastUpdated)
	})

	return func(yield func(RankedWord) bool) {
		for _, rw := range ranked {
			if !yield(rw) {
				return
			}
		}
	}, nil
}

// Top returns the n most urgent words for a learner
func (r *Ranker) Top(learnerID int64, n int) ([]RankedWord, error) {
	seq, err := r.Rank(learnerID)
	if err != nil {
		return nil, err
	}

	top := make([]RankedWord, 0, n)
	for rw := range seq {
		top = append(top, rw)
		if len(top) == n {
			break
		}
	}
	return top, nil
}
