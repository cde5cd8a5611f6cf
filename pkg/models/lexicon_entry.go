package models

import "time"

// LexiconEntry joins a word with the learner's statistics for it. Read-side
// projection used to build lexicon snapshots and review rankings.
type LexiconEntry struct {
	WordID                  int       `json:"word_id" db:"word_id"`
	Lemma                   string    `json:"lemma" db:"lemma"`
	POS                     string    `json:"pos" db:"pos"`
	Language                string    `json:"language" db:"language"`
	Score                   float64   `json:"score" db:"score"`
	Weighted7Days           float64   `json:"weighted_7_days" db:"weighted_7_days"`
	Weighted30Days          float64   `json:"weighted_30_days" db:"weighted_30_days"`
	TotalInteractions30Days int       `json:"total_interactions_30_days" db:"total_interactions_30_days"`
	LastUpdated             time.Time `json:"last_updated" db:"last_updated"`
}
