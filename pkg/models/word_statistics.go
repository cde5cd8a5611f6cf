package models

import "time"

// WordStatistics holds the rolling evidence sums for one learner and word.
// The weighted sums approximate 7- and 30-day sliding windows via exponential
// decay, so no raw interaction history is needed to keep them current.
// Invariants: weighted sums >= 0, score in [0,1], last_updated never moves backwards.
type WordStatistics struct {
	ID                      int64     `json:"id" db:"id"`
	LearnerID               int64     `json:"learner_id" db:"learner_id"`
	WordID                  int       `json:"word_id" db:"word_id"`
	Weighted7Days           float64   `json:"weighted_7_days" db:"weighted_7_days"`
	Weighted30Days          float64   `json:"weighted_30_days" db:"weighted_30_days"`
	TotalInteractions7Days  int       `json:"total_interactions_7_days" db:"total_interactions_7_days"`
	TotalInteractions30Days int       `json:"total_interactions_30_days" db:"total_interactions_30_days"`
	Score                   float64   `json:"score" db:"score"`
	LastUpdated             time.Time `json:"last_updated" db:"last_updated"`
	Version                 int64     `json:"-" db:"version"` // Optimistic concurrency counter
	CreatedAt               time.Time `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time `json:"updated_at" db:"updated_at"`
}
