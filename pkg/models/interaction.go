package models

import "time"

// Interaction is one observed learning event for a learner and word, with the
// evidence weight that was resolved for it. Rows are append-only.
type Interaction struct {
	ID          int64     `json:"id" db:"id"`
	LearnerID   int64     `json:"learner_id" db:"learner_id"`
	WordID      int       `json:"word_id" db:"word_id"`
	FormID      *int      `json:"form_id,omitempty" db:"form_id"` // Set when a specific surface form was involved
	Kind        string    `json:"kind" db:"kind"`
	Correctness *float64  `json:"correctness,omitempty" db:"correctness"`
	Weight      float64   `json:"weight" db:"weight"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
