package models

import "time"

// ReviewItem tracks the adaptive review schedule for one learner, word and
// exercise type. The numeric fields encode the item's lifecycle: a fresh item
// has interval 0, a lapsed one falls back to interval 1, a mature one grows
// its interval by the ease factor on every success.
type ReviewItem struct {
	ID                 int64      `json:"id" db:"id"`
	LearnerID          int64      `json:"learner_id" db:"learner_id"`
	WordID             int        `json:"word_id" db:"word_id"`
	ExerciseType       string     `json:"exercise_type" db:"exercise_type"` // flashcard, typed_translation, sentence_builder, cloze
	EaseFactor         float64    `json:"ease_factor" db:"ease_factor"`     // SM-2 EF, never below 1.3
	IntervalDays       int        `json:"interval_days" db:"interval_days"`
	ConsecutiveCorrect int        `json:"consecutive_correct" db:"consecutive_correct"`
	ReviewCount        int        `json:"review_count" db:"review_count"`
	LapseCount         int        `json:"lapse_count" db:"lapse_count"`
	LastReviewedAt     *time.Time `json:"last_reviewed_at,omitempty" db:"last_reviewed_at"`
	DueAt              time.Time  `json:"due_at" db:"due_at"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}
