package models

import "time"

// ReviewAttempt is an immutable record of one graded recall attempt, including
// the scheduling values before and after it was applied. Written once for
// audit and analytics; the ReviewItem remains the authoritative schedule.
type ReviewAttempt struct {
	ID                   int64     `json:"id" db:"id"`
	RequestID            string    `json:"request_id" db:"request_id"`
	ItemID               int64     `json:"item_id" db:"item_id"`
	LearnerID            int64     `json:"learner_id" db:"learner_id"`
	WordID               int       `json:"word_id" db:"word_id"`
	ExerciseType         string    `json:"exercise_type" db:"exercise_type"`
	Grade                string    `json:"grade" db:"grade"`
	PromptText           string    `json:"prompt_text" db:"prompt_text"`
	ExpectedAnswer       string    `json:"expected_answer" db:"expected_answer"`
	UserAnswer           string    `json:"user_answer" db:"user_answer"`
	IsCorrect            bool      `json:"is_correct" db:"is_correct"`
	LatencyMs            *int      `json:"latency_ms,omitempty" db:"latency_ms"`
	HintsUsed            int       `json:"hints_used" db:"hints_used"`
	PreviousEaseFactor   float64   `json:"previous_ease_factor" db:"previous_ease_factor"`
	NextEaseFactor       float64   `json:"next_ease_factor" db:"next_ease_factor"`
	PreviousIntervalDays int       `json:"previous_interval_days" db:"previous_interval_days"`
	NextIntervalDays     int       `json:"next_interval_days" db:"next_interval_days"`
	NextDueAt            time.Time `json:"next_due_at" db:"next_due_at"`
	ReviewedAt           time.Time `json:"reviewed_at" db:"reviewed_at"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
}
