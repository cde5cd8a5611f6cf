package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/lexengine/pkg/models"
)

// ReviewRepository handles database operations for review items and the
// append-only attempt log. Mutating methods take a transaction: one graded
// attempt is one transaction, so concurrent submissions for the same item
// serialize behind the row write instead of interleaving.
type ReviewRepository struct{}

// NewReviewRepository creates a new repository instance
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

// GetForUpdateTx loads the review item for a (learner, word, exercise type)
// triple inside tx, locking it on engines that support row locks. Returns nil
// if the item does not exist yet.
func (r *ReviewRepository) GetForUpdateTx(tx *sqlx.Tx, learnerID int64, wordID int, exerciseType string) (*models.ReviewItem, error) {
	query := `
		SELECT * FROM review_items
		WHERE learner_id = $1 AND word_id = $2 AND exercise_type = $3
	`
	// SQLite serializes writers globally, so the lock clause only applies to postgres
	if DB.DriverName() == "postgres" {
		query += " FOR UPDATE"
	}

	var item models.ReviewItem
	err := tx.Get(&item, query, learnerID, wordID, exerciseType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get review item: %w", err)
	}
	return &item, nil
}

// CreateTx inserts a fresh review item with default scheduling state
func (r *ReviewRepository) CreateTx(tx *sqlx.Tx, item *models.ReviewItem) error {
	if DB.DriverName() == "postgres" {
		return tx.QueryRow(`
			INSERT INTO review_items (
				learner_id, word_id, exercise_type, ease_factor, interval_days,
				consecutive_correct, review_count, lapse_count, last_reviewed_at, due_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at, updated_at
		`,
			item.LearnerID,
			item.WordID,
			item.ExerciseType,
			item.EaseFactor,
			item.IntervalDays,
			item.ConsecutiveCorrect,
			item.ReviewCount,
			item.LapseCount,
			item.LastReviewedAt,
			item.DueAt,
		).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	}

	result, err := tx.Exec(`
		INSERT INTO review_items (
			learner_id, word_id, exercise_type, ease_factor, interval_days,
			consecutive_correct, review_count, lapse_count, last_reviewed_at, due_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		item.LearnerID,
		item.WordID,
		item.ExerciseType,
		item.EaseFactor,
		item.IntervalDays,
		item.ConsecutiveCorrect,
		item.ReviewCount,
		item.LapseCount,
		item.LastReviewedAt,
		item.DueAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	item.ID = id
	return nil
}

// UpdateTx persists the scheduling fields of an existing review item
func (r *ReviewRepository) UpdateTx(tx *sqlx.Tx, item *models.ReviewItem) error {
	now := "CURRENT_TIMESTAMP"
	if DB.DriverName() == "postgres" {
		now = "NOW()"
	}

	query := fmt.Sprintf(`
		UPDATE review_items SET
			ease_factor = $1,
			interval_days = $2,
			consecutive_correct = $3,
			review_count = $4,
			lapse_count = $5,
			last_reviewed_at = $6,
			due_at = $7,
			updated_at = %s
		WHERE id = $8
	`, now)

	_, err := tx.Exec(
		query,
		item.EaseFactor,
		item.IntervalDays,
		item.ConsecutiveCorrect,
		item.ReviewCount,
		item.LapseCount,
		item.LastReviewedAt,
		item.DueAt,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update review item: %w", err)
	}
	return nil
}

// InsertAttemptTx appends one attempt record. Attempts are never mutated.
func (r *ReviewRepository) InsertAttemptTx(tx *sqlx.Tx, attempt *models.ReviewAttempt) error {
	if DB.DriverName() == "postgres" {
		return tx.QueryRow(`
			INSERT INTO review_attempts (
				request_id, item_id, learner_id, word_id, exercise_type, grade,
				prompt_text, expected_answer, user_answer, is_correct, latency_ms, hints_used,
				previous_ease_factor, next_ease_factor, previous_interval_days, next_interval_days,
				next_due_at, reviewed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			RETURNING id, created_at
		`,
			attempt.RequestID,
			attempt.ItemID,
			attempt.LearnerID,
			attempt.WordID,
			attempt.ExerciseType,
			attempt.Grade,
			attempt.PromptText,
			attempt.ExpectedAnswer,
			attempt.UserAnswer,
			attempt.IsCorrect,
			attempt.LatencyMs,
			attempt.HintsUsed,
			attempt.PreviousEaseFactor,
			attempt.NextEaseFactor,
			attempt.PreviousIntervalDays,
			attempt.NextIntervalDays,
			attempt.NextDueAt,
			attempt.ReviewedAt,
		).Scan(&attempt.ID, &attempt.CreatedAt)
	}

	result, err := tx.Exec(`
		INSERT INTO review_attempts (
			request_id, item_id, learner_id, word_id, exercise_type, grade,
			prompt_text, expected_answer, user_answer, is_correct, latency_ms, hints_used,
			previous_ease_factor, next_ease_factor, previous_interval_days, next_interval_days,
			next_due_at, reviewed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`,
		attempt.RequestID,
		attempt.ItemID,
		attempt.LearnerID,
		attempt.WordID,
		attempt.ExerciseType,
		attempt.Grade,
		attempt.PromptText,
		attempt.ExpectedAnswer,
		attempt.UserAnswer,
		attempt.IsCorrect,
		attempt.LatencyMs,
		attempt.HintsUsed,
		attempt.PreviousEaseFactor,
		attempt.NextEaseFactor,
		attempt.PreviousIntervalDays,
		attempt.NextIntervalDays,
		attempt.NextDueAt,
		attempt.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert review attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	attempt.ID = id
	return nil
}

// GetDueForLearner returns review items due at or before now, soonest first.
// exerciseType filters to one exercise kind when non-empty.
func (r *ReviewRepository) GetDueForLearner(learnerID int64, exerciseType string, now time.Time, limit int) ([]models.ReviewItem, error) {
	var items []models.ReviewItem
	var err error

	if exerciseType != "" {
		err = DB.Select(&items, `
			SELECT * FROM review_items
			WHERE learner_id = $1 AND exercise_type = $2 AND due_at <= $3
			ORDER BY due_at ASC
			LIMIT $4
		`, learnerID, exerciseType, now, limit)
	} else {
		err = DB.Select(&items, `
			SELECT * FROM review_items
			WHERE learner_id = $1 AND due_at <= $2
			ORDER BY due_at ASC
			LIMIT $3
		`, learnerID, now, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get due review items: %w", err)
	}
	return items, nil
}

// DueCount holds the number of due review items for one learner
type DueCount struct {
	LearnerID int64  `db:"learner_id"`
	ClientID  string `db:"client_id"`
	Language  string `db:"language"`
	Count     int    `db:"count"`
}

// GetLearnersWithDue returns, per learner, how many review items are due at
// or before now. Used by the reminder sweep.
func (r *ReviewRepository) GetLearnersWithDue(now time.Time) ([]DueCount, error) {
	var counts []DueCount
	err := DB.Select(&counts, `
		SELECT l.id AS learner_id, l.client_id, l.language, COUNT(*) AS count
		FROM review_items ri
		JOIN learners l ON l.id = ri.learner_id
		WHERE ri.due_at <= $1
		GROUP BY l.id, l.client_id, l.language
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get learners with due reviews: %w", err)
	}
	return counts, nil
}

// GetAttemptsForItem returns the attempt history for a review item, newest first
func (r *ReviewRepository) GetAttemptsForItem(itemID int64) ([]models.ReviewAttempt, error) {
	var attempts []models.ReviewAttempt
	err := DB.Select(&attempts, `
		SELECT * FROM review_attempts
		WHERE item_id = $1
		ORDER BY reviewed_at DESC
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review attempts: %w", err)
	}
	return attempts, nil
}
