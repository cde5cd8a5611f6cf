package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/lexengine/pkg/models"
)

// StatisticsRepository handles database operations for per-word learner
// statistics. Updates go through a version check so concurrent writers for the
// same (learner, word) pair serialize instead of overwriting each other.
type StatisticsRepository struct{}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository() *StatisticsRepository {
	return &StatisticsRepository{}
}

// GetByLearnerAndWord returns the statistics row for a learner and word, or
// nil if the pair has never been seen
func (r *StatisticsRepository) GetByLearnerAndWord(learnerID int64, wordID int) (*models.WordStatistics, error) {
	var stats models.WordStatistics
	err := DB.Get(&stats,
		"SELECT * FROM user_word_statistics WHERE learner_id = $1 AND word_id = $2",
		learnerID, wordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get word statistics: %w", err)
	}
	return &stats, nil
}

// Create inserts a zeroed statistics row for a (learner, word) pair. Returns
// an error if the pair already has a row; callers racing on first sight should
// re-read and retry.
func (r *StatisticsRepository) Create(stats *models.WordStatistics) error {
	if DB.DriverName() == "postgres" {
		return DB.QueryRow(`
			INSERT INTO user_word_statistics (
				learner_id, word_id, weighted_7_days, weighted_30_days,
				total_interactions_7_days, total_interactions_30_days,
				score, last_updated, version
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0)
			RETURNING id, version, created_at, updated_at
		`,
			stats.LearnerID,
			stats.WordID,
			stats.Weighted7Days,
			stats.Weighted30Days,
			stats.TotalInteractions7Days,
			stats.TotalInteractions30Days,
			stats.Score,
			stats.LastUpdated,
		).Scan(&stats.ID, &stats.Version, &stats.CreatedAt, &stats.UpdatedAt)
	}

	result, err := DB.Exec(`
		INSERT INTO user_word_statistics (
			learner_id, word_id, weighted_7_days, weighted_30_days,
			total_interactions_7_days, total_interactions_30_days,
			score, last_updated, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0)
	`,
		stats.LearnerID,
		stats.WordID,
		stats.Weighted7Days,
		stats.Weighted30Days,
		stats.TotalInteractions7Days,
		stats.TotalInteractions30Days,
		stats.Score,
		stats.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to create word statistics: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	stats.ID = id
	stats.Version = 0
	return nil
}

// UpdateVersioned persists the row if and only if nobody else has written it
// since it was read. Reports whether the update applied; a false result means
// the caller holds a stale copy and should re-read.
func (r *StatisticsRepository) UpdateVersioned(stats *models.WordStatistics) (bool, error) {
	now := "CURRENT_TIMESTAMP"
	if DB.DriverName() == "postgres" {
		now = "NOW()"
	}

	query := fmt.Sprintf(`
		UPDATE user_word_statistics SET
			weighted_7_days = $1,
			weighted_30_days = $2,
			total_interactions_7_days = $3,
			total_interactions_30_days = $4,
			score = $5,
			last_updated = $6,
			version = version + 1,
			updated_at = %s
		WHERE id = $7 AND version = $8
	`, now)

	result, err := DB.Exec(
		query,
		stats.Weighted7Days,
		stats.Weighted30Days,
		stats.TotalInteractions7Days,
		stats.TotalInteractions30Days,
		stats.Score,
		stats.LastUpdated,
		stats.ID,
		stats.Version,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update word statistics: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	stats.Version++
	return true, nil
}

// ListByLearner returns the learner's full lexicon joined with statistics,
// unordered. Ordering is the ranker's concern.
func (r *StatisticsRepository) ListByLearner(learnerID int64) ([]models.LexiconEntry, error) {
	var entries []models.LexiconEntry
	err := DB.Select(&entries, `
		SELECT
			w.id AS word_id,
			w.lemma,
			w.pos,
			w.language,
			s.score,
			s.weighted_7_days,
			s.weighted_30_days,
			s.total_interactions_30_days,
			s.last_updated
		FROM user_word_statistics s
		JOIN words w ON w.id = s.word_id
		WHERE s.learner_id = $1
	`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list learner statistics: %w", err)
	}
	return entries, nil
}
