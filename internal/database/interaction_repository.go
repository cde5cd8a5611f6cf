package database

import (
	"fmt"

	"github.com/example/lexengine/pkg/models"
)

// InteractionRepository handles the append-only interaction log
type InteractionRepository struct{}

// NewInteractionRepository creates a new repository instance
func NewInteractionRepository() *InteractionRepository {
	return &InteractionRepository{}
}

// Create appends one interaction record. Records are never updated or deleted.
func (r *InteractionRepository) Create(interaction *models.Interaction) error {
	if DB.DriverName() == "postgres" {
		return DB.QueryRow(`
			INSERT INTO interactions (learner_id, word_id, form_id, kind, correctness, weight, timestamp)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`,
			interaction.LearnerID,
			interaction.WordID,
			interaction.FormID,
			interaction.Kind,
			interaction.Correctness,
			interaction.Weight,
			interaction.Timestamp,
		).Scan(&interaction.ID, &interaction.CreatedAt)
	}

	result, err := DB.Exec(`
		INSERT INTO interactions (learner_id, word_id, form_id, kind, correctness, weight, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		interaction.LearnerID,
		interaction.WordID,
		interaction.FormID,
		interaction.Kind,
		interaction.Correctness,
		interaction.Weight,
		interaction.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create interaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	interaction.ID = id
	return nil
}

// GetByLearnerAndWord returns the interaction history for a learner and word,
// newest first
func (r *InteractionRepository) GetByLearnerAndWord(learnerID int64, wordID int) ([]models.Interaction, error) {
	var interactions []models.Interaction
	err := DB.Select(&interactions, `
		SELECT * FROM interactions
		WHERE learner_id = $1 AND word_id = $2
		ORDER BY timestamp DESC
	`, learnerID, wordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get interactions: %w", err)
	}
	return interactions, nil
}

// CountByLearner returns the total number of logged interactions for a learner
func (r *InteractionRepository) CountByLearner(learnerID int64) (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM interactions WHERE learner_id = $1", learnerID)
	if err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}
	return count, nil
}
