package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/lexengine/pkg/models"
)

// LearnerRepository handles database operations for learners
type LearnerRepository struct{}

// NewLearnerRepository creates a new repository instance
func NewLearnerRepository() *LearnerRepository {
	return &LearnerRepository{}
}

// GetByID returns a learner by ID
func (r *LearnerRepository) GetByID(id int64) (*models.Learner, error) {
	var learner models.Learner
	err := DB.Get(&learner, "SELECT * FROM learners WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get learner by ID: %w", err)
	}
	return &learner, nil
}

// GetByClientID returns the learner for a client and language, or nil if none exists
func (r *LearnerRepository) GetByClientID(clientID, language string) (*models.Learner, error) {
	var learner models.Learner
	err := DB.Get(&learner,
		"SELECT * FROM learners WHERE client_id = $1 AND language = $2",
		clientID, language)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	return &learner, nil
}

// GetOrCreate resolves a learner by client id and language, creating the row
// on first interaction
func (r *LearnerRepository) GetOrCreate(clientID, language string) (*models.Learner, error) {
	learner, err := r.GetByClientID(clientID, language)
	if err != nil {
		return nil, err
	}
	if learner != nil {
		return learner, nil
	}

	_, err = DB.Exec(`
		INSERT INTO learners (client_id, language)
		VALUES ($1, $2)
		ON CONFLICT (client_id, language) DO NOTHING
	`, clientID, language)
	if err != nil {
		return nil, fmt.Errorf("failed to create learner: %w", err)
	}

	learner, err = r.GetByClientID(clientID, language)
	if err != nil {
		return nil, err
	}
	if learner == nil {
		return nil, fmt.Errorf("learner not found after insert: %s/%s", clientID, language)
	}
	return learner, nil
}
