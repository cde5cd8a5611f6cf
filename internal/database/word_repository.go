package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/lexengine/pkg/models"
)

// WordRepository handles database operations for vocabulary items
type WordRepository struct{}

// NewWordRepository creates a new repository instance
func NewWordRepository() *WordRepository {
	return &WordRepository{}
}

// GetByID returns a word by ID
func (r *WordRepository) GetByID(id int) (*models.Word, error) {
	var word models.Word
	err := DB.Get(&word, "SELECT * FROM words WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get word by ID: %w", err)
	}
	return &word, nil
}

// GetByLemma returns a word by its lemma, part of speech and language
func (r *WordRepository) GetByLemma(lemma, pos, language string) (*models.Word, error) {
	var word models.Word
	err := DB.Get(&word,
		"SELECT * FROM words WHERE lemma = $1 AND pos = $2 AND language = $3",
		lemma, pos, language)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get word by lemma: %w", err)
	}
	return &word, nil
}

// GetOrCreate resolves a word by (lemma, pos, language), creating it on first
// sighting. Safe under concurrent ingestion: a losing insert falls back to the
// row the winner created.
func (r *WordRepository) GetOrCreate(lemma, pos, language string) (*models.Word, error) {
	word, err := r.GetByLemma(lemma, pos, language)
	if err != nil {
		return nil, err
	}
	if word != nil {
		return word, nil
	}

	_, err = DB.Exec(`
		INSERT INTO words (lemma, pos, language)
		VALUES ($1, $2, $3)
		ON CONFLICT (lemma, pos, language) DO NOTHING
	`, lemma, pos, language)
	if err != nil {
		return nil, fmt.Errorf("failed to create word: %w", err)
	}

	word, err = r.GetByLemma(lemma, pos, language)
	if err != nil {
		return nil, err
	}
	if word == nil {
		return nil, fmt.Errorf("word not found after insert: %s/%s/%s", lemma, pos, language)
	}
	return word, nil
}

// AttachForm records a surface form for a word and returns it. Attaching the
// same surface twice is a no-op.
func (r *WordRepository) AttachForm(wordID int, surface string) (*models.WordForm, error) {
	_, err := DB.Exec(`
		INSERT INTO word_forms (word_id, surface)
		VALUES ($1, $2)
		ON CONFLICT (word_id, surface) DO NOTHING
	`, wordID, surface)
	if err != nil {
		return nil, fmt.Errorf("failed to attach word form: %w", err)
	}

	var form models.WordForm
	err = DB.Get(&form,
		"SELECT * FROM word_forms WHERE word_id = $1 AND surface = $2",
		wordID, surface)
	if err != nil {
		return nil, fmt.Errorf("failed to get word form: %w", err)
	}
	return &form, nil
}

// GetForms returns all surface forms observed for a word
func (r *WordRepository) GetForms(wordID int) ([]models.WordForm, error) {
	var forms []models.WordForm
	err := DB.Select(&forms,
		"SELECT * FROM word_forms WHERE word_id = $1 ORDER BY surface", wordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get word forms: %w", err)
	}
	return forms, nil
}
