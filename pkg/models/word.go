package models

import "time"

// Word represents a vocabulary item: a lemma with its part of speech in a given language
type Word struct {
	ID        int       `json:"id" db:"id"`
	Lemma     string    `json:"lemma" db:"lemma"`
	POS       string    `json:"pos" db:"pos"` // Universal Dependencies tag (NOUN, VERB, DET, ...)
	Language  string    `json:"language" db:"language"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WordForm is a surface form observed for a word (e.g. an inflected variant of the lemma)
type WordForm struct {
	ID        int       `json:"id" db:"id"`
	WordID    int       `json:"word_id" db:"word_id"`
	Surface   string    `json:"surface" db:"surface"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
