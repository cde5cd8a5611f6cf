package ingest

import "time"

// Token is one analysed token carried by an ingestion event
type Token struct {
	Surface string `json:"surface"`
	Lemma   string `json:"lemma"`
	POS     string `json:"pos"`
}

// Event is one interaction observed by an upstream producer (chat, courses,
// translation, flashcards, imports). The vocabulary item is identified either
// by WordID for known words or by Token for raw text ingestion.
type Event struct {
	RequestID   string    `json:"request_id,omitempty"`
	ClientID    string    `json:"client_id"`
	Language    string    `json:"language"`
	WordID      int       `json:"word_id,omitempty"`
	Token       *Token    `json:"token,omitempty"`
	Kind        string    `json:"kind"`
	Correctness *float64  `json:"correctness,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// skippablePOS marks grammatical categories that carry no vocabulary signal
var skippablePOS = map[string]bool{
	"PUNCT": true,
	"NUM":   true,
	"SYM":   true,
	"X":     true,
}
