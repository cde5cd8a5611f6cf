package models

import "time"

// Learner identifies a client studying a specific language. All statistics and
// scheduling state belong to a learner. Created on first interaction.
type Learner struct {
	ID        int64     `json:"id" db:"id"`
	ClientID  string    `json:"client_id" db:"client_id"`
	Language  string    `json:"language" db:"language"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
