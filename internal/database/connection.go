package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. DB_TYPE selects the
// driver: "postgres" uses DATABASE_URL, anything else falls back to a local
// SQLite file under the data directory.
func Connect() error {
	if os.Getenv("DB_TYPE") == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}

		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		DB = db
		return initializeSchema()
	}

	// Create data directory if it doesn't exist
	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "lexengine.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return initializeSchema()
}

// ConnectInMemory opens an ephemeral in-memory SQLite database. Used by tests.
func ConnectInMemory() error {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open in-memory database: %w", err)
	}

	// A second connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS words (
				id %s,
				lemma TEXT NOT NULL,
				pos TEXT NOT NULL,
				language TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(lemma, pos, language)
			)
		`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS word_forms (
				id %s,
				word_id INTEGER NOT NULL,
				surface TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (word_id) REFERENCES words(id),
				UNIQUE(word_id, surface)
			)
		`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS learners (
				id %s,
				client_id TEXT NOT NULL,
				language TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(client_id, language)
			)
		`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS interactions (
				id %s,
				learner_id INTEGER NOT NULL,
				word_id INTEGER NOT NULL,
				form_id INTEGER,
				kind TEXT NOT NULL DEFAULT 'passive_read',
				correctness REAL,
				weight REAL NOT NULL DEFAULT 0,
				timestamp TIMESTAMP NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (learner_id) REFERENCES learners(id),
				FOREIGN KEY (word_id) REFERENCES words(id)
			)
		`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS user_word_statistics (
				id %s,
				learner_id INTEGER NOT NULL,
				word_id INTEGER NOT NULL,
				weighted_7_days REAL NOT NULL DEFAULT 0,
				weighted_30_days REAL NOT NULL DEFAULT 0,
				total_interactions_7_days INTEGER NOT NULL DEFAULT 0,
				total_interactions_30_days INTEGER NOT NULL DEFAULT 0,
				score REAL NOT NULL DEFAULT 0,
				last_updated TIMESTAMP NOT NULL,
				version INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (learner_id) REFERENCES learners(id),
				FOREIGN KEY (word_id) REFERENCES words(id),
				UNIQUE(learner_id, word_id)
			)
		`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS review_items (
				id %s,
				learner_id INTEGER NOT NULL,
				word_id INTEGER NOT NULL,
				exercise_type TEXT NOT NULL DEFAULT 'flashcard',
				ease_factor REAL NOT NULL DEFAULT 2.5,
				interval_days INTEGER NOT NULL DEFAULT 0,
				consecutive_correct INTEGER NOT NULL DEFAULT 0,
				review_count INTEGER NOT NULL DEFAULT 0,
				lapse_count INTEGER NOT NULL DEFAULT 0,
				last_reviewed_at TIMESTAMP,
				due_at TIMESTAMP NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (learner_id) REFERENCES learners(id),
				FOREIGN KEY (word_id) REFERENCES words(id),
				UNIQUE(learner_id, word_id, exercise_type)
			)
		`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS review_attempts (
				id %s,
				request_id TEXT NOT NULL,
				item_id INTEGER NOT NULL,
				learner_id INTEGER NOT NULL,
				word_id INTEGER NOT NULL,
				exercise_type TEXT NOT NULL,
				grade TEXT NOT NULL,
				prompt_text TEXT NOT NULL DEFAULT '',
				expected_answer TEXT NOT NULL DEFAULT '',
				user_answer TEXT NOT NULL DEFAULT '',
				is_correct BOOLEAN NOT NULL DEFAULT false,
				latency_ms INTEGER,
				hints_used INTEGER NOT NULL DEFAULT 0,
				previous_ease_factor REAL NOT NULL,
				next_ease_factor REAL NOT NULL,
				previous_interval_days INTEGER NOT NULL,
				next_interval_days INTEGER NOT NULL,
				next_due_at TIMESTAMP NOT NULL,
				reviewed_at TIMESTAMP NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (item_id) REFERENCES review_items(id),
				FOREIGN KEY (learner_id) REFERENCES learners(id)
			)
		`, serial),
		`CREATE INDEX IF NOT EXISTS idx_interactions_learner_word ON interactions(learner_id, word_id)`,
		`CREATE INDEX IF NOT EXISTS idx_review_items_due_at ON review_items(due_at)`,
		`CREATE INDEX IF NOT EXISTS idx_review_attempts_item_id ON review_attempts(item_id)`,
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
