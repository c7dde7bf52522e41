package db

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/billmal071/booksearch/internal/config"
	_ "modernc.org/sqlite"
)

var database *sql.DB

const schema = `
CREATE TABLE IF NOT EXISTS search_history (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    query           TEXT NOT NULL,
    result_count    INTEGER DEFAULT 0,
    outcome         TEXT NOT NULL DEFAULT 'ok',
    created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_search_history_query ON search_history(query);
`

// Init opens the history database at the configured path
func Init() error {
	return Open(config.GetDBPath())
}

// Open opens (creating if needed) the database at dbPath and applies the schema
func Open(dbPath string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	// Create schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return err
	}

	database = db
	return nil
}

// DB returns the database connection
func DB() *sql.DB {
	return database
}

// IsOpen reports whether Init or Open succeeded
func IsOpen() bool {
	return database != nil
}

// Close closes the database connection
func Close() error {
	if database != nil {
		err := database.Close()
		database = nil
		return err
	}
	return nil
}
