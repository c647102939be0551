package store

import (
	"database/sql"
	"fmt"

	// SQLite driver registration
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	type          TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	content       TEXT NOT NULL DEFAULT '',
	outline       TEXT NOT NULL DEFAULT '[]',
	status        TEXT NOT NULL DEFAULT 'draft',
	progress      INTEGER NOT NULL DEFAULT 0,
	last_modified TIMESTAMP NOT NULL
);
`

// Open opens (creating if necessary) the SQLite database at path and
// applies the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite handles one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}
