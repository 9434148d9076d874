// Package store loads the filtered dataset into an in-memory SQLite
// table so that reporting can aggregate over it with plain SQL. The
// store lives for one run and is discarded with the process; nothing
// is persisted.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE Play (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts INTEGER,
  day TEXT,
  hour INTEGER,
  month TEXT,
  artist TEXT,
  track TEXT,
  track_artist TEXT,
  ms_played INTEGER,
  episode TEXT,
  skipped INTEGER,
  reason_end TEXT,
  platform TEXT,
  conn_country TEXT
);
`

func New() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
