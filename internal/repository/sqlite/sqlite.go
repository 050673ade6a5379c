// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C
// compiler installed and cross-compilation becomes painful. modernc.org/sqlite
// is a pure Go translation of the SQLite C code — no C compiler needed, works
// everywhere Go works.
//
// The schema here is the authority on data integrity: UNIQUE usernames,
// range CHECKs on proteins/calories, GLOB shape CHECKs on the date/time
// strings, and ON DELETE CASCADE from users to meals. Application-level
// validation rejects bad input first; these constraints are the backstop.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: the driver registers itself with database/sql
	// under the name "sqlite" in its init().
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// sql.DB is a pool, not a single connection — each request borrows a
// connection for the duration of a query and returns it automatically,
// which gives us the per-request acquire/release discipline for free.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and ensures the
// schema exists. Use ":memory:" for a throwaway database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open only prepares the pool; Ping forces a real connection so a
	// bad path or permissions problem surfaces now, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight — important
	// for a web server where several requests hit the database at once.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The users→meals cascade
	// depends on them, so turn them on unconditionally.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. The server defers this on shutdown so
// the WAL is flushed and the file lock released.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent,
// so it is safe to run on every startup against an existing database.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE
			              CHECK (LENGTH(username) <= 12 AND LENGTH(username) > 0),
			password_hash TEXT NOT NULL
			              CHECK (LENGTH(password_hash) > 0)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS meals (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id   INTEGER NOT NULL,
			proteins  REAL NOT NULL
			          CHECK (proteins >= 0.0 AND proteins <= 999.9 AND proteins = ROUND(proteins, 1)),
			calories  INTEGER NOT NULL
			          CHECK (calories >= 0 AND calories <= 9999),
			meal_date TEXT NOT NULL
			          CHECK (meal_date GLOB '[0-9][0-9][0-9][0-9]-[0-1][0-9]-[0-3][0-9]'),
			meal_time TEXT NOT NULL
			          CHECK (meal_time GLOB '[0-2][0-9]:[0-5][0-9]'),
			FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
		);
	`)
	if err != nil {
		return fmt.Errorf("creating meals table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_user_date ON meals (user_id, meal_date);
		CREATE INDEX IF NOT EXISTS idx_meal_date ON meals (meal_date);
	`)
	if err != nil {
		return fmt.Errorf("creating meal indexes: %w", err)
	}

	return nil
}
