package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mglenn/folio/internal/normalize"
)

// Store wraps a SQLite catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates a catalog database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin starts a transaction. All reads and writes of one import call run
// inside a single transaction so a dry run can roll the whole call back.
func (s *Store) Begin() (*Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// WithTx runs fn inside a committed transaction, rolling back on error.
func (s *Store) WithTx(fn func(*Tx) error) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Tx is a catalog transaction.
type Tx struct {
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Rollback discards the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS journals (
			id INTEGER PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			issn TEXT NOT NULL DEFAULT '0000-0000'
		);

		CREATE TABLE IF NOT EXISTS issue_types (
			id INTEGER PRIMARY KEY,
			journal_id INTEGER NOT NULL REFERENCES journals(id),
			code TEXT NOT NULL,
			UNIQUE (journal_id, code)
		);

		CREATE TABLE IF NOT EXISTS issues (
			id INTEGER PRIMARY KEY,
			journal_id INTEGER NOT NULL REFERENCES journals(id),
			issue_type_id INTEGER NOT NULL REFERENCES issue_types(id),
			volume INTEGER NOT NULL DEFAULT 0,
			number INTEGER NOT NULL DEFAULT 0,
			title TEXT NOT NULL DEFAULT '',
			pub_date TEXT,
			UNIQUE (journal_id, volume, number)
		);

		CREATE TABLE IF NOT EXISTS sections (
			id INTEGER PRIMARY KEY,
			journal_id INTEGER NOT NULL REFERENCES journals(id),
			name TEXT NOT NULL,
			UNIQUE (journal_id, name)
		);

		CREATE TABLE IF NOT EXISTS accounts (
			id INTEGER PRIMARY KEY,
			email TEXT NOT NULL DEFAULT '',
			salutation TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			middle_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			suffix TEXT NOT NULL DEFAULT '',
			orcid TEXT NOT NULL DEFAULT '',
			institution TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL DEFAULT '',
			biography TEXT NOT NULL DEFAULT '',
			is_corporate INTEGER NOT NULL DEFAULT 0,
			password_hash TEXT NOT NULL DEFAULT ''
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_email
			ON accounts(email) WHERE email != '';

		CREATE TABLE IF NOT EXISTS articles (
			id INTEGER PRIMARY KEY,
			journal_id INTEGER NOT NULL REFERENCES journals(id),
			issue_id INTEGER REFERENCES issues(id),
			owner_id INTEGER REFERENCES accounts(id),
			title TEXT NOT NULL DEFAULT '',
			abstract TEXT NOT NULL DEFAULT '',
			rights TEXT NOT NULL DEFAULT '',
			licence TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			peer_reviewed INTEGER NOT NULL DEFAULT 0,
			doi TEXT NOT NULL DEFAULT '',
			date_accepted TEXT,
			date_published TEXT,
			article_number TEXT NOT NULL DEFAULT '',
			first_page INTEGER,
			last_page INTEGER,
			page_numbers TEXT NOT NULL DEFAULT '',
			competing_interests TEXT NOT NULL DEFAULT '',
			section_id INTEGER REFERENCES sections(id),
			stage TEXT NOT NULL DEFAULT 'Unassigned',
			publication_title TEXT NOT NULL DEFAULT '',
			correspondence_author_id INTEGER REFERENCES accounts(id),
			agreement TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS keywords (
			article_id INTEGER NOT NULL REFERENCES articles(id),
			pos INTEGER NOT NULL,
			word TEXT NOT NULL,
			PRIMARY KEY (article_id, pos)
		);

		CREATE TABLE IF NOT EXISTS article_authors (
			article_id INTEGER NOT NULL REFERENCES articles(id),
			account_id INTEGER NOT NULL REFERENCES accounts(id),
			PRIMARY KEY (article_id, account_id)
		);

		CREATE TABLE IF NOT EXISTS frozen_authors (
			id INTEGER PRIMARY KEY,
			article_id INTEGER NOT NULL REFERENCES articles(id),
			account_id INTEGER REFERENCES accounts(id),
			ord INTEGER NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			middle_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			suffix TEXT NOT NULL DEFAULT '',
			institution TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL DEFAULT '',
			biography TEXT NOT NULL DEFAULT '',
			orcid TEXT NOT NULL DEFAULT '',
			is_corporate INTEGER NOT NULL DEFAULT 0,
			UNIQUE (article_id, ord)
		);

		CREATE TABLE IF NOT EXISTS workflow_elements (
			journal_id INTEGER NOT NULL REFERENCES journals(id),
			stage TEXT NOT NULL,
			PRIMARY KEY (journal_id, stage)
		);

		CREATE TABLE IF NOT EXISTS fields (
			id INTEGER PRIMARY KEY,
			journal_id INTEGER NOT NULL REFERENCES journals(id),
			name TEXT NOT NULL,
			UNIQUE (journal_id, name)
		);

		CREATE TABLE IF NOT EXISTS field_answers (
			article_id INTEGER NOT NULL REFERENCES articles(id),
			field_id INTEGER NOT NULL REFERENCES fields(id),
			answer TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (article_id, field_id)
		);
	`
	_, err := db.Exec(schema)
	return err
}

// nullTime formats an optional instant for storage, preserving its offset.
func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: normalize.FormatTime(*t), Valid: true}
}

// scanTime parses a stored instant back into an optional time.
func scanTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(normalize.ISOFormat, s.String)
	if err != nil {
		return nil, fmt.Errorf("parsing stored instant %q: %w", s.String, err)
	}
	return &t, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func scanInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func scanInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
