package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("store: not found")

// Table names.
const (
	tableSubmissions  = "submissions"
	tableStandards    = "submission_standards"
	tableTests        = "tests"
	tableClassMembers = "class_members"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		student_id TEXT NOT NULL,
		test_id TEXT NOT NULL,
		score INTEGER NOT NULL,
		submitted_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS submissions_student ON submissions (student_id)`,
	`CREATE INDEX IF NOT EXISTS submissions_test ON submissions (test_id)`,
	`CREATE INDEX IF NOT EXISTS submissions_order ON submissions (submitted_at, seq)`,
	`CREATE TABLE IF NOT EXISTS submission_standards (
		submission_id TEXT NOT NULL REFERENCES submissions (id) ON DELETE CASCADE,
		standard TEXT NOT NULL,
		correct INTEGER NOT NULL,
		total INTEGER NOT NULL,
		PRIMARY KEY (submission_id, standard)
	)`,
	`CREATE INDEX IF NOT EXISTS submission_standards_standard ON submission_standards (standard)`,
	`CREATE TABLE IF NOT EXISTS tests (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		class_id TEXT NOT NULL DEFAULT '',
		questions TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS class_members (
		class_id TEXT NOT NULL,
		student_id TEXT NOT NULL,
		PRIMARY KEY (class_id, student_id)
	)`,
}

// Store owns the SQLite connection and hands out repositories.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// Every pooled connection gets the store pragmas, and the schema is
// created if needed.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Submissions returns a SubmissionRepo backed by this store.
func (s *Store) Submissions() SubmissionRepo {
	return &submissionRepo{db: s.db, seq: s.seq}
}

// Tests returns a TestRepo backed by this store.
func (s *Store) Tests() TestRepo {
	return &testRepo{db: s.db}
}

// Classes returns a ClassRepo backed by this store.
func (s *Store) Classes() ClassRepo {
	return &classRepo{db: s.db}
}

// Stats reports row counts across the store.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	counts := []struct {
		dst   *int
		table string
		expr  string
	}{
		{&st.Submissions, tableSubmissions, entsql.Count("*")},
		{&st.Students, tableSubmissions, entsql.Count(entsql.Distinct("student_id"))},
		{&st.Tests, tableTests, entsql.Count("*")},
		{&st.Standards, tableStandards, entsql.Count(entsql.Distinct("standard"))},
		{&st.Classes, tableClassMembers, entsql.Count(entsql.Distinct("class_id"))},
	}
	for _, c := range counts {
		q, args := builder().Select(c.expr).From(entsql.Table(c.table)).Query()
		if err := s.db.QueryRowContext(ctx, q, args...).Scan(c.dst); err != nil {
			return Stats{}, fmt.Errorf("count %s: %w", c.table, err)
		}
	}
	return st, nil
}

// Reset deletes every submission, test and enrollment. The sequence counter
// is left alone so ordering stays monotonic across resets.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{tableStandards, tableSubmissions, tableTests, tableClassMembers} {
		q, args := builder().Delete(table).Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// pragmas run on every new connection the driver opens.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

// withPragmas turns a database path into a file: URI carrying the
// connection pragmas as _pragma parameters.
func withPragmas(dsn string) string {
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	var b strings.Builder
	b.WriteString(dsn)
	for _, p := range pragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// DefaultDBPath resolves the database file path in priority order:
// 1. QUIZMARK_DB environment variable
// 2. $XDG_DATA_HOME/quizmark/quizmark.db
// 3. ~/.local/share/quizmark/quizmark.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("QUIZMARK_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "quizmark", "quizmark.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
