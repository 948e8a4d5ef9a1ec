// Package runs persists plugin verification runs in a local SQLite ledger
// so past results can be listed and inspected after the fact.
package runs

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// DefaultListLimit is the number of runs List returns when no limit is given.
const DefaultListLimit = 20

// ErrRunNotFound is returned by Get when no run matches the given id or prefix.
var ErrRunNotFound = errors.New("run not found")

// Record is one verification run as stored in the ledger.
type Record struct {
	ID             string        `json:"id"`
	Plugin         string        `json:"plugin"`
	ConversationID string        `json:"conversation_id"`
	Message        string        `json:"message"`
	Pattern        string        `json:"pattern"`
	Regex          bool          `json:"regex"`
	Matched        bool          `json:"matched"`
	Status         string        `json:"status"`
	Duration       time.Duration `json:"-"`
	DurationMS     int64         `json:"duration_ms"`
	StartedAt      time.Time     `json:"started_at"`
	FinishedAt     time.Time     `json:"finished_at"`
}

// Store is a handle to the run ledger database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path.
// The parent directory is created with 0700 permissions.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "creating state dir")
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening run ledger")
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "pragma %q", p)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrating run ledger")
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id              TEXT PRIMARY KEY,
			plugin          TEXT NOT NULL,
			conversation_id TEXT NOT NULL DEFAULT '',
			message         TEXT NOT NULL,
			pattern         TEXT NOT NULL,
			regex           INTEGER NOT NULL DEFAULT 0,
			matched         INTEGER NOT NULL DEFAULT 0,
			status          TEXT NOT NULL DEFAULT '',
			duration_ms     INTEGER NOT NULL DEFAULT 0,
			started_at      TEXT NOT NULL DEFAULT (datetime('now')),
			finished_at     TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save inserts a completed run into the ledger.
func (s *Store) Save(rec *Record) error {
	if rec.ID == "" {
		return errors.New("run id is required")
	}
	durMS := rec.DurationMS
	if durMS == 0 && rec.Duration > 0 {
		durMS = rec.Duration.Milliseconds()
	}
	_, err := s.db.Exec(`
		INSERT INTO runs (id, plugin, conversation_id, message, pattern, regex, matched, status, duration_ms, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Plugin,
		rec.ConversationID,
		rec.Message,
		rec.Pattern,
		boolToInt(rec.Regex),
		boolToInt(rec.Matched),
		rec.Status,
		durMS,
		formatTime(rec.StartedAt),
		formatTime(rec.FinishedAt),
	)
	if err != nil {
		return errors.Wrapf(err, "saving run %s", rec.ID)
	}
	return nil
}

// List returns the most recent runs, newest first. A non-positive limit
// uses DefaultListLimit.
func (s *Store) List(limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.Query(`
		SELECT id, plugin, conversation_id, message, pattern, regex, matched, status, duration_ms, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "listing runs")
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "listing runs")
	}
	return records, nil
}

// Get returns the run whose id equals idOrPrefix, or the single run whose
// id starts with it. It returns ErrRunNotFound when nothing matches and an
// error when the prefix is ambiguous.
func (s *Store) Get(idOrPrefix string) (*Record, error) {
	if idOrPrefix == "" {
		return nil, ErrRunNotFound
	}

	row := s.db.QueryRow(`
		SELECT id, plugin, conversation_id, message, pattern, regex, matched, status, duration_ms, started_at, finished_at
		FROM runs WHERE id = ?`, idOrPrefix)
	rec, err := scanRecord(row)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, plugin, conversation_id, message, pattern, regex, matched, status, duration_ms, started_at, finished_at
		FROM runs WHERE id LIKE ? ESCAPE '\'
		LIMIT 2`, escapeLike(idOrPrefix)+"%")
	if err != nil {
		return nil, errors.Wrapf(err, "looking up run %s", idOrPrefix)
	}
	defer rows.Close()

	var matches []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "looking up run %s", idOrPrefix)
	}

	switch len(matches) {
	case 0:
		return nil, ErrRunNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, errors.Newf("run id %q is ambiguous", idOrPrefix)
	}
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec      Record
		regex    int
		matched  int
		started  string
		finished string
	)
	err := row.Scan(
		&rec.ID,
		&rec.Plugin,
		&rec.ConversationID,
		&rec.Message,
		&rec.Pattern,
		&regex,
		&matched,
		&rec.Status,
		&rec.DurationMS,
		&started,
		&finished,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, "scanning run")
	}
	rec.Regex = regex != 0
	rec.Matched = matched != 0
	rec.Duration = time.Duration(rec.DurationMS) * time.Millisecond
	rec.StartedAt = parseTime(started)
	rec.FinishedAt = parseTime(finished)
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// escapeLike escapes LIKE metacharacters so a user-supplied prefix matches
// literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
