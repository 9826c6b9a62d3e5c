package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// SnapshotSchema is the layout written by the exporter and read back by
// SQLiteSource. The models and taxonomy tables are authoritative; nodes,
// categories and rankings are denormalised for ad-hoc SQL.
const SnapshotSchema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS models (
	name     TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	score    REAL NOT NULL DEFAULT 0,
	record   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS taxonomy (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	document TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
	model TEXT NOT NULL,
	path  TEXT NOT NULL,
	name  TEXT NOT NULL,
	depth INTEGER NOT NULL,
	size  INTEGER NOT NULL,
	score REAL NOT NULL,
	leaf  INTEGER NOT NULL,
	PRIMARY KEY (model, path)
);
CREATE TABLE IF NOT EXISTS categories (
	path   TEXT PRIMARY KEY,
	name   TEXT NOT NULL,
	key    TEXT NOT NULL,
	depth  INTEGER NOT NULL,
	parent TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS rankings (
	path     TEXT NOT NULL,
	model    TEXT NOT NULL,
	position INTEGER NOT NULL,
	ranking  REAL,
	PRIMARY KEY (path, model)
);
CREATE INDEX IF NOT EXISTS idx_models_position ON models(position);
`

// SQLiteSource reads a snapshot database.
type SQLiteSource struct {
	db   *sql.DB
	path string
}

// IsSQLitePath reports whether path has a SQLite database extension.
func IsSQLitePath(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// NewSQLiteSource opens a snapshot database read-only.
func NewSQLiteSource(path string) (*SQLiteSource, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='models'`).Scan(&n); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot open database %s: %w", path, err)
	}
	if n == 0 {
		db.Close()
		return nil, fmt.Errorf("%s is not a snapshot database: missing models table", path)
	}

	// Best effort; a read-only handle may refuse some pragmas.
	for _, pragma := range []string{
		"PRAGMA cache_size = -16000",
		"PRAGMA temp_store = MEMORY",
	} {
		_, _ = db.Exec(pragma)
	}

	return &SQLiteSource{db: db, path: path}, nil
}

// Close closes the database connection
func (s *SQLiteSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteSource) Type() SourceType { return SourceTypeSQLite }

func (s *SQLiteSource) Describe() string { return s.path }

// List returns one entry per stored model in snapshot order. Location is
// the model name, which is the row key.
func (s *SQLiteSource) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, LENGTH(record) FROM models ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var name string
		var size int64
		if err := rows.Scan(&name, &size); err != nil {
			return nil, fmt.Errorf("scanning model row: %w", err)
		}
		entries = append(entries, Entry{Name: name + ".json", Location: name, Size: size})
	}
	return entries, rows.Err()
}

func (s *SQLiteSource) Fetch(ctx context.Context, e Entry) ([]byte, error) {
	var record string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM models WHERE name = ?`, e.Location).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("model %s: %w", e.Location, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading model %s: %w", e.Location, err)
	}
	return []byte(record), nil
}

func (s *SQLiteSource) FetchTaxonomy(ctx context.Context) ([]byte, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM taxonomy WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("taxonomy in %s: %w", s.path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy: %w", err)
	}
	return []byte(doc), nil
}
