package export

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/scanview/internal/datasource"
	"github.com/vanderheijden86/scanview/pkg/model"
	"github.com/vanderheijden86/scanview/pkg/rankings"
	"github.com/vanderheijden86/scanview/pkg/tree"
	"github.com/vanderheijden86/scanview/pkg/version"
)

// SQLiteExporter writes a snapshot database readable by datasource.SQLiteSource.
type SQLiteExporter struct {
	Catalog  *model.Catalog
	Taxonomy *model.CategoryNode
	Columns  []rankings.Column
	Source   string
}

// NewSQLiteExporter creates an exporter. Taxonomy and columns may be nil.
func NewSQLiteExporter(c *model.Catalog, tax *model.CategoryNode, cols []rankings.Column) *SQLiteExporter {
	return &SQLiteExporter{Catalog: c, Taxonomy: tax, Columns: cols}
}

// WriteSQLite writes catalog and taxonomy to a new database at path.
func WriteSQLite(path string, c *model.Catalog, tax *model.CategoryNode) error {
	return NewSQLiteExporter(c, tax, nil).Export(path)
}

// Export replaces any file at path with a fresh snapshot.
func (e *SQLiteExporter) Export(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	dbClosed := false
	defer func() {
		if !dbClosed {
			db.Close()
		}
	}()

	if _, err := db.Exec(datasource.SnapshotSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []struct {
		name string
		fn   func(*sql.Tx) error
	}{
		{"models", e.insertModels},
		{"nodes", e.insertNodes},
		{"taxonomy", e.insertTaxonomy},
		{"rankings", e.insertRankings},
		{"meta", e.insertMeta},
	}
	for _, s := range steps {
		if err := s.fn(tx); err != nil {
			return fmt.Errorf("insert %s: %w", s.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	dbClosed = true
	return nil
}

func (e *SQLiteExporter) insertModels(tx *sql.Tx) error {
	stmt, err := tx.Prepare(`INSERT INTO models (name, position, score, record) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, name := range e.Catalog.Names() {
		rec, _ := e.Catalog.Record(name)
		doc, err := rec.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if _, err := stmt.Exec(name, i, e.Catalog.Score(name), string(doc)); err != nil {
			return fmt.Errorf("insert model %s: %w", name, err)
		}
	}
	return nil
}

func (e *SQLiteExporter) insertNodes(tx *sql.Tx) error {
	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO nodes (model, path, name, depth, size, score, leaf)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, name := range e.Catalog.Names() {
		rec, _ := e.Catalog.Record(name)
		root := tree.BuildNode(name, rec, 0, true)
		var insertErr error
		root.Walk(func(n *tree.Node) bool {
			if insertErr != nil {
				return false
			}
			_, insertErr = stmt.Exec(name, n.Path(), n.Name, n.Depth, n.Size, n.Score, n.IsLeaf())
			return insertErr == nil
		})
		if insertErr != nil {
			return fmt.Errorf("insert nodes of %s: %w", name, insertErr)
		}
	}
	return nil
}

func (e *SQLiteExporter) insertTaxonomy(tx *sql.Tx) error {
	if e.Taxonomy == nil {
		return nil
	}
	doc, err := json.Marshal(e.Taxonomy)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO taxonomy (id, document) VALUES (1, ?)`, string(doc)); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO categories (path, name, key, depth, parent)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var insertErr error
	e.Taxonomy.Walk(func(n *model.CategoryNode, ancestors []string, depth int) bool {
		if insertErr != nil {
			return false
		}
		path := model.JoinPath(append(append([]string{}, ancestors...), n.Key)...)
		_, insertErr = stmt.Exec(path, n.Name, n.Key, depth, model.JoinPath(ancestors...))
		return insertErr == nil
	})
	return insertErr
}

func (e *SQLiteExporter) insertRankings(tx *sql.Tx) error {
	if len(e.Columns) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO rankings (path, model, position, ranking) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, col := range e.Columns {
		for _, entry := range col.Entries {
			var ranking *float64
			if entry.Ranked {
				r := entry.Ranking
				ranking = &r
			}
			if _, err := stmt.Exec(col.Path, entry.Model, entry.Position, ranking); err != nil {
				return fmt.Errorf("insert ranking %s/%s: %w", col.Path, entry.Model, err)
			}
		}
	}
	return nil
}

func (e *SQLiteExporter) insertMeta(tx *sql.Tx) error {
	meta := map[string]string{
		"version":     version.Version,
		"exported_at": time.Now().UTC().Format(time.RFC3339),
		"source":      e.Source,
		"model_count": strconv.Itoa(e.Catalog.Len()),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return err
		}
	}
	return nil
}
