package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/scanview/pkg/model"
	"github.com/vanderheijden86/scanview/pkg/rankings"
)

// AssertModelCount verifies the number of models in a catalog.
func AssertModelCount(t *testing.T, c *model.Catalog, expected int) {
	t.Helper()
	if c.Len() != expected {
		t.Errorf("expected %d models, got %d", expected, c.Len())
	}
}

// AssertModelNames verifies catalog order.
func AssertModelNames(t *testing.T, c *model.Catalog, expected ...string) {
	t.Helper()
	got := strings.Join(c.Names(), ",")
	want := strings.Join(expected, ",")
	if got != want {
		t.Errorf("model names = %s, want %s", got, want)
	}
}

// AssertRankingOrder verifies that a column lists ranked entries in
// ascending ranking order, followed by every unranked entry, with
// positions counting from 1.
func AssertRankingOrder(t *testing.T, col rankings.Column) {
	t.Helper()
	seenUnranked := false
	prev := 0.0
	for i, e := range col.Entries {
		if e.Position != i+1 {
			t.Errorf("%s: entry %d has position %d", col.Path, i, e.Position)
		}
		if !e.Ranked {
			seenUnranked = true
			continue
		}
		if seenUnranked {
			t.Errorf("%s: ranked entry %s listed after an unranked one", col.Path, e.Model)
		}
		if i > 0 && e.Ranking < prev {
			t.Errorf("%s: %s ranking %v below previous %v", col.Path, e.Model, e.Ranking, prev)
		}
		prev = e.Ranking
	}
}

// AssertJSONEqual compares two values after JSON encoding.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file, or rewrites the
// file when GENERATE_GOLDEN is set.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()
	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}
	if string(expected) == actual {
		return
	}

	expectedLines := strings.Split(string(expected), "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, expLine, actLine)
			return
		}
	}
	g.t.Errorf("golden file mismatch (length differs)")
}

// Data directory helpers

// DataDirName is the directory model files are written to.
const DataDirName = "processed_data"

// WriteDataDir lays out <tmp>/processed_data/<model>.json for every model
// in c and, when tax is not nil, <tmp>/cata_tree.json next to it. It
// returns the processed_data directory.
func WriteDataDir(t *testing.T, c *model.Catalog, tax *model.CategoryNode) string {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, DataDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create data dir: %v", err)
	}
	for _, name := range c.Names() {
		rec, _ := c.Record(name)
		WriteFile(t, filepath.Join(dir, name+".json"), ToJSON(rec))
	}
	if tax != nil {
		WriteFile(t, filepath.Join(root, model.TaxonomyFile), ToJSON(tax))
	}
	return dir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
