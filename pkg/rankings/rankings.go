// Package rankings orders every loaded model by the "ranking" value found
// at a category path inside its record.
package rankings

import (
	"math"
	"sort"
	"strconv"

	"github.com/vanderheijden86/scanview/pkg/metrics"
	"github.com/vanderheijden86/scanview/pkg/model"
	"github.com/vanderheijden86/scanview/pkg/tree"
)

// NotAvailable is shown in place of a missing ranking.
const NotAvailable = "N/A"

// Placeholder is rendered instead of columns when no category is selected.
const Placeholder = "Please select categories from the tree above to view rankings."

// Entry is one row of a rankings column.
type Entry struct {
	Position int     `json:"position"`
	Model    string  `json:"model"`
	Ranking  float64 `json:"-"`
	Ranked   bool    `json:"ranked"`
}

// Display returns the ranking formatted for humans, or N/A.
func (e Entry) Display() string {
	if !e.Ranked {
		return NotAvailable
	}
	return FormatRanking(e.Ranking)
}

// Column is the ranking of all models for one category path.
type Column struct {
	Path    string  `json:"path"`
	Header  string  `json:"header"`
	Entries []Entry `json:"entries"`
}

// Header returns the column title for path: its last segment.
func Header(path string) string {
	segs := model.SplitPath(path)
	return segs[len(segs)-1]
}

// FormatRanking renders a ranking in its shortest decimal form.
func FormatRanking(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RankingAt resolves path inside rec and returns the ranking stored there.
// The second result is false when the path is absent, does not lead to a
// mapping, or the mapping has no numeric ranking.
func RankingAt(rec model.Value, path string) (float64, bool) {
	v, ok := model.Resolve(rec, path)
	if !ok {
		return 0, false
	}
	raw, ok := v.Field(tree.KeyRanking)
	if !ok {
		return 0, false
	}
	return raw.Number()
}

// Compute ranks every model in the catalog for path. Unranked models sort
// last as if their ranking were +Inf; ties keep catalog order. Positions
// are 1-based and assigned after sorting.
func Compute(c *model.Catalog, path string) Column {
	defer metrics.Timer(metrics.RankingCompute)()

	names := c.Names()
	entries := make([]Entry, len(names))
	for i, name := range names {
		rec, _ := c.Record(name)
		r, ok := RankingAt(rec, path)
		if !ok {
			r = math.Inf(1)
		}
		entries[i] = Entry{Model: name, Ranking: r, Ranked: ok}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Ranking < entries[j].Ranking
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return Column{Path: path, Header: Header(path), Entries: entries}
}

// ComputeAll returns one column per path, in the given order. No paths
// means no columns; callers show Placeholder instead.
func ComputeAll(c *model.Catalog, paths []string) []Column {
	if len(paths) == 0 {
		return nil
	}
	cols := make([]Column, len(paths))
	for i, p := range paths {
		cols[i] = Compute(c, p)
	}
	return cols
}
