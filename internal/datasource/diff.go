package datasource

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vanderheijden86/scanview/pkg/model"
)

// CatalogDiff represents differences between two loads of a catalog,
// typically before and after a live reload.
type CatalogDiff struct {
	// Added contains models present only in the new catalog
	Added []string
	// Removed contains models present only in the old catalog
	Removed []string
	// Changed contains models whose record differs
	Changed []ScoreDifference
	// CountOld is the number of models before
	CountOld int
	// CountNew is the number of models after
	CountNew int
}

// ScoreDifference records a changed model and its root score on each side.
type ScoreDifference struct {
	Model    string  `json:"model"`
	ScoreOld float64 `json:"score_old"`
	ScoreNew float64 `json:"score_new"`
}

// HasChanges returns true if the two catalogs differ
func (d CatalogDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Changed) > 0
}

// Summary returns a one-line description, used as the reload status message.
func (d CatalogDiff) Summary() string {
	if !d.HasChanges() {
		return fmt.Sprintf("No changes (%d models)", d.CountNew)
	}

	var parts []string
	if len(d.Added) > 0 {
		parts = append(parts, fmt.Sprintf("+%d %s", len(d.Added), listPreview(d.Added)))
	}
	if len(d.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("-%d %s", len(d.Removed), listPreview(d.Removed)))
	}
	if len(d.Changed) > 0 {
		names := make([]string, len(d.Changed))
		for i, c := range d.Changed {
			names[i] = c.Model
		}
		parts = append(parts, fmt.Sprintf("~%d %s", len(d.Changed), listPreview(names)))
	}
	return fmt.Sprintf("%d models: %s", d.CountNew, strings.Join(parts, ", "))
}

func listPreview(names []string) string {
	const max = 3
	if len(names) <= max {
		return "(" + strings.Join(names, ", ") + ")"
	}
	return "(" + strings.Join(names[:max], ", ") + ", …)"
}

// DiffCatalogs compares two catalogs. Records are compared by their
// order-preserving serialisation, so reordering keys counts as a change.
func DiffCatalogs(older, newer *model.Catalog) CatalogDiff {
	diff := CatalogDiff{CountOld: older.Len(), CountNew: newer.Len()}

	for _, name := range newer.Names() {
		recNew, _ := newer.Record(name)
		recOld, ok := older.Record(name)
		if !ok {
			diff.Added = append(diff.Added, name)
			continue
		}
		if !sameRecord(recOld, recNew) {
			diff.Changed = append(diff.Changed, ScoreDifference{
				Model:    name,
				ScoreOld: older.Score(name),
				ScoreNew: newer.Score(name),
			})
		}
	}
	for _, name := range older.Names() {
		if _, ok := newer.Record(name); !ok {
			diff.Removed = append(diff.Removed, name)
		}
	}
	return diff
}

func sameRecord(a, b model.Value) bool {
	ab, errA := a.MarshalJSON()
	bb, errB := b.MarshalJSON()
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
