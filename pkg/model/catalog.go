package model

import (
	"path"
	"strings"
)

// Catalog maps model names to their records and remembers load order.
// A catalog is assembled once by the loader and treated as read-only by
// every view.
type Catalog struct {
	names   []string
	records map[string]Value
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{records: make(map[string]Value)}
}

// Add stores rec under name. Re-adding a name replaces the record and keeps
// its original position.
func (c *Catalog) Add(name string, rec Value) {
	if _, ok := c.records[name]; !ok {
		c.names = append(c.names, name)
	}
	c.records[name] = rec
}

// Names returns model names in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Record returns the record stored under name.
func (c *Catalog) Record(name string) (Value, bool) {
	if c == nil {
		return Value{}, false
	}
	rec, ok := c.records[name]
	return rec, ok
}

// Len returns the number of models.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Score returns the top-level score of a model, or 0 when the model is
// unknown or its score is not a number.
func (c *Catalog) Score(name string) float64 {
	rec, ok := c.Record(name)
	if !ok {
		return 0
	}
	score, _ := rec.Field("score")
	f, _ := score.Number()
	return f
}

// ModelName derives a model name from a resource file name by dropping a
// trailing ".json" in any letter case.
func ModelName(file string) string {
	base := path.Base(strings.ReplaceAll(file, "\\", "/"))
	if len(base) >= 5 && strings.EqualFold(base[len(base)-5:], ".json") {
		return base[:len(base)-5]
	}
	return base
}

// IsJSONFile reports whether a resource name carries a .json extension.
func IsJSONFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".json")
}
