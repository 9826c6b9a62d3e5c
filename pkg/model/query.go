package model

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// QueryResult holds the JSONPath matches found in one model's record.
type QueryResult struct {
	Model   string
	Matches []any
}

// Query evaluates a JSONPath expression such as "$.reasoning.math.ranking"
// against v.
func Query(v Value, expr string) ([]any, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing JSONPath %q: %w", expr, err)
	}
	return x.Get(v.Plain()), nil
}

// Query evaluates expr against every record in catalog order. Models
// without matches are omitted.
func (c *Catalog) Query(expr string) ([]QueryResult, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing JSONPath %q: %w", expr, err)
	}
	var results []QueryResult
	for _, name := range c.Names() {
		rec, _ := c.Record(name)
		matches := x.Get(rec.Plain())
		if len(matches) == 0 {
			continue
		}
		results = append(results, QueryResult{Model: name, Matches: matches})
	}
	return results, nil
}
