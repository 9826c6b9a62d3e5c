// Package datasource fetches the raw JSON documents the viewer is built
// from. A Source lists per-model result files, fetches each one and fetches
// the category taxonomy. Three implementations exist: a local directory, the
// GitHub contents API and a SQLite snapshot written by `sv export`.
package datasource

import (
	"context"
	"errors"
	"fmt"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeDir is a local directory of per-model JSON files
	SourceTypeDir SourceType = "dir"
	// SourceTypeGitHub is a repository directory read through the GitHub contents API
	SourceTypeGitHub SourceType = "github"
	// SourceTypeSQLite is a snapshot database produced by the exporter
	SourceTypeSQLite SourceType = "sqlite"
)

// ErrNotFound is returned when a listed resource or the taxonomy is missing.
var ErrNotFound = errors.New("resource not found")

// Entry is one listed model resource.
type Entry struct {
	// Name is the resource file name, e.g. "gpt-4o.json"
	Name string `json:"name"`
	// Location is where Fetch reads it from: a path, URL or row key
	Location string `json:"location"`
	// Size is the resource size in bytes when the source reports it
	Size int64 `json:"size,omitempty"`
}

// Source is the fetch collaborator the loader depends on.
type Source interface {
	// Type reports the kind of source.
	Type() SourceType
	// Describe returns a short human-readable location, used in messages.
	Describe() string
	// List returns the JSON model resources in listing order.
	List(ctx context.Context) ([]Entry, error)
	// Fetch returns the raw bytes of one listed resource.
	Fetch(ctx context.Context, e Entry) ([]byte, error)
	// FetchTaxonomy returns the raw category taxonomy document.
	FetchTaxonomy(ctx context.Context) ([]byte, error)
}

// StatusError reports a non-success HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.URL, e.StatusCode, e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}
