package datasource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vanderheijden86/scanview/pkg/model"
)

// Default local layout: per-model files under processed_data/ and the
// taxonomy next to it.
const (
	DefaultDataDir = "processed_data"
)

// DirSource reads model files from a local directory.
type DirSource struct {
	Dir          string
	TaxonomyPath string
}

// NewDirSource returns a directory source. An empty taxonomy path means
// cata_tree.json in the parent of dir.
func NewDirSource(dir, taxonomy string) *DirSource {
	if taxonomy == "" {
		taxonomy = filepath.Join(filepath.Dir(filepath.Clean(dir)), model.TaxonomyFile)
	}
	return &DirSource{Dir: dir, TaxonomyPath: taxonomy}
}

func (s *DirSource) Type() SourceType { return SourceTypeDir }

func (s *DirSource) Describe() string { return s.Dir }

// List returns *.json files sorted case-insensitively, the way a directory
// index page presents them. The taxonomy file is never listed as a model.
func (s *DirSource) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to access %s: %w", s.Dir, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to access %s: %w", s.Dir, err)
	}

	taxonomyAbs, _ := filepath.Abs(s.TaxonomyPath)
	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !model.IsJSONFile(de.Name()) {
			continue
		}
		full := filepath.Join(s.Dir, de.Name())
		if abs, _ := filepath.Abs(full); abs == taxonomyAbs {
			continue
		}
		var size int64
		if info, err := de.Info(); err == nil {
			size = info.Size()
		}
		entries = append(entries, Entry{Name: de.Name(), Location: full, Size: size})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		li, lj := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if li != lj {
			return li < lj
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func (s *DirSource) Fetch(ctx context.Context, e Entry) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readFile(e.Location)
}

func (s *DirSource) FetchTaxonomy(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readFile(s.TaxonomyPath)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}
