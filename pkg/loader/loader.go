// Package loader turns a datasource into a ready catalog. Files are fetched
// in parallel; the catalog is assembled in listing order only after every
// fetch has finished, so callers never observe a partial catalog.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/scanview/internal/datasource"
	"github.com/vanderheijden86/scanview/pkg/debug"
	"github.com/vanderheijden86/scanview/pkg/metrics"
	"github.com/vanderheijden86/scanview/pkg/model"
)

// Mode selects how per-file failures are treated.
type Mode int

const (
	// Strict aborts the whole load on the first listing or file failure.
	Strict Mode = iota
	// Tolerant skips failed files and reports them in Result.Failures.
	Tolerant
)

func (m Mode) String() string {
	if m == Tolerant {
		return "tolerant"
	}
	return "strict"
}

// DefaultConcurrency bounds parallel fetches when Options.Concurrency is 0.
const DefaultConcurrency = 8

// Progress is one loading-screen update.
type Progress struct {
	Percent float64
	Detail  string
}

// ProgressFunc receives progress updates. Calls are serialised.
type ProgressFunc func(Progress)

// Options configures LoadCatalog.
type Options struct {
	Mode        Mode
	Concurrency int
	Progress    ProgressFunc
	// Logger receives per-file failure details. Defaults to discarding.
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	if o.Progress == nil {
		o.Progress = func(Progress) {}
	}
	return o
}

// Failure records one file that could not be loaded.
type Failure struct {
	Name string
	Err  error
}

// Result is a completed catalog load.
type Result struct {
	Catalog  *model.Catalog
	Source   string
	Listed   int
	Failures []Failure
	Elapsed  time.Duration
}

// Loaded is the number of models in the catalog.
func (r *Result) Loaded() int {
	return r.Catalog.Len()
}

// ParseRecord decodes one model file. A UTF-8 BOM is ignored.
func ParseRecord(data []byte) (model.Value, error) {
	defer metrics.Timer(metrics.JSONParsing)()
	return model.Parse(stripBOM(data))
}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
}

type fileResult struct {
	name string
	rec  model.Value
	err  error
	done bool
}

// LoadCatalog lists src, fetches and parses every model file and returns
// the assembled catalog. All failures are returned as *LoadError.
func LoadCatalog(ctx context.Context, src datasource.Source, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	start := time.Now()
	defer metrics.TimerWithCallback(metrics.CatalogLoad, func(d time.Duration) {
		debug.LogTiming("LoadCatalog "+src.Describe(), d)
	})()

	var mu sync.Mutex
	report := func(pct float64, format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		opts.Progress(Progress{Percent: pct, Detail: fmt.Sprintf(format, args...)})
	}

	if src.Type() == datasource.SourceTypeGitHub {
		report(10, "Fetching file list from GitHub API...")
	} else {
		report(10, "Fetching directory listing...")
	}
	entries, err := src.List(ctx)
	if err != nil {
		return nil, catalogError(err.Error(), err)
	}
	if len(entries) == 0 {
		return nil, catalogError(fmt.Sprintf("No JSON files found in %s.", src.Describe()), nil)
	}
	report(25, "Found %d JSON files, loading...", len(entries))
	debug.Log("loader: %d entries from %s (%s mode)", len(entries), src.Describe(), opts.Mode)

	results := make([]fileResult, len(entries))
	completed := 0
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, e := range entries {
		g.Go(func() error {
			verb := "Loaded"
			rec, err := fetchRecord(gctx, src, e)
			if err != nil {
				err = fmt.Errorf("Failed to load %s: %w", e.Name, err)
				if opts.Mode == Strict {
					return err
				}
				opts.Logger.Printf("skipping %s: %v", e.Name, err)
				verb = "Skipped"
			}
			results[i] = fileResult{name: e.Name, rec: rec, err: err, done: true}

			// Skipped files still advance the counter so it ends at n/n.
			mu.Lock()
			completed++
			opts.Progress(Progress{
				Percent: 25 + float64(completed)/float64(len(entries))*70,
				Detail:  fmt.Sprintf("%s %s (%d/%d)", verb, e.Name, completed, len(entries)),
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, catalogError(err.Error(), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, catalogError(err.Error(), err)
	}

	report(95, "Processing model data...")
	res := &Result{Catalog: model.NewCatalog(), Source: src.Describe(), Listed: len(entries)}
	for _, r := range results {
		if !r.done {
			continue
		}
		if r.err != nil {
			res.Failures = append(res.Failures, Failure{Name: r.name, Err: r.err})
			continue
		}
		res.Catalog.Add(model.ModelName(r.name), r.rec)
	}

	if res.Catalog.Len() == 0 {
		msg := "No valid model data found in the loaded files."
		if opts.Mode == Tolerant {
			msg = "No valid model data could be loaded."
		}
		return nil, catalogError(msg, nil)
	}

	res.Elapsed = time.Since(start)
	report(100, "Successfully loaded %d models!", res.Catalog.Len())
	return res, nil
}

func fetchRecord(ctx context.Context, src datasource.Source, e datasource.Entry) (model.Value, error) {
	data, err := src.Fetch(ctx, e)
	if err != nil {
		return model.Value{}, err
	}
	return ParseRecord(data)
}
