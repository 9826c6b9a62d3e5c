// Package export writes a loaded catalog to files: a SQLite snapshot that
// sv can read back as a source, Markdown rankings and catalog tables, and
// SVG or PNG score charts.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/scanview/pkg/metrics"
	"github.com/vanderheijden86/scanview/pkg/model"
	"github.com/vanderheijden86/scanview/pkg/rankings"
)

// Format is an export output format.
type Format string

const (
	FormatSQLite   Format = "sqlite"
	FormatMarkdown Format = "markdown"
	FormatSVG      Format = "svg"
	FormatPNG      Format = "png"
)

// Formats lists every supported format in menu order.
var Formats = []Format{FormatSQLite, FormatMarkdown, FormatSVG, FormatPNG}

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqlite", "db", "sqlite3":
		return FormatSQLite, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unknown export format %q (want sqlite, markdown, svg or png)", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, true
	case ".md", ".markdown":
		return FormatMarkdown, true
	case ".svg":
		return FormatSVG, true
	case ".png":
		return FormatPNG, true
	}
	return "", false
}

// DefaultOutput is the file name suggested for f.
func (f Format) DefaultOutput() string {
	switch f {
	case FormatSQLite:
		return "scan.db"
	case FormatMarkdown:
		return "rankings.md"
	case FormatSVG:
		return "scores.svg"
	case FormatPNG:
		return "scores.png"
	}
	return "export.out"
}

// Request describes one export.
type Request struct {
	Format Format
	Out    string
	// Paths are category paths: ranking columns for markdown and sqlite,
	// the first one is the chart's score path.
	Paths []string
	Title string
}

// Data is what an export reads from.
type Data struct {
	Catalog  *model.Catalog
	Taxonomy *model.CategoryNode
	Source   string
}

// Run performs req. A missing format is inferred from the output path.
func Run(req Request, data Data) error {
	defer metrics.Timer(metrics.Export)()

	if req.Format == "" {
		f, ok := FormatFromPath(req.Out)
		if !ok {
			return fmt.Errorf("cannot infer export format from %q", req.Out)
		}
		req.Format = f
	}
	if req.Out == "" {
		req.Out = req.Format.DefaultOutput()
	}
	cols := rankings.ComputeAll(data.Catalog, req.Paths)

	switch req.Format {
	case FormatSQLite:
		exp := NewSQLiteExporter(data.Catalog, data.Taxonomy, cols)
		exp.Source = data.Source
		return exp.Export(req.Out)
	case FormatMarkdown:
		var doc string
		if len(cols) > 0 {
			doc = RankingsMarkdown(cols)
		} else {
			doc = CatalogMarkdown(data.Catalog)
		}
		if req.Title != "" {
			doc = "# " + req.Title + "\n\n" + doc
		}
		return os.WriteFile(req.Out, []byte(doc), 0o644)
	case FormatSVG, FormatPNG:
		path := ""
		if len(req.Paths) > 0 {
			path = req.Paths[0]
		}
		return SaveChart(ChartOptions{
			Path:         req.Out,
			Format:       string(req.Format),
			Catalog:      data.Catalog,
			CategoryPath: path,
			Title:        req.Title,
		})
	}
	return fmt.Errorf("unsupported export format %q", req.Format)
}
