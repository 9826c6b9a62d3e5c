//go:build ignore

// generate_testdata.go creates synthetic result sets for benchmarking and
// manual testing.
// Usage: go run scripts/generate_testdata.go
//
// Creates, under tests/testdata/synthetic/<name>/:
//
//	processed_data/*.json  one record per model
//	cata_tree.json         the matching category tree
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/scanview/pkg/model"
	"github.com/vanderheijden86/scanview/pkg/testutil"
)

type datasetSpec struct {
	name    string
	models  int
	depth   int
	breadth int
	ranked  float64
}

var datasets = []datasetSpec{
	{"small", 5, 2, 3, 1},
	{"medium", 20, 3, 4, 0.9},
	{"large", 60, 4, 5, 0.8},
}

func main() {
	outputDir := filepath.Join("tests", "testdata", "synthetic")

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d models)...\n", ds.name, ds.models)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:        int64(ds.models), // reproducible per size
			NamePrefix:  "model",
			RootKey:     "All",
			RankedRate:  ds.ranked,
			WithQuesIDs: true,
		})
		tax := gen.Taxonomy(ds.depth, ds.breadth)
		catalog := gen.Catalog(tax, ds.models)

		root := filepath.Join(outputDir, ds.name)
		dataDir := filepath.Join(root, testutil.DataDirName)
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			fail("create %s: %v", dataDir, err)
		}

		var written int
		for _, name := range catalog.Names() {
			rec, _ := catalog.Record(name)
			written += write(filepath.Join(dataDir, name+".json"), testutil.ToJSON(rec))
		}
		written += write(filepath.Join(root, model.TaxonomyFile), testutil.ToJSON(tax))

		fmt.Printf("  Written %s (%d bytes, %d categories)\n", root, written, tax.Count())
	}

	fmt.Println("\nDone! Try: sv --source", filepath.Join(outputDir, "medium", testutil.DataDirName), "query")
}

func write(path, content string) int {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		fail("write %s: %v", path, err)
	}
	return len(content)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
