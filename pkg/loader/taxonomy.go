package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/vanderheijden86/scanview/internal/datasource"
	"github.com/vanderheijden86/scanview/pkg/debug"
	"github.com/vanderheijden86/scanview/pkg/metrics"
	"github.com/vanderheijden86/scanview/pkg/model"
)

// LoadTaxonomy fetches and parses the category tree. Progress phases
// follow the catalog loader's: fetching 20, parsing 60, building 90.
func LoadTaxonomy(ctx context.Context, src datasource.Source, progress ProgressFunc) (*model.CategoryNode, error) {
	if progress == nil {
		progress = func(Progress) {}
	}
	defer metrics.TimerWithCallback(metrics.TaxonomyLoad, func(d time.Duration) {
		debug.LogTiming("LoadTaxonomy", d)
	})()

	progress(Progress{Percent: 20, Detail: "Fetching category tree..."})
	data, err := src.FetchTaxonomy(ctx)
	if err != nil {
		return nil, taxonomyError(fmt.Sprintf("Could not fetch %s: %v", model.TaxonomyFile, err), err)
	}

	progress(Progress{Percent: 60, Detail: "Parsing category tree..."})
	root, err := model.ParseTaxonomy(stripBOM(data))
	if err != nil {
		return nil, taxonomyError(fmt.Sprintf("Invalid %s: %v", model.TaxonomyFile, err), err)
	}

	progress(Progress{Percent: 90, Detail: fmt.Sprintf("Building tree (%d categories)...", root.Count())})
	return root, nil
}
