// Package testutil provides fixture generators for model result catalogs
// and category trees. All generators produce deterministic output for a
// fixed seed.
package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/scanview/pkg/model"
)

// GeneratorConfig controls catalog generation.
type GeneratorConfig struct {
	Seed        int64   // Random seed for determinism (0 = use 42)
	NamePrefix  string  // Prefix for model names (default: "model")
	RootKey     string  // Taxonomy root key (default: "All")
	RankedRate  float64 // Share of category nodes carrying a ranking (default: 1)
	WithQuesIDs bool    // Add ques_ids arrays to leaf categories
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:       42,
		NamePrefix: "model",
		RootKey:    "All",
		RankedRate: 1,
	}
}

// Generator creates catalogs and taxonomies.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	def := DefaultConfig()
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.NamePrefix == "" {
		cfg.NamePrefix = def.NamePrefix
	}
	if cfg.RootKey == "" {
		cfg.RootKey = def.RootKey
	}
	if cfg.RankedRate <= 0 || cfg.RankedRate > 1 {
		cfg.RankedRate = def.RankedRate
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// ModelName returns the name of the i-th generated model, e.g. "model-03".
func (g *Generator) ModelName(i int) string {
	return fmt.Sprintf("%s-%02d", g.cfg.NamePrefix, i)
}

// Taxonomy builds a balanced category tree. Keys ("c0", "c1", ...) differ
// from the display names ("Category 0.1") so lookups by the wrong field
// fail loudly.
func (g *Generator) Taxonomy(depth, breadth int) *model.CategoryNode {
	root := &model.CategoryNode{Name: g.cfg.RootKey + " categories", Key: g.cfg.RootKey}
	addCategories(root, "", depth, breadth)
	return root
}

func addCategories(n *model.CategoryNode, label string, depth, breadth int) {
	if depth <= 0 {
		return
	}
	for i := range breadth {
		childLabel := fmt.Sprint(i)
		if label != "" {
			childLabel = label + "." + childLabel
		}
		child := &model.CategoryNode{Name: "Category " + childLabel, Key: fmt.Sprintf("c%d", i)}
		addCategories(child, childLabel, depth-1, breadth)
		n.Children = append(n.Children, child)
	}
}

// CategoryPaths lists every path of tax in pre-order, root included.
func CategoryPaths(tax *model.CategoryNode) []string {
	var paths []string
	tax.Walk(func(n *model.CategoryNode, ancestors []string, _ int) bool {
		paths = append(paths, model.JoinPath(append(append([]string(nil), ancestors...), n.Key)...))
		return true
	})
	return paths
}

// Catalog builds n model records shaped after tax. At each category path a
// model's ranking is its position when all models are ordered by score at
// that path; a RankedRate below 1 leaves some rankings out.
func (g *Generator) Catalog(tax *model.CategoryNode, n int) *model.Catalog {
	paths := CategoryPaths(tax)
	names := make([]string, n)
	for i := range names {
		names[i] = g.ModelName(i)
	}

	scores := make(map[string]map[string]float64, n)
	for _, name := range names {
		scores[name] = make(map[string]float64, len(paths))
		for _, p := range paths {
			scores[name][p] = g.score()
		}
	}

	ranks := make(map[string]map[string]int, n)
	for _, name := range names {
		ranks[name] = make(map[string]int, len(paths))
	}
	for _, p := range paths {
		order := append([]string(nil), names...)
		sort.SliceStable(order, func(i, j int) bool {
			return scores[order[i]][p] > scores[order[j]][p]
		})
		for pos, name := range order {
			if g.rng.Float64() < g.cfg.RankedRate {
				ranks[name][p] = pos + 1
			}
		}
	}

	c := model.NewCatalog()
	for _, name := range names {
		top := model.NewObject()
		top.Set("score", model.Number(g.score()))
		top.Set("data_size", model.Number(float64(100+g.rng.Intn(900))))
		top.Set(tax.Key, g.categoryValue(tax, nil, scores[name], ranks[name]))
		c.Add(name, model.ObjectValue(top))
	}
	return c
}

func (g *Generator) categoryValue(n *model.CategoryNode, ancestors []string, scores map[string]float64, ranks map[string]int) model.Value {
	segs := append(append([]string(nil), ancestors...), n.Key)
	path := model.JoinPath(segs...)

	obj := model.NewObject()
	obj.Set("score", model.Number(scores[path]))
	obj.Set("data_size", model.Number(float64(1+g.rng.Intn(100))))
	if r, ok := ranks[path]; ok {
		obj.Set("ranking", model.Number(float64(r)))
	}
	if len(n.Children) == 0 && g.cfg.WithQuesIDs {
		obj.Set("ques_ids", model.Array(model.Number(float64(g.rng.Intn(1000))), model.Number(float64(g.rng.Intn(1000)))))
	}
	for _, child := range n.Children {
		obj.Set(child.Key, g.categoryValue(child, segs, scores, ranks))
	}
	return model.ObjectValue(obj)
}

// score returns a score in [0, 1) with two decimals.
func (g *Generator) score() float64 {
	return math.Round(g.rng.Float64()*100) / 100
}

// ToJSON encodes a record or taxonomy as indented JSON.
func ToJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("testutil: encoding fixture: %v", err))
	}
	return string(data)
}

// QuickTaxonomy returns a default-config taxonomy.
func QuickTaxonomy(depth, breadth int) *model.CategoryNode {
	return NewDefault().Taxonomy(depth, breadth)
}

// QuickCatalog returns n models over a two-level, two-wide taxonomy.
func QuickCatalog(n int) (*model.Catalog, *model.CategoryNode) {
	g := NewDefault()
	tax := g.Taxonomy(2, 2)
	return g.Catalog(tax, n), tax
}

// Empty returns a catalog with no models.
func Empty() *model.Catalog {
	return model.NewCatalog()
}
