// Package selection tracks what the user has picked: the ordered list of
// models shown as panes and the set of category paths shown as rankings
// columns.
//
// A State is created when a view initialises and discarded when the view is
// torn down. It changes only through the operations below, each of which
// corresponds to an explicit user action; nothing here reacts to catalog
// changes on its own.
package selection

import (
	"sort"

	"github.com/vanderheijden86/scanview/pkg/model"
)

// DefaultTopN is how many models are selected after the catalog loads.
const DefaultTopN = 4

// State holds both selections.
type State struct {
	models   []string
	modelSet map[string]struct{}

	categories  []string
	categorySet map[string]struct{}
}

// New returns an empty selection.
func New() *State {
	return &State{
		modelSet:    make(map[string]struct{}),
		categorySet: make(map[string]struct{}),
	}
}

// ToggleModel selects name if it is not selected (appending it to the pane
// order) and deselects it otherwise. It reports whether name is selected
// afterwards.
func (s *State) ToggleModel(name string) bool {
	if s.IsModelSelected(name) {
		s.DeselectModel(name)
		return false
	}
	s.selectModel(name)
	return true
}

func (s *State) selectModel(name string) {
	if _, ok := s.modelSet[name]; ok {
		return
	}
	s.modelSet[name] = struct{}{}
	s.models = append(s.models, name)
}

// DeselectModel removes name from the selection, keeping the relative
// order of the remaining models. It reports whether anything was removed.
func (s *State) DeselectModel(name string) bool {
	if _, ok := s.modelSet[name]; !ok {
		return false
	}
	delete(s.modelSet, name)
	for i, m := range s.models {
		if m == name {
			s.models = append(s.models[:i], s.models[i+1:]...)
			break
		}
	}
	return true
}

// IsModelSelected reports membership in O(1).
func (s *State) IsModelSelected(name string) bool {
	_, ok := s.modelSet[name]
	return ok
}

// SelectedModels returns the selected models in pane order.
func (s *State) SelectedModels() []string {
	out := make([]string, len(s.models))
	copy(out, s.models)
	return out
}

// ModelCount returns the number of selected models.
func (s *State) ModelCount() int { return len(s.models) }

// ToggleCategory adds path to the category selection or removes it. It
// reports whether path is selected afterwards.
func (s *State) ToggleCategory(path string) bool {
	selected := !s.IsCategorySelected(path)
	s.SetCategory(path, selected)
	return selected
}

// SetCategory forces the selection state of path.
func (s *State) SetCategory(path string, selected bool) {
	_, present := s.categorySet[path]
	switch {
	case selected && !present:
		s.categorySet[path] = struct{}{}
		s.categories = append(s.categories, path)
	case !selected && present:
		delete(s.categorySet, path)
		for i, p := range s.categories {
			if p == path {
				s.categories = append(s.categories[:i], s.categories[i+1:]...)
				break
			}
		}
	}
}

// IsCategorySelected reports whether path is selected.
func (s *State) IsCategorySelected(path string) bool {
	_, ok := s.categorySet[path]
	return ok
}

// SelectedCategories returns the selected paths in the order they were
// picked. Callers must not rely on any particular order beyond stability.
func (s *State) SelectedCategories() []string {
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// CategoryCount returns the number of selected paths.
func (s *State) CategoryCount() int { return len(s.categories) }

// ClearCategories empties the category selection.
func (s *State) ClearCategories() {
	s.categories = nil
	s.categorySet = make(map[string]struct{})
}

// RankByScore returns catalog names ordered by descending top-level score.
// Ties keep catalog order.
func RankByScore(c *model.Catalog) []string {
	names := c.Names()
	sort.SliceStable(names, func(i, j int) bool {
		return c.Score(names[i]) > c.Score(names[j])
	})
	return names
}

// DefaultSelectTopN selects the n best-scoring models in descending score
// order and returns them. Models already selected keep their position.
func (s *State) DefaultSelectTopN(c *model.Catalog, n int) []string {
	if n <= 0 {
		return nil
	}
	ranked := RankByScore(c)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	for _, name := range ranked {
		s.selectModel(name)
	}
	return ranked
}
