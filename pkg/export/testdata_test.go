package export

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/scanview/pkg/model"
)

func sampleCatalog() *model.Catalog {
	c := model.NewCatalog()
	c.Add("alpha", model.MustParse(`{
		"score": 0.4,
		"data_size": 30,
		"Reasoning": {"score": 0.5, "data_size": 20, "ranking": 2,
			"Math": {"score": 0.7, "data_size": 10, "ranking": 1}},
		"Language": {"score": 0.3, "data_size": 10, "ranking": 2}
	}`))
	c.Add("beta", model.MustParse(`{
		"score": 0.9,
		"data_size": 30,
		"Reasoning": {"score": 0.8, "data_size": 20, "ranking": 1,
			"Math": {"score": 0.6, "data_size": 10, "ranking": 2}},
		"Language": {"score": 0.9, "data_size": 10, "ranking": 1}
	}`))
	c.Add("gamma|pipe", model.MustParse(`{"score": 0.1, "Reasoning": {"score": 0.2}}`))
	return c
}

func sampleTaxonomy(t *testing.T) *model.CategoryNode {
	t.Helper()
	tax, err := model.ParseTaxonomy([]byte(`{
		"name": "All", "key": "",
		"children": [
			{"name": "Reasoning", "key": "Reasoning",
			 "children": [{"name": "Mathematics", "key": "Math"}]},
			{"name": "Language", "key": "Language"}
		]
	}`))
	require.NoError(t, err)
	return tax
}
