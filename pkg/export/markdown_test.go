package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/scanview/pkg/rankings"
)

func TestRankingsMarkdown_Placeholder(t *testing.T) {
	assert.Equal(t, rankings.Placeholder+"\n", RankingsMarkdown(nil))
}

func TestRankingsMarkdown_Columns(t *testing.T) {
	cols := rankings.ComputeAll(sampleCatalog(), []string{"Reasoning.Math", "Language"})
	doc := RankingsMarkdown(cols)
	lines := strings.Split(doc, "\n")

	assert.Equal(t, "| # | Math | Language |", lines[0])
	assert.Equal(t, "|--:|---|---|", lines[1])
	assert.Equal(t, "| 1 | alpha (1) | beta (1) |", lines[2])
	assert.Equal(t, "| 2 | beta (2) | alpha (2) |", lines[3])
	assert.Equal(t, `| 3 | gamma\|pipe (N/A) | gamma\|pipe (N/A) |`, lines[4])
	assert.Contains(t, doc, "- `Reasoning.Math`: 2 ranked · 1 N/A")
	assert.Contains(t, doc, "- `Language`: 2 ranked · 1 N/A")
}

func TestCatalogMarkdown_SortedByScore(t *testing.T) {
	doc := CatalogMarkdown(sampleCatalog())
	require.True(t, strings.HasPrefix(doc, "3 models\n"))

	beta := strings.Index(doc, "| beta |")
	alpha := strings.Index(doc, "| alpha |")
	gamma := strings.Index(doc, `| gamma\|pipe |`)
	require.True(t, beta > 0 && alpha > 0 && gamma > 0, doc)
	assert.Less(t, beta, alpha)
	assert.Less(t, alpha, gamma)
	assert.Contains(t, doc, "| beta | 0.90 | 30 | Reasoning, Language |")
}
