package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/scanview/pkg/testutil"
)

func TestRank_Text(t *testing.T) {
	dir := writeDataDir(t)
	out, _, err := runCLI(t, "--source", dir, "rank", "Reasoning.math", "Reasoning.logic")
	require.NoError(t, err)

	for _, want := range []string{"math  (Reasoning.math)", "logic  (Reasoning.logic)", "1. beta", "2. alpha", "3. gamma", "N/A", "ranked"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "math"), strings.Index(out, "logic"), "columns keep argument order")
}

func TestRank_JSON(t *testing.T) {
	dir := writeDataDir(t)
	out, _, err := runCLI(t, "--source", dir, "rank", "--json", "Reasoning.math")
	require.NoError(t, err)

	var cols []rankColumnJSON
	require.NoError(t, json.Unmarshal([]byte(out), &cols))
	require.Len(t, cols, 1)

	col := cols[0]
	assert.Equal(t, "math", col.Header)
	require.Len(t, col.Entries, 3)
	assert.Equal(t, rankEntryJSON{Position: 1, Model: "beta", Ranking: "1", Ranked: true}, col.Entries[0])
	assert.Equal(t, rankEntryJSON{Position: 2, Model: "alpha", Ranking: "2", Ranked: true}, col.Entries[1])
	assert.Equal(t, rankEntryJSON{Position: 3, Model: "gamma", Ranking: "N/A", Ranked: false}, col.Entries[2])
	assert.Equal(t, 2, col.Summary.Ranked)
	assert.Equal(t, "beta", col.Summary.Best)
}

func TestRank_RequiresPath(t *testing.T) {
	dir := writeDataDir(t)
	_, _, err := runCLI(t, "--source", dir, "rank")
	assert.Error(t, err)
}

func TestRank_MissingSource(t *testing.T) {
	_, _, err := runCLI(t, "--source", filepath.Join(t.TempDir(), "nope"), "rank", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestRank_GeneratedCatalog(t *testing.T) {
	c, tax := testutil.QuickCatalog(5)
	dir := testutil.WriteDataDir(t, c, tax)

	out, _, err := runCLI(t, "--source", dir, "rank", "--json", "All.c1.c0")
	require.NoError(t, err)

	var cols []rankColumnJSON
	require.NoError(t, json.Unmarshal([]byte(out), &cols))
	require.Len(t, cols, 1)
	for i, e := range cols[0].Entries {
		assert.True(t, e.Ranked)
		assert.Equal(t, i+1, e.Position)
	}
}

func TestGet_DottedPath(t *testing.T) {
	dir := writeDataDir(t)
	out, _, err := runCLI(t, "--source", dir, "get", "Reasoning.math.score")
	require.NoError(t, err)

	assert.Contains(t, out, "alpha: [0.7]")
	assert.Contains(t, out, "beta: [0.9]")
	assert.NotContains(t, out, "gamma", "models without matches are omitted")
}

func TestGet_ModelFilter(t *testing.T) {
	dir := writeDataDir(t)
	out, _, err := runCLI(t, "--source", dir, "get", "$..ranking", "--model", "beta")
	require.NoError(t, err)

	assert.Equal(t, "beta: [1]\n", out)
}

func TestGet_UnknownModel(t *testing.T) {
	dir := writeDataDir(t)
	_, _, err := runCLI(t, "--source", dir, "get", "score", "--model", "delta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delta")
}

func TestGet_NoMatches(t *testing.T) {
	dir := writeDataDir(t)
	out, errOut, err := runCLI(t, "--source", dir, "get", "Missing.path")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "no matches")
}

func TestQueryExpr(t *testing.T) {
	assert.Equal(t, "$.a.b", queryExpr("a.b"))
	assert.Equal(t, "$..ranking", queryExpr(" $..ranking "))
	assert.Equal(t, "@.x", queryExpr("@.x"))
}

func TestTree_Depth(t *testing.T) {
	dir := writeDataDir(t)
	out, _, err := runCLI(t, "--source", dir, "tree", "alpha", "--depth", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "alpha  Size: 120  Score: 0.90", lines[0])
	assert.Equal(t, "├─ Reasoning  Size: 60  Score: 0.80", lines[1])
	assert.Equal(t, "└─ Language  Size: 60  Score: 0.95", lines[2])
}

func TestTree_Full(t *testing.T) {
	dir := writeDataDir(t)
	out, _, err := runCLI(t, "--source", dir, "tree", "alpha")
	require.NoError(t, err)

	assert.Contains(t, out, "│  ├─ math  Size: 30  Score: 0.70")
	assert.Contains(t, out, "│  └─ logic  Size: 30  Score: 0.90")
	assert.NotContains(t, out, "ranking")
	assert.NotContains(t, out, "ques_ids")
}

func TestTree_Path(t *testing.T) {
	dir := writeDataDir(t)
	out, _, err := runCLI(t, "--source", dir, "tree", "beta", "--path", "Reasoning")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "beta › Reasoning  Size: 50"))
	assert.Contains(t, out, "└─ math")

	_, _, err = runCLI(t, "--source", dir, "tree", "beta", "--path", "Reasoning.logic")
	assert.Error(t, err)
}

func TestTree_UnknownModel(t *testing.T) {
	dir := writeDataDir(t)
	_, _, err := runCLI(t, "--source", dir, "tree", "delta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alpha, beta, gamma")
}

func TestExport_MarkdownInferredFormat(t *testing.T) {
	dir := writeDataDir(t)
	dest := filepath.Join(t.TempDir(), "rankings.md")

	out, _, err := runCLI(t, "--source", dir, "export", "--out", dest, "--path", "Reasoning.math", "--title", "Math")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 models to "+dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	doc := string(data)
	assert.True(t, strings.HasPrefix(doc, "# Math\n"))
	assert.Contains(t, doc, "beta")
	assert.Contains(t, doc, "N/A")
}

func TestExport_BadFormat(t *testing.T) {
	dir := writeDataDir(t)
	_, _, err := runCLI(t, "--source", dir, "export", "--format", "xls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xls")
}

func TestExport_SQLiteSnapshotIsASource(t *testing.T) {
	dir := writeDataDir(t)
	db := filepath.Join(t.TempDir(), "scan.db")

	_, _, err := runCLI(t, "--source", dir, "export", "--format", "sqlite", "--out", db)
	require.NoError(t, err)

	fromDir, _, err := runCLI(t, "--source", dir, "rank", "--json", "Reasoning.math", "Reasoning.logic")
	require.NoError(t, err)
	fromDB, _, err := runCLI(t, "--source", db, "rank", "--json", "Reasoning.math", "Reasoning.logic")
	require.NoError(t, err)
	assert.JSONEq(t, fromDir, fromDB)
}

func TestSuggestedPaths(t *testing.T) {
	tax := testutil.QuickTaxonomy(2, 2)
	assert.Equal(t, []string{"All.c0", "All.c1"}, suggestedPaths(tax))
	assert.Nil(t, suggestedPaths(nil))
}
