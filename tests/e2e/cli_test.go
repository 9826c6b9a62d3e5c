package main_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/scanview/pkg/testutil"
)

type rankColumn struct {
	Path    string `json:"path"`
	Entries []struct {
		Position int    `json:"position"`
		Model    string `json:"model"`
		Ranking  string `json:"ranking"`
		Ranked   bool   `json:"ranked"`
	} `json:"entries"`
}

func TestCLI_Version(t *testing.T) {
	out, _, err := runSv(t, "version")
	if err != nil {
		t.Fatalf("sv version: %v", err)
	}
	if !strings.HasPrefix(out, "sv v") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestCLI_RankJSONIsClean(t *testing.T) {
	c, tax := testutil.QuickCatalog(4)
	dir := testutil.WriteDataDir(t, c, tax)

	out, stderr, err := runSv(t, "--source", dir, "rank", "--json", "All.c0", "All.c1.c1")
	if err != nil {
		t.Fatalf("sv rank: %v\n%s", err, stderr)
	}
	if strings.Contains(out, "\x1b") {
		t.Fatalf("JSON output contains escape sequences: %q", out)
	}

	var cols []rankColumn
	if err := json.Unmarshal([]byte(out), &cols); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(cols) != 2 || cols[0].Path != "All.c0" || cols[1].Path != "All.c1.c1" {
		t.Fatalf("unexpected columns: %+v", cols)
	}
	for _, col := range cols {
		if len(col.Entries) != 4 {
			t.Errorf("%s: %d entries, want 4", col.Path, len(col.Entries))
		}
		if col.Entries[0].Ranking != "1" {
			t.Errorf("%s: first ranking %q, want 1", col.Path, col.Entries[0].Ranking)
		}
	}
}

func TestCLI_ExportSnapshotRoundTrip(t *testing.T) {
	c, tax := testutil.QuickCatalog(3)
	dir := testutil.WriteDataDir(t, c, tax)
	db := filepath.Join(t.TempDir(), "scan.db")

	if _, stderr, err := runSv(t, "--source", dir, "export", "--out", db); err != nil {
		t.Fatalf("sv export: %v\n%s", err, stderr)
	}
	if info, err := os.Stat(db); err != nil || info.Size() == 0 {
		t.Fatalf("snapshot not written: %v", err)
	}

	fromDir, _, err := runSv(t, "--source", dir, "get", "$.All.c0.score")
	if err != nil {
		t.Fatalf("sv get (dir): %v", err)
	}
	fromDB, _, err := runSv(t, "--source", db, "get", "$.All.c0.score")
	if err != nil {
		t.Fatalf("sv get (db): %v", err)
	}
	if fromDir != fromDB {
		t.Errorf("snapshot differs from source:\n%s\nvs\n%s", fromDir, fromDB)
	}
}

func TestCLI_TreeDepth(t *testing.T) {
	c, tax := testutil.QuickCatalog(1)
	dir := testutil.WriteDataDir(t, c, tax)

	out, _, err := runSv(t, "--source", dir, "tree", "model-00", "--depth", "2")
	if err != nil {
		t.Fatalf("sv tree: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// model root, All, c0, c1
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "└─ All") {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestCLI_MissingSourceFails(t *testing.T) {
	_, stderr, err := runSv(t, "--source", filepath.Join(t.TempDir(), "absent"), "rank", "x")
	if err == nil {
		t.Fatal("expected failure for a missing source")
	}
	if !strings.Contains(stderr, "absent") {
		t.Errorf("stderr should name the source: %q", stderr)
	}
}
