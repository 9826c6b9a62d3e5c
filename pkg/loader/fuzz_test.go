package loader

import (
	"testing"

	"github.com/vanderheijden86/scanview/pkg/tree"
)

// FuzzParseRecord checks that arbitrary bytes never panic the decoder or
// the tree builder.
//
// Run with: go test -fuzz=FuzzParseRecord -fuzztime=1m ./pkg/loader/...
func FuzzParseRecord(f *testing.F) {
	seeds := []string{
		`{}`,
		`{"score": 0.5, "data_size": 12, "math": {"algebra": {"ranking": 1}}}`,
		`{"a": {"b": {"c": {"d": {"e": {"f": {"g": 1}}}}}}}`,
		`[1, "two", null, true, {"x": []}]`,
		"\xef\xbb\xbf{}",
		`{"a": 1, "a": 2}`,
		`{"ques_ids": [1,2,3], "ranking": "first"}`,
		`{"data_size": "12.5"}`,
		`{`,
		`{} {}`,
		`"\ud800"`,
		`1e400`,
		``,
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		rec, err := ParseRecord(data)
		if err != nil {
			return
		}
		root := tree.BuildNode("fuzz", rec, 0, true)
		if root == nil {
			t.Fatal("BuildNode returned nil for a decoded record")
		}
		for _, n := range root.Visible() {
			_ = n.ScoreText()
			_ = n.SizeText()
		}
		if _, err := rec.MarshalJSON(); err != nil {
			t.Fatalf("re-encoding a decoded record failed: %v", err)
		}
	})
}
