package export

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/scanview/pkg/model"
	"github.com/vanderheijden86/scanview/pkg/rankings"
	"github.com/vanderheijden86/scanview/pkg/selection"
	"github.com/vanderheijden86/scanview/pkg/tree"
)

var cellReplacer = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

func cell(s string) string {
	return strings.TrimSpace(cellReplacer.Replace(s))
}

// RankingsMarkdown renders ranking columns side by side as a Markdown
// table. Row i holds the i-th entry of every column, followed by one
// summary line per column. No columns renders the selection placeholder.
func RankingsMarkdown(cols []rankings.Column) string {
	if len(cols) == 0 {
		return rankings.Placeholder + "\n"
	}

	var sb strings.Builder
	sb.WriteString("| # |")
	for _, c := range cols {
		fmt.Fprintf(&sb, " %s |", cell(c.Header))
	}
	sb.WriteString("\n|--:|")
	for range cols {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	rows := 0
	for _, c := range cols {
		rows = max(rows, len(c.Entries))
	}
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb, "| %d |", i+1)
		for _, c := range cols {
			if i >= len(c.Entries) {
				sb.WriteString(" |")
				continue
			}
			e := c.Entries[i]
			fmt.Fprintf(&sb, " %s (%s) |", cell(e.Model), e.Display())
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	for _, c := range cols {
		fmt.Fprintf(&sb, "- `%s`: %s\n", c.Path, rankings.Summarize(c))
	}
	return sb.String()
}

// CatalogMarkdown lists every model by descending root score with its
// data size and top-level categories.
func CatalogMarkdown(c *model.Catalog) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d models\n\n", c.Len())
	sb.WriteString("| Model | Score | Data size | Categories |\n")
	sb.WriteString("|---|--:|--:|---|\n")
	for _, name := range selection.RankByScore(c) {
		rec, _ := c.Record(name)
		root := tree.BuildNode(name, rec, 0, true)
		cats := make([]string, 0, len(root.Children))
		for _, child := range root.Children {
			cats = append(cats, child.Name)
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
			cell(name), root.ScoreText(), root.SizeText(), cell(strings.Join(cats, ", ")))
	}
	return sb.String()
}
