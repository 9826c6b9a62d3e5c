package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/scanview/pkg/model"
	"github.com/vanderheijden86/scanview/pkg/tree"
)

// depthColors follows the TUI's cyclic depth palette.
var depthColors = [tree.DepthClasses]*color.Color{
	color.New(color.FgBlue, color.Bold),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgMagenta),
	color.New(color.FgCyan),
	color.New(color.FgRed),
}

func newTreeCmd(a *app) *cobra.Command {
	var (
		depth int
		path  string
	)
	cmd := &cobra.Command{
		Use:   "tree MODEL",
		Short: "Print one model's result tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, src, err := a.loadCatalog(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeSource(src)

			name := args[0]
			rec, ok := res.Catalog.Record(name)
			if !ok {
				return fmt.Errorf("unknown model %q (have %s)", name, strings.Join(res.Catalog.Names(), ", "))
			}
			label := name
			if path != "" {
				sub, ok := model.Resolve(rec, path)
				if !ok {
					return fmt.Errorf("%s has no node at %q", name, path)
				}
				rec = sub
				label = name + " › " + path
			}
			writeTree(cmd.OutOrStdout(), tree.BuildNode(label, rec, 0, true), depth)
			return nil
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum depth to print (0 prints everything)")
	cmd.Flags().StringVarP(&path, "path", "p", "", "start at this dotted path inside the record")
	return cmd
}

// writeTree prints root and its descendants down to maxDepth levels below
// it. Expansion state is ignored.
func writeTree(w io.Writer, root *tree.Node, maxDepth int) {
	root.Walk(func(n *tree.Node) bool {
		fmt.Fprint(w, treePrefix(n))
		depthColors[n.DepthClass()].Fprint(w, n.Name)
		fmt.Fprintf(w, "  Size: %s  Score: %s\n", n.SizeText(), n.ScoreText())
		return maxDepth <= 0 || n.Depth < maxDepth
	})
}

func treePrefix(n *tree.Node) string {
	if n.Parent == nil {
		return ""
	}
	var parts []string
	for cur := n.Parent; cur.Parent != nil; cur = cur.Parent {
		if cur.IsLastChild() {
			parts = append(parts, "   ")
		} else {
			parts = append(parts, "│  ")
		}
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
	}
	if n.IsLastChild() {
		b.WriteString("└─ ")
	} else {
		b.WriteString("├─ ")
	}
	return b.String()
}
