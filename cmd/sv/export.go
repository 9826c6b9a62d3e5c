package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/scanview/pkg/export"
	"github.com/vanderheijden86/scanview/pkg/model"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		req    export.Request
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as a SQLite snapshot, Markdown or a score chart",
		Long: `Export the loaded catalog. Without --format or --out an interactive
wizard asks for the settings.

  sv export --format sqlite --out scan.db
  sv export --out rankings.md --path Reasoning.math --path Reasoning.logic
  sv export --format svg --path Reasoning.math --title "Math scores"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, src, err := a.loadCatalog(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeSource(src)
			tax := loadTaxonomy(ctx, src, cmd.ErrOrStderr())

			if !cmd.Flags().Changed("format") && !cmd.Flags().Changed("out") {
				req, err = export.NewWizard(suggestedPaths(tax)).Run()
				if err != nil {
					return err
				}
			} else if format != "" {
				if req.Format, err = export.ParseFormat(format); err != nil {
					return err
				}
			}

			data := export.Data{Catalog: res.Catalog, Taxonomy: tax, Source: src.Describe()}
			if err := export.Run(req, data); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			out := req.Out
			if out == "" {
				out = req.Format.DefaultOutput()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d models to %s\n", res.Loaded(), out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", "", "sqlite, markdown, svg or png (default: from --out)")
	f.StringVarP(&req.Out, "out", "o", "", "output file")
	f.StringSliceVarP(&req.Paths, "path", "p", nil, "category path for ranking columns or the chart (repeatable)")
	f.StringVar(&req.Title, "title", "", "document or chart title")
	return cmd
}

// suggestedPaths offers the taxonomy's first level as wizard defaults.
func suggestedPaths(tax *model.CategoryNode) []string {
	if tax == nil {
		return nil
	}
	var paths []string
	tax.Walk(func(n *model.CategoryNode, ancestors []string, depth int) bool {
		if depth == 1 {
			paths = append(paths, model.JoinPath(append(append([]string(nil), ancestors...), n.Key)...))
		}
		return depth < 1
	})
	return paths
}
