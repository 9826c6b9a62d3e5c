package main

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/scanview/pkg/model"
)

// queryExpr turns a dotted category path into JSONPath. Anything that
// already starts with $ or @ is used as is.
func queryExpr(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "$") || strings.HasPrefix(s, "@") {
		return s
	}
	return "$." + s
}

func newGetCmd(a *app) *cobra.Command {
	var only string
	cmd := &cobra.Command{
		Use:   "get EXPR",
		Short: "Evaluate a JSONPath expression against every model record",
		Long: `Evaluate a JSONPath expression against every model record and print
the matches per model. A plain dotted path is treated as $.<path>:

  sv get Reasoning.math.score
  sv get '$..ranking' --model alpha`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, src, err := a.loadCatalog(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeSource(src)

			results, err := res.Catalog.Query(queryExpr(args[0]))
			if err != nil {
				return err
			}
			if only != "" {
				if _, ok := res.Catalog.Record(only); !ok {
					return fmt.Errorf("unknown model %q", only)
				}
				results = filterResults(results, only)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no matches")
				return nil
			}

			w := cmd.OutOrStdout()
			for _, r := range results {
				data, err := json.Marshal(r.Matches)
				if err != nil {
					return fmt.Errorf("encoding matches for %s: %w", r.Model, err)
				}
				headerColor.Fprintf(w, "%s", r.Model)
				fmt.Fprintf(w, ": %s\n", data)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&only, "model", "m", "", "only query this model")
	return cmd
}

func filterResults(results []model.QueryResult, name string) []model.QueryResult {
	var out []model.QueryResult
	for _, r := range results {
		if r.Model == name {
			out = append(out, r)
		}
	}
	return out
}
