package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/scanview/pkg/rankings"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	rankColor    = color.New(color.FgGreen)
	missingColor = color.New(color.Faint)
)

type rankEntryJSON struct {
	Position int    `json:"position"`
	Model    string `json:"model"`
	Ranking  string `json:"ranking"`
	Ranked   bool   `json:"ranked"`
}

type rankColumnJSON struct {
	Path    string           `json:"path"`
	Header  string           `json:"header"`
	Entries []rankEntryJSON  `json:"entries"`
	Summary rankings.Summary `json:"summary"`
}

func newRankCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "rank PATH...",
		Short: "Print model rankings for one or more category paths",
		Long: `Print a rankings column for every category path, e.g.

  sv rank Reasoning.math Reasoning.logic

Models without a finite ranking at a path are listed last as N/A.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, src, err := a.loadCatalog(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeSource(src)

			cols := rankings.ComputeAll(res.Catalog, args)
			if asJSON {
				return writeRankingsJSON(cmd.OutOrStdout(), cols)
			}
			writeRankings(cmd.OutOrStdout(), cols)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func writeRankings(w io.Writer, cols []rankings.Column) {
	for i, col := range cols {
		if i > 0 {
			fmt.Fprintln(w)
		}
		headerColor.Fprintf(w, "%s", col.Header)
		fmt.Fprintf(w, "  (%s)\n", col.Path)
		for _, e := range col.Entries {
			c := rankColor
			if !e.Ranked {
				c = missingColor
			}
			fmt.Fprintf(w, "%3d. %-32s ", e.Position, e.Model)
			c.Fprintln(w, e.Display())
		}
		missingColor.Fprintln(w, rankings.Summarize(col).String())
	}
}

func writeRankingsJSON(w io.Writer, cols []rankings.Column) error {
	out := make([]rankColumnJSON, 0, len(cols))
	for _, col := range cols {
		jc := rankColumnJSON{
			Path:    col.Path,
			Header:  col.Header,
			Entries: make([]rankEntryJSON, 0, len(col.Entries)),
			Summary: rankings.Summarize(col),
		}
		for _, e := range col.Entries {
			jc.Entries = append(jc.Entries, rankEntryJSON{
				Position: e.Position,
				Model:    e.Model,
				Ranking:  e.Display(),
				Ranked:   e.Ranked,
			})
		}
		out = append(out, jc)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding rankings: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
