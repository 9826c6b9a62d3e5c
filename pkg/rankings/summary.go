package rankings

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary describes the finite rankings of a column.
type Summary struct {
	Ranked   int     `json:"ranked"`
	Unranked int     `json:"unranked"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Median   float64 `json:"median"`
	Best     string  `json:"best,omitempty"`
}

// Summarize computes descriptive statistics over the ranked entries.
func Summarize(col Column) Summary {
	var s Summary
	values := make([]float64, 0, len(col.Entries))
	for _, e := range col.Entries {
		if !e.Ranked {
			s.Unranked++
			continue
		}
		if s.Ranked == 0 {
			s.Best = e.Model
		}
		s.Ranked++
		values = append(values, e.Ranking)
	}
	if len(values) == 0 {
		return s
	}

	sort.Float64s(values)
	if len(values) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	} else {
		s.Mean = values[0]
	}
	s.Median = stat.Quantile(0.5, stat.Empirical, values, nil)
	return s
}

// String renders a one-line footer, e.g. "8 ranked · 2 N/A · median 4".
func (s Summary) String() string {
	if s.Ranked == 0 {
		return fmt.Sprintf("0 ranked · %d %s", s.Unranked, NotAvailable)
	}
	return fmt.Sprintf("%d ranked · %d %s · median %s · mean %.2f±%.2f",
		s.Ranked, s.Unranked, NotAvailable, FormatRanking(s.Median), s.Mean, s.StdDev)
}
