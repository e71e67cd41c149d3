package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/inference-sim/oupath/sim/summary"
)

// RenderSummary writes a table of empirical vs analytic moments to w, showing
// at most rows evenly spaced steps (first and last always included).
func RenderSummary(w io.Writer, s *summary.Summary, rows int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(fmt.Sprintf("OU dataset summary (%d samples)", s.Samples))
	tw.AppendHeader(table.Row{"step", "time", "mean", "expected mean", "variance", "expected variance"})
	for _, j := range summaryRows(len(s.Steps), rows) {
		st := s.Steps[j]
		tw.AppendRow(table.Row{
			j,
			fmt.Sprintf("%.4f", st.Time),
			fmt.Sprintf("%.5f", st.Mean),
			fmt.Sprintf("%.5f", st.ExpectedMean),
			fmt.Sprintf("%.5f", st.Variance),
			fmt.Sprintf("%.5f", st.ExpectedVariance),
		})
	}
	tw.AppendFooter(table.Row{
		"", "max |error|",
		fmt.Sprintf("%.5f", s.MaxMeanError), "",
		fmt.Sprintf("%.5f", s.MaxVarianceError), "",
	})
	tw.Render()
}

// summaryRows picks up to rows indices from [0, n), always keeping 0 and n-1.
func summaryRows(n, rows int) []int {
	if n == 0 {
		return nil
	}
	rows = min(max(rows, 2), n)
	if rows == n {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := make([]int, 0, rows)
	for r := 0; r < rows; r++ {
		j := r * (n - 1) / (rows - 1)
		if len(idx) > 0 && idx[len(idx)-1] == j {
			continue
		}
		idx = append(idx, j)
	}
	return idx
}
