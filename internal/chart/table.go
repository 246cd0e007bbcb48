package chart

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
)

// WriteTable prints the series as an aligned text table (returns in %)
func WriteTable(w io.Writer, series *contracts.ReturnSeries) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "%s\t%s\t%s\t\n", XAxisTitle, PortfolioTrace, BenchmarkTrace)
	if series != nil {
		for _, p := range series.Points {
			fmt.Fprintf(tw, "%s\t%.2f%%\t%.2f%%\t\n",
				p.Date.Format(contracts.DateFormat), p.Portfolio*100, p.Benchmark*100)
		}
	}

	return tw.Flush()
}
