package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucasrodor/projeto-financeiro/internal/calendar"
	"github.com/lucasrodor/projeto-financeiro/internal/chart"
	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
	"github.com/lucasrodor/projeto-financeiro/internal/session"
)

// chartCmd represents the chart command
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Retorno acumulado da carteira x Ibovespa",
	Long: `Gera a carteira (mesmas flags do comando portfolio) e calcula o
retorno acumulado médio das ações contra o Ibovespa no período.

Example:
  go run ./cmd/dashboard chart --date 2024-01-02 --start 2024-01-02 --end 2024-06-28
  go run ./cmd/dashboard chart --date 2024-01-02 --start 2024-01-02 --end 2024-06-28 --html grafico.html`,
	RunE: runChart,
}

var (
	chartPortfolio portfolioFlags
	chartStart     string
	chartEnd       string
	chartHTML      string
)

func init() {
	rootCmd.AddCommand(chartCmd)
	chartPortfolio.register(chartCmd)

	chartCmd.Flags().StringVar(&chartStart, "start", "", "data inicial YYYY-MM-DD (default: strategy defaults.chart_start)")
	chartCmd.Flags().StringVar(&chartEnd, "end", "", "data final YYYY-MM-DD (default: último dia útil)")
	chartCmd.Flags().StringVar(&chartHTML, "html", "", "grava a página do gráfico (plotly) neste arquivo")
}

func runChart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	start, end := a.service.DefaultChartRange()
	if chartStart != "" {
		if start, err = calendar.ParseDate("data_ini", chartStart); err != nil {
			return PrintActionError(err)
		}
	}
	if chartEnd != "" {
		if end, err = calendar.ParseDate("data_fim", chartEnd); err != nil {
			return PrintActionError(err)
		}
	}

	sess := session.New()
	if _, err := buildPortfolio(ctx, a, sess, &chartPortfolio); err != nil {
		return PrintActionError(err)
	}

	PrintHeader("Carteira x "+a.strategy.Benchmark.Label, [][2]string{
		{"Período", start.Format(contracts.DateFormat) + " ~ " + end.Format(contracts.DateFormat)},
	})

	series, err := a.service.BuildChart(ctx, sess, start, end, func(done, total int, ticker string, ferr error) {
		msg := ticker
		if ferr != nil {
			msg += " (descartada)"
		}
		PrintProgress("Preços", msg, done, total)
	})
	if err != nil {
		return PrintActionError(err)
	}

	fmt.Println()
	if err := chart.WriteTable(os.Stdout, series); err != nil {
		return err
	}

	if len(series.Dropped) > 0 {
		items := make([]string, 0, len(series.Dropped))
		for _, d := range series.Dropped {
			items = append(items, fmt.Sprintf("%s: %s", d.Ticker, d.Reason))
		}
		PrintWarning("Ações fora da média:")
		PrintList(items)
	}

	if chartHTML != "" {
		f, err := os.Create(chartHTML)
		if err != nil {
			return fmt.Errorf("create %s: %w", chartHTML, err)
		}
		defer f.Close()

		if err := chart.RenderHTML(f, chart.NewFigure(series)); err != nil {
			return err
		}
		PrintSuccess("Gráfico gravado em " + chartHTML)
	}

	if last, ok := series.Last(); ok {
		fmt.Println()
		PrintSuccess(fmt.Sprintf("Carteira %s | %s %s", FormatPercent(last.Portfolio), a.strategy.Benchmark.Label, FormatPercent(last.Benchmark)))
	}
	return nil
}
