package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lucasrodor/projeto-financeiro/internal/calendar"
	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
	"github.com/lucasrodor/projeto-financeiro/internal/dashboard"
	"github.com/lucasrodor/projeto-financeiro/internal/session"
)

// portfolioCmd represents the portfolio command
var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Gera a carteira da Magic Formula",
	Long: `Rankeia o planilhão pelo indicador de rentabilidade e pelo de
desconto, soma as posições e mantém as N primeiras ações.

Example:
  go run ./cmd/dashboard portfolio --date 2024-01-02
  go run ./cmd/dashboard portfolio --date 2024-01-02 --profitability roic --valuation p_vp --size 15`,
	RunE: runPortfolio,
}

// portfolioFlags are shared with the chart command
type portfolioFlags struct {
	date          string
	profitability string
	valuation     string
	size          int
	sectors       []string
}

var portfolioOpts portfolioFlags

func (f *portfolioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "data base YYYY-MM-DD (default: strategy defaults.base_date)")
	cmd.Flags().StringVar(&f.profitability, "profitability", "", "indicador de rentabilidade (roe, roc, roic)")
	cmd.Flags().StringVar(&f.valuation, "valuation", "", "indicador de desconto (earning_yield, dividend_yield, p_vp)")
	cmd.Flags().IntVar(&f.size, "size", 0, "quantidade de ações (default: strategy portfolio.default_size)")
	cmd.Flags().StringSliceVar(&f.sectors, "sector", nil, "restringe o ranking a estes setores")
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
	portfolioOpts.register(portfolioCmd)
}

// request fills the strategy defaults
func (f *portfolioFlags) request(a *app) (dashboard.PortfolioRequest, error) {
	req := dashboard.PortfolioRequest{
		BaseDate:      a.service.DefaultBaseDate(),
		Profitability: f.profitability,
		Valuation:     f.valuation,
		Size:          f.size,
		Sectors:       f.sectors,
	}
	if f.date != "" {
		d, err := calendar.ParseDate("data_base", f.date)
		if err != nil {
			return req, err
		}
		req.BaseDate = d
	}
	if req.Profitability == "" {
		req.Profitability = a.strategy.Indicators.DefaultProfitability
	}
	if req.Valuation == "" {
		req.Valuation = a.strategy.Indicators.DefaultValuation
	}
	if req.Size == 0 {
		req.Size = a.strategy.Portfolio.DefaultSize
	}
	return req, nil
}

// buildPortfolio generates and prints the portfolio into sess
func buildPortfolio(ctx context.Context, a *app, sess *session.Session, f *portfolioFlags) (*contracts.Portfolio, error) {
	req, err := f.request(a)
	if err != nil {
		return nil, err
	}

	PrintHeader("Carteira Magic Formula", [][2]string{
		{"Data base", req.BaseDate.Format(contracts.DateFormat)},
		{"Rentabilidade", req.Profitability},
		{"Desconto", req.Valuation},
		{"Ações", strconv.Itoa(req.Size)},
		{"Ordem", a.strategy.Ranking.Order},
	})

	p, err := a.service.BuildPortfolio(ctx, sess, req)
	if err != nil {
		return nil, err
	}

	widths := []int{4, 8, 16, 14, 14, 12, 12, 8}
	PrintTableHeader([]string{"#", "ticker", "setor", p.Profitability, p.Valuation, "rank_rent", "rank_desc", "ranking"}, widths)
	for _, row := range p.Rows {
		prof, _ := row.Metric(p.Profitability)
		val, _ := row.Metric(p.Valuation)
		PrintTableRow([]string{
			strconv.Itoa(row.Position), row.Ticker, row.Sector,
			FormatNumber(prof), FormatNumber(val),
			FormatNumber(row.RankProfitability), FormatNumber(row.RankValuation), FormatNumber(row.RankTotal),
		}, widths)
	}
	fmt.Println()

	return p, nil
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := buildPortfolio(cmd.Context(), a, session.New(), &portfolioOpts)
	if err != nil {
		return PrintActionError(err)
	}

	PrintSuccess(fmt.Sprintf("Carteira com %d ações", p.Count()))
	return nil
}
