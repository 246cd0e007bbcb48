package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucasrodor/projeto-financeiro/internal/calendar"
	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
	"github.com/lucasrodor/projeto-financeiro/internal/session"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Mostra o planilhão (uma linha por empresa)",
	Long: `Busca o planilhão da data base, mantém a classe de ação de maior
volume de cada empresa e, opcionalmente, filtra por setor.

Example:
  go run ./cmd/dashboard screen --date 2024-01-02
  go run ./cmd/dashboard screen --date 2024-01-02 --sector banco --sector energia`,
	RunE: runScreen,
}

var (
	screenDate    string
	screenSectors []string
	screenLimit   int
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringVar(&screenDate, "date", "", "data base YYYY-MM-DD (default: strategy defaults.base_date)")
	screenCmd.Flags().StringSliceVar(&screenSectors, "sector", nil, "filtro de setor (repetível)")
	screenCmd.Flags().IntVar(&screenLimit, "limit", 50, "linhas exibidas (0 = todas)")
}

func runScreen(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	baseDate := a.service.DefaultBaseDate()
	if screenDate != "" {
		if baseDate, err = calendar.ParseDate("data_base", screenDate); err != nil {
			return PrintActionError(err)
		}
	}

	PrintHeader("Planilhão", [][2]string{
		{"Data base", baseDate.Format(contracts.DateFormat)},
		{"Setores", strings.Join(screenSectors, ", ")},
	})

	table, err := a.service.LoadScreening(cmd.Context(), session.New(), baseDate, screenSectors)
	if err != nil {
		return PrintActionError(err)
	}

	widths := []int{8, 16, 10, 10, 10, 14, 14, 10, 16}
	PrintTableHeader([]string{"ticker", "setor", "roc", "roe", "roic", "earning_yield", "dividend_yield", "p_vp", "volume"}, widths)
	for i, row := range table.Rows {
		if screenLimit > 0 && i == screenLimit {
			fmt.Printf("... %d more\n", table.Count()-screenLimit)
			break
		}
		PrintTableRow([]string{
			row.Ticker, row.Sector,
			FormatNumber(row.ROC), FormatNumber(row.ROE), FormatNumber(row.ROIC),
			FormatNumber(row.EarningYield), FormatNumber(row.DividendYield), FormatNumber(row.PVP),
			FormatNumber(row.Volume),
		}, widths)
	}

	fmt.Println()
	PrintSuccess(fmt.Sprintf("%d empresas", table.Count()))
	return nil
}
