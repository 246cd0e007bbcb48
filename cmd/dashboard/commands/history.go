package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Lista as carteiras salvas (requer DATABASE_URL)",
	Long: `Lista as últimas carteiras geradas e salvas no PostgreSQL.

Example:
  go run ./cmd/dashboard history --limit 10`,
	RunE: runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "quantidade de carteiras")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	summaries, err := a.service.History(cmd.Context(), historyLimit)
	if err != nil {
		return PrintActionError(err)
	}

	widths := []int{19, 10, 8, 14, 5, 40}
	PrintTableHeader([]string{"criado_em", "data_base", "rent", "desconto", "n", "tickers"}, widths)
	for _, s := range summaries {
		PrintTableRow([]string{
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			s.BaseDate.Format(contracts.DateFormat),
			s.Profitability, s.Valuation,
			strconv.Itoa(s.Size),
			strings.Join(s.Tickers, ","),
		}, widths)
	}

	fmt.Println()
	PrintSuccess(fmt.Sprintf("%d carteiras", len(summaries)))
	return nil
}
