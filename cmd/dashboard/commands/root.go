package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Magic Formula - sistema de análise financeira",
	Long: `Magic Formula Dashboard CLI

Planilhão do Laboratório de Finanças, carteiras pela Magic Formula e
retorno acumulado da carteira contra o Ibovespa.

Usage:
  go run ./cmd/dashboard [command]

Examples:
  go run ./cmd/dashboard api
  go run ./cmd/dashboard screen --date 2024-01-02 --sector banco
  go run ./cmd/dashboard portfolio --date 2024-01-02 --size 10
  go run ./cmd/dashboard chart --date 2024-01-02 --start 2024-01-02 --end 2024-06-28 --html grafico.html`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML (default: STRATEGY_FILE or built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
