package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Mostra configuração e dependências",
	Long: `Mostra a estratégia carregada e o estado do Redis e do PostgreSQL.

Example:
  go run ./cmd/dashboard status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	PrintHeader("Status", nil)

	fmt.Println("📘 Estratégia")
	PrintKeyValue("id", a.strategy.Meta.StrategyID, 14)
	PrintKeyValue("versão", a.strategy.Meta.Version, 14)
	PrintKeyValue("hash", a.strategyHash[:12], 14)
	PrintKeyValue("ordem", a.strategy.Ranking.Order, 14)
	PrintKeyValue("benchmark", a.strategy.Benchmark.Ticker, 14)
	PrintKeyValue("max ações", strconv.Itoa(a.strategy.Portfolio.MaxSize), 14)
	fmt.Println()

	fmt.Println("🔌 Dependências")
	PrintKeyValue("provedor", a.cfg.LabFin.BaseURL, 14)
	PrintKeyValue("redis", strconv.FormatBool(a.redis.Enabled()), 14)

	if a.db == nil {
		PrintKeyValue("postgres", "desativado", 14)
	} else {
		health := a.db.HealthCheck(cmd.Context())
		if health.Healthy {
			PrintKeyValue("postgres", fmt.Sprintf("ok (%v, %d conns)", health.ResponseTime, health.TotalConns), 14)
		} else {
			PrintKeyValue("postgres", "erro: "+health.Error, 14)
		}
	}
	fmt.Println()

	return nil
}
