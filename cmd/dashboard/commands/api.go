package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucasrodor/projeto-financeiro/internal/api"
	"github.com/lucasrodor/projeto-financeiro/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Inicia o servidor HTTP (páginas + API JSON)",
	Long: `Inicia o servidor HTTP do dashboard.

Pages:
  GET       /             - Início
  GET|POST  /planilhao    - Planilhão
  GET|POST  /estrategia   - Gerar carteira
  GET|POST  /graficos     - Carteira x Ibovespa

Endpoints:
  GET  /health              - Health check
  GET  /api/screening       - Planilhão (data_base, setores)
  POST /api/portfolio       - Gerar carteira
  POST /api/chart           - Retorno acumulado
  GET  /api/chart/figure    - Figura plotly da sessão (?format=html)
  GET  /api/session         - Estado da sessão
  GET  /api/portfolios      - Histórico de carteiras
  GET  /ws/chart            - Progresso do gráfico (websocket)

Example:
  go run ./cmd/dashboard api
  go run ./cmd/dashboard api --port 8080 --scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort      string
	apiScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "porta HTTP (default: PORT)")
	apiCmd.Flags().BoolVar(&apiScheduler, "scheduler", false, "roda o scheduler no mesmo processo (default: SCHEDULER_ENABLED)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Magic Formula Dashboard ===")

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	h, err := handlers.NewHandler(a.service, a.log)
	if err != nil {
		return fmt.Errorf("init handlers: %w", err)
	}

	router := api.NewRouter(h, a.sessions, a.log)
	server := api.New(a.cfg, a.log, router)

	if apiScheduler || a.cfg.SchedulerEnabled {
		sched, err := a.newScheduler()
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
