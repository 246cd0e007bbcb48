package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Gerencia os jobs em segundo plano",
	Long: `Inicia o scheduler ou executa um job manualmente.

Subcommands:
  start   - inicia o scheduler (bloqueia até Ctrl+C)
  list    - jobs registrados e próximas execuções
  run     - executa um job agora

Example:
  go run ./cmd/dashboard scheduler start
  go run ./cmd/dashboard scheduler list
  go run ./cmd/dashboard scheduler run screening_warmup`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Inicia o scheduler",
		Long: `Inicia o scheduler com os jobs:
- screening_warmup: carrega o planilhão do último dia útil no cache
  (scheduler.warmup_cron da estratégia, default dias úteis 19:30)
- session_cleanup: remove sessões expiradas (a cada 10 minutos, só com
  sessões em memória)

O scheduler para com Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "Lista os jobs registrados",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Executa um job agora",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Magic Formula Scheduler ===")

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := a.newScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	// Start scheduler
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	PrintList(sched.GetAllJobs())
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := a.newScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	// próximas execuções só existem com o cron rodando
	sched.Start()
	defer sched.Stop()

	stats := sched.GetJobStats()
	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		st := stats[jobName]
		fmt.Printf("📊 %s\n", jobName)
		PrintKeyValue("Schedule", st.Schedule, 10)
		if st.NextRun != nil {
			PrintKeyValue("Next Run", st.NextRun.Format("2006-01-02 15:04:05"), 10)
		}
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := a.newScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Printf("Running job: %s\n", jobName)

	result, err := sched.WithRetry(0, 0).RunNow(cmd.Context(), jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		PrintError(fmt.Sprintf("%s failed after %v: %s", jobName, result.Duration, result.Error))
		return fmt.Errorf("job %s failed", jobName)
	}

	PrintSuccess(fmt.Sprintf("%s completed in %v", jobName, result.Duration))
	return nil
}
