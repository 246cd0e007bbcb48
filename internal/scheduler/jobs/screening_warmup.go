package jobs

import (
	"context"
	"time"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
)

// ScreeningWarmer loads the latest planilhão into the cache (see dashboard.Service)
type ScreeningWarmer interface {
	WarmScreening(ctx context.Context) (time.Time, int, error)
}

// ScreeningWarmupJob pre-fetches the planilhão of the last business day so the
// first user of the day hits the cache
type ScreeningWarmupJob struct {
	warmer   ScreeningWarmer
	schedule string
	logger   *logger.Logger
}

// NewScreeningWarmupJob creates the job; schedule is a cron spec with seconds
func NewScreeningWarmupJob(warmer ScreeningWarmer, schedule string, log *logger.Logger) *ScreeningWarmupJob {
	if schedule == "" {
		schedule = "0 30 19 * * 1-5"
	}
	return &ScreeningWarmupJob{
		warmer:   warmer,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ScreeningWarmupJob) Name() string {
	return "screening_warmup"
}

// Schedule returns the cron schedule
func (j *ScreeningWarmupJob) Schedule() string {
	return j.schedule
}

// Run fetches the planilhão
func (j *ScreeningWarmupJob) Run(ctx context.Context) error {
	date, rows, err := j.warmer.WarmScreening(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"data_base": date.Format(contracts.DateFormat),
		"rows":      rows,
	}).Info("Screening cache warmed")

	return nil
}
