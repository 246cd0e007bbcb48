package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
)

type fakeWarmer struct {
	err   error
	calls int
}

func (f *fakeWarmer) WarmScreening(context.Context) (time.Time, int, error) {
	f.calls++
	return time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 300, f.err
}

type fakeCleaner struct{ n int }

func (f *fakeCleaner) CleanStale() int { return f.n }

func TestScreeningWarmupJob(t *testing.T) {
	w := &fakeWarmer{}
	job := NewScreeningWarmupJob(w, "", logger.Nop())

	assert.Equal(t, "screening_warmup", job.Name())
	assert.Equal(t, "0 30 19 * * 1-5", job.Schedule())
	assert.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, w.calls)

	w.err = errors.New("provider down")
	assert.Error(t, job.Run(context.Background()))
}

func TestSessionCleanupJob(t *testing.T) {
	job := NewSessionCleanupJob(&fakeCleaner{n: 3}, logger.Nop())

	assert.Equal(t, "session_cleanup", job.Name())
	assert.NoError(t, job.Run(context.Background()))
}
