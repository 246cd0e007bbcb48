package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
)

// PriceSource provides corrected prices for tickers and the benchmark
type PriceSource interface {
	TickerPrices(ctx context.Context, ticker string, start, end time.Time) ([]contracts.PricePoint, error)
	BenchmarkPrices(ctx context.Context, start, end time.Time) ([]contracts.PricePoint, error)
}

// Progress is called after each ticker fetch; err is nil on success
type Progress func(done, total int, ticker string, err error)

// Builder fetches the cohort's prices and aggregates them
type Builder struct {
	source    PriceSource
	benchmark string
	logger    *logger.Logger
}

// NewBuilder creates a builder. benchmark is the label stored in the result.
func NewBuilder(source PriceSource, benchmark string, log *logger.Logger) *Builder {
	return &Builder{
		source:    source,
		benchmark: benchmark,
		logger:    log,
	}
}

// Build fetches every ticker sequentially, drops failed tickers, fetches the
// benchmark and aggregates. A benchmark failure aborts the build.
func (b *Builder) Build(ctx context.Context, tickers []string, start, end time.Time, progress Progress) (*contracts.ReturnSeries, error) {
	series := make(map[string][]contracts.PricePoint, len(tickers))
	var failures []contracts.TickerFailure

	for i, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		prices, err := b.source.TickerPrices(ctx, ticker, start, end)
		switch {
		case err != nil:
			b.logger.WithError(err).WithField("ticker", ticker).Warn("Price fetch failed, dropping ticker")
			failures = append(failures, contracts.TickerFailure{Ticker: ticker, Reason: err.Error()})
		case len(prices) == 0:
			b.logger.WithField("ticker", ticker).Warn("No prices returned, dropping ticker")
			failures = append(failures, contracts.TickerFailure{Ticker: ticker, Reason: "no prices returned"})
		default:
			series[ticker] = prices
		}

		if progress != nil {
			progress(i+1, len(tickers), ticker, err)
		}
	}

	benchmark, err := b.source.BenchmarkPrices(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch benchmark %s: %w", b.benchmark, err)
	}

	result, err := Aggregate(series, benchmark, start, end)
	if result != nil {
		result.Benchmark = b.benchmark
		result.Dropped = append(failures, result.Dropped...)
	}
	if err != nil {
		return result, err
	}

	b.logger.WithFields(map[string]interface{}{
		"tickers": len(result.Tickers),
		"dropped": len(result.Dropped),
		"points":  len(result.Points),
	}).Info("Return series built")

	return result, nil
}
