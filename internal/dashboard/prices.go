package dashboard

import (
	"context"
	"time"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
	"github.com/lucasrodor/projeto-financeiro/pkg/redis"
)

// cachedPrices adapts the provider to performance.PriceSource, caching each
// (ticker, range) series in Redis when enabled
type cachedPrices struct {
	provider Provider
	cache    *redis.Cache
	logger   *logger.Logger
}

func (p *cachedPrices) TickerPrices(ctx context.Context, ticker string, start, end time.Time) ([]contracts.PricePoint, error) {
	return p.cached(ctx, ticker, start, end, func() ([]contracts.PricePoint, error) {
		return p.provider.FetchPrices(ctx, ticker, start, end)
	})
}

func (p *cachedPrices) BenchmarkPrices(ctx context.Context, start, end time.Time) ([]contracts.PricePoint, error) {
	return p.cached(ctx, p.provider.Benchmark(), start, end, func() ([]contracts.PricePoint, error) {
		return p.provider.FetchBenchmark(ctx, start, end)
	})
}

func (p *cachedPrices) cached(ctx context.Context, ticker string, start, end time.Time, fetch func() ([]contracts.PricePoint, error)) ([]contracts.PricePoint, error) {
	key := redis.PriceKey(ticker, start.Format(contracts.DateFormat), end.Format(contracts.DateFormat))

	var points []contracts.PricePoint
	found, err := p.cache.Get(ctx, key, &points)
	if err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("Price cache read failed")
	}
	if found {
		return points, nil
	}

	points, err = fetch()
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, points, redis.TTLDaily); err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("Price cache write failed")
	}
	return points, nil
}
