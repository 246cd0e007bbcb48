package selection

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
)

// ErrUnknownMetric is returned when a ranking field is not a provider column
var ErrUnknownMetric = errors.New("unknown metric")

// Ranker implements the Magic Formula rank-sum
// ⭐ SSOT: lógica de ranking só aqui
type Ranker struct {
	order  string
	logger *logger.Logger
}

// RankRequest describes one ranking run
type RankRequest struct {
	Profitability string   // roe | roc | roic
	Valuation     string   // earning_yield | dividend_yield | p_vp
	Size          int      // N; > 0
	Sectors       []string // optional pre-filter
}

// NewRanker creates a ranker. order is contracts.OrderDescending (default)
// or contracts.OrderAscending.
func NewRanker(order string, logger *logger.Logger) *Ranker {
	if order != contracts.OrderAscending {
		order = contracts.OrderDescending
	}
	return &Ranker{
		order:  order,
		logger: logger,
	}
}

// Order returns the sort direction of the rank total
func (r *Ranker) Order() string {
	return r.order
}

// Rank ranks both fields ascending, sums the ranks, sorts by the sum and
// keeps the first req.Size rows
func (r *Ranker) Rank(ctx context.Context, rows []contracts.StockRow, req RankRequest) ([]contracts.RankedRow, error) {
	if !contracts.IsMetric(req.Profitability) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, req.Profitability)
	}
	if !contracts.IsMetric(req.Valuation) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, req.Valuation)
	}
	if req.Size <= 0 {
		return nil, fmt.Errorf("portfolio size must be positive, got %d", req.Size)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows = FilterSectors(rows, req.Sectors)
	if len(rows) == 0 {
		return []contracts.RankedRow{}, nil
	}

	profitability := averageRanks(metricColumn(rows, req.Profitability))
	valuation := averageRanks(metricColumn(rows, req.Valuation))

	ranked := make([]contracts.RankedRow, len(rows))
	for i, row := range rows {
		ranked[i] = contracts.RankedRow{
			StockRow:          row,
			RankProfitability: profitability[i],
			RankValuation:     valuation[i],
			// NaN + x = NaN
			RankTotal: profitability[i] + valuation[i],
		}
	}

	less := greaterNaNLast
	if r.order == contracts.OrderAscending {
		less = lessNaNLast
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i].RankTotal, ranked[j].RankTotal)
	})

	if req.Size < len(ranked) {
		ranked = ranked[:req.Size]
	}
	for i := range ranked {
		ranked[i].Position = i + 1
	}

	if r.logger != nil {
		r.logger.WithFields(map[string]interface{}{
			"input":         len(rows),
			"selected":      len(ranked),
			"profitability": req.Profitability,
			"valuation":     req.Valuation,
			"order":         r.order,
			"top_ticker":    ranked[0].Ticker,
		}).Info("Ranking completed")
	}

	return ranked, nil
}

func metricColumn(rows []contracts.StockRow, name string) []contracts.Number {
	col := make([]contracts.Number, len(rows))
	for i, row := range rows {
		col[i], _ = row.Metric(name)
	}
	return col
}

// averageRanks returns 1-based ascending ranks; ties share the mean of the
// positions they span, NaN stays NaN and does not take a position
func averageRanks(values []contracts.Number) []contracts.Number {
	ranks := make([]contracts.Number, len(values))
	idx := make([]int, 0, len(values))
	for i, v := range values {
		if v.IsNaN() {
			ranks[i] = contracts.NaN()
			continue
		}
		idx = append(idx, i)
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	for start := 0; start < len(idx); {
		end := start + 1
		for end < len(idx) && values[idx[end]] == values[idx[start]] {
			end++
		}
		// posições start+1 .. end
		mean := contracts.Number(float64(start+1+end) / 2)
		for k := start; k < end; k++ {
			ranks[idx[k]] = mean
		}
		start = end
	}

	return ranks
}

func lessNaNLast(a, b contracts.Number) bool {
	if a.IsNaN() {
		return false
	}
	if b.IsNaN() {
		return true
	}
	return a < b
}
