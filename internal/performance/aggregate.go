// Package performance turns price series into the portfolio vs. benchmark
// cumulative return comparison.
package performance

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
)

// ErrNoOverlap is returned when the portfolio and benchmark share no date
var ErrNoOverlap = errors.New("no common dates between portfolio and benchmark")

var one = decimal.NewFromInt(1)

// Aggregate computes the equal-weighted cumulative return of the portfolio and
// the benchmark cumulative return over [start, end], inner-joined on date.
// ⭐ SSOT: cálculo de retorno acumulado só aqui
//
// Tickers missing a date are left out of that date's mean. A ticker whose
// first close in range is zero cannot be normalised and is dropped.
func Aggregate(series map[string][]contracts.PricePoint, benchmark []contracts.PricePoint, start, end time.Time) (*contracts.ReturnSeries, error) {
	start, end = day(start), day(end)

	result := &contracts.ReturnSeries{
		Start:   start,
		End:     end,
		Tickers: make([]string, 0, len(series)),
		Points:  []contracts.ReturnPoint{},
	}

	names := make([]string, 0, len(series))
	for ticker := range series {
		names = append(names, ticker)
	}
	sort.Strings(names)

	// data → (soma, n)
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)

	for _, ticker := range names {
		returns, ok := cumulative(series[ticker], start, end)
		if !ok {
			result.Dropped = append(result.Dropped, contracts.TickerFailure{
				Ticker: ticker,
				Reason: "no usable price in range",
			})
			continue
		}
		result.Tickers = append(result.Tickers, ticker)
		for _, r := range returns {
			sums[r.date] += r.value
			counts[r.date]++
		}
	}

	bench, ok := cumulative(benchmark, start, end)
	if !ok || len(counts) == 0 {
		return result, ErrNoOverlap
	}

	for _, b := range bench {
		n, present := counts[b.date]
		if !present {
			continue
		}
		result.Points = append(result.Points, contracts.ReturnPoint{
			Date:      b.date,
			Portfolio: sums[b.date] / float64(n),
			Benchmark: b.value,
		})
	}

	if len(result.Points) == 0 {
		return result, ErrNoOverlap
	}
	return result, nil
}

type datedReturn struct {
	date  time.Time
	value float64
}

// cumulative returns close(t)/close(first) - 1 for the points in range,
// ascending by date. ok is false when nothing usable remains.
func cumulative(points []contracts.PricePoint, start, end time.Time) ([]datedReturn, bool) {
	inRange := make([]contracts.PricePoint, 0, len(points))
	for _, p := range points {
		d := day(p.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		p.Date = d
		inRange = append(inRange, p)
	}
	if len(inRange) == 0 {
		return nil, false
	}

	sort.SliceStable(inRange, func(i, j int) bool {
		return inRange[i].Date.Before(inRange[j].Date)
	})

	first := inRange[0].Close
	if first.IsZero() {
		return nil, false
	}

	out := make([]datedReturn, 0, len(inRange))
	for _, p := range inRange {
		if n := len(out); n > 0 && out[n-1].date.Equal(p.Date) {
			// um ponto por data
			continue
		}
		out = append(out, datedReturn{
			date:  p.Date,
			value: p.Close.Div(first).Sub(one).InexactFloat64(),
		})
	}
	return out, true
}

// day truncates t to its calendar date in UTC
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
