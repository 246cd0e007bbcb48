package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the provider's date layout
const DateFormat = "2006-01-02"

// PricePoint is one corrected close of a ticker (or of the benchmark)
type PricePoint struct {
	Ticker string          `json:"ticker"`
	Date   time.Time       `json:"data"`
	Close  decimal.Decimal `json:"fechamento"`
}

// ReturnPoint is one date of the portfolio vs. benchmark comparison
type ReturnPoint struct {
	Date      time.Time `json:"data"`
	Portfolio float64   `json:"retorno_acumulado_carteira"`
	Benchmark float64   `json:"retorno_acumulado_ibovespa"`
}

// TickerFailure records a ticker dropped from the cohort
type TickerFailure struct {
	Ticker string `json:"ticker"`
	Reason string `json:"motivo"`
}

// ReturnSeries is the aggregated, date-joined cumulative return series
// ⭐ SSOT: performance → chart
type ReturnSeries struct {
	Start     time.Time       `json:"data_ini"`
	End       time.Time       `json:"data_fim"`
	Benchmark string          `json:"benchmark"`
	Tickers   []string        `json:"tickers"`
	Dropped   []TickerFailure `json:"descartados,omitempty"`
	Points    []ReturnPoint   `json:"pontos"`
}

// Empty reports whether no date survived the join
func (s *ReturnSeries) Empty() bool {
	return s == nil || len(s.Points) == 0
}

// Last returns the last point of the series
func (s *ReturnSeries) Last() (ReturnPoint, bool) {
	if s.Empty() {
		return ReturnPoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}
