package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockRow_BaseTicker(t *testing.T) {
	tests := []struct {
		ticker string
		want   string
	}{
		{"PETR4", "PETR"},
		{"PETR3", "PETR"},
		{"TAEE11", "TAEE"},
		{"VALE3", "VALE"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ticker, func(t *testing.T) {
			assert.Equal(t, tt.want, StockRow{Ticker: tt.ticker}.BaseTicker())
		})
	}
}

func TestStockRow_Metric(t *testing.T) {
	row := StockRow{ROE: 0.1, EarningYield: 0.05, PVP: 1.2, Volume: 100}

	v, ok := row.Metric(MetricROE)
	require.True(t, ok)
	assert.Equal(t, 0.1, v.Float())

	v, ok = row.Metric(MetricPVP)
	require.True(t, ok)
	assert.Equal(t, 1.2, v.Float())

	_, ok = row.Metric("lucro_liquido")
	assert.False(t, ok)

	assert.True(t, IsMetric(MetricDividendYield))
	assert.False(t, IsMetric("setor"))
}

func TestStockRow_UnmarshalProviderRow(t *testing.T) {
	raw := `{"ticker":"PETR4","setor":"petróleo","roe":0.25,"roic":"0,18","earning_yield":null,"volume":1500000}`

	var row StockRow
	require.NoError(t, json.Unmarshal([]byte(raw), &row))

	assert.Equal(t, "PETR4", row.Ticker)
	assert.Equal(t, "petróleo", row.Sector)
	assert.Equal(t, 0.25, row.ROE.Float())
	assert.InDelta(t, 0.18, row.ROIC.Float(), 1e-12)
	assert.True(t, row.EarningYield.IsNaN(), "null must decode as missing")
	assert.True(t, row.ROC.IsNaN(), "absent column must decode as missing, not zero")
	assert.Equal(t, 1500000.0, row.Volume.Float())
}

func TestNumber_MarshalMissingAsNull(t *testing.T) {
	data, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: NaN(), B: 1.5})
	require.NoError(t, err)

	assert.JSONEq(t, `{"a":null,"b":1.5}`, string(data))
}

func TestRankedRow_JSONKeepsRanks(t *testing.T) {
	in := RankedRow{
		StockRow:          StockRow{Ticker: "VALE3", Sector: "mineração", ROE: 0.2, ROC: NaN()},
		Position:          1,
		RankProfitability: 2,
		RankValuation:     1.5,
		RankTotal:         3.5,
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out RankedRow
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "VALE3", out.Ticker)
	assert.Equal(t, 1, out.Position)
	assert.Equal(t, 3.5, out.RankTotal.Float())
	assert.Equal(t, 1.5, out.RankValuation.Float())
	assert.True(t, out.ROC.IsNaN())
}

func TestPortfolio_Tickers(t *testing.T) {
	p := &Portfolio{Rows: []RankedRow{
		{StockRow: StockRow{Ticker: "VALE3"}},
		{StockRow: StockRow{Ticker: "PETR4"}},
	}}

	assert.Equal(t, []string{"VALE3", "PETR4"}, p.Tickers())
	assert.Equal(t, 2, p.Count())
}

func TestReturnSeries_Last(t *testing.T) {
	var empty *ReturnSeries
	assert.True(t, empty.Empty())

	s := &ReturnSeries{Points: []ReturnPoint{{Portfolio: 0}, {Portfolio: 0.1, Benchmark: 0.05}}}
	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 0.1, last.Portfolio)
}
