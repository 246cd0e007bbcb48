package contracts

import (
	"encoding/json"
	"regexp"
	"time"
)

// Provider column names usable as ranking indicators
const (
	MetricROC           = "roc"
	MetricROE           = "roe"
	MetricROIC          = "roic"
	MetricEarningYield  = "earning_yield"
	MetricDividendYield = "dividend_yield"
	MetricPVP           = "p_vp"
	MetricVolume        = "volume"
)

var baseTickerPattern = regexp.MustCompile(`[A-Z]+`)

// StockRow is one line of the planilhão (screening snapshot)
// ⭐ SSOT: provider → selection
type StockRow struct {
	Ticker        string `json:"ticker"`
	Sector        string `json:"setor"`
	ROC           Number `json:"roc"`
	ROE           Number `json:"roe"`
	ROIC          Number `json:"roic"`
	EarningYield  Number `json:"earning_yield"`
	DividendYield Number `json:"dividend_yield"`
	PVP           Number `json:"p_vp"`
	Volume        Number `json:"volume"`
}

// UnmarshalJSON defaults absent metric columns to NaN (not zero)
func (r *StockRow) UnmarshalJSON(data []byte) error {
	type plain StockRow
	row := plain{
		ROC: NaN(), ROE: NaN(), ROIC: NaN(),
		EarningYield: NaN(), DividendYield: NaN(), PVP: NaN(),
		Volume: NaN(),
	}
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	*r = StockRow(row)
	return nil
}

// BaseTicker returns the alphabetic root of the ticker ("PETR4" → "PETR").
// Share classes of the same issuer share a base ticker.
func (r StockRow) BaseTicker() string {
	return baseTickerPattern.FindString(r.Ticker)
}

// Metric looks a metric up by its provider column name
func (r StockRow) Metric(name string) (Number, bool) {
	switch name {
	case MetricROC:
		return r.ROC, true
	case MetricROE:
		return r.ROE, true
	case MetricROIC:
		return r.ROIC, true
	case MetricEarningYield:
		return r.EarningYield, true
	case MetricDividendYield:
		return r.DividendYield, true
	case MetricPVP:
		return r.PVP, true
	case MetricVolume:
		return r.Volume, true
	default:
		return NaN(), false
	}
}

// IsMetric reports whether name is a known metric column
func IsMetric(name string) bool {
	_, ok := StockRow{}.Metric(name)
	return ok
}

// ScreeningTable is a deduplicated (and optionally sector-filtered) planilhão
type ScreeningTable struct {
	BaseDate time.Time  `json:"data_base"`
	Sectors  []string   `json:"setores,omitempty"`
	Rows     []StockRow `json:"dados"`
}

// Count returns the number of rows
func (t *ScreeningTable) Count() int {
	return len(t.Rows)
}
