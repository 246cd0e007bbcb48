package strategyconfig

import "time"

// Config is the Magic Formula strategy definition (strategy.yaml)
type Config struct {
	Meta       Meta       `yaml:"meta" json:"meta"`
	Indicators Indicators `yaml:"indicators" json:"indicators"`
	Portfolio  Portfolio  `yaml:"portfolio" json:"portfolio"`
	Ranking    Ranking    `yaml:"ranking" json:"ranking"`
	Benchmark  Benchmark  `yaml:"benchmark" json:"benchmark"`
	Sectors    []string   `yaml:"sectors" json:"sectors"`
	Calendar   Calendar   `yaml:"calendar" json:"calendar"`
	Defaults   Defaults   `yaml:"defaults" json:"defaults"`
	Scheduler  Scheduler  `yaml:"scheduler" json:"scheduler"`
}

// Meta identifica a estratégia
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Indicators lists the provider columns the user may pick
type Indicators struct {
	Profitability        []string `yaml:"profitability" json:"profitability"` // roe, roc, roic
	Valuation            []string `yaml:"valuation" json:"valuation"`         // earning_yield, dividend_yield, p_vp
	DefaultProfitability string   `yaml:"default_profitability" json:"default_profitability"`
	DefaultValuation     string   `yaml:"default_valuation" json:"default_valuation"`
}

// AllowsProfitability reports whether name is an allowed profitability indicator
func (i Indicators) AllowsProfitability(name string) bool {
	return contains(i.Profitability, name)
}

// AllowsValuation reports whether name is an allowed valuation indicator
func (i Indicators) AllowsValuation(name string) bool {
	return contains(i.Valuation, name)
}

// Portfolio limita o tamanho da carteira
type Portfolio struct {
	DefaultSize int `yaml:"default_size" json:"default_size"`
	MaxSize     int `yaml:"max_size" json:"max_size"`
}

// Ranking controls the rank-sum sort direction
type Ranking struct {
	Order string `yaml:"order" json:"order"` // desc | asc
}

// Benchmark is the index the portfolio is compared against
type Benchmark struct {
	Ticker string `yaml:"ticker" json:"ticker"`
	Label  string `yaml:"label" json:"label"`
}

// Calendar holds market holidays (YYYY-MM-DD)
type Calendar struct {
	Holidays []string `yaml:"holidays" json:"holidays"`
}

// Defaults pre-fill the forms
type Defaults struct {
	BaseDate   string `yaml:"base_date" json:"base_date"`
	ChartStart string `yaml:"chart_start" json:"chart_start"`
	ChartEnd   string `yaml:"chart_end,omitempty" json:"chart_end,omitempty"` // vazio = último dia útil
}

// Scheduler configures the screening cache warm-up
type Scheduler struct {
	WarmupCron string `yaml:"warmup_cron" json:"warmup_cron"`
}

// HolidayDates returns the parsed holiday list.
// Validate has already rejected malformed dates.
func (c *Config) HolidayDates() []time.Time {
	out := make([]time.Time, 0, len(c.Calendar.Holidays))
	for _, h := range c.Calendar.Holidays {
		if d, err := time.Parse(dateLayout, h); err == nil {
			out = append(out, d)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
