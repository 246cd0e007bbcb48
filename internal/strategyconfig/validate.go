package strategyconfig

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
)

const dateLayout = "2006-01-02"

// ValidationError falha de validação (carregamento abortado)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Indicators ===
	if len(cfg.Indicators.Profitability) == 0 {
		return ValidationError{"indicators.profitability", "must not be empty"}
	}
	if len(cfg.Indicators.Valuation) == 0 {
		return ValidationError{"indicators.valuation", "must not be empty"}
	}
	for i, name := range cfg.Indicators.Profitability {
		if !contracts.IsMetric(name) {
			return ValidationError{fmt.Sprintf("indicators.profitability[%d]", i), fmt.Sprintf("unknown metric %q", name)}
		}
	}
	for i, name := range cfg.Indicators.Valuation {
		if !contracts.IsMetric(name) {
			return ValidationError{fmt.Sprintf("indicators.valuation[%d]", i), fmt.Sprintf("unknown metric %q", name)}
		}
	}
	if !cfg.Indicators.AllowsProfitability(cfg.Indicators.DefaultProfitability) {
		return ValidationError{"indicators.default_profitability", "must be one of indicators.profitability"}
	}
	if !cfg.Indicators.AllowsValuation(cfg.Indicators.DefaultValuation) {
		return ValidationError{"indicators.default_valuation", "must be one of indicators.valuation"}
	}

	// === Portfolio ===
	p := cfg.Portfolio
	if p.MaxSize < 1 {
		return ValidationError{"portfolio.max_size", "must be >= 1"}
	}
	if p.DefaultSize < 1 || p.DefaultSize > p.MaxSize {
		return ValidationError{"portfolio.default_size", fmt.Sprintf("must be in [1, %d]", p.MaxSize)}
	}

	// === Ranking ===
	if cfg.Ranking.Order != contracts.OrderDescending && cfg.Ranking.Order != contracts.OrderAscending {
		return ValidationError{"ranking.order", "must be desc or asc"}
	}

	// === Benchmark ===
	if cfg.Benchmark.Ticker == "" {
		return ValidationError{"benchmark.ticker", "required"}
	}

	// === Calendar / Defaults ===
	for i, h := range cfg.Calendar.Holidays {
		if _, err := time.Parse(dateLayout, h); err != nil {
			return ValidationError{fmt.Sprintf("calendar.holidays[%d]", i), "must be YYYY-MM-DD"}
		}
	}
	for field, v := range map[string]string{
		"defaults.base_date":   cfg.Defaults.BaseDate,
		"defaults.chart_start": cfg.Defaults.ChartStart,
		"defaults.chart_end":   cfg.Defaults.ChartEnd,
	} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, v); err != nil {
			return ValidationError{field, "must be YYYY-MM-DD"}
		}
	}

	// === Scheduler ===
	if cfg.Scheduler.WarmupCron != "" {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(cfg.Scheduler.WarmupCron); err != nil {
			return ValidationError{"scheduler.warmup_cron", err.Error()}
		}
	}

	return nil
}
