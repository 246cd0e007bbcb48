package strategyconfig

// Default returns the built-in strategy: the indicator lists, size limits,
// sectors and 2024 B3 holidays the dashboard ships with
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "magic_formula",
			Version:    "1.0",
		},
		Indicators: Indicators{
			Profitability:        []string{"roe", "roc", "roic"},
			Valuation:            []string{"earning_yield", "dividend_yield", "p_vp"},
			DefaultProfitability: "roe",
			DefaultValuation:     "earning_yield",
		},
		Portfolio: Portfolio{
			DefaultSize: 10,
			MaxSize:     20,
		},
		Ranking: Ranking{
			Order: "desc",
		},
		Benchmark: Benchmark{
			Ticker: "ibov",
			Label:  "Ibovespa",
		},
		Sectors: []string{
			"petróleo", "mineração", "banco", "financeiro", "saúde",
			"energia", "indústria", "transporte", "saneamento", "seguro",
			"varejo", "consumo", "madeira-papel", "telecom", "siderurgico",
			"construção", "shopping", "químico", "proteína", "supermercado",
			"tecnologia", "agrícola", "aviação", "educação", "textil",
		},
		Calendar: Calendar{
			Holidays: []string{
				"2024-01-01", "2024-02-13", "2024-03-29", "2024-04-21", "2024-05-01",
				"2024-09-07", "2024-10-12", "2024-11-02", "2024-11-15", "2024-12-25",
			},
		},
		Defaults: Defaults{
			BaseDate:   "2024-01-02",
			ChartStart: "2024-01-02",
		},
		Scheduler: Scheduler{
			// dias úteis, depois do fechamento
			WarmupCron: "0 30 19 * * 1-5",
		},
	}
}
