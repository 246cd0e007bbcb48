package contracts

import (
	"encoding/json"
	"time"
)

// Rank orders for the rank-sum score
const (
	OrderDescending = "desc"
	OrderAscending  = "asc"
)

// RankedRow is a StockRow with its Magic Formula ranks
// ⭐ SSOT: selection → carteira
type RankedRow struct {
	StockRow
	Position          int    `json:"posicao"` // 1-based, after sort and cut
	RankProfitability Number `json:"ranking_rentabilidade"`
	RankValuation     Number `json:"ranking_desconto"`
	RankTotal         Number `json:"ranking"`
}

// UnmarshalJSON decodes the embedded row and the rank columns; without it
// StockRow.UnmarshalJSON would be promoted and drop the ranks
func (r *RankedRow) UnmarshalJSON(data []byte) error {
	var row StockRow
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}

	var ranks struct {
		Position          int    `json:"posicao"`
		RankProfitability Number `json:"ranking_rentabilidade"`
		RankValuation     Number `json:"ranking_desconto"`
		RankTotal         Number `json:"ranking"`
	}
	if err := json.Unmarshal(data, &ranks); err != nil {
		return err
	}

	*r = RankedRow{
		StockRow:          row,
		Position:          ranks.Position,
		RankProfitability: ranks.RankProfitability,
		RankValuation:     ranks.RankValuation,
		RankTotal:         ranks.RankTotal,
	}
	return nil
}

// Portfolio is the result of one "gerar carteira" action
type Portfolio struct {
	BaseDate      time.Time   `json:"data_base"`
	Profitability string      `json:"indicador_rentabilidade"`
	Valuation     string      `json:"indicador_desconto"`
	Size          int         `json:"quantidade_acoes"`
	Order         string      `json:"ordem"`
	Rows          []RankedRow `json:"carteira"`
	CreatedAt     time.Time   `json:"criado_em"`
}

// Tickers returns the portfolio tickers in rank order
func (p *Portfolio) Tickers() []string {
	tickers := make([]string, 0, len(p.Rows))
	for _, row := range p.Rows {
		tickers = append(tickers, row.Ticker)
	}
	return tickers
}

// Count returns the number of stocks actually selected
func (p *Portfolio) Count() int {
	return len(p.Rows)
}
