// Package portfolio stores the history of generated portfolios in PostgreSQL.
package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
)

// Summary is one saved portfolio as listed by the history
type Summary struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	BaseDate      time.Time `json:"data_base"`
	Profitability string    `json:"indicador_rentabilidade"`
	Valuation     string    `json:"indicador_desconto"`
	Size          int       `json:"quantidade_acoes"`
	Order         string    `json:"ordem"`
	StrategyHash  string    `json:"strategy_hash,omitempty"`
	Tickers       []string  `json:"tickers"`
	CreatedAt     time.Time `json:"criado_em"`
}

// Repository handles portfolio history persistence
// ⭐ SSOT: histórico de carteiras só aqui
type Repository struct {
	pool         *pgxpool.Pool
	strategyHash string
}

// NewRepository creates a new portfolio repository. strategyHash is stored
// with every saved portfolio.
func NewRepository(pool *pgxpool.Pool, strategyHash string) *Repository {
	return &Repository{pool: pool, strategyHash: strategyHash}
}

const schemaSQL = `
CREATE SCHEMA IF NOT EXISTS dashboard;

CREATE TABLE IF NOT EXISTS dashboard.portfolios (
	id             UUID PRIMARY KEY,
	session_id     TEXT NOT NULL,
	base_date      DATE NOT NULL,
	profitability  TEXT NOT NULL,
	valuation      TEXT NOT NULL,
	size           INT  NOT NULL,
	ranking_order  TEXT NOT NULL,
	strategy_hash  TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS dashboard.portfolio_positions (
	portfolio_id        UUID NOT NULL REFERENCES dashboard.portfolios(id) ON DELETE CASCADE,
	position            INT  NOT NULL,
	ticker              TEXT NOT NULL,
	sector              TEXT NOT NULL DEFAULT '',
	rank_profitability  DOUBLE PRECISION,
	rank_valuation      DOUBLE PRECISION,
	rank_total          DOUBLE PRECISION,
	PRIMARY KEY (portfolio_id, position)
);

CREATE INDEX IF NOT EXISTS portfolios_created_at_idx ON dashboard.portfolios (created_at DESC);
`

// EnsureSchema creates the history tables when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create portfolio schema: %w", err)
	}
	return nil
}

// Save stores a portfolio and its positions in one transaction and returns its id
func (r *Repository) Save(ctx context.Context, sessionID string, p *contracts.Portfolio) (string, error) {
	id := uuid.NewString()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO dashboard.portfolios (
			id, session_id, base_date, profitability, valuation, size, ranking_order, strategy_hash, created_at
		) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, sessionID, p.BaseDate, p.Profitability, p.Valuation, p.Size, p.Order, r.strategyHash, createdAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert portfolio: %w", err)
	}

	query := `
		INSERT INTO dashboard.portfolio_positions (
			portfolio_id, position, ticker, sector, rank_profitability, rank_valuation, rank_total
		) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
	`
	for _, row := range p.Rows {
		_, err := tx.Exec(ctx, query,
			id, row.Position, row.Ticker, row.Sector,
			nullable(row.RankProfitability), nullable(row.RankValuation), nullable(row.RankTotal),
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert position %s: %w", row.Ticker, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// List returns the latest saved portfolios, newest first
func (r *Repository) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
		SELECT p.id::text, p.session_id, p.base_date, p.profitability, p.valuation,
		       p.size, p.ranking_order, p.strategy_hash, p.created_at,
		       COALESCE(array_agg(pp.ticker ORDER BY pp.position) FILTER (WHERE pp.ticker IS NOT NULL), '{}')
		FROM dashboard.portfolios p
		LEFT JOIN dashboard.portfolio_positions pp ON pp.portfolio_id = p.id
		GROUP BY p.id
		ORDER BY p.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()

	result := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		err := rows.Scan(&s.ID, &s.SessionID, &s.BaseDate, &s.Profitability, &s.Valuation,
			&s.Size, &s.Order, &s.StrategyHash, &s.CreatedAt, &s.Tickers)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// nullable maps a missing rank to SQL NULL
func nullable(n contracts.Number) *float64 {
	if n.IsNaN() {
		return nil
	}
	f := n.Float()
	return &f
}
