package portfolio

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
	"github.com/lucasrodor/projeto-financeiro/pkg/config"
	"github.com/lucasrodor/projeto-financeiro/pkg/database"
)

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(contracts.NaN()))

	v := nullable(3.5)
	require.NotNil(t, v)
	assert.Equal(t, 3.5, *v)
}

func TestRepository_SaveAndList(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg := &config.Config{}
	cfg.Database.URL = url

	ctx := context.Background()
	db, err := database.New(ctx, cfg)
	require.NoError(t, err, "database connection failed")
	defer db.Close()

	repo := NewRepository(db.Pool, "test-hash")
	require.NoError(t, repo.EnsureSchema(ctx))

	p := &contracts.Portfolio{
		BaseDate:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Profitability: "roe",
		Valuation:     "earning_yield",
		Size:          2,
		Order:         contracts.OrderDescending,
		Rows: []contracts.RankedRow{
			{StockRow: contracts.StockRow{Ticker: "VALE3", Sector: "mineração"}, Position: 1, RankProfitability: 2, RankValuation: 2, RankTotal: 4},
			{StockRow: contracts.StockRow{Ticker: "PETR4", Sector: "petróleo"}, Position: 2, RankProfitability: 1, RankValuation: contracts.NaN(), RankTotal: contracts.NaN()},
		},
		CreatedAt: time.Now(),
	}

	id, err := repo.Save(ctx, "session-test", p)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	list, err := repo.List(ctx, 50)
	require.NoError(t, err)

	var found *Summary
	for i := range list {
		if list[i].ID == id {
			found = &list[i]
		}
	}
	require.NotNil(t, found, "saved portfolio must be listed")
	assert.Equal(t, []string{"VALE3", "PETR4"}, found.Tickers)
	assert.Equal(t, "test-hash", found.StrategyHash)
	assert.Equal(t, "session-test", found.SessionID)
}
