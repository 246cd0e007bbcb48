package database

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasrodor/projeto-financeiro/pkg/config"
)

func TestNewDisabled(t *testing.T) {
	_, err := New(context.Background(), &config.Config{})
	assert.True(t, errors.Is(err, ErrDisabled))
}

func TestNewWithInvalidURL(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			URL:             "invalid://url",
			MaxConns:        5,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
	}

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	db, err := New(context.Background(), &config.Config{Database: config.DatabaseConfig{URL: url}})
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status := db.HealthCheck(ctx)
	assert.True(t, status.Healthy, status.Error)

	// Double close should not panic
	db.Close()
	db.Close()
}
