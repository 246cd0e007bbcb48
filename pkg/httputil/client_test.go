package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasrodor/projeto-financeiro/pkg/config"
	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:      "test",
		LogLevel: "error",
		LabFin: config.LabFinConfig{
			Timeout: 5 * time.Second,
		},
	}
}

func TestNew(t *testing.T) {
	client := New(testConfig(), logger.Nop())
	require.NotNil(t, client)

	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Nil(t, client.limiter, "no limiter when rate limit is 0")
}

func TestNewWithRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.LabFin.RateLimit = 3

	client := New(cfg, logger.Nop())
	require.NotNil(t, client.limiter)
	assert.Equal(t, 3, client.limiter.Burst())
}

func TestGetWithQuerySendsHeadersAndParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "JWT abc", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-01-02", r.URL.Query().Get("data_base"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"dados":[]}`))
	}))
	defer server.Close()

	client := New(testConfig(), logger.Nop()).WithHeader("Authorization", "JWT abc")

	resp, err := client.GetWithQuery(context.Background(), server.URL, url.Values{"data_base": {"2024-01-02"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGet_ServerErrorSentOnce(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(testConfig(), logger.Nop())

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestRedactedURL(t *testing.T) {
	u, err := url.Parse("https://example.com/api/v1/planilhao?data_base=2024-01-02")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/api/v1/planilhao", redactedURL(u))
	assert.Equal(t, "data_base=2024-01-02", u.RawQuery, "original URL must be untouched")
}
