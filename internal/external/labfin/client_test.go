package labfin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasrodor/projeto-financeiro/pkg/config"
	"github.com/lucasrodor/projeto-financeiro/pkg/httputil"
	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	hc := httputil.New(&config.Config{}, logger.Nop())
	return NewClient(hc, srv.URL+"/", "secret", logger.Nop())
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestFetchScreening(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/planilhao", r.URL.Path)
		assert.Equal(t, "2024-01-02", r.URL.Query().Get("data_base"))
		assert.Equal(t, "JWT secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"dados":[
			{"ticker":"PETR4","setor":"petróleo","roe":0.25,"roc":0.2,"roic":0.18,"earning_yield":0.2,"dividend_yield":0.1,"p_vp":1.1,"volume":1000},
			{"ticker":"OIBR3","setor":"telecom","roe":null,"volume":"12,5"}
		]}`))
	})

	rows, err := c.FetchScreening(context.Background(), day("2024-01-02"))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "PETR4", rows[0].Ticker)
	assert.Equal(t, "petróleo", rows[0].Sector)
	assert.Equal(t, 1.1, rows[0].PVP.Float())
	assert.True(t, rows[1].ROE.IsNaN())
	assert.True(t, rows[1].PVP.IsNaN())
	assert.Equal(t, 12.5, rows[1].Volume.Float())
}

func TestFetchPrices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/preco-corrigido", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "VALE3", q.Get("ticker"))
		assert.Equal(t, "2024-01-02", q.Get("data_ini"))
		assert.Equal(t, "2024-01-31", q.Get("data_fim"))

		_, _ = w.Write([]byte(`{"dados":[
			{"ticker":"VALE3","data":"2024-01-03","fechamento":76.1},
			{"ticker":"VALE3","data":"2024-01-02T00:00:00","fechamento":"77.70"},
			{"ticker":"VALE3","data":"2024-01-04","fechamento":null}
		]}`))
	})

	points, err := c.FetchPrices(context.Background(), "VALE3", day("2024-01-02"), day("2024-01-31"))
	require.NoError(t, err)
	require.Len(t, points, 2, "rows without close are skipped")

	assert.Equal(t, day("2024-01-03"), points[0].Date)
	assert.Equal(t, "76.1", points[0].Close.String())
	assert.Equal(t, day("2024-01-02"), points[1].Date)
	assert.Equal(t, "77.7", points[1].Close.String())
}

func TestFetchBenchmark(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/preco-diversos", r.URL.Path)
		assert.Equal(t, "ibov", r.URL.Query().Get("ticker"))

		_, _ = w.Write([]byte(`{"dados":[{"data":"2024-01-02","fechamento":132697.5}]}`))
	})

	points, err := c.FetchBenchmark(context.Background(), day("2024-01-02"), day("2024-01-05"))
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "ibov", points[0].Ticker)
	assert.Equal(t, "ibov", c.Benchmark())
}

func TestFetch_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"token inválido"}`))
	})

	_, err := c.FetchScreening(context.Background(), day("2024-01-02"))

	var nerr *NetworkError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, EndpointScreening, nerr.Endpoint)
	assert.Equal(t, http.StatusUnauthorized, nerr.StatusCode)
	assert.Contains(t, nerr.Body, "token inválido")
	assert.True(t, nerr.Unauthorized())
	assert.Contains(t, nerr.Error(), "status 401")
}

func TestFetch_BadBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := c.FetchPrices(context.Background(), "PETR4", day("2024-01-02"), day("2024-01-05"))

	var nerr *NetworkError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, http.StatusOK, nerr.StatusCode)
	assert.Error(t, nerr.Unwrap())
}

func TestFetch_TransportError(t *testing.T) {
	hc := httputil.New(&config.Config{}, logger.Nop())
	c := NewClient(hc, "http://127.0.0.1:1", "secret", logger.Nop())

	_, err := c.FetchBenchmark(context.Background(), day("2024-01-02"), day("2024-01-05"))

	var nerr *NetworkError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, 0, nerr.StatusCode)
}

func TestWithBenchmark(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "smll", r.URL.Query().Get("ticker"))
		_, _ = w.Write([]byte(`{"dados":[]}`))
	})
	c.WithBenchmark("smll")

	points, err := c.FetchBenchmark(context.Background(), day("2024-01-02"), day("2024-01-05"))
	require.NoError(t, err)
	assert.Empty(t, points)
}
