// Package labfin is the client of the Laboratório de Finanças API
// (planilhão, preço corrigido, preço diversos).
package labfin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
	"github.com/lucasrodor/projeto-financeiro/pkg/httputil"
	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
)

// Endpoints
const (
	EndpointScreening = "/planilhao"
	EndpointPrices    = "/preco-corrigido"
	EndpointDiverse   = "/preco-diversos"
)

// DefaultBenchmark is the preco-diversos ticker of the Ibovespa
const DefaultBenchmark = "ibov"

// maxErrorBody caps how much of an error response is kept
const maxErrorBody = 512

// Client handles communication with the Laboratório de Finanças API
// ⭐ SSOT: chamadas à API do provedor só neste cliente
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	benchmark  string
}

// NewClient creates a client. The token is sent as "Authorization: JWT <token>".
func NewClient(httpClient *httputil.Client, baseURL, token string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient.WithHeader("Authorization", "JWT "+token),
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
		benchmark:  DefaultBenchmark,
	}
}

// WithBenchmark overrides the benchmark ticker used by FetchBenchmark
func (c *Client) WithBenchmark(ticker string) *Client {
	if ticker != "" {
		c.benchmark = ticker
	}
	return c
}

// Benchmark returns the benchmark ticker
func (c *Client) Benchmark() string {
	return c.benchmark
}

// envelope is the provider's response wrapper
type envelope[T any] struct {
	Dados []T `json:"dados"`
}

// priceRow is one row of preco-corrigido / preco-diversos
type priceRow struct {
	Ticker     string              `json:"ticker"`
	Data       string              `json:"data"`
	Fechamento decimal.NullDecimal `json:"fechamento"`
}

// FetchScreening fetches the planilhão of a base date
func (c *Client) FetchScreening(ctx context.Context, baseDate time.Time) ([]contracts.StockRow, error) {
	params := url.Values{}
	params.Set("data_base", baseDate.Format(contracts.DateFormat))

	c.logger.WithField("data_base", params.Get("data_base")).Info("Fetching planilhão")

	var env envelope[contracts.StockRow]
	if err := c.getJSON(ctx, EndpointScreening, params, &env); err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"data_base": params.Get("data_base"),
		"rows":      len(env.Dados),
	}).Info("Planilhão fetched")

	return env.Dados, nil
}

// FetchPrices fetches the corrected closes of one ticker over [start, end]
func (c *Client) FetchPrices(ctx context.Context, ticker string, start, end time.Time) ([]contracts.PricePoint, error) {
	return c.fetchPrices(ctx, EndpointPrices, ticker, start, end)
}

// FetchBenchmark fetches the benchmark closes over [start, end]
func (c *Client) FetchBenchmark(ctx context.Context, start, end time.Time) ([]contracts.PricePoint, error) {
	return c.fetchPrices(ctx, EndpointDiverse, c.benchmark, start, end)
}

func (c *Client) fetchPrices(ctx context.Context, endpoint, ticker string, start, end time.Time) ([]contracts.PricePoint, error) {
	params := url.Values{}
	params.Set("ticker", ticker)
	params.Set("data_ini", start.Format(contracts.DateFormat))
	params.Set("data_fim", end.Format(contracts.DateFormat))

	c.logger.WithFields(map[string]interface{}{
		"endpoint": endpoint,
		"ticker":   ticker,
		"data_ini": params.Get("data_ini"),
		"data_fim": params.Get("data_fim"),
	}).Debug("Fetching prices")

	var env envelope[priceRow]
	if err := c.getJSON(ctx, endpoint, params, &env); err != nil {
		return nil, err
	}

	return toPricePoints(ticker, env.Dados)
}

// toPricePoints converts provider rows; rows without a close are skipped
func toPricePoints(ticker string, rows []priceRow) ([]contracts.PricePoint, error) {
	points := make([]contracts.PricePoint, 0, len(rows))
	for _, r := range rows {
		if !r.Fechamento.Valid {
			continue
		}
		date, err := parseDate(r.Data)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q for %s: %w", r.Data, ticker, err)
		}
		t := r.Ticker
		if t == "" {
			t = ticker
		}
		points = append(points, contracts.PricePoint{
			Ticker: t,
			Date:   date,
			Close:  r.Fechamento.Decimal,
		})
	}
	return points, nil
}

// parseDate accepts "2024-01-02" and timestamps starting with it
func parseDate(s string) (time.Time, error) {
	if len(s) > len(contracts.DateFormat) {
		s = s[:len(contracts.DateFormat)]
	}
	return time.Parse(contracts.DateFormat, s)
}

// getJSON performs the GET and decodes a 200 response into dest
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, dest interface{}) error {
	resp, err := c.httpClient.GetWithQuery(ctx, c.baseURL+endpoint, params)
	if err != nil {
		return &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		nerr := &NetworkError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		c.logger.WithFields(map[string]interface{}{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
			"body":     nerr.Body,
		}).Error("Provider returned an error")
		return nerr
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &NetworkError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
