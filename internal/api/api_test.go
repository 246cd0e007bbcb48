package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasrodor/projeto-financeiro/internal/api/handlers"
	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
	"github.com/lucasrodor/projeto-financeiro/internal/dashboard"
	"github.com/lucasrodor/projeto-financeiro/internal/external/labfin"
	"github.com/lucasrodor/projeto-financeiro/internal/session"
	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
)

var baseDay = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

type fakeProvider struct {
	rows   []contracts.StockRow
	prices map[string][]contracts.PricePoint
	bench  []contracts.PricePoint
}

func (f *fakeProvider) FetchScreening(context.Context, time.Time) ([]contracts.StockRow, error) {
	return f.rows, nil
}

func (f *fakeProvider) FetchPrices(_ context.Context, ticker string, _, _ time.Time) ([]contracts.PricePoint, error) {
	p, ok := f.prices[ticker]
	if !ok {
		return nil, &labfin.NetworkError{Endpoint: labfin.EndpointPrices, StatusCode: 404, Body: "not found"}
	}
	return p, nil
}

func (f *fakeProvider) FetchBenchmark(context.Context, time.Time, time.Time) ([]contracts.PricePoint, error) {
	return f.bench, nil
}

func (f *fakeProvider) Benchmark() string { return "ibov" }

func stock(ticker, sector string, volume, roe, ey float64) contracts.StockRow {
	return contracts.StockRow{
		Ticker: ticker, Sector: sector,
		ROC: contracts.NaN(), ROIC: contracts.NaN(), DividendYield: contracts.NaN(), PVP: contracts.NaN(),
		ROE: contracts.Number(roe), EarningYield: contracts.Number(ey), Volume: contracts.Number(volume),
	}
}

func prices(ticker string, closes ...float64) []contracts.PricePoint {
	out := make([]contracts.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = contracts.PricePoint{Ticker: ticker, Date: baseDay.AddDate(0, 0, i), Close: decimal.NewFromFloat(c)}
	}
	return out
}

type testEnv struct {
	server *httptest.Server
	client *http.Client
	store  *session.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	provider := &fakeProvider{
		rows: []contracts.StockRow{
			stock("PETR3", "petróleo", 100, 0.1, 0.05),
			stock("PETR4", "petróleo", 200, 0.1, 0.05),
			stock("VALE3", "mineração", 50, 0.2, 0.1),
		},
		prices: map[string][]contracts.PricePoint{
			"PETR4": prices("PETR4", 10, 11, 12),
			"VALE3": prices("VALE3", 20, 20, 18),
		},
		bench: prices("ibov", 100, 101, 102),
	}

	log := logger.Nop()
	svc := dashboard.NewService(dashboard.Deps{Provider: provider, Logger: log})
	h, err := handlers.NewHandler(svc, log)
	require.NoError(t, err)

	store := session.NewMemoryStore(time.Hour, log)
	server := httptest.NewServer(NewRouter(h, store, log))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{server: server, client: &http.Client{Jar: jar}, store: store}
}

func (e *testEnv) postJSON(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := e.client.Post(e.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.client.Get(env.server.URL + "/health")
	require.NoError(t, err)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Zero(t, env.store.Len(), "health does not open sessions")
}

func TestAPI_ScreeningPortfolioChart(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.client.Get(env.server.URL + "/api/screening?data_base=2024-01-02")
	require.NoError(t, err)
	var table contracts.ScreeningTable
	decode(t, resp, &table)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, table.Rows, 2)

	resp = env.postJSON(t, "/api/portfolio", `{"data_base":"2024-01-02","indicador_rentabilidade":"roe","indicador_desconto":"earning_yield","quantidade_acoes":2}`)
	var p contracts.Portfolio
	decode(t, resp, &p)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"VALE3", "PETR4"}, p.Tickers())

	resp = env.postJSON(t, "/api/chart", `{"data_ini":"2024-01-02","data_fim":"2024-01-04"}`)
	var series contracts.ReturnSeries
	decode(t, resp, &series)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, series.Points, 3)
	assert.Equal(t, 0.0, series.Points[0].Portfolio)
	assert.Equal(t, 0.0, series.Points[0].Benchmark)

	// o estado fica na sessão do cookie
	resp, err = env.client.Get(env.server.URL + "/api/session")
	require.NoError(t, err)
	var sess session.Session
	decode(t, resp, &sess)
	require.NotNil(t, sess.Screening)
	require.NotNil(t, sess.Portfolio)
	require.NotNil(t, sess.Chart)
	assert.Equal(t, 1, env.store.Len())

	resp, err = env.client.Get(env.server.URL + "/api/chart/figure")
	require.NoError(t, err)
	var fig map[string]interface{}
	decode(t, resp, &fig)
	assert.Len(t, fig["data"], 2)

	resp, err = env.client.Get(env.server.URL + "/api/chart/figure?format=html")
	require.NoError(t, err)
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#retorno-acumulado").Length())
}

func TestAPI_ErrorKinds(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		do     func() *http.Response
		status int
		kind   dashboard.Kind
	}{
		{
			name: "weekend base date",
			do: func() *http.Response {
				resp, err := env.client.Get(env.server.URL + "/api/screening?data_base=2024-01-06")
				require.NoError(t, err)
				return resp
			},
			status: http.StatusBadRequest,
			kind:   dashboard.KindValidation,
		},
		{
			name: "unknown indicator",
			do: func() *http.Response {
				return env.postJSON(t, "/api/portfolio", `{"data_base":"2024-01-02","indicador_rentabilidade":"ebitda"}`)
			},
			status: http.StatusBadRequest,
			kind:   dashboard.KindValidation,
		},
		{
			name: "malformed date in body",
			do: func() *http.Response {
				return env.postJSON(t, "/api/portfolio", `{"data_base":"02/01/2024"}`)
			},
			status: http.StatusBadRequest,
			kind:   dashboard.KindValidation,
		},
		{
			name: "unknown body field",
			do: func() *http.Response {
				return env.postJSON(t, "/api/chart", `{"inicio":"2024-01-02"}`)
			},
			status: http.StatusBadRequest,
			kind:   dashboard.KindValidation,
		},
		{
			name: "chart before portfolio",
			do: func() *http.Response {
				return env.postJSON(t, "/api/chart", `{"data_ini":"2024-01-02","data_fim":"2024-01-04"}`)
			},
			status: http.StatusBadRequest,
			kind:   dashboard.KindValidation,
		},
		{
			name: "no sector match",
			do: func() *http.Response {
				resp, err := env.client.Get(env.server.URL + "/api/screening?data_base=2024-01-02&setores=banco")
				require.NoError(t, err)
				return resp
			},
			status: http.StatusNotFound,
			kind:   dashboard.KindWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tt.do()
			var body struct {
				Error string         `json:"error"`
				Kind  dashboard.Kind `json:"kind"`
			}
			decode(t, resp, &body)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.kind, body.Kind)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestAPI_HistoryDisabled(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.client.Get(env.server.URL + "/api/portfolios")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = env.client.Get(env.server.URL + "/api/portfolios?limit=abc")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPages(t *testing.T) {
	env := newTestEnv(t)

	get := func(path string) *goquery.Document {
		resp, err := env.client.Get(env.server.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		doc, err := goquery.NewDocumentFromReader(resp.Body)
		require.NoError(t, err)
		return doc
	}
	post := func(path string, form url.Values) *goquery.Document {
		resp, err := env.client.PostForm(env.server.URL+path, form)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		doc, err := goquery.NewDocumentFromReader(resp.Body)
		require.NoError(t, err)
		return doc
	}

	home := get("/")
	assert.Contains(t, home.Find("h1").Text(), "Bem-vindo")
	assert.Equal(t, 4, home.Find(".intro h2").Length(), "markdown headings rendered")
	assert.Equal(t, "/planilhao", home.Find("#explorar").AttrOr("href", ""))

	charts := get("/graficos")
	assert.Equal(t, 1, charts.Find(".notice.error").Length(), "portfolio required")
	_, disabled := charts.Find("form button").Attr("disabled")
	assert.True(t, disabled)

	doc := post("/planilhao", url.Values{"data_base": {"2024-01-06"}})
	assert.Contains(t, doc.Find(".notice.error").Text(), "final de semana")
	assert.Zero(t, doc.Find("#planilhao").Length())

	doc = post("/planilhao", url.Values{"data_base": {"2024-01-02"}, "setores": {"mineração"}})
	assert.Equal(t, 1, doc.Find(".notice.success").Length())
	assert.Equal(t, 1, doc.Find("#planilhao tbody tr").Length())
	assert.Equal(t, "VALE3", strings.TrimSpace(doc.Find("#planilhao tbody tr td").First().Text()))

	// o planilhão anterior continua visível no GET
	doc = get("/planilhao")
	assert.Equal(t, 1, doc.Find("#planilhao tbody tr").Length())

	doc = post("/estrategia", url.Values{
		"data_base":               {"2024-01-02"},
		"indicador_rentabilidade": {"roe"},
		"indicador_desconto":      {"earning_yield"},
		"quantidade_acoes":        {"2"},
	})
	rows := doc.Find("#carteira tbody tr")
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, "VALE3", strings.TrimSpace(rows.First().Find("td").First().Text()))
	assert.Equal(t, "4", strings.TrimSpace(rows.First().Find("td").Last().Text()))

	doc = post("/graficos", url.Values{"data_ini": {"2024-01-02"}, "data_fim": {"2024-01-04"}})
	assert.Zero(t, doc.Find(".notice.error").Length())
	assert.Equal(t, 1, doc.Find("#grafico-retorno").Length())
	assert.Equal(t, 1, doc.Find("#resumo tbody tr").Length())

	doc = post("/graficos", url.Values{"data_ini": {"2024-01-04"}, "data_fim": {"2024-01-02"}})
	assert.Contains(t, doc.Find(".notice.error").Text(), "anterior à data final")
	assert.Zero(t, doc.Find("#grafico-retorno").Length(), "failed range shows no chart")
	assert.Zero(t, doc.Find("#resumo").Length())

	// o gráfico da sessão continua disponível no GET
	doc = get("/graficos")
	assert.Equal(t, 1, doc.Find("#grafico-retorno").Length())

	post("/estrategia", url.Values{
		"data_base":               {"2024-01-02"},
		"indicador_rentabilidade": {"roe"},
		"indicador_desconto":      {"earning_yield"},
		"quantidade_acoes":        {"1"},
	})
	doc = get("/graficos")
	assert.Zero(t, doc.Find("#grafico-retorno").Length(), "new portfolio drops the old chart")
}

func TestChartStream(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON(t, "/api/portfolio", `{"data_base":"2024-01-02","quantidade_acoes":2}`)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	u, err := url.Parse(env.server.URL)
	require.NoError(t, err)
	header := http.Header{}
	for _, c := range env.client.Jar.Cookies(u) {
		header.Add("Cookie", c.String())
	}

	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/chart?data_ini=2024-01-02&data_fim=2024-01-04"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	var types []string
	var last handlers.WSMessage
	for {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var msg handlers.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		types = append(types, msg.Type)
		last = msg
	}

	assert.Equal(t, []string{"progress", "progress", "figure"}, types)
	fig, ok := last.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, fig["data"], 2)
}

func TestChartStream_Error(t *testing.T) {
	env := newTestEnv(t)

	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/chart?data_ini=2024-01-02&data_fim=2024-01-04"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg struct {
		Type    string `json:"type"`
		Payload struct {
			Error string         `json:"error"`
			Kind  dashboard.Kind `json:"kind"`
		} `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))

	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, dashboard.KindValidation, msg.Payload.Kind)
}
