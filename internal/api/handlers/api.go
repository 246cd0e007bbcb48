package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/lucasrodor/projeto-financeiro/internal/calendar"
	"github.com/lucasrodor/projeto-financeiro/internal/chart"
	"github.com/lucasrodor/projeto-financeiro/internal/dashboard"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// portfolioBody is the JSON body of POST /api/portfolio
type portfolioBody struct {
	BaseDate      string   `json:"data_base" validate:"omitempty,datetime=2006-01-02"`
	Profitability string   `json:"indicador_rentabilidade" validate:"omitempty,max=32"`
	Valuation     string   `json:"indicador_desconto" validate:"omitempty,max=32"`
	Size          int      `json:"quantidade_acoes" validate:"gte=0"`
	Sectors       []string `json:"setores" validate:"max=50,dive,required"`
}

// chartBody is the JSON body of POST /api/chart
type chartBody struct {
	Start string `json:"data_ini" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"data_fim" validate:"omitempty,datetime=2006-01-02"`
}

// GetScreening loads the planilhão into the session
// GET /api/screening?data_base=2024-01-02&setores=banco,energia
func (h *Handler) GetScreening(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	baseDate, err := h.dateOr(q.Get("data_base"), "data_base", h.service.DefaultBaseDate())
	if err != nil {
		h.respondActionError(w, r, err)
		return
	}

	table, err := h.service.LoadScreening(r.Context(), currentSession(r), baseDate, splitList(q["setores"]))
	if err != nil {
		h.respondActionError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, table)
}

// PostPortfolio generates the Magic Formula portfolio
// POST /api/portfolio
func (h *Handler) PostPortfolio(w http.ResponseWriter, r *http.Request) {
	var body portfolioBody
	if err := decodeBody(w, r, &body); err != nil {
		h.respondActionError(w, r, err)
		return
	}

	req, err := h.portfolioRequest(body)
	if err != nil {
		h.respondActionError(w, r, err)
		return
	}

	p, err := h.service.BuildPortfolio(r.Context(), currentSession(r), req)
	if err != nil {
		h.respondActionError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// PostChart computes the portfolio vs. benchmark cumulative returns
// POST /api/chart
func (h *Handler) PostChart(w http.ResponseWriter, r *http.Request) {
	var body chartBody
	if err := decodeBody(w, r, &body); err != nil {
		h.respondActionError(w, r, err)
		return
	}

	start, end, err := h.chartRange(body.Start, body.End)
	if err != nil {
		h.respondActionError(w, r, err)
		return
	}

	series, err := h.service.BuildChart(r.Context(), currentSession(r), start, end, nil)
	if err != nil {
		h.respondActionError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, series)
}

// GetChartFigure returns the plotly figure of the session chart, as JSON or
// as a standalone page with ?format=html
// GET /api/chart/figure
func (h *Handler) GetChartFigure(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	if sess.Chart.Empty() {
		respondError(w, http.StatusNotFound, "Nenhum gráfico gerado nesta sessão.")
		return
	}

	fig := chart.NewFigure(sess.Chart)
	if r.URL.Query().Get("format") != "html" {
		respondJSON(w, http.StatusOK, fig)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.RenderHTML(w, fig); err != nil {
		h.logger.WithError(err).Error("Failed to render chart page")
	}
}

// GetSession returns the session state
// GET /api/session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, currentSession(r))
}

// ListPortfolios returns the saved portfolio history
// GET /api/portfolios?limit=20
func (h *Handler) ListPortfolios(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		if n > maxHistoryLimit {
			n = maxHistoryLimit
		}
		limit = n
	}

	summaries, err := h.service.History(r.Context(), limit)
	if err != nil {
		h.respondActionError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(summaries),
		"data":  summaries,
	})
}

// portfolioRequest fills the strategy defaults and parses the date
func (h *Handler) portfolioRequest(body portfolioBody) (dashboard.PortfolioRequest, error) {
	strategy := h.service.Strategy()

	baseDate, err := h.dateOr(body.BaseDate, "data_base", h.service.DefaultBaseDate())
	if err != nil {
		return dashboard.PortfolioRequest{}, err
	}

	req := dashboard.PortfolioRequest{
		BaseDate:      baseDate,
		Profitability: body.Profitability,
		Valuation:     body.Valuation,
		Size:          body.Size,
		Sectors:       splitList(body.Sectors),
	}
	if req.Profitability == "" {
		req.Profitability = strategy.Indicators.DefaultProfitability
	}
	if req.Valuation == "" {
		req.Valuation = strategy.Indicators.DefaultValuation
	}
	if req.Size == 0 {
		req.Size = strategy.Portfolio.DefaultSize
	}
	return req, nil
}

// chartRange parses the chart dates, defaulting the empty ones
func (h *Handler) chartRange(startValue, endValue string) (time.Time, time.Time, error) {
	defStart, defEnd := h.service.DefaultChartRange()

	start, err := h.dateOr(startValue, "data_ini", defStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := h.dateOr(endValue, "data_fim", defEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (h *Handler) dateOr(value, field string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	return calendar.ParseDate(field, value)
}
