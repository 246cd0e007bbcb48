package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/lucasrodor/projeto-financeiro/internal/chart"
	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
	"github.com/lucasrodor/projeto-financeiro/internal/dashboard"
	"github.com/lucasrodor/projeto-financeiro/internal/session"
)

//go:embed templates/*.html content/*.md
var assets embed.FS

// chartElementID is the plotly target of the Gráficos page
const chartElementID = "grafico-retorno"

var pageNames = []string{"home", "planilhao", "estrategia", "graficos"}

// pages holds one template set per page plus the rendered prose
type pages struct {
	templates map[string]*template.Template
	prose     map[string]template.HTML
}

// notice is a message box shown above the page content
type notice struct {
	Kind  dashboard.Kind
	Class string // success | warning | error
	Text  string
}

// view is the data every page template receives
type view struct {
	Title   string
	Active  string
	Intro   template.HTML
	Info    template.HTML
	Plotly  string
	Notices []notice
	Data    interface{}
}

type screeningView struct {
	BaseDate string
	Sectors  []string
	Selected []string
	Table    *contracts.ScreeningTable
}

type strategyView struct {
	ProfitabilityOptions []string
	ValuationOptions     []string
	Profitability        string
	Valuation            string
	Size                 int
	MaxSize              int
	BaseDate             string
	Portfolio            *contracts.Portfolio
}

type chartView struct {
	Start        string
	End          string
	HasPortfolio bool
	Chart        template.HTML
	Last         *contracts.ReturnPoint
}

var templateFuncs = template.FuncMap{
	"num": func(n contracts.Number) string {
		if n.IsNaN() {
			return "-"
		}
		return strconv.FormatFloat(n.Float(), 'f', -1, 64)
	},
	"pct": func(f float64) string {
		return fmt.Sprintf("%.2f%%", f*100)
	},
	"date": func(t time.Time) string {
		return t.Format("02/01/2006")
	},
	"metric": func(row contracts.StockRow, name string) contracts.Number {
		n, _ := row.Metric(name)
		return n
	},
	"has": func(list []string, s string) bool {
		for _, v := range list {
			if strings.EqualFold(v, s) {
				return true
			}
		}
		return false
	},
}

func loadPages() (*pages, error) {
	p := &pages{
		templates: make(map[string]*template.Template, len(pageNames)),
		prose:     make(map[string]template.HTML),
	}

	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(assets, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		p.templates[name] = tmpl
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	entries, err := assets.ReadDir("content")
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}
	for _, e := range entries {
		src, err := assets.ReadFile("content/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}

		var buf bytes.Buffer
		if err := md.Convert(src, &buf); err != nil {
			return nil, fmt.Errorf("failed to convert %s: %w", e.Name(), err)
		}
		// conteúdo embutido no binário, sem entrada do usuário
		p.prose[strings.TrimSuffix(e.Name(), ".md")] = template.HTML(buf.String())
	}

	return p, nil
}

func (h *Handler) render(w http.ResponseWriter, page string, v view) {
	var buf bytes.Buffer
	if err := h.pages.templates[page].ExecuteTemplate(&buf, "layout", v); err != nil {
		h.logger.WithError(err).WithField("page", page).Error("Failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// noticeFor turns an action error into the message box the user sees
func noticeFor(err error) notice {
	kind := dashboard.Classify(err)
	class := "error"
	if kind == dashboard.KindWarning {
		class = "warning"
	}
	return notice{Kind: kind, Class: class, Text: dashboard.Message(err)}
}

func success(text string) notice {
	return notice{Class: "success", Text: text}
}

// Home renders the landing page
// GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "home", view{
		Title:  "Bem-vindo ao Sistema de Análise Financeira 📊",
		Active: "inicio",
		Intro:  h.pages.prose["inicio"],
	})
}

// ScreeningPage shows the planilhão form; POST loads it into the session
// GET|POST /planilhao
func (h *Handler) ScreeningPage(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	v := view{
		Title:  "📋 Planilhão",
		Active: "planilhao",
		Intro:  h.pages.prose["planilhao"],
		Info:   h.pages.prose["planilhao_info"],
	}
	data := screeningView{
		BaseDate: h.service.DefaultBaseDate().Format(contracts.DateFormat),
		Sectors:  h.service.Strategy().Sectors,
	}

	if sess.Screening != nil {
		data.BaseDate = sess.Screening.BaseDate.Format(contracts.DateFormat)
		data.Selected = sess.Screening.Sectors
	}

	if r.Method == http.MethodPost {
		r.ParseForm()
		data.BaseDate = r.PostForm.Get("data_base")
		data.Selected = splitList(r.PostForm["setores"])

		if err := h.loadScreening(r, sess, data.BaseDate, data.Selected); err != nil {
			v.Notices = append(v.Notices, noticeFor(err))
		} else {
			v.Notices = append(v.Notices, success("Planilhão carregado com sucesso!"))
		}
	}

	data.Table = sess.Screening
	v.Data = data
	h.render(w, "planilhao", v)
}

func (h *Handler) loadScreening(r *http.Request, sess *session.Session, value string, sectors []string) error {
	baseDate, err := h.dateOr(value, "data_base", h.service.DefaultBaseDate())
	if err != nil {
		return err
	}
	_, err = h.service.LoadScreening(r.Context(), sess, baseDate, sectors)
	return err
}

// StrategyPage shows the portfolio form; POST generates the portfolio
// GET|POST /estrategia
func (h *Handler) StrategyPage(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	strategy := h.service.Strategy()
	v := view{
		Title:  "💼 Estratégia de Investimento",
		Active: "estrategia",
		Intro:  h.pages.prose["estrategia"],
		Info:   h.pages.prose["estrategia_info"],
	}
	data := strategyView{
		ProfitabilityOptions: strategy.Indicators.Profitability,
		ValuationOptions:     strategy.Indicators.Valuation,
		Profitability:        strategy.Indicators.DefaultProfitability,
		Valuation:            strategy.Indicators.DefaultValuation,
		Size:                 strategy.Portfolio.DefaultSize,
		MaxSize:              strategy.Portfolio.MaxSize,
		BaseDate:             h.service.DefaultBaseDate().Format(contracts.DateFormat),
	}

	if p := sess.Portfolio; p != nil {
		data.Profitability = p.Profitability
		data.Valuation = p.Valuation
		data.Size = p.Size
		data.BaseDate = p.BaseDate.Format(contracts.DateFormat)
	}

	if r.Method == http.MethodPost {
		r.ParseForm()
		body := portfolioBody{
			BaseDate:      r.PostForm.Get("data_base"),
			Profitability: r.PostForm.Get("indicador_rentabilidade"),
			Valuation:     r.PostForm.Get("indicador_desconto"),
			Sectors:       r.PostForm["setores"],
		}
		if n, err := strconv.Atoi(r.PostForm.Get("quantidade_acoes")); err == nil {
			body.Size = n
		}
		data.Profitability, data.Valuation = body.Profitability, body.Valuation
		data.Size, data.BaseDate = body.Size, body.BaseDate

		req, err := h.portfolioRequest(body)
		if err == nil {
			_, err = h.service.BuildPortfolio(r.Context(), sess, req)
		}
		if err != nil {
			v.Notices = append(v.Notices, noticeFor(err))
		} else {
			v.Notices = append(v.Notices, success("Carteira gerada com sucesso!"))
		}
	}

	data.Portfolio = sess.Portfolio
	v.Data = data
	h.render(w, "estrategia", v)
}

// ChartPage shows the chart form; POST builds the cumulative return chart
// GET|POST /graficos
func (h *Handler) ChartPage(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	v := view{
		Title:  "📈 Visualização de Gráficos",
		Active: "graficos",
		Intro:  h.pages.prose["graficos"],
		Info:   h.pages.prose["graficos_info"],
		Plotly: chart.PlotlyCDN,
	}

	start, end := h.service.DefaultChartRange()
	if sess.Chart != nil {
		start, end = sess.Chart.Start, sess.Chart.End
	}
	data := chartView{
		Start:        start.Format(contracts.DateFormat),
		End:          end.Format(contracts.DateFormat),
		HasPortfolio: sess.Portfolio != nil && sess.Portfolio.Count() > 0,
	}

	failed := false
	if r.Method == http.MethodPost {
		r.ParseForm()
		data.Start, data.End = r.PostForm.Get("data_ini"), r.PostForm.Get("data_fim")

		start, end, err := h.chartRange(data.Start, data.End)
		if err == nil {
			_, err = h.service.BuildChart(r.Context(), sess, start, end, nil)
		}
		if err != nil {
			failed = true
			v.Notices = append(v.Notices, noticeFor(err))
		}
	} else if !data.HasPortfolio {
		v.Notices = append(v.Notices, noticeFor(dashboard.ErrNoPortfolio))
	}

	if !failed && !sess.Chart.Empty() {
		if len(sess.Chart.Dropped) > 0 {
			tickers := make([]string, 0, len(sess.Chart.Dropped))
			for _, d := range sess.Chart.Dropped {
				tickers = append(tickers, d.Ticker)
			}
			v.Notices = append(v.Notices, notice{
				Kind:  dashboard.KindWarning,
				Class: "warning",
				Text:  "Ações sem cotação no período (fora da média): " + strings.Join(tickers, ", "),
			})
		}

		snippet, err := chart.Snippet(chart.NewFigure(sess.Chart), chartElementID)
		if err != nil {
			h.logger.WithError(err).Error("Failed to render chart snippet")
			v.Notices = append(v.Notices, noticeFor(err))
		}
		data.Chart = snippet
		if last, ok := sess.Chart.Last(); ok {
			data.Last = &last
		}
	}

	v.Data = data
	h.render(w, "graficos", v)
}
