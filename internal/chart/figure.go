// Package chart renders the cumulative return comparison as a Plotly figure.
package chart

import (
	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
)

// plotly.js só aceita template como objeto; as cores do plotly_white vão direto no layout
const (
	background = "white"
	gridColor  = "#EBF0F8"
)

// Chart labels
const (
	Title          = "Retorno Acumulado: Carteira vs. Ibovespa"
	XAxisTitle     = "Data"
	YAxisTitle     = "Retorno Acumulado (%)"
	PortfolioTrace = "Carteira"
	BenchmarkTrace = "Ibovespa"
)

// Figure is a Plotly figure ({data, layout}); it marshals to the JSON that
// plotly.js Plotly.newPlot accepts
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one scatter line
type Trace struct {
	Type string    `json:"type"`
	Mode string    `json:"mode"`
	Name string    `json:"name"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
	Line Line      `json:"line"`
}

// Line styles a trace
type Line struct {
	Width int    `json:"width"`
	Dash  string `json:"dash,omitempty"`
}

// Layout mirrors the subset of plotly layout the dashboard sets
type Layout struct {
	Title     Text   `json:"title"`
	XAxis     Axis   `json:"xaxis"`
	YAxis     Axis   `json:"yaxis"`
	HoverMode string `json:"hovermode"`
	Legend    Legend `json:"legend"`
	DragMode  string `json:"dragmode"`
	PlotBG    string `json:"plot_bgcolor"`
	PaperBG   string `json:"paper_bgcolor"`
}

// Text is a plotly title object
type Text struct {
	Text string `json:"text"`
}

// Axis configures one axis
type Axis struct {
	Title       Text         `json:"title"`
	RangeSlider *RangeSlider `json:"rangeslider,omitempty"`
	AutoMargin  bool         `json:"automargin,omitempty"`
	GridColor   string       `json:"gridcolor,omitempty"`
	ZeroColor   string       `json:"zerolinecolor,omitempty"`
}

// RangeSlider toggles the x-axis range slider
type RangeSlider struct {
	Visible bool `json:"visible"`
}

// Legend places the legend
type Legend struct {
	Orientation string  `json:"orientation"`
	YAnchor     string  `json:"yanchor"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor"`
	X           float64 `json:"x"`
}

// NewFigure builds the two-line comparison figure. Returns are plotted in
// percent; dates ascend as in the series.
func NewFigure(series *contracts.ReturnSeries) *Figure {
	var points []contracts.ReturnPoint
	if series != nil {
		points = series.Points
	}

	x := make([]string, len(points))
	portfolio := make([]float64, len(points))
	benchmark := make([]float64, len(points))
	for i, p := range points {
		x[i] = p.Date.Format(contracts.DateFormat)
		portfolio[i] = p.Portfolio * 100
		benchmark[i] = p.Benchmark * 100
	}

	return &Figure{
		Data: []Trace{
			{Type: "scatter", Mode: "lines", Name: PortfolioTrace, X: x, Y: portfolio, Line: Line{Width: 2}},
			{Type: "scatter", Mode: "lines", Name: BenchmarkTrace, X: x, Y: benchmark, Line: Line{Width: 2, Dash: "dash"}},
		},
		Layout: Layout{
			Title:     Text{Text: Title},
			XAxis: Axis{
				Title:       Text{Text: XAxisTitle},
				RangeSlider: &RangeSlider{Visible: false},
				GridColor:   gridColor,
				ZeroColor:   gridColor,
			},
			YAxis: Axis{
				Title:      Text{Text: YAxisTitle},
				AutoMargin: true,
				GridColor:  gridColor,
				ZeroColor:  gridColor,
			},
			HoverMode: "x unified",
			Legend: Legend{
				Orientation: "h",
				YAnchor:     "bottom",
				Y:           1.02,
				XAnchor:     "right",
				X:           1,
			},
			DragMode: "zoom",
			PlotBG:   background,
			PaperBG:  background,
		},
	}
}
