package chart

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
)

func sampleSeries() *contracts.ReturnSeries {
	return &contracts.ReturnSeries{
		Points: []contracts.ReturnPoint{
			{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Portfolio: 0, Benchmark: 0},
			{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Portfolio: 0.0125, Benchmark: -0.005},
		},
	}
}

func TestNewFigure(t *testing.T) {
	fig := NewFigure(sampleSeries())

	require.Len(t, fig.Data, 2)

	carteira := fig.Data[0]
	assert.Equal(t, PortfolioTrace, carteira.Name)
	assert.Equal(t, "lines", carteira.Mode)
	assert.Equal(t, []string{"2024-01-02", "2024-01-03"}, carteira.X)
	assert.InDelta(t, 1.25, carteira.Y[1], 1e-9)
	assert.Empty(t, carteira.Line.Dash, "portfolio line is solid")
	assert.Equal(t, 2, carteira.Line.Width)

	ibov := fig.Data[1]
	assert.Equal(t, BenchmarkTrace, ibov.Name)
	assert.Equal(t, "dash", ibov.Line.Dash)
	assert.InDelta(t, -0.5, ibov.Y[1], 1e-9)
}

func TestFigure_JSONLayout(t *testing.T) {
	data, err := json.Marshal(NewFigure(sampleSeries()))
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	layout := raw["layout"].(map[string]interface{})
	assert.Equal(t, "x unified", layout["hovermode"])
	assert.NotContains(t, layout, "template", "plotly.js ignores a template given by name")
	assert.Equal(t, "white", layout["plot_bgcolor"])
	assert.Equal(t, "white", layout["paper_bgcolor"])
	assert.Equal(t, "zoom", layout["dragmode"])
	assert.Equal(t, Title, layout["title"].(map[string]interface{})["text"])

	legend := layout["legend"].(map[string]interface{})
	assert.Equal(t, "h", legend["orientation"])
	assert.Equal(t, 1.02, legend["y"])

	xaxis := layout["xaxis"].(map[string]interface{})
	assert.Equal(t, false, xaxis["rangeslider"].(map[string]interface{})["visible"])
	yaxis := layout["yaxis"].(map[string]interface{})
	assert.Equal(t, true, yaxis["automargin"])
	assert.Equal(t, "#EBF0F8", xaxis["gridcolor"])
	assert.Equal(t, "#EBF0F8", yaxis["gridcolor"])
}

func TestNewFigure_Empty(t *testing.T) {
	fig := NewFigure(nil)

	require.Len(t, fig.Data, 2)
	assert.Empty(t, fig.Data[0].X)
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, NewFigure(sampleSeries())))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, Title, doc.Find("title").Text())
	src, ok := doc.Find("script[src]").Attr("src")
	require.True(t, ok)
	assert.Equal(t, PlotlyCDN, src)
	assert.Equal(t, 1, doc.Find("div#retorno-acumulado").Length())

	inline := doc.Find("script:not([src])").Text()
	assert.Contains(t, inline, "Plotly.newPlot")
	assert.Contains(t, inline, "2024-01-03")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleSeries()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Carteira")
	assert.Contains(t, lines[2], "1.25%")
	assert.Contains(t, lines[2], "-0.50%")
}
