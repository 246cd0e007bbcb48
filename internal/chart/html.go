package chart

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

// PlotlyCDN is the plotly.js bundle the rendered pages load
const PlotlyCDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

var snippetTmpl = template.Must(template.New("snippet").Parse(
	`<div id="{{.ID}}" class="chart" style="width:100%;height:520px;"></div>
<script>
(function () {
  var fig = {{.Figure}};
  Plotly.newPlot({{.ID}}, fig.data, fig.layout, {responsive: true});
})();
</script>`))

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.CDN}}"></script>
</head>
<body>
{{.Snippet}}
</body>
</html>
`))

// Snippet returns the <div> + <script> pair that draws fig into element id.
// The page must load PlotlyCDN.
func Snippet(fig *Figure, id string) (template.HTML, error) {
	var buf bytes.Buffer
	err := snippetTmpl.Execute(&buf, struct {
		ID     string
		Figure *Figure
	}{ID: id, Figure: fig})
	if err != nil {
		return "", fmt.Errorf("failed to render chart snippet: %w", err)
	}
	// saída já escapada pelo html/template
	return template.HTML(buf.String()), nil
}

// RenderHTML writes a standalone HTML page that draws fig with plotly.js
func RenderHTML(w io.Writer, fig *Figure) error {
	snippet, err := Snippet(fig, "retorno-acumulado")
	if err != nil {
		return err
	}

	err = pageTmpl.Execute(w, struct {
		Title   string
		CDN     string
		Snippet template.HTML
	}{Title: fig.Layout.Title.Text, CDN: PlotlyCDN, Snippet: snippet})
	if err != nil {
		return fmt.Errorf("failed to render chart page: %w", err)
	}
	return nil
}
