// Package render produces an HTML study sheet from a parsed dump.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"study-importer/internal/studydump"
)

// Raw HTML inside a summary is dropped: goldmark's renderer is not put in
// unsafe mode.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

// SummaryHTML renders the markdown content of s.
func SummaryHTML(s studydump.Summary) (string, error) {
	text := strings.TrimSpace(s.Content)
	if text == "" {
		return "", nil
	}
	var out bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &out); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return out.String(), nil
}

type sheetCard struct {
	Number   int
	Question string
	Answer   string
	Tags     []string
	Level    string
}

type sheetData struct {
	Title   string
	Dialect string
	Summary template.HTML
	Cards   []sheetCard
}

var sheetTemplate = template.Must(template.New("sheet").Parse(`<!DOCTYPE html>
<html lang="ko">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>{{.Title}}</title>
    <style>
      body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; line-height: 1.6; }
      .card { border: 1px solid #ccc; border-radius: 8px; padding: 0.75rem 1rem; margin: 1rem 0; }
      .card .answer { color: #333; white-space: pre-wrap; }
      .tag { background: #eef; border-radius: 4px; padding: 0 0.4rem; margin-right: 0.3rem; font-size: 0.85em; }
      .level { float: right; font-size: 0.8em; opacity: 0.7; }
    </style>
  </head>
  <body data-dialect="{{.Dialect}}">
    <h1>{{.Title}}</h1>
{{- if .Summary}}
    <section class="summary">{{.Summary}}</section>
{{- end}}
{{- range .Cards}}
    <div class="card">
      <span class="level">{{.Level}}</span>
      <p class="question"><strong>Q{{.Number}}.</strong> {{.Question}}</p>
      <p class="answer">{{.Answer}}</p>
      {{- if .Tags}}
      <p>{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</p>
      {{- end}}
    </div>
{{- end}}
  </body>
</html>
`))

// Sheet renders r as a standalone HTML document. Card text is escaped.
func Sheet(r studydump.Result) (string, error) {
	data := sheetData{Title: "Study sheet", Dialect: string(r.DetectedDialect)}
	if r.Summary != nil {
		if t := strings.TrimSpace(r.Summary.Title); t != "" {
			data.Title = t
		}
		html, err := SummaryHTML(*r.Summary)
		if err != nil {
			return "", err
		}
		data.Summary = template.HTML(html)
	}
	for i, e := range r.Entries {
		data.Cards = append(data.Cards, sheetCard{
			Number:   i + 1,
			Question: e.Question,
			Answer:   e.Answer,
			Tags:     e.Tags,
			Level:    string(e.Level),
		})
	}

	var out bytes.Buffer
	if err := sheetTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render sheet: %w", err)
	}
	return out.String(), nil
}
