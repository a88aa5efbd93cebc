package view

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in catalog text is dropped by the default renderer.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders src as HTML. Conversion failures fall back to escaped text.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		slog.Warn("Markdown conversion failed", "error", err)
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(buf.String())
}
