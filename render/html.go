package render

import (
	"bytes"
	"context"
	"embed"
	"html/template"

	"github.com/yuin/goldmark"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("page.html").
		Funcs(template.FuncMap{"markdown": renderMarkdown}).
		ParseFS(templateFS, "templates/page.html"),
)

// Layout constants for HTML pages.
const (
	pagePadding = 20
	cardSpacing = 15
)

// HTMLRenderer renders documents as self-contained, themed HTML pages.
// Description fields are converted from Markdown with goldmark; raw HTML
// inside them is dropped.
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Format returns "html".
func (*HTMLRenderer) Format() string {
	return FormatHTML
}

// ContentType returns the HTML MIME type.
func (*HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

type pageData struct {
	Doc          *Document
	Theme        Theme
	Width        int
	FontSize     int
	TitleSize    int
	SubtitleSize int
	Padding      int
	Spacing      int
	Columns      int
	Tag          string
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(ctx context.Context, doc *Document, opts Options) ([]byte, error) {
	opts, theme, err := prepare(ctx, doc, opts)
	if err != nil {
		return nil, err
	}

	data := pageData{
		Doc:          doc,
		Theme:        theme,
		Width:        opts.Width,
		FontSize:     opts.FontSize,
		TitleSize:    opts.FontSize * 3 / 2,
		SubtitleSize: max(opts.FontSize*7/8, 10),
		Padding:      pagePadding,
		Spacing:      cardSpacing,
		Columns:      1,
		Tag:          RestrictedTag,
	}
	if doc.Kind == KindMain {
		data.Columns = 2
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, &RenderError{Format: FormatHTML, Kind: doc.Kind, Err: err}
	}
	return buf.Bytes(), nil
}

func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark omits raw HTML by default
}
