package render

import (
	"context"

	"github.com/charmbracelet/glamour"
)

// Terminal wrap bounds, in columns.
const (
	minWrap = 40
	maxWrap = 160
)

// ANSIRenderer renders documents for terminals by styling their Markdown
// form with glamour. The theme selects glamour's light or dark style; the
// page width and font size set the wrap column.
type ANSIRenderer struct{}

// NewANSIRenderer creates an ANSIRenderer.
func NewANSIRenderer() *ANSIRenderer {
	return &ANSIRenderer{}
}

// Format returns "ansi".
func (*ANSIRenderer) Format() string {
	return FormatANSI
}

// ContentType returns the plain-text MIME type.
func (*ANSIRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render implements Renderer. A TermRenderer holds per-conversion state, so
// one is built for every call.
func (r *ANSIRenderer) Render(ctx context.Context, doc *Document, opts Options) ([]byte, error) {
	opts, theme, err := prepare(ctx, doc, opts)
	if err != nil {
		return nil, err
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStylePath(theme.Name),
		glamour.WithWordWrap(WrapColumns(opts)),
	)
	if err != nil {
		return nil, &RenderError{Format: FormatANSI, Kind: doc.Kind, Err: err}
	}

	out, err := tr.Render(Markdown(doc))
	if err != nil {
		return nil, &RenderError{Format: FormatANSI, Kind: doc.Kind, Err: err}
	}
	return []byte(out), nil
}

// WrapColumns converts a pixel width into a terminal column count, taking a
// column as half the font size.
func WrapColumns(opts Options) int {
	opts = opts.withDefaults()
	cols := opts.Width * 2 / opts.FontSize
	return min(max(cols, minWrap), maxWrap)
}
