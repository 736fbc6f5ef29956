package render

import (
	"context"
	"fmt"
	"strings"
)

// Output formats.
const (
	FormatHTML     = "html"
	FormatANSI     = "ansi"
	FormatMarkdown = "markdown"
)

// Layout defaults.
const (
	DefaultWidth    = 800
	DefaultFontSize = 16
)

// Options are the per-call presentation settings. They are part of the
// render cache key.
type Options struct {
	Theme    string
	Width    int
	FontSize int
}

// withDefaults fills zero fields.
func (o Options) withDefaults() Options {
	if o.Theme == "" {
		o.Theme = ThemeLight
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	return o
}

// Renderer serializes a Document.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: Render returns ctx.Err() when called with a cancelled context.
//   - Errors: failures are reported as *RenderError.
type Renderer interface {
	Render(ctx context.Context, doc *Document, opts Options) ([]byte, error)

	// ContentType returns the MIME type of rendered artifacts.
	ContentType() string

	// Format returns the format name, one of the Format constants.
	Format() string
}

// Formats returns the supported format names.
func Formats() []string {
	return []string{FormatHTML, FormatANSI, FormatMarkdown}
}

// New returns the renderer for format.
func New(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatHTML:
		return NewHTMLRenderer(), nil
	case FormatANSI:
		return NewANSIRenderer(), nil
	case FormatMarkdown, "md", "text":
		return NewMarkdownRenderer(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// prepare validates a render call and resolves its options.
func prepare(ctx context.Context, doc *Document, opts Options) (Options, Theme, error) {
	if err := ctx.Err(); err != nil {
		return opts, Theme{}, err
	}
	if doc == nil {
		return opts, Theme{}, ErrNilDocument
	}
	opts = opts.withDefaults()
	theme, err := LookupTheme(opts.Theme)
	if err != nil {
		return opts, Theme{}, err
	}
	return opts, theme, nil
}
