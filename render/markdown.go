package render

import (
	"context"
	"strconv"
	"strings"
)

// MarkdownRenderer renders documents as CommonMark text.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Format returns "markdown".
func (*MarkdownRenderer) Format() string {
	return FormatMarkdown
}

// ContentType returns the Markdown MIME type.
func (*MarkdownRenderer) ContentType() string {
	return "text/markdown; charset=utf-8"
}

// Render implements Renderer. Only the theme name is validated; Markdown
// carries no colors or sizes.
func (r *MarkdownRenderer) Render(ctx context.Context, doc *Document, opts Options) ([]byte, error) {
	if _, _, err := prepare(ctx, doc, opts); err != nil {
		return nil, err
	}
	return []byte(Markdown(doc)), nil
}

// Markdown returns the CommonMark source for doc.
func Markdown(doc *Document) string {
	var b strings.Builder

	b.WriteString("# ")
	b.WriteString(escapeMarkdown(doc.Title))
	b.WriteString("\n\n")

	if doc.Subtitle != "" {
		b.WriteString("*")
		b.WriteString(escapeMarkdown(doc.Subtitle))
		b.WriteString("*\n\n")
	}
	if doc.Description != "" {
		b.WriteString(strings.TrimSpace(doc.Description))
		b.WriteString("\n\n")
	}
	if doc.Restricted {
		b.WriteString("> `")
		b.WriteString(RestrictedTag)
		b.WriteString("` 仅管理员可执行此命令\n\n")
	}

	for _, s := range doc.Sections {
		if len(s.Lines) == 0 {
			continue
		}
		b.WriteString("## ")
		b.WriteString(escapeMarkdown(s.Heading))
		b.WriteString("\n\n")
		for _, line := range s.Lines {
			b.WriteString("- `")
			b.WriteString(strings.ReplaceAll(line, "`", "'"))
			b.WriteString("`\n")
		}
		b.WriteString("\n")
	}

	switch {
	case len(doc.Items) > 0:
		for _, it := range doc.Items {
			writeItem(&b, it)
		}
		b.WriteString("\n")
	case doc.Empty != "":
		b.WriteString("_")
		b.WriteString(escapeMarkdown(doc.Empty))
		b.WriteString("_\n\n")
	}

	footer := doc.Notes
	if label := doc.PageLabel(); label != "" {
		footer = append([]string{label}, footer...)
	}
	if len(footer) > 0 {
		b.WriteString("---\n\n")
		for _, n := range footer {
			b.WriteString(escapeMarkdown(n))
			b.WriteString("  \n")
		}
	}

	return strings.TrimRight(b.String(), "\n ") + "\n"
}

// writeItem writes one numbered entry. The number is written literally so
// page two keeps its global numbering.
func writeItem(b *strings.Builder, it Item) {
	b.WriteString(strconv.Itoa(it.Index))
	b.WriteString(". **")
	b.WriteString(escapeMarkdown(it.Name))
	b.WriteString("**")
	if it.Restricted {
		b.WriteString(" `")
		b.WriteString(RestrictedTag)
		b.WriteString("`")
	}
	if it.Description != "" {
		b.WriteString(" - ")
		b.WriteString(escapeMarkdown(oneLine(it.Description)))
	}
	if it.Detail != "" {
		b.WriteString(" (")
		b.WriteString(escapeMarkdown(it.Detail))
		b.WriteString(")")
	}
	b.WriteString("\n")
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"|", `\|`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
