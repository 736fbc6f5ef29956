package render

import "strconv"

// Kind is the page type of a Document.
type Kind int

const (
	KindMain Kind = iota
	KindPlugin
	KindCommand
)

// String returns "main", "plugin" or "command".
func (k Kind) String() string {
	switch k {
	case KindPlugin:
		return "plugin"
	case KindCommand:
		return "command"
	default:
		return "main"
	}
}

// Item is one numbered card in a listing.
type Item struct {
	// Index is the entry's position in the full visible listing. It is the
	// number a user types to select the entry.
	Index       int
	Name        string
	Description string

	// Detail is a short trailing note such as "3 个命令".
	Detail string

	// Restricted tags the entry as reserved for administrators.
	Restricted bool
}

// Section is a titled block of lines on a command page.
type Section struct {
	Heading string
	Lines   []string
}

// Document describes one menu page independently of its output format.
type Document struct {
	Kind     Kind
	Title    string
	Subtitle string

	// Description is free text; HTML output treats it as Markdown.
	Description string

	// Plugin and Command name the page's subject, when it has one.
	Plugin  string
	Command string

	Items    []Item
	Sections []Section

	// Empty replaces the listing when Items is empty.
	Empty string

	Page       int
	TotalPages int

	// Notes are footer lines.
	Notes []string

	// Restricted marks a command page the caller may read but not run.
	Restricted bool
}

// Paged reports whether the document is one of several pages.
func (d *Document) Paged() bool {
	return d.TotalPages > 1
}

// PageLabel returns "第 N/M 页", or "" for a single page.
func (d *Document) PageLabel() string {
	if !d.Paged() {
		return ""
	}
	return "第 " + strconv.Itoa(d.Page) + "/" + strconv.Itoa(d.TotalPages) + " 页"
}

// RestrictedTag labels admin-only entries.
const RestrictedTag = "管理员"
