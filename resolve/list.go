package resolve

import (
	"strconv"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/index"
)

// Page is one page of a visible listing.
type Page struct {
	// Items are numbered by their position in the full visible sequence, so
	// a numeric query selects the same entry on every page.
	Items []Candidate

	// Number is the 1-based page number.
	Number     int
	Total      int
	TotalPages int
	PageSize   int
}

// HasNext reports whether a later page exists.
func (p *Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// List pages through the entries caller may see at nav. A page below 1 is
// treated as 1 and a non-positive pageSize selects the resolver's page
// size. A page past the end returns *NotFoundError.
func (r *Resolver) List(idx *index.Index, nav Nav, caller *auth.Identity, page, pageSize int) (*Page, error) {
	if idx == nil {
		return nil, ErrNilIndex
	}
	if nav.Depth != DepthRoot {
		if p, ok := idx.Plugin(nav.PluginID); !ok || !r.opts.Visibility.Visible(p, caller) {
			return nil, &NotFoundError{Query: nav.PluginID, Nav: nav}
		}
	}
	if pageSize <= 0 {
		pageSize = r.opts.PageSize
	}
	page = max(page, 1)

	eligible := r.eligible(idx, nav, caller)
	out := &Page{
		Number:     page,
		Total:      len(eligible),
		TotalPages: (len(eligible) + pageSize - 1) / pageSize,
		PageSize:   pageSize,
	}
	if out.TotalPages > 0 && page > out.TotalPages {
		return nil, &NotFoundError{Query: pageQuery(page), Nav: nav, Page: page}
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(eligible))
	for i := start; i < end; i++ {
		out.Items = append(out.Items, r.candidate(eligible[i], i+1, 0, caller))
	}
	return out, nil
}

func pageQuery(page int) string {
	return "page " + strconv.Itoa(page)
}
