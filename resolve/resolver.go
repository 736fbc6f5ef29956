package resolve

import (
	"context"
	"slices"
	"sort"
	"strconv"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/index"
	"github.com/memoriass/astrbot-plugin-picmenu/match"
	"github.com/memoriass/astrbot-plugin-picmenu/visibility"
)

// Default tuning values.
const (
	DefaultThreshold = 60
	DefaultPageSize  = 10

	pluginDescriptionWeight  = 0.7
	commandDescriptionWeight = 0.8
)

// Kind classifies a Match.
type Kind int

const (
	// Exact is a single selected entry.
	Exact Kind = iota
	// FuzzyRanked is a ranked list for the caller to choose from.
	FuzzyRanked
)

// String returns "exact" or "fuzzy_ranked".
func (k Kind) String() string {
	if k == FuzzyRanked {
		return "fuzzy_ranked"
	}
	return "exact"
}

// Strategy names the resolver step that produced a Match.
type Strategy string

const (
	StrategyNumeric  Strategy = "numeric"
	StrategyExact    Strategy = "exact"
	StrategyPhonetic Strategy = "phonetic"
	StrategyFuzzy    Strategy = "fuzzy"
)

// Candidate is one entry considered by the resolver.
type Candidate struct {
	Entry index.Entry

	// Score is the similarity in [0,100]; 100 for numeric and exact hits.
	Score int

	// Position is the 1-based position within the caller's visible sequence,
	// the number a follow-up numeric query would use.
	Position int

	// Restricted marks admin-only commands shown to non-admins.
	Restricted bool
}

// Match is a successful resolution.
type Match struct {
	Kind     Kind
	Strategy Strategy

	// Best is the selected entry for Exact, or the top ranked entry.
	Best Candidate

	// Ranked lists every qualifying candidate, best first. It holds only
	// Best for numeric and exact hits.
	Ranked []Candidate
}

// Options configures a Resolver.
type Options struct {
	// Threshold is the minimum fuzzy score, in [0,100].
	Threshold int

	// Phonetic enables the phonetic strategy and phonetic fuzzy scoring.
	// It takes effect only when the index was built with phonetic keys.
	Phonetic bool

	// Matcher scores similarity and transliterates queries. Nil selects
	// plain edit-distance scoring without phonetic support.
	Matcher match.Matcher

	// AutoSelect promotes a fuzzy result with a single clear winner to Exact.
	AutoSelect bool

	// Visibility filters entries before every strategy.
	Visibility visibility.Policy

	// PageSize is the listing page size.
	PageSize int
}

// DefaultOptions returns the default resolver configuration.
func DefaultOptions() Options {
	return Options{
		Threshold:  DefaultThreshold,
		AutoSelect: true,
		Visibility: visibility.DefaultPolicy(),
		PageSize:   DefaultPageSize,
	}
}

// Resolver resolves queries against an index.
//
// Contract:
//   - Concurrency: safe for concurrent use; a Resolver holds no mutable state.
//   - Determinism: equal inputs always give equal results, ordering included.
type Resolver struct {
	opts Options
}

// New creates a Resolver. Out-of-range thresholds are clamped to [0,100]
// and a non-positive page size selects DefaultPageSize.
func New(opts Options) *Resolver {
	opts.Threshold = min(max(opts.Threshold, 0), 100)
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Phonetic && opts.Matcher == nil {
		opts.Phonetic = false
	}
	return &Resolver{opts: opts}
}

// Options returns the resolver configuration.
func (r *Resolver) Options() Options {
	return r.opts
}

// Resolve matches query against the entries caller may see at nav.
// It returns *NotFoundError when nothing qualifies and *AmbiguityError when
// several entries match exactly.
func (r *Resolver) Resolve(ctx context.Context, query string, nav Nav, idx *index.Index, caller *auth.Identity) (*Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, ErrNilIndex
	}

	q := match.Normalize(query)
	notFound := &NotFoundError{Query: query, Nav: nav}
	if q == "" {
		return nil, notFound
	}

	eligible := r.eligible(idx, nav, caller)

	if n, ok := parseIndex(q); ok {
		if n < 1 || n > len(eligible) {
			return nil, notFound
		}
		return r.single(StrategyNumeric, eligible[n-1], n, caller), nil
	}

	if hits := r.exact(q, eligible); len(hits) == 1 {
		return r.single(StrategyExact, eligible[hits[0]], hits[0]+1, caller), nil
	} else if len(hits) > 1 {
		cands := make([]Candidate, len(hits))
		for i, h := range hits {
			cands[i] = r.candidate(eligible[h], h+1, 100, caller)
		}
		return nil, &AmbiguityError{Query: query, Nav: nav, Candidates: cands}
	}

	if r.phonetic(idx) {
		var hits []int
		for i, e := range eligible {
			if match.PhoneticMatch(r.opts.Matcher, e.Key, q) {
				hits = append(hits, i)
			}
		}
		switch {
		case len(hits) == 1:
			return r.single(StrategyPhonetic, eligible[hits[0]], hits[0]+1, caller), nil
		case len(hits) > 1:
			ranked := make([]Candidate, len(hits))
			for i, h := range hits {
				ranked[i] = r.candidate(eligible[h], h+1, r.score(q, eligible[h], idx), caller)
			}
			return r.ranked(StrategyPhonetic, ranked), nil
		}
	}

	var ranked []Candidate
	for i, e := range eligible {
		if s := r.score(q, e, idx); s >= r.opts.Threshold {
			ranked = append(ranked, r.candidate(e, i+1, s, caller))
		}
	}
	if len(ranked) == 0 {
		return nil, notFound
	}
	return r.ranked(StrategyFuzzy, ranked), nil
}

// eligible returns the sequence strategies search at nav.
func (r *Resolver) eligible(idx *index.Index, nav Nav, caller *auth.Identity) []index.Entry {
	if nav.Depth == DepthRoot {
		return r.opts.Visibility.Plugins(idx, caller)
	}
	return r.opts.Visibility.Commands(idx, nav.PluginID, caller)
}

func (r *Resolver) phonetic(idx *index.Index) bool {
	return r.opts.Phonetic && idx.Phonetic()
}

// exact returns the positions of entries whose normalized name, ID, or
// alias equals q.
func (r *Resolver) exact(q string, entries []index.Entry) []int {
	var hits []int
	for i, e := range entries {
		if e.Norm == q || e.NormID == q || slices.Contains(e.Aliases, q) {
			hits = append(hits, i)
		}
	}
	return hits
}

// score is the fuzzy score of q against e: the best of the name (or ID or
// alias) similarity, the phonetic similarity, and the weighted partial
// description similarity.
func (r *Resolver) score(q string, e index.Entry, idx *index.Index) int {
	best := r.similarity(q, e.Norm)
	if e.NormID != e.Norm {
		best = max(best, r.similarity(q, e.NormID))
	}
	for _, a := range e.Aliases {
		best = max(best, r.similarity(q, a))
	}

	if r.phonetic(idx) && !e.Key.IsZero() {
		if qk := r.opts.Matcher.PhoneticKey(q); !qk.IsZero() {
			best = max(best, r.similarity(qk.Full, e.Key.Full))
		}
	}

	if e.Description != "" {
		weight := pluginDescriptionWeight
		if e.Kind == index.KindCommand {
			weight = commandDescriptionWeight
		}
		desc := int(weight * float64(match.PartialRatio(q, match.Normalize(e.Description))))
		best = max(best, desc)
	}
	return best
}

func (r *Resolver) similarity(a, b string) int {
	if r.opts.Matcher != nil {
		return r.opts.Matcher.Similarity(a, b)
	}
	return match.Ratio(a, b)
}

func (r *Resolver) candidate(e index.Entry, pos, score int, caller *auth.Identity) Candidate {
	return Candidate{
		Entry:      e,
		Score:      score,
		Position:   pos,
		Restricted: r.opts.Visibility.Restricted(e, caller),
	}
}

func (r *Resolver) single(s Strategy, e index.Entry, pos int, caller *auth.Identity) *Match {
	c := r.candidate(e, pos, 100, caller)
	return &Match{Kind: Exact, Strategy: s, Best: c, Ranked: []Candidate{c}}
}

// ranked sorts candidates by score descending then position ascending, and
// applies auto-selection.
func (r *Resolver) ranked(s Strategy, cands []Candidate) *Match {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].Position < cands[j].Position
	})

	m := &Match{Kind: FuzzyRanked, Strategy: s, Best: cands[0], Ranked: cands}
	if r.opts.AutoSelect && (len(cands) == 1 || cands[0].Score > cands[1].Score) {
		m.Kind = Exact
	}
	return m
}

// parseIndex reports whether q is a run of ASCII digits and returns its
// value. Normalization has already folded full-width digits to ASCII.
func parseIndex(q string) (int, bool) {
	for _, r := range q {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(q)
	if err != nil {
		// Too large to be a position.
		return 0, true
	}
	return n, true
}
