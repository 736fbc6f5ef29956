package match

import "strings"

// Matcher scores textual similarity and derives phonetic keys.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Determinism: the same inputs must always yield the same outputs.
//   - Similarity returns a value in [0,100]; PhoneticKey never fails.
type Matcher interface {
	// Similarity returns how alike a and b are, from 0 (nothing shared) to 100 (identical).
	Similarity(a, b string) int

	// PhoneticKey transliterates name into its phonetic key.
	PhoneticKey(name string) Key
}

// Key is the phonetic form of a name.
type Key struct {
	// Syllables are the phonetic units of the name, in order.
	Syllables []string

	// Full is the concatenation of Syllables.
	Full string

	// Abbrev is the concatenation of each syllable's leading letter.
	Abbrev string
}

// IsZero reports whether the key carries no phonetic information.
func (k Key) IsZero() bool {
	return len(k.Syllables) == 0
}

// newKey builds a Key from syllables.
func newKey(syllables []string) Key {
	var full, abbrev strings.Builder
	for _, s := range syllables {
		full.WriteString(s)
		for _, r := range s {
			abbrev.WriteRune(r)
			break
		}
	}
	return Key{Syllables: syllables, Full: full.String(), Abbrev: abbrev.String()}
}

// Matches reports whether query phonetically matches k. The query matches
// when it equals the concatenation of the first n syllables of k, or of
// their leading letters, for some n covering at least two syllables (or the
// whole key when k has only one). Comparison is case-insensitive.
func (k Key) Matches(query string) bool {
	q := Compact(query)
	if q == "" || k.IsZero() {
		return false
	}

	minUnits := min(2, len(k.Syllables))
	var full, abbrev strings.Builder
	for i, s := range k.Syllables {
		full.WriteString(s)
		for _, r := range s {
			abbrev.WriteRune(r)
			break
		}
		if i+1 < minUnits {
			continue
		}
		if q == full.String() || q == abbrev.String() {
			return true
		}
	}
	return false
}

// PhoneticMatch reports whether query matches k either as typed (pinyin
// letters, abbreviations) or after transliterating it with m (Han text,
// English words encoded to Soundex).
func PhoneticMatch(m Matcher, k Key, query string) bool {
	if k.Matches(query) {
		return true
	}
	qk := m.PhoneticKey(query)
	return !qk.IsZero() && k.Matches(qk.Full)
}

// Locales returns the canonical locale names accepted by New.
func Locales() []string {
	return []string{"zh", "en"}
}

// New returns the Matcher for locale. Supported locales are "zh" (pinyin)
// and "en" (Soundex). An empty locale selects "zh".
func New(locale string) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "", "zh", "zh-cn", "zh_cn":
		return NewPinyin(), nil
	case "en", "en-us", "en_us":
		return NewSoundex(), nil
	default:
		return nil, ErrUnknownLocale
	}
}

// tokenize splits s into alternating runs: each Han character is its own
// token (flagged han=true), and each maximal run of letters or digits is
// one token. Everything else separates tokens.
func tokenize(s string, isHan func(rune) bool, visit func(tok string, han bool)) {
	var run []rune
	flush := func() {
		if len(run) > 0 {
			visit(string(run), false)
			run = run[:0]
		}
	}
	for _, r := range s {
		switch {
		case isHan(r):
			flush()
			visit(string(r), true)
		case isAlnum(r):
			run = append(run, r)
		default:
			flush()
		}
	}
	flush()
}
