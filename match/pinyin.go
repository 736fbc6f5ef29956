package match

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

// Pinyin matches Chinese names through their toneless Hanyu Pinyin spelling.
// Each Han character contributes one syllable; each run of Latin letters or
// digits contributes one lowercased syllable.
type Pinyin struct {
	args pinyin.Args
}

// NewPinyin creates a pinyin Matcher.
func NewPinyin() *Pinyin {
	args := pinyin.NewArgs()
	args.Style = pinyin.Normal
	return &Pinyin{args: args}
}

// Similarity returns Ratio(a, b).
func (p *Pinyin) Similarity(a, b string) int {
	return Ratio(a, b)
}

// PhoneticKey returns the pinyin key of name, e.g. 基础功能 → ji chu gong neng.
func (p *Pinyin) PhoneticKey(name string) Key {
	var syllables []string
	tokenize(Normalize(name), isHan, func(tok string, han bool) {
		if !han {
			syllables = append(syllables, strings.ToLower(tok))
			return
		}
		py := pinyin.LazyPinyin(tok, p.args)
		if len(py) == 0 {
			// Han rune without a reading; keep it verbatim so keys stay distinct.
			syllables = append(syllables, tok)
			return
		}
		syllables = append(syllables, py[0])
	})
	return newKey(syllables)
}

func isHan(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

var _ Matcher = (*Pinyin)(nil)
