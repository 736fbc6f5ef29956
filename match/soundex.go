package match

import (
	"strings"

	"github.com/xrash/smetrics"
)

// Soundex matches English names through the Soundex code of each word.
type Soundex struct{}

// NewSoundex creates a Soundex Matcher.
func NewSoundex() *Soundex {
	return &Soundex{}
}

// Similarity returns Ratio(a, b).
func (s *Soundex) Similarity(a, b string) int {
	return Ratio(a, b)
}

// PhoneticKey returns one lowercased Soundex code per word of name. Words
// that do not start with an ASCII letter are kept verbatim.
func (s *Soundex) PhoneticKey(name string) Key {
	var syllables []string
	tokenize(Normalize(name), func(rune) bool { return false }, func(tok string, _ bool) {
		syllables = append(syllables, soundexWord(tok))
	})
	return newKey(syllables)
}

func soundexWord(word string) string {
	ascii := make([]byte, 0, len(word))
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			ascii = append(ascii, c)
		}
	}
	if len(ascii) == 0 || !(word[0] >= 'a' && word[0] <= 'z' || word[0] >= 'A' && word[0] <= 'Z') {
		return strings.ToLower(word)
	}
	return strings.ToLower(smetrics.Soundex(string(ascii)))
}

var _ Matcher = (*Soundex)(nil)
