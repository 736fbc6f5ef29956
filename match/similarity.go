package match

import (
	"math"

	"github.com/xrash/smetrics"
)

// Edit costs for Ratio. A substitution costs as much as a delete plus an
// insert, which makes Ratio the classic Levenshtein ratio.
const (
	insertCost     = 1
	deleteCost     = 1
	substituteCost = 2
)

// Ratio returns the edit-distance similarity of a and b as an integer in
// [0,100], computed over runes:
//
//	round(100 * (len(a) + len(b) - distance) / (len(a) + len(b)))
//
// Two empty strings are identical (100); an empty and a non-empty string
// share nothing (0). Ratio does not normalize its inputs.
func Ratio(a, b string) int {
	ea, eb, la, lb := encodePair(a, b)
	total := la + lb
	if total == 0 {
		return 100
	}
	if la == 0 || lb == 0 {
		return 0
	}
	dist := smetrics.WagnerFischer(ea, eb, insertCost, deleteCost, substituteCost)
	return int(math.Round(100 * float64(total-dist) / float64(total)))
}

// PartialRatio returns the best Ratio between the shorter string and every
// equally long rune window of the longer one.
func PartialRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		if len(rb) == 0 {
			return 100
		}
		return 0
	}

	short := string(ra)
	best := 0
	for i := 0; i+len(ra) <= len(rb); i++ {
		score := Ratio(short, string(rb[i:i+len(ra)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// encodePair maps the distinct runes of a and b onto single bytes so the
// byte-oriented distance function measures rune edits. When the pair holds
// more than 255 distinct runes the raw UTF-8 bytes are used instead.
func encodePair(a, b string) (string, string, int, int) {
	ra, rb := []rune(a), []rune(b)
	codes := make(map[rune]byte, len(ra)+len(rb))
	for _, rs := range [][]rune{ra, rb} {
		for _, r := range rs {
			if _, ok := codes[r]; ok {
				continue
			}
			if len(codes) == 255 {
				return a, b, len(a), len(b)
			}
			codes[r] = byte(len(codes) + 1)
		}
	}

	encode := func(rs []rune) string {
		out := make([]byte, len(rs))
		for i, r := range rs {
			out[i] = codes[r]
		}
		return string(out)
	}
	return encode(ra), encode(rb), len(ra), len(rb)
}
