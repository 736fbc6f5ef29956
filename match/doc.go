// Package match provides the text-matching capabilities menu resolution is
// built on: an edit-distance similarity ratio in [0,100], locale-specific
// phonetic keys, and query normalization.
//
// Resolution logic depends only on the Matcher interface, so a locale can be
// swapped without touching the resolver:
//
//	m, err := match.New("zh")
//	key := m.PhoneticKey("基础功能") // Full: "jichugongneng", Abbrev: "jcgn"
//	score := m.Similarity("基础", "基础功能") // 67
package match
