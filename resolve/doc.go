// Package resolve turns free-text queries into menu topics.
//
// Strategies run in a fixed order and the first one that succeeds wins:
// numeric index into the visible sequence, exact name/ID/alias match,
// phonetic match, and finally fuzzy ranking. Every strategy sees only the
// entries the caller may see at the current navigation depth.
package resolve
