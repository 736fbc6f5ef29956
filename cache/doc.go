// Package cache provides the render cache for menu artifacts.
//
// RenderCache.GetOrRender returns a stored artifact while it is fresh and
// otherwise runs exactly one render per key, sharing the result with every
// concurrent caller. Keys are derived deterministically from the render
// inputs (topic, navigation depth, theme, page, width, audience, and the
// catalog fingerprint) by a Keyer. Artifacts live in a Store: MemoryStore
// for a single process, or SQLiteStore to share and persist them across
// restarts.
package cache
