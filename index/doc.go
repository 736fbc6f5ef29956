// Package index derives the normalized search structures used for menu
// resolution from a catalog snapshot.
//
// Build is pure: the same snapshot and options always yield an equal Index.
// Holder publishes the current Index through an atomic pointer so readers
// never observe a partially rebuilt index, and keeps serving the previous
// index when a rebuild fails.
package index
