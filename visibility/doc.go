// Package visibility decides which index entries a caller may see.
//
// Every listing and every resolver strategy consumes the sequences returned
// by Policy.Plugins and Policy.Commands, so a hidden entry can never surface
// through one search path while being filtered from another.
package visibility
