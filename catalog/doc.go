// Package catalog models the plugin and command metadata that help menus are
// built from.
//
// A Snapshot is an immutable, ordered view of every installed plugin and its
// commands. Sources produce snapshots; Normalize applies the host's
// classification rules (library plugins and underscore-prefixed names are
// hidden) and the canonical lowercase-name ordering.
//
// # Sources
//
//	src := catalog.NewFileSource("plugins.yaml")
//	snap, err := src.Snapshot(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(len(snap.Plugins), snap.Fingerprint())
//
// FileSource reads a YAML document with a top-level "plugins" list. Watch
// reports changes to that file so callers can rebuild their indexes.
package catalog
