package index

import (
	"fmt"
	"time"

	"github.com/memoriass/astrbot-plugin-picmenu/catalog"
	"github.com/memoriass/astrbot-plugin-picmenu/match"
)

// Kind tells plugin entries from command entries.
type Kind int

const (
	KindPlugin Kind = iota
	KindCommand
)

// String returns "plugin" or "command".
func (k Kind) String() string {
	if k == KindCommand {
		return "command"
	}
	return "plugin"
}

// Entry is the normalized, searchable form of a plugin or command.
type Entry struct {
	Kind Kind

	// PluginID is the owning plugin. For plugin entries it equals ID.
	PluginID string
	ID       string
	Name     string

	// Norm and NormID are the normalized display name and identifier.
	Norm   string
	NormID string

	// Aliases holds normalized alternative names (commands only).
	Aliases []string

	// Key is the phonetic key; zero when phonetic search is off.
	Key match.Key

	// Position is the 1-based position within the containing catalog sequence.
	Position int

	Hidden      bool
	AdminOnly   bool
	Description string
}

// Options configures Build.
type Options struct {
	// Phonetic enables phonetic key derivation.
	Phonetic bool

	// Matcher derives phonetic keys. Required when Phonetic is set.
	Matcher match.Matcher
}

// Index is an immutable search structure over one catalog snapshot.
type Index struct {
	snapshot    *catalog.Snapshot
	plugins     []Entry
	commands    map[string][]Entry
	pluginPos   map[string]int
	fingerprint string
	phonetic    bool
}

// Build derives an Index from snap. The snapshot must already be normalized
// (see catalog.Normalize); Build validates it but does not reorder it.
// Commands of a hidden plugin are hidden as well.
func Build(snap *catalog.Snapshot, opts Options) (*Index, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}
	if opts.Phonetic && opts.Matcher == nil {
		return nil, ErrNoMatcher
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("index: build: %w", err)
	}

	idx := &Index{
		snapshot:    snap,
		plugins:     make([]Entry, 0, len(snap.Plugins)),
		commands:    make(map[string][]Entry, len(snap.Plugins)),
		pluginPos:   make(map[string]int, len(snap.Plugins)),
		fingerprint: snap.Fingerprint(),
		phonetic:    opts.Phonetic,
	}

	for i, p := range snap.Plugins {
		pe := Entry{
			Kind:        KindPlugin,
			PluginID:    p.ID,
			ID:          p.ID,
			Name:        p.Name,
			Norm:        match.Normalize(p.Name),
			NormID:      match.Normalize(p.ID),
			Position:    i + 1,
			Hidden:      p.Hidden,
			Description: p.Description,
		}
		if opts.Phonetic {
			pe.Key = opts.Matcher.PhoneticKey(p.Name)
		}
		idx.plugins = append(idx.plugins, pe)
		idx.pluginPos[p.ID] = i

		cmds := make([]Entry, 0, len(p.Commands))
		for j, c := range p.Commands {
			ce := Entry{
				Kind:        KindCommand,
				PluginID:    p.ID,
				ID:          c.ID,
				Name:        c.Name,
				Norm:        match.Normalize(c.Name),
				NormID:      match.Normalize(c.ID),
				Position:    j + 1,
				Hidden:      c.Hidden || p.Hidden,
				AdminOnly:   c.AdminOnly,
				Description: c.Description,
			}
			for _, a := range c.Aliases {
				if n := match.Normalize(a); n != "" {
					ce.Aliases = append(ce.Aliases, n)
				}
			}
			if opts.Phonetic {
				ce.Key = opts.Matcher.PhoneticKey(c.Name)
			}
			cmds = append(cmds, ce)
		}
		idx.commands[p.ID] = cmds
	}

	return idx, nil
}

// Plugins returns every plugin entry in catalog order. Callers must not
// modify the returned slice.
func (x *Index) Plugins() []Entry {
	return x.plugins
}

// Commands returns the command entries of pluginID in catalog order.
func (x *Index) Commands(pluginID string) []Entry {
	return x.commands[pluginID]
}

// Plugin looks up a plugin entry by ID.
func (x *Index) Plugin(id string) (Entry, bool) {
	i, ok := x.pluginPos[id]
	if !ok {
		return Entry{}, false
	}
	return x.plugins[i], true
}

// Command looks up a command entry by plugin and command ID.
func (x *Index) Command(pluginID, commandID string) (Entry, bool) {
	for _, c := range x.commands[pluginID] {
		if c.ID == commandID {
			return c, true
		}
	}
	return Entry{}, false
}

// PluginMeta returns the catalog metadata behind a plugin entry.
func (x *Index) PluginMeta(id string) (catalog.PluginMeta, bool) {
	i, ok := x.pluginPos[id]
	if !ok {
		return catalog.PluginMeta{}, false
	}
	return x.snapshot.Plugins[i], true
}

// CommandMeta returns the catalog metadata behind a command entry.
func (x *Index) CommandMeta(pluginID, commandID string) (catalog.CommandMeta, bool) {
	p, ok := x.PluginMeta(pluginID)
	if !ok {
		return catalog.CommandMeta{}, false
	}
	for _, c := range p.Commands {
		if c.ID == commandID {
			return c, true
		}
	}
	return catalog.CommandMeta{}, false
}

// Len returns the number of plugins.
func (x *Index) Len() int {
	return len(x.plugins)
}

// CommandCount returns the number of commands across all plugins.
func (x *Index) CommandCount() int {
	n := 0
	for _, cmds := range x.commands {
		n += len(cmds)
	}
	return n
}

// Fingerprint identifies the catalog content the index was built from.
func (x *Index) Fingerprint() string {
	return x.fingerprint
}

// Phonetic reports whether phonetic keys were derived.
func (x *Index) Phonetic() bool {
	return x.phonetic
}

// LoadedAt returns when the underlying snapshot was loaded.
func (x *Index) LoadedAt() time.Time {
	return x.snapshot.LoadedAt
}
