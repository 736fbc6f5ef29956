package catalog

import (
	"sort"
	"strings"
	"time"
)

// Normalize returns a copy of snap with the host classification rules and
// canonical ordering applied:
//
//   - missing IDs default to the lowercased, trimmed name
//   - library plugins are hidden
//   - plugins and commands whose name starts with "_" or contains "hidden" are hidden
//   - commands whose name contains "admin" are admin-only
//   - plugins are ordered by lowercased name, commands likewise within each plugin
//
// Ordering is stable, so entries with equal lowercased names keep their
// source order. The input snapshot is not modified.
func Normalize(snap *Snapshot) *Snapshot {
	if snap == nil {
		return &Snapshot{LoadedAt: time.Now()}
	}

	out := &Snapshot{
		Plugins:  make([]PluginMeta, len(snap.Plugins)),
		LoadedAt: snap.LoadedAt,
	}
	if out.LoadedAt.IsZero() {
		out.LoadedAt = time.Now()
	}

	for i, p := range snap.Plugins {
		p.Name = strings.TrimSpace(p.Name)
		if p.ID == "" {
			p.ID = defaultID(p.Name)
		}
		if p.Type == "" {
			p.Type = PluginTypeApplication
		}
		if p.IsLibrary() || hiddenName(p.Name) {
			p.Hidden = true
		}

		cmds := make([]CommandMeta, len(p.Commands))
		for j, c := range p.Commands {
			c.Name = strings.TrimSpace(c.Name)
			if c.ID == "" {
				c.ID = defaultID(c.Name)
			}
			if hiddenName(c.Name) {
				c.Hidden = true
			}
			if strings.Contains(strings.ToLower(c.Name), "admin") {
				c.AdminOnly = true
			}
			c.Aliases = append([]string(nil), c.Aliases...)
			c.Parameters = append([]string(nil), c.Parameters...)
			c.Examples = append([]string(nil), c.Examples...)
			cmds[j] = c
		}
		sort.SliceStable(cmds, func(a, b int) bool {
			return strings.ToLower(cmds[a].Name) < strings.ToLower(cmds[b].Name)
		})
		p.Commands = cmds
		out.Plugins[i] = p
	}

	sort.SliceStable(out.Plugins, func(a, b int) bool {
		return strings.ToLower(out.Plugins[a].Name) < strings.ToLower(out.Plugins[b].Name)
	})
	return out
}

func defaultID(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func hiddenName(name string) bool {
	return strings.HasPrefix(name, "_") || strings.Contains(strings.ToLower(name), "hidden")
}
