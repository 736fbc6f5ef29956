package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PluginType distinguishes user-facing plugins from support libraries.
type PluginType string

const (
	PluginTypeApplication PluginType = "application"
	PluginTypeLibrary     PluginType = "library"
)

// PluginMeta describes one installed plugin.
type PluginMeta struct {
	// ID is the stable plugin identifier. Defaults to the lowercased name.
	ID string `json:"id" yaml:"id"`

	// Name is the display name users search for.
	Name string `json:"name" yaml:"name"`

	Description string     `json:"description,omitempty" yaml:"description"`
	Version     string     `json:"version,omitempty" yaml:"version"`
	Author      string     `json:"author,omitempty" yaml:"author"`
	Homepage    string     `json:"homepage,omitempty" yaml:"homepage"`
	Usage       string     `json:"usage,omitempty" yaml:"usage"`
	Type        PluginType `json:"type,omitempty" yaml:"type"`

	// Hidden marks the plugin as hidden from ordinary listings.
	Hidden bool `json:"hidden,omitempty" yaml:"hidden"`

	// Commands is the ordered command list.
	Commands []CommandMeta `json:"commands,omitempty" yaml:"commands"`
}

// Subtitle returns the "By <author> | v<version>" display line.
// Missing parts are omitted.
func (p PluginMeta) Subtitle() string {
	parts := make([]string, 0, 2)
	if p.Author != "" {
		parts = append(parts, "By "+p.Author)
	}
	if p.Version != "" {
		parts = append(parts, "v"+p.Version)
	}
	return strings.Join(parts, " | ")
}

// IsLibrary reports whether the plugin is a support library.
func (p PluginMeta) IsLibrary() bool {
	return p.Type == PluginTypeLibrary
}

// CommandMeta describes one command declared by a plugin.
type CommandMeta struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Usage       string   `json:"usage,omitempty" yaml:"usage"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases"`
	Parameters  []string `json:"parameters,omitempty" yaml:"parameters"`
	Examples    []string `json:"examples,omitempty" yaml:"examples"`
	Hidden      bool     `json:"hidden,omitempty" yaml:"hidden"`
	AdminOnly   bool     `json:"admin_only,omitempty" yaml:"admin_only"`
}

// Snapshot is an immutable view of the catalog at one point in time.
//
// Callers must not mutate a Snapshot after handing it to an index builder.
type Snapshot struct {
	Plugins  []PluginMeta `json:"plugins" yaml:"plugins"`
	LoadedAt time.Time    `json:"-" yaml:"-"`
}

// Plugin returns the plugin with the given ID.
func (s *Snapshot) Plugin(id string) (PluginMeta, bool) {
	for _, p := range s.Plugins {
		if p.ID == id {
			return p, true
		}
	}
	return PluginMeta{}, false
}

// CommandCount returns the total number of commands across all plugins.
func (s *Snapshot) CommandCount() int {
	n := 0
	for _, p := range s.Plugins {
		n += len(p.Commands)
	}
	return n
}

// Fingerprint returns a short content hash of the plugin list.
// LoadedAt does not contribute, so reloading an unchanged catalog yields the
// same fingerprint.
func (s *Snapshot) Fingerprint() string {
	data, err := json.Marshal(s.Plugins)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// Validate checks structural invariants: every plugin and command has a name,
// plugin IDs are unique, and command IDs are unique within their plugin.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	plugins := make(map[string]struct{}, len(s.Plugins))
	for i, p := range s.Plugins {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: plugin #%d: %w", ErrInvalidSnapshot, i+1, ErrEmptyName)
		}
		if _, dup := plugins[p.ID]; dup {
			return fmt.Errorf("%w: plugin %q: %w", ErrInvalidSnapshot, p.ID, ErrDuplicateID)
		}
		plugins[p.ID] = struct{}{}

		commands := make(map[string]struct{}, len(p.Commands))
		for j, c := range p.Commands {
			if strings.TrimSpace(c.Name) == "" {
				return fmt.Errorf("%w: plugin %q command #%d: %w", ErrInvalidSnapshot, p.ID, j+1, ErrEmptyName)
			}
			if _, dup := commands[c.ID]; dup {
				return fmt.Errorf("%w: plugin %q command %q: %w", ErrInvalidSnapshot, p.ID, c.ID, ErrDuplicateID)
			}
			commands[c.ID] = struct{}{}
		}
	}
	return nil
}
