package visibility

import (
	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/index"
)

// Audience groups callers that see identical listings. It is part of the
// render cache key.
type Audience string

const (
	// AudiencePublic sees no hidden entries.
	AudiencePublic Audience = "public"
	// AudienceHidden is a non-admin caller who may see hidden entries.
	AudienceHidden Audience = "hidden"
	// AudienceAdmin is an administrator.
	AudienceAdmin Audience = "admin"
)

// Policy holds the hidden-content configuration.
type Policy struct {
	// ShowHidden enables hidden plugins and commands at all.
	ShowHidden bool

	// AdminOnlyHidden restricts hidden entries to administrators.
	AdminOnlyHidden bool
}

// DefaultPolicy mirrors the default configuration: hidden entries are off,
// and when turned on they are reserved for administrators.
func DefaultPolicy() Policy {
	return Policy{ShowHidden: false, AdminOnlyHidden: true}
}

// CanSeeHidden reports whether caller may see hidden entries.
func (p Policy) CanSeeHidden(caller *auth.Identity) bool {
	return p.ShowHidden && (caller.IsAdmin() || !p.AdminOnlyHidden)
}

// Visible reports whether e may appear in any listing or match for caller.
// Admin-only commands are visible to everyone; see Restricted.
func (p Policy) Visible(e index.Entry, caller *auth.Identity) bool {
	return !e.Hidden || p.CanSeeHidden(caller)
}

// Restricted reports whether e is listed for caller but reserved for
// administrators.
func (p Policy) Restricted(e index.Entry, caller *auth.Identity) bool {
	return e.AdminOnly && !caller.IsAdmin()
}

// Audience classifies caller for cache partitioning.
func (p Policy) Audience(caller *auth.Identity) Audience {
	switch {
	case caller.IsAdmin():
		return AudienceAdmin
	case p.CanSeeHidden(caller):
		return AudienceHidden
	default:
		return AudiencePublic
	}
}

// Plugins returns the plugins visible to caller, in catalog order.
func (p Policy) Plugins(idx *index.Index, caller *auth.Identity) []index.Entry {
	if idx == nil {
		return nil
	}
	return p.filter(idx.Plugins(), caller)
}

// Commands returns the commands of pluginID visible to caller, in catalog
// order. It returns nil when the plugin itself is not visible.
func (p Policy) Commands(idx *index.Index, pluginID string, caller *auth.Identity) []index.Entry {
	if idx == nil {
		return nil
	}
	plugin, ok := idx.Plugin(pluginID)
	if !ok || !p.Visible(plugin, caller) {
		return nil
	}
	return p.filter(idx.Commands(pluginID), caller)
}

func (p Policy) filter(entries []index.Entry, caller *auth.Identity) []index.Entry {
	out := make([]index.Entry, 0, len(entries))
	for _, e := range entries {
		if p.Visible(e, caller) {
			out = append(out, e)
		}
	}
	return out
}
