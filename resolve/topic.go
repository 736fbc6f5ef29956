package resolve

import (
	"context"
	"strings"
	"unicode"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/index"
)

// Topic is a fully resolved help target.
type Topic struct {
	Depth   Depth
	Plugin  *index.Entry
	Command *index.Entry

	// Restricted marks an admin-only command requested by a non-admin.
	Restricted bool
}

// RootTopic returns the main menu topic.
func RootTopic() *Topic {
	return &Topic{Depth: DepthRoot}
}

// ID returns the stable topic identity: "root", "plugin:<id>" or
// "command:<pluginID>/<commandID>".
func (t *Topic) ID() string {
	return t.Nav().String()
}

// Nav returns the navigation context the topic opens.
func (t *Topic) Nav() Nav {
	switch {
	case t.Command != nil:
		return InCommand(t.Plugin.ID, t.Command.ID)
	case t.Plugin != nil:
		return InPlugin(t.Plugin.ID)
	default:
		return Root()
	}
}

// ResolveTopic resolves help text of the form "plugin [command]". Empty
// text selects the main menu. Each part must resolve to a single entry: a
// ranked result without a clear winner is returned as *AmbiguityError.
func (r *Resolver) ResolveTopic(ctx context.Context, text string, idx *index.Index, caller *auth.Identity) (*Topic, error) {
	pluginPart, commandPart := splitTopic(text)
	if pluginPart == "" {
		return RootTopic(), nil
	}

	pm, err := r.resolveOne(ctx, pluginPart, Root(), idx, caller)
	if err != nil {
		return nil, err
	}
	plugin := pm.Best.Entry
	topic := &Topic{Depth: DepthPlugin, Plugin: &plugin}
	if commandPart == "" {
		return topic, nil
	}

	cm, err := r.resolveOne(ctx, commandPart, InPlugin(plugin.ID), idx, caller)
	if err != nil {
		return nil, err
	}
	command := cm.Best.Entry
	topic.Depth = DepthCommand
	topic.Command = &command
	topic.Restricted = cm.Best.Restricted
	return topic, nil
}

// resolveOne resolves query and insists on a single entry.
func (r *Resolver) resolveOne(ctx context.Context, query string, nav Nav, idx *index.Index, caller *auth.Identity) (*Match, error) {
	m, err := r.Resolve(ctx, query, nav, idx, caller)
	if err != nil {
		return nil, err
	}
	if m.Kind == FuzzyRanked {
		return nil, &AmbiguityError{Query: query, Nav: nav, Candidates: m.Ranked}
	}
	return m, nil
}

// splitTopic splits text on its first run of whitespace.
func splitTopic(text string) (string, string) {
	text = strings.TrimSpace(text)
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}
