package menu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/cache"
	"github.com/memoriass/astrbot-plugin-picmenu/index"
	"github.com/memoriass/astrbot-plugin-picmenu/observe"
	"github.com/memoriass/astrbot-plugin-picmenu/resilience"
	"github.com/memoriass/astrbot-plugin-picmenu/resolve"
)

// ResponseKind tells artifacts from disambiguation lists.
type ResponseKind int

const (
	ResponseArtifact ResponseKind = iota
	ResponseDisambiguation
)

// String returns "artifact" or "disambiguation".
func (k ResponseKind) String() string {
	if k == ResponseDisambiguation {
		return "disambiguation"
	}
	return "artifact"
}

// Response is the answer to a query.
type Response struct {
	Kind ResponseKind

	// Artifact is the rendered page. It is shared with the cache and must
	// not be modified.
	Artifact    []byte
	ContentType string

	// Topic is the resolved topic ID, e.g. "plugin:基础功能".
	Topic      string
	Page       int
	TotalPages int

	// Restricted marks an admin-only command shown to a non-admin.
	Restricted bool

	// Candidates and Text are set for disambiguation responses.
	Candidates []resolve.Candidate
	Text       string
}

// Query answers help text of the form "plugin [command]" for caller. Empty
// text shows the main menu. page selects a listing page and is ignored for
// command pages.
//
// Ambiguous text is not an error: it returns a disambiguation response
// listing the candidates.
func (s *Service) Query(ctx context.Context, text string, caller *auth.Identity, page int) (*Response, error) {
	return observe.Run(ctx, s.mw, s.op(ctx, "query"), func(ctx context.Context) (*Response, error) {
		if err := s.Authorize(ctx, caller, auth.ActionQuery); err != nil {
			return nil, err
		}
		idx, err := s.loadIndex(ctx)
		if err != nil {
			return nil, err
		}

		topic, err := observe.Run(ctx, s.mw, s.op(ctx, "resolve"), func(ctx context.Context) (*resolve.Topic, error) {
			return s.resolver.ResolveTopic(ctx, text, idx, caller)
		})
		if err != nil {
			return disambiguation(err)
		}
		return s.respond(ctx, idx, topic, caller, page)
	})
}

// Navigate resolves query inside nav, the page the caller is currently
// viewing, and answers with the selected topic. At the root a query picks
// a plugin; inside a plugin or command page it picks a command of that
// plugin.
func (s *Service) Navigate(ctx context.Context, nav resolve.Nav, query string, caller *auth.Identity) (*Response, error) {
	return observe.Run(ctx, s.mw, s.op(ctx, "navigate"), func(ctx context.Context) (*Response, error) {
		if err := s.Authorize(ctx, caller, auth.ActionQuery); err != nil {
			return nil, err
		}
		idx, err := s.loadIndex(ctx)
		if err != nil {
			return nil, err
		}

		m, err := s.resolver.Resolve(ctx, query, nav, idx, caller)
		if err != nil {
			return disambiguation(err)
		}
		if m.Kind == resolve.FuzzyRanked {
			return disambiguation(&resolve.AmbiguityError{Query: query, Nav: nav, Candidates: m.Ranked})
		}

		best := m.Best.Entry
		topic := &resolve.Topic{Depth: resolve.DepthPlugin, Plugin: &best}
		if best.Kind == index.KindCommand {
			plugin, ok := idx.Plugin(best.PluginID)
			if !ok {
				return nil, &resolve.NotFoundError{Query: query, Nav: nav}
			}
			topic = &resolve.Topic{
				Depth:      resolve.DepthCommand,
				Plugin:     &plugin,
				Command:    &best,
				Restricted: m.Best.Restricted,
			}
		}
		return s.respond(ctx, idx, topic, caller, 1)
	})
}

// respond renders topic through the cache.
func (s *Service) respond(ctx context.Context, idx *index.Index, topic *resolve.Topic, caller *auth.Identity, page int) (*Response, error) {
	doc, err := s.document(idx, topic, caller, page)
	if err != nil {
		return nil, err
	}

	key := cache.Key{
		Topic:    topic.ID(),
		Depth:    topic.Depth.String(),
		Theme:    s.renderOpts.Theme,
		Format:   s.renderer.Format(),
		Page:     max(doc.Page, 1),
		Width:    s.renderOpts.Width,
		FontSize: s.renderOpts.FontSize,
		Audience: string(s.resolver.Options().Visibility.Audience(caller)),
		Catalog:  idx.Fingerprint(),
	}

	start := time.Now()
	artifact, err := s.cache.GetOrRender(ctx, key, func(ctx context.Context) ([]byte, error) {
		op := s.op(ctx, "render")
		op.Topic = key.Topic
		return observe.Run(ctx, s.mw, op, func(ctx context.Context) ([]byte, error) {
			return resilience.Call(ctx, s.guard, func(ctx context.Context) ([]byte, error) {
				return s.renderer.Render(ctx, doc, s.renderOpts)
			})
		})
	})
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, key.Topic, err)
	}

	s.logger.Debug(ctx, "menu page served",
		observe.F("topic", key.Topic),
		observe.F("page", key.Page),
		observe.F("audience", key.Audience),
		observe.F("duration_ms", time.Since(start).Milliseconds()),
	)
	return &Response{
		Kind:        ResponseArtifact,
		Artifact:    artifact,
		ContentType: s.renderer.ContentType(),
		Topic:       key.Topic,
		Page:        doc.Page,
		TotalPages:  doc.TotalPages,
		Restricted:  topic.Restricted,
	}, nil
}

// disambiguation turns an AmbiguityError into a response and passes every
// other error through.
func disambiguation(err error) (*Response, error) {
	var amb *resolve.AmbiguityError
	if !errors.As(err, &amb) {
		return nil, err
	}
	return &Response{
		Kind:       ResponseDisambiguation,
		Topic:      amb.Nav.String(),
		Candidates: amb.Candidates,
		Text:       Message(amb),
	}, nil
}
