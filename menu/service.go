package menu

import (
	"context"
	"errors"
	"time"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/cache"
	"github.com/memoriass/astrbot-plugin-picmenu/catalog"
	"github.com/memoriass/astrbot-plugin-picmenu/health"
	"github.com/memoriass/astrbot-plugin-picmenu/index"
	"github.com/memoriass/astrbot-plugin-picmenu/observe"
	"github.com/memoriass/astrbot-plugin-picmenu/render"
	"github.com/memoriass/astrbot-plugin-picmenu/resilience"
	"github.com/memoriass/astrbot-plugin-picmenu/resolve"
)

// Options configures a Service. Source and Renderer are required; every
// other field has a usable zero value.
type Options struct {
	Source   catalog.Source
	Renderer render.Renderer

	// Index controls index builds, including phonetic keys.
	Index index.Options

	// Resolver configures matching, visibility and page size.
	Resolver resolve.Options

	// RenderOptions are the theme and page geometry used for every render.
	RenderOptions render.Options

	// Cache stores artifacts. Nil selects an in-memory cache with the
	// default policy.
	Cache *cache.RenderCache

	// Guard protects renderer invocations. Nil runs the renderer directly.
	Guard *resilience.Guard

	// Authorizer gates administrative actions. Nil selects
	// auth.AdminAuthorizer.
	Authorizer auth.Authorizer

	// Admins is reported by Status.
	Admins *auth.AdminList

	// SweepInterval is the proactive cache eviction period used by Run.
	SweepInterval time.Duration

	// WatchPath, when set, makes Run rebuild the index whenever the file
	// changes.
	WatchPath string

	// Middleware records logs, metrics and spans. Nil disables telemetry.
	Middleware *observe.Middleware

	// Health aggregates status checks. Nil selects checks for the index,
	// the cache, the renderer breaker and memory.
	Health *health.Aggregator
}

// Service answers help menu queries.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Errors: lookups fail with *resolve.NotFoundError; administrative calls
//     from non-admins fail with *auth.AuthzError and have no effect; renderer
//     failures wrap ErrRender and are never cached.
type Service struct {
	source     catalog.Source
	renderer   render.Renderer
	holder     *index.Holder
	resolver   *resolve.Resolver
	renderOpts render.Options
	cache      *cache.RenderCache
	guard      *resilience.Guard
	authz      auth.Authorizer
	admins     *auth.AdminList
	sweep      time.Duration
	watchPath  string
	mw         *observe.Middleware
	logger     observe.Logger
	health     *health.Aggregator
}

// New creates a Service. It does not build the index; call Rebuild, or let
// the first query build it.
func New(opts Options) (*Service, error) {
	if opts.Source == nil {
		return nil, ErrNilSource
	}
	if opts.Renderer == nil {
		return nil, ErrNilRenderer
	}

	s := &Service{
		source:     opts.Source,
		renderer:   opts.Renderer,
		holder:     index.NewHolder(opts.Index),
		resolver:   resolve.New(opts.Resolver),
		renderOpts: opts.RenderOptions,
		cache:      opts.Cache,
		guard:      opts.Guard,
		authz:      opts.Authorizer,
		admins:     opts.Admins,
		sweep:      opts.SweepInterval,
		watchPath:  opts.WatchPath,
		mw:         opts.Middleware,
		health:     opts.Health,
	}
	if s.renderOpts.Theme == "" {
		s.renderOpts.Theme = render.ThemeLight
	}
	if s.renderOpts.Width <= 0 {
		s.renderOpts.Width = render.DefaultWidth
	}
	if s.renderOpts.FontSize <= 0 {
		s.renderOpts.FontSize = render.DefaultFontSize
	}
	if s.mw == nil {
		s.mw = observe.NopMiddleware()
	}
	s.logger = s.mw.Logger()
	if s.cache == nil {
		s.cache = cache.New(cache.NewMemoryStore(), cache.DefaultPolicy(),
			cache.WithMetrics(s.mw.Metrics()), cache.WithLogger(s.logger))
	}
	if s.authz == nil {
		s.authz = auth.AdminAuthorizer{}
	}
	if s.admins == nil {
		s.admins = auth.NewAdminList()
	}
	if s.health == nil {
		s.health = health.NewAggregator(health.DefaultTimeout,
			health.IndexChecker(s.holder),
			health.CacheChecker(s.cache),
			health.BreakerChecker(s.guard.Breaker()),
			health.NewMemoryChecker(health.MemoryConfig{}),
		)
	}
	return s, nil
}

// Holder returns the index holder.
func (s *Service) Holder() *index.Holder {
	return s.holder
}

// Cache returns the render cache.
func (s *Service) Cache() *cache.RenderCache {
	return s.cache
}

// Health returns the health aggregator.
func (s *Service) Health() *health.Aggregator {
	return s.health
}

// Renderer returns the renderer.
func (s *Service) Renderer() render.Renderer {
	return s.renderer
}

// Resolver returns the resolver.
func (s *Service) Resolver() *resolve.Resolver {
	return s.resolver
}

// Authorize checks whether caller may perform action.
func (s *Service) Authorize(ctx context.Context, caller *auth.Identity, action auth.Action) error {
	err := s.authz.Authorize(ctx, &auth.AuthzRequest{Subject: caller, Action: action})
	if err != nil {
		s.logger.Warn(ctx, "action denied",
			observe.F("action", string(action)),
			observe.F("principal", principal(caller)),
		)
	}
	return err
}

// Rebuild takes a fresh catalog snapshot and publishes a new index. On
// failure the previous index keeps serving.
func (s *Service) Rebuild(ctx context.Context) error {
	_, err := observe.Run(ctx, s.mw, s.op(ctx, "rebuild"), func(ctx context.Context) (*index.Index, error) {
		return s.holder.Rebuild(ctx, s.source)
	})
	if err != nil {
		s.logger.Error(ctx, "index rebuild failed", observe.F("error", err))
		return err
	}
	st := s.holder.Stats()
	s.logger.Info(ctx, "index rebuilt",
		observe.F("plugins", st.Plugins),
		observe.F("commands", st.Commands),
		observe.F("fingerprint", st.Fingerprint),
	)
	return nil
}

// Run runs background maintenance until ctx is done: the cache sweeper
// and, when a watch path is configured, catalog reloads on file change.
func (s *Service) Run(ctx context.Context) error {
	swept := s.cache.StartSweeper(ctx, s.sweep)

	var err error
	if s.watchPath != "" {
		err = catalog.Watch(ctx, s.watchPath, 0, func(ctx context.Context) {
			_ = s.Rebuild(ctx)
		})
	} else {
		<-ctx.Done()
	}
	<-swept

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close releases the cache store.
func (s *Service) Close() error {
	return s.cache.Close()
}

// loadIndex returns the published index, building it on first use.
func (s *Service) loadIndex(ctx context.Context) (*index.Index, error) {
	if idx := s.holder.Load(); idx != nil {
		return idx, nil
	}
	if err := s.Rebuild(ctx); err != nil {
		return nil, err
	}
	return s.holder.MustLoad()
}

func (s *Service) op(ctx context.Context, name string) observe.OpMeta {
	return observe.OpMeta{Name: name, Surface: SurfaceFromContext(ctx), Format: s.renderer.Format()}
}

func principal(caller *auth.Identity) string {
	if caller == nil {
		return ""
	}
	return caller.Principal
}
