package menu

import (
	"fmt"

	"github.com/memoriass/astrbot-plugin-picmenu/cache"
	"github.com/memoriass/astrbot-plugin-picmenu/catalog"
	"github.com/memoriass/astrbot-plugin-picmenu/config"
	"github.com/memoriass/astrbot-plugin-picmenu/index"
	"github.com/memoriass/astrbot-plugin-picmenu/match"
	"github.com/memoriass/astrbot-plugin-picmenu/observe"
	"github.com/memoriass/astrbot-plugin-picmenu/render"
	"github.com/memoriass/astrbot-plugin-picmenu/resilience"
	"github.com/memoriass/astrbot-plugin-picmenu/resolve"
)

// Render guard settings not exposed in configuration.
const (
	renderAttempts         = 2
	renderFailureThreshold = 5
)

// FromConfig assembles a Service from configuration: a YAML catalog
// source, the configured matcher, renderer and cache backend, and a
// render guard. mw may be nil.
func FromConfig(cfg *config.Config, mw *observe.Middleware) (*Service, error) {
	if cfg.CatalogPath == "" {
		return nil, ErrNoCatalog
	}
	if mw == nil {
		mw = observe.NopMiddleware()
	}

	matcher, err := match.New(cfg.PhoneticLocale)
	if err != nil {
		return nil, fmt.Errorf("menu: phonetic_locale %q: %w", cfg.PhoneticLocale, err)
	}
	renderer, err := render.New(cfg.RenderFormat)
	if err != nil {
		return nil, err
	}

	store, err := cache.Open(cfg.CacheBackend, cfg.CachePath)
	if err != nil {
		return nil, err
	}
	rc := cache.New(store, cfg.CachePolicy(),
		cache.WithMetrics(mw.Metrics()),
		cache.WithLogger(mw.Logger()),
	)

	guard := resilience.NewGuard(resilience.GuardConfig{
		Timeout:          cfg.RenderTimeout(),
		Attempts:         renderAttempts,
		FailureThreshold: renderFailureThreshold,
		MaxConcurrent:    cfg.RenderMaxConcurrent,
		MaxWait:          cfg.RenderTimeout(),
	})

	watch := ""
	if cfg.WatchCatalog {
		watch = cfg.CatalogPath
	}

	svc, err := New(Options{
		Source:   catalog.NewFileSource(cfg.CatalogPath),
		Renderer: renderer,
		Index: index.Options{
			Phonetic: cfg.EnablePinyinSearch,
			Matcher:  matcher,
		},
		Resolver: resolve.Options{
			Threshold:  cfg.FuzzySearchThreshold,
			Phonetic:   cfg.EnablePinyinSearch,
			Matcher:    matcher,
			AutoSelect: true,
			Visibility: cfg.Visibility(),
			PageSize:   cfg.MaxPluginsPerPage,
		},
		RenderOptions: cfg.RenderOptions(),
		Cache:         rc,
		Guard:         guard,
		Admins:        cfg.Admins(),
		SweepInterval: cfg.SweepInterval(),
		WatchPath:     watch,
		Middleware:    mw,
	})
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	return svc, nil
}
