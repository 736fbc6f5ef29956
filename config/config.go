package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/cache"
	"github.com/memoriass/astrbot-plugin-picmenu/match"
	"github.com/memoriass/astrbot-plugin-picmenu/observe"
	"github.com/memoriass/astrbot-plugin-picmenu/render"
	"github.com/memoriass/astrbot-plugin-picmenu/visibility"
)

// AppName is the application name and the environment variable prefix.
const AppName = "picmenu"

// Config is the complete picmenu configuration.
type Config struct {
	// Rendering.
	Theme                string `mapstructure:"theme"`
	ImageWidth           int    `mapstructure:"image_width"`
	FontSize             int    `mapstructure:"font_size"`
	RenderFormat         string `mapstructure:"render_format"`
	RenderTimeoutSeconds int    `mapstructure:"render_timeout_seconds"`
	RenderMaxConcurrent  int    `mapstructure:"render_max_concurrent"`

	// Searching.
	FuzzySearchThreshold int    `mapstructure:"fuzzy_search_threshold"`
	EnablePinyinSearch   bool   `mapstructure:"enable_pinyin_search"`
	PhoneticLocale       string `mapstructure:"phonetic_locale"`
	MaxPluginsPerPage    int    `mapstructure:"max_plugins_per_page"`

	// Access.
	AdminUsers        []string `mapstructure:"admin_users"`
	ShowHiddenPlugins bool     `mapstructure:"show_hidden_plugins"`
	AdminOnlyHidden   bool     `mapstructure:"admin_only_hidden"`

	// Render cache.
	CacheEnabled       bool   `mapstructure:"cache_enabled"`
	CacheExpireMinutes int    `mapstructure:"cache_expire_minutes"`
	CacheBackend       string `mapstructure:"cache_backend"`
	CachePath          string `mapstructure:"cache_path"`
	CacheSweepMinutes  int    `mapstructure:"cache_sweep_minutes"`

	// Catalog.
	CatalogPath  string `mapstructure:"catalog_path"`
	WatchCatalog bool   `mapstructure:"watch_catalog"`

	// Telemetry.
	LogLevel        string `mapstructure:"log_level"`
	TracingExporter string `mapstructure:"tracing_exporter"`
	MetricsExporter string `mapstructure:"metrics_exporter"`

	// HTTP surface.
	ServerAddr string `mapstructure:"server_addr"`
	JWTSecret  string `mapstructure:"jwt_secret"`
	JWTIssuer  string `mapstructure:"jwt_issuer"`
	UserHeader string `mapstructure:"user_header"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Theme:                render.ThemeLight,
		ImageWidth:           render.DefaultWidth,
		FontSize:             render.DefaultFontSize,
		RenderFormat:         render.FormatHTML,
		RenderTimeoutSeconds: 10,
		RenderMaxConcurrent:  4,
		FuzzySearchThreshold: 60,
		EnablePinyinSearch:   true,
		PhoneticLocale:       "zh",
		MaxPluginsPerPage:    10,
		AdminUsers:           []string{},
		ShowHiddenPlugins:    false,
		AdminOnlyHidden:      true,
		CacheEnabled:         true,
		CacheExpireMinutes:   30,
		CacheBackend:         cache.BackendMemory,
		CachePath:            "picmenu-cache.db",
		CacheSweepMinutes:    5,
		LogLevel:             "info",
		TracingExporter:      "none",
		MetricsExporter:      "none",
		ServerAddr:           ":8080",
		UserHeader:           auth.DefaultUserHeader,
	}
}

// Validate checks every field and returns all problems joined, each
// wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Sprintf(format, args...))
		}
	}

	check(slices.Contains(render.ThemeNames(), c.Theme),
		"theme %q: want one of %v", c.Theme, render.ThemeNames())
	check(c.ImageWidth >= 200 && c.ImageWidth <= 4000,
		"image_width %d: want 200-4000", c.ImageWidth)
	check(c.FontSize >= 8 && c.FontSize <= 72,
		"font_size %d: want 8-72", c.FontSize)
	check(slices.Contains(render.Formats(), c.RenderFormat),
		"render_format %q: want one of %v", c.RenderFormat, render.Formats())
	check(c.RenderTimeoutSeconds > 0,
		"render_timeout_seconds %d: must be positive", c.RenderTimeoutSeconds)
	check(c.RenderMaxConcurrent > 0,
		"render_max_concurrent %d: must be positive", c.RenderMaxConcurrent)
	check(c.FuzzySearchThreshold >= 0 && c.FuzzySearchThreshold <= 100,
		"fuzzy_search_threshold %d: want 0-100", c.FuzzySearchThreshold)
	check(slices.Contains(match.Locales(), c.PhoneticLocale),
		"phonetic_locale %q: want one of %v", c.PhoneticLocale, match.Locales())
	check(c.MaxPluginsPerPage >= 1 && c.MaxPluginsPerPage <= 50,
		"max_plugins_per_page %d: want 1-50", c.MaxPluginsPerPage)
	check(c.CacheExpireMinutes >= 0,
		"cache_expire_minutes %d: must not be negative", c.CacheExpireMinutes)
	check(c.CacheBackend == cache.BackendMemory || c.CacheBackend == cache.BackendSQLite,
		"cache_backend %q: want memory or sqlite", c.CacheBackend)
	check(c.CacheBackend != cache.BackendSQLite || c.CachePath != "",
		"cache_path: required for the sqlite backend")
	check(c.CacheSweepMinutes >= 0,
		"cache_sweep_minutes %d: must not be negative", c.CacheSweepMinutes)
	check(!c.WatchCatalog || c.CatalogPath != "",
		"watch_catalog: requires catalog_path")
	check(slices.Contains(observe.ValidLogLevels, c.LogLevel),
		"log_level %q: want one of %v", c.LogLevel, observe.ValidLogLevels)
	check(slices.Contains(observe.ValidTracingExporters, c.TracingExporter),
		"tracing_exporter %q: want one of %v", c.TracingExporter, observe.ValidTracingExporters)
	check(slices.Contains(observe.ValidMetricsExporters, c.MetricsExporter),
		"metrics_exporter %q: want one of %v", c.MetricsExporter, observe.ValidMetricsExporters)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
}

// Admins returns the administrator list.
func (c *Config) Admins() *auth.AdminList {
	return auth.NewAdminList(c.AdminUsers...)
}

// Visibility returns the hidden-content policy.
func (c *Config) Visibility() visibility.Policy {
	return visibility.Policy{ShowHidden: c.ShowHiddenPlugins, AdminOnlyHidden: c.AdminOnlyHidden}
}

// CachePolicy returns the render cache policy. An expiry of zero minutes
// disables storage.
func (c *Config) CachePolicy() cache.Policy {
	return cache.PolicyFromMinutes(c.CacheEnabled, c.CacheExpireMinutes)
}

// SweepInterval returns the proactive eviction interval, or zero when
// sweeping is off.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.CacheSweepMinutes) * time.Minute
}

// RenderTimeout returns the per-render deadline.
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.RenderTimeoutSeconds) * time.Second
}

// RenderOptions returns the presentation settings passed to renderers.
func (c *Config) RenderOptions() render.Options {
	return render.Options{Theme: c.Theme, Width: c.ImageWidth, FontSize: c.FontSize}
}

// Observe returns the telemetry configuration.
func (c *Config) Observe(version string) observe.Config {
	return observe.Config{
		ServiceName: AppName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   enabled(c.TracingExporter),
			Exporter:  c.TracingExporter,
			SamplePct: 1.0,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  enabled(c.MetricsExporter),
			Exporter: c.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.LogLevel,
		},
	}
}

func enabled(exporter string) bool {
	return exporter != "" && exporter != "none"
}
