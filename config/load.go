package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/memoriass/astrbot-plugin-picmenu/secret"
)

// LoadOptions controls where Load reads from.
type LoadOptions struct {
	// ConfigFilePath is an explicit config file. Empty means no file, unless
	// PICMENU_CONFIG names one.
	ConfigFilePath string

	// Secrets resolves secret references. Nil selects secret.Default.
	Secrets *secret.Resolver
}

// Load reads, resolves and validates the configuration.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("config: load canceled: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := opts.ConfigFilePath
	if path == "" {
		path = os.Getenv("PICMENU_CONFIG")
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return nil, fmt.Errorf("config: stat %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.normalize()

	secrets := opts.Secrets
	if secrets == nil {
		secrets = secret.Default()
	}
	if cfg.JWTSecret != "" {
		resolved, err := secrets.Resolve(ctx, cfg.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("config: jwt_secret: %w", err)
		}
		cfg.JWTSecret = resolved
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so environment overrides apply to
// keys absent from the config file.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("theme", d.Theme)
	v.SetDefault("image_width", d.ImageWidth)
	v.SetDefault("font_size", d.FontSize)
	v.SetDefault("render_format", d.RenderFormat)
	v.SetDefault("render_timeout_seconds", d.RenderTimeoutSeconds)
	v.SetDefault("render_max_concurrent", d.RenderMaxConcurrent)
	v.SetDefault("fuzzy_search_threshold", d.FuzzySearchThreshold)
	v.SetDefault("enable_pinyin_search", d.EnablePinyinSearch)
	v.SetDefault("phonetic_locale", d.PhoneticLocale)
	v.SetDefault("max_plugins_per_page", d.MaxPluginsPerPage)
	v.SetDefault("admin_users", d.AdminUsers)
	v.SetDefault("show_hidden_plugins", d.ShowHiddenPlugins)
	v.SetDefault("admin_only_hidden", d.AdminOnlyHidden)
	v.SetDefault("cache_enabled", d.CacheEnabled)
	v.SetDefault("cache_expire_minutes", d.CacheExpireMinutes)
	v.SetDefault("cache_backend", d.CacheBackend)
	v.SetDefault("cache_path", d.CachePath)
	v.SetDefault("cache_sweep_minutes", d.CacheSweepMinutes)
	v.SetDefault("catalog_path", d.CatalogPath)
	v.SetDefault("watch_catalog", d.WatchCatalog)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("tracing_exporter", d.TracingExporter)
	v.SetDefault("metrics_exporter", d.MetricsExporter)
	v.SetDefault("server_addr", d.ServerAddr)
	v.SetDefault("jwt_secret", d.JWTSecret)
	v.SetDefault("jwt_issuer", d.JWTIssuer)
	v.SetDefault("user_header", d.UserHeader)
}

// normalize trims and lowercases enumerated values and splits admin
// entries that arrived as one comma-separated string.
func (c *Config) normalize() {
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	c.RenderFormat = strings.ToLower(strings.TrimSpace(c.RenderFormat))
	c.PhoneticLocale = strings.ToLower(strings.TrimSpace(c.PhoneticLocale))
	c.CacheBackend = strings.ToLower(strings.TrimSpace(c.CacheBackend))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	admins := make([]string, 0, len(c.AdminUsers))
	for _, entry := range c.AdminUsers {
		for _, id := range strings.Split(entry, ",") {
			if id = strings.TrimSpace(id); id != "" {
				admins = append(admins, id)
			}
		}
	}
	c.AdminUsers = admins
}
