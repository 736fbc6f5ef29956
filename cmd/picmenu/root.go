package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/config"
	"github.com/memoriass/astrbot-plugin-picmenu/menu"
	"github.com/memoriass/astrbot-plugin-picmenu/observe"
)

// rootFlags are the flags shared by every command.
type rootFlags struct {
	configPath  string
	catalogPath string
	format      string
	user        string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Plugin help menus with fuzzy and pinyin lookup",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `picmenu resolves help queries against a plugin catalog and renders
the matching help page as HTML, Markdown or terminal text.

Configuration is read from --config (or PICMENU_CONFIG) and PICMENU_*
environment variables.`,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (YAML, TOML or JSON)")
	pf.StringVar(&flags.catalogPath, "catalog", "", "plugin catalog file, overrides catalog_path")
	pf.StringVar(&flags.format, "format", "", "render format: html, markdown or ansi; overrides render_format")
	pf.StringVar(&flags.user, "user", "", "chat user ID to act as")

	root.AddCommand(
		newQueryCmd(flags),
		newStatusCmd(flags),
		newClearCacheCmd(flags),
		newRebuildCmd(flags),
		newServeCmd(flags),
		newMCPCmd(flags),
		newVersionCmd(),
	)
	return root
}

// app is a loaded configuration with its telemetry and service.
type app struct {
	cfg      *config.Config
	observer observe.Observer
	mw       *observe.Middleware
	svc      *menu.Service
}

// openApp loads configuration, applies flag overrides and builds the
// service. Log output goes to the command's stderr.
func openApp(cmd *cobra.Command, flags *rootFlags) (*app, error) {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return nil, err
	}
	if flags.catalogPath != "" {
		cfg.CatalogPath = flags.catalogPath
	}
	if flags.format != "" {
		cfg.RenderFormat = flags.format
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ocfg := cfg.Observe(version)
	ocfg.Output = cmd.ErrOrStderr()
	obs, err := observe.NewObserver(ctx, ocfg)
	if err != nil {
		return nil, err
	}
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	svc, err := menu.FromConfig(cfg, mw)
	if err != nil {
		_ = obs.Shutdown(ctx)
		if errors.Is(err, menu.ErrNoCatalog) {
			return nil, fmt.Errorf("%w: set catalog_path or pass --catalog", err)
		}
		return nil, err
	}
	return &app{cfg: cfg, observer: obs, mw: mw, svc: svc}, nil
}

// caller identifies user through the configured admin list.
func (a *app) caller(user string) *auth.Identity {
	return a.cfg.Admins().Identify(user, auth.AuthMethodLocal)
}

// Close releases the service and flushes telemetry.
func (a *app) Close(ctx context.Context) error {
	return errors.Join(a.svc.Close(), a.observer.Shutdown(context.WithoutCancel(ctx)))
}

// userError carries the message shown to a chat user for a failed request.
type userError struct {
	err error
}

func (e *userError) Error() string { return menu.Message(e.err) }
func (e *userError) Unwrap() error { return e.err }
