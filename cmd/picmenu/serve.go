package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/memoriass/astrbot-plugin-picmenu/mcpserver"
	"github.com/memoriass/astrbot-plugin-picmenu/resilience"
	"github.com/memoriass/astrbot-plugin-picmenu/server"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var (
		addr  string
		rate  float64
		burst int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the help menu over HTTP",
		Long: `Serve the help menu over HTTP until interrupted. The catalog is indexed
at startup and reloaded on change when watch_catalog is set.

Callers are identified by a bearer JWT when jwt_secret is configured, or
by the user_header set by the hosting bot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			if addr == "" {
				addr = a.cfg.ServerAddr
			}
			var metrics http.Handler
			if a.cfg.MetricsExporter == "prometheus" {
				metrics = promhttp.Handler()
			}

			srv := server.New(a.svc, server.Config{
				Addr:          addr,
				Authenticator: server.AuthenticatorFromConfig(a.cfg),
				Limiter:       resilience.NewLimiter(resilience.LimiterConfig{Rate: rate, Burst: burst}),
				Metrics:       metrics,
				Logger:        a.mw.Logger(),
			})
			return runWithService(cmd.Context(), a, srv.Run)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server_addr")
	cmd.Flags().Float64Var(&rate, "rate", 5, "requests per second allowed per caller")
	cmd.Flags().IntVar(&burst, "burst", 10, "request burst allowed per caller")
	return cmd
}

func newMCPCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the help menu as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			return runWithService(cmd.Context(), a, func(context.Context) error {
				return mcpserver.Run(a.svc, a.cfg.Admins(), version)
			})
		},
	}
}

// runWithService builds the index, then runs fn alongside the service's
// background maintenance. Both stop when either returns.
func runWithService(ctx context.Context, a *app, fn func(context.Context) error) error {
	if err := a.svc.Rebuild(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.svc.Run(ctx)
	})
	g.Go(func() error {
		err := fn(ctx)
		if err == nil {
			err = errStopped
		}
		return err
	})

	err := g.Wait()
	if errors.Is(err, errStopped) || errors.Is(err, context.Canceled) {
		a.mw.Logger().Info(context.WithoutCancel(ctx), "stopped")
		return nil
	}
	return err
}

// errStopped ends the errgroup when the surface returns cleanly.
var errStopped = errors.New("stopped")
