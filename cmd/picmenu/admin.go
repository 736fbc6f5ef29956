package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/health"
	"github.com/memoriass/astrbot-plugin-picmenu/menu"
)

func newStatusCmd(flags *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show index, cache and health status (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			ctx := menu.WithSurface(cmd.Context(), "cli")
			if err := a.svc.Rebuild(ctx); err != nil {
				return err
			}
			st, err := a.svc.Status(ctx, a.caller(flags.user))
			if err != nil {
				return &userError{err: err}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					*menu.Status
					Health health.Response `json:"health"`
				}{st, health.NewResponse(st.Health)})
			}

			cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
			lines := strings.Split(st.Text(), "\n")
			fmt.Fprintln(out, cyan(lines[0]))
			for _, line := range lines[1:] {
				fmt.Fprintln(out, line)
			}
			for _, c := range st.Health.Checks {
				fmt.Fprintf(out, "  %s %s: %s\n", statusIcon(c.Result.Status), c.Name, c.Result.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")
	return cmd
}

func statusIcon(s health.Status) string {
	switch s {
	case health.StatusHealthy:
		return color.GreenString("●")
	case health.StatusDegraded:
		return color.YellowString("⚠")
	default:
		return color.RedString("✗")
	}
}

func newClearCacheCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Remove every cached help page (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			n, err := a.svc.ClearCache(menu.WithSurface(cmd.Context(), "cli"), a.caller(flags.user))
			if err != nil {
				return &userError{err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString(menu.ClearedMessage(n)))
			return nil
		},
	}
}

func newRebuildCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Reload the plugin catalog and report what was indexed (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			ctx := menu.WithSurface(cmd.Context(), "cli")
			if err := a.svc.Authorize(ctx, a.caller(flags.user), auth.ActionRebuild); err != nil {
				return &userError{err: err}
			}
			if err := a.svc.Rebuild(ctx); err != nil {
				return err
			}
			st := a.svc.Holder().Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d plugins, %d commands (%s)\n",
				color.GreenString("✓"), st.Plugins, st.Commands, st.Fingerprint)
			return nil
		},
	}
}
