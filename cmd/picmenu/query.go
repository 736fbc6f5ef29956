package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/memoriass/astrbot-plugin-picmenu/menu"
	"github.com/memoriass/astrbot-plugin-picmenu/resolve"
)

func newQueryCmd(flags *rootFlags) *cobra.Command {
	var (
		page   int
		plugin string
	)

	cmd := &cobra.Command{
		Use:     "query [plugin] [command]",
		Aliases: []string{"help", "帮助", "菜单"},
		Short:   "Render the help page for a plugin or command",
		Long: `Render the help page matching the query. With no arguments the main
menu is shown. Plugins and commands may be named, abbreviated, spelled in
pinyin, or picked by their number in the listing.

Examples:
  picmenu query
  picmenu query 基础功能
  picmenu query 1 help
  picmenu query --in 基础功能 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return fmt.Errorf("--page must be at least 1")
			}
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			ctx := menu.WithSurface(cmd.Context(), "cli")
			caller := a.caller(flags.user)
			text := strings.Join(args, " ")

			var resp *menu.Response
			if plugin != "" {
				resp, err = a.svc.Navigate(ctx, resolve.InPlugin(plugin), text, caller)
			} else {
				resp, err = a.svc.Query(ctx, text, caller, page)
			}
			if err != nil {
				return &userError{err: err}
			}

			out := cmd.OutOrStdout()
			if resp.Kind == menu.ResponseDisambiguation {
				_, err = fmt.Fprintln(out, resp.Text)
				return err
			}
			_, err = out.Write(resp.Artifact)
			return err
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "listing page")
	cmd.Flags().StringVar(&plugin, "in", "", "resolve the query among the commands of this plugin")
	return cmd
}
