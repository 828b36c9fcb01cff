package cmd

import (
	"fmt"

	"clementus360/study-assistant/prefs"

	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kv := openState(settings)

		var (
			theme prefs.ThemeName
			err   error
		)
		switch {
		case len(args) == 0:
			theme, err = prefs.Theme(kv)
		case args[0] == "toggle":
			theme, err = prefs.ToggleTheme(kv)
		default:
			theme, err = prefs.ParseTheme(args[0])
			if err == nil {
				err = prefs.SetTheme(kv, theme)
			}
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Theme: "+string(theme))
		return nil
	},
}

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage saved workspaces",
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved workspaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := prefs.Workspaces(openState(settings))
		if err != nil {
			return err
		}
		printWorkspaces(cmd, names)
		return nil
	},
}

var workspaceAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Save a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := prefs.AddWorkspace(openState(settings), args[0])
		if err != nil {
			return err
		}
		printWorkspaces(cmd, names)
		return nil
	},
}

var workspaceRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Forget a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := prefs.RemoveWorkspace(openState(settings), args[0])
		if err != nil {
			return err
		}
		printWorkspaces(cmd, names)
		return nil
	},
}

func printWorkspaces(cmd *cobra.Command, names []string) {
	out := cmd.OutOrStdout()
	p := palette(openState(settings))
	if len(names) == 0 {
		fmt.Fprintln(out, p.Muted.Render("No workspaces saved."))
		return
	}
	for _, n := range names {
		fmt.Fprintln(out, "• "+n)
	}
}

func init() {
	workspaceCmd.AddCommand(workspaceListCmd, workspaceAddCmd, workspaceRemoveCmd)
	rootCmd.AddCommand(themeCmd, workspaceCmd)
}
