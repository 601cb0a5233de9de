package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "flowstate",
	Short: "Focus timer, planner and crystal sanctuary for the terminal",
	Long: `flowstate turns focused work into a small economy. Finish focus sessions
to forge crystals and earn focus dust, complete daily and weekly rituals,
level up achievements and keep your streak alive.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "flowstate %s (commit %s, built %s)\n", version, commit, date)
	},
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <data dir>/config.toml)")

	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(todoCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(fuseCmd)
	rootCmd.AddCommand(redeemCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(sanctuaryCmd)
	rootCmd.AddCommand(challengesCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
