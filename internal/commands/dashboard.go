package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/balkashynov/flowstate/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ls", "ui"},
	Short:   "Open the interactive dashboard",
	Long: `Browse your timeline, to-dos, rituals, sanctuary and achievements.

Quick actions:
  ↑/↓     Navigate
  ←/→     Switch section
  d       Toggle done
  c       Claim a ritual
  f       Fuse crystals
  /       Search`,
	Args: cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		return tui.RunDashboardTUI(ctx, a.svc, a.svc.User())
	}),
}
