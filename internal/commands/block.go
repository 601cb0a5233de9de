package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/flowstate/internal/engine"
)

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Manage the distracting-apps list (Pro)",
}

var blockAddCmd = &cobra.Command{
	Use:   "add <app>",
	Short: "Add an app to the block list",
	Args:  cobra.MinimumNArgs(1),
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		if _, err := a.svc.Dispatch(ctx, engine.AppBlocked{App: name}); err != nil {
			return err
		}
		a.printf("🚫 Blocking %s during focus sessions\n", strings.ToLower(strings.TrimSpace(name)))
		return nil
	}),
}

var blockRmCmd = &cobra.Command{
	Use:   "rm <app>",
	Short: "Remove an app from the block list",
	Args:  cobra.MinimumNArgs(1),
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		if _, err := a.svc.Dispatch(ctx, engine.AppUnblocked{App: name}); err != nil {
			return err
		}
		a.printf("✓ %s is no longer blocked\n", strings.ToLower(strings.TrimSpace(name)))
		return nil
	}),
}

var blockLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List blocked apps",
	Args:    cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if err := a.svc.RequirePro(); err != nil {
			return err
		}
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}
		if len(snap.BlockedApps) == 0 {
			a.printf("No apps blocked. Use 'flowstate block add <app>'.\n")
			return nil
		}
		for _, app := range snap.BlockedApps {
			a.printf("🚫 %s\n", app)
		}
		return nil
	}),
}

func init() {
	blockCmd.AddCommand(blockAddCmd, blockRmCmd, blockLsCmd)
}
