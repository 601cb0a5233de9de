package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/flowstate/internal/apperr"
)

var signupCmd = &cobra.Command{
	Use:   "signup <username>",
	Short: "Create an account and log in",
	Long: `Create a local account. New accounts start with a few timeline tasks,
two to-dos, the weekly and infinite rituals and the full achievement ladder.

The password is read from --password or prompted for.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		password, err := passwordFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.svc.Signup(ctx, args[0], password); err != nil {
			return err
		}
		a.printf("✨ Welcome to flowstate, %s!\n", a.svc.User())
		return nil
	}),
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in to an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		password, err := passwordFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.svc.Login(ctx, args[0], password); err != nil {
			return err
		}
		printResume(a)
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}
		a.printf("👋 Logged in as %s · 🔥 %d day streak\n", a.svc.User(), snap.Streak.Current)
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out; your data stays saved",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if err := a.svc.Logout(ctx); err != nil {
			return err
		}
		a.printf("👋 Logged out.\n")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user and their balance",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}
		plan := "free"
		if snap.IsPro {
			plan = "pro"
		}
		a.printf("%s (%s)\n", a.svc.User(), plan)
		a.printf("🔥 Streak: %d (longest %d)\n", snap.Streak.Current, snap.Streak.Longest)
		a.printf("✦ Focus dust: %d\n", snap.Stats.FocusDust)
		a.printf("💎 Crystals: %d\n", len(snap.Sanctuary))
		a.printf("⏱️  Focus sessions: %d\n", snap.Stats.FocusSessionsCompleted)
		return nil
	}),
}

// passwordFrom reads --password, or one line from stdin.
func passwordFrom(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("password"); p != "" {
		return p, nil
	}
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	in := cmd.InOrStdin()
	if in == nil {
		in = os.Stdin
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("%w: no password given", apperr.InvalidInput)
		}
		return "", fmt.Errorf("%w: password is empty", apperr.InvalidInput)
	}
	return line, nil
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, loginCmd} {
		c.Flags().StringP("password", "p", "", "account password (prompted when omitted)")
	}
}
