package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/flowstate/internal/engine"
)

var planCmd = &cobra.Command{
	Use:   "plan <goal>",
	Short: "Break a goal into to-dos with AI",
	Long: `Ask the task generator to break a goal into 3-5 actionable to-dos and
add them to your list. Costs 15 focus dust, charged only when the to-dos
are added. Needs GEMINI_API_KEY.

Example:
  flowstate plan "Launch my portfolio website"`,
	Args: cobra.MinimumNArgs(1),
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		a.printf("🤖 Planning \"%s\"...\n", strings.Join(args, " "))
		out, items, err := a.svc.Breakdown(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		for _, it := range items {
			a.printf("  %s %s (%s)\n", it.Emoji, it.Title, it.Priority)
		}
		a.printf("✅ Added %d to-dos · ✦ -%d focus dust\n", len(items), engine.BreakdownCost)
		for _, up := range out.TierUps {
			a.printf("🏆 %s reached %s (level %d)\n", up.Title, up.Tier, up.Level)
		}
		return nil
	}),
}
