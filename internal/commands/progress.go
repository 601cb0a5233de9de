package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/flowstate/internal/models"
)

var challengesCmd = &cobra.Command{
	Use:     "challenges",
	Aliases: []string{"rituals"},
	Short:   "Show daily, weekly and lifetime rituals",
	Args:    cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}
		for _, freq := range []models.ChallengeFrequency{models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyInfinite} {
			a.printf("\n%s\n", strings.ToUpper(string(freq)))
			for _, c := range snap.Challenges {
				if c.Frequency != freq {
					continue
				}
				state := ""
				switch {
				case c.Claimed:
					state = "claimed"
				case c.Completed:
					state = "ready to claim"
				}
				a.printf("  %-8s %-16s %s %-14s +%d dust\n",
					shortID(c.ID), c.Title, bar(c.CurrentProgress, c.Target, 12), state, c.RewardDust)
				a.printf("           %s\n", c.Description)
			}
		}
		return nil
	}),
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show achievement tiers",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}
		for _, ach := range snap.Achievements {
			progress := bar(ach.Progress, ach.MaxProgress, 12)
			if ach.Maxed() {
				progress = "maxed out"
			}
			lock := "🔒"
			if ach.Unlocked {
				lock = "🏆"
			}
			a.printf("%s %-14s lvl %d %-9s %s\n", lock, ach.Title, ach.Level, ach.Tier, progress)
			a.printf("   %s\n", ach.Description)
		}
		return nil
	}),
}

// shortID is the prefix 'claim' accepts.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func bar(n, total, width int) string {
	if total <= 0 {
		return strings.Repeat("░", width)
	}
	filled := min(width, n*width/total)
	return fmt.Sprintf("%s%s %d/%d", strings.Repeat("█", filled), strings.Repeat("░", width-filled), n, total)
}
