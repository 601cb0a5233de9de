package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/engine"
	"github.com/balkashynov/flowstate/internal/models"
	"github.com/balkashynov/flowstate/internal/rewards"
)

var claimCmd = &cobra.Command{
	Use:   "claim [ritual-id]",
	Short: "Claim the dust reward of completed rituals",
	Long: `Claim a completed ritual's focus dust. Without an ID every claimable
ritual is claimed. IDs may be shortened to any unique prefix.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}

		var ids []string
		if len(args) == 1 {
			id, err := resolveChallenge(snap, args[0])
			if err != nil {
				return err
			}
			ids = append(ids, id)
		} else {
			for _, c := range snap.Challenges {
				if c.Claimable() {
					ids = append(ids, c.ID)
				}
			}
			if len(ids) == 0 {
				a.printf("Nothing to claim yet. See 'flowstate challenges'.\n")
				return nil
			}
		}

		for _, id := range ids {
			out, err := a.svc.Dispatch(ctx, engine.ChallengeClaimed{ID: id})
			if err != nil {
				return err
			}
			c := snap.Challenges[snap.FindChallenge(id)]
			a.printf("🎁 Claimed \"%s\": +%d focus dust\n", c.Title, out.DustEarned)
			for _, up := range out.TierUps {
				a.printf("🏆 %s reached %s (level %d)\n", up.Title, up.Tier, up.Level)
			}
		}
		return nil
	}),
}

// resolveChallenge accepts a full id or a unique prefix.
func resolveChallenge(snap *models.UserData, ref string) (string, error) {
	var found []string
	for _, c := range snap.Challenges {
		if c.ID == ref {
			return c.ID, nil
		}
		if strings.HasPrefix(c.ID, ref) {
			found = append(found, c.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: %s", apperr.ChallengeNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: '%s' matches %d rituals", apperr.InvalidInput, ref, len(found))
	}
}

var fuseCmd = &cobra.Command{
	Use:   "fuse <crystal-type>",
	Short: "Fuse three crystals into one of the next tier",
	Long: `Fuse three crystals of one type into one crystal of the next tier:

  amethyst → citrine → sapphire → emerald → ruby → obsidian → moonstone`,
	Args: cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		input, err := models.ParseCrystalType(args[0])
		if err != nil {
			return fmt.Errorf("%w: %v", apperr.InvalidInput, err)
		}
		out, err := a.svc.Dispatch(ctx, engine.CrystalFused{Input: input})
		if err != nil {
			return err
		}
		a.printf("🔮 Fused %d %s into a %s crystal\n", rewards.FusionCost, input.Title(), out.Forged.Type.Title())
		printOutcome(a, engine.Outcome{Completed: out.Completed, TierUps: out.TierUps})
		return nil
	}),
}

var redeemCmd = &cobra.Command{
	Use:       "redeem <cash|crystal|dust>",
	Short:     "Unlock Pro",
	ValidArgs: []string{string(engine.RedeemCash), string(engine.RedeemCrystal), string(engine.RedeemDust)},
	Long: fmt.Sprintf(`Unlock Pro features: strict mode, auto-start and app blocking.

  cash      simulated purchase
  crystal   spend %d moonstone
  dust      spend %d focus dust`, engine.ProCrystalPrice, engine.ProDustPrice),
	Args: cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		method := engine.RedeemMethod(strings.ToLower(args[0]))
		out, err := a.svc.Dispatch(ctx, engine.ProRedeemed{Method: method})
		if err != nil {
			return err
		}
		a.printf("★ Pro unlocked. Enjoy strict mode, auto-start and app blocking!\n")
		if out.DustSpent > 0 {
			a.printf("✦ -%d focus dust\n", out.DustSpent)
		}
		return nil
	}),
}

var sanctuaryCmd = &cobra.Command{
	Use:   "sanctuary",
	Short: "Show your crystal collection",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		snap, err := a.svc.Snapshot()
		if err != nil {
			return err
		}
		a.printf("💎 Sanctuary: %d crystal(s) · ✦ %d focus dust\n\n", len(snap.Sanctuary), snap.Stats.FocusDust)
		inv := models.Inventory(snap.Sanctuary)
		for _, t := range models.CrystalChain {
			hint := ""
			if next, ok := t.Next(); ok && inv[t] >= rewards.FusionCost {
				hint = fmt.Sprintf("  (fuse → %s)", next.Title())
			}
			a.printf("  %-10s %3d%s\n", t.Title(), inv[t], hint)
		}
		return nil
	}),
}
