package progress

import (
	"fmt"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/models"
)

// AdvanceChallenges applies ev to every open challenge it matches. Progress only
// ever grows and is clamped to the target. The input slice is not modified.
func AdvanceChallenges(ev Event, challenges []models.Challenge) (out []models.Challenge, completed []string) {
	out = make([]models.Challenge, len(challenges))
	copy(out, challenges)

	for i := range out {
		c := &out[i]
		if c.Completed {
			continue
		}
		n := ev.magnitude(*c)
		if n <= 0 {
			continue
		}
		c.CurrentProgress += n
		if c.CurrentProgress > c.Target {
			c.CurrentProgress = c.Target
		}
		c.Completed = c.CurrentProgress >= c.Target
		if c.Completed {
			completed = append(completed, c.ID)
		}
	}
	return out, completed
}

// Claim pays out a completed, unclaimed challenge. A rejected claim returns
// ChallengeNotClaimable and leaves everything untouched.
func Claim(id string, challenges []models.Challenge, stats models.UserStats) ([]models.Challenge, models.UserStats, error) {
	idx := -1
	for i := range challenges {
		if challenges[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return challenges, stats, fmt.Errorf("%w: %s", apperr.ChallengeNotFound, id)
	}
	if !challenges[idx].Claimable() {
		return challenges, stats, fmt.Errorf("%w: %s", apperr.ChallengeNotClaimable, id)
	}

	out := make([]models.Challenge, len(challenges))
	copy(out, challenges)
	out[idx].Claimed = true
	stats.FocusDust += out[idx].RewardDust
	return out, stats, nil
}
