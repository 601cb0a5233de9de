package rewards

import (
	"fmt"
	"sort"
	"time"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/models"
)

const (
	// MinSessionDuration is the anti-trivial-completion floor.
	MinSessionDuration = 60 * time.Second

	// FusionCost is how many crystals of one tier make one of the next.
	FusionCost = 3

	// dustBlockMinutes is the granularity dust is paid in.
	dustBlockMinutes = 5
)

// Tier is one row of the countdown reward table.
type Tier struct {
	MinMinutes  int
	Crystal     models.CrystalType
	DustPerFive int
}

// Table is ascending by MinMinutes. Longer focus buys a rarer crystal.
var Table = []Tier{
	{MinMinutes: 0, Crystal: models.CrystalAmethyst, DustPerFive: 1},
	{MinMinutes: 60, Crystal: models.CrystalCitrine, DustPerFive: 2},
	{MinMinutes: 120, Crystal: models.CrystalSapphire, DustPerFive: 3},
	{MinMinutes: 180, Crystal: models.CrystalEmerald, DustPerFive: 4},
}

// SessionReward is what a completed focus session pays out.
type SessionReward struct {
	Crystal models.CrystalType // empty when no crystal is awarded
	Dust    int
	Minutes int
}

func (r SessionReward) HasCrystal() bool {
	return r.Crystal != ""
}

// TierFor returns the highest tier whose MinMinutes <= minutes.
func TierFor(minutes int) Tier {
	selected := Table[0]
	for _, t := range Table {
		if t.MinMinutes <= minutes {
			selected = t
		}
	}
	return selected
}

// ComputeSessionReward maps a finished session to its payout. Sessions shorter
// than MinSessionDuration are not completions and return SessionTooShort.
func ComputeSessionReward(elapsed time.Duration, kind models.SessionKind) (SessionReward, error) {
	if !kind.IsValid() {
		return SessionReward{}, fmt.Errorf("%w: session kind %q", apperr.InvalidInput, kind)
	}
	if elapsed < MinSessionDuration {
		return SessionReward{}, apperr.SessionTooShort
	}

	minutes := int(elapsed / time.Minute)
	blocks := minutes / dustBlockMinutes

	if kind == models.SessionStopwatch {
		return SessionReward{Dust: atLeastOne(blocks), Minutes: minutes}, nil
	}

	tier := TierFor(minutes)
	dust := blocks * tier.DustPerFive
	if dust == 0 {
		dust = blocks
	}
	return SessionReward{
		Crystal: tier.Crystal,
		Dust:    atLeastOne(dust),
		Minutes: minutes,
	}, nil
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// ComputeFusionResult returns the tier produced by fusing FusionCost crystals of input.
func ComputeFusionResult(input models.CrystalType, have int) (models.CrystalType, error) {
	if !input.IsValid() {
		return "", fmt.Errorf("%w: crystal type %q", apperr.InvalidInput, input)
	}
	next, ok := input.Next()
	if !ok {
		return "", apperr.TerminalCrystal
	}
	if have < FusionCost {
		return "", fmt.Errorf("%w: have %d %s, need %d", apperr.InsufficientCrystals, have, input, FusionCost)
	}
	return next, nil
}

// Fuse consumes the FusionCost oldest crystals of input and appends the forged result.
// The input slice is not modified.
func Fuse(sanctuary []models.Crystal, input models.CrystalType, forged models.Crystal) ([]models.Crystal, error) {
	have := 0
	for _, c := range sanctuary {
		if c.Type == input {
			have++
		}
	}
	next, err := ComputeFusionResult(input, have)
	if err != nil {
		return nil, err
	}
	forged.Type = next

	matches := make([]int, 0, have)
	for i, c := range sanctuary {
		if c.Type == input {
			matches = append(matches, i)
		}
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return sanctuary[matches[a]].ForgedAt < sanctuary[matches[b]].ForgedAt
	})
	consumed := make(map[int]bool, FusionCost)
	for _, idx := range matches[:FusionCost] {
		consumed[idx] = true
	}

	out := make([]models.Crystal, 0, len(sanctuary)-FusionCost+1)
	out = append(out, forged)
	for i, c := range sanctuary {
		if !consumed[i] {
			out = append(out, c)
		}
	}
	return out, nil
}
