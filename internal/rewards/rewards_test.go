package rewards

import (
	"errors"
	"testing"
	"time"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/models"
)

func TestComputeSessionRewardCountdown(t *testing.T) {
	tests := []struct {
		name        string
		elapsed     time.Duration
		wantCrystal models.CrystalType
		wantDust    int
	}{
		{name: "one minute", elapsed: time.Minute, wantCrystal: models.CrystalAmethyst, wantDust: 1},
		{name: "pomodoro", elapsed: 25 * time.Minute, wantCrystal: models.CrystalAmethyst, wantDust: 5},
		{name: "just under an hour", elapsed: 59 * time.Minute, wantCrystal: models.CrystalAmethyst, wantDust: 11},
		{name: "sixty five minutes", elapsed: 65 * time.Minute, wantCrystal: models.CrystalCitrine, wantDust: 26},
		{name: "two hours", elapsed: 120 * time.Minute, wantCrystal: models.CrystalSapphire, wantDust: 72},
		{name: "three hours", elapsed: 180 * time.Minute, wantCrystal: models.CrystalEmerald, wantDust: 144},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeSessionReward(tt.elapsed, models.SessionCountdown)
			if err != nil {
				t.Fatalf("ComputeSessionReward: %v", err)
			}
			if got.Crystal != tt.wantCrystal {
				t.Fatalf("crystal=%q, want %q", got.Crystal, tt.wantCrystal)
			}
			if got.Dust != tt.wantDust {
				t.Fatalf("dust=%d, want %d", got.Dust, tt.wantDust)
			}
		})
	}
}

func TestComputeSessionRewardStopwatchNeverAwardsCrystal(t *testing.T) {
	got, err := ComputeSessionReward(200*time.Minute, models.SessionStopwatch)
	if err != nil {
		t.Fatalf("ComputeSessionReward: %v", err)
	}
	if got.HasCrystal() {
		t.Fatalf("stopwatch awarded crystal %q", got.Crystal)
	}
	if got.Dust != 40 {
		t.Fatalf("dust=%d, want 40", got.Dust)
	}
}

func TestComputeSessionRewardRejectsTrivialSessions(t *testing.T) {
	for _, kind := range []models.SessionKind{models.SessionCountdown, models.SessionStopwatch} {
		_, err := ComputeSessionReward(59*time.Second, kind)
		if !errors.Is(err, apperr.SessionTooShort) {
			t.Fatalf("%s: err=%v, want SessionTooShort", kind, err)
		}
	}
}

func TestComputeSessionRewardMonotonic(t *testing.T) {
	prev, err := ComputeSessionReward(time.Minute, models.SessionCountdown)
	if err != nil {
		t.Fatalf("ComputeSessionReward: %v", err)
	}
	for m := 2; m <= 240; m++ {
		cur, err := ComputeSessionReward(time.Duration(m)*time.Minute, models.SessionCountdown)
		if err != nil {
			t.Fatalf("ComputeSessionReward(%d): %v", m, err)
		}
		if cur.Crystal.Rank() < prev.Crystal.Rank() {
			t.Fatalf("crystal rank dropped at %d min: %s -> %s", m, prev.Crystal, cur.Crystal)
		}
		if cur.Dust < prev.Dust {
			t.Fatalf("dust dropped at %d min: %d -> %d", m, prev.Dust, cur.Dust)
		}
		prev = cur
	}
}

func TestComputeFusionResult(t *testing.T) {
	got, err := ComputeFusionResult(models.CrystalAmethyst, 3)
	if err != nil {
		t.Fatalf("ComputeFusionResult: %v", err)
	}
	if got != models.CrystalCitrine {
		t.Fatalf("result=%q, want citrine", got)
	}
	if _, err := ComputeFusionResult(models.CrystalAmethyst, 2); !errors.Is(err, apperr.InsufficientCrystals) {
		t.Fatalf("err=%v, want InsufficientCrystals", err)
	}
	if _, err := ComputeFusionResult(models.CrystalMoonstone, 9); !errors.Is(err, apperr.TerminalCrystal) {
		t.Fatalf("err=%v, want TerminalCrystal", err)
	}
	if _, err := ComputeFusionResult(models.CrystalType("diamond"), 9); !errors.Is(err, apperr.InvalidInput) {
		t.Fatalf("err=%v, want InvalidInput", err)
	}
}

func TestFuseConservesInventory(t *testing.T) {
	sanctuary := []models.Crystal{
		{ID: 1, Type: models.CrystalAmethyst, ForgedAt: 30},
		{ID: 2, Type: models.CrystalCitrine, ForgedAt: 20},
		{ID: 3, Type: models.CrystalAmethyst, ForgedAt: 10},
		{ID: 4, Type: models.CrystalAmethyst, ForgedAt: 40},
		{ID: 5, Type: models.CrystalAmethyst, ForgedAt: 5},
	}
	before := models.Inventory(sanctuary)

	out, err := Fuse(sanctuary, models.CrystalAmethyst, models.Crystal{ID: 9, ForgedAt: 50})
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	after := models.Inventory(out)
	if after[models.CrystalAmethyst] != before[models.CrystalAmethyst]-FusionCost {
		t.Fatalf("amethyst=%d, want %d", after[models.CrystalAmethyst], before[models.CrystalAmethyst]-FusionCost)
	}
	if after[models.CrystalCitrine] != before[models.CrystalCitrine]+1 {
		t.Fatalf("citrine=%d, want %d", after[models.CrystalCitrine], before[models.CrystalCitrine]+1)
	}
	// The newest amethyst survives; the three oldest are consumed.
	for _, c := range out {
		if c.Type == models.CrystalAmethyst && c.ID != 4 {
			t.Fatalf("kept amethyst #%d, want only #4", c.ID)
		}
	}
	if len(sanctuary) != 5 {
		t.Fatalf("input slice modified: len=%d", len(sanctuary))
	}
}

func TestFuseRejectsWithoutMutation(t *testing.T) {
	sanctuary := []models.Crystal{
		{ID: 1, Type: models.CrystalRuby},
		{ID: 2, Type: models.CrystalRuby},
	}
	out, err := Fuse(sanctuary, models.CrystalRuby, models.Crystal{ID: 3})
	if !errors.Is(err, apperr.InsufficientCrystals) {
		t.Fatalf("err=%v, want InsufficientCrystals", err)
	}
	if out != nil {
		t.Fatalf("expected nil result on rejection")
	}
}
