package models

// AchievementTier is the badge color of an achievement level.
type AchievementTier string

const (
	TierBronze   AchievementTier = "bronze"
	TierSilver   AchievementTier = "silver"
	TierGold     AchievementTier = "gold"
	TierPlatinum AchievementTier = "platinum"
	TierDiamond  AchievementTier = "diamond"
)

// Tiers is indexed by level-1.
var Tiers = []AchievementTier{TierBronze, TierSilver, TierGold, TierPlatinum, TierDiamond}

// MaxAchievementLevel is the last tier.
const MaxAchievementLevel = 5

// TierForLevel clamps level into 1..5 and returns its tier.
func TierForLevel(level int) AchievementTier {
	if level < 1 {
		level = 1
	}
	if level > MaxAchievementLevel {
		level = MaxAchievementLevel
	}
	return Tiers[level-1]
}

// Achievement is a tiered ladder over one fixed metric.
type Achievement struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Icon        string          `json:"iconName"`
	Tier        AchievementTier `json:"tier"`
	Progress    int             `json:"progress"`
	MaxProgress int             `json:"maxProgress"`
	Level       int             `json:"level"`
	Unlocked    bool            `json:"isUnlocked"`
}

// Maxed reports whether no further tier exists.
func (a Achievement) Maxed() bool {
	return a.Level >= MaxAchievementLevel
}
