package tui

import "github.com/balkashynov/flowstate/internal/models"

// Color constants for the flowstate theme
const (
	// Base Colors
	ColorAppBackground  = ""        // Use terminal default background
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240"

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Logo, active borders
	ColorAccentBright = "#A78BFA" // Highlights, current selection

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
	ColorDust    = "#FCD34D"
)

// crystalColors gives every tier its own hue, rarest last.
var crystalColors = map[models.CrystalType]string{
	models.CrystalAmethyst:  "#A78BFA",
	models.CrystalCitrine:   "#FBBF24",
	models.CrystalSapphire:  "#3B82F6",
	models.CrystalEmerald:   "#10B981",
	models.CrystalRuby:      "#EF4444",
	models.CrystalObsidian:  "#6D7383",
	models.CrystalMoonstone: "#E0E7FF",
}

// crystalColor falls back to the accent for unknown tiers.
func crystalColor(t models.CrystalType) string {
	if c, ok := crystalColors[t]; ok {
		return c
	}
	return ColorAccentBright
}

// tierColors are the achievement badge colors.
var tierColors = map[models.AchievementTier]string{
	models.TierBronze:   "#CD7F32",
	models.TierSilver:   "#C0C0C0",
	models.TierGold:     "#FBBF24",
	models.TierPlatinum: "#A5F3FC",
	models.TierDiamond:  "#E0E7FF",
}
