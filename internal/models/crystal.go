package models

import (
	"fmt"
	"strings"
	"time"
)

// CrystalType is a tier in the promotion chain. Order matters: later is rarer.
type CrystalType string

const (
	CrystalAmethyst  CrystalType = "amethyst"
	CrystalCitrine   CrystalType = "citrine"
	CrystalSapphire  CrystalType = "sapphire"
	CrystalEmerald   CrystalType = "emerald"
	CrystalRuby      CrystalType = "ruby"
	CrystalObsidian  CrystalType = "obsidian"
	CrystalMoonstone CrystalType = "moonstone"
)

// CrystalChain lists every tier from most common to rarest.
var CrystalChain = []CrystalType{
	CrystalAmethyst,
	CrystalCitrine,
	CrystalSapphire,
	CrystalEmerald,
	CrystalRuby,
	CrystalObsidian,
	CrystalMoonstone,
}

// Rank returns the position of c in CrystalChain, or -1 for unknown types
// (including the legacy "diamond" some old snapshots carry).
func (c CrystalType) Rank() int {
	for i, t := range CrystalChain {
		if t == c {
			return i
		}
	}
	return -1
}

func (c CrystalType) IsValid() bool {
	return c.Rank() >= 0
}

// Next returns the tier c fuses into. Moonstone is terminal.
func (c CrystalType) Next() (CrystalType, bool) {
	r := c.Rank()
	if r < 0 || r == len(CrystalChain)-1 {
		return "", false
	}
	return CrystalChain[r+1], true
}

// Title is the display name ("Amethyst").
func (c CrystalType) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// ParseCrystalType accepts any casing and surrounding spaces.
func ParseCrystalType(input string) (CrystalType, error) {
	c := CrystalType(strings.ToLower(strings.TrimSpace(input)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown crystal type %q", input)
	}
	return c, nil
}

// Crystal is one forged gem in the sanctuary. Immutable once created.
type Crystal struct {
	ID       int64       `json:"id"`
	Type     CrystalType `json:"type"`
	ForgedAt int64       `json:"forgedAt"` // unix millis
}

func (c Crystal) ForgedTime() time.Time {
	return time.UnixMilli(c.ForgedAt)
}

// Inventory counts crystals per type.
func Inventory(sanctuary []Crystal) map[CrystalType]int {
	counts := make(map[CrystalType]int, len(CrystalChain))
	for _, c := range sanctuary {
		counts[c.Type]++
	}
	return counts
}
