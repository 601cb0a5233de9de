package tui

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// GlowConfig tunes the sweeping highlight used on crystal names and the
// selected row.
type GlowConfig struct {
	Enabled        bool
	ReduceMotion   bool    // static highlight instead of a sweep
	SpeedMs        int     // tick interval
	WidthRatio     float64 // highlight width relative to the text
	CycleMs        int     // one sweep across the text
	PauseBetweenMs int
}

func DefaultGlowConfig() GlowConfig {
	return GlowConfig{
		Enabled:        true,
		SpeedMs:        100,
		WidthRatio:     0.25,
		CycleMs:        1800,
		PauseBetweenMs: 500,
	}
}

// Glow is the animation state of one highlighted label.
type Glow struct {
	Center    float64
	Active    bool
	Config    GlowConfig
	TrueColor bool

	lastUpdate time.Time
	paused     bool
	pauseStart time.Time
}

func NewGlow(config GlowConfig) *Glow {
	return &Glow{
		Active:     config.Enabled && !config.ReduceMotion,
		Config:     config,
		TrueColor:  os.Getenv("COLORTERM") == "truecolor",
		lastUpdate: time.Now(),
	}
}

// Advance moves the highlight for a label of n glyphs as of now.
func (g *Glow) Advance(n int, now time.Time) {
	if !g.Active || n <= 0 {
		return
	}
	if now.Sub(g.lastUpdate) < time.Duration(g.Config.SpeedMs)*time.Millisecond {
		return
	}
	defer func() { g.lastUpdate = now }()

	if g.paused {
		if now.Sub(g.pauseStart) >= time.Duration(g.Config.PauseBetweenMs)*time.Millisecond {
			g.paused = false
			g.Center = -float64(n) * g.Config.WidthRatio
		}
		return
	}

	ticksPerCycle := float64(g.Config.CycleMs) / float64(g.Config.SpeedMs)
	distance := float64(n) * (1.0 + 2.0*g.Config.WidthRatio)
	g.Center += distance / ticksPerCycle

	end := float64(n) * (1.0 + g.Config.WidthRatio)
	if g.Center >= end {
		g.paused = true
		g.pauseStart = now
		g.Center = end
	}
}

// Reset restarts the sweep, e.g. when the selection moves.
func (g *Glow) Reset() {
	g.Center = 0
	g.lastUpdate = time.Now()
	g.paused = false
	g.pauseStart = time.Time{}
}

func (g *Glow) SetActive(active bool) {
	g.Active = active && g.Config.Enabled && !g.Config.ReduceMotion
}

// Render draws text in base hex color with the highlight sweeping across.
func (g *Glow) Render(text, baseHex string, maxWidth int) string {
	runes := []rune(text)
	if maxWidth > 3 && len(runes) > maxWidth {
		runes = append(runes[:maxWidth-3], []rune("...")...)
	}
	if len(runes) == 0 {
		return ""
	}
	g.Advance(len(runes), time.Now())

	base, ok := parseHex(baseHex)
	if !ok {
		base = rgb{177, 184, 199}
	}
	if !g.Active {
		return paint(string(runes), base)
	}
	if !g.TrueColor {
		return g.renderFallback(runes)
	}
	return g.renderTrueColor(runes, base)
}

type rgb struct{ r, g, b int }

func parseHex(s string) (rgb, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)}, true
}

func paint(text string, c rgb) string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm%s\033[0m", c.r, c.g, c.b, text)
}

func (g *Glow) renderTrueColor(runes []rune, base rgb) string {
	highlight := rgb{234, 230, 255}

	sigma := g.Config.WidthRatio * float64(len(runes)) / 2.0
	if sigma < 1.0 {
		sigma = 1.0
	}

	var b strings.Builder
	for i, ch := range runes {
		dx := float64(i) - g.Center
		w := math.Min(1, math.Max(0, math.Exp(-(dx*dx)/(2*sigma*sigma))))
		r := int(float64(base.r)*(1-w) + float64(highlight.r)*w)
		gg := int(float64(base.g)*(1-w) + float64(highlight.g)*w)
		bb := int(float64(base.b)*(1-w) + float64(highlight.b)*w)
		fmt.Fprintf(&b, "\033[38;2;%d;%d;%dm%c", r, gg, bb, ch)
	}
	b.WriteString("\033[0m")
	return b.String()
}

// renderFallback uses the 256-color palette for terminals without truecolor.
func (g *Glow) renderFallback(runes []rune) string {
	width := int(g.Config.WidthRatio * float64(len(runes)))
	if width < 1 {
		width = 1
	}
	start := int(g.Center) - width/2
	end := start + width

	var b strings.Builder
	for i, ch := range runes {
		if i >= start && i < end {
			fmt.Fprintf(&b, "\033[38;5;147m%c", ch)
		} else {
			fmt.Fprintf(&b, "\033[38;5;250m%c", ch)
		}
	}
	b.WriteString("\033[0m")
	return b.String()
}

// Interval is the tea.Tick period, zero when idle.
func (g *Glow) Interval() time.Duration {
	if !g.ShouldTick() {
		return 0
	}
	return time.Duration(g.Config.SpeedMs) * time.Millisecond
}

func (g *Glow) ShouldTick() bool {
	return g.Active && g.Config.Enabled && !g.Config.ReduceMotion
}
