package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/flowstate/internal/engine"
	"github.com/balkashynov/flowstate/internal/models"
	"github.com/balkashynov/flowstate/internal/session"
)

// FocusModel drives a session.Machine from bubbletea ticks and hands every
// completion to the engine.
type FocusModel struct {
	width  int
	height int

	ctx     context.Context
	svc     Dispatcher
	machine *session.Machine
	task    *models.Task

	keys focusKeys
	help help.Model
	bar  progress.Model
	glow *Glow

	animation int

	// results of this run, reported after the program exits
	completions []session.Completion
	outcomes    []engine.Outcome
	lastOutcome *engine.Outcome
	notice      string
	err         error
	quitting    bool
}

// timerTickMsg advances the machine by one session.TickInterval.
type timerTickMsg struct{}

// animationTickMsg drives the header and the crystal glow.
type animationTickMsg struct{}

// NewFocusModel wraps machine. task may be nil for an untargeted stopwatch.
func NewFocusModel(ctx context.Context, svc Dispatcher, machine *session.Machine, task *models.Task) FocusModel {
	return FocusModel{
		ctx:     ctx,
		svc:     svc,
		machine: machine,
		task:    task,
		keys:    newFocusKeys(),
		help:    help.New(),
		bar:     progress.New(progress.WithGradient(ColorAccentMain, ColorAccentBright), progress.WithoutPercentage()),
		glow:    NewGlow(DefaultGlowConfig()),
	}
}

func timerTick() tea.Cmd {
	return tea.Tick(session.TickInterval, func(time.Time) tea.Msg {
		return timerTickMsg{}
	})
}

func animationTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

func (m FocusModel) Init() tea.Cmd {
	return tea.Batch(timerTick(), animationTick())
}

func (m FocusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if c, done := m.machine.Tick(); done {
			m = m.complete(c)
		}
		if m.quitting {
			return m, nil
		}
		return m, timerTick()

	case animationTickMsg:
		m.animation = (m.animation + 1) % 4
		if m.quitting {
			return m, nil
		}
		return m, animationTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.BlurMsg:
		if m.machine.Hidden() {
			m.notice = "Strict mode: you left the timer, session paused."
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m FocusModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	var err error

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.machine.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Start):
		m.notice, m.lastOutcome = "", nil
		err = m.machine.Start()

	case key.Matches(msg, m.keys.Pause):
		if m.machine.State().Phase == session.PhasePaused {
			err = m.machine.Resume()
		} else {
			err = m.machine.Pause()
		}

	case key.Matches(msg, m.keys.Finish):
		var c session.Completion
		if c, err = m.machine.Finish(); err == nil {
			m = m.complete(c)
		}

	case key.Matches(msg, m.keys.Abandon):
		if err = m.machine.Abandon(); err == nil {
			m.notice = "Session abandoned. No crystal this time."
		}

	case key.Matches(msg, m.keys.Longer):
		err = m.machine.Longer()

	case key.Matches(msg, m.keys.Shorter):
		err = m.machine.Shorter()

	case key.Matches(msg, m.keys.Mode):
		next := models.SessionStopwatch
		if m.machine.State().Kind == models.SessionStopwatch {
			next = models.SessionCountdown
		}
		err = m.machine.SetKind(next)

	case key.Matches(msg, m.keys.Skip):
		err = m.machine.SkipBreak()
	}

	m.err = err
	return m, nil
}

// complete dispatches c and records what it paid out.
func (m FocusModel) complete(c session.Completion) FocusModel {
	m.completions = append(m.completions, c)
	out, err := m.svc.Dispatch(m.ctx, engine.SessionCompleted{Completion: c})
	if err != nil {
		m.err = err
		return m
	}
	m.outcomes = append(m.outcomes, out)
	m.lastOutcome = &out
	m.notice = rewardNotice(out)
	m.glow.Reset()
	return m
}

// rewardNotice is the one-line summary shown under the clock.
func rewardNotice(out engine.Outcome) string {
	if out.Reward == nil {
		return "Session complete."
	}
	r := out.Reward
	var parts []string
	if r.HasCrystal() {
		parts = append(parts, fmt.Sprintf("%s crystal forged", r.Crystal.Title()))
	}
	parts = append(parts, fmt.Sprintf("+%d dust", r.Dust))
	if n := len(out.Completed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d ritual(s) complete", n))
	}
	for _, up := range out.TierUps {
		parts = append(parts, fmt.Sprintf("%s reached %s", up.Title, up.Tier))
	}
	return strings.Join(parts, " · ")
}

func (m FocusModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - lipgloss.Height(helpBar) - 1

	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderTimerPanel(m.width, contentHeight),
			helpBar,
		)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderSessionPanel(rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

// headerText names the phase with an animated glyph on either side.
func (m FocusModel) headerText(st session.State) string {
	glyphs := []string{"◐", "◓", "◑", "◒"}
	g := glyphs[m.animation]
	switch st.Phase {
	case session.PhaseRunning:
		if st.Kind == models.SessionStopwatch {
			return fmt.Sprintf("%s  FLOWING  %s", g, g)
		}
		return fmt.Sprintf("%s  FOCUSING  %s", g, g)
	case session.PhasePaused:
		return "❚❚  PAUSED  ❚❚"
	case session.PhaseBreak:
		return "☕  BREAK  ☕"
	case session.PhaseAbandoned:
		return "✗  ABANDONED  ✗"
	default:
		if st.Pending {
			return "…  NEXT SESSION SOON  …"
		}
		return "READY"
	}
}

// clockValue is what the big clock shows for st.
func clockValue(st session.State) time.Duration {
	switch {
	case st.Phase == session.PhaseBreak:
		return st.Remaining
	case st.Phase == session.PhaseRunning || st.Phase == session.PhasePaused:
		if st.Kind == models.SessionStopwatch {
			return st.Elapsed
		}
		return st.Remaining
	case st.Kind == models.SessionStopwatch:
		return 0
	default:
		return st.Duration
	}
}

// percent is the countdown completion ratio for the progress bar.
func percent(st session.State) float64 {
	switch st.Phase {
	case session.PhaseRunning, session.PhasePaused:
		if st.Kind == models.SessionStopwatch || st.Duration <= 0 {
			return 0
		}
		return 1 - float64(st.Remaining)/float64(st.Duration)
	}
	return 0
}

func (m FocusModel) renderTimerPanel(width, height int) string {
	st := m.machine.State()
	var components []string

	headerColor := ColorAccentBright
	clockColor := ColorAccentBright
	switch st.Phase {
	case session.PhasePaused:
		headerColor, clockColor = ColorWarning, ColorWarning
	case session.PhaseBreak:
		headerColor, clockColor = ColorSuccess, ColorSuccess
	case session.PhaseAbandoned:
		headerColor, clockColor = ColorError, ColorDisabledText
	}

	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)

	components = append(components, center.
		Foreground(lipgloss.Color(headerColor)).
		Bold(true).
		Render(m.headerText(st)))

	target := "No target task"
	if m.task != nil {
		target = strings.TrimSpace(m.task.Emoji + " " + m.task.Title)
	}
	components = append(components, center.
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Render(truncate(target, width-4)))

	components = append(components, renderBigClock(clockValue(st), clockColor, width))

	if st.Kind == models.SessionCountdown && st.Phase != session.PhaseIdle {
		m.bar.Width = min(width-8, 50)
		components = append(components, center.Render(m.bar.ViewAs(percent(st))))
	}

	mode := fmt.Sprintf("%s · %s", st.Kind, formatDuration(st.Duration))
	if st.Kind == models.SessionStopwatch {
		mode = string(st.Kind)
	}
	components = append(components, center.
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Render(mode))

	if m.err != nil {
		components = append(components, center.Foreground(lipgloss.Color(ColorError)).Render("✗ "+m.err.Error()))
	} else if m.notice != "" {
		components = append(components, center.Foreground(lipgloss.Color(ColorSuccess)).Render(m.notice))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

// renderSessionPanel shows the target task, the machine settings and the
// last payout.
func (m FocusModel) renderSessionPanel(width, height int) string {
	var b strings.Builder
	inner := width - 8
	line := lipgloss.NewStyle().Align(lipgloss.Center).Width(inner)
	value := func(color, s string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(s)
	}

	b.WriteString("\n")
	b.WriteString(renderLogo(inner))
	b.WriteString("\n\n")
	b.WriteString(line.Foreground(lipgloss.Color(ColorBorder)).Render(strings.Repeat("─", min(width-12, 40))))
	b.WriteString("\n\n")

	if m.task != nil {
		b.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorAccentMain)).
			Width(width-12).
			Padding(0, 1).
			Render(strings.TrimSpace(m.task.Emoji + " " + m.task.Title)))
		b.WriteString("\n\n")
		b.WriteString(line.Render(fmt.Sprintf("🕑 Scheduled: %s for %s",
			value(ColorAccentBright, m.task.Time),
			value(ColorAccentBright, formatDuration(time.Duration(m.task.Duration)*time.Minute)))))
		b.WriteString("\n")
		b.WriteString(line.Render(fmt.Sprintf("📁 Category: %s", value(ColorAccentBright, string(m.task.Category)))))
		b.WriteString("\n")
	}

	cfg := m.machine.Config()
	onOff := func(on bool) string {
		if on {
			return value(ColorSuccess, "on")
		}
		return value(ColorDisabledText, "off")
	}
	b.WriteString(line.Render(fmt.Sprintf("🔁 Auto-start: %s   🔒 Strict: %s", onOff(cfg.AutoStart), onOff(cfg.Strict))))
	b.WriteString("\n")
	b.WriteString(line.Render(fmt.Sprintf("☕ Break: %s", value(ColorSecondaryText, formatDuration(cfg.Break)))))
	b.WriteString("\n")
	if n := len(m.outcomes); n > 0 {
		b.WriteString(line.Render(fmt.Sprintf("✔ Sessions this run: %s", value(ColorSuccess, fmt.Sprint(n)))))
		b.WriteString("\n")
	}

	if m.lastOutcome != nil && m.lastOutcome.Reward != nil && m.lastOutcome.Reward.HasCrystal() {
		c := m.lastOutcome.Reward.Crystal
		b.WriteString("\n")
		b.WriteString(line.Render("◆ " + m.glow.Render(c.Title(), crystalColor(c), inner) + " ◆"))
		b.WriteString("\n")
		b.WriteString(line.Render(value(ColorDust, fmt.Sprintf("+%d focus dust", m.lastOutcome.Reward.Dust))))
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

func (m FocusModel) renderHelpBar() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Align(lipgloss.Center).
		Width(m.width).
		Render(m.help.View(m.keys))
}

// Completions returns what finished during this run, in order.
func (m FocusModel) Completions() []session.Completion { return m.completions }

// Outcomes returns the engine results of those completions.
func (m FocusModel) Outcomes() []engine.Outcome { return m.outcomes }
