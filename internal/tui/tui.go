package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/flowstate/internal/engine"
	"github.com/balkashynov/flowstate/internal/models"
	"github.com/balkashynov/flowstate/internal/session"
)

// Dispatcher applies engine events. *engine.Service satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev engine.Event) (engine.Outcome, error)
}

// Engine adds read access to the live snapshot.
type Engine interface {
	Dispatcher
	Snapshot() (*models.UserData, error)
}

var logoLines = []string{
	"┏━╸╻  ┏━┓╻ ╻┏━┓╺┳╸┏━┓╺┳╸┏━╸",
	"┣╸ ┃  ┃ ┃┃╻┃┗━┓ ┃ ┣━┫ ┃ ┣╸ ",
	"╹  ┗━╸┗━┛┗┻┛┗━┛ ╹ ╹ ╹ ╹ ┗━╸",
}

func renderLogo(width int) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width).
		Render(strings.Join(logoLines, "\n"))
}

// truncate cuts s to width display runes, ending in "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// RunFocusTUI runs the focus timer until the user quits and prints what the
// run earned.
func RunFocusTUI(ctx context.Context, svc Dispatcher, machine *session.Machine, task *models.Task) error {
	p := tea.NewProgram(NewFocusModel(ctx, svc, machine, task), tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := final.(FocusModel)
	if !ok {
		return nil
	}
	if len(m.Outcomes()) == 0 {
		fmt.Println("⏹️  Focus timer closed. No session completed.")
		return nil
	}
	PrintOutcomes(m.Outcomes())
	return nil
}

// PrintOutcomes summarises completed sessions after the timer exits.
func PrintOutcomes(outs []engine.Outcome) {
	var minutes, dust int
	var crystals []string
	for _, out := range outs {
		if out.Reward == nil {
			continue
		}
		minutes += out.Reward.Minutes
		dust += out.Reward.Dust
		if out.Reward.HasCrystal() {
			crystals = append(crystals, out.Reward.Crystal.Title())
		}
	}
	fmt.Printf("✅ %d session(s) completed: %s focused\n", len(outs), formatDuration(time.Duration(minutes)*time.Minute))
	if len(crystals) > 0 {
		fmt.Printf("💎 Crystals forged: %s\n", strings.Join(crystals, ", "))
	}
	fmt.Printf("✦ Focus dust earned: %d\n", dust)
	for _, out := range outs {
		for _, up := range out.TierUps {
			fmt.Printf("🏆 %s reached %s (level %d)\n", up.Title, up.Tier, up.Level)
		}
	}
}

// RunDashboardTUI opens the interactive dashboard.
func RunDashboardTUI(ctx context.Context, svc Engine, user string) error {
	model, err := NewDashboardModel(ctx, svc, user, time.Now)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
