package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/engine"
	"github.com/balkashynov/flowstate/internal/models"
	"github.com/balkashynov/flowstate/internal/progress"
	"github.com/balkashynov/flowstate/internal/rewards"
	"github.com/balkashynov/flowstate/internal/session"
)

type fakeEngine struct {
	snap   *models.UserData
	events []engine.Event
	out    engine.Outcome
	err    error
}

func (f *fakeEngine) Dispatch(_ context.Context, ev engine.Event) (engine.Outcome, error) {
	if f.err != nil {
		return engine.Outcome{}, f.err
	}
	f.events = append(f.events, ev)
	return f.out, nil
}

func (f *fakeEngine) Snapshot() (*models.UserData, error) {
	return f.snap.Clone(), nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sendFocus(t *testing.T, m FocusModel, msgs ...tea.Msg) FocusModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(FocusModel)
	}
	return m
}

func TestFocusModelCountdownDispatchesCompletion(t *testing.T) {
	eng := &fakeEngine{out: engine.Outcome{Reward: &rewards.SessionReward{Crystal: models.CrystalAmethyst, Dust: 1, Minutes: 1}}}
	cfg := session.DefaultConfig()
	cfg.Focus = time.Minute
	machine := session.New(cfg)
	if err := machine.SelectTask(7); err != nil {
		t.Fatal(err)
	}
	task := &models.Task{ID: 7, Title: "Write report", Time: "09:00", Duration: 60, Category: models.CategoryWork}

	m := NewFocusModel(context.Background(), eng, machine, task)
	m = sendFocus(t, m, tea.WindowSizeMsg{Width: 120, Height: 40}, runes("s"))
	if m.err != nil {
		t.Fatalf("start: %v", m.err)
	}
	for i := 0; i < 60; i++ {
		m = sendFocus(t, m, timerTickMsg{})
	}

	if len(eng.events) != 1 {
		t.Fatalf("dispatched %d events, want 1", len(eng.events))
	}
	ev, ok := eng.events[0].(engine.SessionCompleted)
	if !ok {
		t.Fatalf("dispatched %T", eng.events[0])
	}
	if ev.Completion.TaskID != 7 || ev.Completion.Elapsed != time.Minute {
		t.Errorf("completion = %+v", ev.Completion)
	}
	if len(m.Outcomes()) != 1 || !strings.Contains(m.notice, "Amethyst") {
		t.Errorf("notice = %q, outcomes = %d", m.notice, len(m.Outcomes()))
	}
	if got := m.View(); !strings.Contains(got, "READY") {
		t.Errorf("view after completion should be idle:\n%s", got)
	}
}

func TestFocusModelRejectsCountdownWithoutTask(t *testing.T) {
	eng := &fakeEngine{}
	m := NewFocusModel(context.Background(), eng, session.New(session.DefaultConfig()), nil)
	m = sendFocus(t, m, runes("s"))
	if !errors.Is(m.err, apperr.NoTargetTask) {
		t.Fatalf("err = %v, want NoTargetTask", m.err)
	}
}

func TestFocusModelAbandonAndQuitEarnNothing(t *testing.T) {
	eng := &fakeEngine{}
	machine := session.New(session.DefaultConfig())
	_ = machine.SelectTask(1)

	m := NewFocusModel(context.Background(), eng, machine, nil)
	m = sendFocus(t, m, runes("s"), timerTickMsg{}, timerTickMsg{}, runes("x"))
	if got := machine.State().Phase; got != session.PhaseAbandoned {
		t.Fatalf("phase = %s, want abandoned", got)
	}

	m = sendFocus(t, m, runes("s"), timerTickMsg{}, runes("q"))
	if !m.quitting {
		t.Error("q should quit")
	}
	if got := machine.State().Phase; got != session.PhaseIdle {
		t.Errorf("phase after quit = %s, want idle", got)
	}
	if len(eng.events) != 0 {
		t.Errorf("dispatched %d events, want none", len(eng.events))
	}
}

func TestFocusModelStopwatchFinish(t *testing.T) {
	eng := &fakeEngine{out: engine.Outcome{Reward: &rewards.SessionReward{Dust: 2, Minutes: 2}}}
	machine := session.New(session.DefaultConfig())

	m := NewFocusModel(context.Background(), eng, machine, nil)
	m = sendFocus(t, m, runes("m"), runes("s"))
	for i := 0; i < 30; i++ {
		m = sendFocus(t, m, timerTickMsg{})
	}
	m = sendFocus(t, m, runes("f"))
	if !errors.Is(m.err, apperr.SessionTooShort) {
		t.Fatalf("err = %v, want SessionTooShort", m.err)
	}

	for i := 0; i < 91; i++ {
		m = sendFocus(t, m, timerTickMsg{})
	}
	m = sendFocus(t, m, runes("f"))
	if m.err != nil {
		t.Fatalf("finish: %v", m.err)
	}
	if len(eng.events) != 1 {
		t.Fatalf("dispatched %d events, want 1", len(eng.events))
	}
	c := eng.events[0].(engine.SessionCompleted).Completion
	if c.Kind != models.SessionStopwatch || c.Elapsed != 121*time.Second {
		t.Errorf("completion = %+v", c)
	}
}

func TestFocusModelStrictModeOnBlur(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.Strict = true
	machine := session.New(cfg)
	_ = machine.SelectTask(1)

	m := NewFocusModel(context.Background(), &fakeEngine{}, machine, nil)
	m = sendFocus(t, m, runes("s"), tea.KeyMsg{Type: tea.KeyTab})
	if machine.State().Phase != session.PhaseRunning {
		t.Fatalf("tab paused the session, phase = %s", machine.State().Phase)
	}

	m = sendFocus(t, m, tea.BlurMsg{})
	st := machine.State()
	if st.Phase != session.PhasePaused || !st.Violation {
		t.Fatalf("state = %+v, want paused with violation", st)
	}
	if !strings.Contains(m.notice, "Strict mode") {
		t.Errorf("notice = %q", m.notice)
	}

	m = sendFocus(t, m, tea.FocusMsg{})
	if machine.State().Phase != session.PhasePaused {
		t.Fatalf("regaining focus resumed the session, phase = %s", machine.State().Phase)
	}
	m = sendFocus(t, m, runes("p"))
	if machine.State().Phase != session.PhaseRunning {
		t.Errorf("p should resume, phase = %s", machine.State().Phase)
	}
}

func TestFocusModelBlurIgnoredWithoutStrict(t *testing.T) {
	machine := session.New(session.DefaultConfig())
	_ = machine.SelectTask(1)

	m := NewFocusModel(context.Background(), &fakeEngine{}, machine, nil)
	m = sendFocus(t, m, runes("s"), tea.BlurMsg{})
	if machine.State().Phase != session.PhaseRunning {
		t.Fatalf("phase = %s, want running", machine.State().Phase)
	}
	if m.notice != "" {
		t.Errorf("notice = %q, want none", m.notice)
	}
}

func TestRewardNotice(t *testing.T) {
	out := engine.Outcome{
		Reward:    &rewards.SessionReward{Crystal: models.CrystalCitrine, Dust: 24, Minutes: 60},
		Completed: []string{"a"},
		TierUps:   []progress.TierUp{{Title: "Deep Worker", Tier: models.TierSilver, Level: 2}},
	}
	got := rewardNotice(out)
	for _, want := range []string{"Citrine crystal forged", "+24 dust", "1 ritual(s) complete", "Deep Worker reached silver"} {
		if !strings.Contains(got, want) {
			t.Errorf("notice %q missing %q", got, want)
		}
	}
	if got := rewardNotice(engine.Outcome{}); got != "Session complete." {
		t.Errorf("empty outcome notice = %q", got)
	}
}

func TestBigClockLines(t *testing.T) {
	tests := []struct {
		d    time.Duration
		text string
	}{
		{25 * time.Minute, "25:00"},
		{90*time.Minute + 5*time.Second, "01:30:05"},
		{-time.Second, "00:00"},
	}
	for _, tt := range tests {
		if got := clockText(tt.d); got != tt.text {
			t.Errorf("clockText(%s) = %q, want %q", tt.d, got, tt.text)
		}
		lines := bigClockLines(tt.d)
		want := len(tt.text) * 6
		for i, l := range lines {
			if n := utf8.RuneCountInString(l); n != want {
				t.Errorf("%s line %d has %d runes, want %d", tt.d, i, n, want)
			}
		}
	}
}

func TestClockValue(t *testing.T) {
	idle := session.State{Phase: session.PhaseIdle, Kind: models.SessionCountdown, Duration: 25 * time.Minute}
	if got := clockValue(idle); got != 25*time.Minute {
		t.Errorf("idle countdown shows %s", got)
	}
	running := session.State{Phase: session.PhaseRunning, Kind: models.SessionStopwatch, Elapsed: 3 * time.Minute}
	if got := clockValue(running); got != 3*time.Minute {
		t.Errorf("running stopwatch shows %s", got)
	}
	half := session.State{Phase: session.PhaseRunning, Kind: models.SessionCountdown, Duration: 10 * time.Minute, Remaining: 5 * time.Minute}
	if got := percent(half); got != 0.5 {
		t.Errorf("percent = %v, want 0.5", got)
	}
}

func TestGlow(t *testing.T) {
	g := NewGlow(GlowConfig{Enabled: false})
	got := g.Render("Amethyst", "#A78BFA", 40)
	if !strings.Contains(got, "Amethyst") || !strings.HasPrefix(got, "\033[38;2;167;139;250m") {
		t.Errorf("static glow = %q", got)
	}

	g = NewGlow(DefaultGlowConfig())
	start := time.Now()
	g.Advance(10, start.Add(time.Second))
	if g.Center <= 0 {
		t.Errorf("center did not advance: %v", g.Center)
	}
	if g.Interval() != 100*time.Millisecond {
		t.Errorf("interval = %s", g.Interval())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("✨ sparkling title", 8); got != "✨ spa..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
}

func dashboardSnapshot() *models.UserData {
	return &models.UserData{
		Tasks: []models.Task{
			{ID: 1, Title: "Morning run", Emoji: "🏃", Time: "07:00", Duration: 30, Category: models.CategoryWellness},
			{ID: 2, Title: "Write report", Emoji: "📝", Time: "09:00", Duration: 90, Category: models.CategoryWork},
		},
		Todos: []models.TodoItem{{ID: 3, Title: "Buy milk", Priority: models.PriorityLow}},
		Challenges: []models.Challenge{
			{ID: "c1", Title: "Momentum", Target: 3, CurrentProgress: 3, Completed: true, RewardDust: 10},
		},
		Sanctuary: []models.Crystal{
			{ID: 10, Type: models.CrystalAmethyst},
			{ID: 11, Type: models.CrystalAmethyst},
			{ID: 12, Type: models.CrystalAmethyst},
		},
		Achievements: progress.DefaultAchievements(),
		Streak:       models.Streak{Current: 4},
	}
}

func sendDashboard(t *testing.T, m DashboardModel, msgs ...tea.Msg) DashboardModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(DashboardModel)
	}
	return m
}

func TestDashboardActions(t *testing.T) {
	eng := &fakeEngine{snap: dashboardSnapshot(), out: engine.Outcome{DustEarned: 10}}
	clock := func() time.Time { return time.Date(2024, 1, 8, 9, 30, 0, 0, time.UTC) }
	m, err := NewDashboardModel(context.Background(), eng, "ada", clock)
	if err != nil {
		t.Fatal(err)
	}
	m = sendDashboard(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	for _, want := range []string{"Good Morning, ada", "Now: 📝 Write report", "4 day streak"} {
		if !strings.Contains(view, want) {
			t.Errorf("header missing %q", want)
		}
	}

	m = sendDashboard(t, m, runes("j"), runes("d"))
	m = sendDashboard(t, m, runes("l"), runes("d"))
	m = sendDashboard(t, m, runes("l"), runes("c"))
	m = sendDashboard(t, m, runes("l"), runes("f"))

	want := []engine.Event{
		engine.TaskToggled{ID: 2},
		engine.TodoToggled{ID: 3},
		engine.ChallengeClaimed{ID: "c1"},
		engine.CrystalFused{Input: models.CrystalAmethyst},
	}
	if len(eng.events) != len(want) {
		t.Fatalf("events = %v", eng.events)
	}
	for i := range want {
		if eng.events[i] != want[i] {
			t.Errorf("event %d = %#v, want %#v", i, eng.events[i], want[i])
		}
	}
}

func TestDashboardShowsRejection(t *testing.T) {
	eng := &fakeEngine{snap: dashboardSnapshot(), err: apperr.ChallengeNotClaimable}
	m, err := NewDashboardModel(context.Background(), eng, "ada", nil)
	if err != nil {
		t.Fatal(err)
	}
	m = sendDashboard(t, m, tea.WindowSizeMsg{Width: 80, Height: 30}, runes("l"), runes("l"), runes("c"))
	if !errors.Is(m.err, apperr.ChallengeNotClaimable) {
		t.Fatalf("err = %v", m.err)
	}
	if !strings.Contains(m.View(), apperr.ChallengeNotClaimable.Message) {
		t.Error("rejection not shown inline")
	}
}

func TestDashboardSearch(t *testing.T) {
	eng := &fakeEngine{snap: dashboardSnapshot()}
	m, err := NewDashboardModel(context.Background(), eng, "ada", nil)
	if err != nil {
		t.Fatal(err)
	}
	m.query = "rpt"
	rows := m.visibleRows()
	if len(rows) != 1 || rows[0].taskID != 2 {
		t.Fatalf("rows = %+v", rows)
	}

	m = sendDashboard(t, m, runes("d"))
	if len(eng.events) != 1 || eng.events[0] != (engine.TaskToggled{ID: 2}) {
		t.Errorf("toggle on filtered row dispatched %v", eng.events)
	}
}
