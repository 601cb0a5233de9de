package session

import (
	"errors"
	"testing"
	"time"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/models"
)

func ticks(d time.Duration) int { return int(d / TickInterval) }

// run ticks n times and collects completions.
func run(m *Machine, n int) []Completion {
	var out []Completion
	for i := 0; i < n; i++ {
		if c, ok := m.Tick(); ok {
			out = append(out, c)
		}
	}
	return out
}

func TestStartCountdownRequiresTask(t *testing.T) {
	m := New(DefaultConfig())
	if err := m.Start(); !errors.Is(err, apperr.NoTargetTask) {
		t.Fatalf("start err=%v, want NoTargetTask", err)
	}
	if m.State().Phase != PhaseIdle {
		t.Fatalf("phase=%s after rejected start", m.State().Phase)
	}

	if err := m.SetKind(models.SessionStopwatch); err != nil {
		t.Fatal(err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("stopwatch start without task: %v", err)
	}
}

func TestCountdownCompletesWithoutAutoStart(t *testing.T) {
	m := New(DefaultConfig())
	if err := m.SelectTask(3); err != nil {
		t.Fatal(err)
	}
	if err := m.SetDuration(65 * time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}

	done := run(m, ticks(65*time.Minute)-1)
	if len(done) != 0 {
		t.Fatalf("completed early")
	}
	done = run(m, 1)
	if len(done) != 1 {
		t.Fatalf("got %d completions, want 1", len(done))
	}
	if done[0].Minutes() != 65 || done[0].TaskID != 3 || done[0].Kind != models.SessionCountdown {
		t.Fatalf("completion=%+v", done[0])
	}
	if m.State().Phase != PhaseIdle {
		t.Fatalf("phase=%s, want idle", m.State().Phase)
	}
}

func TestCountdownAutoStartCycle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoStart = true
	m := New(cfg)
	_ = m.SelectTask(1)
	_ = m.SetDuration(time.Minute)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}

	if done := run(m, ticks(time.Minute)); len(done) != 1 {
		t.Fatalf("no completion")
	}
	if m.State().Phase != PhaseBreak {
		t.Fatalf("phase=%s, want break", m.State().Phase)
	}

	run(m, ticks(cfg.Break))
	st := m.State()
	if st.Phase != PhaseIdle || !st.Pending {
		t.Fatalf("after break: phase=%s pending=%v", st.Phase, st.Pending)
	}

	run(m, ticks(cfg.AutoStartDelay))
	if m.State().Phase != PhaseRunning {
		t.Fatalf("phase=%s, want next session auto-started", m.State().Phase)
	}
}

func TestAutoStartCancelledByUserAction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoStart = true
	m := New(cfg)
	_ = m.SelectTask(1)
	_ = m.SetDuration(time.Minute)
	_ = m.Start()
	run(m, ticks(time.Minute)+ticks(cfg.Break))

	if err := m.SetKind(models.SessionStopwatch); err != nil {
		t.Fatal(err)
	}
	run(m, ticks(cfg.AutoStartDelay)*2)
	if st := m.State(); st.Phase != PhaseIdle || st.Pending {
		t.Fatalf("auto-start fired after user action: %+v", st)
	}
}

func TestAbandonEarnsNothing(t *testing.T) {
	m := New(DefaultConfig())
	_ = m.SelectTask(1)
	_ = m.SetDuration(60 * time.Minute)
	_ = m.Start()
	run(m, ticks(40*time.Minute))

	if err := m.Abandon(); err != nil {
		t.Fatal(err)
	}
	st := m.State()
	if st.Phase != PhaseAbandoned || st.Elapsed != 0 || st.Remaining != 0 {
		t.Fatalf("after abandon: %+v", st)
	}

	if done := run(m, ticks(time.Hour)); len(done) != 0 {
		t.Fatalf("abandoned session completed")
	}
	if m.State().Phase != PhaseIdle {
		t.Fatalf("phase=%s, want idle after delay", m.State().Phase)
	}
}

func TestAbandonedSettlesAfterDelay(t *testing.T) {
	cfg := DefaultConfig()
	m := New(cfg)
	_ = m.SetKind(models.SessionStopwatch)
	_ = m.Start()
	_ = m.Abandon()

	run(m, ticks(cfg.AbandonDelay)-1)
	if m.State().Phase != PhaseAbandoned {
		t.Fatalf("left abandoned early")
	}
	run(m, 1)
	if m.State().Phase != PhaseIdle {
		t.Fatalf("phase=%s, want idle", m.State().Phase)
	}
}

func TestStopwatchFinish(t *testing.T) {
	m := New(DefaultConfig())
	_ = m.SetKind(models.SessionStopwatch)
	_ = m.Start()

	run(m, 60)
	if _, err := m.Finish(); !errors.Is(err, apperr.SessionTooShort) {
		t.Fatalf("finish at 60s err=%v, want SessionTooShort", err)
	}
	if m.State().Phase != PhaseRunning {
		t.Fatalf("rejected finish stopped the session")
	}

	run(m, ticks(30*time.Minute))
	if err := m.Pause(); err != nil {
		t.Fatal(err)
	}
	run(m, 100)
	c, err := m.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if c.Elapsed != 30*time.Minute+time.Minute {
		t.Fatalf("elapsed=%s, paused ticks must not count", c.Elapsed)
	}
	if m.State().Phase != PhaseIdle {
		t.Fatalf("phase=%s after finish", m.State().Phase)
	}
}

func TestStrictModeViolation(t *testing.T) {
	m := New(DefaultConfig())
	_ = m.SetKind(models.SessionStopwatch)
	_ = m.Start()

	if m.Hidden() {
		t.Fatalf("hidden paused without strict mode")
	}

	m.SetStrict(true)
	if !m.Hidden() {
		t.Fatalf("hidden ignored in strict mode")
	}
	st := m.State()
	if st.Phase != PhasePaused || !st.Violation {
		t.Fatalf("state=%+v, want paused with violation", st)
	}

	run(m, 10)
	if m.State().Phase != PhasePaused {
		t.Fatalf("resumed automatically")
	}
	if err := m.Resume(); err != nil {
		t.Fatal(err)
	}
	if m.State().Violation {
		t.Fatalf("violation not cleared on resume")
	}
}

func TestDurationBounds(t *testing.T) {
	m := New(DefaultConfig())
	for _, d := range []time.Duration{0, 30 * time.Second, 181 * time.Minute} {
		if err := m.SetDuration(d); !errors.Is(err, apperr.InvalidDuration) {
			t.Fatalf("SetDuration(%s) err=%v", d, err)
		}
	}

	_ = m.SetDuration(178 * time.Minute)
	_ = m.Longer()
	if got := m.State().Duration; got != MaxCountdown {
		t.Fatalf("duration=%s, want clamped to %s", got, MaxCountdown)
	}
	_ = m.SetDuration(3 * time.Minute)
	_ = m.Shorter()
	if got := m.State().Duration; got != MinCountdown {
		t.Fatalf("duration=%s, want clamped to %s", got, MinCountdown)
	}
}

func TestBusyTransitionsRejected(t *testing.T) {
	m := New(DefaultConfig())
	_ = m.SelectTask(1)
	_ = m.Start()

	if err := m.Start(); !errors.Is(err, apperr.SessionBusy) {
		t.Fatalf("double start err=%v", err)
	}
	if err := m.SelectTask(2); !errors.Is(err, apperr.SessionBusy) {
		t.Fatalf("retarget while running err=%v", err)
	}
	if err := m.Resume(); !errors.Is(err, apperr.SessionNotPaused) {
		t.Fatalf("resume while running err=%v", err)
	}
	if _, err := m.Finish(); !errors.Is(err, apperr.InvalidInput) {
		t.Fatalf("finish countdown err=%v", err)
	}
}
