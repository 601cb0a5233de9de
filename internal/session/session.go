// Package session is the focus timer lifecycle. It has no clock of its own:
// the caller drives it with one Tick per TickInterval.
package session

import (
	"fmt"
	"time"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/models"
)

// TickInterval is the wall-clock length of one Tick.
const TickInterval = time.Second

const (
	MinCountdown = time.Minute
	MaxCountdown = 180 * time.Minute
	// DurationStep is the nudge applied by Longer/Shorter.
	DurationStep = 5 * time.Minute
)

// Phase of the timer.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
	PhaseBreak
	PhaseAbandoned
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseBreak:
		return "break"
	case PhaseAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Config holds the timer settings. Strict and AutoStart are Pro features; the
// caller decides whether they may be switched on.
type Config struct {
	Focus          time.Duration
	Break          time.Duration
	AbandonDelay   time.Duration
	AutoStartDelay time.Duration
	AutoStart      bool
	Strict         bool
}

// DefaultConfig matches the stock client timings.
func DefaultConfig() Config {
	return Config{
		Focus:          25 * time.Minute,
		Break:          5 * time.Minute,
		AbandonDelay:   3 * time.Second,
		AutoStartDelay: 5 * time.Second,
	}
}

// Completion is emitted once per finished focus session.
type Completion struct {
	Kind    models.SessionKind
	TaskID  int64
	Elapsed time.Duration
}

// Minutes is the whole number of minutes focused.
func (c Completion) Minutes() int {
	return int(c.Elapsed / time.Minute)
}

type pendingAction int

const (
	pendingIdle pendingAction = iota + 1
	pendingAutoStart
)

type deferred struct {
	action pendingAction
	ticks  int
}

// State is a read-only view for rendering.
type State struct {
	Phase     Phase
	Kind      models.SessionKind
	TaskID    int64
	Duration  time.Duration
	Remaining time.Duration
	Elapsed   time.Duration
	Violation bool
	Pending   bool
}

// Machine is a single focus timer. It is not safe for concurrent use.
type Machine struct {
	cfg       Config
	phase     Phase
	kind      models.SessionKind
	taskID    int64
	duration  time.Duration
	remaining time.Duration
	elapsed   time.Duration
	violation bool
	pending   *deferred
}

// New returns a machine in Idle(focus, countdown).
func New(cfg Config) *Machine {
	if cfg.Focus <= 0 {
		cfg.Focus = DefaultConfig().Focus
	}
	return &Machine{
		cfg:      cfg,
		kind:     models.SessionCountdown,
		duration: cfg.Focus,
	}
}

func (m *Machine) State() State {
	return State{
		Phase:     m.phase,
		Kind:      m.kind,
		TaskID:    m.taskID,
		Duration:  m.duration,
		Remaining: m.remaining,
		Elapsed:   m.elapsed,
		Violation: m.violation,
		Pending:   m.pending != nil,
	}
}

func (m *Machine) Config() Config { return m.cfg }

func (m *Machine) SetAutoStart(on bool) { m.cfg.AutoStart = on }

func (m *Machine) SetStrict(on bool) { m.cfg.Strict = on }

// settle cancels a pending deferral before a new user action.
func (m *Machine) settle() {
	if m.phase == PhaseAbandoned {
		m.phase = PhaseIdle
	}
	m.pending = nil
}

// SelectTask sets the countdown's target task. Zero clears it.
func (m *Machine) SelectTask(id int64) error {
	m.settle()
	if m.phase == PhaseRunning || m.phase == PhasePaused {
		return apperr.SessionBusy
	}
	m.taskID = id
	return nil
}

// SetKind switches between countdown and stopwatch while idle.
func (m *Machine) SetKind(kind models.SessionKind) error {
	m.settle()
	if !kind.IsValid() {
		return fmt.Errorf("%w: session kind %q", apperr.InvalidInput, kind)
	}
	if m.phase != PhaseIdle {
		return apperr.SessionBusy
	}
	m.kind = kind
	return nil
}

// SetDuration sets the countdown length while idle.
func (m *Machine) SetDuration(d time.Duration) error {
	m.settle()
	if m.phase != PhaseIdle {
		return apperr.SessionBusy
	}
	if d < MinCountdown || d > MaxCountdown {
		return fmt.Errorf("%w: %s", apperr.InvalidDuration, d)
	}
	m.duration = d
	return nil
}

// Longer and Shorter nudge the countdown by DurationStep, clamped to the allowed range.
func (m *Machine) Longer() error { return m.nudge(DurationStep) }

func (m *Machine) Shorter() error { return m.nudge(-DurationStep) }

func (m *Machine) nudge(step time.Duration) error {
	d := m.duration + step
	if d < MinCountdown {
		d = MinCountdown
	}
	if d > MaxCountdown {
		d = MaxCountdown
	}
	return m.SetDuration(d)
}

// Start begins a focus session from Idle.
func (m *Machine) Start() error {
	m.settle()
	if m.phase != PhaseIdle {
		return apperr.SessionBusy
	}
	if m.kind == models.SessionCountdown && m.taskID == 0 {
		return apperr.NoTargetTask
	}
	m.phase = PhaseRunning
	m.elapsed = 0
	m.remaining = 0
	if m.kind == models.SessionCountdown {
		m.remaining = m.duration
	}
	m.violation = false
	return nil
}

func (m *Machine) Pause() error {
	m.settle()
	if m.phase != PhaseRunning {
		return apperr.SessionNotRunning
	}
	m.phase = PhasePaused
	return nil
}

// Resume continues a paused session and clears any strict-mode violation.
func (m *Machine) Resume() error {
	m.settle()
	if m.phase != PhasePaused {
		return apperr.SessionNotPaused
	}
	m.phase = PhaseRunning
	m.violation = false
	return nil
}

// Hidden reports the app losing focus. In strict mode a running session is
// paused and flagged; it reports whether that happened.
func (m *Machine) Hidden() bool {
	if !m.cfg.Strict || m.phase != PhaseRunning {
		return false
	}
	m.phase = PhasePaused
	m.violation = true
	return true
}

// Finish ends a stopwatch session and emits its completion. Sessions of a
// minute or less are rejected and keep running.
func (m *Machine) Finish() (Completion, error) {
	m.settle()
	if m.phase != PhaseRunning && m.phase != PhasePaused {
		return Completion{}, apperr.SessionNotRunning
	}
	if m.kind != models.SessionStopwatch {
		return Completion{}, fmt.Errorf("%w: countdown sessions finish when the timer runs out", apperr.InvalidInput)
	}
	if m.elapsed <= time.Minute {
		return Completion{}, fmt.Errorf("%w: %s elapsed", apperr.SessionTooShort, m.elapsed)
	}
	c := Completion{Kind: m.kind, TaskID: m.taskID, Elapsed: m.elapsed}
	m.toIdle()
	return c, nil
}

// Abandon discards the running session. The machine shows Abandoned until the
// abandon delay has passed, then returns to Idle.
func (m *Machine) Abandon() error {
	m.settle()
	if m.phase != PhaseRunning && m.phase != PhasePaused {
		return apperr.SessionNotRunning
	}
	m.toIdle()
	m.phase = PhaseAbandoned
	m.schedule(pendingIdle, m.cfg.AbandonDelay)
	return nil
}

// SkipBreak ends a break early.
func (m *Machine) SkipBreak() error {
	m.settle()
	if m.phase != PhaseBreak {
		return apperr.SessionNotRunning
	}
	m.toIdle()
	return nil
}

// Cancel drops every pending deferral and returns to Idle, discarding progress.
func (m *Machine) Cancel() {
	m.pending = nil
	m.toIdle()
}

// Tick advances the timer by one TickInterval. It returns a completion when a
// countdown reaches zero.
func (m *Machine) Tick() (Completion, bool) {
	if m.pending != nil {
		m.pending.ticks--
		if m.pending.ticks <= 0 {
			action := m.pending.action
			m.pending = nil
			m.fire(action)
		}
		return Completion{}, false
	}

	switch m.phase {
	case PhaseRunning:
		m.elapsed += TickInterval
		if m.kind == models.SessionStopwatch {
			return Completion{}, false
		}
		m.remaining -= TickInterval
		if m.remaining > 0 {
			return Completion{}, false
		}
		c := Completion{Kind: m.kind, TaskID: m.taskID, Elapsed: m.duration}
		if m.cfg.AutoStart {
			m.phase = PhaseBreak
			m.remaining = m.cfg.Break
			m.elapsed = 0
		} else {
			m.toIdle()
		}
		return c, true

	case PhaseBreak:
		m.remaining -= TickInterval
		if m.remaining <= 0 {
			m.toIdle()
			if m.cfg.AutoStart {
				m.schedule(pendingAutoStart, m.cfg.AutoStartDelay)
			}
		}
	}
	return Completion{}, false
}

func (m *Machine) fire(action pendingAction) {
	switch action {
	case pendingIdle:
		m.phase = PhaseIdle
	case pendingAutoStart:
		// the target may have been cleared meanwhile; stay idle then
		_ = m.Start()
	}
}

func (m *Machine) schedule(action pendingAction, delay time.Duration) {
	ticks := int(delay / TickInterval)
	if ticks < 1 {
		ticks = 1
	}
	m.pending = &deferred{action: action, ticks: ticks}
}

func (m *Machine) toIdle() {
	m.phase = PhaseIdle
	m.elapsed = 0
	m.remaining = 0
	m.violation = false
}
