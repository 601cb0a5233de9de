package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/breakdown"
	"github.com/balkashynov/flowstate/internal/models"
	"github.com/balkashynov/flowstate/internal/progress"
	"github.com/balkashynov/flowstate/internal/reset"
	"github.com/balkashynov/flowstate/internal/store"
)

// Observer is notified of every dispatched event.
type Observer interface {
	Applied(ev Event, out Outcome)
	Rejected(ev Event, err error)
}

type nopObserver struct{}

func (nopObserver) Applied(Event, Outcome) {}
func (nopObserver) Rejected(Event, error)  {}

// Options wires a Service. Generator and Observer may be nil.
type Options struct {
	Repo      *store.Repository
	Generator breakdown.Generator
	Observer  Observer
	Logger    *zap.Logger
	IDs       IDSource
	Rand      *rand.Rand
	Clock     func() time.Time
}

// Resumed reports what normalising a loaded snapshot changed.
type Resumed struct {
	Reset   reset.Outcome
	TierUps []progress.TierUp
}

// Service holds the logged-in user's snapshot and persists it after every
// change. Its methods are safe for concurrent use.
type Service struct {
	repo  *store.Repository
	gen   breakdown.Generator
	obs   Observer
	log   *zap.Logger
	ids   IDSource
	rng   *rand.Rand
	clock func() time.Time

	mu      sync.Mutex
	user    string
	data    *models.UserData
	resumed Resumed
}

func NewService(opts Options) *Service {
	s := &Service{
		repo:  opts.Repo,
		gen:   opts.Generator,
		obs:   opts.Observer,
		log:   opts.Logger,
		ids:   opts.IDs,
		rng:   opts.Rand,
		clock: opts.Clock,
	}
	if s.obs == nil {
		s.obs = nopObserver{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	return s
}

// StoreDefaults are the migration defaults matching this engine's catalog. rng
// must be the one passed to NewService, which serialises access to it.
func StoreDefaults(clock func() time.Time, rng *rand.Rand) store.Defaults {
	return store.Defaults{
		Challenges: func() []models.Challenge {
			return reset.DefaultChallenges(clock().Format(reset.DateLayout), rng)
		},
		Achievements: progress.DefaultAchievements,
	}
}

func (s *Service) env() Env {
	return Env{Now: s.clock(), IDs: s.ids}
}

// Signup creates the account with starter content and logs it in.
func (s *Service) Signup(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", apperr.InvalidInput)
	}

	s.mu.Lock()
	data := NewUserData(s.env(), s.rng)
	s.mu.Unlock()

	if err := s.repo.Create(ctx, username, password, data); err != nil {
		s.report(nil, err)
		return err
	}
	if err := s.repo.SetCurrentUser(ctx, username); err != nil {
		return err
	}
	return s.open(ctx, username)
}

// Login checks credentials, stores the session pointer and resumes.
func (s *Service) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if err := s.repo.Authenticate(ctx, username, password); err != nil {
		s.report(nil, err)
		return err
	}
	if err := s.repo.SetCurrentUser(ctx, username); err != nil {
		return err
	}
	return s.open(ctx, username)
}

// Resume reopens the user named by the session pointer.
func (s *Service) Resume(ctx context.Context) error {
	username, err := s.repo.CurrentUser(ctx)
	if err != nil {
		return err
	}
	err = s.open(ctx, username)
	if errors.Is(err, apperr.UserNotFound) {
		// pointer to a deleted account
		_ = s.repo.ClearCurrentUser(ctx)
		return apperr.NotLoggedIn
	}
	return err
}

// open loads, migrates and reconciles the snapshot before anything else can
// touch it, then saves the result. The lock covers Load because migration
// defaults draw from s.rng.
func (s *Service) open(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.repo.Load(ctx, username)
	if err != nil {
		return err
	}

	data, o := reset.Reconcile(data, s.clock(), s.rng)
	var ups []progress.TierUp
	data.Achievements, ups = progress.CheckAchievements(data.Achievements, progress.MetricsOf(data))

	if err := s.repo.Save(ctx, username, data); err != nil {
		return err
	}
	s.user, s.data = username, data
	s.resumed = Resumed{Reset: o, TierUps: ups}

	s.log.Debug("session resumed",
		zap.String("user", username),
		zap.Int("streak", data.Streak.Current),
		zap.Bool("daily_regenerated", o.DailyRegenerated),
		zap.Int("weekly_rolled", o.WeeklyRolled),
	)
	return nil
}

// Logout clears the session pointer and drops the in-memory snapshot. The
// last saved state is kept as is.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user, s.data = "", nil
	s.resumed = Resumed{}
	s.mu.Unlock()
	return s.repo.ClearCurrentUser(ctx)
}

func (s *Service) User() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// LastResume reports what the most recent login or resume changed.
func (s *Service) LastResume() Resumed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumed
}

// Snapshot returns a copy of the live snapshot.
func (s *Service) Snapshot() (*models.UserData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, apperr.NotLoggedIn
	}
	return s.data.Clone(), nil
}

// Dispatch applies ev and saves the new snapshot. A rejected event leaves the
// snapshot untouched.
func (s *Service) Dispatch(ctx context.Context, ev Event) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(ctx, ev)
}

func (s *Service) dispatch(ctx context.Context, ev Event) (Outcome, error) {
	if s.data == nil {
		return Outcome{}, apperr.NotLoggedIn
	}

	next, out, err := Apply(s.env(), s.data, ev)
	if err != nil {
		s.report(ev, err)
		return Outcome{}, err
	}
	if err := s.repo.Save(ctx, s.user, next); err != nil {
		return Outcome{}, err
	}
	s.data = next
	s.obs.Applied(ev, out)

	for _, up := range out.TierUps {
		s.log.Info("achievement tier up", zap.String("id", up.ID), zap.Int("level", up.Level))
	}
	return out, nil
}

// Breakdown asks the generator for to-dos and applies them, charging
// BreakdownCost dust. The balance is checked before the call and again when
// the result is applied.
func (s *Service) Breakdown(ctx context.Context, goal string) (Outcome, []models.GeneratedTask, error) {
	goal = strings.TrimSpace(goal)
	ev := BreakdownApplied{Cost: BreakdownCost}
	if goal == "" {
		err := fmt.Errorf("%w: goal is empty", apperr.InvalidInput)
		s.report(ev, err)
		return Outcome{}, nil, err
	}

	snap, err := s.Snapshot()
	if err != nil {
		return Outcome{}, nil, err
	}
	if snap.Stats.FocusDust < BreakdownCost {
		err := fmt.Errorf("%w: a breakdown costs %d dust, you have %d", apperr.InsufficientDust, BreakdownCost, snap.Stats.FocusDust)
		s.report(ev, err)
		return Outcome{}, nil, err
	}
	if s.gen == nil {
		err := fmt.Errorf("%w: no generator configured", apperr.GeneratorFailed)
		s.report(ev, err)
		return Outcome{}, nil, err
	}

	items, err := s.gen.Generate(ctx, goal)
	if err == nil {
		err = breakdown.Validate(items)
	}
	if err != nil {
		if _, ok := apperr.As(err); !ok {
			err = fmt.Errorf("%w: %v", apperr.GeneratorFailed, err)
		}
		s.report(ev, err)
		return Outcome{}, nil, err
	}

	ev.Items = items
	out, err := s.Dispatch(ctx, ev)
	if err != nil {
		return Outcome{}, nil, err
	}
	return out, items, nil
}

// RequirePro rejects Pro-only features for free accounts.
func (s *Service) RequirePro() error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	if !snap.IsPro {
		return apperr.ProRequired
	}
	return nil
}

// report logs a rejected action and tells the observer.
func (s *Service) report(ev Event, err error) {
	name := "auth"
	if ev != nil {
		name = ev.Name()
	}
	d, ok := apperr.As(err)
	switch {
	case ok && (d.Kind == apperr.KindPrecondition || d.Kind == apperr.KindAuth || d.Kind == apperr.KindNotFound):
		s.log.Info("action rejected", zap.String("event", name), zap.String("code", d.Code), zap.Error(err))
	case ok && d.Kind == apperr.KindExternal:
		s.log.Warn("external dependency failed", zap.String("event", name), zap.String("code", d.Code), zap.Error(err))
	default:
		s.log.Error("action failed", zap.String("event", name), zap.Error(err))
	}
	if ev != nil {
		s.obs.Rejected(ev, err)
	}
}
