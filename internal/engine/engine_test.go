package engine

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/models"
	"github.com/balkashynov/flowstate/internal/progress"
	"github.com/balkashynov/flowstate/internal/session"
	"github.com/balkashynov/flowstate/internal/store"
)

type counterIDs struct{ n int64 }

func (c *counterIDs) NextID() int64 {
	c.n++
	return c.n
}

var monday = time.Date(2024, 1, 8, 10, 30, 0, 0, time.UTC)

func testEnv() Env {
	return Env{Now: monday, IDs: &counterIDs{n: 1000}}
}

func crystals(types ...models.CrystalType) []models.Crystal {
	out := make([]models.Crystal, len(types))
	for i, t := range types {
		out[i] = models.Crystal{ID: int64(i + 1), Type: t, ForgedAt: int64(i)}
	}
	return out
}

func baseSnapshot() *models.UserData {
	return &models.UserData{
		Tasks: []models.Task{
			{ID: 1, Title: "Write", Time: "10:00", Duration: 60, Category: models.CategoryWork},
		},
		Achievements: progress.DefaultAchievements(),
		Challenges: []models.Challenge{
			{ID: "focus", Frequency: models.FrequencyDaily, Type: models.ChallengeFocusMinutes, Target: 45, RewardDust: 25},
			{ID: "tasks", Frequency: models.FrequencyDaily, Type: models.ChallengeTaskCount, Target: 1, RewardDust: 10},
			{ID: "citrine", Frequency: models.FrequencyDaily, Type: models.ChallengeCollectCrystal, Target: 1, TargetDetail: "citrine", RewardDust: 15},
		},
	}
}

func findChallenge(t *testing.T, u *models.UserData, id string) models.Challenge {
	t.Helper()
	i := u.FindChallenge(id)
	if i < 0 {
		t.Fatalf("challenge %s missing", id)
	}
	return u.Challenges[i]
}

func TestApplyCountdownSession(t *testing.T) {
	snap := baseSnapshot()
	ev := SessionCompleted{Completion: session.Completion{Kind: models.SessionCountdown, TaskID: 1, Elapsed: 65 * time.Minute}}

	u, out, err := Apply(testEnv(), snap, ev)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Forged == nil || out.Forged.Type != models.CrystalCitrine {
		t.Fatalf("forged=%+v, want citrine", out.Forged)
	}
	if u.Stats.FocusDust != 26 || out.DustEarned != 26 {
		t.Fatalf("dust=%d earned=%d, want 26", u.Stats.FocusDust, out.DustEarned)
	}
	if u.Stats.FocusSessionsCompleted != 1 || len(u.Sanctuary) != 1 {
		t.Fatalf("stats=%+v sanctuary=%d", u.Stats, len(u.Sanctuary))
	}
	if c := findChallenge(t, u, "focus"); !c.Completed || c.CurrentProgress != 45 {
		t.Fatalf("focus challenge=%+v", c)
	}
	if c := findChallenge(t, u, "citrine"); !c.Completed {
		t.Fatalf("collect challenge not completed")
	}
	if len(snap.Sanctuary) != 0 || snap.Stats.FocusDust != 0 {
		t.Fatalf("input snapshot mutated")
	}
}

func TestApplyStopwatchSessionNoCrystal(t *testing.T) {
	ev := SessionCompleted{Completion: session.Completion{Kind: models.SessionStopwatch, Elapsed: 200 * time.Minute}}
	u, out, err := Apply(testEnv(), baseSnapshot(), ev)
	if err != nil {
		t.Fatal(err)
	}
	if out.Forged != nil || len(u.Sanctuary) != 0 {
		t.Fatalf("stopwatch session forged a crystal")
	}
	if u.Stats.FocusDust != 40 {
		t.Fatalf("dust=%d, want 40", u.Stats.FocusDust)
	}
}

func TestApplyTrivialSessionRejected(t *testing.T) {
	snap := baseSnapshot()
	ev := SessionCompleted{Completion: session.Completion{Kind: models.SessionCountdown, Elapsed: 30 * time.Second}}
	u, _, err := Apply(testEnv(), snap, ev)
	if !errors.Is(err, apperr.SessionTooShort) {
		t.Fatalf("err=%v, want SessionTooShort", err)
	}
	if u != snap {
		t.Fatalf("rejected event returned a new snapshot")
	}
}

func TestApplyFusion(t *testing.T) {
	snap := baseSnapshot()
	snap.Sanctuary = crystals(models.CrystalAmethyst, models.CrystalAmethyst, models.CrystalAmethyst)

	u, out, err := Apply(testEnv(), snap, CrystalFused{Input: models.CrystalAmethyst})
	if err != nil {
		t.Fatalf("fuse: %v", err)
	}
	if got := u.CountCrystals(models.CrystalAmethyst); got != 0 {
		t.Fatalf("amethyst=%d, want 0", got)
	}
	if got := u.CountCrystals(models.CrystalCitrine); got != 1 {
		t.Fatalf("citrine=%d, want 1", got)
	}
	if out.Forged.ForgedAt != monday.UnixMilli() {
		t.Fatalf("forgedAt=%d", out.Forged.ForgedAt)
	}
	if c := findChallenge(t, u, "citrine"); !c.Completed {
		t.Fatalf("fusing into citrine did not advance the collect challenge")
	}

	again, _, err := Apply(testEnv(), u, CrystalFused{Input: models.CrystalAmethyst})
	if !errors.Is(err, apperr.InsufficientCrystals) {
		t.Fatalf("second fuse err=%v", err)
	}
	if again != u {
		t.Fatalf("rejected fuse changed snapshot")
	}
}

func TestApplyToggleKeepsChallengeProgress(t *testing.T) {
	u, out, err := Apply(testEnv(), baseSnapshot(), TaskToggled{ID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if u.Stats.TotalTasksCompleted != 1 || len(out.Completed) != 1 {
		t.Fatalf("total=%d completed=%v", u.Stats.TotalTasksCompleted, out.Completed)
	}

	u, _, err = Apply(testEnv(), u, TaskToggled{ID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if u.Stats.TotalTasksCompleted != 0 || u.Tasks[0].Completed {
		t.Fatalf("un-complete: total=%d completed=%v", u.Stats.TotalTasksCompleted, u.Tasks[0].Completed)
	}
	if c := findChallenge(t, u, "tasks"); c.CurrentProgress != 1 || !c.Completed {
		t.Fatalf("challenge rolled back: %+v", c)
	}

	if _, _, err := Apply(testEnv(), u, TaskToggled{ID: 99}); !errors.Is(err, apperr.TaskNotFound) {
		t.Fatalf("unknown task err=%v", err)
	}
}

func TestApplyTodoCountsAsTask(t *testing.T) {
	snap := baseSnapshot()
	u, _, err := Apply(testEnv(), snap, TodoAdded{Todo: models.TodoItem{Title: "  Call mum  ", Emoji: "📞"}})
	if err != nil {
		t.Fatal(err)
	}
	todo := u.Todos[0]
	if todo.Title != "Call mum" || todo.Priority != models.PriorityMedium || todo.ID == 0 {
		t.Fatalf("todo=%+v", todo)
	}
	u, _, err = Apply(testEnv(), u, TodoToggled{ID: todo.ID})
	if err != nil {
		t.Fatal(err)
	}
	if u.Stats.TotalTasksCompleted != 1 || !findChallenge(t, u, "tasks").Completed {
		t.Fatalf("todo completion not counted")
	}
}

func TestApplyTaskValidation(t *testing.T) {
	bad := []models.Task{
		{Title: "", Time: "09:00", Duration: 30, Category: models.CategoryWork},
		{Title: "x", Time: "9am", Duration: 30, Category: models.CategoryWork},
		{Title: "x", Time: "09:00", Duration: 0, Category: models.CategoryWork},
		{Title: "x", Time: "09:00", Duration: 30, Category: "chores"},
		{Title: "x", Emoji: "ab", Time: "09:00", Duration: 30, Category: models.CategoryWork},
	}
	for _, task := range bad {
		if _, _, err := Apply(testEnv(), baseSnapshot(), TaskAdded{Task: task}); !errors.Is(err, apperr.InvalidInput) {
			t.Fatalf("TaskAdded(%+v) err=%v, want InvalidInput", task, err)
		}
	}

	u, _, err := Apply(testEnv(), baseSnapshot(), TaskEdited{Task: models.Task{ID: 1, Title: "Rewrite", Time: "11:00", Duration: 30, Category: models.CategoryWork}})
	if err != nil {
		t.Fatal(err)
	}
	if u.Tasks[0].Title != "Rewrite" || u.Tasks[0].Time != "11:00" {
		t.Fatalf("edit not applied: %+v", u.Tasks[0])
	}
	u, _, err = Apply(testEnv(), u, TaskDeleted{ID: 1})
	if err != nil || len(u.Tasks) != 0 {
		t.Fatalf("delete: %v, %d tasks left", err, len(u.Tasks))
	}
}

func TestApplyClaimOnce(t *testing.T) {
	snap := baseSnapshot()
	snap.Stats.FocusDust = 3
	u, _, _ := Apply(testEnv(), snap, TaskToggled{ID: 1})

	u, out, err := Apply(testEnv(), u, ChallengeClaimed{ID: "tasks"})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if u.Stats.FocusDust != 13 || out.DustEarned != 10 {
		t.Fatalf("dust=%d earned=%d", u.Stats.FocusDust, out.DustEarned)
	}

	again, _, err := Apply(testEnv(), u, ChallengeClaimed{ID: "tasks"})
	if !errors.Is(err, apperr.ChallengeNotClaimable) {
		t.Fatalf("second claim err=%v", err)
	}
	if again.Stats.FocusDust != 13 {
		t.Fatalf("dust awarded twice")
	}
}

func TestApplyRedeemPro(t *testing.T) {
	tests := []struct {
		name    string
		method  RedeemMethod
		setup   func(*models.UserData)
		wantErr error
		check   func(*testing.T, *models.UserData)
	}{
		{
			name:   "cash",
			method: RedeemCash,
		},
		{
			name:   "moonstone",
			method: RedeemCrystal,
			setup: func(u *models.UserData) {
				u.Sanctuary = crystals(models.CrystalMoonstone, models.CrystalRuby)
			},
			check: func(t *testing.T, u *models.UserData) {
				if u.CountCrystals(models.CrystalMoonstone) != 0 || len(u.Sanctuary) != 1 {
					t.Fatalf("moonstone not consumed: %+v", u.Sanctuary)
				}
			},
		},
		{
			name:    "no moonstone",
			method:  RedeemCrystal,
			wantErr: apperr.InsufficientMoonstones,
		},
		{
			name:   "dust",
			method: RedeemDust,
			setup:  func(u *models.UserData) { u.Stats.FocusDust = 1200 },
			check: func(t *testing.T, u *models.UserData) {
				if u.Stats.FocusDust != 200 {
					t.Fatalf("dust=%d, want 200", u.Stats.FocusDust)
				}
			},
		},
		{
			name:    "dust short",
			method:  RedeemDust,
			setup:   func(u *models.UserData) { u.Stats.FocusDust = 999 },
			wantErr: apperr.InsufficientDust,
		},
		{
			name:    "already pro",
			method:  RedeemCash,
			setup:   func(u *models.UserData) { u.IsPro = true },
			wantErr: apperr.AlreadyPro,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot()
			if tt.setup != nil {
				tt.setup(snap)
			}
			u, _, err := Apply(testEnv(), snap, ProRedeemed{Method: tt.method})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err=%v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !u.IsPro {
				t.Fatalf("not pro after redeem")
			}
			if tt.check != nil {
				tt.check(t, u)
			}
		})
	}
}

func TestApplyBreakdownChargesAtomically(t *testing.T) {
	items := []models.GeneratedTask{
		{Title: "Outline", Emoji: "📝", Priority: models.PriorityHigh},
		{Title: "Draft", Emoji: "✍", Priority: models.PriorityMedium},
		{Title: "Review", Emoji: "🔍", Priority: models.PriorityLow},
	}
	snap := baseSnapshot()
	snap.Stats.FocusDust = 14

	if _, _, err := Apply(testEnv(), snap, BreakdownApplied{Items: items, Cost: BreakdownCost}); !errors.Is(err, apperr.InsufficientDust) {
		t.Fatalf("err=%v, want InsufficientDust", err)
	}

	snap.Stats.FocusDust = 20
	u, out, err := Apply(testEnv(), snap, BreakdownApplied{Items: items, Cost: BreakdownCost})
	if err != nil {
		t.Fatal(err)
	}
	if u.Stats.FocusDust != 5 || out.DustSpent != 15 || len(u.Todos) != 3 || u.Stats.AIPlansGenerated != 1 {
		t.Fatalf("dust=%d spent=%d todos=%d plans=%d", u.Stats.FocusDust, out.DustSpent, len(u.Todos), u.Stats.AIPlansGenerated)
	}
	if len(out.TierUps) != 1 || out.TierUps[0].ID != "ai-architect" {
		t.Fatalf("tierUps=%v", out.TierUps)
	}
}

func TestApplyBlockedApps(t *testing.T) {
	snap := baseSnapshot()
	if _, _, err := Apply(testEnv(), snap, AppBlocked{App: "Twitter"}); !errors.Is(err, apperr.ProRequired) {
		t.Fatalf("free block err=%v", err)
	}
	snap.IsPro = true
	u, _, err := Apply(testEnv(), snap, AppBlocked{App: " Twitter "})
	if err != nil {
		t.Fatal(err)
	}
	u, _, _ = Apply(testEnv(), u, AppBlocked{App: "twitter"})
	if len(u.BlockedApps) != 1 || u.BlockedApps[0] != "twitter" {
		t.Fatalf("blocked=%v", u.BlockedApps)
	}
	u, _, err = Apply(testEnv(), u, AppUnblocked{App: "TWITTER"})
	if err != nil || len(u.BlockedApps) != 0 {
		t.Fatalf("unblock: %v %v", err, u.BlockedApps)
	}
}

func TestCurrentTaskAndGreeting(t *testing.T) {
	tasks := baseSnapshot().Tasks
	if task, ok := CurrentTask(tasks, monday); !ok || task.ID != 1 {
		t.Fatalf("current task at 10:30 = %+v,%v", task, ok)
	}
	if _, ok := CurrentTask(tasks, monday.Add(time.Hour)); ok {
		t.Fatalf("task window is half-open")
	}
	if g := Greeting(monday); g != "Morning" {
		t.Fatalf("greeting=%s", g)
	}
	if g := Greeting(monday.Add(9 * time.Hour)); g != "Evening" {
		t.Fatalf("greeting=%s", g)
	}
}

type fakeGenerator struct {
	items []models.GeneratedTask
	err   error
	calls int
}

func (f *fakeGenerator) Generate(context.Context, string) ([]models.GeneratedTask, error) {
	f.calls++
	return f.items, f.err
}

type recordingObserver struct {
	applied  []string
	rejected []string
}

func (r *recordingObserver) Applied(ev Event, _ Outcome) { r.applied = append(r.applied, ev.Name()) }
func (r *recordingObserver) Rejected(ev Event, _ error)  { r.rejected = append(r.rejected, ev.Name()) }

type harness struct {
	svc *Service
	kv  *store.Memory
	gen *fakeGenerator
	obs *recordingObserver
	now time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{kv: store.NewMemory(), gen: &fakeGenerator{}, obs: &recordingObserver{}, now: monday}
	clock := func() time.Time { return h.now }
	rng := rand.New(rand.NewSource(1))
	log := zaptest.NewLogger(t)
	repo := store.NewRepository(h.kv, StoreDefaults(clock, rng), log)
	h.svc = NewService(Options{
		Repo:      repo,
		Generator: h.gen,
		Observer:  h.obs,
		Logger:    log,
		IDs:       &counterIDs{},
		Rand:      rng,
		Clock:     clock,
	})
	return h
}

func TestServiceSignupAndResume(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	if _, err := h.svc.Dispatch(ctx, TaskToggled{ID: 1}); !errors.Is(err, apperr.NotLoggedIn) {
		t.Fatalf("dispatch before login err=%v", err)
	}
	if err := h.svc.Signup(ctx, "ada", "pw"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	snap, _ := h.svc.Snapshot()
	if len(snap.Tasks) != 4 || len(snap.Todos) != 2 || len(snap.Achievements) != len(progress.Catalog) {
		t.Fatalf("starter content missing: %d tasks %d todos", len(snap.Tasks), len(snap.Todos))
	}
	if len(snap.Challenges) != 6 {
		t.Fatalf("challenges=%d, want 3 daily + 2 weekly + 1 infinite", len(snap.Challenges))
	}
	if snap.Streak.Current != 1 || snap.Streak.LastLoginDate != "2024-01-08" {
		t.Fatalf("streak=%+v", snap.Streak)
	}

	if _, err := h.svc.Dispatch(ctx, TaskToggled{ID: snap.Tasks[0].ID}); err != nil {
		t.Fatal(err)
	}

	// a fresh process resumes from the session pointer
	repo := store.NewRepository(h.kv, StoreDefaults(time.Now, rand.New(rand.NewSource(2))), zaptest.NewLogger(t))
	svc := NewService(Options{Repo: repo, IDs: &counterIDs{n: 500}, Clock: func() time.Time { return monday }})
	if err := svc.Resume(ctx); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	resumed, _ := svc.Snapshot()
	if resumed.Stats.TotalTasksCompleted != 1 || svc.User() != "ada" {
		t.Fatalf("resumed snapshot stale: %+v", resumed.Stats)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if err := svc.Resume(ctx); !errors.Is(err, apperr.NotLoggedIn) {
		t.Fatalf("resume after logout err=%v", err)
	}
	if err := svc.Login(ctx, "ada", "nope"); !errors.Is(err, apperr.InvalidCredentials) {
		t.Fatalf("bad login err=%v", err)
	}
	if err := svc.Signup(ctx, "ada", "pw"); !errors.Is(err, apperr.UsernameTaken) {
		t.Fatalf("duplicate signup err=%v", err)
	}
}

func TestServiceStreakBreaksAfterGap(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	if err := h.svc.Signup(ctx, "ada", "pw"); err != nil {
		t.Fatal(err)
	}
	h.now = monday.AddDate(0, 0, 1)
	_ = h.svc.Resume(ctx)
	h.now = monday.AddDate(0, 0, 2)
	_ = h.svc.Resume(ctx)
	snap, _ := h.svc.Snapshot()
	if snap.Streak.Current != 3 || snap.Streak.Longest != 3 {
		t.Fatalf("streak=%+v, want 3/3", snap.Streak)
	}

	h.now = monday.AddDate(0, 0, 5)
	if err := h.svc.Resume(ctx); err != nil {
		t.Fatal(err)
	}
	snap, _ = h.svc.Snapshot()
	if snap.Streak.Current != 1 || snap.Streak.Longest != 3 {
		t.Fatalf("streak after gap=%+v, want 1/3", snap.Streak)
	}
	if !h.svc.LastResume().Reset.DailyRegenerated {
		t.Fatalf("daily set not regenerated on a new day")
	}
}

func TestServiceLoadsOldSnapshot(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	hash, _ := store.HashPassword("pw")
	old := `{"password":"` + hash + `","data":{"tasks":[],"todos":[],"achievements":[],"stats":{"totalTasksCompleted":2,"focusSessionsCompleted":0,"aiPlansGenerated":0}}}`
	_ = h.kv.Put(ctx, "users:legacy", []byte(old))

	if err := h.svc.Login(ctx, "legacy", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	snap, _ := h.svc.Snapshot()
	if snap.BlockedApps == nil || snap.Stats.FocusDust != 0 || snap.Stats.TotalTasksCompleted != 2 {
		t.Fatalf("migration defaults missing: %+v", snap)
	}
	if len(snap.Achievements) != len(progress.Catalog) {
		t.Fatalf("achievements=%d", len(snap.Achievements))
	}
}

func TestServiceConcurrentMigrations(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	hash, _ := store.HashPassword("pw")
	names := []string{"a", "b", "c", "d", "e", "f"}
	for _, name := range names {
		// no challenges stored, so loading draws fresh ids from the shared rng
		old := `{"password":"` + hash + `","data":{"tasks":[],"todos":[],"stats":{}}}`
		_ = h.kv.Put(ctx, "users:"+name, []byte(old))
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(names))
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			errs <- h.svc.Login(ctx, name, "pw")
		}(name)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
	}

	repo := store.NewRepository(h.kv, StoreDefaults(time.Now, rand.New(rand.NewSource(3))), zaptest.NewLogger(t))
	seen := map[string]bool{}
	for _, name := range names {
		data, err := repo.Load(ctx, name)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range data.Challenges {
			if c.Frequency == models.FrequencyDaily {
				continue
			}
			if seen[c.ID] {
				t.Fatalf("challenge id %s handed out twice", c.ID)
			}
			seen[c.ID] = true
		}
	}
}

func TestServiceAbandonedSessionEarnsNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_ = h.svc.Signup(ctx, "ada", "pw")
	before, _ := h.svc.Snapshot()

	m := session.New(session.DefaultConfig())
	_ = m.SelectTask(before.Tasks[0].ID)
	_ = m.SetDuration(60 * time.Minute)
	_ = m.Start()
	for i := 0; i < 40*60; i++ {
		if c, ok := m.Tick(); ok {
			if _, err := h.svc.Dispatch(ctx, SessionCompleted{Completion: c}); err != nil {
				t.Fatal(err)
			}
		}
	}
	_ = m.Abandon()
	for i := 0; i < 120*60; i++ {
		if _, ok := m.Tick(); ok {
			t.Fatalf("abandoned session completed")
		}
	}

	after, _ := h.svc.Snapshot()
	if len(after.Sanctuary) != 0 || after.Stats.FocusDust != 0 || after.Stats.FocusSessionsCompleted != 0 {
		t.Fatalf("abandoned session was rewarded: %+v", after.Stats)
	}
	for i, c := range after.Challenges {
		if c.CurrentProgress != before.Challenges[i].CurrentProgress {
			t.Fatalf("challenge %s progressed", c.ID)
		}
	}
}

func TestServiceBreakdown(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_ = h.svc.Signup(ctx, "ada", "pw")

	if _, _, err := h.svc.Breakdown(ctx, "launch"); !errors.Is(err, apperr.InsufficientDust) {
		t.Fatalf("broke breakdown err=%v", err)
	}
	if h.gen.calls != 0 {
		t.Fatalf("generator called without enough dust")
	}

	// earn dust with a stopwatch session
	c := session.Completion{Kind: models.SessionStopwatch, Elapsed: 100 * time.Minute}
	if _, err := h.svc.Dispatch(ctx, SessionCompleted{Completion: c}); err != nil {
		t.Fatal(err)
	}

	h.gen.err = errors.New("connection reset")
	if _, _, err := h.svc.Breakdown(ctx, "launch"); !errors.Is(err, apperr.GeneratorFailed) {
		t.Fatalf("failed generator err=%v", err)
	}
	h.gen.err = nil
	h.gen.items = []models.GeneratedTask{{Title: "only one", Emoji: "1", Priority: models.PriorityLow}}
	if _, _, err := h.svc.Breakdown(ctx, "launch"); !errors.Is(err, apperr.GeneratorMalformed) {
		t.Fatalf("malformed generator err=%v", err)
	}
	snap, _ := h.svc.Snapshot()
	if snap.Stats.FocusDust != 20 || len(snap.Todos) != 2 {
		t.Fatalf("failed breakdown changed state: dust=%d todos=%d", snap.Stats.FocusDust, len(snap.Todos))
	}

	h.gen.items = []models.GeneratedTask{
		{Title: "Outline", Emoji: "📝", Priority: models.PriorityHigh},
		{Title: "Draft", Emoji: "✍", Priority: models.PriorityMedium},
		{Title: "Review", Emoji: "🔍", Priority: models.PriorityLow},
	}
	out, items, err := h.svc.Breakdown(ctx, "launch")
	if err != nil {
		t.Fatalf("Breakdown: %v", err)
	}
	snap, _ = h.svc.Snapshot()
	if len(items) != 3 || out.DustSpent != BreakdownCost || snap.Stats.FocusDust != 5 || len(snap.Todos) != 5 {
		t.Fatalf("dust=%d todos=%d spent=%d", snap.Stats.FocusDust, len(snap.Todos), out.DustSpent)
	}
	if len(h.obs.rejected) != 3 {
		t.Fatalf("rejected=%v, want 3 breakdown rejections", h.obs.rejected)
	}
}
