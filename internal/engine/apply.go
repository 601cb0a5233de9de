package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/flowstate/internal/apperr"
	"github.com/balkashynov/flowstate/internal/models"
	"github.com/balkashynov/flowstate/internal/progress"
	"github.com/balkashynov/flowstate/internal/reset"
	"github.com/balkashynov/flowstate/internal/rewards"
)

// Prices in focus dust and crystals.
const (
	BreakdownCost   = 15
	ProDustPrice    = 1000
	ProCrystalPrice = 1 // moonstones
)

// Env carries everything Apply needs from outside the snapshot.
type Env struct {
	Now time.Time
	IDs IDSource
}

// Today is Now as an ISO date.
func (e Env) Today() string {
	return e.Now.Format(reset.DateLayout)
}

// Outcome describes what an applied event produced.
type Outcome struct {
	Reward     *rewards.SessionReward
	Forged     *models.Crystal
	DustEarned int
	DustSpent  int
	Completed  []string // challenge ids that reached their target
	TierUps    []progress.TierUp
}

// Apply is the single reducer for user actions. It never mutates snap; on
// error the returned snapshot is snap itself and nothing changed.
func Apply(env Env, snap *models.UserData, ev Event) (*models.UserData, Outcome, error) {
	u := snap.Clone()
	var out Outcome

	var err error
	switch e := ev.(type) {
	case TaskAdded:
		err = addTask(env, u, e.Task)
	case TaskEdited:
		err = editTask(u, e.Task)
	case TaskDeleted:
		err = deleteTask(u, e.ID)
	case TaskToggled:
		err = toggleTask(u, e.ID, &out)
	case TodoAdded:
		err = addTodo(env, u, e.Todo)
	case TodoDeleted:
		err = deleteTodo(u, e.ID)
	case TodoToggled:
		err = toggleTodo(u, e.ID, &out)
	case SessionCompleted:
		err = completeSession(env, u, e, &out)
	case CrystalFused:
		err = fuse(env, u, e.Input, &out)
	case ChallengeClaimed:
		err = claim(u, e.ID, &out)
	case ProRedeemed:
		err = redeemPro(u, e.Method, &out)
	case BreakdownApplied:
		err = applyBreakdown(env, u, e, &out)
	case AppBlocked:
		err = blockApp(u, e.App)
	case AppUnblocked:
		err = unblockApp(u, e.App)
	default:
		err = fmt.Errorf("%w: unknown event %T", apperr.InvalidInput, ev)
	}
	if err != nil {
		return snap, Outcome{}, err
	}

	u.Achievements, out.TierUps = progress.CheckAchievements(u.Achievements, progress.MetricsOf(u))
	return u, out, nil
}

// advance feeds one progress event into the challenges.
func advance(u *models.UserData, ev progress.Event, out *Outcome) {
	var done []string
	u.Challenges, done = progress.AdvanceChallenges(ev, u.Challenges)
	out.Completed = append(out.Completed, done...)
}

func validTask(t models.Task) error {
	if err := models.Validate(t); err != nil {
		return fmt.Errorf("%w: %v", apperr.InvalidInput, err)
	}
	return nil
}

func addTask(env Env, u *models.UserData, t models.Task) error {
	t.Title = strings.TrimSpace(t.Title)
	if err := validTask(t); err != nil {
		return err
	}
	if t.ID == 0 {
		t.ID = env.IDs.NextID()
	}
	t.Completed = false
	u.Tasks = append(u.Tasks, t)
	return nil
}

// editTask replaces the editable fields; id and completion are kept.
func editTask(u *models.UserData, t models.Task) error {
	i := u.FindTask(t.ID)
	if i < 0 {
		return fmt.Errorf("%w: %d", apperr.TaskNotFound, t.ID)
	}
	t.Title = strings.TrimSpace(t.Title)
	if err := validTask(t); err != nil {
		return err
	}
	t.Completed = u.Tasks[i].Completed
	u.Tasks[i] = t
	return nil
}

func deleteTask(u *models.UserData, id int64) error {
	i := u.FindTask(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", apperr.TaskNotFound, id)
	}
	u.Tasks = append(u.Tasks[:i], u.Tasks[i+1:]...)
	return nil
}

// completed adjusts the lifetime counter for a toggle. Un-completing
// decrements the counter but never rolls back challenge progress.
func completed(u *models.UserData, id int64, done bool, out *Outcome) {
	if !done {
		if u.Stats.TotalTasksCompleted > 0 {
			u.Stats.TotalTasksCompleted--
		}
		return
	}
	u.Stats.TotalTasksCompleted++
	advance(u, progress.TaskCompleted(id), out)
}

func toggleTask(u *models.UserData, id int64, out *Outcome) error {
	i := u.FindTask(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", apperr.TaskNotFound, id)
	}
	u.Tasks[i].Completed = !u.Tasks[i].Completed
	completed(u, id, u.Tasks[i].Completed, out)
	return nil
}

func addTodo(env Env, u *models.UserData, t models.TodoItem) error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if err := models.Validate(t); err != nil {
		return fmt.Errorf("%w: %v", apperr.InvalidInput, err)
	}
	if t.ID == 0 {
		t.ID = env.IDs.NextID()
	}
	t.Completed = false
	u.Todos = append(u.Todos, t)
	return nil
}

func deleteTodo(u *models.UserData, id int64) error {
	i := u.FindTodo(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", apperr.TodoNotFound, id)
	}
	u.Todos = append(u.Todos[:i], u.Todos[i+1:]...)
	return nil
}

func toggleTodo(u *models.UserData, id int64, out *Outcome) error {
	i := u.FindTodo(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", apperr.TodoNotFound, id)
	}
	u.Todos[i].Completed = !u.Todos[i].Completed
	completed(u, id, u.Todos[i].Completed, out)
	return nil
}

func completeSession(env Env, u *models.UserData, e SessionCompleted, out *Outcome) error {
	c := e.Completion
	reward, err := rewards.ComputeSessionReward(c.Elapsed, c.Kind)
	if err != nil {
		return err
	}
	out.Reward = &reward

	u.Stats.FocusSessionsCompleted++
	u.Stats.FocusDust += reward.Dust
	out.DustEarned += reward.Dust
	advance(u, progress.SessionCompleted(reward.Minutes), out)

	if reward.HasCrystal() {
		crystal := models.Crystal{ID: env.IDs.NextID(), Type: reward.Crystal, ForgedAt: env.Now.UnixMilli()}
		u.Sanctuary = append([]models.Crystal{crystal}, u.Sanctuary...)
		out.Forged = &crystal
		advance(u, progress.CrystalCollected(crystal.Type), out)
	}
	return nil
}

func fuse(env Env, u *models.UserData, input models.CrystalType, out *Outcome) error {
	forged := models.Crystal{ID: env.IDs.NextID(), ForgedAt: env.Now.UnixMilli()}
	sanctuary, err := rewards.Fuse(u.Sanctuary, input, forged)
	if err != nil {
		return err
	}
	u.Sanctuary = sanctuary
	out.Forged = &sanctuary[0]
	advance(u, progress.CrystalFused(sanctuary[0].Type), out)
	return nil
}

func claim(u *models.UserData, id string, out *Outcome) error {
	challenges, stats, err := progress.Claim(id, u.Challenges, u.Stats)
	if err != nil {
		return err
	}
	out.DustEarned += stats.FocusDust - u.Stats.FocusDust
	u.Challenges, u.Stats = challenges, stats
	return nil
}

// spendDust is the only place dust is deducted.
func spendDust(u *models.UserData, cost int, out *Outcome) error {
	if u.Stats.FocusDust < cost {
		return fmt.Errorf("%w: have %d, need %d", apperr.InsufficientDust, u.Stats.FocusDust, cost)
	}
	u.Stats.FocusDust -= cost
	out.DustSpent += cost
	return nil
}

func redeemPro(u *models.UserData, method RedeemMethod, out *Outcome) error {
	if u.IsPro {
		return apperr.AlreadyPro
	}
	switch method {
	case RedeemCash:
		// payment is simulated
	case RedeemDust:
		if err := spendDust(u, ProDustPrice, out); err != nil {
			return err
		}
	case RedeemCrystal:
		if u.CountCrystals(models.CrystalMoonstone) < ProCrystalPrice {
			return apperr.InsufficientMoonstones
		}
		for i, c := range u.Sanctuary {
			if c.Type == models.CrystalMoonstone {
				u.Sanctuary = append(u.Sanctuary[:i], u.Sanctuary[i+1:]...)
				break
			}
		}
	default:
		return fmt.Errorf("%w: redeem method %q", apperr.InvalidInput, method)
	}
	u.IsPro = true
	return nil
}

func applyBreakdown(env Env, u *models.UserData, e BreakdownApplied, out *Outcome) error {
	if len(e.Items) == 0 {
		return fmt.Errorf("%w: no generated tasks", apperr.InvalidInput)
	}
	if err := spendDust(u, e.Cost, out); err != nil {
		return err
	}
	for _, it := range e.Items {
		todo := models.TodoItem{
			ID:       env.IDs.NextID(),
			Title:    it.Title,
			Emoji:    it.Emoji,
			Priority: it.Priority,
		}
		if err := models.Validate(todo); err != nil {
			return fmt.Errorf("%w: %v", apperr.GeneratorMalformed, err)
		}
		u.Todos = append(u.Todos, todo)
	}
	u.Stats.AIPlansGenerated++
	return nil
}

func normalizeApp(app string) string {
	return strings.ToLower(strings.TrimSpace(app))
}

func blockApp(u *models.UserData, app string) error {
	if !u.IsPro {
		return apperr.ProRequired
	}
	app = normalizeApp(app)
	if app == "" {
		return fmt.Errorf("%w: empty app name", apperr.InvalidInput)
	}
	for _, a := range u.BlockedApps {
		if a == app {
			return nil
		}
	}
	u.BlockedApps = append(u.BlockedApps, app)
	return nil
}

func unblockApp(u *models.UserData, app string) error {
	app = normalizeApp(app)
	for i, a := range u.BlockedApps {
		if a == app {
			u.BlockedApps = append(u.BlockedApps[:i], u.BlockedApps[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not blocked", apperr.InvalidInput, app)
}
