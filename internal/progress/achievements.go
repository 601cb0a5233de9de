package progress

import (
	"github.com/balkashynov/flowstate/internal/models"
)

// FocusMinutesPerSession converts a session count into the focus-minutes estimate.
const FocusMinutesPerSession = 25

// Metric is the fixed source an achievement ladder tracks.
type Metric int

const (
	MetricTasksCompleted Metric = iota + 1
	MetricStreak
	MetricFocusMinutes
	MetricSanctuarySize
	MetricAIPlans
)

// Definition describes one ladder in the catalog.
type Definition struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Metric      Metric
	Base        int // threshold for the first tier-up
}

// Catalog is the fixed achievement list every user carries.
var Catalog = []Definition{
	{ID: "task-master", Title: "Task Master", Description: "Complete tasks", Icon: "trophy", Metric: MetricTasksCompleted, Base: 5},
	{ID: "streak-keeper", Title: "Streak Keeper", Description: "Log in on consecutive days", Icon: "zap", Metric: MetricStreak, Base: 3},
	{ID: "deep-worker", Title: "Deep Worker", Description: "Accumulate focus minutes", Icon: "brain", Metric: MetricFocusMinutes, Base: 60},
	{ID: "collector", Title: "Crystal Collector", Description: "Grow your sanctuary", Icon: "star", Metric: MetricSanctuarySize, Base: 5},
	{ID: "ai-architect", Title: "AI Architect", Description: "Generate plans with AI", Icon: "rocket", Metric: MetricAIPlans, Base: 1},
}

// LegacyIDs maps achievement ids stored by the browser client to the catalog
// entry that now tracks the same metric.
var LegacyIDs = map[string]string{
	"first-step":   "task-master",
	"momentum":     "task-master",
	"focus-novice": "deep-worker",
	"planner":      "ai-architect",
}

func definitionFor(id string) (Definition, bool) {
	for _, d := range Catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// NewAchievement returns the level-1 record for d.
func NewAchievement(d Definition) models.Achievement {
	return models.Achievement{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Icon:        d.Icon,
		Tier:        models.TierBronze,
		MaxProgress: d.Base,
		Level:       1,
	}
}

// DefaultAchievements returns a fresh copy of the whole catalog.
func DefaultAchievements() []models.Achievement {
	out := make([]models.Achievement, 0, len(Catalog))
	for _, d := range Catalog {
		out = append(out, NewAchievement(d))
	}
	return out
}

// Metrics is the read-only view achievements are computed from.
type Metrics struct {
	TasksCompleted    int
	Streak            int
	SessionsCompleted int
	SanctuarySize     int
	AIPlans           int
}

// MetricsOf extracts Metrics from a snapshot.
func MetricsOf(u *models.UserData) Metrics {
	return Metrics{
		TasksCompleted:    u.Stats.TotalTasksCompleted,
		Streak:            u.Streak.Current,
		SessionsCompleted: u.Stats.FocusSessionsCompleted,
		SanctuarySize:     len(u.Sanctuary),
		AIPlans:           u.Stats.AIPlansGenerated,
	}
}

func (m Metrics) value(metric Metric) int {
	switch metric {
	case MetricTasksCompleted:
		return m.TasksCompleted
	case MetricStreak:
		return m.Streak
	case MetricFocusMinutes:
		return m.SessionsCompleted * FocusMinutesPerSession
	case MetricSanctuarySize:
		return m.SanctuarySize
	case MetricAIPlans:
		return m.AIPlans
	default:
		return 0
	}
}

// TierUp records one level gained.
type TierUp struct {
	ID    string
	Title string
	Level int
	Tier  models.AchievementTier
}

// CheckAchievements recomputes every catalog achievement from m. Each achievement
// gains at most one level per call; when it does, MaxProgress doubles and Progress
// restarts at 0. Achievements outside the catalog are returned untouched.
func CheckAchievements(achievements []models.Achievement, m Metrics) ([]models.Achievement, []TierUp) {
	out := make([]models.Achievement, len(achievements))
	copy(out, achievements)

	var ups []TierUp
	for i := range out {
		a := &out[i]
		def, ok := definitionFor(a.ID)
		if !ok {
			continue
		}
		metric := m.value(def.Metric)
		if metric >= a.MaxProgress && a.Level < models.MaxAchievementLevel {
			a.Level++
			a.MaxProgress *= 2
			a.Progress = 0
			a.Tier = models.TierForLevel(a.Level)
			a.Unlocked = true
			ups = append(ups, TierUp{ID: a.ID, Title: a.Title, Level: a.Level, Tier: a.Tier})
			continue
		}
		a.Progress = metric
	}
	return out, ups
}
