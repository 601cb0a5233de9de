package engine

import (
	"math/rand"

	"github.com/balkashynov/flowstate/internal/models"
	"github.com/balkashynov/flowstate/internal/progress"
	"github.com/balkashynov/flowstate/internal/reset"
)

var starterTasks = []models.Task{
	{Title: "Morning meditation", Emoji: "🧘", Time: "08:00", Duration: 15, Color: "#B4A7D6", Category: models.CategoryWellness},
	{Title: "Check emails", Emoji: "📧", Time: "09:00", Duration: 30, Color: "#FFB4A2", Category: models.CategoryWork},
	{Title: "Deep work session", Emoji: "💻", Time: "10:00", Duration: 90, Color: "#A8D8EA", Category: models.CategoryWork},
	{Title: "Lunch break", Emoji: "🍱", Time: "12:30", Duration: 45, Color: "#FFCF96", Category: models.CategoryPersonal},
}

var starterTodos = []models.TodoItem{
	{Title: "Buy groceries", Emoji: "🛒", Priority: models.PriorityHigh},
	{Title: "Call dentist", Emoji: "🦷", Priority: models.PriorityMedium},
}

// NewUserData returns the snapshot a fresh account starts with.
func NewUserData(env Env, rng *rand.Rand) *models.UserData {
	u := &models.UserData{
		Achievements: progress.DefaultAchievements(),
		Sanctuary:    []models.Crystal{},
		Challenges:   reset.DefaultChallenges(env.Today(), rng),
		BlockedApps:  []string{},
	}
	for _, t := range starterTasks {
		t.ID = env.IDs.NextID()
		u.Tasks = append(u.Tasks, t)
	}
	for _, t := range starterTodos {
		t.ID = env.IDs.NextID()
		u.Todos = append(u.Todos, t)
	}
	return u
}
