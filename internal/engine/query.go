package engine

import (
	"time"

	"github.com/balkashynov/flowstate/internal/models"
)

// CurrentTask returns the timeline task whose window contains now.
func CurrentTask(tasks []models.Task, now time.Time) (models.Task, bool) {
	minute := now.Hour()*60 + now.Minute()
	for _, t := range tasks {
		if t.Covers(minute) {
			return t, true
		}
	}
	return models.Task{}, false
}

// Greeting is the time-of-day salutation shown on the dashboard.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Morning"
	case h < 17:
		return "Afternoon"
	default:
		return "Evening"
	}
}

// CompletedToday counts finished tasks and to-dos on the current lists.
func CompletedToday(u *models.UserData) int {
	return u.CompletedCount()
}
