package progress

import "github.com/balkashynov/flowstate/internal/models"

// Result is the outcome of applying one event.
type Result struct {
	Challenges   []models.Challenge
	Achievements []models.Achievement
	Completed    []string // challenge ids that reached their target
	TierUps      []TierUp
}

// UnlocksOccurred reports whether any achievement gained a level.
func (r Result) UnlocksOccurred() bool {
	return len(r.TierUps) > 0
}

// ApplyEvent advances matching challenges and then re-checks achievements
// against the metrics after the caller's stats/sanctuary mutation.
func ApplyEvent(ev Event, challenges []models.Challenge, achievements []models.Achievement, m Metrics) Result {
	ch, completed := AdvanceChallenges(ev, challenges)
	ach, ups := CheckAchievements(achievements, m)
	return Result{
		Challenges:   ch,
		Achievements: ach,
		Completed:    completed,
		TierUps:      ups,
	}
}
