package progress

import (
	"strconv"

	"github.com/balkashynov/flowstate/internal/models"
)

// EventKind is a domain event that can advance challenges.
type EventKind int

const (
	EventTaskCompleted EventKind = iota + 1
	EventSessionCompleted
	EventCrystalCollected
	EventCrystalFused
)

func (k EventKind) String() string {
	switch k {
	case EventTaskCompleted:
		return "task_completed"
	case EventSessionCompleted:
		return "session_completed"
	case EventCrystalCollected:
		return "crystal_collected"
	case EventCrystalFused:
		return "crystal_fused"
	default:
		return "unknown"
	}
}

// Event carries the discriminant and magnitude of one domain event.
type Event struct {
	Kind    EventKind
	TaskID  int64
	Minutes int
	Crystal models.CrystalType
}

func TaskCompleted(id int64) Event {
	return Event{Kind: EventTaskCompleted, TaskID: id}
}

func SessionCompleted(minutes int) Event {
	return Event{Kind: EventSessionCompleted, Minutes: minutes}
}

func CrystalCollected(t models.CrystalType) Event {
	return Event{Kind: EventCrystalCollected, Crystal: t}
}

func CrystalFused(result models.CrystalType) Event {
	return Event{Kind: EventCrystalFused, Crystal: result}
}

// magnitude returns how much ev advances a challenge of type ct, or 0 when it doesn't apply.
func (ev Event) magnitude(c models.Challenge) int {
	switch c.Type {
	case models.ChallengeTaskCount:
		if ev.Kind == EventTaskCompleted {
			return 1
		}
	case models.ChallengeSpecificTask:
		if ev.Kind == EventTaskCompleted && c.TargetDetail == strconv.FormatInt(ev.TaskID, 10) {
			return 1
		}
	case models.ChallengeFocusMinutes:
		if ev.Kind == EventSessionCompleted {
			return ev.Minutes
		}
	case models.ChallengeSessionCount:
		if ev.Kind == EventSessionCompleted {
			return 1
		}
	case models.ChallengeCollectCrystal:
		if ev.Kind != EventCrystalCollected && ev.Kind != EventCrystalFused {
			return 0
		}
		if c.TargetDetail == "" || c.TargetDetail == string(ev.Crystal) {
			return 1
		}
	}
	return 0
}
