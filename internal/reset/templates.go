package reset

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/google/uuid"

	"github.com/balkashynov/flowstate/internal/models"
)

// Template is the fixed shape a challenge is generated from.
type Template struct {
	Title       string
	Description string
	Frequency   models.ChallengeFrequency
	Type        models.ChallengeType
	Target      int
	RewardDust  int
}

var (
	collectTemplate = Template{
		Title:      "Crystal Hunter",
		Frequency:  models.FrequencyDaily,
		Type:       models.ChallengeCollectCrystal,
		Target:     1,
		RewardDust: 15,
	}
	specificTaskTemplate = Template{
		Title:      "Priority Focus",
		Frequency:  models.FrequencyDaily,
		Type:       models.ChallengeSpecificTask,
		Target:     1,
		RewardDust: 20,
	}
	taskCountTemplate = Template{
		Title:       "Momentum",
		Description: "Complete 3 tasks today",
		Frequency:   models.FrequencyDaily,
		Type:        models.ChallengeTaskCount,
		Target:      3,
		RewardDust:  10,
	}
	focusTemplate = Template{
		Title:       "Deep Focus",
		Description: "Focus for 45 minutes today",
		Frequency:   models.FrequencyDaily,
		Type:        models.ChallengeFocusMinutes,
		Target:      45,
		RewardDust:  25,
	}
)

// Weekly holds the default weekly rituals.
var Weekly = []Template{
	{
		Title:       "Weekly Warrior",
		Description: "Complete 10 focus sessions this week",
		Frequency:   models.FrequencyWeekly,
		Type:        models.ChallengeSessionCount,
		Target:      10,
		RewardDust:  100,
	},
	{
		Title:       "Marathon Mind",
		Description: "Focus for 300 minutes this week",
		Frequency:   models.FrequencyWeekly,
		Type:        models.ChallengeFocusMinutes,
		Target:      300,
		RewardDust:  150,
	},
}

// Infinite holds the rituals that never reset.
var Infinite = []Template{
	{
		Title:       "Legend",
		Description: "Complete 50 tasks",
		Frequency:   models.FrequencyInfinite,
		Type:        models.ChallengeTaskCount,
		Target:      50,
		RewardDust:  250,
	},
}

// SessionCrystals are the tiers a focus session can award directly.
var SessionCrystals = []models.CrystalType{
	models.CrystalAmethyst,
	models.CrystalCitrine,
	models.CrystalSapphire,
	models.CrystalEmerald,
}

// NewID draws a challenge id from rng.
func NewID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		// math/rand never fails to read
		panic(err)
	}
	return id.String()
}

// Instantiate builds a fresh challenge from t.
func (t Template) Instantiate(today string, rng *rand.Rand) models.Challenge {
	return models.Challenge{
		ID:          NewID(rng),
		Title:       t.Title,
		Description: t.Description,
		Frequency:   t.Frequency,
		Type:        t.Type,
		Target:      t.Target,
		LastReset:   today,
		RewardDust:  t.RewardDust,
	}
}

// DefaultChallenges returns the weekly and infinite rituals a new user starts with.
func DefaultChallenges(today string, rng *rand.Rand) []models.Challenge {
	out := make([]models.Challenge, 0, len(Weekly)+len(Infinite))
	for _, t := range Weekly {
		out = append(out, t.Instantiate(today, rng))
	}
	for _, t := range Infinite {
		out = append(out, t.Instantiate(today, rng))
	}
	return out
}

// DailyChallenges generates the full daily set for today.
func DailyChallenges(tasks []models.Task, today string, rng *rand.Rand) []models.Challenge {
	crystal := SessionCrystals[rng.Intn(len(SessionCrystals))]
	collect := collectTemplate.Instantiate(today, rng)
	collect.Description = fmt.Sprintf("Collect a %s crystal", crystal.Title())
	collect.TargetDetail = string(crystal)

	var open []models.Task
	for _, t := range tasks {
		if !t.Completed {
			open = append(open, t)
		}
	}

	var second models.Challenge
	if len(open) > 0 {
		task := open[rng.Intn(len(open))]
		second = specificTaskTemplate.Instantiate(today, rng)
		second.Description = fmt.Sprintf("Complete %q", task.Title)
		second.TargetDetail = strconv.FormatInt(task.ID, 10)
	} else {
		second = taskCountTemplate.Instantiate(today, rng)
	}

	return []models.Challenge{collect, second, focusTemplate.Instantiate(today, rng)}
}
