package models

// ChallengeFrequency is the reset period of a challenge.
type ChallengeFrequency string

const (
	FrequencyDaily    ChallengeFrequency = "daily"
	FrequencyWeekly   ChallengeFrequency = "weekly"
	FrequencyInfinite ChallengeFrequency = "infinite"
)

// ChallengeType selects which domain event advances a challenge.
type ChallengeType string

const (
	ChallengeFocusMinutes   ChallengeType = "focus_minutes"
	ChallengeTaskCount      ChallengeType = "task_count"
	ChallengeSessionCount   ChallengeType = "session_count"
	ChallengeCollectCrystal ChallengeType = "collect_crystal"
	ChallengeSpecificTask   ChallengeType = "specific_task"
)

// Challenge (a "ritual") is a time-boxed objective with a claimable dust reward.
//
// Invariants: 0 <= CurrentProgress <= Target, Completed == (CurrentProgress >= Target),
// Claimed implies Completed.
type Challenge struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Frequency       ChallengeFrequency `json:"frequency"`
	Type            ChallengeType      `json:"type"`
	Target          int                `json:"target"`
	CurrentProgress int                `json:"currentProgress"`
	Completed       bool               `json:"completed"`
	Claimed         bool               `json:"claimed"`
	LastReset       string             `json:"lastReset"` // YYYY-MM-DD
	TargetDetail    string             `json:"targetDetail,omitempty"`
	RewardDust      int                `json:"rewardDust"`
}

// Claimable reports whether the reward can be collected now.
func (c Challenge) Claimable() bool {
	return c.Completed && !c.Claimed
}

// Restart zeroes progress for a new period.
func (c *Challenge) Restart(today string) {
	c.CurrentProgress = 0
	c.Completed = false
	c.Claimed = false
	c.LastReset = today
}
