// Package reset brings a freshly loaded snapshot up to date with the calendar:
// login streak, daily ritual regeneration and weekly rollover.
package reset

import (
	"math/rand"
	"time"

	"github.com/balkashynov/flowstate/internal/models"
)

// DateLayout is the ISO date format used for every stored date.
const DateLayout = "2006-01-02"

// Outcome summarises what Reconcile changed.
type Outcome struct {
	StreakChanged    bool
	DailyRegenerated bool
	WeeklyRolled     int
}

// Reconcile returns a copy of u normalised for today. Calling it twice with the
// same day is a no-op the second time, and rng is only read when the daily set
// has to be regenerated.
func Reconcile(u *models.UserData, today time.Time, rng *rand.Rand) (*models.UserData, Outcome) {
	out := u.Clone()
	day := today.Format(DateLayout)
	var o Outcome

	if out.Streak.LastLoginDate != day {
		out.Streak = AdvanceStreak(out.Streak, today)
		o.StreakChanged = true
	}

	var daily, rest []models.Challenge
	for _, c := range out.Challenges {
		if c.Frequency == models.FrequencyDaily {
			daily = append(daily, c)
		} else {
			rest = append(rest, c)
		}
	}

	if dailyExpired(daily, day) {
		daily = DailyChallenges(out.Tasks, day, rng)
		o.DailyRegenerated = true
	}

	for i := range rest {
		c := &rest[i]
		if c.Frequency != models.FrequencyWeekly {
			continue
		}
		if weeklyDue(c.LastReset, today) {
			c.Restart(day)
			o.WeeklyRolled++
		}
	}

	out.Challenges = append(daily, rest...)
	return out, o
}

// AdvanceStreak applies one login on today to s.
func AdvanceStreak(s models.Streak, today time.Time) models.Streak {
	day := today.Format(DateLayout)
	if s.LastLoginDate == day {
		return s
	}
	if s.LastLoginDate == today.AddDate(0, 0, -1).Format(DateLayout) {
		s.Current++
	} else {
		s.Current = 1
	}
	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	s.LastLoginDate = day
	return s
}

func dailyExpired(daily []models.Challenge, day string) bool {
	if len(daily) == 0 {
		return true
	}
	for _, c := range daily {
		if c.LastReset != day {
			return true
		}
	}
	return false
}

// weeklyDue reports whether a Monday falls in (lastReset, today].
func weeklyDue(lastReset string, today time.Time) bool {
	last, err := time.Parse(DateLayout, lastReset)
	if err != nil {
		return true
	}
	now, _ := time.Parse(DateLayout, today.Format(DateLayout))
	return weekStart(now).After(last)
}

// weekStart returns the Monday of t's ISO week.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
