package services

import (
	"sort"

	"main/model"
	"main/utils"
)

// StreakRewardThreshold is the streak length at which the celebratory
// signal fires. The caller de-duplicates "already celebrated" per habit per
// session; these functions stay pure.
const StreakRewardThreshold = 3

// StreakState is derived fresh from a habit's completion dates on every
// evaluation. It is never persisted.
type StreakState struct {
	Streak   int  `json:"streak"`
	IsReward bool `json:"is_reward"`
	IsAtRisk bool `json:"is_at_risk"`
}

// CalculateStreak counts consecutive completed days anchored at today,
// walking newest-first. A chain ending at yesterday still reads in full:
// today is not over, so a missing entry for today is not yet a break.
func CalculateStreak(dates []string, today string) int {
	sorted := dedupeDescending(dates)
	if len(sorted) == 0 {
		return 0
	}

	streak := 0
	cursor := today
	for _, d := range sorted {
		switch d {
		case cursor:
			streak++
			cursor = utils.PreviousDay(cursor)
		case utils.PreviousDay(cursor):
			// yesterday counts even if today not done yet
			streak++
			cursor = utils.PreviousDay(d)
		default:
			return streak
		}
	}
	return streak
}

// IsMissStreak reports whether the streak is about to reach zero: neither
// today nor yesterday has an entry. Evaluated independently of
// CalculateStreak; the two deliberately keep separate boundary logic.
func IsMissStreak(dates []string, today string) bool {
	yesterday := utils.PreviousDay(today)
	for _, d := range dates {
		if d == today || d == yesterday {
			return false
		}
	}
	return true
}

// IsStreakReward reports whether the streak has reached the reward
// threshold.
func IsStreakReward(streak int) bool {
	return streak >= StreakRewardThreshold
}

// BuildStreakStates computes the derived streak state for every habit from
// the current entry set, keyed by habit id.
func BuildStreakStates(habits []*model.Habit, entries []model.Entry, today string) map[string]StreakState {
	datesByHabit := make(map[string][]string, len(habits))
	for _, e := range entries {
		datesByHabit[e.HabitID] = append(datesByHabit[e.HabitID], e.Date)
	}

	states := make(map[string]StreakState, len(habits))
	for _, habit := range habits {
		habitDates := datesByHabit[habit.HabitID]
		streak := CalculateStreak(habitDates, today)
		states[habit.HabitID] = StreakState{
			Streak:   streak,
			IsReward: IsStreakReward(streak),
			IsAtRisk: IsMissStreak(habitDates, today),
		}
	}
	return states
}

// dedupeDescending collapses duplicates and sorts newest first. YYYY-MM-DD
// keys order correctly as plain strings.
func dedupeDescending(dates []string) []string {
	seen := make(map[string]struct{}, len(dates))
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
