package progress

import (
	"errors"
	"fmt"
	"time"
)

// DefaultGoal is the streak goal for a new profile.
const DefaultGoal = 7

// GoalOptions are the streak goals the learner can choose from.
var GoalOptions = []int{7, 14, 28}

var ErrInvalidGoal = errors.New("invalid streak goal")

// Streak counts consecutive days with practice activity.
type Streak struct {
	Count      int
	LastActive time.Time // zero when the learner has never checked in
	Goal       int
}

func NewStreak() Streak {
	return Streak{Goal: DefaultGoal}
}

// CheckIn records activity at now. Activity on the same calendar day
// leaves the streak unchanged, activity on the day after the last active
// day extends it, and anything else restarts it at 1.
func (s Streak) CheckIn(now time.Time) Streak {
	today := day(now)
	if !s.LastActive.IsZero() && day(s.LastActive).Equal(today) {
		return s
	}

	if !s.LastActive.IsZero() && day(s.LastActive).Equal(today.AddDate(0, 0, -1)) {
		s.Count++
	} else {
		s.Count = 1
	}
	s.LastActive = today
	return s
}

// SetGoal changes the goal to one of GoalOptions.
func (s Streak) SetGoal(goal int) (Streak, error) {
	for _, g := range GoalOptions {
		if g == goal {
			s.Goal = goal
			return s, nil
		}
	}
	return s, fmt.Errorf("%w: %d (choose 7, 14 or 28)", ErrInvalidGoal, goal)
}

func (s Streak) Message() string {
	switch {
	case s.Count < s.Goal:
		return "Keep it up!"
	case s.Count == s.Goal:
		return "You reached your goal!"
	default:
		return "New record!"
	}
}

// Days returns one entry per goal day, true for days already covered by
// the streak.
func (s Streak) Days() []bool {
	days := make([]bool, s.Goal)
	for i := range days {
		days[i] = i+1 <= s.Count
	}
	return days
}

// day truncates t to midnight in its own location.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
