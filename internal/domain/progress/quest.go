package progress

import "time"

// Quest names. Session completion and word stats advance them.
const (
	QuestCompleteLessons = "Complete 3 Lessons"
	QuestPracticeMinutes = "Practice for 15 minutes"
	QuestLearnWords      = "Learn 10 new words"
)

// Quest is a daily goal with a numeric target.
type Quest struct {
	Name    string
	Target  int
	Current int
	Day     time.Time
}

// DefaultQuests returns the quests every day starts with.
func DefaultQuests(now time.Time) []Quest {
	today := day(now)
	return []Quest{
		{Name: QuestCompleteLessons, Target: 3, Day: today},
		{Name: QuestPracticeMinutes, Target: 15, Day: today},
		{Name: QuestLearnWords, Target: 10, Day: today},
	}
}

func (q Quest) Completed() bool {
	return q.Current >= q.Target
}

// Percent is the progress towards the target, capped at 100.
func (q Quest) Percent() int {
	if q.Target <= 0 {
		return 100
	}
	return min(100, q.Current*100/q.Target)
}

// Add advances the quest by n.
func (q Quest) Add(n int) Quest {
	if n > 0 {
		q.Current += n
	}
	return q
}
