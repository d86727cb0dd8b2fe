package questionbank

import (
	"math"
	"time"
)

// MaxMastery is the highest mastery level a word can reach.
const MaxMastery = 5

// WordStats tracks practice results for a single vocabulary word.
type WordStats struct {
	Word           string
	TimesCorrect   int
	TimesIncorrect int
	MasteryLevel   int // 0-5
	LastPracticed  time.Time
}

// Record applies one answer to the stats. A word seen for the first time
// starts at mastery 1 when answered correctly; after that mastery grows
// by one level for every two correct answers.
func (ws *WordStats) Record(correct bool, at time.Time) {
	first := ws.TimesCorrect == 0 && ws.TimesIncorrect == 0

	if correct {
		ws.TimesCorrect++
	} else {
		ws.TimesIncorrect++
	}
	ws.LastPracticed = at

	if first {
		if correct {
			ws.MasteryLevel = 1
		} else {
			ws.MasteryLevel = 0
		}
		return
	}
	ws.MasteryLevel = ws.CalculateMastery()
}

// CalculateMastery computes min(5, timesCorrect/2).
func (ws *WordStats) CalculateMastery() int {
	return min(MaxMastery, ws.TimesCorrect/2)
}

// VocabularyStats aggregates WordStats across all practiced words.
type VocabularyStats struct {
	TotalWords     int
	AvgMastery     float64 // rounded to one decimal
	TotalCorrect   int
	TotalIncorrect int
}

// Summarize builds VocabularyStats from individual word stats.
func Summarize(words []WordStats) VocabularyStats {
	var stats VocabularyStats
	if len(words) == 0 {
		return stats
	}

	masterySum := 0
	for _, w := range words {
		masterySum += w.MasteryLevel
		stats.TotalCorrect += w.TimesCorrect
		stats.TotalIncorrect += w.TimesIncorrect
	}
	stats.TotalWords = len(words)
	stats.AvgMastery = math.Round(float64(masterySum)/float64(len(words))*10) / 10
	return stats
}
