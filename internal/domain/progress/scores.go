package progress

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ScoreKind names one of the tracked test scores.
type ScoreKind string

const (
	ScoreTotal ScoreKind = "total"
	ScoreEBRW  ScoreKind = "ebrw" // evidence-based reading and writing
	ScoreMath  ScoreKind = "math"
)

// Storage keys for the current scores, next to the streak values.
const (
	KeyTotalScore = "totalScore"
	KeyEBRWScore  = "ebrwScore"
	KeyMathScore  = "mathScore"
)

// Score bounds of the test scale.
const (
	MinSectionScore = 200
	MaxSectionScore = 800
	MinTotalScore   = 2 * MinSectionScore
	MaxTotalScore   = 2 * MaxSectionScore
)

var (
	ErrUnknownScore = errors.New("unknown score type")
	ErrInvalidScore = errors.New("invalid score")
)

// Scores are the learner's current target or estimated test scores.
type Scores struct {
	Total int
	EBRW  int
	Math  int
}

func DefaultScores() Scores {
	return Scores{Total: MaxTotalScore, EBRW: MaxSectionScore, Math: MaxSectionScore}
}

// Set returns a copy with one score replaced. Each score is set on its
// own; the total is not derived from the sections.
func (s Scores) Set(kind ScoreKind, value int) (Scores, error) {
	switch kind {
	case ScoreTotal:
		if err := checkRange(kind, value, MinTotalScore, MaxTotalScore); err != nil {
			return s, err
		}
		s.Total = value
	case ScoreEBRW:
		if err := checkRange(kind, value, MinSectionScore, MaxSectionScore); err != nil {
			return s, err
		}
		s.EBRW = value
	case ScoreMath:
		if err := checkRange(kind, value, MinSectionScore, MaxSectionScore); err != nil {
			return s, err
		}
		s.Math = value
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownScore, kind)
	}
	return s, nil
}

func (s Scores) Validate() error {
	return errors.Join(
		checkRange(ScoreTotal, s.Total, MinTotalScore, MaxTotalScore),
		checkRange(ScoreEBRW, s.EBRW, MinSectionScore, MaxSectionScore),
		checkRange(ScoreMath, s.Math, MinSectionScore, MaxSectionScore),
	)
}

func checkRange(kind ScoreKind, value, lo, hi int) error {
	if value < lo || value > hi {
		return fmt.Errorf("%w: %s score %d must be between %d and %d", ErrInvalidScore, kind, value, lo, hi)
	}
	return nil
}

// EncodeScores returns the scores as named string values.
func EncodeScores(s Scores) map[string]string {
	return map[string]string{
		KeyTotalScore: strconv.Itoa(s.Total),
		KeyEBRWScore:  strconv.Itoa(s.EBRW),
		KeyMathScore:  strconv.Itoa(s.Math),
	}
}

// DecodeScores reads scores from named values. Missing or out of range
// values keep their defaults.
func DecodeScores(values map[string]string) Scores {
	s := DefaultScores()
	for kind, key := range map[ScoreKind]string{
		ScoreTotal: KeyTotalScore,
		ScoreEBRW:  KeyEBRWScore,
		ScoreMath:  KeyMathScore,
	} {
		n, err := strconv.Atoi(values[key])
		if err != nil {
			continue
		}
		if updated, err := s.Set(kind, n); err == nil {
			s = updated
		}
	}
	return s
}

// OfficialScore is the result of one sitting of the official test.
type OfficialScore struct {
	Date time.Time
	Scores
}

func (o OfficialScore) Validate() error {
	if o.Date.IsZero() {
		return fmt.Errorf("%w: test date is required", ErrInvalidScore)
	}
	return o.Scores.Validate()
}
