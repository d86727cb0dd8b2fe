package practicesession

import "time"

// SessionConfig holds optional constraints for a practice session.
type SessionConfig struct {
	MaxQuestions *int           // nil = all questions from the bank
	MaxDuration  *time.Duration // nil = no time limit
	Shuffle      bool           // true = randomize question order
	FocusOnWeak  bool           // true = use the caller's weakest-first order
}

// DefaultConfig returns a config with no constraints. Questions keep the
// deck order.
func DefaultConfig() SessionConfig {
	return SessionConfig{
		MaxQuestions: nil,
		MaxDuration:  nil,
		Shuffle:      false,
		FocusOnWeak:  false,
	}
}
