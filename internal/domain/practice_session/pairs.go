package practicesession

import (
	"sort"

	"github.com/lexilearn/backend/internal/domain/questionbank"
)

// Side identifies the column of a pairs-matching item.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// MatchOutcome describes what a single pairs selection did.
type MatchOutcome string

const (
	MatchIgnored  MatchOutcome = "ignored"  // unknown or already matched item
	MatchPending  MatchOutcome = "pending"  // waiting for the other side
	MatchResolved MatchOutcome = "resolved" // correct pair locked in
	MatchMismatch MatchOutcome = "mismatch" // wrong pair, both selections cleared
)

// Matching holds the progress of one pairs question. Pairs are resolved
// only when the pending left and right items belong together; a wrong
// combination is counted as a mistake and never recorded as a match.
type Matching struct {
	expected     map[string]string // left -> right
	rights       map[string]bool
	resolved     map[string]string
	resolvedRHS  map[string]bool
	pendingLeft  string
	pendingRight string
	mistakes     int
}

// NewMatching prepares matching state for the given pairs.
func NewMatching(pairs []questionbank.Pair) *Matching {
	m := &Matching{
		expected:    make(map[string]string, len(pairs)),
		rights:      make(map[string]bool, len(pairs)),
		resolved:    make(map[string]string, len(pairs)),
		resolvedRHS: make(map[string]bool, len(pairs)),
	}
	for _, p := range pairs {
		m.expected[p.Left] = p.Right
		m.rights[p.Right] = true
	}
	return m
}

// Select picks an item on one side and resolves a match once both sides
// have a pending item.
func (m *Matching) Select(side Side, item string) MatchOutcome {
	switch side {
	case SideLeft:
		if _, ok := m.expected[item]; !ok {
			return MatchIgnored
		}
		if _, done := m.resolved[item]; done {
			return MatchIgnored
		}
		m.pendingLeft = item
	case SideRight:
		if !m.rights[item] || m.resolvedRHS[item] {
			return MatchIgnored
		}
		m.pendingRight = item
	default:
		return MatchIgnored
	}

	if m.pendingLeft == "" || m.pendingRight == "" {
		return MatchPending
	}

	left, right := m.pendingLeft, m.pendingRight
	m.pendingLeft, m.pendingRight = "", ""

	if m.expected[left] != right {
		m.mistakes++
		return MatchMismatch
	}
	m.resolved[left] = right
	m.resolvedRHS[right] = true
	return MatchResolved
}

// Complete reports whether every left item has a resolved pair.
func (m *Matching) Complete() bool {
	return len(m.resolved) == len(m.expected)
}

// Remaining is the number of left items still unmatched.
func (m *Matching) Remaining() int {
	return len(m.expected) - len(m.resolved)
}

func (m *Matching) Mistakes() int { return m.mistakes }

// Pending returns the currently selected, unresolved items.
func (m *Matching) Pending() (left, right string) {
	return m.pendingLeft, m.pendingRight
}

// IsResolved reports whether item on the given side is already matched.
func (m *Matching) IsResolved(side Side, item string) bool {
	if side == SideRight {
		return m.resolvedRHS[item]
	}
	_, ok := m.resolved[item]
	return ok
}

// Resolved returns the matched pairs sorted by left item.
func (m *Matching) Resolved() []questionbank.Pair {
	out := make([]questionbank.Pair, 0, len(m.resolved))
	for l, r := range m.resolved {
		out = append(out, questionbank.Pair{Left: l, Right: r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Left < out[j].Left })
	return out
}
