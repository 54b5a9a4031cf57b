package sequence

import "devsecrets/internal/domain"

// Guard tracks the next expected counter of one receiving session.
//
// The expected value starts at 1 and never decreases. It is held as uint64 so
// that accepting math.MaxUint32 still moves it forward.
type Guard struct {
	expected uint64
}

// New returns a guard expecting counter 1.
func New() *Guard { return &Guard{expected: 1} }

// Classify records counter c and reports how it relates to the expected one.
//
//   - c == expected: InOrder, expected becomes c+1.
//   - c <  expected: ReplayOrLate, expected unchanged.
//   - c >  expected: Gap, expected becomes c+1.
func (g *Guard) Classify(c domain.Counter) domain.Classification {
	v := uint64(c)
	switch {
	case v == g.expected:
		g.expected = v + 1
		return domain.InOrder
	case v < g.expected:
		return domain.ReplayOrLate
	default:
		g.expected = v + 1
		return domain.Gap
	}
}

// Expected returns the counter the guard expects next.
func (g *Guard) Expected() uint64 { return g.expected }
