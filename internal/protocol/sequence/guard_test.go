package sequence_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"devsecrets/internal/domain"
	"devsecrets/internal/protocol/sequence"
)

func TestGuard_StartsAtOne(t *testing.T) {
	assert.Equal(t, uint64(1), sequence.New().Expected())
}

func TestGuard_Transitions(t *testing.T) {
	g := sequence.New()
	for c := domain.Counter(1); c <= 4; c++ {
		g.Classify(c)
	}
	n := g.Expected()
	assert.Equal(t, uint64(5), n)

	assert.Equal(t, domain.InOrder, g.Classify(domain.Counter(n)))
	assert.Equal(t, n+1, g.Expected())

	n = g.Expected()
	assert.Equal(t, domain.ReplayOrLate, g.Classify(domain.Counter(n-1)))
	assert.Equal(t, n, g.Expected())

	assert.Equal(t, domain.Gap, g.Classify(domain.Counter(n+5)))
	assert.Equal(t, n+6, g.Expected())
}

func TestGuard_NeverDecreases(t *testing.T) {
	g := sequence.New()
	prev := g.Expected()
	for _, c := range []domain.Counter{3, 1, 2, 10, 4, 11, 11, 0, 12} {
		g.Classify(c)
		if g.Expected() < prev {
			t.Fatalf("expected went from %d to %d after %d", prev, g.Expected(), c)
		}
		prev = g.Expected()
	}
}

func TestGuard_MaxCounter(t *testing.T) {
	g := sequence.New()
	assert.Equal(t, domain.Gap, g.Classify(math.MaxUint32))
	assert.Equal(t, uint64(math.MaxUint32)+1, g.Expected())
	assert.Equal(t, domain.ReplayOrLate, g.Classify(math.MaxUint32))
}

func TestGuard_ZeroIsLate(t *testing.T) {
	g := sequence.New()
	assert.Equal(t, domain.ReplayOrLate, g.Classify(0))
	assert.Equal(t, uint64(1), g.Expected())
}
