package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecayHalfLife(t *testing.T) {
	last := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	// One half-life halves the distance from base: 1100 -> 1050.
	asOf := last.AddDate(0, 0, 30)
	assert.Equal(t, 1050, Decay(1100, last, asOf))

	// Works below base too: 900 -> 950.
	assert.Equal(t, 950, Decay(900, last, asOf))

	// Two half-lives: 1100 -> 1025.
	assert.Equal(t, 1025, Decay(1100, last, last.AddDate(0, 0, 60)))
}

func TestDecayZeroGap(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 1234, Decay(1234, now, now))
}

func TestDecayNeverFuture(t *testing.T) {
	last := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1200, Decay(1200, last, last.Add(-time.Hour)))
}

func TestDecayMonotonicTowardBase(t *testing.T) {
	last := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	prev := 1300
	for days := 1; days <= 120; days += 7 {
		got := Decay(1300, last, last.AddDate(0, 0, days))
		assert.LessOrEqual(t, got, prev, "decay must not move away from base")
		assert.GreaterOrEqual(t, got, BaseElo, "decay must not cross base")
		prev = got
	}
}

func TestDecayAtBaseIsStable(t *testing.T) {
	last := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, BaseElo, Decay(BaseElo, last, last.AddDate(1, 0, 0)))
}
