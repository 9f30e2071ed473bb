package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedScore(t *testing.T) {
	assert.InDelta(t, 0.5, expectedScore(1000, 1000), 1e-9)

	// A 400-point gap corresponds to ~10:1 odds.
	assert.InDelta(t, 10.0/11.0, expectedScore(1400, 1000), 1e-9)

	// Symmetry: expectations of two opponents sum to 1.
	sum := expectedScore(1234, 987) + expectedScore(987, 1234)
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestHeadToHeadChange(t *testing.T) {
	// Equal ratings: K * (1 - 0.5) = 16.
	assert.Equal(t, 16, headToHeadChange(1000, 1000))

	// Beating a stronger opponent pays more than beating a weaker one.
	upset := headToHeadChange(1000, 1200)
	expected := headToHeadChange(1200, 1000)
	assert.Greater(t, upset, expected)

	// Change is always positive for the winner.
	assert.Greater(t, headToHeadChange(2000, 1000), 0)
}

func TestFieldChangeRankOrdering(t *testing.T) {
	field := []opponent{
		{elo: 1000, rank: 2},
		{elo: 1000, rank: 3},
	}

	// With identical starting ratings, a better finish never earns less.
	first := fieldChange(1000, 1, field)
	second := fieldChange(1000, 2, field)
	last := fieldChange(1000, 4, field)

	assert.GreaterOrEqual(t, first, second)
	assert.GreaterOrEqual(t, second, last)
	assert.Greater(t, first, 0)
	assert.Less(t, last, 0)
}

func TestFieldChangeDraw(t *testing.T) {
	// A two-way tie at equal ratings moves nothing.
	assert.Equal(t, 0, fieldChange(1000, 1, []opponent{{elo: 1000, rank: 1}}))
}

func TestFieldChangeNoOpponents(t *testing.T) {
	assert.Equal(t, 0, fieldChange(1000, 1, nil))
}
