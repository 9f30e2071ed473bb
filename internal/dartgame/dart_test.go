package dartgame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDartScore(t *testing.T) {
	assert.Equal(t, 60, Dart{Segment: 20, Multiplier: 3}.Score())
	assert.Equal(t, 50, Dart{Segment: 25, Multiplier: 2}.Score())
	assert.Equal(t, 50, Dart{Segment: 50, Multiplier: 1}.Score())
	assert.Equal(t, 0, Dart{Segment: 0, Multiplier: 1}.Score())
}

func TestDartIsDouble(t *testing.T) {
	assert.True(t, Dart{Segment: 10, Multiplier: 2}.IsDouble())
	assert.True(t, Dart{Segment: 25, Multiplier: 2}.IsDouble())
	assert.True(t, Dart{Segment: 50, Multiplier: 1}.IsDouble(), "inner bull counts as double 25")
	assert.False(t, Dart{Segment: 20, Multiplier: 3}.IsDouble())
	assert.False(t, Dart{Segment: 25, Multiplier: 1}.IsDouble())
}

func TestDartValidate(t *testing.T) {
	valid := []Dart{
		{Segment: 0, Multiplier: 1},
		{Segment: 1, Multiplier: 1},
		{Segment: 20, Multiplier: 3},
		{Segment: 25, Multiplier: 2},
		{Segment: 50, Multiplier: 1},
	}
	for _, d := range valid {
		assert.NoError(t, d.Validate(), "%+v", d)
	}

	invalid := []Dart{
		{Segment: 25, Multiplier: 3}, // triple bull
		{Segment: 50, Multiplier: 2},
		{Segment: 0, Multiplier: 2},
		{Segment: 21, Multiplier: 1},
		{Segment: -1, Multiplier: 1},
		{Segment: 20, Multiplier: 0},
		{Segment: 20, Multiplier: 4},
	}
	for _, d := range invalid {
		assert.ErrorIs(t, d.Validate(), ErrInvalidDart, "%+v", d)
	}
}

func TestDartLabel(t *testing.T) {
	assert.Equal(t, "T20", Dart{Segment: 20, Multiplier: 3}.Label())
	assert.Equal(t, "D10", Dart{Segment: 10, Multiplier: 2}.Label())
	assert.Equal(t, "S5", Dart{Segment: 5, Multiplier: 1}.Label())
	assert.Equal(t, "25", Dart{Segment: 25, Multiplier: 1}.Label())
	assert.Equal(t, "D25", Dart{Segment: 25, Multiplier: 2}.Label())
	assert.Equal(t, "Bull", Dart{Segment: 50, Multiplier: 1}.Label())
	assert.Equal(t, "Miss", Dart{Segment: 0, Multiplier: 1}.Label())
}
