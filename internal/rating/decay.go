package rating

import (
	"math"
	"time"
)

const hoursPerDay = 24.0

// Decay applies exponential inactivity decay to a rating: the distance from
// BaseElo halves every DecayHalfLifeDays of inactivity. Elapsed time at or
// below zero leaves the rating untouched, so decay never reaches into the
// future and never pushes a rating away from base.
func Decay(elo int, lastMatch, asOf time.Time) int {
	days := daysBetween(lastMatch, asOf)
	if days <= 0 || elo == BaseElo {
		return elo
	}

	decayed := BaseElo + float64(elo-BaseElo)*math.Pow(0.5, days/DecayHalfLifeDays)
	return int(math.Round(decayed))
}

func daysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / hoursPerDay
}
