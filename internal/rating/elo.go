package rating

import "math"

const (
	// BaseElo is the rating every player starts at and the value
	// inactivity decay pulls dormant ratings back toward.
	BaseElo = 1000

	// KFactor controls the magnitude of rating change per match.
	KFactor = 32

	// DecayHalfLifeDays is the inactivity period after which a rating's
	// distance from BaseElo is halved.
	DecayHalfLifeDays = 30.0

	// ProvisionalMatchCount is the minimum number of recorded matches
	// before a player's rating is considered stable.
	ProvisionalMatchCount = 5
)

// expectedScore is the standard Elo win probability for a player rated ra
// against a player rated rb.
func expectedScore(ra, rb int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(rb-ra)/400.0))
}

// headToHeadChange computes the zero-sum rating delta for a decided 1v1
// match: the winner gains the returned amount, the loser drops it.
func headToHeadChange(winnerElo, loserElo int) int {
	return int(math.Round(KFactor * (1.0 - expectedScore(winnerElo, loserElo))))
}

type opponent struct {
	elo  int
	rank int
}

// fieldChange computes a multiplayer participant's rating delta by scoring
// them pairwise against every opponent in the match (win=1, draw=0.5,
// loss=0 by finish rank) and averaging the accumulated K-weighted surprise
// over the opponent count. Rounding happens once, at the point of
// application, so deltas never accumulate as floats across matches.
func fieldChange(elo, rank int, opponents []opponent) int {
	if len(opponents) == 0 {
		return 0
	}

	var sum float64
	for _, o := range opponents {
		actual := 0.5
		switch {
		case rank < o.rank:
			actual = 1.0
		case rank > o.rank:
			actual = 0.0
		}
		sum += KFactor * (actual - expectedScore(elo, o.elo))
	}

	return int(math.Round(sum / float64(len(opponents))))
}
