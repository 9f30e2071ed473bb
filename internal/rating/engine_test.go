package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darts-tracker/internal/domain"
)

var t0 = time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

func testPlayers(ids ...string) []domain.Player {
	players := make([]domain.Player, len(ids))
	for i, id := range ids {
		players[i] = domain.Player{ID: id, Name: "Player " + id, MatchesPlayed: 10}
	}
	return players
}

func match1v1(id, winner, loser string, at time.Time) domain.Match {
	return domain.Match{
		ID:        id,
		MatchType: domain.MatchType1v1,
		WinnerID:  winner,
		LoserID:   loser,
		CreatedAt: at,
	}
}

func TestComputeRatings1v1ZeroSum(t *testing.T) {
	players := testPlayers("a", "b")
	matches := []domain.Match{match1v1("m1", "a", "b", t0)}

	res, err := ComputeRatings(players, matches, t0, false)
	require.NoError(t, err)
	require.Len(t, res.MatchHistory, 1)

	entry := res.MatchHistory[0]
	assert.Equal(t, "m1", entry.MatchID)
	assert.Equal(t, PlayerRating{EloBefore: 1000, EloAfter: 1016, EloChange: 16}, entry.Ratings["a"])
	assert.Equal(t, PlayerRating{EloBefore: 1000, EloAfter: 984, EloChange: -16}, entry.Ratings["b"])
	assert.Equal(t, entry.Ratings["a"].EloChange, -entry.Ratings["b"].EloChange)

	// Standings are sorted by rating, winner first.
	require.Len(t, res.CurrentRatings, 2)
	assert.Equal(t, "a", res.CurrentRatings[0].PlayerID)
	assert.Equal(t, 1016, res.CurrentRatings[0].CurrentElo)
	assert.Equal(t, 984, res.CurrentRatings[1].CurrentElo)
}

func TestComputeRatingsDeterministic(t *testing.T) {
	players := testPlayers("a", "b", "c")
	matches := []domain.Match{
		match1v1("m1", "a", "b", t0),
		match1v1("m2", "b", "c", t0.Add(time.Hour)),
		match1v1("m3", "c", "a", t0.Add(2*time.Hour)),
	}
	now := t0.AddDate(0, 1, 0)

	first, err := ComputeRatings(players, matches, now, true)
	require.NoError(t, err)
	second, err := ComputeRatings(players, matches, now, true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeRatingsSortsUnorderedInput(t *testing.T) {
	players := testPlayers("a", "b")
	ordered := []domain.Match{
		match1v1("m1", "a", "b", t0),
		match1v1("m2", "b", "a", t0.Add(time.Hour)),
	}
	shuffled := []domain.Match{ordered[1], ordered[0]}

	want, err := ComputeRatings(players, ordered, t0.Add(time.Hour), false)
	require.NoError(t, err)
	got, err := ComputeRatings(players, shuffled, t0.Add(time.Hour), false)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, "m1", got.MatchHistory[0].MatchID)
	assert.Equal(t, "m2", got.MatchHistory[1].MatchID)
}

func TestComputeRatingsDecayReferencesMatchDate(t *testing.T) {
	players := testPlayers("a", "b")
	matches := []domain.Match{
		match1v1("m1", "a", "b", t0),
		// One half-life later, a's 1016 has decayed to 1008 going in.
		match1v1("m2", "a", "b", t0.AddDate(0, 0, 30)),
	}

	res, err := ComputeRatings(players, matches, t0.AddDate(0, 0, 30), true)
	require.NoError(t, err)

	assert.Equal(t, 1008, res.MatchHistory[1].Ratings["a"].EloBefore)
	assert.Equal(t, 992, res.MatchHistory[1].Ratings["b"].EloBefore)
}

func TestComputeRatingsFinalDecay(t *testing.T) {
	players := testPlayers("a", "b")
	matches := []domain.Match{match1v1("m1", "a", "b", t0)}
	now := t0.AddDate(0, 0, 30)

	res, err := ComputeRatings(players, matches, now, true)
	require.NoError(t, err)

	top := res.CurrentRatings[0]
	assert.Equal(t, "a", top.PlayerID)
	assert.Equal(t, 1016, top.RawElo)
	assert.Equal(t, 1008, top.CurrentElo)
	assert.Equal(t, 8, top.DecayApplied)
	assert.Equal(t, 30, top.DaysSinceLastMatch)

	// Decay disabled: raw and current agree.
	res, err = ComputeRatings(players, matches, now, false)
	require.NoError(t, err)
	assert.Equal(t, res.CurrentRatings[0].RawElo, res.CurrentRatings[0].CurrentElo)
	assert.Zero(t, res.CurrentRatings[0].DecayApplied)
}

func TestComputeRatingsNeverPlayed(t *testing.T) {
	players := testPlayers("a")
	players[0].MatchesPlayed = 0

	res, err := ComputeRatings(players, nil, t0, true)
	require.NoError(t, err)

	cp := res.CurrentRatings[0]
	assert.Equal(t, BaseElo, cp.CurrentElo)
	assert.Equal(t, BaseElo, cp.RawElo)
	assert.Zero(t, cp.DecayApplied)
	assert.True(t, cp.LastMatchAt.IsZero())
	assert.True(t, cp.IsProvisional)
}

func TestComputeRatingsMultiplayerRankOrdering(t *testing.T) {
	players := testPlayers("a", "b", "c", "d")
	matches := []domain.Match{{
		ID:        "m1",
		MatchType: domain.MatchTypeMultiplayer,
		CreatedAt: t0,
		Participants: []domain.MatchParticipant{
			{MatchID: "m1", PlayerID: "a", Rank: 1, IsWinner: true},
			{MatchID: "m1", PlayerID: "b", Rank: 2},
			{MatchID: "m1", PlayerID: "c", Rank: 3},
			{MatchID: "m1", PlayerID: "d", Rank: 4},
		},
	}}

	res, err := ComputeRatings(players, matches, t0, false)
	require.NoError(t, err)

	ratings := res.MatchHistory[0].Ratings
	assert.GreaterOrEqual(t, ratings["a"].EloChange, ratings["b"].EloChange)
	assert.GreaterOrEqual(t, ratings["b"].EloChange, ratings["c"].EloChange)
	assert.GreaterOrEqual(t, ratings["c"].EloChange, ratings["d"].EloChange)
	assert.Greater(t, ratings["a"].EloChange, 0)
	assert.Less(t, ratings["d"].EloChange, 0)
}

func TestComputeRatingsMultiplayerTies(t *testing.T) {
	players := testPlayers("a", "b")
	matches := []domain.Match{{
		ID:        "m1",
		MatchType: domain.MatchTypeMultiplayer,
		CreatedAt: t0,
		Participants: []domain.MatchParticipant{
			{MatchID: "m1", PlayerID: "a", Rank: 1, IsWinner: true},
			{MatchID: "m1", PlayerID: "b", Rank: 1, IsWinner: true},
		},
	}}

	res, err := ComputeRatings(players, matches, t0, false)
	require.NoError(t, err)

	ratings := res.MatchHistory[0].Ratings
	assert.Zero(t, ratings["a"].EloChange)
	assert.Zero(t, ratings["b"].EloChange)
}

func TestComputeRatingsUnknownPlayer(t *testing.T) {
	players := testPlayers("a")
	matches := []domain.Match{match1v1("m1", "a", "ghost", t0)}

	_, err := ComputeRatings(players, matches, t0, false)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestComputeRatingsTooFewParticipants(t *testing.T) {
	players := testPlayers("a")
	matches := []domain.Match{{
		ID:        "m1",
		MatchType: domain.MatchTypeMultiplayer,
		CreatedAt: t0,
		Participants: []domain.MatchParticipant{
			{MatchID: "m1", PlayerID: "a", Rank: 1},
		},
	}}

	_, err := ComputeRatings(players, matches, t0, false)
	assert.ErrorIs(t, err, ErrTooFewParticipants)
}

func TestComputeRatingsSelfMatch(t *testing.T) {
	players := testPlayers("a")
	matches := []domain.Match{match1v1("m1", "a", "a", t0)}

	_, err := ComputeRatings(players, matches, t0, false)
	assert.ErrorIs(t, err, ErrSelfMatch)
}

func TestComputeRatingsProvisionalThreshold(t *testing.T) {
	players := testPlayers("a", "b")
	players[0].MatchesPlayed = ProvisionalMatchCount
	players[1].MatchesPlayed = ProvisionalMatchCount - 1

	res, err := ComputeRatings(players, nil, t0, false)
	require.NoError(t, err)

	byID := make(map[string]CalculatedPlayer)
	for _, cp := range res.CurrentRatings {
		byID[cp.PlayerID] = cp
	}
	assert.False(t, byID["a"].IsProvisional)
	assert.True(t, byID["b"].IsProvisional)
}
