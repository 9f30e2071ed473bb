package dartgame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T, cfg Config, players ...string) *GameState {
	t.Helper()
	g, err := NewGameState(cfg, players)
	require.NoError(t, err)
	return g
}

func throwAll(t *testing.T, g *GameState, darts ...Dart) ThrowOutcome {
	t.Helper()
	var out ThrowOutcome
	for _, d := range darts {
		var err error
		out, err = g.ApplyThrow(d)
		require.NoError(t, err)
	}
	return out
}

var (
	cfg501DoubleOut   = Config{GameType: GameType501, StartRule: StartStraightIn, EndRule: EndDoubleOut}
	cfg301StraightOut = Config{GameType: GameType301, StartRule: StartStraightIn, EndRule: EndStraightOut}
	cfg501DoubleIn    = Config{GameType: GameType501, StartRule: StartDoubleIn, EndRule: EndDoubleOut}

	t20 = Dart{Segment: 20, Multiplier: 3}
	s20 = Dart{Segment: 20, Multiplier: 1}
	s1  = Dart{Segment: 1, Multiplier: 1}
	d10 = Dart{Segment: 10, Multiplier: 2}
	d20 = Dart{Segment: 20, Multiplier: 2}
)

func TestNewGameStateValidation(t *testing.T) {
	_, err := NewGameState(Config{GameType: "701", StartRule: StartStraightIn, EndRule: EndDoubleOut}, []string{"a"})
	assert.ErrorIs(t, err, ErrUnsupportedGameType)

	_, err = NewGameState(cfg501DoubleOut, nil)
	assert.ErrorIs(t, err, ErrNoPlayers)

	_, err = NewGameState(cfg501DoubleOut, []string{"a", "a"})
	assert.ErrorIs(t, err, ErrDuplicatePlayer)
}

func TestMaximumTurn(t *testing.T) {
	g := newGame(t, cfg501DoubleOut, "a")

	out := throwAll(t, g, t20, t20, t20)

	st := g.Players["a"]
	assert.Equal(t, 321, st.CurrentScore)
	assert.True(t, out.TurnComplete)
	assert.False(t, out.IsBust)
	require.Len(t, st.TurnHistory, 1)
	turn := st.TurnHistory[0]
	assert.Equal(t, 501, turn.ScoreAtStart)
	assert.Equal(t, 321, turn.ScoreAtEnd)
	assert.False(t, turn.IsBust)
	assert.Len(t, turn.Darts, 3)
}

func TestBustOvershootRevertsScore(t *testing.T) {
	g := newGame(t, cfg501DoubleOut, "a", "b")
	g.Players["a"].CurrentScore = 32

	out := throwAll(t, g, t20) // 60 > 32

	st := g.Players["a"]
	assert.True(t, out.IsBust)
	assert.True(t, out.TurnComplete)
	assert.Equal(t, 32, st.CurrentScore, "bust reverts to the turn's starting score")
	require.Len(t, st.TurnHistory, 1)
	assert.True(t, st.TurnHistory[0].IsBust)
	assert.Equal(t, "b", g.CurrentPlayerID(), "bust ends the turn")
}

func TestDoubleOutZeroWithoutDoubleIsBust(t *testing.T) {
	g := newGame(t, cfg501DoubleOut, "a", "b")
	g.Players["a"].CurrentScore = 40

	out := throwAll(t, g, s20, s20) // exactly 0, but last dart is a single

	assert.True(t, out.IsBust)
	assert.False(t, out.IsFinished)
	assert.Equal(t, 40, g.Players["a"].CurrentScore)
}

func TestDoubleOutOneLeftIsBust(t *testing.T) {
	g := newGame(t, cfg501DoubleOut, "a", "b")
	g.Players["a"].CurrentScore = 21

	out := throwAll(t, g, s20) // 1 is unreachable under double-out

	assert.True(t, out.IsBust)
	assert.Equal(t, 21, g.Players["a"].CurrentScore)
}

func TestStraightOutAllowsAnyFinish(t *testing.T) {
	g := newGame(t, cfg301StraightOut, "a")
	g.Players["a"].CurrentScore = 40

	out := throwAll(t, g, s20, s20)

	assert.True(t, out.IsFinished)
	assert.Equal(t, 0, g.Players["a"].CurrentScore)
	assert.Equal(t, 1, g.Players["a"].FinishedRank)
}

func TestDoubleFinishAssignsRank(t *testing.T) {
	g := newGame(t, cfg501DoubleOut, "a", "b")
	g.Players["a"].CurrentScore = 40

	out := throwAll(t, g, d20)

	st := g.Players["a"]
	assert.True(t, out.IsFinished)
	assert.False(t, out.IsBust)
	assert.Equal(t, 0, st.CurrentScore)
	assert.Equal(t, 1, st.FinishedRank)

	// The sole remaining player is auto-assigned the final rank.
	assert.True(t, out.GameOver)
	assert.True(t, g.GameOver)
	assert.Equal(t, 2, g.Players["b"].FinishedRank)
}

func TestTwoTurnFinishScenario(t *testing.T) {
	// Player at 40 scores a single 20, then finishes with D10 next turn.
	g := newGame(t, cfg501DoubleOut, "a")
	g.Players["a"].CurrentScore = 40

	out := throwAll(t, g, s20, s1, s1) // 40 -> 18
	require.False(t, out.IsBust)
	require.Equal(t, 18, g.Players["a"].CurrentScore)

	// Not 20 as in a clean scenario, so line up an exact double.
	g.Players["a"].CurrentScore = 20
	out = throwAll(t, g, d10)
	assert.True(t, out.IsFinished)
	assert.Equal(t, 1, g.Players["a"].FinishedRank)
}

func TestDoubleInScoresZeroUntilDouble(t *testing.T) {
	g := newGame(t, cfg501DoubleIn, "a")

	out := throwAll(t, g, t20) // not a double: recorded, scores nothing
	assert.False(t, out.TurnComplete)
	assert.False(t, g.Players["a"].HasDoubledIn)

	throwAll(t, g, d20) // qualifying double counts
	assert.True(t, g.Players["a"].HasDoubledIn)

	out = throwAll(t, g, s20)
	st := g.Players["a"]
	assert.True(t, out.TurnComplete)
	assert.Equal(t, 501-40-20, st.CurrentScore)

	require.Len(t, st.TurnHistory, 1)
	turn := st.TurnHistory[0]
	assert.False(t, turn.HadDoubledInBefore)
	assert.True(t, turn.DoubledInThisTurn)
	assert.Len(t, turn.Darts, 3)
}

func TestDoubleInPersistsAcrossTurns(t *testing.T) {
	g := newGame(t, cfg501DoubleIn, "a")

	throwAll(t, g, d20, s1, s1)
	require.True(t, g.Players["a"].HasDoubledIn)

	throwAll(t, g, s20, s20, s20)
	st := g.Players["a"]
	assert.Equal(t, 501-42-60, st.CurrentScore)
	assert.True(t, st.TurnHistory[1].HadDoubledInBefore)
	assert.False(t, st.TurnHistory[1].DoubledInThisTurn)
}

func TestTurnRotationSkipsFinishedPlayers(t *testing.T) {
	g := newGame(t, cfg301StraightOut, "a", "b", "c")
	g.Players["a"].CurrentScore = 20
	g.Players["b"].CurrentScore = 100
	g.Players["c"].CurrentScore = 100

	out := throwAll(t, g, s20)
	require.True(t, out.IsFinished)
	require.False(t, g.GameOver, "two active players remain")
	assert.Equal(t, 1, g.Players["a"].FinishedRank)
	assert.Equal(t, "b", g.CurrentPlayerID())

	throwAll(t, g, s1, s1, s1)
	assert.Equal(t, "c", g.CurrentPlayerID())

	// Rotation wraps back past the finished player.
	throwAll(t, g, s1, s1, s1)
	assert.Equal(t, "b", g.CurrentPlayerID())

	g.Players["b"].CurrentScore = 20
	out = throwAll(t, g, s20)
	assert.True(t, out.IsFinished)
	assert.True(t, out.GameOver)
	assert.Equal(t, 2, g.Players["b"].FinishedRank)
	assert.Equal(t, 3, g.Players["c"].FinishedRank)
}

func TestApplyThrowRejectsInvalidDartWithoutMutation(t *testing.T) {
	g := newGame(t, cfg501DoubleOut, "a")

	_, err := g.ApplyThrow(Dart{Segment: 25, Multiplier: 3})
	assert.ErrorIs(t, err, ErrInvalidDart)
	assert.Empty(t, g.CurrentTurn)
	assert.Empty(t, g.Throws())
	assert.Equal(t, 501, g.Players["a"].CurrentScore)
}

func TestApplyThrowAfterGameOver(t *testing.T) {
	g := newGame(t, cfg301StraightOut, "a")
	g.Players["a"].CurrentScore = 20
	throwAll(t, g, s20)
	require.True(t, g.GameOver)

	_, err := g.ApplyThrow(s1)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestUndoMidTurn(t *testing.T) {
	g := newGame(t, cfg501DoubleOut, "a")
	throwAll(t, g, t20, t20)

	require.NoError(t, g.UndoLastThrow())

	assert.Len(t, g.CurrentTurn, 1)
	assert.Equal(t, "a", g.CurrentPlayerID())
	assert.Len(t, g.Throws(), 1)
}

func TestUndoAcrossTurnBoundary(t *testing.T) {
	g := newGame(t, cfg501DoubleOut, "a", "b")
	throwAll(t, g, t20, t20, t20)
	require.Equal(t, "b", g.CurrentPlayerID())

	require.NoError(t, g.UndoLastThrow())

	// Back inside a's turn with two darts thrown and the turn reopened.
	assert.Equal(t, "a", g.CurrentPlayerID())
	assert.Len(t, g.CurrentTurn, 2)
	assert.Empty(t, g.Players["a"].TurnHistory)
	assert.Equal(t, 501, g.Players["a"].CurrentScore)
}

func TestUndoRevokesFinishAndGameOver(t *testing.T) {
	g := newGame(t, cfg301StraightOut, "a", "b")

	// a: 180 + 111, leaving 10, then finishes; b fills turns in between.
	throwAll(t, g, t20, t20, t20)
	throwAll(t, g, s1, s1, s1)
	throwAll(t, g, t20, Dart{Segment: 17, Multiplier: 3}, s1) // 180+60+51+1 = 292, 9 left
	throwAll(t, g, s1, s1, s1)
	out := throwAll(t, g, Dart{Segment: 9, Multiplier: 1})
	require.True(t, out.IsFinished)
	require.True(t, g.GameOver)
	require.Equal(t, 1, g.Players["a"].FinishedRank)
	require.Equal(t, 2, g.Players["b"].FinishedRank)

	require.NoError(t, g.UndoLastThrow())

	assert.False(t, g.GameOver)
	assert.Zero(t, g.Players["a"].FinishedRank)
	assert.Zero(t, g.Players["b"].FinishedRank)
	assert.Equal(t, 9, g.Players["a"].CurrentScore)
	assert.Equal(t, "a", g.CurrentPlayerID())
	assert.Len(t, g.CurrentTurn, 0)
}

func TestUndoEmptyLog(t *testing.T) {
	g := newGame(t, cfg501DoubleOut, "a")
	assert.ErrorIs(t, g.UndoLastThrow(), ErrNoThrows)
}
