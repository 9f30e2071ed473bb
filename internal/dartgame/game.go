// Package dartgame derives the complete state of a live 301/501 game from
// its ordered throw log. The state machine is deterministic: replaying the
// same config and log always rebuilds the same state, which is also how
// undo and session resumption work.
package dartgame

import (
	"errors"
	"fmt"
)

var (
	ErrNoPlayers       = errors.New("game needs at least one player")
	ErrDuplicatePlayer = errors.New("duplicate player in game")
	ErrGameOver        = errors.New("game is already over")
	ErrNoThrows        = errors.New("no throws to undo")
)

// TurnRecord is one completed turn, appended once the turn closes on its
// third dart, a bust, or a finish.
type TurnRecord struct {
	Darts              []Dart
	ScoreAtStart       int
	ScoreAtEnd         int
	IsBust             bool
	HadDoubledInBefore bool
	DoubledInThisTurn  bool
}

type PlayerState struct {
	PlayerID     string
	CurrentScore int
	HasDoubledIn bool
	FinishedRank int // 0 while unfinished
	TurnHistory  []TurnRecord
}

func (p *PlayerState) Finished() bool {
	return p.FinishedRank > 0
}

// Throw is one applied log entry. TurnNumber is 1-based and scoped per
// player; ThrowIndex runs 0..2 within the turn.
type Throw struct {
	PlayerID   string
	TurnNumber int
	ThrowIndex int
	Dart       Dart
}

type ThrowOutcome struct {
	Throw        Throw
	IsBust       bool
	IsFinished   bool
	TurnComplete bool
	GameOver     bool
}

type GameState struct {
	Config      Config
	Order       []string
	Players     map[string]*PlayerState
	CurrentTurn []Dart
	NextRank    int
	GameOver    bool

	currentIdx int
	// hasDoubledIn of the player on throw, captured when their turn
	// opened, so completed turns can record it.
	turnOpenedDoubledIn bool
	log                 []Throw
}

func NewGameState(cfg Config, playerIDs []string) (*GameState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(playerIDs) == 0 {
		return nil, ErrNoPlayers
	}

	order := make([]string, len(playerIDs))
	copy(order, playerIDs)

	players := make(map[string]*PlayerState, len(order))
	for _, id := range order {
		if _, exists := players[id]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
		}
		players[id] = &PlayerState{
			PlayerID:     id,
			CurrentScore: cfg.StartingScore(),
		}
	}

	return &GameState{
		Config:   cfg,
		Order:    order,
		Players:  players,
		NextRank: 1,
	}, nil
}

// CurrentPlayerID returns the player on throw, or "" once the game is over.
func (g *GameState) CurrentPlayerID() string {
	if g.GameOver {
		return ""
	}
	return g.Order[g.currentIdx]
}

// Throws returns a copy of the applied throw log.
func (g *GameState) Throws() []Throw {
	out := make([]Throw, len(g.log))
	copy(out, g.log)
	return out
}

// ApplyThrow validates and applies one dart for the player on throw. All
// validation happens before any mutation, so a rejected throw leaves the
// state untouched.
func (g *GameState) ApplyThrow(d Dart) (ThrowOutcome, error) {
	if g.GameOver {
		return ThrowOutcome{}, ErrGameOver
	}
	if err := d.Validate(); err != nil {
		return ThrowOutcome{}, err
	}

	st := g.Players[g.Order[g.currentIdx]]
	if len(g.CurrentTurn) == 0 {
		g.turnOpenedDoubledIn = st.HasDoubledIn
	}

	darts := make([]Dart, 0, len(g.CurrentTurn)+1)
	darts = append(darts, g.CurrentTurn...)
	darts = append(darts, d)

	hadDoubledInBefore := g.turnOpenedDoubledIn
	turnScore, doubledInThisTurn := turnProgress(darts, g.Config.StartRule, hadDoubledInBefore)
	potential := st.CurrentScore - turnScore
	verdict := evaluateDart(g.Config.EndRule, potential, d)

	out := ThrowOutcome{
		Throw: Throw{
			PlayerID:   st.PlayerID,
			TurnNumber: len(st.TurnHistory) + 1,
			ThrowIndex: len(g.CurrentTurn),
			Dart:       d,
		},
	}

	g.CurrentTurn = darts
	g.log = append(g.log, out.Throw)
	if doubledInThisTurn {
		// Doubling in sticks even if the turn later busts: only the
		// turn's score reverts, not the thrown darts.
		st.HasDoubledIn = true
	}

	switch verdict {
	case turnBust:
		out.IsBust = true
		out.TurnComplete = true
		g.completeTurn(st, st.CurrentScore, true, hadDoubledInBefore, doubledInThisTurn)
	case turnFinish:
		out.IsFinished = true
		out.TurnComplete = true
		st.FinishedRank = g.NextRank
		g.NextRank++
		g.completeTurn(st, 0, false, hadDoubledInBefore, doubledInThisTurn)
		g.settleIfDecided()
		out.GameOver = g.GameOver
	default:
		if len(g.CurrentTurn) == 3 {
			out.TurnComplete = true
			g.completeTurn(st, potential, false, hadDoubledInBefore, doubledInThisTurn)
		}
	}

	if out.TurnComplete && !g.GameOver {
		g.advance()
	}

	return out, nil
}

// UndoLastThrow removes the most recent dart, even across a turn boundary,
// and rebuilds the state by replaying the shortened log. Any finish rank or
// game-over the undone dart had produced is revoked by the replay.
func (g *GameState) UndoLastThrow() error {
	if len(g.log) == 0 {
		return ErrNoThrows
	}

	trimmed := g.log[:len(g.log)-1]
	fresh, err := NewGameState(g.Config, g.Order)
	if err != nil {
		return err
	}
	for _, th := range trimmed {
		if _, err := fresh.ApplyThrow(th.Dart); err != nil {
			return err
		}
	}

	*g = *fresh
	return nil
}

func (g *GameState) completeTurn(st *PlayerState, scoreAtEnd int, isBust, hadDoubledInBefore, doubledInThisTurn bool) {
	st.TurnHistory = append(st.TurnHistory, TurnRecord{
		Darts:              g.CurrentTurn,
		ScoreAtStart:       st.CurrentScore,
		ScoreAtEnd:         scoreAtEnd,
		IsBust:             isBust,
		HadDoubledInBefore: hadDoubledInBefore,
		DoubledInThisTurn:  doubledInThisTurn,
	})
	st.CurrentScore = scoreAtEnd
	g.CurrentTurn = nil
}

// settleIfDecided ends the game once at most one active player remains; a
// sole remaining player is auto-assigned the final rank.
func (g *GameState) settleIfDecided() {
	var remaining []*PlayerState
	for _, id := range g.Order {
		if !g.Players[id].Finished() {
			remaining = append(remaining, g.Players[id])
		}
	}
	if len(remaining) > 1 {
		return
	}
	if len(remaining) == 1 {
		remaining[0].FinishedRank = g.NextRank
		g.NextRank++
	}
	g.GameOver = true
}

// advance moves play to the next unfinished player in seat order, wrapping
// circularly.
func (g *GameState) advance() {
	n := len(g.Order)
	for i := 1; i <= n; i++ {
		idx := (g.currentIdx + i) % n
		if !g.Players[g.Order[idx]].Finished() {
			g.currentIdx = idx
			return
		}
	}
}
