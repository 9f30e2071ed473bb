package dartgame

import (
	"errors"
	"fmt"
	"sort"

	"darts-tracker/internal/domain"
)

var ErrOutOfTurn = errors.New("throw log out of order")

// ComputeGameState rebuilds a live game from its persisted throw log.
// Throws carry (player, turn number, throw index); global chronology is
// reconstructed by round: turn N of every seat precedes turn N+1 of any
// seat, and within a round seats throw in order. The sort is stable, so
// equal keys keep their input order. Each throw is then verified against
// the state machine, so a log that contradicts the turn sequencing is
// rejected instead of replaying into garbage.
func ComputeGameState(cfg Config, playerIDs []string, throws []domain.DartThrow) (*GameState, error) {
	state, err := NewGameState(cfg, playerIDs)
	if err != nil {
		return nil, err
	}

	seat := make(map[string]int, len(playerIDs))
	for i, id := range state.Order {
		seat[id] = i
	}

	ordered := make([]domain.DartThrow, len(throws))
	copy(ordered, throws)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.TurnNumber != b.TurnNumber {
			return a.TurnNumber < b.TurnNumber
		}
		if seat[a.PlayerID] != seat[b.PlayerID] {
			return seat[a.PlayerID] < seat[b.PlayerID]
		}
		return a.ThrowIndex < b.ThrowIndex
	})

	for _, th := range ordered {
		if _, ok := seat[th.PlayerID]; !ok {
			return nil, fmt.Errorf("throw %s: player %s is not in this game", th.ID, th.PlayerID)
		}
		if state.GameOver {
			return nil, fmt.Errorf("throw %s: %w: game already decided", th.ID, ErrOutOfTurn)
		}
		if current := state.CurrentPlayerID(); th.PlayerID != current {
			return nil, fmt.Errorf("throw %s: %w: expected %s on throw, got %s", th.ID, ErrOutOfTurn, current, th.PlayerID)
		}

		st := state.Players[th.PlayerID]
		if want := len(st.TurnHistory) + 1; th.TurnNumber != want {
			return nil, fmt.Errorf("throw %s: %w: expected turn %d, got %d", th.ID, ErrOutOfTurn, want, th.TurnNumber)
		}
		if want := len(state.CurrentTurn); th.ThrowIndex != want {
			return nil, fmt.Errorf("throw %s: %w: expected throw index %d, got %d", th.ID, ErrOutOfTurn, want, th.ThrowIndex)
		}

		if _, err := state.ApplyThrow(Dart{Segment: th.Segment, Multiplier: th.Multiplier}); err != nil {
			return nil, fmt.Errorf("throw %s: %w", th.ID, err)
		}
	}

	return state, nil
}
