// Package rating derives current skill ratings for a group of players by
// replaying the group's full match history in chronological order. The
// engine is a pure function of its inputs: it keeps no state between calls
// and never mutates the players or matches it is given.
package rating

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"darts-tracker/internal/domain"
)

var (
	ErrUnknownPlayer      = errors.New("match references unknown player")
	ErrTooFewParticipants = errors.New("multiplayer match needs at least 2 participants")
	ErrSelfMatch          = errors.New("1v1 match winner and loser are the same player")
)

// PlayerRating is one participant's before/after snapshot for one match.
type PlayerRating struct {
	EloBefore int
	EloAfter  int
	EloChange int
}

// MatchHistoryEntry records the rating movement of every participant of one
// processed match, in the order the matches were replayed.
type MatchHistoryEntry struct {
	MatchID   string
	MatchDate time.Time
	Ratings   map[string]PlayerRating
}

// CalculatedPlayer is a player's derived standing after the full replay.
type CalculatedPlayer struct {
	PlayerID           string
	Name               string
	CurrentElo         int
	RawElo             int
	DecayApplied       int
	DaysSinceLastMatch int
	LastMatchAt        time.Time
	MatchesPlayed      int
	Wins               int
	Losses             int
	IsProvisional      bool
}

type Result struct {
	MatchHistory   []MatchHistoryEntry
	CurrentRatings []CalculatedPlayer
}

// playerState is threaded through the replay fold, one per player.
type playerState struct {
	elo       int
	lastMatch time.Time
	played    bool
}

// ComputeRatings replays matches in non-decreasing CreatedAt order and
// returns the per-match rating history plus final standings. Matches are
// re-sorted defensively with a stable sort, so equal timestamps keep their
// input order. Inactivity decay, when enabled, is always computed relative
// to the match being processed; only the final standings pass uses now.
func ComputeRatings(players []domain.Player, matches []domain.Match, now time.Time, applyDecay bool) (*Result, error) {
	states := make(map[string]*playerState, len(players))
	for _, p := range players {
		states[p.ID] = &playerState{elo: BaseElo}
	}

	ordered := make([]domain.Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	history := make([]MatchHistoryEntry, 0, len(ordered))
	for _, m := range ordered {
		entry, err := replayMatch(states, m, applyDecay)
		if err != nil {
			return nil, err
		}
		history = append(history, entry)
	}

	ratings := make([]CalculatedPlayer, 0, len(players))
	for _, p := range players {
		st := states[p.ID]

		cp := CalculatedPlayer{
			PlayerID:      p.ID,
			Name:          p.Name,
			RawElo:        st.elo,
			CurrentElo:    st.elo,
			MatchesPlayed: p.MatchesPlayed,
			Wins:          p.Wins,
			Losses:        p.Losses,
			IsProvisional: p.MatchesPlayed < ProvisionalMatchCount,
		}
		if st.played {
			cp.LastMatchAt = st.lastMatch
			cp.DaysSinceLastMatch = int(math.Round(daysBetween(st.lastMatch, now)))
			if applyDecay {
				cp.CurrentElo = Decay(st.elo, st.lastMatch, now)
				cp.DecayApplied = cp.RawElo - cp.CurrentElo
			}
		}
		ratings = append(ratings, cp)
	}

	sort.SliceStable(ratings, func(i, j int) bool {
		return ratings[i].CurrentElo > ratings[j].CurrentElo
	})

	return &Result{MatchHistory: history, CurrentRatings: ratings}, nil
}

func replayMatch(states map[string]*playerState, m domain.Match, applyDecay bool) (MatchHistoryEntry, error) {
	entry := MatchHistoryEntry{
		MatchID:   m.ID,
		MatchDate: m.CreatedAt,
		Ratings:   make(map[string]PlayerRating),
	}

	switch m.MatchType {
	case domain.MatchType1v1:
		if m.WinnerID == m.LoserID {
			return entry, fmt.Errorf("match %s: %w", m.ID, ErrSelfMatch)
		}

		winnerBefore, err := eloBefore(states, m, m.WinnerID, applyDecay)
		if err != nil {
			return entry, err
		}
		loserBefore, err := eloBefore(states, m, m.LoserID, applyDecay)
		if err != nil {
			return entry, err
		}

		change := headToHeadChange(winnerBefore, loserBefore)
		apply(states, m, entry, m.WinnerID, winnerBefore, change)
		apply(states, m, entry, m.LoserID, loserBefore, -change)

	case domain.MatchTypeMultiplayer:
		if len(m.Participants) < 2 {
			return entry, fmt.Errorf("match %s: %w", m.ID, ErrTooFewParticipants)
		}

		before := make([]int, len(m.Participants))
		for i, part := range m.Participants {
			b, err := eloBefore(states, m, part.PlayerID, applyDecay)
			if err != nil {
				return entry, err
			}
			before[i] = b
		}

		// Each participant is scored independently against the field,
		// so multiplayer updates are not zero-sum across the match.
		changes := make([]int, len(m.Participants))
		for i, part := range m.Participants {
			opponents := make([]opponent, 0, len(m.Participants)-1)
			for j, other := range m.Participants {
				if j == i {
					continue
				}
				opponents = append(opponents, opponent{elo: before[j], rank: other.Rank})
			}
			changes[i] = fieldChange(before[i], part.Rank, opponents)
		}

		for i, part := range m.Participants {
			apply(states, m, entry, part.PlayerID, before[i], changes[i])
		}

	default:
		return entry, fmt.Errorf("match %s: unsupported match type %q", m.ID, m.MatchType)
	}

	return entry, nil
}

// eloBefore resolves a participant's rating going into a match, applying
// decay relative to the match's own timestamp when enabled.
func eloBefore(states map[string]*playerState, m domain.Match, playerID string, applyDecay bool) (int, error) {
	st, ok := states[playerID]
	if !ok {
		return 0, fmt.Errorf("match %s, player %s: %w", m.ID, playerID, ErrUnknownPlayer)
	}
	if applyDecay && st.played {
		return Decay(st.elo, st.lastMatch, m.CreatedAt), nil
	}
	return st.elo, nil
}

func apply(states map[string]*playerState, m domain.Match, entry MatchHistoryEntry, playerID string, before, change int) {
	st := states[playerID]
	st.elo = before + change
	st.lastMatch = m.CreatedAt
	st.played = true

	entry.Ratings[playerID] = PlayerRating{
		EloBefore: before,
		EloAfter:  before + change,
		EloChange: change,
	}
}
