package server

import (
	"time"

	"darts-tracker/internal/dartgame"
	"darts-tracker/internal/domain"
	"darts-tracker/internal/rating"
)

type playerResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	MatchesPlayed int       `json:"matchesPlayed"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toPlayerResponse(p domain.Player) playerResponse {
	return playerResponse{
		ID:            p.ID,
		Name:          p.Name,
		MatchesPlayed: p.MatchesPlayed,
		Wins:          p.Wins,
		Losses:        p.Losses,
		CreatedAt:     p.CreatedAt,
	}
}

type participantResponse struct {
	PlayerID string `json:"playerId"`
	Rank     int    `json:"rank"`
	IsWinner bool   `json:"isWinner"`
}

type matchResponse struct {
	ID           string                `json:"id"`
	MatchType    string                `json:"matchType"`
	WinnerID     string                `json:"winnerId,omitempty"`
	LoserID      string                `json:"loserId,omitempty"`
	Participants []participantResponse `json:"participants"`
	CreatedAt    time.Time             `json:"createdAt"`
}

func toMatchResponse(m domain.Match) matchResponse {
	resp := matchResponse{
		ID:           m.ID,
		MatchType:    string(m.MatchType),
		WinnerID:     m.WinnerID,
		LoserID:      m.LoserID,
		Participants: []participantResponse{},
		CreatedAt:    m.CreatedAt,
	}
	for _, p := range m.Participants {
		resp.Participants = append(resp.Participants, participantResponse{
			PlayerID: p.PlayerID,
			Rank:     p.Rank,
			IsWinner: p.IsWinner,
		})
	}
	return resp
}

type standingResponse struct {
	PlayerID           string `json:"playerId"`
	Name               string `json:"name"`
	CurrentElo         int    `json:"currentElo"`
	RawElo             int    `json:"rawElo"`
	DecayApplied       int    `json:"decayApplied"`
	DaysSinceLastMatch int    `json:"daysSinceLastMatch"`
	MatchesPlayed      int    `json:"matchesPlayed"`
	Wins               int    `json:"wins"`
	Losses             int    `json:"losses"`
	IsProvisional      bool   `json:"isProvisional"`
}

func toStandingResponse(cp rating.CalculatedPlayer) standingResponse {
	return standingResponse{
		PlayerID:           cp.PlayerID,
		Name:               cp.Name,
		CurrentElo:         cp.CurrentElo,
		RawElo:             cp.RawElo,
		DecayApplied:       cp.DecayApplied,
		DaysSinceLastMatch: cp.DaysSinceLastMatch,
		MatchesPlayed:      cp.MatchesPlayed,
		Wins:               cp.Wins,
		Losses:             cp.Losses,
		IsProvisional:      cp.IsProvisional,
	}
}

type ratingChangeResponse struct {
	EloBefore int `json:"eloBefore"`
	EloAfter  int `json:"eloAfter"`
	EloChange int `json:"eloChange"`
}

type historyEntryResponse struct {
	MatchID   string                          `json:"matchId"`
	MatchDate time.Time                       `json:"matchDate"`
	Ratings   map[string]ratingChangeResponse `json:"ratings"`
}

func toHistoryEntryResponse(e rating.MatchHistoryEntry) historyEntryResponse {
	resp := historyEntryResponse{
		MatchID:   e.MatchID,
		MatchDate: e.MatchDate,
		Ratings:   make(map[string]ratingChangeResponse, len(e.Ratings)),
	}
	for playerID, pr := range e.Ratings {
		resp.Ratings[playerID] = ratingChangeResponse{
			EloBefore: pr.EloBefore,
			EloAfter:  pr.EloAfter,
			EloChange: pr.EloChange,
		}
	}
	return resp
}

type dartResponse struct {
	Segment    int    `json:"segment"`
	Multiplier int    `json:"multiplier"`
	Score      int    `json:"score"`
	Label      string `json:"label"`
}

func toDartResponse(d dartgame.Dart) dartResponse {
	return dartResponse{
		Segment:    d.Segment,
		Multiplier: d.Multiplier,
		Score:      d.Score(),
		Label:      d.Label(),
	}
}

type turnResponse struct {
	Darts              []dartResponse `json:"darts"`
	ScoreAtStart       int            `json:"scoreAtStart"`
	ScoreAtEnd         int            `json:"scoreAtEnd"`
	IsBust             bool           `json:"isBust"`
	HadDoubledInBefore bool           `json:"hadDoubledInBefore"`
	DoubledInThisTurn  bool           `json:"doubledInThisTurn"`
}

type gamePlayerStateResponse struct {
	PlayerID     string         `json:"playerId"`
	CurrentScore int            `json:"currentScore"`
	HasDoubledIn bool           `json:"hasDoubledIn"`
	FinishedRank int            `json:"finishedRank,omitempty"`
	TurnHistory  []turnResponse `json:"turnHistory"`
}

type gameStateResponse struct {
	ID              string                    `json:"id"`
	GameType        string                    `json:"gameType"`
	StartRule       string                    `json:"startRule"`
	EndRule         string                    `json:"endRule"`
	Status          string                    `json:"status"`
	Players         []gamePlayerStateResponse `json:"players"`
	CurrentPlayerID string                    `json:"currentPlayerId,omitempty"`
	CurrentTurn     []dartResponse            `json:"currentTurn"`
	GameOver        bool                      `json:"gameOver"`
	CreatedAt       time.Time                 `json:"createdAt"`
}

func toGameStateResponse(game *domain.Game, state *dartgame.GameState) gameStateResponse {
	resp := gameStateResponse{
		ID:              game.ID,
		GameType:        game.GameType,
		StartRule:       game.StartRule,
		EndRule:         game.EndRule,
		Status:          string(game.Status),
		Players:         []gamePlayerStateResponse{},
		CurrentPlayerID: state.CurrentPlayerID(),
		CurrentTurn:     []dartResponse{},
		GameOver:        state.GameOver,
		CreatedAt:       game.CreatedAt,
	}

	for _, id := range state.Order {
		ps := state.Players[id]
		player := gamePlayerStateResponse{
			PlayerID:     ps.PlayerID,
			CurrentScore: ps.CurrentScore,
			HasDoubledIn: ps.HasDoubledIn,
			FinishedRank: ps.FinishedRank,
			TurnHistory:  []turnResponse{},
		}
		for _, turn := range ps.TurnHistory {
			tr := turnResponse{
				Darts:              []dartResponse{},
				ScoreAtStart:       turn.ScoreAtStart,
				ScoreAtEnd:         turn.ScoreAtEnd,
				IsBust:             turn.IsBust,
				HadDoubledInBefore: turn.HadDoubledInBefore,
				DoubledInThisTurn:  turn.DoubledInThisTurn,
			}
			for _, d := range turn.Darts {
				tr.Darts = append(tr.Darts, toDartResponse(d))
			}
			player.TurnHistory = append(player.TurnHistory, tr)
		}
		resp.Players = append(resp.Players, player)
	}

	for _, d := range state.CurrentTurn {
		resp.CurrentTurn = append(resp.CurrentTurn, toDartResponse(d))
	}
	return resp
}

type throwResultResponse struct {
	IsBust       bool              `json:"isBust"`
	IsFinished   bool              `json:"isFinished"`
	TurnComplete bool              `json:"turnComplete"`
	GameOver     bool              `json:"gameOver"`
	State        gameStateResponse `json:"state"`
}
