package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"darts-tracker/internal/domain"
	"darts-tracker/internal/service"

	"github.com/go-chi/chi/v5"
)

var errBadJSON = errors.New("invalid request body")

func decode(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return errBadJSON
	}
	return nil
}

type createPlayerRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	player, err := s.players.CreatePlayer(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlayerResponse(*player))
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.players.ListPlayers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]playerResponse, 0, len(players))
	for _, p := range players {
		resp = append(resp, toPlayerResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearchPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.players.SearchPlayers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]playerResponse, 0, len(players))
	for _, p := range players {
		resp = append(resp, toPlayerResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := s.players.GetPlayer(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlayerResponse(*player))
}

type recordMatchRequest struct {
	MatchType    string `json:"matchType"`
	WinnerID     string `json:"winnerId"`
	LoserID      string `json:"loserId"`
	Participants []struct {
		PlayerID string `json:"playerId"`
		Rank     int    `json:"rank"`
	} `json:"participants"`
}

func (s *Server) handleRecordMatch(w http.ResponseWriter, r *http.Request) {
	var req recordMatchRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var match *domain.Match
	var err error
	switch domain.MatchType(req.MatchType) {
	case domain.MatchType1v1:
		match, err = s.matches.Record1v1(r.Context(), req.WinnerID, req.LoserID)
	case domain.MatchTypeMultiplayer:
		entries := make([]service.ParticipantEntry, 0, len(req.Participants))
		for _, p := range req.Participants {
			entries = append(entries, service.ParticipantEntry{PlayerID: p.PlayerID, Rank: p.Rank})
		}
		match, err = s.matches.RecordMultiplayer(r.Context(), entries)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "matchType must be 1v1 or multiplayer"})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMatchResponse(*match))
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.matches.ListMatches(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		resp = append(resp, toMatchResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	result, err := s.ratings.Compute(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]standingResponse, 0, len(result.CurrentRatings))
	for _, cp := range result.CurrentRatings {
		resp = append(resp, toStandingResponse(cp))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRatingHistory(w http.ResponseWriter, r *http.Request) {
	result, err := s.ratings.Compute(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]historyEntryResponse, 0, len(result.MatchHistory))
	for _, e := range result.MatchHistory {
		resp = append(resp, toHistoryEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

type createGameRequest struct {
	GameType  string   `json:"gameType"`
	StartRule string   `json:"startRule"`
	EndRule   string   `json:"endRule"`
	PlayerIDs []string `json:"playerIds"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	cfg := service.GameConfigInput{
		GameType:  req.GameType,
		StartRule: req.StartRule,
		EndRule:   req.EndRule,
	}
	game, err := s.games.CreateGame(r.Context(), cfg, req.PlayerIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	_, state, err := s.games.GetState(r.Context(), game.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGameStateResponse(game, state))
}

func (s *Server) handleActiveGame(w http.ResponseWriter, r *http.Request) {
	game, state, err := s.games.ActiveGame(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if game == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no live game"})
		return
	}
	writeJSON(w, http.StatusOK, toGameStateResponse(game, state))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, state, err := s.games.GetState(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGameStateResponse(game, state))
}

type addThrowRequest struct {
	Segment    int `json:"segment"`
	Multiplier int `json:"multiplier"`
}

func (s *Server) handleAddThrow(w http.ResponseWriter, r *http.Request) {
	var req addThrowRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	gameID := chi.URLParam(r, "gameID")
	state, out, err := s.games.AddThrow(r.Context(), gameID, req.Segment, req.Multiplier)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	game, err := s.games.Game(r.Context(), gameID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, throwResultResponse{
		IsBust:       out.IsBust,
		IsFinished:   out.IsFinished,
		TurnComplete: out.TurnComplete,
		GameOver:     out.GameOver,
		State:        toGameStateResponse(game, state),
	})
}

func (s *Server) handleUndoThrow(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	state, err := s.games.UndoThrow(r.Context(), gameID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	game, err := s.games.Game(r.Context(), gameID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGameStateResponse(game, state))
}
