package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"darts-tracker/internal/dartgame"
	"darts-tracker/internal/rating"
	"darts-tracker/internal/repository"
	"darts-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Server struct {
	players *service.PlayerService
	matches *service.MatchService
	ratings *service.RatingService
	games   *service.GameService
	logger  zerolog.Logger
}

func NewServer(players *service.PlayerService, matches *service.MatchService, ratings *service.RatingService, games *service.GameService, logger zerolog.Logger) *Server {
	return &Server{players: players, matches: matches, ratings: ratings, games: games, logger: logger}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/players", s.handleCreatePlayer)
		r.Get("/players", s.handleListPlayers)
		r.Get("/players/search", s.handleSearchPlayers)
		r.Get("/players/{playerID}", s.handleGetPlayer)

		r.Post("/matches", s.handleRecordMatch)
		r.Get("/matches", s.handleListMatches)

		r.Get("/standings", s.handleStandings)
		r.Get("/ratings/history", s.handleRatingHistory)

		r.Post("/games", s.handleCreateGame)
		r.Get("/games/active", s.handleActiveGame)
		r.Get("/games/{gameID}", s.handleGetGame)
		r.Post("/games/{gameID}/throws", s.handleAddThrow)
		r.Post("/games/{gameID}/undo", s.handleUndoThrow)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		s.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("request rejected")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dartgame.ErrGameOver),
		errors.Is(err, dartgame.ErrNoThrows):
		return http.StatusConflict
	case errors.Is(err, dartgame.ErrInvalidDart),
		errors.Is(err, dartgame.ErrUnsupportedGameType),
		errors.Is(err, dartgame.ErrUnsupportedRule),
		errors.Is(err, dartgame.ErrNoPlayers),
		errors.Is(err, dartgame.ErrDuplicatePlayer),
		errors.Is(err, service.ErrEmptyName),
		errors.Is(err, service.ErrSameOpponent),
		errors.Is(err, service.ErrNotEnoughEntrants),
		errors.Is(err, service.ErrInvalidRank),
		errors.Is(err, service.ErrDuplicateEntrant):
		return http.StatusBadRequest
	case errors.Is(err, rating.ErrUnknownPlayer),
		errors.Is(err, rating.ErrTooFewParticipants),
		errors.Is(err, rating.ErrSelfMatch),
		errors.Is(err, dartgame.ErrOutOfTurn):
		// Stored data contradicts itself; nothing the client sent.
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
