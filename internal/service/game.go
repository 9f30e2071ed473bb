package service

import (
	"context"
	"fmt"
	"time"

	"darts-tracker/internal/constants"
	"darts-tracker/internal/dartgame"
	"darts-tracker/internal/domain"
	"darts-tracker/internal/repository"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// GameConfigInput is the caller-supplied rule set for a new game.
type GameConfigInput struct {
	GameType  string
	StartRule string
	EndRule   string
}

// GameService hosts live games. The engine state is never stored: the
// persisted throw log is the source of truth, and every read rebuilds the
// state by replay. Writes are dispatched only after the engine has accepted
// a transition; if a write fails, the caller's recovery path is to re-fetch
// and replay.
type GameService struct {
	gameRepo   *repository.GameRepository
	playerRepo *repository.PlayerRepository
	logger     zerolog.Logger
}

func NewGameService(gameRepo *repository.GameRepository, playerRepo *repository.PlayerRepository, logger zerolog.Logger) *GameService {
	return &GameService{gameRepo: gameRepo, playerRepo: playerRepo, logger: logger}
}

func (s *GameService) CreateGame(ctx context.Context, cfg GameConfigInput, playerIDs []string) (*domain.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	engineCfg := dartgame.Config{
		GameType:  cfg.GameType,
		StartRule: cfg.StartRule,
		EndRule:   cfg.EndRule,
	}
	// The engine validates the rule set and the player list shape.
	if _, err := dartgame.NewGameState(engineCfg, playerIDs); err != nil {
		return nil, err
	}

	for _, id := range playerIDs {
		if _, err := s.playerRepo.Get(ctx, id); err != nil {
			return nil, fmt.Errorf("game player lookup: %w", err)
		}
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	game := &domain.Game{
		ID:        id,
		GameType:  cfg.GameType,
		StartRule: cfg.StartRule,
		EndRule:   cfg.EndRule,
		Status:    domain.GameStatusLive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for seat, playerID := range playerIDs {
		game.Players = append(game.Players, domain.GamePlayer{
			GameID:   id,
			PlayerID: playerID,
			Seat:     seat,
		})
	}

	if err := s.gameRepo.CreateWithPlayers(ctx, game); err != nil {
		s.logger.Error().Err(err).Str("game_type", cfg.GameType).Msg("failed to create game")
		return nil, err
	}

	s.logger.Info().
		Str("game_id", game.ID).
		Str("game_type", cfg.GameType).
		Str("start_rule", cfg.StartRule).
		Str("end_rule", cfg.EndRule).
		Int("players", len(playerIDs)).
		Msg("game created")
	return game, nil
}

// Game returns the stored game row without replaying its throw log.
func (s *GameService) Game(ctx context.Context, gameID string) (*domain.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.gameRepo.Get(ctx, gameID)
}

func (s *GameService) GetState(ctx context.Context, gameID string) (*domain.Game, *dartgame.GameState, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	game, err := s.gameRepo.Get(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	state, err := s.replay(ctx, game)
	if err != nil {
		return nil, nil, err
	}
	return game, state, nil
}

// ActiveGame resumes the most recent live game, or returns nils when no
// game is in progress.
func (s *GameService) ActiveGame(ctx context.Context) (*domain.Game, *dartgame.GameState, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	game, err := s.gameRepo.GetActive(ctx)
	if err != nil || game == nil {
		return nil, nil, err
	}

	state, err := s.replay(ctx, game)
	if err != nil {
		return nil, nil, err
	}
	return game, state, nil
}

// AddThrow applies one dart through the engine and persists it after the
// engine has accepted it. A game-ending dart also writes the finish ranks
// and closes the game row.
func (s *GameService) AddThrow(ctx context.Context, gameID string, segment, multiplier int) (*dartgame.GameState, dartgame.ThrowOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	game, err := s.gameRepo.Get(ctx, gameID)
	if err != nil {
		return nil, dartgame.ThrowOutcome{}, err
	}

	state, err := s.replay(ctx, game)
	if err != nil {
		return nil, dartgame.ThrowOutcome{}, err
	}

	out, err := state.ApplyThrow(dartgame.Dart{Segment: segment, Multiplier: multiplier})
	if err != nil {
		return nil, dartgame.ThrowOutcome{}, err
	}

	throwID, err := gonanoid.New()
	if err != nil {
		return nil, dartgame.ThrowOutcome{}, err
	}
	throw := &domain.DartThrow{
		ID:         throwID,
		GameID:     gameID,
		PlayerID:   out.Throw.PlayerID,
		TurnNumber: out.Throw.TurnNumber,
		ThrowIndex: out.Throw.ThrowIndex,
		Segment:    segment,
		Multiplier: multiplier,
		CreatedAt:  time.Now(),
	}
	if err := s.gameRepo.AppendThrow(ctx, throw); err != nil {
		return nil, dartgame.ThrowOutcome{}, err
	}

	if out.GameOver {
		if err := s.gameRepo.UpdateOutcome(ctx, gameID, domain.GameStatusFinished, finishRanks(state), time.Now()); err != nil {
			return nil, dartgame.ThrowOutcome{}, err
		}
		s.logger.Info().Str("game_id", gameID).Msg("game finished")
	}

	s.logger.Debug().
		Str("game_id", gameID).
		Str("player_id", out.Throw.PlayerID).
		Str("dart", out.Throw.Dart.Label()).
		Bool("bust", out.IsBust).
		Bool("finished", out.IsFinished).
		Msg("throw applied")
	return state, out, nil
}

// UndoThrow removes the game's most recent dart and rebuilds the state from
// the shortened log. Undoing a game-ending dart reopens the game and
// revokes the affected finish ranks.
func (s *GameService) UndoThrow(ctx context.Context, gameID string) (*dartgame.GameState, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	game, err := s.gameRepo.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.gameRepo.DeleteLastThrow(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, dartgame.ErrNoThrows
	}

	state, err := s.replay(ctx, game)
	if err != nil {
		return nil, err
	}

	// A log that just lost its final throw can never be a decided game,
	// so the row always reopens as live.
	if err := s.gameRepo.UpdateOutcome(ctx, gameID, domain.GameStatusLive, finishRanks(state), time.Now()); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("game_id", gameID).
		Str("player_id", deleted.PlayerID).
		Int("turn_number", deleted.TurnNumber).
		Int("throw_index", deleted.ThrowIndex).
		Msg("throw undone")
	return state, nil
}

func (s *GameService) replay(ctx context.Context, game *domain.Game) (*dartgame.GameState, error) {
	throws, err := s.gameRepo.ListThrows(ctx, game.ID)
	if err != nil {
		return nil, err
	}

	order := make([]string, len(game.Players))
	for i, gp := range game.Players {
		order[i] = gp.PlayerID
	}

	cfg := dartgame.Config{
		GameType:  game.GameType,
		StartRule: game.StartRule,
		EndRule:   game.EndRule,
	}
	state, err := dartgame.ComputeGameState(cfg, order, throws)
	if err != nil {
		s.logger.Error().Err(err).Str("game_id", game.ID).Msg("throw log replay failed")
		return nil, err
	}
	return state, nil
}

func finishRanks(state *dartgame.GameState) map[string]int {
	ranks := make(map[string]int, len(state.Players))
	for id, ps := range state.Players {
		ranks[id] = ps.FinishedRank
	}
	return ranks
}
