package service

import (
	"context"
	"time"

	"darts-tracker/internal/config"
	"darts-tracker/internal/constants"
	"darts-tracker/internal/domain"
	"darts-tracker/internal/rating"
	"darts-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// RatingService feeds stored players and matches through the rating engine.
// Ratings are never persisted; every query is a fresh replay of the full
// match history.
type RatingService struct {
	playerRepo *repository.PlayerRepository
	matchRepo  *repository.MatchRepository
	cfg        *config.Config
	logger     zerolog.Logger
}

func NewRatingService(playerRepo *repository.PlayerRepository, matchRepo *repository.MatchRepository, cfg *config.Config, logger zerolog.Logger) *RatingService {
	return &RatingService{playerRepo: playerRepo, matchRepo: matchRepo, cfg: cfg, logger: logger}
}

// Compute loads the full player set and match history and replays it as of
// now. Inactivity decay follows the RATING_DECAY_ENABLED config toggle.
func (s *RatingService) Compute(ctx context.Context) (*rating.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	players, matches, err := s.loadInputs(ctx)
	if err != nil {
		return nil, err
	}

	result, err := rating.ComputeRatings(players, matches, time.Now(), s.cfg.DecayEnabled)
	if err != nil {
		s.logger.Error().Err(err).Msg("rating replay failed")
		return nil, err
	}

	s.logger.Debug().
		Int("players", len(players)).
		Int("matches", len(matches)).
		Bool("decay_enabled", s.cfg.DecayEnabled).
		Msg("ratings computed")
	return result, nil
}

func (s *RatingService) loadInputs(ctx context.Context) ([]domain.Player, []domain.Match, error) {
	g, gCtx := errgroup.WithContext(ctx)

	var players []domain.Player
	var matches []domain.Match

	g.Go(func() error {
		var err error
		players, err = s.playerRepo.List(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.List(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to load rating inputs")
		return nil, nil, err
	}
	return players, matches, nil
}
