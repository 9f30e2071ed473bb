package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"darts-tracker/internal/constants"
	"darts-tracker/internal/domain"
	"darts-tracker/internal/repository"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrEmptyName = errors.New("player name must not be empty")

type PlayerService struct {
	repo   *repository.PlayerRepository
	logger zerolog.Logger
}

func NewPlayerService(repo *repository.PlayerRepository, logger zerolog.Logger) *PlayerService {
	return &PlayerService{repo: repo, logger: logger}
}

func (s *PlayerService) CreatePlayer(ctx context.Context, name string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	player := &domain.Player{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, player); err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create player")
		return nil, err
	}

	s.logger.Info().Str("player_id", player.ID).Str("name", name).Msg("player created")
	return player, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.repo.Get(ctx, id)
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.repo.List(ctx)
}

func (s *PlayerService) SearchPlayers(ctx context.Context, query string) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	s.logger.Debug().Str("query", query).Msg("searching players")
	return s.repo.Search(ctx, query, constants.SearchSuggestionLimit)
}
