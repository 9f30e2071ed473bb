package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"darts-tracker/internal/constants"
	"darts-tracker/internal/domain"
	"darts-tracker/internal/repository"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var (
	ErrSameOpponent      = errors.New("winner and loser must be different players")
	ErrNotEnoughEntrants = errors.New("multiplayer match needs at least 2 entrants")
	ErrInvalidRank       = errors.New("finish rank must be at least 1")
	ErrDuplicateEntrant  = errors.New("player entered more than once")
)

// ParticipantEntry is a caller-supplied (player, finish rank) pair for a
// multiplayer match.
type ParticipantEntry struct {
	PlayerID string
	Rank     int
}

type MatchService struct {
	matchRepo  *repository.MatchRepository
	playerRepo *repository.PlayerRepository
	logger     zerolog.Logger
}

func NewMatchService(matchRepo *repository.MatchRepository, playerRepo *repository.PlayerRepository, logger zerolog.Logger) *MatchService {
	return &MatchService{matchRepo: matchRepo, playerRepo: playerRepo, logger: logger}
}

// Record1v1 persists a decided head-to-head match. The winner/loser pair is
// stored alongside equivalent participant rows, so the rating replay and
// the match listing see one uniform shape.
func (s *MatchService) Record1v1(ctx context.Context, winnerID, loserID string) (*domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if winnerID == loserID {
		return nil, ErrSameOpponent
	}
	for _, id := range []string{winnerID, loserID} {
		if _, err := s.playerRepo.Get(ctx, id); err != nil {
			return nil, fmt.Errorf("participant lookup: %w", err)
		}
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	match := &domain.Match{
		ID:        id,
		MatchType: domain.MatchType1v1,
		WinnerID:  winnerID,
		LoserID:   loserID,
		Participants: []domain.MatchParticipant{
			{MatchID: id, PlayerID: winnerID, Rank: 1, IsWinner: true},
			{MatchID: id, PlayerID: loserID, Rank: 2},
		},
		CreatedAt: time.Now(),
	}

	if err := s.matchRepo.CreateWithParticipants(ctx, match); err != nil {
		s.logger.Error().Err(err).Str("winner_id", winnerID).Str("loser_id", loserID).Msg("failed to record 1v1 match")
		return nil, err
	}

	s.logger.Info().
		Str("match_id", match.ID).
		Str("winner_id", winnerID).
		Str("loser_id", loserID).
		Msg("1v1 match recorded")
	return match, nil
}

// RecordMultiplayer persists a ranked multiplayer match. Rank 1 marks the
// winner(s); equal ranks are draws between those players.
func (s *MatchService) RecordMultiplayer(ctx context.Context, entries []ParticipantEntry) (*domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if len(entries) < 2 {
		return nil, ErrNotEnoughEntrants
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Rank < 1 {
			return nil, fmt.Errorf("player %s: %w", e.PlayerID, ErrInvalidRank)
		}
		if seen[e.PlayerID] {
			return nil, fmt.Errorf("player %s: %w", e.PlayerID, ErrDuplicateEntrant)
		}
		seen[e.PlayerID] = true

		if _, err := s.playerRepo.Get(ctx, e.PlayerID); err != nil {
			return nil, fmt.Errorf("participant lookup: %w", err)
		}
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	match := &domain.Match{
		ID:        id,
		MatchType: domain.MatchTypeMultiplayer,
		CreatedAt: time.Now(),
	}
	for _, e := range entries {
		match.Participants = append(match.Participants, domain.MatchParticipant{
			MatchID:  id,
			PlayerID: e.PlayerID,
			Rank:     e.Rank,
			IsWinner: e.Rank == 1,
		})
	}

	if err := s.matchRepo.CreateWithParticipants(ctx, match); err != nil {
		s.logger.Error().Err(err).Int("entrants", len(entries)).Msg("failed to record multiplayer match")
		return nil, err
	}

	s.logger.Info().
		Str("match_id", match.ID).
		Int("entrants", len(entries)).
		Msg("multiplayer match recorded")
	return match, nil
}

func (s *MatchService) ListMatches(ctx context.Context) ([]domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.matchRepo.List(ctx)
}
