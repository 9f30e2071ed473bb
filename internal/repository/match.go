package repository

import (
	"context"
	"database/sql"
	"fmt"

	"darts-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// CreateWithParticipants inserts a match, its participant rows, and the
// players' cumulative counter bumps in one transaction, so a failed insert
// never leaves half a match behind.
func (r *MatchRepository) CreateWithParticipants(ctx context.Context, match *domain.Match) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var winnerID, loserID any
	if match.MatchType == domain.MatchType1v1 {
		winnerID, loserID = match.WinnerID, match.LoserID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO matches (id, match_type, winner_id, loser_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		match.ID, match.MatchType, winnerID, loserID, match.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}

	for _, p := range match.Participants {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO match_participants (match_id, player_id, finish_rank, is_winner)
			 VALUES (?, ?, ?, ?)`,
			match.ID, p.PlayerID, p.Rank, p.IsWinner)
		if err != nil {
			return fmt.Errorf("failed to insert participant %s: %w", p.PlayerID, err)
		}

		if err := bumpCounters(ctx, tx, p.PlayerID, p.IsWinner, match.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// List returns all matches with their participants in chronological order.
// Equal timestamps fall back to insertion order, which the rating replay
// relies on as its tie-break.
func (r *MatchRepository) List(ctx context.Context) ([]domain.Match, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, match_type, winner_id, loser_id, created_at
		 FROM matches ORDER BY created_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []domain.Match{}
	index := make(map[string]int)
	for rows.Next() {
		var m domain.Match
		var winnerID, loserID sql.NullString
		if err := rows.Scan(&m.ID, &m.MatchType, &winnerID, &loserID, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.WinnerID = winnerID.String
		m.LoserID = loserID.String
		index[m.ID] = len(matches)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	parts, err := r.db.QueryContext(ctx,
		`SELECT match_id, player_id, finish_rank, is_winner
		 FROM match_participants ORDER BY match_id, finish_rank`)
	if err != nil {
		return nil, err
	}
	defer parts.Close()

	for parts.Next() {
		var p domain.MatchParticipant
		if err := parts.Scan(&p.MatchID, &p.PlayerID, &p.Rank, &p.IsWinner); err != nil {
			return nil, err
		}
		if i, ok := index[p.MatchID]; ok {
			matches[i].Participants = append(matches[i].Participants, p)
		}
	}
	return matches, parts.Err()
}

func (r *MatchRepository) Get(ctx context.Context, id string) (*domain.Match, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, match_type, winner_id, loser_id, created_at
		 FROM matches WHERE id = ?`, id)

	var m domain.Match
	var winnerID, loserID sql.NullString
	err := row.Scan(&m.ID, &m.MatchType, &winnerID, &loserID, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	m.WinnerID = winnerID.String
	m.LoserID = loserID.String

	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, player_id, finish_rank, is_winner
		 FROM match_participants WHERE match_id = ? ORDER BY finish_rank`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.MatchParticipant
		if err := rows.Scan(&p.MatchID, &p.PlayerID, &p.Rank, &p.IsWinner); err != nil {
			return nil, err
		}
		m.Participants = append(m.Participants, p)
	}
	return &m, rows.Err()
}
