package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"darts-tracker/internal/domain"

	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("not found")

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const playerColumns = "id, name, matches_played, wins, losses, created_at, updated_at"

func scanPlayer(row interface{ Scan(...any) error }) (domain.Player, error) {
	var p domain.Player
	err := row.Scan(&p.ID, &p.Name, &p.MatchesPlayed, &p.Wins, &p.Losses, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PlayerRepository) Create(ctx context.Context, player *domain.Player) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO players (`+playerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		player.ID, player.Name, player.MatchesPlayed, player.Wins, player.Losses,
		player.CreatedAt, player.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("player_id", player.ID).Msg("failed to insert player")
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

func (r *PlayerRepository) Get(ctx context.Context, id string) (*domain.Player, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ?`, id)

	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []domain.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *PlayerRepository) Search(ctx context.Context, query string, limit int) ([]domain.Player, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE name LIKE ? ORDER BY name LIMIT ?`,
		pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []domain.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// bumpCounters updates a player's cumulative stats inside an existing
// match-recording transaction.
func bumpCounters(ctx context.Context, tx *sql.Tx, playerID string, won bool, now time.Time) error {
	wins, losses := 0, 1
	if won {
		wins, losses = 1, 0
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE players
		 SET matches_played = matches_played + 1,
		     wins = wins + ?,
		     losses = losses + ?,
		     updated_at = ?
		 WHERE id = ?`,
		wins, losses, now, playerID)
	if err != nil {
		return fmt.Errorf("failed to update player counters: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("player %s: %w", playerID, ErrNotFound)
	}
	return nil
}
