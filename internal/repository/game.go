package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"darts-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type GameRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewGameRepository(sqlDB *sql.DB, logger zerolog.Logger) *GameRepository {
	return &GameRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *GameRepository) CreateWithPlayers(ctx context.Context, game *domain.Game) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (id, game_type, start_rule, end_rule, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		game.ID, game.GameType, game.StartRule, game.EndRule, game.Status,
		game.CreatedAt, game.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	for _, gp := range game.Players {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO game_players (game_id, player_id, seat, finished_rank)
			 VALUES (?, ?, ?, ?)`,
			game.ID, gp.PlayerID, gp.Seat, gp.FinishedRank)
		if err != nil {
			return fmt.Errorf("failed to insert game player %s: %w", gp.PlayerID, err)
		}
	}

	return tx.Commit()
}

func (r *GameRepository) Get(ctx context.Context, id string) (*domain.Game, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, game_type, start_rule, end_rule, status, created_at, updated_at
		 FROM games WHERE id = ?`, id)

	game, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadPlayers(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// GetActive returns the most recently created live game, or nil when none
// is in progress. This is the "session pointer" the scoring UI resumes
// from.
func (r *GameRepository) GetActive(ctx context.Context) (*domain.Game, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, game_type, start_rule, end_rule, status, created_at, updated_at
		 FROM games WHERE status = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		domain.GameStatusLive)

	game, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadPlayers(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

func scanGame(row *sql.Row) (*domain.Game, error) {
	var g domain.Game
	err := row.Scan(&g.ID, &g.GameType, &g.StartRule, &g.EndRule, &g.Status,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GameRepository) loadPlayers(ctx context.Context, game *domain.Game) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT game_id, player_id, seat, finished_rank
		 FROM game_players WHERE game_id = ? ORDER BY seat`, game.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var gp domain.GamePlayer
		if err := rows.Scan(&gp.GameID, &gp.PlayerID, &gp.Seat, &gp.FinishedRank); err != nil {
			return err
		}
		game.Players = append(game.Players, gp)
	}
	return rows.Err()
}

// ListThrows returns a game's full throw log in applied order.
func (r *GameRepository) ListThrows(ctx context.Context, gameID string) ([]domain.DartThrow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, player_id, turn_number, throw_index, segment, multiplier, created_at
		 FROM throws WHERE game_id = ? ORDER BY rowid`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	throws := []domain.DartThrow{}
	for rows.Next() {
		var t domain.DartThrow
		if err := rows.Scan(&t.ID, &t.GameID, &t.PlayerID, &t.TurnNumber, &t.ThrowIndex,
			&t.Segment, &t.Multiplier, &t.CreatedAt); err != nil {
			return nil, err
		}
		throws = append(throws, t)
	}
	return throws, rows.Err()
}

func (r *GameRepository) AppendThrow(ctx context.Context, throw *domain.DartThrow) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO throws (id, game_id, player_id, turn_number, throw_index, segment, multiplier, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		throw.ID, throw.GameID, throw.PlayerID, throw.TurnNumber, throw.ThrowIndex,
		throw.Segment, throw.Multiplier, throw.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("game_id", throw.GameID).Msg("failed to insert throw")
		return fmt.Errorf("failed to insert throw: %w", err)
	}
	return nil
}

// DeleteLastThrow removes the most recently applied throw of a game and
// returns it, or nil when the log is empty.
func (r *GameRepository) DeleteLastThrow(ctx context.Context, gameID string) (*domain.DartThrow, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, game_id, player_id, turn_number, throw_index, segment, multiplier, created_at
		 FROM throws WHERE game_id = ? ORDER BY rowid DESC LIMIT 1`, gameID)

	var t domain.DartThrow
	err = row.Scan(&t.ID, &t.GameID, &t.PlayerID, &t.TurnNumber, &t.ThrowIndex,
		&t.Segment, &t.Multiplier, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM throws WHERE id = ?`, t.ID); err != nil {
		return nil, fmt.Errorf("failed to delete throw %s: %w", t.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateOutcome writes the game status and every player's finish rank in
// one transaction. Undo paths call this too, with zeroed ranks and a live
// status, to reopen a decided game.
func (r *GameRepository) UpdateOutcome(ctx context.Context, gameID string, status domain.GameStatus, ranks map[string]int, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE games SET status = ?, updated_at = ? WHERE id = ?`,
		status, now, gameID)
	if err != nil {
		return fmt.Errorf("failed to update game status: %w", err)
	}

	for playerID, rank := range ranks {
		_, err = tx.ExecContext(ctx,
			`UPDATE game_players SET finished_rank = ? WHERE game_id = ? AND player_id = ?`,
			rank, gameID, playerID)
		if err != nil {
			return fmt.Errorf("failed to update finish rank for %s: %w", playerID, err)
		}
	}

	return tx.Commit()
}
