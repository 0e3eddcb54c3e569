package repository

import (
	"context"
	"errors"
	"fmt"

	"sportschat/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
)

// GameStatRepository handles per-player game stat database operations.
type GameStatRepository struct {
	db *Database
}

// Upsert inserts or overwrites the stat line for a (game, player) pair.
// Box scores are re-ingested on every cycle a game is written, so this is
// the only write path.
func (r *GameStatRepository) Upsert(ctx context.Context, stat *models.GameStat) error {
	query := `
		INSERT INTO game_stats (
			game_id, player_id, points, rebounds, assists, steals, blocks, minutes_played
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (game_id, player_id) DO UPDATE SET
			points = EXCLUDED.points,
			rebounds = EXCLUDED.rebounds,
			assists = EXCLUDED.assists,
			steals = EXCLUDED.steals,
			blocks = EXCLUDED.blocks,
			minutes_played = EXCLUDED.minutes_played
		RETURNING id
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		stat.GameID, stat.PlayerID,
		stat.Points, stat.Rebounds, stat.Assists,
		stat.Steals, stat.Blocks, stat.MinutesPlayed,
	).Scan(&stat.ID)

	if err != nil {
		return fmt.Errorf("failed to upsert game stat: %w", err)
	}

	return nil
}

// GetByGameAndPlayer retrieves the stat line for a (game, player) pair.
// Returns models.ErrNotFound when none exists.
func (r *GameStatRepository) GetByGameAndPlayer(ctx context.Context, gameID, playerID int) (*models.GameStat, error) {
	query := `
		SELECT id, game_id, player_id, points, rebounds, assists, steals, blocks, minutes_played
		FROM game_stats
		WHERE game_id = $1 AND player_id = $2
	`

	var stat models.GameStat
	err := r.db.Pool.QueryRow(ctx, query, gameID, playerID).Scan(
		&stat.ID, &stat.GameID, &stat.PlayerID,
		&stat.Points, &stat.Rebounds, &stat.Assists,
		&stat.Steals, &stat.Blocks, &stat.MinutesPlayed,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("game stat game_id=%d player_id=%d: %w", gameID, playerID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game stat: %w", err)
	}

	return &stat, nil
}

// ListByGame retrieves all stat lines for a game.
func (r *GameStatRepository) ListByGame(ctx context.Context, gameID int) ([]*models.GameStat, error) {
	query := `
		SELECT id, game_id, player_id, points, rebounds, assists, steals, blocks, minutes_played
		FROM game_stats
		WHERE game_id = $1
		ORDER BY player_id
	`

	rows, err := r.db.Pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list game stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.GameStat
	for rows.Next() {
		var stat models.GameStat
		err := rows.Scan(
			&stat.ID, &stat.GameID, &stat.PlayerID,
			&stat.Points, &stat.Rebounds, &stat.Assists,
			&stat.Steals, &stat.Blocks, &stat.MinutesPlayed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game stats: %w", err)
	}

	return stats, nil
}

// Count returns the total number of stat rows.
func (r *GameStatRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM game_stats`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count game stats: %w", err)
	}

	return count, nil
}
