package repository

import (
	"context"
	"errors"
	"fmt"

	"sportschat/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// PlayerRepository handles player database operations.
type PlayerRepository struct {
	db *Database
}

// Create inserts a new player.
func (r *PlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (name, team_id, position)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		player.Name, player.TeamID, player.Position,
	).Scan(&player.ID)

	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}

	log.Debug().
		Int("id", player.ID).
		Str("name", player.Name).
		Int("team_id", player.TeamID).
		Str("position", player.Position).
		Msg("Player created")

	return nil
}

// GetByNameAndTeam retrieves a player by display name and owning team.
// Returns models.ErrNotFound when no player matches.
func (r *PlayerRepository) GetByNameAndTeam(ctx context.Context, name string, teamID int) (*models.Player, error) {
	query := `
		SELECT id, name, team_id, position
		FROM players
		WHERE name = $1 AND team_id = $2
	`

	var player models.Player
	err := r.db.Pool.QueryRow(ctx, query, name, teamID).Scan(
		&player.ID, &player.Name, &player.TeamID, &player.Position,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("player %q team_id=%d: %w", name, teamID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return &player, nil
}

// ListByTeam retrieves all players on a team ordered by name.
func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	query := `
		SELECT id, name, team_id, position
		FROM players
		WHERE team_id = $1
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		var player models.Player
		err := rows.Scan(&player.ID, &player.Name, &player.TeamID, &player.Position)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, &player)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}

	return players, nil
}

// Count returns the total number of players.
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM players`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}

	return count, nil
}
