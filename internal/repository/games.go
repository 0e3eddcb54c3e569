package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sportschat/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GameRepository handles game database operations.
type GameRepository struct {
	db *Database
}

const gameColumns = `id, round, date_played, location, away_team_id, home_team_id,
	       winner_id, away_score, home_score, last_updated`

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID, &game.Round, &game.DatePlayed, &game.Location,
		&game.AwayTeamID, &game.HomeTeamID, &game.WinnerID,
		&game.AwayScore, &game.HomeScore, &game.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// Create inserts a new game and bumps its last_updated timestamp.
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (
			round, date_played, location, away_team_id, home_team_id,
			winner_id, away_score, home_score, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, last_updated
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		game.Round, game.DatePlayed, game.Location,
		game.AwayTeamID, game.HomeTeamID, game.WinnerID,
		game.AwayScore, game.HomeScore,
	).Scan(&game.ID, &game.LastUpdated)

	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	log.Debug().
		Int("id", game.ID).
		Int("away_team_id", game.AwayTeamID).
		Int("home_team_id", game.HomeTeamID).
		Str("round", game.Round).
		Msg("Game created")

	return nil
}

// Update rewrites a stored game's mutable fields (round, location, winner,
// scores) and bumps last_updated. Team slots and date never change.
func (r *GameRepository) Update(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE games SET
			round = $1,
			location = $2,
			winner_id = $3,
			away_score = $4,
			home_score = $5,
			last_updated = NOW()
		WHERE id = $6
		RETURNING last_updated
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		game.Round, game.Location, game.WinnerID,
		game.AwayScore, game.HomeScore, game.ID,
	).Scan(&game.LastUpdated)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("game id=%d: %w", game.ID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

// FindByTeamsAndDate retrieves the game played between two teams on a given
// date. The team pair is unordered: a row stored with the slots swapped
// still matches. Returns models.ErrNotFound when no game exists.
func (r *GameRepository) FindByTeamsAndDate(ctx context.Context, teamA, teamB int, date time.Time) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE ((away_team_id = $1 AND home_team_id = $2) OR
		       (away_team_id = $2 AND home_team_id = $1))
		  AND date_played = $3
	`

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, teamA, teamB, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("game teams=(%d,%d) date=%s: %w",
			teamA, teamB, date.Format("2006-01-02"), models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find game: %w", err)
	}

	return game, nil
}

// GetByID retrieves a game by its database ID.
func (r *GameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE id = $1
	`

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("game id=%d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// ListByDate retrieves all games played on a given date.
func (r *GameRepository) ListByDate(ctx context.Context, date time.Time) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE date_played = $1
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// Count returns the total number of games.
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM games`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}
