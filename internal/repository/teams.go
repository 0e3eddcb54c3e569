package repository

import (
	"context"
	"errors"
	"fmt"

	"sportschat/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// TeamRepository handles team database operations.
type TeamRepository struct {
	db *Database
}

// Create inserts a new team. Wins and losses start at zero; this job never
// updates them afterwards.
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, coach_name, conference, seed, wins, losses, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, last_updated
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		team.Name, team.CoachName, team.Conference, team.Seed,
		team.Wins, team.Losses,
	).Scan(&team.ID, &team.LastUpdated)

	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	log.Debug().
		Int("id", team.ID).
		Str("name", team.Name).
		Msg("Team created")

	return nil
}

// GetByName retrieves a team by its exact feed name. Returns
// models.ErrNotFound when no team matches.
func (r *TeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := `
		SELECT id, name, coach_name, conference, seed, wins, losses, last_updated
		FROM teams
		WHERE name = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, name).Scan(
		&team.ID, &team.Name, &team.CoachName, &team.Conference,
		&team.Seed, &team.Wins, &team.Losses, &team.LastUpdated,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team %q: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// GetByID retrieves a team by its database ID.
func (r *TeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, name, coach_name, conference, seed, wins, losses, last_updated
		FROM teams
		WHERE id = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&team.ID, &team.Name, &team.CoachName, &team.Conference,
		&team.Seed, &team.Wins, &team.Losses, &team.LastUpdated,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team id=%d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// List retrieves all teams ordered by name.
func (r *TeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `
		SELECT id, name, coach_name, conference, seed, wins, losses, last_updated
		FROM teams
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		var team models.Team
		err := rows.Scan(
			&team.ID, &team.Name, &team.CoachName, &team.Conference,
			&team.Seed, &team.Wins, &team.Losses, &team.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}

// Count returns the total number of teams.
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM teams`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}

	return count, nil
}
