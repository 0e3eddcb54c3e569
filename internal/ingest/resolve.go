package ingest

import (
	"context"
	"database/sql"
	"errors"

	"sportschat/ingestion/internal/metrics"
	"sportschat/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// resolveTeam returns the stored team for a scoreboard side, creating it
// on first sight. Placeholder sides (empty or the feed's unknown-team
// sentinel) resolve to nil and the caller drops the game.
func (ing *Ingestor) resolveTeam(ctx context.Context, side *models.GameSide) *models.Team {
	name := side.TeamName()
	if name == "" || name == models.UnknownTeamName {
		log.Debug().Str("name", name).Msg("Skipping placeholder team")
		return nil
	}

	team, err := ing.store.Teams.GetByName(ctx, name)
	if err == nil {
		return team
	}
	if !errors.Is(err, models.ErrNotFound) {
		metrics.RecordError("ingest", "team_lookup")
		log.Error().Err(err).Str("name", name).Msg("Team lookup failed")
		return nil
	}

	team = &models.Team{
		Name: name,
		Seed: side.SeedNumber(),
	}
	if conf := side.ConferenceName(); conf != "" {
		team.Conference = sql.NullString{String: conf, Valid: true}
	}

	if err := ing.store.Teams.Create(ctx, team); err != nil {
		metrics.RecordError("ingest", "team_create")
		log.Error().Err(err).Str("name", name).Msg("Failed to create team")
		return nil
	}

	log.Info().Int("team_id", team.ID).Str("name", name).Msg("Team created")
	return team
}

// resolvePlayer returns the stored player for a box score line, creating
// it on first sight. Lines with no usable name resolve to nil.
func (ing *Ingestor) resolvePlayer(ctx context.Context, line *models.PlayerLine, teamID int) *models.Player {
	name := line.DisplayName()
	if name == "" || teamID == 0 {
		return nil
	}

	player, err := ing.store.Players.GetByNameAndTeam(ctx, name, teamID)
	if err == nil {
		return player
	}
	if !errors.Is(err, models.ErrNotFound) {
		metrics.RecordError("ingest", "player_lookup")
		log.Error().Err(err).Str("name", name).Int("team_id", teamID).Msg("Player lookup failed")
		return nil
	}

	player = &models.Player{
		Name:     name,
		TeamID:   teamID,
		Position: models.NormalizePosition(line.Position),
	}
	if err := ing.store.Players.Create(ctx, player); err != nil {
		metrics.RecordError("ingest", "player_create")
		log.Error().Err(err).Str("name", name).Int("team_id", teamID).Msg("Failed to create player")
		return nil
	}

	log.Debug().Int("player_id", player.ID).Str("name", name).Msg("Player created")
	return player
}
