package ingest

import (
	"context"
	"errors"
	"fmt"

	"sportschat/ingestion/internal/client"
	"sportschat/ingestion/internal/metrics"
	"sportschat/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// processBoxScores fetches and persists player stat lines for every game
// the scoreboard pass tracked. Games skipped as fresh-and-unchanged skip
// their box scores too. A single bad game or player line never aborts the
// pass.
func (ing *Ingestor) processBoxScores(ctx context.Context, tracked []*trackedGame, summary *Summary) {
	for _, tg := range tracked {
		if tg.skipBoxScore {
			summary.BoxScoresSkipped++
			metrics.RecordBoxScore("skipped")
			continue
		}

		players, err := ing.processBoxScore(ctx, tg)
		if err != nil {
			if errors.Is(err, client.ErrBoxScoreNotReady) || isFetchFailure(err) {
				// A concluded game should have a box score by now; a live
				// or upcoming game is just not published yet.
				if tg.final {
					summary.BoxScoresFailed++
					metrics.RecordBoxScore("error")
					log.Warn().
						Int("game_id", tg.game.ID).
						Str("game_url", tg.gameURL).
						Msg("Final game has no box score")
				} else {
					summary.BoxScoresPending++
					metrics.RecordBoxScore("pending")
					log.Debug().
						Int("game_id", tg.game.ID).
						Msg("Box score not yet available")
				}
				continue
			}

			summary.BoxScoresFailed++
			metrics.RecordBoxScore("error")
			metrics.RecordError("ingest", "box_score")
			log.Error().Err(err).
				Int("game_id", tg.game.ID).
				Str("game_url", tg.gameURL).
				Msg("Failed to process box score")
			continue
		}

		summary.BoxScoresProcessed++
		summary.PlayersProcessed += players
		metrics.RecordBoxScore("processed")
	}
}

// fetchFailure marks transport-level box score errors so the caller can
// classify them as pending rather than malformed data.
type fetchFailure struct{ err error }

func (f *fetchFailure) Error() string { return f.err.Error() }
func (f *fetchFailure) Unwrap() error { return f.err }

func isFetchFailure(err error) bool {
	var f *fetchFailure
	return errors.As(err, &f)
}

// processBoxScore fetches one game's box score and upserts every player
// stat line. Returns the number of lines written.
func (ing *Ingestor) processBoxScore(ctx context.Context, tg *trackedGame) (int, error) {
	boxScore, cached := ing.cachedBoxScore(ctx, tg)
	if !cached {
		fetched, err := ing.feed.FetchBoxScore(ctx, tg.gameURL)
		if err != nil {
			if errors.Is(err, client.ErrBoxScoreNotReady) {
				return 0, err
			}
			return 0, &fetchFailure{err: err}
		}
		boxScore = fetched
	}

	// The feed lists the home side first, then the away side. Rosters
	// attribute to the feed-side team references, never to the stored
	// row's slots, which may be reversed.
	if len(boxScore.Teams) < 2 {
		return 0, fmt.Errorf("box score has %d team blocks, want 2", len(boxScore.Teams))
	}
	homeLines := boxScore.Teams[0].PlayerStats
	awayLines := boxScore.Teams[1].PlayerStats

	players := 0
	players += ing.upsertStatLines(ctx, tg.game, homeLines, tg.homeTeamID)
	players += ing.upsertStatLines(ctx, tg.game, awayLines, tg.awayTeamID)

	if players == 0 {
		return 0, fmt.Errorf("box score yielded no player stat lines")
	}

	if !cached && tg.final && ing.cache != nil {
		ing.cache.SetBoxScore(ctx, tg.gameURL, boxScore)
	}

	return players, nil
}

// cachedBoxScore consults the cache for concluded games only; live games
// can still change and must always be refetched.
func (ing *Ingestor) cachedBoxScore(ctx context.Context, tg *trackedGame) (*models.BoxScoreResponse, bool) {
	if ing.cache == nil || !tg.final {
		return nil, false
	}
	return ing.cache.GetBoxScore(ctx, tg.gameURL)
}

// upsertStatLines resolves each player and upserts their stat line for
// the game. Bad lines are logged and skipped.
func (ing *Ingestor) upsertStatLines(ctx context.Context, game *models.Game, lines []models.PlayerLine, teamID int) int {
	written := 0
	for i := range lines {
		line := &lines[i]

		player := ing.resolvePlayer(ctx, line, teamID)
		if player == nil {
			continue
		}

		stat := line.ToGameStat(game.ID, player.ID)
		if err := ing.store.Stats.Upsert(ctx, stat); err != nil {
			metrics.RecordError("ingest", "stat_upsert")
			log.Error().Err(err).
				Int("game_id", game.ID).
				Int("player_id", player.ID).
				Str("name", player.Name).
				Msg("Failed to upsert game stats")
			continue
		}

		written++
		metrics.PlayersProcessed.Inc()
	}
	return written
}
