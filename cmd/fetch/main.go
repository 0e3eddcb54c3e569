// Command fetch runs a single ingestion cycle and exits. Useful for
// backfills and for debugging the feed without starting the worker.
//
// Usage:
//
//	fetch [-force]
//
// -force bypasses the staleness skip and rewrites every game.
package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"time"

	"sportschat/ingestion/internal/client"
	"sportschat/ingestion/internal/config"
	"sportschat/ingestion/internal/ingest"
	"sportschat/ingestion/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	force := flag.Bool("force", false, "rewrite every game, ignoring the staleness skip")
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:           cfg.DatabaseHost,
		Port:           strconv.Itoa(cfg.DatabasePort),
		User:           cfg.DatabaseUser,
		Password:       cfg.DatabasePassword,
		Database:       cfg.DatabaseName,
		SSLMode:        cfg.DatabaseSSLMode,
		ConnectTimeout: cfg.DatabaseConnectTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	log.Info().Msg("Validating service health...")
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	feedClient := client.NewClient(cfg.FeedBaseURL, cfg.FeedScoreboardPath, cfg.FeedTimeout)

	ingestor := ingest.New(feedClient, ingest.Store{
		Teams:   db.Teams,
		Players: db.Players,
		Games:   db.Games,
		Stats:   db.Stats,
	}, ingest.WithStalenessThreshold(cfg.StalenessThreshold))

	start := time.Now()
	summary, err := ingestor.Run(ctx, *force)
	if err != nil {
		log.Error().Err(err).Msg("Ingestion cycle failed")
		os.Exit(1)
	}

	log.Info().
		Bool("forced", *force).
		Dur("duration", time.Since(start)).
		Int("games_seen", summary.GamesSeen).
		Int("games_written", summary.GamesWritten).
		Int("games_skipped", summary.GamesSkipped).
		Int("games_failed", summary.GamesFailed).
		Int("box_scores_processed", summary.BoxScoresProcessed).
		Int("box_scores_pending", summary.BoxScoresPending).
		Int("box_scores_failed", summary.BoxScoresFailed).
		Int("players_processed", summary.PlayersProcessed).
		Msg("Ingestion cycle complete")
}
