package scheduler

import (
	"context"
	"fmt"
	"time"

	"sportschat/ingestion/internal/config"
	"sportschat/ingestion/internal/ingest"
	"sportschat/ingestion/internal/metrics"
	"sportschat/ingestion/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler drives the ingestion loop:
// - an immediate cycle on start, then one every poll interval
// - a nightly forced refresh that bypasses the staleness skip
type Scheduler struct {
	cfg      *config.Config
	ingestor *ingest.Ingestor
	db       *repository.Database
	cron     *cron.Cron
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg *config.Config, ingestor *ingest.Ingestor, db *repository.Database) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		ingestor: ingestor,
		db:       db,
		cron:     cron.New(),
		stopChan: make(chan struct{}),
	}
}

// Start starts the polling loop and the nightly refresh job.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.NightlyRefreshCron, func() {
		log.Info().Msg("Running nightly forced refresh...")
		s.runCycle(ctx, true)
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.NightlyRefreshCron).
		Msg("Nightly refresh scheduled")

	s.ticker = time.NewTicker(s.cfg.PollInterval)
	log.Info().
		Dur("interval", s.cfg.PollInterval).
		Msg("Scoreboard polling started")

	go s.poll(ctx)

	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// poll runs an immediate cycle, then one per tick until stopped.
func (s *Scheduler) poll(ctx context.Context) {
	s.runCycle(ctx, false)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping scoreboard polling")
			return
		case <-s.stopChan:
			log.Info().Msg("Stop signal received, stopping scoreboard polling")
			return
		case <-s.ticker.C:
			s.runCycle(ctx, false)
		}
	}
}

// runCycle executes one ingestion cycle with panic isolation: a bad feed
// payload must not take the worker down, only cost the current cycle.
func (s *Scheduler) runCycle(ctx context.Context, force bool) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordError("scheduler", "panic")
			log.Error().Interface("panic", r).Msg("Ingestion cycle panicked")
		}
	}()

	if err := s.db.Health(ctx); err != nil {
		metrics.RecordCycle("skipped", 0)
		log.Error().Err(err).Msg("Database unhealthy, skipping cycle")
		return
	}

	start := time.Now()
	summary, err := s.ingestor.Run(ctx, force)
	duration := time.Since(start)

	if err != nil {
		metrics.RecordCycle("error", duration.Seconds())
		log.Error().Err(err).
			Dur("duration", duration).
			Msg("Ingestion cycle failed")
		return
	}

	metrics.RecordCycle("success", duration.Seconds())
	log.Info().
		Bool("forced", force).
		Dur("duration", duration).
		Int("games_seen", summary.GamesSeen).
		Int("games_written", summary.GamesWritten).
		Int("games_skipped", summary.GamesSkipped).
		Int("box_scores", summary.BoxScoresProcessed).
		Int("players", summary.PlayersProcessed).
		Msg("Ingestion cycle complete")
}
