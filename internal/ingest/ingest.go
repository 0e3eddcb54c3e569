package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sportschat/ingestion/internal/metrics"
	"sportschat/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// DefaultStalenessThreshold controls how long an unchanged game row may go
// without a forced refresh. Within the window, a game whose scores match
// the feed is skipped entirely, box score included.
const DefaultStalenessThreshold = 5 * time.Minute

// Feed fetches scoreboard and box score documents from the tournament API.
type Feed interface {
	FetchScoreboard(ctx context.Context) (*models.ScoreboardResponse, error)
	FetchBoxScore(ctx context.Context, gameURL string) (*models.BoxScoreResponse, error)
}

// TeamStore is the team persistence surface the cycle needs.
type TeamStore interface {
	GetByName(ctx context.Context, name string) (*models.Team, error)
	Create(ctx context.Context, team *models.Team) error
}

// PlayerStore is the player persistence surface the cycle needs.
type PlayerStore interface {
	GetByNameAndTeam(ctx context.Context, name string, teamID int) (*models.Player, error)
	Create(ctx context.Context, player *models.Player) error
}

// GameStore is the game persistence surface the cycle needs.
type GameStore interface {
	FindByTeamsAndDate(ctx context.Context, teamA, teamB int, date time.Time) (*models.Game, error)
	Create(ctx context.Context, game *models.Game) error
	Update(ctx context.Context, game *models.Game) error
}

// StatStore is the game stat persistence surface the cycle needs.
type StatStore interface {
	Upsert(ctx context.Context, stat *models.GameStat) error
}

// Store bundles the repositories an ingestion cycle writes through. The
// worker wires repository.Database in; tests substitute fakes.
type Store struct {
	Teams   TeamStore
	Players PlayerStore
	Games   GameStore
	Stats   StatStore
}

// BoxScoreCache optionally caches box scores for concluded games.
type BoxScoreCache interface {
	GetBoxScore(ctx context.Context, gameURL string) (*models.BoxScoreResponse, bool)
	SetBoxScore(ctx context.Context, gameURL string, boxScore *models.BoxScoreResponse)
}

// Ingestor runs one scoreboard reconciliation cycle at a time.
type Ingestor struct {
	feed      Feed
	store     Store
	cache     BoxScoreCache
	staleness time.Duration
	now       func() time.Time
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithStalenessThreshold overrides the forced-refresh window.
func WithStalenessThreshold(d time.Duration) Option {
	return func(ing *Ingestor) { ing.staleness = d }
}

// WithCache attaches a box score cache.
func WithCache(c BoxScoreCache) Option {
	return func(ing *Ingestor) { ing.cache = c }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(ing *Ingestor) { ing.now = now }
}

// New creates an Ingestor.
func New(feed Feed, store Store, opts ...Option) *Ingestor {
	ing := &Ingestor{
		feed:      feed,
		store:     store,
		staleness: DefaultStalenessThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Summary accounts for one ingestion cycle.
type Summary struct {
	GamesSeen    int
	GamesWritten int
	GamesSkipped int
	GamesFailed  int

	BoxScoresProcessed int
	BoxScoresSkipped   int
	BoxScoresPending   int
	BoxScoresFailed    int

	PlayersProcessed int
}

// trackedGame carries a resolved game through to the box score pass.
// homeTeamID and awayTeamID are the feed-side references; the stored row's
// slots may be reversed relative to the feed, so roster attribution must
// never read them from the game itself.
type trackedGame struct {
	game         *models.Game
	gameURL      string
	homeTeamID   int
	awayTeamID   int
	final        bool
	skipBoxScore bool
}

// Run executes one full ingestion cycle: fetch the scoreboard, reconcile
// every game, then fetch box scores for the games that were written.
// force bypasses the staleness skip (nightly refresh).
func (ing *Ingestor) Run(ctx context.Context, force bool) (*Summary, error) {
	summary := &Summary{}

	scoreboard, err := ing.feed.FetchScoreboard(ctx)
	if err != nil {
		metrics.RecordError("ingest", "scoreboard_fetch")
		return summary, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}

	if len(scoreboard.Games) == 0 {
		log.Warn().Msg("Scoreboard returned no games")
		return summary, nil
	}

	log.Info().Int("count", len(scoreboard.Games)).Msg("Scoreboard fetched")

	var tracked []*trackedGame
	for i := range scoreboard.Games {
		summary.GamesSeen++

		tg, err := ing.processGame(ctx, &scoreboard.Games[i].Game, force)
		if err != nil {
			summary.GamesFailed++
			metrics.RecordError("ingest", "game")
			log.Error().Err(err).
				Str("title", scoreboard.Games[i].Game.Title).
				Msg("Failed to process game")
			continue
		}
		if tg == nil {
			// Unresolvable side (play-in placeholder, missing names).
			summary.GamesFailed++
			continue
		}

		if tg.skipBoxScore {
			summary.GamesSkipped++
			metrics.GamesSkipped.Inc()
		} else {
			summary.GamesWritten++
			metrics.GamesWritten.Inc()
		}
		tracked = append(tracked, tg)
	}

	log.Info().
		Int("written", summary.GamesWritten).
		Int("skipped", summary.GamesSkipped).
		Int("failed", summary.GamesFailed).
		Msg("Game processing complete")

	ing.processBoxScores(ctx, tracked, summary)

	log.Info().
		Int("processed", summary.BoxScoresProcessed).
		Int("skipped", summary.BoxScoresSkipped).
		Int("pending", summary.BoxScoresPending).
		Int("failed", summary.BoxScoresFailed).
		Int("players", summary.PlayersProcessed).
		Msg("Box score processing complete")

	return summary, nil
}

// processGame reconciles a single scoreboard entry into the games table.
// A nil trackedGame with nil error means the entry could not be resolved
// to two teams and was dropped.
func (ing *Ingestor) processGame(ctx context.Context, g *models.GameSummary, force bool) (*trackedGame, error) {
	awayName := g.Away.TeamName()
	homeName := g.Home.TeamName()
	if awayName == "" || homeName == "" {
		log.Warn().Str("title", g.Title).Msg("Skipping game with missing team names")
		return nil, nil
	}

	log.Debug().
		Str("away", awayName).
		Str("home", homeName).
		Str("round", g.RoundLabel()).
		Str("state", g.GameState).
		Msg("Processing game")

	awayTeam := ing.resolveTeam(ctx, &g.Away)
	homeTeam := ing.resolveTeam(ctx, &g.Home)
	if awayTeam == nil || homeTeam == nil {
		log.Warn().
			Str("away", awayName).
			Str("home", homeName).
			Msg("Skipping game with unresolved team")
		return nil, nil
	}

	datePlayed, ok := g.PlayedOn()
	if !ok {
		// The feed omits or mangles dates for some entries; fall back to
		// today so the game is still captured.
		now := ing.now().UTC()
		datePlayed = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	awayScore := g.Away.Score.Int()
	homeScore := g.Home.Score.Int()

	stored, err := ing.store.Games.FindByTeamsAndDate(ctx, awayTeam.ID, homeTeam.ID, datePlayed)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		// Lookup failed; default to writing rather than silently dropping.
		log.Error().Err(err).
			Str("away", awayName).
			Str("home", homeName).
			Msg("Game lookup failed, writing anyway")
		stored = nil
	}

	// Align feed scores to the stored slot orientation before comparing
	// or writing: the stored row may have the teams in either order.
	slotAway, slotHome := awayScore, homeScore
	if stored != nil && stored.AwayTeamID == homeTeam.ID {
		slotAway, slotHome = homeScore, awayScore
	}

	if !force && !ing.shouldWriteGame(stored, slotAway, slotHome) {
		log.Debug().
			Int("game_id", stored.ID).
			Msg("Game unchanged and fresh, skipping")
		return &trackedGame{
			game:         stored,
			gameURL:      g.URL,
			homeTeamID:   homeTeam.ID,
			awayTeamID:   awayTeam.ID,
			final:        g.IsFinal(),
			skipBoxScore: true,
		}, nil
	}

	winnerID := determineWinner(g, awayTeam.ID, homeTeam.ID, awayScore, homeScore)

	if stored == nil {
		game := &models.Game{
			Round:      g.RoundLabel(),
			DatePlayed: datePlayed,
			Location:   g.VenueName(),
			AwayTeamID: awayTeam.ID,
			HomeTeamID: homeTeam.ID,
			WinnerID:   winnerID,
			AwayScore:  awayScore,
			HomeScore:  homeScore,
		}
		if err := ing.store.Games.Create(ctx, game); err != nil {
			return nil, fmt.Errorf("failed to create game %s vs %s: %w", awayName, homeName, err)
		}
		log.Info().
			Int("game_id", game.ID).
			Str("away", awayName).
			Str("home", homeName).
			Msg("Game created")
		return &trackedGame{
			game:       game,
			gameURL:    g.URL,
			homeTeamID: homeTeam.ID,
			awayTeamID: awayTeam.ID,
			final:      g.IsFinal(),
		}, nil
	}

	stored.Round = g.RoundLabel()
	stored.Location = g.VenueName()
	stored.WinnerID = winnerID
	stored.AwayScore = slotAway
	stored.HomeScore = slotHome
	if err := ing.store.Games.Update(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to update game %s vs %s: %w", awayName, homeName, err)
	}
	log.Info().
		Int("game_id", stored.ID).
		Str("away", awayName).
		Str("home", homeName).
		Msg("Game updated")
	return &trackedGame{
		game:       stored,
		gameURL:    g.URL,
		homeTeamID: homeTeam.ID,
		awayTeamID: awayTeam.ID,
		final:      g.IsFinal(),
	}, nil
}

// shouldWriteGame decides whether a stored game needs a write given the
// freshly fetched scores (already aligned to the stored slot order).
// No stored row, a score change, or a stale last_updated all force a
// write; otherwise the game is skipped for this cycle.
func (ing *Ingestor) shouldWriteGame(stored *models.Game, awayScore, homeScore int) bool {
	if stored == nil {
		return true
	}
	if stored.AwayScore != awayScore || stored.HomeScore != homeScore {
		return true
	}
	return ing.now().Sub(stored.LastUpdated) > ing.staleness
}

// determineWinner resolves the winner reference. Only a final game with a
// strict score difference has a winner; ties and live games stay null.
func determineWinner(g *models.GameSummary, awayTeamID, homeTeamID, awayScore, homeScore int) sql.NullInt32 {
	if !g.IsFinal() {
		return sql.NullInt32{}
	}
	switch {
	case awayScore > homeScore:
		return sql.NullInt32{Int32: int32(awayTeamID), Valid: true}
	case homeScore > awayScore:
		return sql.NullInt32{Int32: int32(homeTeamID), Valid: true}
	default:
		return sql.NullInt32{}
	}
}
