package ingest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"sportschat/ingestion/internal/client"
	"sportschat/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeFeed struct {
	scoreboard    *models.ScoreboardResponse
	scoreboardErr error
	boxScores     map[string]*models.BoxScoreResponse
	boxScoreErrs  map[string]error
	boxScoreCalls []string
}

func (f *fakeFeed) FetchScoreboard(ctx context.Context) (*models.ScoreboardResponse, error) {
	if f.scoreboardErr != nil {
		return nil, f.scoreboardErr
	}
	return f.scoreboard, nil
}

func (f *fakeFeed) FetchBoxScore(ctx context.Context, gameURL string) (*models.BoxScoreResponse, error) {
	f.boxScoreCalls = append(f.boxScoreCalls, gameURL)
	if err, ok := f.boxScoreErrs[gameURL]; ok {
		return nil, err
	}
	if bs, ok := f.boxScores[gameURL]; ok {
		return bs, nil
	}
	return nil, client.ErrBoxScoreNotReady
}

type fakeTeams struct {
	byName  map[string]*models.Team
	nextID  int
	creates int
}

func newFakeTeams() *fakeTeams {
	return &fakeTeams{byName: make(map[string]*models.Team)}
}

func (f *fakeTeams) GetByName(ctx context.Context, name string) (*models.Team, error) {
	if team, ok := f.byName[name]; ok {
		return team, nil
	}
	return nil, fmt.Errorf("team %q: %w", name, models.ErrNotFound)
}

func (f *fakeTeams) Create(ctx context.Context, team *models.Team) error {
	f.nextID++
	f.creates++
	team.ID = f.nextID
	f.byName[team.Name] = team
	return nil
}

func (f *fakeTeams) seed(name string) *models.Team {
	team := &models.Team{Name: name}
	_ = f.Create(context.Background(), team)
	f.creates--
	return team
}

type playerKey struct {
	name   string
	teamID int
}

type fakePlayers struct {
	byKey   map[playerKey]*models.Player
	nextID  int
	creates int
}

func newFakePlayers() *fakePlayers {
	return &fakePlayers{byKey: make(map[playerKey]*models.Player)}
}

func (f *fakePlayers) GetByNameAndTeam(ctx context.Context, name string, teamID int) (*models.Player, error) {
	if player, ok := f.byKey[playerKey{name, teamID}]; ok {
		return player, nil
	}
	return nil, fmt.Errorf("player %q: %w", name, models.ErrNotFound)
}

func (f *fakePlayers) Create(ctx context.Context, player *models.Player) error {
	f.nextID++
	f.creates++
	player.ID = f.nextID
	f.byKey[playerKey{player.Name, player.TeamID}] = player
	return nil
}

type fakeGames struct {
	games   []*models.Game
	nextID  int
	creates int
	updates int
}

func (f *fakeGames) FindByTeamsAndDate(ctx context.Context, teamA, teamB int, date time.Time) (*models.Game, error) {
	for _, g := range f.games {
		sameTeams := (g.AwayTeamID == teamA && g.HomeTeamID == teamB) ||
			(g.AwayTeamID == teamB && g.HomeTeamID == teamA)
		if sameTeams && g.DatePlayed.Equal(date) {
			return g, nil
		}
	}
	return nil, fmt.Errorf("game: %w", models.ErrNotFound)
}

func (f *fakeGames) Create(ctx context.Context, game *models.Game) error {
	f.nextID++
	f.creates++
	game.ID = f.nextID
	game.LastUpdated = time.Now()
	f.games = append(f.games, game)
	return nil
}

func (f *fakeGames) Update(ctx context.Context, game *models.Game) error {
	f.updates++
	game.LastUpdated = time.Now()
	return nil
}

type statKey struct {
	gameID   int
	playerID int
}

type fakeStats struct {
	byKey   map[statKey]*models.GameStat
	upserts int
}

func newFakeStats() *fakeStats {
	return &fakeStats{byKey: make(map[statKey]*models.GameStat)}
}

func (f *fakeStats) Upsert(ctx context.Context, stat *models.GameStat) error {
	f.upserts++
	f.byKey[statKey{stat.GameID, stat.PlayerID}] = stat
	return nil
}

type fixture struct {
	feed    *fakeFeed
	teams   *fakeTeams
	players *fakePlayers
	games   *fakeGames
	stats   *fakeStats
}

func newFixture() *fixture {
	return &fixture{
		feed:    &fakeFeed{boxScores: make(map[string]*models.BoxScoreResponse), boxScoreErrs: make(map[string]error)},
		teams:   newFakeTeams(),
		players: newFakePlayers(),
		games:   &fakeGames{},
		stats:   newFakeStats(),
	}
}

func (fx *fixture) ingestor(opts ...Option) *Ingestor {
	return New(fx.feed, Store{
		Teams:   fx.teams,
		Players: fx.players,
		Games:   fx.games,
		Stats:   fx.stats,
	}, opts...)
}

func feedEntry(away, home string, awayScore, homeScore int, state string) models.GameEntry {
	return models.GameEntry{
		Game: models.GameSummary{
			URL:          "/game/1",
			Title:        away + " " + home,
			BracketRound: "Sweet 16",
			GameState:    state,
			StartDate:    "03-28-2025",
			Venue:        models.VenueInfo{Name: "Prudential Center"},
			Away: models.GameSide{
				Score: models.StatValue(awayScore),
				Names: models.TeamNames{Full: away},
			},
			Home: models.GameSide{
				Score: models.StatValue(homeScore),
				Names: models.TeamNames{Full: home},
			},
		},
	}
}

func scoreboardWith(entries ...models.GameEntry) *models.ScoreboardResponse {
	return &models.ScoreboardResponse{Games: entries}
}

var gameDate = time.Date(2025, time.March, 28, 0, 0, 0, 0, time.UTC)

// --- tests ---

func TestRun_CreatesGameTeamsAndStats(t *testing.T) {
	fx := newFixture()
	fx.feed.scoreboard = scoreboardWith(feedEntry("Duke", "Purdue", 89, 100, models.GameStateFinal))
	fx.feed.boxScores["/game/1"] = &models.BoxScoreResponse{
		Teams: []models.BoxScoreTeam{
			{PlayerStats: []models.PlayerLine{ // home side first
				{FirstName: "Zach", LastName: "Edey", Position: "C", Points: 29, MinutesPlayed: "37:42"},
			}},
			{PlayerStats: []models.PlayerLine{
				{FirstName: "Kyle", LastName: "Filipowski", Position: "F/C", Points: 21, MinutesPlayed: "34:10"},
			}},
		},
	}

	summary, err := fx.ingestor().Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.GamesSeen)
	assert.Equal(t, 1, summary.GamesWritten)
	assert.Equal(t, 0, summary.GamesSkipped)
	assert.Equal(t, 1, summary.BoxScoresProcessed)
	assert.Equal(t, 2, summary.PlayersProcessed)

	assert.Equal(t, 2, fx.teams.creates)
	require.Equal(t, 1, fx.games.creates)

	game := fx.games.games[0]
	duke := fx.teams.byName["Duke"]
	purdue := fx.teams.byName["Purdue"]
	assert.Equal(t, duke.ID, game.AwayTeamID)
	assert.Equal(t, purdue.ID, game.HomeTeamID)
	assert.Equal(t, 89, game.AwayScore)
	assert.Equal(t, 100, game.HomeScore)
	assert.True(t, game.DatePlayed.Equal(gameDate))
	require.True(t, game.WinnerID.Valid)
	assert.Equal(t, int32(purdue.ID), game.WinnerID.Int32)

	// Box score side order: home roster first, away second.
	edey := fx.players.byKey[playerKey{"Zach Edey", purdue.ID}]
	require.NotNil(t, edey)
	assert.Equal(t, "Center", edey.Position)

	flip := fx.players.byKey[playerKey{"Kyle Filipowski", duke.ID}]
	require.NotNil(t, flip)

	stat := fx.stats.byKey[statKey{game.ID, edey.ID}]
	require.NotNil(t, stat)
	assert.Equal(t, 29, stat.Points)
	assert.Equal(t, 38, stat.MinutesPlayed)
}

func TestRun_ReusesExistingTeamsAndPlayers(t *testing.T) {
	fx := newFixture()
	duke := fx.teams.seed("Duke")
	fx.teams.seed("Purdue")
	existing := &models.Player{Name: "Kyle Filipowski", TeamID: duke.ID}
	require.NoError(t, fx.players.Create(context.Background(), existing))
	fx.players.creates = 0

	fx.feed.scoreboard = scoreboardWith(feedEntry("Duke", "Purdue", 10, 12, "live"))
	fx.feed.boxScores["/game/1"] = &models.BoxScoreResponse{
		Teams: []models.BoxScoreTeam{
			{},
			{PlayerStats: []models.PlayerLine{{FirstName: "Kyle", LastName: "Filipowski", Points: 4}}},
		},
	}

	summary, err := fx.ingestor().Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 0, fx.teams.creates)
	assert.Equal(t, 0, fx.players.creates)
	assert.Equal(t, 1, summary.PlayersProcessed)
	assert.Equal(t, existing.ID, fx.stats.byKey[statKey{fx.games.games[0].ID, existing.ID}].PlayerID)
}

func TestRun_DropsPlaceholderTeams(t *testing.T) {
	fx := newFixture()
	fx.feed.scoreboard = scoreboardWith(
		feedEntry(models.UnknownTeamName, "Purdue", 0, 0, "pre"),
		feedEntry("", "Duke", 0, 0, "pre"),
	)

	summary, err := fx.ingestor().Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.GamesFailed)
	assert.Equal(t, 0, summary.GamesWritten)
	assert.Empty(t, fx.games.games)
}

func TestRun_MatchesStoredGameRegardlessOfSlotOrder(t *testing.T) {
	fx := newFixture()
	duke := fx.teams.seed("Duke")
	purdue := fx.teams.seed("Purdue")

	// Stored with the slots reversed relative to the feed.
	stored := &models.Game{
		AwayTeamID: purdue.ID,
		HomeTeamID: duke.ID,
		AwayScore:  88,
		HomeScore:  80,
		DatePlayed: gameDate,
	}
	require.NoError(t, fx.games.Create(context.Background(), stored))
	fx.games.creates = 0

	// Feed reports Duke away 85, Purdue home 90.
	fx.feed.scoreboard = scoreboardWith(feedEntry("Duke", "Purdue", 85, 90, "live"))

	summary, err := fx.ingestor().Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.GamesWritten)
	assert.Equal(t, 0, fx.games.creates, "must update the stored row, not insert a duplicate")
	assert.Equal(t, 1, fx.games.updates)

	// Scores land in the stored slot orientation.
	assert.Equal(t, 90, stored.AwayScore)
	assert.Equal(t, 85, stored.HomeScore)
}

func TestRun_ReversedSlotGameAttributesRostersToFeedSides(t *testing.T) {
	fx := newFixture()
	duke := fx.teams.seed("Duke")
	purdue := fx.teams.seed("Purdue")

	// Stored with the slots reversed relative to the feed.
	stored := &models.Game{
		AwayTeamID: purdue.ID,
		HomeTeamID: duke.ID,
		AwayScore:  88,
		HomeScore:  80,
		DatePlayed: gameDate,
	}
	require.NoError(t, fx.games.Create(context.Background(), stored))
	fx.games.creates = 0

	// Feed reports Duke away, Purdue home; Edey plays for the feed's home
	// side (Purdue), Filipowski for the feed's away side (Duke).
	fx.feed.scoreboard = scoreboardWith(feedEntry("Duke", "Purdue", 85, 90, "live"))
	fx.feed.boxScores["/game/1"] = &models.BoxScoreResponse{
		Teams: []models.BoxScoreTeam{
			{PlayerStats: []models.PlayerLine{{FirstName: "Zach", LastName: "Edey", Position: "C", Points: 29}}},
			{PlayerStats: []models.PlayerLine{{FirstName: "Kyle", LastName: "Filipowski", Position: "F/C", Points: 21}}},
		},
	}

	summary, err := fx.ingestor().Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.BoxScoresProcessed)
	assert.Equal(t, 2, summary.PlayersProcessed)

	// Rosters follow the feed sides, not the stored slot order.
	edey := fx.players.byKey[playerKey{"Zach Edey", purdue.ID}]
	require.NotNil(t, edey, "home roster must attribute to the feed's home team")
	assert.Nil(t, fx.players.byKey[playerKey{"Zach Edey", duke.ID}])

	flip := fx.players.byKey[playerKey{"Kyle Filipowski", duke.ID}]
	require.NotNil(t, flip, "away roster must attribute to the feed's away team")
	assert.Nil(t, fx.players.byKey[playerKey{"Kyle Filipowski", purdue.ID}])

	assert.Equal(t, 29, fx.stats.byKey[statKey{stored.ID, edey.ID}].Points)
	assert.Equal(t, 21, fx.stats.byKey[statKey{stored.ID, flip.ID}].Points)
}

func TestRun_SkipsFreshUnchangedGame(t *testing.T) {
	now := time.Date(2025, time.March, 28, 21, 0, 0, 0, time.UTC)
	fx := newFixture()
	duke := fx.teams.seed("Duke")
	purdue := fx.teams.seed("Purdue")

	stored := &models.Game{
		AwayTeamID:  duke.ID,
		HomeTeamID:  purdue.ID,
		AwayScore:   89,
		HomeScore:   100,
		DatePlayed:  gameDate,
		LastUpdated: now.Add(-2 * time.Minute),
	}
	fx.games.games = append(fx.games.games, stored)

	fx.feed.scoreboard = scoreboardWith(feedEntry("Duke", "Purdue", 89, 100, models.GameStateFinal))

	ing := fx.ingestor(WithClock(func() time.Time { return now }))
	summary, err := ing.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.GamesSkipped)
	assert.Equal(t, 0, summary.GamesWritten)
	assert.Equal(t, 0, fx.games.updates)

	// Skipped games suppress the box score fetch too.
	assert.Equal(t, 1, summary.BoxScoresSkipped)
	assert.Empty(t, fx.feed.boxScoreCalls)
}

func TestRun_RefreshesStaleGame(t *testing.T) {
	now := time.Date(2025, time.March, 28, 21, 0, 0, 0, time.UTC)
	fx := newFixture()
	duke := fx.teams.seed("Duke")
	purdue := fx.teams.seed("Purdue")

	stored := &models.Game{
		AwayTeamID:  duke.ID,
		HomeTeamID:  purdue.ID,
		AwayScore:   89,
		HomeScore:   100,
		DatePlayed:  gameDate,
		LastUpdated: now.Add(-10 * time.Minute),
	}
	fx.games.games = append(fx.games.games, stored)

	fx.feed.scoreboard = scoreboardWith(feedEntry("Duke", "Purdue", 89, 100, "live"))

	ing := fx.ingestor(WithClock(func() time.Time { return now }))
	summary, err := ing.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.GamesWritten)
	assert.Equal(t, 1, fx.games.updates)
	assert.Len(t, fx.feed.boxScoreCalls, 1)
}

func TestRun_ForceBypassesStalenessSkip(t *testing.T) {
	now := time.Date(2025, time.March, 28, 21, 0, 0, 0, time.UTC)
	fx := newFixture()
	duke := fx.teams.seed("Duke")
	purdue := fx.teams.seed("Purdue")

	stored := &models.Game{
		AwayTeamID:  duke.ID,
		HomeTeamID:  purdue.ID,
		AwayScore:   89,
		HomeScore:   100,
		DatePlayed:  gameDate,
		LastUpdated: now.Add(-1 * time.Minute),
	}
	fx.games.games = append(fx.games.games, stored)

	fx.feed.scoreboard = scoreboardWith(feedEntry("Duke", "Purdue", 89, 100, "live"))

	ing := fx.ingestor(WithClock(func() time.Time { return now }))
	summary, err := ing.Run(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.GamesWritten)
	assert.Equal(t, 0, summary.GamesSkipped)
	assert.Equal(t, 1, fx.games.updates)
}

func TestRun_LiveGameWithoutBoxScoreIsPending(t *testing.T) {
	fx := newFixture()
	fx.feed.scoreboard = scoreboardWith(feedEntry("Duke", "Purdue", 10, 12, "live"))
	// No box score registered: the feed answers not-ready.

	summary, err := fx.ingestor().Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.BoxScoresPending)
	assert.Equal(t, 0, summary.BoxScoresFailed)
}

func TestRun_FinalGameWithoutBoxScoreIsFlagged(t *testing.T) {
	fx := newFixture()
	fx.feed.scoreboard = scoreboardWith(feedEntry("Duke", "Purdue", 89, 100, models.GameStateFinal))

	summary, err := fx.ingestor().Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.BoxScoresPending)
	assert.Equal(t, 1, summary.BoxScoresFailed)
}

func TestRun_MalformedBoxScoreIsFailed(t *testing.T) {
	fx := newFixture()
	fx.feed.scoreboard = scoreboardWith(feedEntry("Duke", "Purdue", 89, 100, models.GameStateFinal))
	fx.feed.boxScores["/game/1"] = &models.BoxScoreResponse{
		Teams: []models.BoxScoreTeam{{}}, // only one team block
	}

	summary, err := fx.ingestor().Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.BoxScoresFailed)
	assert.Equal(t, 0, summary.BoxScoresProcessed)
}

func TestRun_LiveGameHasNoWinner(t *testing.T) {
	fx := newFixture()
	fx.feed.scoreboard = scoreboardWith(feedEntry("Duke", "Purdue", 40, 40, "live"))

	_, err := fx.ingestor().Run(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, fx.games.games, 1)
	assert.False(t, fx.games.games[0].WinnerID.Valid)
}

func TestRun_ScoreboardErrorAborts(t *testing.T) {
	fx := newFixture()
	fx.feed.scoreboardErr = fmt.Errorf("upstream down")

	summary, err := fx.ingestor().Run(context.Background(), false)
	require.Error(t, err)
	assert.Equal(t, 0, summary.GamesSeen)
}

func TestRun_EmptyScoreboardIsNoop(t *testing.T) {
	fx := newFixture()
	fx.feed.scoreboard = scoreboardWith()

	summary, err := fx.ingestor().Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.GamesSeen)
}
