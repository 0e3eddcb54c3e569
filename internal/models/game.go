package models

import (
	"database/sql"
	"time"
)

// GameStateFinal is the feed state that marks a concluded game and enables
// winner determination.
const GameStateFinal = "final"

// Game represents a tournament game. Identity is the unordered pair of team
// IDs plus the date played; either slot assignment matches on lookup.
type Game struct {
	ID          int           `db:"id"`
	Round       string        `db:"round"`
	DatePlayed  time.Time     `db:"date_played"`
	Location    string        `db:"location"`
	AwayTeamID  int           `db:"away_team_id"`
	HomeTeamID  int           `db:"home_team_id"`
	WinnerID    sql.NullInt32 `db:"winner_id"`
	AwayScore   int           `db:"away_score"`
	HomeScore   int           `db:"home_score"`
	LastUpdated time.Time     `db:"last_updated"`
}
