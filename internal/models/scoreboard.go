package models

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// scoreboardDateLayout is the feed's start date format (MM-DD-YYYY).
const scoreboardDateLayout = "01-02-2006"

// ScoreboardResponse is the top-level scoreboard document.
type ScoreboardResponse struct {
	Games []GameEntry `json:"games"`
}

// GameEntry wraps a single game in the scoreboard list.
type GameEntry struct {
	Game GameSummary `json:"game"`
}

// GameSummary is one game as reported by the scoreboard feed.
type GameSummary struct {
	GameID       string    `json:"gameID"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	BracketRound string    `json:"bracketRound"`
	GameState    string    `json:"gameState"`
	StartDate    string    `json:"startDate"`
	Venue        VenueInfo `json:"venue"`
	Home         GameSide  `json:"home"`
	Away         GameSide  `json:"away"`
}

// VenueInfo carries the venue name for a game.
type VenueInfo struct {
	Name string `json:"name"`
}

// GameSide is one side (home or away) of a scoreboard game.
type GameSide struct {
	Score       StatValue         `json:"score"`
	Seed        FlexString        `json:"seed"`
	Names       TeamNames         `json:"names"`
	Conferences []ConferenceEntry `json:"conferences"`
}

// TeamNames holds the name variants the feed supplies for a team.
type TeamNames struct {
	Full  string `json:"full"`
	Short string `json:"short"`
	Seo   string `json:"seo"`
}

// ConferenceEntry is one conference affiliation for a side.
type ConferenceEntry struct {
	ConferenceName string `json:"conferenceName"`
}

// IsFinal reports whether the feed marked the game as concluded.
func (g *GameSummary) IsFinal() bool {
	return g.GameState == GameStateFinal
}

// RoundLabel returns the bracket round, with a placeholder when absent.
func (g *GameSummary) RoundLabel() string {
	if g.BracketRound == "" {
		return "Unknown Round"
	}
	return g.BracketRound
}

// VenueName returns the venue name, with a placeholder when absent.
func (g *GameSummary) VenueName() string {
	if g.Venue.Name == "" {
		return "Unknown Location"
	}
	return g.Venue.Name
}

// PlayedOn parses the feed's MM-DD-YYYY start date. The boolean is false
// when the date is missing or malformed; callers fall back to today.
func (g *GameSummary) PlayedOn() (time.Time, bool) {
	if g.StartDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(scoreboardDateLayout, g.StartDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TeamName returns the side's full name, falling back to the short name.
func (s *GameSide) TeamName() string {
	if s.Names.Full != "" {
		return s.Names.Full
	}
	return s.Names.Short
}

// ConferenceName returns the first listed conference, or "".
func (s *GameSide) ConferenceName() string {
	if len(s.Conferences) == 0 {
		return ""
	}
	return s.Conferences[0].ConferenceName
}

// SeedNumber parses the side's seed; non-numeric or empty seeds are null.
func (s *GameSide) SeedNumber() sql.NullInt32 {
	raw := strings.TrimSpace(s.Seed.String())
	if raw == "" {
		return sql.NullInt32{}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(n), Valid: true}
}
