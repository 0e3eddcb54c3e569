package models

import "strings"

// BoxScoreResponse is the per-game box score document. The feed lists the
// home team first and the away team second.
type BoxScoreResponse struct {
	Teams []BoxScoreTeam `json:"teams"`
}

// BoxScoreTeam is one team's roster of stat lines.
type BoxScoreTeam struct {
	PlayerStats []PlayerLine `json:"playerStats"`
}

// PlayerLine is a single player's line in a box score.
type PlayerLine struct {
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Position      string     `json:"position"`
	Points        StatValue  `json:"points"`
	TotalRebounds StatValue  `json:"totalRebounds"`
	Assists       StatValue  `json:"assists"`
	Steals        StatValue  `json:"steals"`
	BlockedShots  StatValue  `json:"blockedShots"`
	MinutesPlayed FlexString `json:"minutesPlayed"`
}

// DisplayName builds the stored player name from first and last name.
func (p *PlayerLine) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// ToGameStat converts the line into a GameStat row for the resolved game
// and player. Every numeric field has already been coerced at the JSON
// boundary; minutes are derived from the feed's MM:SS string here.
func (p *PlayerLine) ToGameStat(gameID, playerID int) *GameStat {
	return &GameStat{
		GameID:        gameID,
		PlayerID:      playerID,
		Points:        p.Points.Int(),
		Rebounds:      p.TotalRebounds.Int(),
		Assists:       p.Assists.Int(),
		Steals:        p.Steals.Int(),
		Blocks:        p.BlockedShots.Int(),
		MinutesPlayed: ParseMinutes(p.MinutesPlayed.String()),
	}
}
