package models

import (
	"math"
	"strconv"
	"strings"
)

// GameStat is one player's statistical line for one game. Unique per
// (game, player); re-ingestion overwrites.
type GameStat struct {
	ID            int `db:"id"`
	GameID        int `db:"game_id"`
	PlayerID      int `db:"player_id"`
	Points        int `db:"points"`
	Rebounds      int `db:"rebounds"`
	Assists       int `db:"assists"`
	Steals        int `db:"steals"`
	Blocks        int `db:"blocks"`
	MinutesPlayed int `db:"minutes_played"`
}

// ParseMinutes converts the feed's minutes-played value into whole minutes.
// "MM:SS" becomes MM + round(SS/60); a bare number is rounded; anything
// else is 0.
func ParseMinutes(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	if parts := strings.SplitN(raw, ":", 2); len(parts) == 2 {
		minutes, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0
		}
		seconds, err := strconv.Atoi(parts[1])
		if err != nil {
			return minutes
		}
		return minutes + int(math.Round(float64(seconds)/60.0))
	}

	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(math.Round(f))
	}
	return 0
}
