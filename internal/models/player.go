package models

// Player represents a tournament player. Identity is (name, team); a player
// traded or renamed by the feed simply becomes a new row.
type Player struct {
	ID       int    `db:"id"`
	Name     string `db:"name"`
	TeamID   int    `db:"team_id"`
	Position string `db:"position"`
}

// positionTable maps feed position codes to the stored vocabulary.
// Hybrid codes resolve to a single deterministic position. The mapping is
// exact-match and case-sensitive; unknown codes fall through to "".
var positionTable = map[string]string{
	"F":   "Forward",
	"G":   "Guard",
	"C":   "Center",
	"F-C": "Center",
	"G-F": "Guard",
	"F/C": "Center",
	"G/F": "Guard",
	"C/F": "Center",
}

// NormalizePosition translates a feed position code into one of
// Forward/Guard/Center. Empty or unrecognized codes map to the empty string.
func NormalizePosition(code string) string {
	return positionTable[code]
}
