package models

import (
	"database/sql"
	"time"
)

// UnknownTeamName is the feed's placeholder for a side that has not been
// decided yet (play-in slots). Such sides never become Team rows.
const UnknownTeamName = "Unknown Team"

// Team represents a tournament team. Identity is the exact feed name; name
// drift between cycles creates a second row rather than merging.
type Team struct {
	ID          int            `db:"id"`
	Name        string         `db:"name"`
	CoachName   string         `db:"coach_name"`
	Conference  sql.NullString `db:"conference"`
	Seed        sql.NullInt32  `db:"seed"`
	Wins        int            `db:"wins"`
	Losses      int            `db:"losses"`
	LastUpdated time.Time      `db:"last_updated"`
}
