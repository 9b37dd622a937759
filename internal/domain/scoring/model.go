package scoring

import "time"

// Score is one user's points for one event inside one league contest.
type Score struct {
	LeagueID     string
	EventID      int64
	UserID       string
	Points       int
	CalculatedAt time.Time
}
