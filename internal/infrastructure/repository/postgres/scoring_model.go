package postgres

import "time"

type scoreTableModel struct {
	ID           int64      `db:"id"`
	LeagueID     string     `db:"league_public_id"`
	EventID      int64      `db:"event_id"`
	UserID       string     `db:"user_id"`
	Points       int        `db:"points"`
	CalculatedAt int64      `db:"calculated_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type scoreInsertModel struct {
	LeagueID     string `db:"league_public_id"`
	EventID      int64  `db:"event_id"`
	UserID       string `db:"user_id"`
	Points       int    `db:"points"`
	CalculatedAt int64  `db:"calculated_at"`
}
