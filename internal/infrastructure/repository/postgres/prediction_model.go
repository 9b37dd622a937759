package postgres

import "time"

type predictionTableModel struct {
	ID        int64      `db:"id"`
	EventID   int64      `db:"event_id"`
	UserID    string     `db:"user_id"`
	Tier      string     `db:"tier"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type predictionPickTableModel struct {
	ID           int64      `db:"id"`
	PredictionID int64      `db:"prediction_id"`
	CompetitorID int64      `db:"competitor_id"`
	Position     int        `db:"position"`
	MaxPoints    int        `db:"max_points"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type applicationTableModel struct {
	ID        int64      `db:"id"`
	LeagueID  string     `db:"league_public_id"`
	EventID   int64      `db:"event_id"`
	UserID    string     `db:"user_id"`
	AppliedAt int64      `db:"applied_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type applicationInsertModel struct {
	LeagueID  string `db:"league_public_id"`
	EventID   int64  `db:"event_id"`
	UserID    string `db:"user_id"`
	AppliedAt int64  `db:"applied_at"`
}
