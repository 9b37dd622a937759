package postgres

import "time"

type officialResultTableModel struct {
	ID           int64      `db:"id"`
	EventID      int64      `db:"event_id"`
	CompetitorID int64      `db:"competitor_id"`
	Position     int        `db:"position"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}
