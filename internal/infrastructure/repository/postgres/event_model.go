package postgres

import (
	"database/sql"
	"time"
)

type eventTableModel struct {
	ID            int64         `db:"id"`
	Name          string        `db:"name"`
	Location      string        `db:"location"`
	Country       string        `db:"country"`
	CircuitName   string        `db:"circuit_name"`
	Season        int           `db:"season"`
	Round         int           `db:"round"`
	Tier1Deadline sql.NullInt64 `db:"tier1_deadline"`
	Tier2Deadline sql.NullInt64 `db:"tier2_deadline"`
	FinalDeadline int64         `db:"final_deadline"`
	IsCompleted   bool          `db:"is_completed"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
	DeletedAt     *time.Time    `db:"deleted_at"`
}

type eventInsertModel struct {
	Name          string `db:"name"`
	Location      string `db:"location"`
	Country       string `db:"country"`
	CircuitName   string `db:"circuit_name"`
	Season        int    `db:"season"`
	Round         int    `db:"round"`
	Tier1Deadline *int64 `db:"tier1_deadline"`
	Tier2Deadline *int64 `db:"tier2_deadline"`
	FinalDeadline int64  `db:"final_deadline"`
	IsCompleted   bool   `db:"is_completed"`
}
