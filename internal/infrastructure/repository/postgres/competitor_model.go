package postgres

import "time"

type competitorTableModel struct {
	ID          int64      `db:"id"`
	Code        string     `db:"code"`
	FirstName   string     `db:"first_name"`
	LastName    string     `db:"last_name"`
	Number      int        `db:"number"`
	CountryCode string     `db:"country_code"`
	IsActive    bool       `db:"is_active"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type competitorInsertModel struct {
	Code        string `db:"code"`
	FirstName   string `db:"first_name"`
	LastName    string `db:"last_name"`
	Number      int    `db:"number"`
	CountryCode string `db:"country_code"`
	IsActive    bool   `db:"is_active"`
}
