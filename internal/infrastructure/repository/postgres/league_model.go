package postgres

import "time"

type leagueTableModel struct {
	ID               int64      `db:"id"`
	PublicID         string     `db:"public_id"`
	Name             string     `db:"name"`
	Description      string     `db:"description"`
	OwnerID          string     `db:"owner_id"`
	IsPublic         bool       `db:"is_public"`
	IsOfficial       bool       `db:"is_official"`
	RequiresApproval bool       `db:"requires_approval"`
	InviteCode       string     `db:"invite_code"`
	MaxMembers       int        `db:"max_members"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
	DeletedAt        *time.Time `db:"deleted_at"`
}

type leagueMemberTableModel struct {
	ID        int64      `db:"id"`
	LeagueID  string     `db:"league_public_id"`
	UserID    string     `db:"user_id"`
	Status    string     `db:"status"`
	JoinedAt  int64      `db:"joined_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type leagueMemberInsertModel struct {
	LeagueID string `db:"league_public_id"`
	UserID   string `db:"user_id"`
	Status   string `db:"status"`
	JoinedAt int64  `db:"joined_at"`
}
