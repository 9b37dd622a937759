package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matrixrace/matrixraceapp/internal/domain/league"
	qb "github.com/matrixrace/matrixraceapp/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").
		From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	return league.League{
		ID:               row.PublicID,
		Name:             row.Name,
		Description:      row.Description,
		OwnerID:          row.OwnerID,
		Public:           row.IsPublic,
		Official:         row.IsOfficial,
		RequiresApproval: row.RequiresApproval,
		InviteCode:       row.InviteCode,
		MaxMembers:       row.MaxMembers,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, true, nil
}

func (r *LeagueRepository) GetMembership(ctx context.Context, leagueID, userID string) (league.Membership, bool, error) {
	query, args, err := qb.Select("*").
		From("league_members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.Membership{}, false, fmt.Errorf("build get membership query: %w", err)
	}

	var row leagueMemberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Membership{}, false, nil
		}
		return league.Membership{}, false, fmt.Errorf("get league membership: %w", err)
	}

	return league.Membership{
		LeagueID: row.LeagueID,
		UserID:   row.UserID,
		Status:   row.Status,
		JoinedAt: unixToTime(row.JoinedAt),
	}, true, nil
}

func (r *LeagueRepository) AddMember(ctx context.Context, m league.Membership) error {
	insertModel := leagueMemberInsertModel{
		LeagueID: m.LeagueID,
		UserID:   m.UserID,
		Status:   m.Status,
		JoinedAt: timeToUnix(m.JoinedAt),
	}
	query, args, err := qb.InsertModel("league_members", insertModel, `ON CONFLICT (league_public_id, user_id) WHERE deleted_at IS NULL
DO NOTHING`)
	if err != nil {
		return fmt.Errorf("build add member query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add league member: %w", err)
	}
	return nil
}

func (r *LeagueRepository) HasEvent(ctx context.Context, leagueID string, eventID int64) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM league_events
    WHERE league_public_id = $1
      AND event_id = $2
      AND deleted_at IS NULL
)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, leagueID, eventID); err != nil {
		return false, fmt.Errorf("check league event: %w", err)
	}
	return exists, nil
}

func (r *LeagueRepository) ListLeagueIDsByEvent(ctx context.Context, eventID int64) ([]string, error) {
	query, args, err := qb.Select("league_public_id").
		From("league_events").
		Where(
			qb.Eq("event_id", eventID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("league_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league ids query: %w", err)
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list league ids by event: %w", err)
	}
	return out, nil
}
