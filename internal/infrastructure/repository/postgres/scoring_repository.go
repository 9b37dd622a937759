package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matrixrace/matrixraceapp/internal/domain/scoring"
	qb "github.com/matrixrace/matrixraceapp/internal/platform/querybuilder"
)

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) UpsertScore(ctx context.Context, score scoring.Score) error {
	insertModel := scoreInsertModel{
		LeagueID:     score.LeagueID,
		EventID:      score.EventID,
		UserID:       score.UserID,
		Points:       score.Points,
		CalculatedAt: timeToUnix(score.CalculatedAt),
	}
	query, args, err := qb.InsertModel("scores", insertModel, `ON CONFLICT (league_public_id, event_id, user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    points = EXCLUDED.points,
    calculated_at = EXCLUDED.calculated_at,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert score query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}

func (r *ScoringRepository) ListByLeague(ctx context.Context, leagueID string) ([]scoring.Score, error) {
	query, args, err := qb.Select("*").
		From("scores").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("event_id", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scores query: %w", err)
	}

	var rows []scoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scores by league: %w", err)
	}

	return scoresToDomain(rows), nil
}

func (r *ScoringRepository) ListByLeagueEvent(ctx context.Context, leagueID string, eventID int64) ([]scoring.Score, error) {
	query, args, err := qb.Select("*").
		From("scores").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("event_id", eventID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list event scores query: %w", err)
	}

	var rows []scoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scores by league event: %w", err)
	}

	return scoresToDomain(rows), nil
}

func scoresToDomain(rows []scoreTableModel) []scoring.Score {
	out := make([]scoring.Score, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoring.Score{
			LeagueID:     row.LeagueID,
			EventID:      row.EventID,
			UserID:       row.UserID,
			Points:       row.Points,
			CalculatedAt: unixToTime(row.CalculatedAt),
		})
	}
	return out
}
