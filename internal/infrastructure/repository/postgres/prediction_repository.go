package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matrixrace/matrixraceapp/internal/domain/prediction"
	qb "github.com/matrixrace/matrixraceapp/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) GetSet(ctx context.Context, eventID int64, userID string) (prediction.Set, bool, error) {
	query, args, err := qb.Select("*").
		From("predictions").
		Where(
			qb.Eq("event_id", eventID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return prediction.Set{}, false, fmt.Errorf("build get prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Set{}, false, nil
		}
		return prediction.Set{}, false, fmt.Errorf("get prediction: %w", err)
	}

	picksQuery, picksArgs, err := qb.Select("*").
		From("prediction_picks").
		Where(
			qb.Eq("prediction_id", row.ID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("position").
		ToSQL()
	if err != nil {
		return prediction.Set{}, false, fmt.Errorf("build get prediction picks query: %w", err)
	}

	var pickRows []predictionPickTableModel
	if err := r.db.SelectContext(ctx, &pickRows, picksQuery, picksArgs...); err != nil {
		return prediction.Set{}, false, fmt.Errorf("get prediction picks: %w", err)
	}

	picks := make([]prediction.Pick, 0, len(pickRows))
	for _, pickRow := range pickRows {
		picks = append(picks, prediction.Pick{
			CompetitorID: pickRow.CompetitorID,
			Position:     pickRow.Position,
			MaxPoints:    pickRow.MaxPoints,
		})
	}

	return prediction.Set{
		EventID:   row.EventID,
		UserID:    row.UserID,
		Tier:      prediction.LockTier(row.Tier),
		Picks:     picks,
		UpdatedAt: row.UpdatedAt,
	}, true, nil
}

func (r *PredictionRepository) ReplaceSet(ctx context.Context, set prediction.Set) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for prediction replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsertQuery = `
INSERT INTO predictions (event_id, user_id, tier)
VALUES (:event_id, :user_id, :tier)
ON CONFLICT (event_id, user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    tier = EXCLUDED.tier,
    updated_at = NOW(),
    deleted_at = NULL
RETURNING id`

	upsertSQL, upsertArgs, err := sqlx.Named(upsertQuery, map[string]any{
		"event_id": set.EventID,
		"user_id":  set.UserID,
		"tier":     string(set.Tier),
	})
	if err != nil {
		return fmt.Errorf("bind upsert prediction query: %w", err)
	}
	upsertSQL = tx.Rebind(upsertSQL)

	var predictionID int64
	if err := tx.GetContext(ctx, &predictionID, upsertSQL, upsertArgs...); err != nil {
		return fmt.Errorf("upsert prediction: %w", err)
	}

	const clearQuery = `
UPDATE prediction_picks
SET deleted_at = NOW()
WHERE prediction_id = $1
  AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, clearQuery, predictionID); err != nil {
		return fmt.Errorf("soft delete existing prediction picks: %w", err)
	}

	const insertPickQuery = `
INSERT INTO prediction_picks (prediction_id, competitor_id, position, max_points)
VALUES (:prediction_id, :competitor_id, :position, :max_points)
ON CONFLICT (prediction_id, competitor_id) WHERE deleted_at IS NULL
DO UPDATE SET
    position = EXCLUDED.position,
    max_points = EXCLUDED.max_points,
    updated_at = NOW(),
    deleted_at = NULL`

	for _, pick := range set.Picks {
		pickSQL, pickArgs, err := sqlx.Named(insertPickQuery, map[string]any{
			"prediction_id": predictionID,
			"competitor_id": pick.CompetitorID,
			"position":      pick.Position,
			"max_points":    pick.MaxPoints,
		})
		if err != nil {
			return fmt.Errorf("bind insert prediction pick competitor=%d query: %w", pick.CompetitorID, err)
		}
		pickSQL = tx.Rebind(pickSQL)
		if _, err := tx.ExecContext(ctx, pickSQL, pickArgs...); err != nil {
			return fmt.Errorf("insert prediction pick competitor=%d: %w", pick.CompetitorID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit prediction replace tx: %w", err)
	}
	return nil
}

func (r *PredictionRepository) DeleteSet(ctx context.Context, eventID int64, userID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for prediction delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const deletePicksQuery = `
UPDATE prediction_picks
SET deleted_at = NOW()
WHERE prediction_id IN (
    SELECT id FROM predictions
    WHERE event_id = $1 AND user_id = $2 AND deleted_at IS NULL
)
  AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, deletePicksQuery, eventID, userID); err != nil {
		return fmt.Errorf("soft delete prediction picks: %w", err)
	}

	const deleteSetQuery = `
UPDATE predictions
SET deleted_at = NOW()
WHERE event_id = $1
  AND user_id = $2
  AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, deleteSetQuery, eventID, userID); err != nil {
		return fmt.Errorf("soft delete prediction: %w", err)
	}

	const deleteAppsQuery = `
UPDATE prediction_applications
SET deleted_at = NOW()
WHERE event_id = $1
  AND user_id = $2
  AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, deleteAppsQuery, eventID, userID); err != nil {
		return fmt.Errorf("soft delete prediction applications: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit prediction delete tx: %w", err)
	}
	return nil
}

func (r *PredictionRepository) ClearApplications(ctx context.Context, eventID int64, userID string) error {
	query, args, err := qb.Update("prediction_applications").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("event_id", eventID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear applications query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear prediction applications: %w", err)
	}
	return nil
}

func (r *PredictionRepository) UpsertApplication(ctx context.Context, app prediction.Application) error {
	insertModel := applicationInsertModel{
		LeagueID:  app.LeagueID,
		EventID:   app.EventID,
		UserID:    app.UserID,
		AppliedAt: timeToUnix(app.AppliedAt),
	}
	query, args, err := qb.InsertModel("prediction_applications", insertModel, `ON CONFLICT (league_public_id, event_id, user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    applied_at = EXCLUDED.applied_at,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert application query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert prediction application: %w", err)
	}
	return nil
}

func (r *PredictionRepository) ListApplicantsByLeagueEvent(ctx context.Context, leagueID string, eventID int64) ([]prediction.Application, error) {
	query, args, err := qb.Select("*").
		From("prediction_applications").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("event_id", eventID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list applicants query: %w", err)
	}

	var rows []applicationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list applicants by league event: %w", err)
	}

	return applicationsToDomain(rows), nil
}

func (r *PredictionRepository) ListApplicationsByUserEvent(ctx context.Context, eventID int64, userID string) ([]prediction.Application, error) {
	query, args, err := qb.Select("*").
		From("prediction_applications").
		Where(
			qb.Eq("event_id", eventID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("league_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list applications query: %w", err)
	}

	var rows []applicationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list applications by user event: %w", err)
	}

	return applicationsToDomain(rows), nil
}

func applicationsToDomain(rows []applicationTableModel) []prediction.Application {
	out := make([]prediction.Application, 0, len(rows))
	for _, row := range rows {
		out = append(out, prediction.Application{
			LeagueID:  row.LeagueID,
			EventID:   row.EventID,
			UserID:    row.UserID,
			AppliedAt: unixToTime(row.AppliedAt),
		})
	}
	return out
}
