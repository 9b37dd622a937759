package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matrixrace/matrixraceapp/internal/domain/result"
	qb "github.com/matrixrace/matrixraceapp/internal/platform/querybuilder"
)

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) ReplaceForEvent(ctx context.Context, eventID int64, rows []result.Row) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for result replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const clearQuery = `
UPDATE official_results
SET deleted_at = NOW()
WHERE event_id = $1
  AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, clearQuery, eventID); err != nil {
		return fmt.Errorf("soft delete existing results: %w", err)
	}

	const insertQuery = `
INSERT INTO official_results (event_id, competitor_id, position)
VALUES (:event_id, :competitor_id, :position)
ON CONFLICT (event_id, competitor_id) WHERE deleted_at IS NULL
DO UPDATE SET
    position = EXCLUDED.position,
    updated_at = NOW(),
    deleted_at = NULL`

	for _, row := range rows {
		rowSQL, rowArgs, err := sqlx.Named(insertQuery, map[string]any{
			"event_id":      row.EventID,
			"competitor_id": row.CompetitorID,
			"position":      row.Position,
		})
		if err != nil {
			return fmt.Errorf("bind insert result competitor=%d query: %w", row.CompetitorID, err)
		}
		rowSQL = tx.Rebind(rowSQL)
		if _, err := tx.ExecContext(ctx, rowSQL, rowArgs...); err != nil {
			return fmt.Errorf("insert result competitor=%d: %w", row.CompetitorID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit result replace tx: %w", err)
	}
	return nil
}

func (r *ResultRepository) ListByEvent(ctx context.Context, eventID int64) ([]result.Row, error) {
	query, args, err := qb.Select("*").
		From("official_results").
		Where(
			qb.Eq("event_id", eventID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list results query: %w", err)
	}

	var rows []officialResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list results by event: %w", err)
	}

	out := make([]result.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, result.Row{
			EventID:      row.EventID,
			CompetitorID: row.CompetitorID,
			Position:     row.Position,
		})
	}
	return out, nil
}
