package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matrixrace/matrixraceapp/internal/domain/competitor"
	qb "github.com/matrixrace/matrixraceapp/internal/platform/querybuilder"
)

type CompetitorRepository struct {
	db *sqlx.DB
}

func NewCompetitorRepository(db *sqlx.DB) *CompetitorRepository {
	return &CompetitorRepository{db: db}
}

func (r *CompetitorRepository) GetByID(ctx context.Context, competitorID int64) (competitor.Competitor, bool, error) {
	query, args, err := qb.Select("*").
		From("competitors").
		Where(
			qb.Eq("id", competitorID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return competitor.Competitor{}, false, fmt.Errorf("build get competitor query: %w", err)
	}

	var row competitorTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competitor.Competitor{}, false, nil
		}
		return competitor.Competitor{}, false, fmt.Errorf("get competitor: %w", err)
	}

	return competitorToDomain(row), true, nil
}

func (r *CompetitorRepository) ListActive(ctx context.Context) ([]competitor.Competitor, error) {
	query, args, err := qb.Select("*").
		From("competitors").
		Where(
			qb.Eq("is_active", true),
			qb.IsNull("deleted_at"),
		).
		OrderBy("last_name", "first_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list competitors query: %w", err)
	}

	var rows []competitorTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list active competitors: %w", err)
	}

	out := make([]competitor.Competitor, 0, len(rows))
	for _, row := range rows {
		out = append(out, competitorToDomain(row))
	}
	return out, nil
}

func (r *CompetitorRepository) UpsertByCode(ctx context.Context, c competitor.Competitor) (int64, error) {
	insertModel := competitorInsertModel{
		Code:        c.Code,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Number:      c.Number,
		CountryCode: c.CountryCode,
		IsActive:    c.Active,
	}
	query, args, err := qb.InsertModel("competitors", insertModel, `ON CONFLICT (code) WHERE deleted_at IS NULL
DO UPDATE SET
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    number = EXCLUDED.number,
    country_code = EXCLUDED.country_code,
    is_active = EXCLUDED.is_active,
    updated_at = NOW(),
    deleted_at = NULL
RETURNING id`)
	if err != nil {
		return 0, fmt.Errorf("build upsert competitor query: %w", err)
	}

	var competitorID int64
	if err := r.db.GetContext(ctx, &competitorID, query, args...); err != nil {
		return 0, fmt.Errorf("upsert competitor: %w", err)
	}
	return competitorID, nil
}

func competitorToDomain(row competitorTableModel) competitor.Competitor {
	return competitor.Competitor{
		ID:          row.ID,
		Code:        row.Code,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Number:      row.Number,
		CountryCode: row.CountryCode,
		Active:      row.IsActive,
	}
}
