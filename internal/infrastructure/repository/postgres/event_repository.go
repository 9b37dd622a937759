package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matrixrace/matrixraceapp/internal/domain/event"
	qb "github.com/matrixrace/matrixraceapp/internal/platform/querybuilder"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetByID(ctx context.Context, eventID int64) (event.Event, bool, error) {
	query, args, err := qb.Select("*").
		From("events").
		Where(
			qb.Eq("id", eventID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return event.Event{}, false, fmt.Errorf("build get event query: %w", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.Event{}, false, nil
		}
		return event.Event{}, false, fmt.Errorf("get event: %w", err)
	}

	return eventToDomain(row), true, nil
}

func (r *EventRepository) GetBySeasonRound(ctx context.Context, season, round int) (event.Event, bool, error) {
	query, args, err := qb.Select("*").
		From("events").
		Where(
			qb.Eq("season", season),
			qb.Eq("round", round),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return event.Event{}, false, fmt.Errorf("build get event by round query: %w", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.Event{}, false, nil
		}
		return event.Event{}, false, fmt.Errorf("get event by round: %w", err)
	}

	return eventToDomain(row), true, nil
}

func (r *EventRepository) ListBySeason(ctx context.Context, season int) ([]event.Event, error) {
	query, args, err := qb.Select("*").
		From("events").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("round").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list events query: %w", err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list events by season: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventToDomain(row))
	}
	return out, nil
}

func (r *EventRepository) Upsert(ctx context.Context, evt event.Event) (int64, error) {
	insertModel := eventInsertModel{
		Name:          evt.Name,
		Location:      evt.Location,
		Country:       evt.Country,
		CircuitName:   evt.CircuitName,
		Season:        evt.Season,
		Round:         evt.Round,
		Tier1Deadline: timePtrToUnixPtr(evt.Tier1Deadline),
		Tier2Deadline: timePtrToUnixPtr(evt.Tier2Deadline),
		FinalDeadline: timeToUnix(evt.FinalDeadline),
		IsCompleted:   evt.Completed,
	}
	query, args, err := qb.InsertModel("events", insertModel, `ON CONFLICT (season, round) WHERE deleted_at IS NULL
DO UPDATE SET
    name = EXCLUDED.name,
    location = EXCLUDED.location,
    country = EXCLUDED.country,
    circuit_name = EXCLUDED.circuit_name,
    tier1_deadline = EXCLUDED.tier1_deadline,
    tier2_deadline = EXCLUDED.tier2_deadline,
    final_deadline = EXCLUDED.final_deadline,
    updated_at = NOW(),
    deleted_at = NULL
RETURNING id`)
	if err != nil {
		return 0, fmt.Errorf("build upsert event query: %w", err)
	}

	var eventID int64
	if err := r.db.GetContext(ctx, &eventID, query, args...); err != nil {
		return 0, fmt.Errorf("upsert event: %w", err)
	}
	return eventID, nil
}

func (r *EventRepository) MarkCompleted(ctx context.Context, eventID int64, completed bool) error {
	query, args, err := qb.Update("events").
		Set("is_completed", completed).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", eventID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark event completed query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark event completed: %w", err)
	}
	return nil
}

func eventToDomain(row eventTableModel) event.Event {
	return event.Event{
		ID:            row.ID,
		Name:          row.Name,
		Location:      row.Location,
		Country:       row.Country,
		CircuitName:   row.CircuitName,
		Season:        row.Season,
		Round:         row.Round,
		Tier1Deadline: nullUnixToTimePtr(row.Tier1Deadline),
		Tier2Deadline: nullUnixToTimePtr(row.Tier2Deadline),
		FinalDeadline: unixToTime(row.FinalDeadline),
		Completed:     row.IsCompleted,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
