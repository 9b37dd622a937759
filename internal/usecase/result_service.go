package usecase

import (
	"context"
	"fmt"

	"github.com/matrixrace/matrixraceapp/internal/domain/competitor"
	"github.com/matrixrace/matrixraceapp/internal/domain/event"
	"github.com/matrixrace/matrixraceapp/internal/domain/result"
)

// ResultService records official classifications and triggers scoring.
type ResultService struct {
	eventRepo      event.Repository
	competitorRepo competitor.Repository
	resultRepo     result.Repository
	scoring        *ScoringService
}

func NewResultService(
	eventRepo event.Repository,
	competitorRepo competitor.Repository,
	resultRepo result.Repository,
	scoringService *ScoringService,
) *ResultService {
	return &ResultService{
		eventRepo:      eventRepo,
		competitorRepo: competitorRepo,
		resultRepo:     resultRepo,
		scoring:        scoringService,
	}
}

// RecordResultRow is one classified competitor as submitted by an operator.
type RecordResultRow struct {
	CompetitorID int64
	Position     int
}

// RecordResults replaces the event's classification wholesale, marks the
// event completed, and rescores every affected league contest.
func (s *ResultService) RecordResults(ctx context.Context, eventID int64, input []RecordResultRow) (ScoreEventSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.RecordResults")
	defer span.End()

	if eventID <= 0 {
		return ScoreEventSummary{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	if _, exists, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return ScoreEventSummary{}, fmt.Errorf("get event: %w", err)
	} else if !exists {
		return ScoreEventSummary{}, fmt.Errorf("%w: event=%d", ErrNotFound, eventID)
	}

	rows := make([]result.Row, 0, len(input))
	for _, r := range input {
		rows = append(rows, result.Row{
			EventID:      eventID,
			CompetitorID: r.CompetitorID,
			Position:     r.Position,
		})
	}
	if err := result.ValidateRows(rows); err != nil {
		return ScoreEventSummary{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, row := range rows {
		if _, exists, err := s.competitorRepo.GetByID(ctx, row.CompetitorID); err != nil {
			return ScoreEventSummary{}, fmt.Errorf("get competitor: %w", err)
		} else if !exists {
			return ScoreEventSummary{}, fmt.Errorf("%w: competitor=%d", ErrNotFound, row.CompetitorID)
		}
	}

	if err := s.resultRepo.ReplaceForEvent(ctx, eventID, rows); err != nil {
		return ScoreEventSummary{}, fmt.Errorf("replace official results: %w", err)
	}
	if err := s.eventRepo.MarkCompleted(ctx, eventID, true); err != nil {
		return ScoreEventSummary{}, fmt.Errorf("mark event completed: %w", err)
	}

	summary, err := s.scoring.ScoreEvent(ctx, eventID)
	if err != nil {
		return ScoreEventSummary{}, fmt.Errorf("score event after results: %w", err)
	}

	return summary, nil
}

// ListResults returns the recorded classification for an event.
func (s *ResultService) ListResults(ctx context.Context, eventID int64) ([]result.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.ListResults")
	defer span.End()

	if eventID <= 0 {
		return nil, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}
	if _, exists, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: event=%d", ErrNotFound, eventID)
	}

	rows, err := s.resultRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list official results: %w", err)
	}

	return rows, nil
}
