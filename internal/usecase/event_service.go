package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/matrixrace/matrixraceapp/internal/domain/competitor"
	"github.com/matrixrace/matrixraceapp/internal/domain/event"
)

// EventService serves calendar and competitor reads.
type EventService struct {
	eventRepo      event.Repository
	competitorRepo competitor.Repository
	now            func() time.Time
}

func NewEventService(eventRepo event.Repository, competitorRepo competitor.Repository) *EventService {
	return &EventService{
		eventRepo:      eventRepo,
		competitorRepo: competitorRepo,
		now:            time.Now,
	}
}

func (s *EventService) GetEvent(ctx context.Context, eventID int64) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.GetEvent")
	defer span.End()

	if eventID <= 0 {
		return event.Event{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	evt, exists, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return event.Event{}, fmt.Errorf("get event: %w", err)
	}
	if !exists {
		return event.Event{}, fmt.Errorf("%w: event=%d", ErrNotFound, eventID)
	}

	return evt, nil
}

// ListSeason returns the season calendar. Season zero means the current
// year.
func (s *EventService) ListSeason(ctx context.Context, season int) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.ListSeason")
	defer span.End()

	if season < 0 {
		return nil, fmt.Errorf("%w: season must not be negative", ErrInvalidInput)
	}
	if season == 0 {
		season = s.now().UTC().Year()
	}

	events, err := s.eventRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list events by season: %w", err)
	}

	return events, nil
}

func (s *EventService) ListCompetitors(ctx context.Context) ([]competitor.Competitor, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.ListCompetitors")
	defer span.End()

	competitors, err := s.competitorRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active competitors: %w", err)
	}

	return competitors, nil
}
