package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/matrixrace/matrixraceapp/internal/domain/competitor"
	"github.com/matrixrace/matrixraceapp/internal/domain/event"
	"github.com/matrixrace/matrixraceapp/internal/domain/result"
	"github.com/matrixrace/matrixraceapp/internal/platform/logging"
)

// FeedEvent is one calendar entry returned by the upstream results feed.
type FeedEvent struct {
	Season      int
	Round       int
	Name        string
	Location    string
	Country     string
	CircuitName string
	Tier1Start  *time.Time
	Tier2Start  *time.Time
	RaceStart   time.Time
}

// FeedResultRow is one classified driver from the upstream feed.
type FeedResultRow struct {
	CompetitorCode string
	FirstName      string
	LastName       string
	Number         int
	CountryCode    string
	Position       int
}

// ResultsFeed abstracts the upstream motorsport data provider.
type ResultsFeed interface {
	SeasonSchedule(ctx context.Context, season int) ([]FeedEvent, error)
	RaceClassification(ctx context.Context, season, round int) ([]FeedResultRow, error)
}

const defaultIngestionWorkers = 4

// IngestionService imports a season's calendar and finished classifications
// from the upstream feed.
type IngestionService struct {
	feed           ResultsFeed
	eventRepo      event.Repository
	competitorRepo competitor.Repository
	resultRepo     result.Repository
	scoring        *ScoringService
	workers        int
	logger         *logging.Logger
	now            func() time.Time
}

func NewIngestionService(
	feed ResultsFeed,
	eventRepo event.Repository,
	competitorRepo competitor.Repository,
	resultRepo result.Repository,
	scoringService *ScoringService,
	workers int,
	logger *logging.Logger,
) *IngestionService {
	if workers < 1 {
		workers = defaultIngestionWorkers
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &IngestionService{
		feed:           feed,
		eventRepo:      eventRepo,
		competitorRepo: competitorRepo,
		resultRepo:     resultRepo,
		scoring:        scoringService,
		workers:        workers,
		logger:         logger,
		now:            time.Now,
	}
}

// ImportSeasonResult reports counts from one ingestion run.
type ImportSeasonResult struct {
	Season          int `json:"season"`
	EventsImported  int `json:"events_imported"`
	EventsSkipped   int `json:"events_skipped"`
	RoundsCompleted int `json:"rounds_completed"`
	RoundsFailed    int `json:"rounds_failed"`
	WorkerCount     int `json:"worker_count"`
}

// ImportSeason upserts the season calendar, then pulls classifications for
// every round that has already started and rescores affected contests.
// Per-round failures are logged and counted without aborting the run.
func (s *IngestionService) ImportSeason(ctx context.Context, season int) (ImportSeasonResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.ImportSeason")
	defer span.End()

	if season <= 0 {
		return ImportSeasonResult{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	schedule, err := s.feed.SeasonSchedule(ctx, season)
	if err != nil {
		return ImportSeasonResult{}, fmt.Errorf("%w: fetch season schedule: %v", ErrDependencyUnavailable, err)
	}
	if len(schedule) == 0 {
		return ImportSeasonResult{}, fmt.Errorf("%w: season %d has no scheduled events", ErrNotFound, season)
	}

	out := ImportSeasonResult{Season: season, WorkerCount: s.workers}
	now := s.now().UTC()

	type startedRound struct {
		eventID int64
		round   int
	}
	var started []startedRound

	for _, entry := range schedule {
		evt := event.Event{
			Name:          entry.Name,
			Location:      entry.Location,
			Country:       entry.Country,
			CircuitName:   entry.CircuitName,
			Season:        entry.Season,
			Round:         entry.Round,
			Tier1Deadline: entry.Tier1Start,
			Tier2Deadline: entry.Tier2Start,
			FinalDeadline: entry.RaceStart,
		}
		if err := evt.Validate(); err != nil {
			out.EventsSkipped++
			s.logger.WarnContext(ctx, "skipping invalid feed event",
				"season", entry.Season,
				"round", entry.Round,
				"error", err,
			)
			continue
		}

		eventID, err := s.eventRepo.Upsert(ctx, evt)
		if err != nil {
			return out, fmt.Errorf("upsert event round %d: %w", entry.Round, err)
		}
		out.EventsImported++

		if evt.Started(now) {
			started = append(started, startedRound{eventID: eventID, round: entry.Round})
		}
	}

	if len(started) == 0 {
		return out, nil
	}

	workerPool, err := ants.NewPool(s.workers)
	if err != nil {
		return out, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var completed, failed atomic.Int64
	var workers sync.WaitGroup
	for _, round := range started {
		workers.Add(1)
		submitErr := workerPool.Submit(func() {
			defer workers.Done()

			if err := s.importRound(ctx, season, round.round, round.eventID); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "season round import failed",
					"season", season,
					"round", round.round,
					"error", err,
				)
				return
			}
			completed.Add(1)
		})
		if submitErr != nil {
			workers.Done()
			failed.Add(1)
		}
	}
	workers.Wait()

	out.RoundsCompleted = int(completed.Load())
	out.RoundsFailed = int(failed.Load())

	return out, nil
}

// importRound stores one round's classification. Rounds the feed has no
// classification for yet are skipped without error.
func (s *IngestionService) importRound(ctx context.Context, season, round int, eventID int64) error {
	feedRows, err := s.feed.RaceClassification(ctx, season, round)
	if err != nil {
		return fmt.Errorf("fetch classification: %w", err)
	}
	if len(feedRows) == 0 {
		return nil
	}

	rows := make([]result.Row, 0, len(feedRows))
	for _, feedRow := range feedRows {
		competitorID, err := s.competitorRepo.UpsertByCode(ctx, competitor.Competitor{
			Code:        feedRow.CompetitorCode,
			FirstName:   feedRow.FirstName,
			LastName:    feedRow.LastName,
			Number:      feedRow.Number,
			CountryCode: feedRow.CountryCode,
			Active:      true,
		})
		if err != nil {
			return fmt.Errorf("upsert competitor %s: %w", feedRow.CompetitorCode, err)
		}
		rows = append(rows, result.Row{
			EventID:      eventID,
			CompetitorID: competitorID,
			Position:     feedRow.Position,
		})
	}
	if err := result.ValidateRows(rows); err != nil {
		return fmt.Errorf("validate classification: %w", err)
	}

	if err := s.resultRepo.ReplaceForEvent(ctx, eventID, rows); err != nil {
		return fmt.Errorf("replace official results: %w", err)
	}
	if err := s.eventRepo.MarkCompleted(ctx, eventID, true); err != nil {
		return fmt.Errorf("mark event completed: %w", err)
	}
	if _, err := s.scoring.ScoreEvent(ctx, eventID); err != nil {
		return fmt.Errorf("score event: %w", err)
	}

	return nil
}
