package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/matrixrace/matrixraceapp/internal/domain/event"
	"github.com/matrixrace/matrixraceapp/internal/domain/league"
	"github.com/matrixrace/matrixraceapp/internal/domain/prediction"
	"github.com/matrixrace/matrixraceapp/internal/domain/result"
	"github.com/matrixrace/matrixraceapp/internal/domain/scoring"
	"github.com/matrixrace/matrixraceapp/internal/platform/resilience"
)

const defaultScoringWorkers = 8

// ScoringService turns official results into per-user scores for every
// league contest touching an event.
type ScoringService struct {
	eventRepo      event.Repository
	leagueRepo     league.Repository
	predictionRepo prediction.Repository
	resultRepo     result.Repository
	scoringRepo    scoring.Repository
	workers        int
	now            func() time.Time
	scoreFlight    resilience.SingleFlight
}

func NewScoringService(
	eventRepo event.Repository,
	leagueRepo league.Repository,
	predictionRepo prediction.Repository,
	resultRepo result.Repository,
	scoringRepo scoring.Repository,
	workers int,
) *ScoringService {
	if workers < 1 {
		workers = defaultScoringWorkers
	}

	return &ScoringService{
		eventRepo:      eventRepo,
		leagueRepo:     leagueRepo,
		predictionRepo: predictionRepo,
		resultRepo:     resultRepo,
		scoringRepo:    scoringRepo,
		workers:        workers,
		now:            time.Now,
	}
}

// ScoreEventSummary reports the scale of one scoring run.
type ScoreEventSummary struct {
	EventID          int64
	LeaguesProcessed int
	UsersProcessed   int
}

// ScoreEvent recomputes scores for every application in every league that
// carries the event. Concurrent calls for the same event share one run, and
// the whole operation is safe to repeat after corrected results.
func (s *ScoringService) ScoreEvent(ctx context.Context, eventID int64) (ScoreEventSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreEvent")
	defer span.End()

	if eventID <= 0 {
		return ScoreEventSummary{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	key := fmt.Sprintf("scoring:event:%d", eventID)
	v, err, _ := s.scoreFlight.Do(key, func() (any, error) {
		return s.scoreEventOnce(ctx, eventID)
	})
	if err != nil {
		return ScoreEventSummary{}, err
	}

	return v.(ScoreEventSummary), nil
}

func (s *ScoringService) scoreEventOnce(ctx context.Context, eventID int64) (ScoreEventSummary, error) {
	if _, exists, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return ScoreEventSummary{}, fmt.Errorf("get event: %w", err)
	} else if !exists {
		return ScoreEventSummary{}, fmt.Errorf("%w: event=%d", ErrNotFound, eventID)
	}

	rows, err := s.resultRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return ScoreEventSummary{}, fmt.Errorf("list official results: %w", err)
	}
	if len(rows) == 0 {
		return ScoreEventSummary{}, fmt.Errorf("%w: event %d has no recorded results", ErrStateConflict, eventID)
	}

	actualPositions := make(map[int64]int, len(rows))
	for _, row := range rows {
		actualPositions[row.CompetitorID] = row.Position
	}

	leagueIDs, err := s.leagueRepo.ListLeagueIDsByEvent(ctx, eventID)
	if err != nil {
		return ScoreEventSummary{}, fmt.Errorf("list leagues by event: %w", err)
	}

	calculatedAt := s.now().UTC()
	var usersProcessed atomic.Int64
	leaguesProcessed := 0

	for _, leagueID := range leagueIDs {
		apps, err := s.predictionRepo.ListApplicantsByLeagueEvent(ctx, leagueID, eventID)
		if err != nil {
			return ScoreEventSummary{}, fmt.Errorf("list applicants for league %s: %w", leagueID, err)
		}
		if len(apps) == 0 {
			continue
		}

		workers := pool.New().WithErrors().WithMaxGoroutines(s.workers)
		for _, app := range apps {
			workers.Go(func() error {
				points, err := s.scoreUser(ctx, eventID, app.UserID, actualPositions)
				if err != nil {
					return err
				}
				err = s.scoringRepo.UpsertScore(ctx, scoring.Score{
					LeagueID:     leagueID,
					EventID:      eventID,
					UserID:       app.UserID,
					Points:       points,
					CalculatedAt: calculatedAt,
				})
				if err != nil {
					return fmt.Errorf("upsert score for user %s: %w", app.UserID, err)
				}
				usersProcessed.Add(1)
				return nil
			})
		}
		if err := workers.Wait(); err != nil {
			return ScoreEventSummary{}, fmt.Errorf("score league %s: %w", leagueID, err)
		}
		leaguesProcessed++
	}

	return ScoreEventSummary{
		EventID:          eventID,
		LeaguesProcessed: leaguesProcessed,
		UsersProcessed:   int(usersProcessed.Load()),
	}, nil
}

// scoreUser sums distance points across the user's picks. A pick whose
// competitor never classified earns nothing.
func (s *ScoringService) scoreUser(ctx context.Context, eventID int64, userID string, actualPositions map[int64]int) (int, error) {
	set, exists, err := s.predictionRepo.GetSet(ctx, eventID, userID)
	if err != nil {
		return 0, fmt.Errorf("get prediction set for user %s: %w", userID, err)
	}
	if !exists {
		return 0, nil
	}

	total := 0
	for _, pick := range set.Picks {
		actual, classified := actualPositions[pick.CompetitorID]
		if !classified {
			continue
		}
		total += prediction.PickPoints(pick.Position, actual, pick.MaxPoints)
	}

	return total, nil
}
