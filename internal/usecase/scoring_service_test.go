package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matrixrace/matrixraceapp/internal/domain/league"
	"github.com/matrixrace/matrixraceapp/internal/domain/prediction"
	"github.com/matrixrace/matrixraceapp/internal/domain/result"
)

func newScoringServiceForTest(
	events *stubEventRepository,
	leagues *stubLeagueRepository,
	predictions *stubPredictionRepository,
	results *stubResultRepository,
	scores *stubScoringRepository,
) *ScoringService {
	service := NewScoringService(events, leagues, predictions, results, scores, 2)
	service.now = func() time.Time { return testRaceStart.Add(3 * time.Hour) }
	return service
}

func TestScoringService_ScoreEvent_DistancePoints(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	leagues := newStubLeagueRepository(league.League{ID: "league-1", Name: "Grid", OwnerID: "owner-1"})
	leagues.seedEvent("league-1", 10)

	predictions := newStubPredictionRepository()
	// user-1 called the podium exactly, user-2 swapped the top two and
	// picked one driver who never classified.
	predictions.seedSet(prediction.Set{
		EventID: 10, UserID: "user-1", Tier: prediction.LockTierOne,
		Picks: []prediction.Pick{
			{CompetitorID: 1, Position: 1, MaxPoints: 20},
			{CompetitorID: 4, Position: 2, MaxPoints: 20},
			{CompetitorID: 16, Position: 3, MaxPoints: 20},
		},
	})
	predictions.seedSet(prediction.Set{
		EventID: 10, UserID: "user-2", Tier: prediction.LockTierFinal,
		Picks: []prediction.Pick{
			{CompetitorID: 4, Position: 1, MaxPoints: 10},
			{CompetitorID: 1, Position: 2, MaxPoints: 10},
			{CompetitorID: 99, Position: 3, MaxPoints: 10},
		},
	})
	predictions.seedApplication(prediction.Application{LeagueID: "league-1", EventID: 10, UserID: "user-1"})
	predictions.seedApplication(prediction.Application{LeagueID: "league-1", EventID: 10, UserID: "user-2"})

	results := newStubResultRepository()
	_ = results.ReplaceForEvent(context.Background(), 10, []result.Row{
		{EventID: 10, CompetitorID: 1, Position: 1},
		{EventID: 10, CompetitorID: 4, Position: 2},
		{EventID: 10, CompetitorID: 16, Position: 3},
	})

	scores := newStubScoringRepository()
	service := newScoringServiceForTest(events, leagues, predictions, results, scores)

	summary, err := service.ScoreEvent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ScoreEvent error: %v", err)
	}
	if summary.LeaguesProcessed != 1 || summary.UsersProcessed != 2 {
		t.Fatalf("summary = %+v, want 1 league and 2 users", summary)
	}

	stored, err := scores.ListByLeagueEvent(context.Background(), "league-1", 10)
	if err != nil {
		t.Fatalf("ListByLeagueEvent error: %v", err)
	}
	byUser := map[string]int{}
	for _, score := range stored {
		byUser[score.UserID] = score.Points
	}
	if byUser["user-1"] != 60 {
		t.Fatalf("user-1 points = %d, want 60", byUser["user-1"])
	}
	// Two picks one place off at ceiling 10 each, one unclassified pick.
	if byUser["user-2"] != 18 {
		t.Fatalf("user-2 points = %d, want 18", byUser["user-2"])
	}
}

func TestScoringService_ScoreEvent_Rescore(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	leagues := newStubLeagueRepository(league.League{ID: "league-1", Name: "Grid", OwnerID: "owner-1"})
	leagues.seedEvent("league-1", 10)

	predictions := newStubPredictionRepository()
	predictions.seedSet(prediction.Set{
		EventID: 10, UserID: "user-1", Tier: prediction.LockTierFinal,
		Picks: []prediction.Pick{{CompetitorID: 1, Position: 1, MaxPoints: 10}},
	})
	predictions.seedApplication(prediction.Application{LeagueID: "league-1", EventID: 10, UserID: "user-1"})

	results := newStubResultRepository()
	_ = results.ReplaceForEvent(context.Background(), 10, []result.Row{
		{EventID: 10, CompetitorID: 1, Position: 3},
	})

	scores := newStubScoringRepository()
	service := newScoringServiceForTest(events, leagues, predictions, results, scores)

	if _, err := service.ScoreEvent(context.Background(), 10); err != nil {
		t.Fatalf("ScoreEvent error: %v", err)
	}

	// Stewards promote the driver to the win; a rescore must overwrite.
	_ = results.ReplaceForEvent(context.Background(), 10, []result.Row{
		{EventID: 10, CompetitorID: 1, Position: 1},
	})
	if _, err := service.ScoreEvent(context.Background(), 10); err != nil {
		t.Fatalf("rescore error: %v", err)
	}

	stored, _ := scores.ListByLeagueEvent(context.Background(), "league-1", 10)
	if len(stored) != 1 {
		t.Fatalf("stored %d scores, want 1", len(stored))
	}
	if stored[0].Points != 10 {
		t.Fatalf("rescored points = %d, want 10", stored[0].Points)
	}
}

func TestScoringService_ScoreEvent_NoResults(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	leagues := newStubLeagueRepository(league.League{ID: "league-1", Name: "Grid", OwnerID: "owner-1"})
	service := newScoringServiceForTest(events, leagues, newStubPredictionRepository(), newStubResultRepository(), newStubScoringRepository())

	_, err := service.ScoreEvent(context.Background(), 10)
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("ScoreEvent without results returned %v, want ErrStateConflict", err)
	}
}

func TestScoringService_ScoreEvent_UnknownEvent(t *testing.T) {
	t.Parallel()

	service := newScoringServiceForTest(
		newStubEventRepository(),
		newStubLeagueRepository(),
		newStubPredictionRepository(),
		newStubResultRepository(),
		newStubScoringRepository(),
	)

	_, err := service.ScoreEvent(context.Background(), 77)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ScoreEvent for unknown event returned %v, want ErrNotFound", err)
	}
}
