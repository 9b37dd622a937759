package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/matrixrace/matrixraceapp/internal/domain/league"
	"github.com/matrixrace/matrixraceapp/internal/domain/prediction"
)

func TestResultService_RecordResults_CompletesEventAndScores(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	competitors := newStubCompetitorRepository(testCompetitors()...)
	leagues := newStubLeagueRepository(league.League{ID: "league-1", Name: "Grid", OwnerID: "owner-1"})
	leagues.seedEvent("league-1", 10)

	predictions := newStubPredictionRepository()
	predictions.seedSet(prediction.Set{
		EventID: 10, UserID: "user-1", Tier: prediction.LockTierTwo,
		Picks: []prediction.Pick{{CompetitorID: 1, Position: 1, MaxPoints: 15}},
	})
	predictions.seedApplication(prediction.Application{LeagueID: "league-1", EventID: 10, UserID: "user-1"})

	results := newStubResultRepository()
	scores := newStubScoringRepository()
	scoringService := newScoringServiceForTest(events, leagues, predictions, results, scores)
	service := NewResultService(events, competitors, results, scoringService)

	summary, err := service.RecordResults(context.Background(), 10, []RecordResultRow{
		{CompetitorID: 1, Position: 1},
		{CompetitorID: 4, Position: 2},
		{CompetitorID: 16, Position: 3},
	})
	if err != nil {
		t.Fatalf("RecordResults error: %v", err)
	}
	if summary.UsersProcessed != 1 {
		t.Fatalf("summary = %+v, want 1 user processed", summary)
	}

	evt, _, _ := events.GetByID(context.Background(), 10)
	if !evt.Completed {
		t.Fatalf("event not marked completed")
	}

	stored, _ := scores.ListByLeagueEvent(context.Background(), "league-1", 10)
	if len(stored) != 1 || stored[0].Points != 15 {
		t.Fatalf("stored scores = %+v, want one 15-point row", stored)
	}
}

func TestResultService_RecordResults_RejectsDuplicatePosition(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	competitors := newStubCompetitorRepository(testCompetitors()...)
	results := newStubResultRepository()
	scoringService := newScoringServiceForTest(events, newStubLeagueRepository(), newStubPredictionRepository(), results, newStubScoringRepository())
	service := NewResultService(events, competitors, results, scoringService)

	_, err := service.RecordResults(context.Background(), 10, []RecordResultRow{
		{CompetitorID: 1, Position: 1},
		{CompetitorID: 4, Position: 1},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("RecordResults with duplicate position returned %v, want ErrInvalidInput", err)
	}
	if rows, _ := results.ListByEvent(context.Background(), 10); len(rows) != 0 {
		t.Fatalf("invalid submission stored %d rows", len(rows))
	}
}

func TestResultService_RecordResults_RejectsUnknownCompetitor(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	competitors := newStubCompetitorRepository(testCompetitors()...)
	results := newStubResultRepository()
	scoringService := newScoringServiceForTest(events, newStubLeagueRepository(), newStubPredictionRepository(), results, newStubScoringRepository())
	service := NewResultService(events, competitors, results, scoringService)

	_, err := service.RecordResults(context.Background(), 10, []RecordResultRow{
		{CompetitorID: 99, Position: 1},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("RecordResults with unknown competitor returned %v, want ErrNotFound", err)
	}
}

func TestResultService_RecordResults_UnknownEvent(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository()
	competitors := newStubCompetitorRepository(testCompetitors()...)
	results := newStubResultRepository()
	scoringService := newScoringServiceForTest(events, newStubLeagueRepository(), newStubPredictionRepository(), results, newStubScoringRepository())
	service := NewResultService(events, competitors, results, scoringService)

	_, err := service.RecordResults(context.Background(), 99, []RecordResultRow{{CompetitorID: 1, Position: 1}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("RecordResults for unknown event returned %v, want ErrNotFound", err)
	}
}
