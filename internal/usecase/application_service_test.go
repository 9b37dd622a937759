package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matrixrace/matrixraceapp/internal/domain/league"
	"github.com/matrixrace/matrixraceapp/internal/domain/prediction"
)

func newApplicationServiceForTest(
	events *stubEventRepository,
	leagues *stubLeagueRepository,
	predictions *stubPredictionRepository,
) *ApplicationService {
	service := NewApplicationService(events, leagues, predictions)
	service.now = func() time.Time { return testQualifying.Add(-time.Hour) }
	return service
}

func seededPredictionRepo() *stubPredictionRepository {
	predictions := newStubPredictionRepository()
	predictions.seedSet(prediction.Set{
		EventID: 10,
		UserID:  "user-1",
		Tier:    prediction.LockTierTwo,
		Picks:   []prediction.Pick{{CompetitorID: 1, Position: 1, MaxPoints: 15}},
	})
	return predictions
}

func TestApplicationService_ApplyToLeagues_MemberAndOpenJoin(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	leagues := newStubLeagueRepository(
		league.League{ID: "league-member", Name: "Paddock Club", OwnerID: "owner-1"},
		league.League{ID: "league-open", Name: "Open Grid", OwnerID: "owner-2", Public: true},
	)
	leagues.seedMembership(league.Membership{LeagueID: "league-member", UserID: "user-1", Status: league.MembershipStatusActive})
	leagues.seedEvent("league-member", 10)
	leagues.seedEvent("league-open", 10)

	predictions := seededPredictionRepo()
	service := newApplicationServiceForTest(events, leagues, predictions)

	got, err := service.ApplyToLeagues(context.Background(), 10, "user-1", []string{"league-member", "league-open"})
	if err != nil {
		t.Fatalf("ApplyToLeagues error: %v", err)
	}
	if len(got.Applied) != 2 || len(got.Failures) != 0 {
		t.Fatalf("ApplyToLeagues = %+v, want 2 applied and no failures", got)
	}

	// Open-join leagues take the user in as an active member on the way.
	m, ok, _ := leagues.GetMembership(context.Background(), "league-open", "user-1")
	if !ok || !m.Active() {
		t.Fatalf("open league membership = (%+v, %v), want active member", m, ok)
	}
}

func TestApplicationService_ApplyToLeagues_CollectsPerLeagueFailures(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	leagues := newStubLeagueRepository(
		league.League{ID: "league-gated", Name: "Invite Only", OwnerID: "owner-1", Public: true, RequiresApproval: true},
		league.League{ID: "league-ok", Name: "Open Grid", OwnerID: "owner-2", Public: true},
		league.League{ID: "league-no-event", Name: "Sprint Cup", OwnerID: "owner-3", Public: true},
	)
	leagues.seedEvent("league-gated", 10)
	leagues.seedEvent("league-ok", 10)

	predictions := seededPredictionRepo()
	service := newApplicationServiceForTest(events, leagues, predictions)

	got, err := service.ApplyToLeagues(context.Background(), 10, "user-1",
		[]string{"league-gated", "league-ok", "league-no-event", "league-missing"})
	if err != nil {
		t.Fatalf("ApplyToLeagues error: %v", err)
	}
	if len(got.Applied) != 1 || got.Applied[0] != "league-ok" {
		t.Fatalf("applied = %v, want [league-ok]", got.Applied)
	}
	if len(got.Failures) != 3 {
		t.Fatalf("failures = %d, want 3", len(got.Failures))
	}

	byLeague := map[string]error{}
	for _, failure := range got.Failures {
		byLeague[failure.LeagueID] = failure.Err
	}
	if !errors.Is(byLeague["league-gated"], ErrNotEligible) {
		t.Fatalf("gated league error = %v, want ErrNotEligible", byLeague["league-gated"])
	}
	if !errors.Is(byLeague["league-no-event"], ErrNotEligible) {
		t.Fatalf("no-event league error = %v, want ErrNotEligible", byLeague["league-no-event"])
	}
	if !errors.Is(byLeague["league-missing"], ErrNotFound) {
		t.Fatalf("missing league error = %v, want ErrNotFound", byLeague["league-missing"])
	}
}

func TestApplicationService_ApplyToLeagues_ReplacesEarlierApplications(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	leagues := newStubLeagueRepository(
		league.League{ID: "league-a", Name: "A", OwnerID: "owner-1", Public: true},
		league.League{ID: "league-b", Name: "B", OwnerID: "owner-2", Public: true},
	)
	leagues.seedEvent("league-a", 10)
	leagues.seedEvent("league-b", 10)

	predictions := seededPredictionRepo()
	predictions.seedApplication(prediction.Application{LeagueID: "league-a", EventID: 10, UserID: "user-1"})

	service := newApplicationServiceForTest(events, leagues, predictions)

	got, err := service.ApplyToLeagues(context.Background(), 10, "user-1", []string{"league-b"})
	if err != nil {
		t.Fatalf("ApplyToLeagues error: %v", err)
	}
	if len(got.Applied) != 1 || got.Applied[0] != "league-b" {
		t.Fatalf("applied = %v, want [league-b]", got.Applied)
	}

	apps, _ := predictions.ListApplicationsByUserEvent(context.Background(), 10, "user-1")
	if len(apps) != 1 || apps[0].LeagueID != "league-b" {
		t.Fatalf("applications after replace = %+v, want only league-b", apps)
	}
}

func TestApplicationService_ApplyToLeagues_RequiresPrediction(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	leagues := newStubLeagueRepository(league.League{ID: "league-a", Name: "A", OwnerID: "owner-1", Public: true})
	leagues.seedEvent("league-a", 10)

	service := newApplicationServiceForTest(events, leagues, newStubPredictionRepository())

	_, err := service.ApplyToLeagues(context.Background(), 10, "user-1", []string{"league-a"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ApplyToLeagues without prediction returned %v, want ErrNotFound", err)
	}
}

func TestApplicationService_ApplyToLeagues_DedupesLeagueIDs(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	leagues := newStubLeagueRepository(league.League{ID: "league-a", Name: "A", OwnerID: "owner-1", Public: true})
	leagues.seedEvent("league-a", 10)

	predictions := seededPredictionRepo()
	service := newApplicationServiceForTest(events, leagues, predictions)

	got, err := service.ApplyToLeagues(context.Background(), 10, "user-1", []string{"league-a", " league-a", ""})
	if err != nil {
		t.Fatalf("ApplyToLeagues error: %v", err)
	}
	if len(got.Applied) != 1 {
		t.Fatalf("applied = %v, want a single entry", got.Applied)
	}
}
