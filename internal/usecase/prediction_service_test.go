package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matrixrace/matrixraceapp/internal/domain/competitor"
	"github.com/matrixrace/matrixraceapp/internal/domain/event"
	"github.com/matrixrace/matrixraceapp/internal/domain/league"
	"github.com/matrixrace/matrixraceapp/internal/domain/prediction"
	"github.com/matrixrace/matrixraceapp/internal/domain/result"
	"github.com/matrixrace/matrixraceapp/internal/domain/scoring"
)

var (
	testRaceStart  = time.Date(2026, time.March, 8, 5, 0, 0, 0, time.UTC)
	testPractice   = testRaceStart.Add(-48 * time.Hour)
	testQualifying = testRaceStart.Add(-22 * time.Hour)
)

func testEvent() event.Event {
	practice := testPractice
	qualifying := testQualifying
	return event.Event{
		ID:            10,
		Name:          "Australian Grand Prix",
		Location:      "Melbourne",
		Country:       "Australia",
		CircuitName:   "Albert Park",
		Season:        2026,
		Round:         1,
		Tier1Deadline: &practice,
		Tier2Deadline: &qualifying,
		FinalDeadline: testRaceStart,
	}
}

func testCompetitors() []competitor.Competitor {
	return []competitor.Competitor{
		{ID: 1, Code: "VER", LastName: "Verstappen", Active: true},
		{ID: 4, Code: "NOR", LastName: "Norris", Active: true},
		{ID: 16, Code: "LEC", LastName: "Leclerc", Active: true},
	}
}

func newPredictionServiceForTest(
	events *stubEventRepository,
	competitors *stubCompetitorRepository,
	predictions *stubPredictionRepository,
	now time.Time,
) *PredictionService {
	service := NewPredictionService(events, competitors, predictions, nil)
	service.now = func() time.Time { return now }
	return service
}

func TestPredictionService_Submit_StoresTaggedPicks(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	competitors := newStubCompetitorRepository(testCompetitors()...)
	predictions := newStubPredictionRepository()
	service := newPredictionServiceForTest(events, competitors, predictions, testPractice.Add(-time.Hour))

	set, err := service.Submit(context.Background(), SubmitPredictionInput{
		EventID: 10,
		UserID:  "user-1",
		Tier:    "tier1",
		Picks: []SubmitPredictionPick{
			{CompetitorID: 1, Position: 1},
			{CompetitorID: 4, Position: 2},
			{CompetitorID: 16, Position: 3},
		},
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if set.Tier != prediction.LockTierOne {
		t.Fatalf("set tier = %s, want tier1", set.Tier)
	}
	for _, pick := range set.Picks {
		if pick.MaxPoints != 20 {
			t.Fatalf("pick ceiling = %d, want 20", pick.MaxPoints)
		}
	}

	stored, exists, err := predictions.GetSet(context.Background(), 10, "user-1")
	if err != nil || !exists {
		t.Fatalf("stored set missing: exists=%v err=%v", exists, err)
	}
	if len(stored.Picks) != 3 {
		t.Fatalf("stored %d picks, want 3", len(stored.Picks))
	}
}

func TestPredictionService_Submit_RejectsLockedTier(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	competitors := newStubCompetitorRepository(testCompetitors()...)
	predictions := newStubPredictionRepository()
	service := newPredictionServiceForTest(events, competitors, predictions, testPractice.Add(time.Minute))

	_, err := service.Submit(context.Background(), SubmitPredictionInput{
		EventID: 10,
		UserID:  "user-1",
		Tier:    "tier1",
		Picks:   []SubmitPredictionPick{{CompetitorID: 1, Position: 1}},
	})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("Submit after tier1 lock returned %v, want ErrStateConflict", err)
	}
}

func TestPredictionService_Submit_UnscheduledSessionStaysOpen(t *testing.T) {
	t.Parallel()

	evt := testEvent()
	evt.Tier1Deadline = nil
	events := newStubEventRepository(evt)
	competitors := newStubCompetitorRepository(testCompetitors()...)
	predictions := newStubPredictionRepository()
	service := newPredictionServiceForTest(events, competitors, predictions, testRaceStart.Add(-time.Hour))

	_, err := service.Submit(context.Background(), SubmitPredictionInput{
		EventID: 10,
		UserID:  "user-1",
		Tier:    "tier1",
		Picks:   []SubmitPredictionPick{{CompetitorID: 1, Position: 1}},
	})
	if err != nil {
		t.Fatalf("Submit with unscheduled session returned %v", err)
	}
}

func TestPredictionService_Submit_RejectsWhenExistingSetLocked(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	competitors := newStubCompetitorRepository(testCompetitors()...)
	predictions := newStubPredictionRepository()
	predictions.seedSet(prediction.Set{
		EventID: 10,
		UserID:  "user-1",
		Tier:    prediction.LockTierOne,
		Picks:   []prediction.Pick{{CompetitorID: 1, Position: 1, MaxPoints: 20}},
	})

	// Practice has started, so the stored tier1 set is frozen even though
	// the race tier is still open.
	service := newPredictionServiceForTest(events, competitors, predictions, testQualifying.Add(time.Hour))

	_, err := service.Submit(context.Background(), SubmitPredictionInput{
		EventID: 10,
		UserID:  "user-1",
		Tier:    "final",
		Picks:   []SubmitPredictionPick{{CompetitorID: 4, Position: 1}},
	})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("Submit over locked set returned %v, want ErrStateConflict", err)
	}
}

func TestPredictionService_Submit_RejectsCompletedEvent(t *testing.T) {
	t.Parallel()

	evt := testEvent()
	evt.Completed = true
	events := newStubEventRepository(evt)
	competitors := newStubCompetitorRepository(testCompetitors()...)
	predictions := newStubPredictionRepository()
	service := newPredictionServiceForTest(events, competitors, predictions, testPractice.Add(-time.Hour))

	_, err := service.Submit(context.Background(), SubmitPredictionInput{
		EventID: 10,
		UserID:  "user-1",
		Tier:    "tier1",
		Picks:   []SubmitPredictionPick{{CompetitorID: 1, Position: 1}},
	})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("Submit on completed event returned %v, want ErrStateConflict", err)
	}
}

func TestPredictionService_Submit_RejectsInactiveCompetitor(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	competitors := newStubCompetitorRepository(testCompetitors()...)
	predictions := newStubPredictionRepository()
	service := newPredictionServiceForTest(events, competitors, predictions, testPractice.Add(-time.Hour))

	_, err := service.Submit(context.Background(), SubmitPredictionInput{
		EventID: 10,
		UserID:  "user-1",
		Tier:    "tier1",
		Picks:   []SubmitPredictionPick{{CompetitorID: 99, Position: 1}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Submit with unknown competitor returned %v, want ErrInvalidInput", err)
	}
}

func TestPredictionService_Submit_RejectsUnknownTier(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	competitors := newStubCompetitorRepository(testCompetitors()...)
	predictions := newStubPredictionRepository()
	service := newPredictionServiceForTest(events, competitors, predictions, testPractice.Add(-time.Hour))

	_, err := service.Submit(context.Background(), SubmitPredictionInput{
		EventID: 10,
		UserID:  "user-1",
		Tier:    "sprint",
		Picks:   []SubmitPredictionPick{{CompetitorID: 1, Position: 1}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Submit with unknown tier returned %v, want ErrInvalidInput", err)
	}
}

func TestPredictionService_Remove_DeletesSetAndApplications(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	competitors := newStubCompetitorRepository(testCompetitors()...)
	predictions := newStubPredictionRepository()
	predictions.seedSet(prediction.Set{
		EventID: 10,
		UserID:  "user-1",
		Tier:    prediction.LockTierFinal,
		Picks:   []prediction.Pick{{CompetitorID: 1, Position: 1, MaxPoints: 10}},
	})
	predictions.seedApplication(prediction.Application{LeagueID: "league-1", EventID: 10, UserID: "user-1"})

	service := newPredictionServiceForTest(events, competitors, predictions, testRaceStart.Add(-time.Hour))

	if err := service.Remove(context.Background(), 10, "user-1"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, exists, _ := predictions.GetSet(context.Background(), 10, "user-1"); exists {
		t.Fatalf("set still present after Remove")
	}
	apps, _ := predictions.ListApplicationsByUserEvent(context.Background(), 10, "user-1")
	if len(apps) != 0 {
		t.Fatalf("applications still present after Remove: %d", len(apps))
	}
}

func TestPredictionService_Remove_RejectsAfterLock(t *testing.T) {
	t.Parallel()

	events := newStubEventRepository(testEvent())
	competitors := newStubCompetitorRepository(testCompetitors()...)
	predictions := newStubPredictionRepository()
	predictions.seedSet(prediction.Set{
		EventID: 10,
		UserID:  "user-1",
		Tier:    prediction.LockTierFinal,
		Picks:   []prediction.Pick{{CompetitorID: 1, Position: 1, MaxPoints: 10}},
	})

	service := newPredictionServiceForTest(events, competitors, predictions, testRaceStart.Add(time.Minute))

	if err := service.Remove(context.Background(), 10, "user-1"); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("Remove after race start returned %v, want ErrStateConflict", err)
	}
}

// Shared stub repositories for the service tests in this package.

type stubEventRepository struct {
	mu     sync.Mutex
	byID   map[int64]event.Event
	nextID int64
	err    error
}

func newStubEventRepository(events ...event.Event) *stubEventRepository {
	repo := &stubEventRepository{byID: map[int64]event.Event{}, nextID: 1}
	for _, evt := range events {
		repo.byID[evt.ID] = evt
		if evt.ID >= repo.nextID {
			repo.nextID = evt.ID + 1
		}
	}
	return repo
}

func (r *stubEventRepository) GetByID(_ context.Context, eventID int64) (event.Event, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return event.Event{}, false, r.err
	}
	evt, ok := r.byID[eventID]
	return evt, ok, nil
}

func (r *stubEventRepository) GetBySeasonRound(_ context.Context, season, round int) (event.Event, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, evt := range r.byID {
		if evt.Season == season && evt.Round == round {
			return evt, true, nil
		}
	}
	return event.Event{}, false, nil
}

func (r *stubEventRepository) ListBySeason(_ context.Context, season int) ([]event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, evt := range r.byID {
		if evt.Season == season {
			out = append(out, evt)
		}
	}
	return out, nil
}

func (r *stubEventRepository) Upsert(_ context.Context, evt event.Event) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.byID {
		if existing.Season == evt.Season && existing.Round == evt.Round {
			evt.ID = id
			r.byID[id] = evt
			return id, nil
		}
	}
	evt.ID = r.nextID
	r.nextID++
	r.byID[evt.ID] = evt
	return evt.ID, nil
}

func (r *stubEventRepository) MarkCompleted(_ context.Context, eventID int64, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	evt, ok := r.byID[eventID]
	if !ok {
		return fmt.Errorf("event %d not found", eventID)
	}
	evt.Completed = completed
	r.byID[eventID] = evt
	return nil
}

type stubCompetitorRepository struct {
	mu     sync.Mutex
	byID   map[int64]competitor.Competitor
	nextID int64
}

func newStubCompetitorRepository(competitors ...competitor.Competitor) *stubCompetitorRepository {
	repo := &stubCompetitorRepository{byID: map[int64]competitor.Competitor{}, nextID: 1}
	for _, c := range competitors {
		repo.byID[c.ID] = c
		if c.ID >= repo.nextID {
			repo.nextID = c.ID + 1
		}
	}
	return repo
}

func (r *stubCompetitorRepository) GetByID(_ context.Context, competitorID int64) (competitor.Competitor, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[competitorID]
	return c, ok, nil
}

func (r *stubCompetitorRepository) ListActive(_ context.Context) ([]competitor.Competitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []competitor.Competitor
	for _, c := range r.byID {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubCompetitorRepository) UpsertByCode(_ context.Context, c competitor.Competitor) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.byID {
		if existing.Code == c.Code {
			c.ID = id
			r.byID[id] = c
			return id, nil
		}
	}
	c.ID = r.nextID
	r.nextID++
	r.byID[c.ID] = c
	return c.ID, nil
}

func setKey(eventID int64, userID string) string {
	return fmt.Sprintf("%d|%s", eventID, userID)
}

func appKey(leagueID string, eventID int64, userID string) string {
	return fmt.Sprintf("%s|%d|%s", leagueID, eventID, userID)
}

type stubPredictionRepository struct {
	mu   sync.Mutex
	sets map[string]prediction.Set
	apps map[string]prediction.Application
}

func newStubPredictionRepository() *stubPredictionRepository {
	return &stubPredictionRepository{
		sets: map[string]prediction.Set{},
		apps: map[string]prediction.Application{},
	}
}

func (r *stubPredictionRepository) seedSet(set prediction.Set) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets[setKey(set.EventID, set.UserID)] = set
}

func (r *stubPredictionRepository) seedApplication(app prediction.Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[appKey(app.LeagueID, app.EventID, app.UserID)] = app
}

func (r *stubPredictionRepository) GetSet(_ context.Context, eventID int64, userID string) (prediction.Set, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sets[setKey(eventID, userID)]
	return set, ok, nil
}

func (r *stubPredictionRepository) ReplaceSet(_ context.Context, set prediction.Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets[setKey(set.EventID, set.UserID)] = set
	return nil
}

func (r *stubPredictionRepository) DeleteSet(_ context.Context, eventID int64, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sets, setKey(eventID, userID))
	for key, app := range r.apps {
		if app.EventID == eventID && app.UserID == userID {
			delete(r.apps, key)
		}
	}
	return nil
}

func (r *stubPredictionRepository) ClearApplications(_ context.Context, eventID int64, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, app := range r.apps {
		if app.EventID == eventID && app.UserID == userID {
			delete(r.apps, key)
		}
	}
	return nil
}

func (r *stubPredictionRepository) UpsertApplication(_ context.Context, app prediction.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[appKey(app.LeagueID, app.EventID, app.UserID)] = app
	return nil
}

func (r *stubPredictionRepository) ListApplicantsByLeagueEvent(_ context.Context, leagueID string, eventID int64) ([]prediction.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []prediction.Application
	for _, app := range r.apps {
		if app.LeagueID == leagueID && app.EventID == eventID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (r *stubPredictionRepository) ListApplicationsByUserEvent(_ context.Context, eventID int64, userID string) ([]prediction.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []prediction.Application
	for _, app := range r.apps {
		if app.EventID == eventID && app.UserID == userID {
			out = append(out, app)
		}
	}
	return out, nil
}

type stubLeagueRepository struct {
	mu          sync.Mutex
	byID        map[string]league.League
	memberships map[string]league.Membership
	events      map[string]map[int64]struct{}
}

func newStubLeagueRepository(leagues ...league.League) *stubLeagueRepository {
	repo := &stubLeagueRepository{
		byID:        map[string]league.League{},
		memberships: map[string]league.Membership{},
		events:      map[string]map[int64]struct{}{},
	}
	for _, lg := range leagues {
		repo.byID[lg.ID] = lg
	}
	return repo
}

func (r *stubLeagueRepository) seedMembership(m league.Membership) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memberships[m.LeagueID+"|"+m.UserID] = m
}

func (r *stubLeagueRepository) seedEvent(leagueID string, eventID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.events[leagueID] == nil {
		r.events[leagueID] = map[int64]struct{}{}
	}
	r.events[leagueID][eventID] = struct{}{}
}

func (r *stubLeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lg, ok := r.byID[leagueID]
	return lg, ok, nil
}

func (r *stubLeagueRepository) GetMembership(_ context.Context, leagueID, userID string) (league.Membership, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memberships[leagueID+"|"+userID]
	return m, ok, nil
}

func (r *stubLeagueRepository) AddMember(_ context.Context, m league.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := m.LeagueID + "|" + m.UserID
	if _, ok := r.memberships[key]; ok {
		return nil
	}
	r.memberships[key] = m
	return nil
}

func (r *stubLeagueRepository) HasEvent(_ context.Context, leagueID string, eventID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.events[leagueID][eventID]
	return ok, nil
}

func (r *stubLeagueRepository) ListLeagueIDsByEvent(_ context.Context, eventID int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for leagueID, events := range r.events {
		if _, ok := events[eventID]; ok {
			out = append(out, leagueID)
		}
	}
	return out, nil
}

type stubResultRepository struct {
	mu      sync.Mutex
	byEvent map[int64][]result.Row
}

func newStubResultRepository() *stubResultRepository {
	return &stubResultRepository{byEvent: map[int64][]result.Row{}}
}

func (r *stubResultRepository) ReplaceForEvent(_ context.Context, eventID int64, rows []result.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byEvent[eventID] = append([]result.Row(nil), rows...)
	return nil
}

func (r *stubResultRepository) ListByEvent(_ context.Context, eventID int64) ([]result.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]result.Row(nil), r.byEvent[eventID]...), nil
}

type stubScoringRepository struct {
	mu     sync.Mutex
	scores map[string]scoring.Score
}

func newStubScoringRepository() *stubScoringRepository {
	return &stubScoringRepository{scores: map[string]scoring.Score{}}
}

func (r *stubScoringRepository) seedScore(score scoring.Score) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores[appKey(score.LeagueID, score.EventID, score.UserID)] = score
}

func (r *stubScoringRepository) UpsertScore(_ context.Context, score scoring.Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores[appKey(score.LeagueID, score.EventID, score.UserID)] = score
	return nil
}

func (r *stubScoringRepository) ListByLeague(_ context.Context, leagueID string) ([]scoring.Score, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []scoring.Score
	for _, score := range r.scores {
		if score.LeagueID == leagueID {
			out = append(out, score)
		}
	}
	return out, nil
}

func (r *stubScoringRepository) ListByLeagueEvent(_ context.Context, leagueID string, eventID int64) ([]scoring.Score, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []scoring.Score
	for _, score := range r.scores {
		if score.LeagueID == leagueID && score.EventID == eventID {
			out = append(out, score)
		}
	}
	return out, nil
}
