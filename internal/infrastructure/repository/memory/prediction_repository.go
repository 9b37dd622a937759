package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/matrixrace/matrixraceapp/internal/domain/prediction"
)

type PredictionRepository struct {
	mu   sync.RWMutex
	sets map[string]prediction.Set
	apps map[string]prediction.Application
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{
		sets: map[string]prediction.Set{},
		apps: map[string]prediction.Application{},
	}
}

func setKey(eventID int64, userID string) string {
	return fmt.Sprintf("%d|%s", eventID, userID)
}

func appKey(leagueID string, eventID int64, userID string) string {
	return fmt.Sprintf("%s|%d|%s", leagueID, eventID, userID)
}

func (r *PredictionRepository) GetSet(_ context.Context, eventID int64, userID string) (prediction.Set, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.sets[setKey(eventID, userID)]
	if !ok {
		return prediction.Set{}, false, nil
	}

	out := set
	out.Picks = append([]prediction.Pick(nil), set.Picks...)
	return out, true, nil
}

func (r *PredictionRepository) ReplaceSet(_ context.Context, set prediction.Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := set
	stored.Picks = append([]prediction.Pick(nil), set.Picks...)
	r.sets[setKey(set.EventID, set.UserID)] = stored

	return nil
}

func (r *PredictionRepository) DeleteSet(_ context.Context, eventID int64, userID string) error {
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

func (r *PredictionRepository) ClearApplications(_ context.Context, eventID int64, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, app := range r.apps {
		if app.EventID == eventID && app.UserID == userID {
			delete(r.apps, key)
		}
	}

	return nil
}

func (r *PredictionRepository) UpsertApplication(_ context.Context, app prediction.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.apps[appKey(app.LeagueID, app.EventID, app.UserID)] = app

	return nil
}

func (r *PredictionRepository) ListApplicantsByLeagueEvent(_ context.Context, leagueID string, eventID int64) ([]prediction.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []prediction.Application
	for _, app := range r.apps {
		if app.LeagueID == leagueID && app.EventID == eventID {
			out = append(out, app)
		}
	}

	return out, nil
}

func (r *PredictionRepository) ListApplicationsByUserEvent(_ context.Context, eventID int64, userID string) ([]prediction.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []prediction.Application
	for _, app := range r.apps {
		if app.EventID == eventID && app.UserID == userID {
			out = append(out, app)
		}
	}

	return out, nil
}
