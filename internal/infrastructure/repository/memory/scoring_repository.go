package memory

import (
	"context"
	"sync"

	"github.com/matrixrace/matrixraceapp/internal/domain/scoring"
)

type ScoringRepository struct {
	mu     sync.RWMutex
	scores map[string]scoring.Score
}

func NewScoringRepository() *ScoringRepository {
	return &ScoringRepository{scores: map[string]scoring.Score{}}
}

func (r *ScoringRepository) UpsertScore(_ context.Context, score scoring.Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scores[appKey(score.LeagueID, score.EventID, score.UserID)] = score

	return nil
}

func (r *ScoringRepository) ListByLeague(_ context.Context, leagueID string) ([]scoring.Score, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []scoring.Score
	for _, score := range r.scores {
		if score.LeagueID == leagueID {
			out = append(out, score)
		}
	}

	return out, nil
}

func (r *ScoringRepository) ListByLeagueEvent(_ context.Context, leagueID string, eventID int64) ([]scoring.Score, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []scoring.Score
	for _, score := range r.scores {
		if score.LeagueID == leagueID && score.EventID == eventID {
			out = append(out, score)
		}
	}

	return out, nil
}
