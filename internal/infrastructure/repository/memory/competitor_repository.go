package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matrixrace/matrixraceapp/internal/domain/competitor"
)

type CompetitorRepository struct {
	mu     sync.RWMutex
	items  map[int64]competitor.Competitor
	nextID int64
}

func NewCompetitorRepository(competitors []competitor.Competitor) *CompetitorRepository {
	items := make(map[int64]competitor.Competitor, len(competitors))
	var nextID int64 = 1
	for _, c := range competitors {
		items[c.ID] = c
		if c.ID >= nextID {
			nextID = c.ID + 1
		}
	}

	return &CompetitorRepository{items: items, nextID: nextID}
}

func (r *CompetitorRepository) GetByID(_ context.Context, competitorID int64) (competitor.Competitor, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[competitorID]
	if !ok {
		return competitor.Competitor{}, false, nil
	}

	return c, true, nil
}

func (r *CompetitorRepository) ListActive(_ context.Context) ([]competitor.Competitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []competitor.Competitor
	for _, c := range r.items {
		if c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})

	return out, nil
}

func (r *CompetitorRepository) UpsertByCode(_ context.Context, c competitor.Competitor) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.items {
		if existing.Code == c.Code {
			c.ID = id
			r.items[id] = c
			return id, nil
		}
	}

	c.ID = r.nextID
	r.nextID++
	r.items[c.ID] = c

	return c.ID, nil
}
