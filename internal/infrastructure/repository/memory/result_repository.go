package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matrixrace/matrixraceapp/internal/domain/result"
)

type ResultRepository struct {
	mu      sync.RWMutex
	byEvent map[int64][]result.Row
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{byEvent: map[int64][]result.Row{}}
}

func (r *ResultRepository) ReplaceForEvent(_ context.Context, eventID int64, rows []result.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byEvent[eventID] = append([]result.Row(nil), rows...)

	return nil
}

func (r *ResultRepository) ListByEvent(_ context.Context, eventID int64) ([]result.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]result.Row(nil), r.byEvent[eventID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })

	return out, nil
}
