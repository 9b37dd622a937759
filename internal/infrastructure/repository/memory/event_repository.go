package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matrixrace/matrixraceapp/internal/domain/event"
)

type EventRepository struct {
	mu     sync.RWMutex
	items  map[int64]event.Event
	nextID int64
}

func NewEventRepository(events []event.Event) *EventRepository {
	items := make(map[int64]event.Event, len(events))
	var nextID int64 = 1
	for _, evt := range events {
		items[evt.ID] = evt
		if evt.ID >= nextID {
			nextID = evt.ID + 1
		}
	}

	return &EventRepository{items: items, nextID: nextID}
}

func (r *EventRepository) GetByID(_ context.Context, eventID int64) (event.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	evt, ok := r.items[eventID]
	if !ok {
		return event.Event{}, false, nil
	}

	return evt, true, nil
}

func (r *EventRepository) GetBySeasonRound(_ context.Context, season, round int) (event.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, evt := range r.items {
		if evt.Season == season && evt.Round == round {
			return evt, true, nil
		}
	}

	return event.Event{}, false, nil
}

func (r *EventRepository) ListBySeason(_ context.Context, season int) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []event.Event
	for _, evt := range r.items {
		if evt.Season == season {
			out = append(out, evt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Round < out[j].Round })

	return out, nil
}

func (r *EventRepository) Upsert(_ context.Context, evt event.Event) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.items {
		if existing.Season == evt.Season && existing.Round == evt.Round {
			evt.ID = id
			evt.Completed = existing.Completed
			r.items[id] = evt
			return id, nil
		}
	}

	evt.ID = r.nextID
	r.nextID++
	r.items[evt.ID] = evt

	return evt.ID, nil
}

func (r *EventRepository) MarkCompleted(_ context.Context, eventID int64, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	evt, ok := r.items[eventID]
	if !ok {
		return nil
	}
	evt.Completed = completed
	r.items[eventID] = evt

	return nil
}
