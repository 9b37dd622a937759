package cache

import (
	"context"
	"strconv"

	"github.com/matrixrace/matrixraceapp/internal/domain/competitor"
	"github.com/matrixrace/matrixraceapp/internal/domain/event"
	"github.com/matrixrace/matrixraceapp/internal/domain/scoring"
	basecache "github.com/matrixrace/matrixraceapp/internal/platform/cache"
)

// EventRepository caches calendar reads in front of another repository.
// Writes pass through and drop every cached event entry.
type EventRepository struct {
	next  event.Repository
	cache *basecache.Store
}

func NewEventRepository(next event.Repository, cache *basecache.Store) *EventRepository {
	return &EventRepository{next: next, cache: cache}
}

type cachedEvent struct {
	value  event.Event
	exists bool
}

func (r *EventRepository) GetByID(ctx context.Context, eventID int64) (event.Event, bool, error) {
	key := "event:id:" + strconv.FormatInt(eventID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		return cachedEvent{value: item, exists: exists}, nil
	})
	if err != nil {
		return event.Event{}, false, err
	}

	cached, _ := v.(cachedEvent)
	return cached.value, cached.exists, nil
}

func (r *EventRepository) GetBySeasonRound(ctx context.Context, season, round int) (event.Event, bool, error) {
	key := "event:round:" + strconv.Itoa(season) + ":" + strconv.Itoa(round)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetBySeasonRound(ctx, season, round)
		if err != nil {
			return nil, err
		}
		return cachedEvent{value: item, exists: exists}, nil
	})
	if err != nil {
		return event.Event{}, false, err
	}

	cached, _ := v.(cachedEvent)
	return cached.value, cached.exists, nil
}

func (r *EventRepository) ListBySeason(ctx context.Context, season int) ([]event.Event, error) {
	key := "event:season:" + strconv.Itoa(season)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, season)
		if err != nil {
			return nil, err
		}
		return append([]event.Event(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]event.Event)
	return append([]event.Event(nil), items...), nil
}

func (r *EventRepository) Upsert(ctx context.Context, evt event.Event) (int64, error) {
	id, err := r.next.Upsert(ctx, evt)
	if err != nil {
		return 0, err
	}
	r.cache.DeletePrefix("event:")
	return id, nil
}

func (r *EventRepository) MarkCompleted(ctx context.Context, eventID int64, completed bool) error {
	if err := r.next.MarkCompleted(ctx, eventID, completed); err != nil {
		return err
	}
	r.cache.DeletePrefix("event:")
	return nil
}

// CompetitorRepository caches the active roster, which almost never changes
// between ingestion runs.
type CompetitorRepository struct {
	next  competitor.Repository
	cache *basecache.Store
}

func NewCompetitorRepository(next competitor.Repository, cache *basecache.Store) *CompetitorRepository {
	return &CompetitorRepository{next: next, cache: cache}
}

type cachedCompetitor struct {
	value  competitor.Competitor
	exists bool
}

func (r *CompetitorRepository) GetByID(ctx context.Context, competitorID int64) (competitor.Competitor, bool, error) {
	key := "competitor:id:" + strconv.FormatInt(competitorID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, competitorID)
		if err != nil {
			return nil, err
		}
		return cachedCompetitor{value: item, exists: exists}, nil
	})
	if err != nil {
		return competitor.Competitor{}, false, err
	}

	cached, _ := v.(cachedCompetitor)
	return cached.value, cached.exists, nil
}

func (r *CompetitorRepository) ListActive(ctx context.Context) ([]competitor.Competitor, error) {
	v, err := r.cache.GetOrLoad(ctx, "competitor:active", func(ctx context.Context) (any, error) {
		items, err := r.next.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		return append([]competitor.Competitor(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]competitor.Competitor)
	return append([]competitor.Competitor(nil), items...), nil
}

func (r *CompetitorRepository) UpsertByCode(ctx context.Context, c competitor.Competitor) (int64, error) {
	id, err := r.next.UpsertByCode(ctx, c)
	if err != nil {
		return 0, err
	}
	r.cache.DeletePrefix("competitor:")
	return id, nil
}

// ScoringRepository caches standings reads; score upserts invalidate the
// affected league's entries only.
type ScoringRepository struct {
	next  scoring.Repository
	cache *basecache.Store
}

func NewScoringRepository(next scoring.Repository, cache *basecache.Store) *ScoringRepository {
	return &ScoringRepository{next: next, cache: cache}
}

func (r *ScoringRepository) UpsertScore(ctx context.Context, score scoring.Score) error {
	if err := r.next.UpsertScore(ctx, score); err != nil {
		return err
	}
	r.cache.DeletePrefix("score:league:" + score.LeagueID)
	return nil
}

func (r *ScoringRepository) ListByLeague(ctx context.Context, leagueID string) ([]scoring.Score, error) {
	key := "score:league:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]scoring.Score(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]scoring.Score)
	return append([]scoring.Score(nil), items...), nil
}

func (r *ScoringRepository) ListByLeagueEvent(ctx context.Context, leagueID string, eventID int64) ([]scoring.Score, error) {
	key := "score:league:" + leagueID + ":event:" + strconv.FormatInt(eventID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeagueEvent(ctx, leagueID, eventID)
		if err != nil {
			return nil, err
		}
		return append([]scoring.Score(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]scoring.Score)
	return append([]scoring.Score(nil), items...), nil
}
