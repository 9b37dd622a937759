package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matrixrace/matrixraceapp/internal/domain/league"
)

type LeagueRepository struct {
	mu          sync.RWMutex
	items       map[string]league.League
	memberships map[string]league.Membership
	events      map[string]map[int64]struct{}
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	for _, l := range leagues {
		items[l.ID] = l
	}

	return &LeagueRepository{
		items:       items,
		memberships: map[string]league.Membership{},
		events:      map[string]map[int64]struct{}{},
	}
}

// LinkEvent attaches an event to a league's calendar. Seeding and tests use
// it in place of a write API.
func (r *LeagueRepository) LinkEvent(leagueID string, eventID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.events[leagueID] == nil {
		r.events[leagueID] = map[int64]struct{}{}
	}
	r.events[leagueID][eventID] = struct{}{}
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

func (r *LeagueRepository) GetMembership(_ context.Context, leagueID, userID string) (league.Membership, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.memberships[leagueID+"|"+userID]
	if !ok {
		return league.Membership{}, false, nil
	}

	return m, true, nil
}

func (r *LeagueRepository) AddMember(_ context.Context, m league.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := m.LeagueID + "|" + m.UserID
	if _, ok := r.memberships[key]; ok {
		return nil
	}
	r.memberships[key] = m

	return nil
}

func (r *LeagueRepository) HasEvent(_ context.Context, leagueID string, eventID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.events[leagueID][eventID]
	return ok, nil
}

func (r *LeagueRepository) ListLeagueIDsByEvent(_ context.Context, eventID int64) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for leagueID, events := range r.events {
		if _, ok := events[eventID]; ok {
			out = append(out, leagueID)
		}
	}
	sort.Strings(out)

	return out, nil
}
