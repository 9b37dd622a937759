package prediction

import (
	"fmt"
	"time"
)

// LockTier identifies the session whose start time freezes a prediction.
type LockTier string

const (
	LockTierOne   LockTier = "tier1"
	LockTierTwo   LockTier = "tier2"
	LockTierFinal LockTier = "final"
)

func ParseLockTier(value string) (LockTier, error) {
	switch LockTier(value) {
	case LockTierOne, LockTierTwo, LockTierFinal:
		return LockTier(value), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLockTier, value)
	}
}

// PointsTable maps each lock tier to the per-pick points ceiling. Earlier
// tiers lock sooner and pay more.
type PointsTable map[LockTier]int

func DefaultPointsTable() PointsTable {
	return PointsTable{
		LockTierOne:   20,
		LockTierTwo:   15,
		LockTierFinal: 10,
	}
}

func (t PointsTable) Ceiling(tier LockTier) (int, error) {
	points, ok := t[tier]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLockTier, tier)
	}
	return points, nil
}

// Pick is one predicted finishing position. MaxPoints stores the points
// ceiling the pick was submitted under, so later tier reconfiguration does
// not change already-submitted predictions.
type Pick struct {
	CompetitorID int64
	Position     int
	MaxPoints    int
}

// Set is a user's full prediction for one event.
type Set struct {
	EventID   int64
	UserID    string
	Tier      LockTier
	Picks     []Pick
	UpdatedAt time.Time
}

// Application submits a user's prediction into one league's contest for an
// event.
type Application struct {
	LeagueID  string
	EventID   int64
	UserID    string
	AppliedAt time.Time
}
