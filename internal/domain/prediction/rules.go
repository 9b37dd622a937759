package prediction

import (
	"errors"
	"fmt"
	"time"

	"github.com/matrixrace/matrixraceapp/internal/domain/event"
)

var (
	ErrUnknownLockTier     = errors.New("unknown lock tier")
	ErrNoPicks             = errors.New("prediction has no picks")
	ErrDuplicatePosition   = errors.New("duplicate position in prediction")
	ErrDuplicateCompetitor = errors.New("duplicate competitor in prediction")
	ErrInvalidPosition     = errors.New("invalid position in prediction")
)

// ValidatePicks checks structural pick constraints. Positions and
// competitors must each be unique, positions start at 1.
func ValidatePicks(picks []Pick) error {
	if len(picks) == 0 {
		return ErrNoPicks
	}

	positionSet := make(map[int]struct{}, len(picks))
	competitorSet := make(map[int64]struct{}, len(picks))

	for _, pick := range picks {
		if pick.Position < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidPosition, pick.Position)
		}
		if pick.CompetitorID <= 0 {
			return fmt.Errorf("competitor id is required")
		}
		if _, exists := positionSet[pick.Position]; exists {
			return fmt.Errorf("%w: %d", ErrDuplicatePosition, pick.Position)
		}
		positionSet[pick.Position] = struct{}{}
		if _, exists := competitorSet[pick.CompetitorID]; exists {
			return fmt.Errorf("%w: %d", ErrDuplicateCompetitor, pick.CompetitorID)
		}
		competitorSet[pick.CompetitorID] = struct{}{}
	}

	return nil
}

// CanEdit reports whether predictions under the given tier are still open
// for the event. A tier whose session has no scheduled start stays open
// until the race itself begins.
func CanEdit(evt event.Event, tier LockTier, now time.Time) (bool, error) {
	deadline, err := tierDeadline(evt, tier)
	if err != nil {
		return false, err
	}
	if deadline == nil {
		return now.Before(evt.FinalDeadline), nil
	}

	return now.Before(*deadline), nil
}

func tierDeadline(evt event.Event, tier LockTier) (*time.Time, error) {
	switch tier {
	case LockTierOne:
		return evt.Tier1Deadline, nil
	case LockTierTwo:
		return evt.Tier2Deadline, nil
	case LockTierFinal:
		deadline := evt.FinalDeadline
		return &deadline, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLockTier, tier)
	}
}

// PickPoints scores one pick by distance from the actual finishing
// position. A perfect call earns the full ceiling, each place of error
// costs one point, and the score never goes below zero.
func PickPoints(predicted, actual, ceiling int) int {
	diff := predicted - actual
	if diff < 0 {
		diff = -diff
	}
	points := ceiling - diff
	if points < 0 {
		return 0
	}

	return points
}
