package result

import (
	"errors"
	"fmt"
)

var (
	ErrNoRows              = errors.New("result has no rows")
	ErrDuplicatePosition   = errors.New("duplicate position in result")
	ErrDuplicateCompetitor = errors.New("duplicate competitor in result")
	ErrInvalidPosition     = errors.New("invalid position in result")
)

// Row is one competitor's official finishing position for an event.
type Row struct {
	EventID      int64
	CompetitorID int64
	Position     int
}

// ValidateRows checks a full classification before it is recorded.
func ValidateRows(rows []Row) error {
	if len(rows) == 0 {
		return ErrNoRows
	}

	positionSet := make(map[int]struct{}, len(rows))
	competitorSet := make(map[int64]struct{}, len(rows))

	for _, row := range rows {
		if row.Position < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidPosition, row.Position)
		}
		if row.CompetitorID <= 0 {
			return fmt.Errorf("competitor id is required")
		}
		if _, exists := positionSet[row.Position]; exists {
			return fmt.Errorf("%w: %d", ErrDuplicatePosition, row.Position)
		}
		positionSet[row.Position] = struct{}{}
		if _, exists := competitorSet[row.CompetitorID]; exists {
			return fmt.Errorf("%w: %d", ErrDuplicateCompetitor, row.CompetitorID)
		}
		competitorSet[row.CompetitorID] = struct{}{}
	}

	return nil
}
