package event

import (
	"fmt"
	"time"
)

// Event is one race weekend on the season calendar.
type Event struct {
	ID            int64
	Name          string
	Location      string
	Country       string
	CircuitName   string
	Season        int
	Round         int
	Tier1Deadline *time.Time
	Tier2Deadline *time.Time
	FinalDeadline time.Time
	Completed     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (e Event) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("event name is required")
	}
	if e.Season <= 0 {
		return fmt.Errorf("event season is required")
	}
	if e.Round <= 0 {
		return fmt.Errorf("event round is required")
	}
	if e.FinalDeadline.IsZero() {
		return fmt.Errorf("event final deadline is required")
	}
	// Deadlines must keep their session order: tier1 <= tier2 <= final.
	if e.Tier1Deadline != nil && e.Tier2Deadline != nil && e.Tier1Deadline.After(*e.Tier2Deadline) {
		return fmt.Errorf("tier1 deadline is after tier2 deadline")
	}
	if e.Tier1Deadline != nil && e.Tier1Deadline.After(e.FinalDeadline) {
		return fmt.Errorf("tier1 deadline is after final deadline")
	}
	if e.Tier2Deadline != nil && e.Tier2Deadline.After(e.FinalDeadline) {
		return fmt.Errorf("tier2 deadline is after final deadline")
	}

	return nil
}

// Started reports whether the main race has begun.
func (e Event) Started(now time.Time) bool {
	return !now.Before(e.FinalDeadline)
}
