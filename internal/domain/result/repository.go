package result

import "context"

// Repository describes official result persistence needs from use cases.
type Repository interface {
	// ReplaceForEvent drops any previously recorded classification for the
	// event and stores rows in its place.
	ReplaceForEvent(ctx context.Context, eventID int64, rows []Row) error
	ListByEvent(ctx context.Context, eventID int64) ([]Row, error)
}
