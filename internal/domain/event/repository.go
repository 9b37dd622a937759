package event

import "context"

// Repository describes event persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, eventID int64) (Event, bool, error)
	GetBySeasonRound(ctx context.Context, season, round int) (Event, bool, error)
	ListBySeason(ctx context.Context, season int) ([]Event, error)
	Upsert(ctx context.Context, evt Event) (int64, error)
	MarkCompleted(ctx context.Context, eventID int64, completed bool) error
}
