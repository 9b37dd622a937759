package prediction

import "context"

// Repository describes prediction persistence needs from use cases.
type Repository interface {
	GetSet(ctx context.Context, eventID int64, userID string) (Set, bool, error)
	// ReplaceSet atomically swaps the user's picks for the event.
	ReplaceSet(ctx context.Context, set Set) error
	// DeleteSet removes the set and every application that references it.
	DeleteSet(ctx context.Context, eventID int64, userID string) error

	ClearApplications(ctx context.Context, eventID int64, userID string) error
	UpsertApplication(ctx context.Context, app Application) error
	ListApplicantsByLeagueEvent(ctx context.Context, leagueID string, eventID int64) ([]Application, error)
	ListApplicationsByUserEvent(ctx context.Context, eventID int64, userID string) ([]Application, error)
}
