package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetMembership(ctx context.Context, leagueID, userID string) (Membership, bool, error)
	// AddMember inserts the membership if absent and leaves an existing
	// row untouched.
	AddMember(ctx context.Context, m Membership) error
	// HasEvent reports whether the event is part of the league's calendar.
	HasEvent(ctx context.Context, leagueID string, eventID int64) (bool, error)
	ListLeagueIDsByEvent(ctx context.Context, eventID int64) ([]string, error)
}
