package scoring

import "context"

type Repository interface {
	// UpsertScore replaces the score for (league, event, user), so a
	// rescore after corrected results is idempotent.
	UpsertScore(ctx context.Context, score Score) error
	ListByLeague(ctx context.Context, leagueID string) ([]Score, error)
	ListByLeagueEvent(ctx context.Context, leagueID string, eventID int64) ([]Score, error)
}
