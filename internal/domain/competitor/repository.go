package competitor

import "context"

// Repository describes competitor persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, competitorID int64) (Competitor, bool, error)
	ListActive(ctx context.Context) ([]Competitor, error)
	// UpsertByCode inserts or updates by the unique competitor code and
	// returns the row's identifier.
	UpsertByCode(ctx context.Context, c Competitor) (int64, error)
}
