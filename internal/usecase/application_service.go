package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matrixrace/matrixraceapp/internal/domain/event"
	"github.com/matrixrace/matrixraceapp/internal/domain/league"
	"github.com/matrixrace/matrixraceapp/internal/domain/prediction"
)

// ApplicationService enters a stored prediction into league contests.
type ApplicationService struct {
	eventRepo      event.Repository
	leagueRepo     league.Repository
	predictionRepo prediction.Repository
	now            func() time.Time
}

func NewApplicationService(
	eventRepo event.Repository,
	leagueRepo league.Repository,
	predictionRepo prediction.Repository,
) *ApplicationService {
	return &ApplicationService{
		eventRepo:      eventRepo,
		leagueRepo:     leagueRepo,
		predictionRepo: predictionRepo,
		now:            time.Now,
	}
}

// ApplicationFailure reports why one league rejected the application.
type ApplicationFailure struct {
	LeagueID string
	Err      error
}

// ApplyResult splits the outcome per league; the whole call only fails when
// no league could be processed at all.
type ApplyResult struct {
	Applied  []string
	Failures []ApplicationFailure
}

// ApplyToLeagues replaces the user's league entries for the event with the
// given league set. The user joins open leagues automatically; leagues that
// gate membership reject non-members.
func (s *ApplicationService) ApplyToLeagues(ctx context.Context, eventID int64, userID string, leagueIDs []string) (ApplyResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ApplicationService.ApplyToLeagues")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ApplyResult{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if eventID <= 0 {
		return ApplyResult{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}
	leagueIDs = dedupeLeagueIDs(leagueIDs)
	if len(leagueIDs) == 0 {
		return ApplyResult{}, fmt.Errorf("%w: at least one league id is required", ErrInvalidInput)
	}

	if _, exists, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return ApplyResult{}, fmt.Errorf("get event: %w", err)
	} else if !exists {
		return ApplyResult{}, fmt.Errorf("%w: event=%d", ErrNotFound, eventID)
	}

	if _, exists, err := s.predictionRepo.GetSet(ctx, eventID, userID); err != nil {
		return ApplyResult{}, fmt.Errorf("get prediction set: %w", err)
	} else if !exists {
		return ApplyResult{}, fmt.Errorf("%w: prediction for event=%d", ErrNotFound, eventID)
	}

	// The new league set fully replaces earlier applications for the event.
	if err := s.predictionRepo.ClearApplications(ctx, eventID, userID); err != nil {
		return ApplyResult{}, fmt.Errorf("clear prediction applications: %w", err)
	}

	now := s.now().UTC()
	result := ApplyResult{}
	for _, leagueID := range leagueIDs {
		if err := s.applyToLeague(ctx, leagueID, eventID, userID, now); err != nil {
			result.Failures = append(result.Failures, ApplicationFailure{LeagueID: leagueID, Err: err})
			continue
		}
		result.Applied = append(result.Applied, leagueID)
	}

	return result, nil
}

func (s *ApplicationService) applyToLeague(ctx context.Context, leagueID string, eventID int64, userID string, now time.Time) error {
	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	membership, isMember, err := s.leagueRepo.GetMembership(ctx, leagueID, userID)
	if err != nil {
		return fmt.Errorf("get league membership: %w", err)
	}
	switch {
	case isMember && membership.Active():
	case !isMember && lg.OpenJoin():
		err := s.leagueRepo.AddMember(ctx, league.Membership{
			LeagueID: leagueID,
			UserID:   userID,
			Status:   league.MembershipStatusActive,
			JoinedAt: now,
		})
		if err != nil {
			return fmt.Errorf("join league: %w", err)
		}
	default:
		return fmt.Errorf("%w: not an active member of league %s", ErrNotEligible, leagueID)
	}

	hasEvent, err := s.leagueRepo.HasEvent(ctx, leagueID, eventID)
	if err != nil {
		return fmt.Errorf("check league event: %w", err)
	}
	if !hasEvent {
		return fmt.Errorf("%w: event %d is not part of league %s", ErrNotEligible, eventID, leagueID)
	}

	err = s.predictionRepo.UpsertApplication(ctx, prediction.Application{
		LeagueID:  leagueID,
		EventID:   eventID,
		UserID:    userID,
		AppliedAt: now,
	})
	if err != nil {
		return fmt.Errorf("upsert prediction application: %w", err)
	}

	return nil
}

func dedupeLeagueIDs(leagueIDs []string) []string {
	seen := make(map[string]struct{}, len(leagueIDs))
	out := make([]string, 0, len(leagueIDs))
	for _, id := range leagueIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
