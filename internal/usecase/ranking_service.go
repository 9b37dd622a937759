package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/matrixrace/matrixraceapp/internal/domain/event"
	"github.com/matrixrace/matrixraceapp/internal/domain/league"
	"github.com/matrixrace/matrixraceapp/internal/domain/prediction"
	"github.com/matrixrace/matrixraceapp/internal/domain/scoring"
)

// RankingService aggregates stored scores into league tables.
type RankingService struct {
	eventRepo      event.Repository
	leagueRepo     league.Repository
	predictionRepo prediction.Repository
	scoringRepo    scoring.Repository
}

func NewRankingService(
	eventRepo event.Repository,
	leagueRepo league.Repository,
	predictionRepo prediction.Repository,
	scoringRepo scoring.Repository,
) *RankingService {
	return &RankingService{
		eventRepo:      eventRepo,
		leagueRepo:     leagueRepo,
		predictionRepo: predictionRepo,
		scoringRepo:    scoringRepo,
	}
}

// LeagueStandingRow is one user's season aggregate inside a league.
type LeagueStandingRow struct {
	Rank         int
	UserID       string
	TotalPoints  int
	EventsPlayed int
}

// EventStandingRow is one user's score for a single event inside a league.
type EventStandingRow struct {
	Rank   int
	UserID string
	Points int
	Tier   prediction.LockTier
}

// LeagueStandings sums every stored score per user. Ties share points order
// by user id so repeated reads return identical tables, and equal totals
// receive the same rank.
func (s *RankingService) LeagueStandings(ctx context.Context, leagueID string) ([]LeagueStandingRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.LeagueStandings")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if _, exists, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	scores, err := s.scoringRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list scores by league: %w", err)
	}

	totals := make(map[string]*LeagueStandingRow)
	for _, score := range scores {
		row, ok := totals[score.UserID]
		if !ok {
			row = &LeagueStandingRow{UserID: score.UserID}
			totals[score.UserID] = row
		}
		row.TotalPoints += score.Points
		row.EventsPlayed++
	}

	rows := make([]LeagueStandingRow, 0, len(totals))
	for _, row := range totals {
		rows = append(rows, *row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return rows[i].UserID < rows[j].UserID
	})
	for i := range rows {
		if i > 0 && rows[i].TotalPoints == rows[i-1].TotalPoints {
			rows[i].Rank = rows[i-1].Rank
			continue
		}
		rows[i].Rank = i + 1
	}

	return rows, nil
}

// EventStandings ranks users by their score for one event in one league.
func (s *RankingService) EventStandings(ctx context.Context, leagueID string, eventID int64) ([]EventStandingRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.EventStandings")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if eventID <= 0 {
		return nil, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	if _, exists, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if _, exists, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: event=%d", ErrNotFound, eventID)
	}

	scores, err := s.scoringRepo.ListByLeagueEvent(ctx, leagueID, eventID)
	if err != nil {
		return nil, fmt.Errorf("list scores by league event: %w", err)
	}

	rows := make([]EventStandingRow, 0, len(scores))
	for _, score := range scores {
		row := EventStandingRow{UserID: score.UserID, Points: score.Points}
		set, exists, err := s.predictionRepo.GetSet(ctx, eventID, score.UserID)
		if err != nil {
			return nil, fmt.Errorf("get prediction set for user %s: %w", score.UserID, err)
		}
		if exists {
			row.Tier = set.Tier
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].UserID < rows[j].UserID
	})
	for i := range rows {
		if i > 0 && rows[i].Points == rows[i-1].Points {
			rows[i].Rank = rows[i-1].Rank
			continue
		}
		rows[i].Rank = i + 1
	}

	return rows, nil
}
