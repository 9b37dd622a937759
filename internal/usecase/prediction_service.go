package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matrixrace/matrixraceapp/internal/domain/competitor"
	"github.com/matrixrace/matrixraceapp/internal/domain/event"
	"github.com/matrixrace/matrixraceapp/internal/domain/prediction"
)

// PredictionService owns submit and withdraw flows for user predictions.
type PredictionService struct {
	eventRepo      event.Repository
	competitorRepo competitor.Repository
	predictionRepo prediction.Repository
	points         prediction.PointsTable
	now            func() time.Time
}

func NewPredictionService(
	eventRepo event.Repository,
	competitorRepo competitor.Repository,
	predictionRepo prediction.Repository,
	points prediction.PointsTable,
) *PredictionService {
	if len(points) == 0 {
		points = prediction.DefaultPointsTable()
	}

	return &PredictionService{
		eventRepo:      eventRepo,
		competitorRepo: competitorRepo,
		predictionRepo: predictionRepo,
		points:         points,
		now:            time.Now,
	}
}

// SubmitPredictionInput carries one full prediction as entered by the user.
type SubmitPredictionInput struct {
	EventID int64
	UserID  string
	Tier    string
	Picks   []SubmitPredictionPick
}

type SubmitPredictionPick struct {
	CompetitorID int64
	Position     int
}

// Submit validates and stores the user's prediction for an event, replacing
// any earlier set. Each stored pick is tagged with the tier's points ceiling
// at submission time.
func (s *PredictionService) Submit(ctx context.Context, input SubmitPredictionInput) (prediction.Set, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return prediction.Set{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.EventID <= 0 {
		return prediction.Set{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	tier, err := prediction.ParseLockTier(input.Tier)
	if err != nil {
		return prediction.Set{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	ceiling, err := s.points.Ceiling(tier)
	if err != nil {
		return prediction.Set{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	evt, exists, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return prediction.Set{}, fmt.Errorf("get event: %w", err)
	}
	if !exists {
		return prediction.Set{}, fmt.Errorf("%w: event=%d", ErrNotFound, input.EventID)
	}
	if evt.Completed {
		return prediction.Set{}, fmt.Errorf("%w: event %d already has final results", ErrStateConflict, input.EventID)
	}

	now := s.now().UTC()
	editable, err := prediction.CanEdit(evt, tier, now)
	if err != nil {
		return prediction.Set{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !editable {
		return prediction.Set{}, fmt.Errorf("%w: %s predictions are locked for event %d", ErrStateConflict, tier, input.EventID)
	}

	picks := make([]prediction.Pick, 0, len(input.Picks))
	for _, p := range input.Picks {
		picks = append(picks, prediction.Pick{
			CompetitorID: p.CompetitorID,
			Position:     p.Position,
			MaxPoints:    ceiling,
		})
	}
	if err := prediction.ValidatePicks(picks); err != nil {
		return prediction.Set{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.checkCompetitorsActive(ctx, picks); err != nil {
		return prediction.Set{}, err
	}

	// A set already stored under a tier that has since locked must not be
	// silently replaced by a later-tier submission.
	existing, hasExisting, err := s.predictionRepo.GetSet(ctx, input.EventID, input.UserID)
	if err != nil {
		return prediction.Set{}, fmt.Errorf("get prediction set: %w", err)
	}
	if hasExisting {
		existingEditable, err := prediction.CanEdit(evt, existing.Tier, now)
		if err != nil {
			return prediction.Set{}, fmt.Errorf("check existing prediction lock: %w", err)
		}
		if !existingEditable {
			return prediction.Set{}, fmt.Errorf("%w: existing %s prediction for event %d is locked", ErrStateConflict, existing.Tier, input.EventID)
		}
	}

	set := prediction.Set{
		EventID:   input.EventID,
		UserID:    input.UserID,
		Tier:      tier,
		Picks:     picks,
		UpdatedAt: now,
	}
	if err := s.predictionRepo.ReplaceSet(ctx, set); err != nil {
		return prediction.Set{}, fmt.Errorf("replace prediction set: %w", err)
	}

	return set, nil
}

// Remove withdraws the user's prediction for an event along with every
// league application built on it.
func (s *PredictionService) Remove(ctx context.Context, eventID int64, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Remove")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if eventID <= 0 {
		return fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	set, exists, err := s.predictionRepo.GetSet(ctx, eventID, userID)
	if err != nil {
		return fmt.Errorf("get prediction set: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: prediction for event=%d", ErrNotFound, eventID)
	}

	evt, exists, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: event=%d", ErrNotFound, eventID)
	}

	editable, err := prediction.CanEdit(evt, set.Tier, s.now().UTC())
	if err != nil {
		return fmt.Errorf("check prediction lock: %w", err)
	}
	if !editable {
		return fmt.Errorf("%w: %s prediction for event %d is locked", ErrStateConflict, set.Tier, eventID)
	}

	if err := s.predictionRepo.DeleteSet(ctx, eventID, userID); err != nil {
		return fmt.Errorf("delete prediction set: %w", err)
	}

	return nil
}

// Get returns the user's prediction for an event together with the leagues
// it has been applied to.
func (s *PredictionService) Get(ctx context.Context, eventID int64, userID string) (prediction.Set, []prediction.Application, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return prediction.Set{}, nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if eventID <= 0 {
		return prediction.Set{}, nil, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	set, exists, err := s.predictionRepo.GetSet(ctx, eventID, userID)
	if err != nil {
		return prediction.Set{}, nil, fmt.Errorf("get prediction set: %w", err)
	}
	if !exists {
		return prediction.Set{}, nil, fmt.Errorf("%w: prediction for event=%d", ErrNotFound, eventID)
	}

	apps, err := s.predictionRepo.ListApplicationsByUserEvent(ctx, eventID, userID)
	if err != nil {
		return prediction.Set{}, nil, fmt.Errorf("list prediction applications: %w", err)
	}

	return set, apps, nil
}

func (s *PredictionService) checkCompetitorsActive(ctx context.Context, picks []prediction.Pick) error {
	active, err := s.competitorRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active competitors: %w", err)
	}

	activeSet := make(map[int64]struct{}, len(active))
	for _, c := range active {
		activeSet[c.ID] = struct{}{}
	}
	for _, pick := range picks {
		if _, ok := activeSet[pick.CompetitorID]; !ok {
			return fmt.Errorf("%w: competitor %d is not active", ErrInvalidInput, pick.CompetitorID)
		}
	}

	return nil
}
