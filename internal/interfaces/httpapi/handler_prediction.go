package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/matrixrace/matrixraceapp/internal/domain/prediction"
	"github.com/matrixrace/matrixraceapp/internal/usecase"
)

func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitPredictionRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	picks := make([]usecase.SubmitPredictionPick, 0, len(req.Picks))
	for _, pick := range req.Picks {
		picks = append(picks, usecase.SubmitPredictionPick{
			CompetitorID: pick.CompetitorID,
			Position:     pick.Position,
		})
	}

	set, err := h.predictionService.Submit(ctx, usecase.SubmitPredictionInput{
		EventID: req.EventID,
		UserID:  principal.UserID,
		Tier:    req.Tier,
		Picks:   picks,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit prediction failed", "user_id", principal.UserID, "event_id", req.EventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionSetToDTO(ctx, set))
}

func (h *Handler) GetMyPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyPrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	set, applications, err := h.predictionService.Get(ctx, eventID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get prediction failed", "user_id", principal.UserID, "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	appliedLeagues := make([]string, 0, len(applications))
	for _, application := range applications {
		appliedLeagues = append(appliedLeagues, application.LeagueID)
	}

	writeSuccess(ctx, w, http.StatusOK, predictionDetailsDTO{
		Set:            predictionSetToDTO(ctx, set),
		AppliedLeagues: appliedLeagues,
	})
}

func (h *Handler) RemoveMyPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveMyPrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.predictionService.Remove(ctx, eventID, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "remove prediction failed", "user_id", principal.UserID, "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handler) ApplyPredictionToLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyPredictionToLeagues")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req applyPredictionRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	applied, err := h.applicationService.ApplyToLeagues(ctx, req.EventID, principal.UserID, req.LeagueIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "apply prediction failed", "user_id", principal.UserID, "event_id", req.EventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, applyResultToDTO(ctx, applied))
}

type submitPredictionRequest struct {
	EventID int64                         `json:"event_id" validate:"required,gt=0"`
	Tier    string                        `json:"tier" validate:"required,oneof=tier1 tier2 final"`
	Picks   []submitPredictionPickRequest `json:"picks" validate:"required,min=1,max=20,dive"`
}

type submitPredictionPickRequest struct {
	CompetitorID int64 `json:"competitor_id" validate:"required,gt=0"`
	Position     int   `json:"position" validate:"required,gt=0"`
}

type applyPredictionRequest struct {
	EventID   int64    `json:"event_id" validate:"required,gt=0"`
	LeagueIDs []string `json:"league_ids" validate:"required,min=1,dive,required"`
}

type predictionSetDTO struct {
	EventID   int64               `json:"event_id"`
	UserID    string              `json:"user_id"`
	Tier      string              `json:"tier"`
	Picks     []predictionPickDTO `json:"picks"`
	UpdatedAt string              `json:"updated_at"`
}

type predictionPickDTO struct {
	CompetitorID int64 `json:"competitor_id"`
	Position     int   `json:"position"`
	MaxPoints    int   `json:"max_points"`
}

type predictionDetailsDTO struct {
	Set            predictionSetDTO `json:"set"`
	AppliedLeagues []string         `json:"applied_leagues"`
}

type applyResultDTO struct {
	Applied  []string                `json:"applied"`
	Failures []applicationFailureDTO `json:"failures,omitempty"`
}

type applicationFailureDTO struct {
	LeagueID string `json:"league_id"`
	Reason   string `json:"reason"`
}

func predictionSetToDTO(_ context.Context, set prediction.Set) predictionSetDTO {
	picks := make([]predictionPickDTO, 0, len(set.Picks))
	for _, pick := range set.Picks {
		picks = append(picks, predictionPickDTO{
			CompetitorID: pick.CompetitorID,
			Position:     pick.Position,
			MaxPoints:    pick.MaxPoints,
		})
	}

	return predictionSetDTO{
		EventID:   set.EventID,
		UserID:    set.UserID,
		Tier:      string(set.Tier),
		Picks:     picks,
		UpdatedAt: set.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func applyResultToDTO(_ context.Context, applied usecase.ApplyResult) applyResultDTO {
	failures := make([]applicationFailureDTO, 0, len(applied.Failures))
	for _, failure := range applied.Failures {
		failures = append(failures, applicationFailureDTO{
			LeagueID: failure.LeagueID,
			Reason:   failure.Err.Error(),
		})
	}

	return applyResultDTO{
		Applied:  applied.Applied,
		Failures: failures,
	}
}
