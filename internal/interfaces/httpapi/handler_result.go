package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/matrixrace/matrixraceapp/internal/usecase"
)

func (h *Handler) RecordEventResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordEventResults")
	defer span.End()

	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordResultsRequest
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

	rows := make([]usecase.RecordResultRow, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, usecase.RecordResultRow{
			CompetitorID: row.CompetitorID,
			Position:     row.Position,
		})
	}

	summary, err := h.resultService.RecordResults(ctx, eventID, rows)
	if err != nil {
		h.logger.WarnContext(ctx, "record event results failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreSummaryToDTO(ctx, summary))
}

func (h *Handler) ListEventResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventResults")
	defer span.End()

	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.resultService.ListResults(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "list event results failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]resultRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, resultRowDTO{
			CompetitorID: row.CompetitorID,
			Position:     row.Position,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, resultListDTO{
		EventID: eventID,
		Results: items,
	})
}

func (h *Handler) RescoreEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RescoreEvent")
	defer span.End()

	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.scoringService.ScoreEvent(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "rescore event failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreSummaryToDTO(ctx, summary))
}

func (h *Handler) ImportSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportSeason")
	defer span.End()

	if h.ingestionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req importSeasonRequest
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

	imported, err := h.ingestionService.ImportSeason(ctx, req.Season)
	if err != nil {
		h.logger.WarnContext(ctx, "import season failed", "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, imported)
}

type recordResultsRequest struct {
	Rows []recordResultRowRequest `json:"rows" validate:"required,min=1,max=40,dive"`
}

type recordResultRowRequest struct {
	CompetitorID int64 `json:"competitor_id" validate:"required,gt=0"`
	Position     int   `json:"position" validate:"required,gt=0"`
}

type importSeasonRequest struct {
	Season int `json:"season" validate:"required,gte=1950,lte=2100"`
}

type resultListDTO struct {
	EventID int64          `json:"event_id"`
	Results []resultRowDTO `json:"results"`
}

type resultRowDTO struct {
	CompetitorID int64 `json:"competitor_id"`
	Position     int   `json:"position"`
}

type scoreSummaryDTO struct {
	EventID          int64 `json:"event_id"`
	LeaguesProcessed int   `json:"leagues_processed"`
	UsersProcessed   int   `json:"users_processed"`
}

func scoreSummaryToDTO(_ context.Context, summary usecase.ScoreEventSummary) scoreSummaryDTO {
	return scoreSummaryDTO{
		EventID:          summary.EventID,
		LeaguesProcessed: summary.LeaguesProcessed,
		UsersProcessed:   summary.UsersProcessed,
	}
}
