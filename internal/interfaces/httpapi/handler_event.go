package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matrixrace/matrixraceapp/internal/domain/competitor"
	"github.com/matrixrace/matrixraceapp/internal/domain/event"
	"github.com/matrixrace/matrixraceapp/internal/usecase"
)

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEvents")
	defer span.End()

	season := 0
	rawSeason := strings.TrimSpace(r.URL.Query().Get("season"))
	if rawSeason != "" {
		value, err := strconv.Atoi(rawSeason)
		if err != nil || value <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: season must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		season = value
	}

	events, err := h.eventService.ListSeason(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list season events failed", "season", rawSeason, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]eventDTO, 0, len(events))
	for _, evt := range events {
		items = append(items, eventToDTO(ctx, evt))
	}

	writeSuccess(ctx, w, http.StatusOK, eventListDTO{Events: items})
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEvent")
	defer span.End()

	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	evt, err := h.eventService.GetEvent(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "get event failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventToDTO(ctx, evt))
}

func (h *Handler) ListCompetitors(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitors")
	defer span.End()

	competitors, err := h.eventService.ListCompetitors(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list competitors failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]competitorDTO, 0, len(competitors))
	for _, c := range competitors {
		items = append(items, competitorToDTO(ctx, c))
	}

	writeSuccess(ctx, w, http.StatusOK, competitorListDTO{Competitors: items})
}

type eventListDTO struct {
	Events []eventDTO `json:"events"`
}

type eventDTO struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	Country       string  `json:"country"`
	CircuitName   string  `json:"circuit_name"`
	Season        int     `json:"season"`
	Round         int     `json:"round"`
	Tier1Deadline *string `json:"tier1_deadline,omitempty"`
	Tier2Deadline *string `json:"tier2_deadline,omitempty"`
	FinalDeadline string  `json:"final_deadline"`
	Completed     bool    `json:"completed"`
}

type competitorListDTO struct {
	Competitors []competitorDTO `json:"competitors"`
}

type competitorDTO struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Number      int    `json:"number"`
	CountryCode string `json:"country_code"`
	Active      bool   `json:"active"`
}

func eventToDTO(_ context.Context, evt event.Event) eventDTO {
	return eventDTO{
		ID:            evt.ID,
		Name:          evt.Name,
		Location:      evt.Location,
		Country:       evt.Country,
		CircuitName:   evt.CircuitName,
		Season:        evt.Season,
		Round:         evt.Round,
		Tier1Deadline: formatTimePtr(evt.Tier1Deadline),
		Tier2Deadline: formatTimePtr(evt.Tier2Deadline),
		FinalDeadline: evt.FinalDeadline.UTC().Format(time.RFC3339),
		Completed:     evt.Completed,
	}
}

func competitorToDTO(_ context.Context, c competitor.Competitor) competitorDTO {
	return competitorDTO{
		ID:          c.ID,
		Code:        c.Code,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Number:      c.Number,
		CountryCode: c.CountryCode,
		Active:      c.Active,
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}
