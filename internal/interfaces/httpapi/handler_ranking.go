package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/matrixrace/matrixraceapp/internal/usecase"
)

func (h *Handler) ListLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueStandings")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	if leagueID == "" {
		writeError(ctx, w, fmt.Errorf("%w: leagueID is required", usecase.ErrInvalidInput))
		return
	}

	rows, err := h.rankingService.LeagueStandings(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list league standings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueStandingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, leagueStandingDTO{
			Rank:         row.Rank,
			UserID:       row.UserID,
			TotalPoints:  row.TotalPoints,
			EventsPlayed: row.EventsPlayed,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, leagueStandingsDTO{
		LeagueID:  leagueID,
		Standings: items,
	})
}

func (h *Handler) ListEventStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventStandings")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	if leagueID == "" {
		writeError(ctx, w, fmt.Errorf("%w: leagueID is required", usecase.ErrInvalidInput))
		return
	}
	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.rankingService.EventStandings(ctx, leagueID, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "list event standings failed", "league_id", leagueID, "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]eventStandingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, eventStandingDTO{
			Rank:   row.Rank,
			UserID: row.UserID,
			Points: row.Points,
			Tier:   string(row.Tier),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, eventStandingsDTO{
		LeagueID:  leagueID,
		EventID:   eventID,
		Standings: items,
	})
}

type leagueStandingsDTO struct {
	LeagueID  string              `json:"league_id"`
	Standings []leagueStandingDTO `json:"standings"`
}

type leagueStandingDTO struct {
	Rank         int    `json:"rank"`
	UserID       string `json:"user_id"`
	TotalPoints  int    `json:"total_points"`
	EventsPlayed int    `json:"events_played"`
}

type eventStandingsDTO struct {
	LeagueID  string             `json:"league_id"`
	EventID   int64              `json:"event_id"`
	Standings []eventStandingDTO `json:"standings"`
}

type eventStandingDTO struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Points int    `json:"points"`
	Tier   string `json:"tier"`
}
