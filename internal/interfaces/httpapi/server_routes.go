package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/events", handler.ListEvents)
	mux.HandleFunc("GET /v1/events/{eventID}", handler.GetEvent)
	mux.HandleFunc("GET /v1/events/{eventID}/results", handler.ListEventResults)
	mux.HandleFunc("GET /v1/competitors", handler.ListCompetitors)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.ListLeagueStandings)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/events/{eventID}/standings", handler.ListEventStandings)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/predictions", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPrediction)))
	mux.Handle("GET /v1/predictions/events/{eventID}", RequireAuth(verifier, http.HandlerFunc(handler.GetMyPrediction)))
	mux.Handle("DELETE /v1/predictions/events/{eventID}", RequireAuth(verifier, http.HandlerFunc(handler.RemoveMyPrediction)))
	mux.Handle("POST /v1/predictions/apply", RequireAuth(verifier, http.HandlerFunc(handler.ApplyPredictionToLeagues)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/events/{eventID}/results", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RecordEventResults)))
	mux.Handle("POST /v1/internal/scoring/events/{eventID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RescoreEvent)))
	mux.Handle("POST /v1/internal/ingestion/season", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ImportSeason)))
}
