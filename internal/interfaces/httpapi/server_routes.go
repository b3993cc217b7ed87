package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicContentRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/countries", handler.ListCountries)
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/teams", handler.ListTeamsByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.ListLeagueStandings)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/matches", handler.ListMatchesByLeague)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/events", handler.ListMatchEvents)
	mux.HandleFunc("GET /v1/news", handler.ListNews)
	mux.HandleFunc("GET /v1/news/{articleID}", handler.GetNewsArticle)
}

func registerEditorialRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	editor := func(next http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireRole(editorRole, next))
	}

	mux.Handle("POST /v1/matches", editor(handler.CreateMatch))
	mux.Handle("POST /v1/matches/{matchID}/events", editor(handler.RecordMatchEvent))
	mux.Handle("PUT /v1/matches/{matchID}/status", editor(handler.UpdateMatchStatus))
	mux.Handle("POST /v1/news", editor(handler.CreateNewsArticle))
	mux.Handle("PUT /v1/news/{articleID}", editor(handler.UpdateNewsArticle))
	mux.Handle("DELETE /v1/news/{articleID}", editor(handler.DeleteNewsArticle))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/recalculate-standings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecalculateStandingsJob)))
}
