package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /api/diag", handler.Diagnostics)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	// /api/live-scores is the path the ticker widgets were built against.
	mux.HandleFunc("GET /api/live-scores", handler.LiveScores)
	mux.HandleFunc("GET /v1/live-scores", handler.LiveScores)
	mux.HandleFunc("GET /v1/live-scores/stream", handler.LiveScoresStream)
	mux.HandleFunc("GET /v1/{lang}/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/{lang}/bookmakers", handler.ListBookmakers)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	internal := func(h http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(internalJobToken, h)
	}

	mux.Handle("POST /v1/internal/sync/{sportKey}", internal(handler.SyncSportKey))
	mux.Handle("GET /v1/internal/sync/runs", internal(handler.ListSyncRuns))
	mux.Handle("GET /v1/internal/sync/runs/{runID}", internal(handler.GetSyncRun))
	mux.Handle("POST /v1/internal/jobs/sync", internal(handler.RunSyncJob))
	mux.Handle("POST /v1/internal/jobs/dispatch-sync", internal(handler.DispatchSync))
	mux.Handle("POST /v1/internal/translations/backfill", internal(handler.BackfillTranslations))
}
