package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/livebaz/internal/domain/article"
	"github.com/riskibarqy/livebaz/internal/domain/syncrun"
	"github.com/riskibarqy/livebaz/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
	"github.com/riskibarqy/livebaz/internal/usecase"
	"github.com/stretchr/testify/require"
)

const testJobToken = "job-secret"

type fakeLiveScores struct {
	mu     sync.Mutex
	scores usecase.LiveScores
	err    error
	calls  int
}

func (f *fakeLiveScores) Live(context.Context) (usecase.LiveScores, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.scores, f.err
}

type fakeDiagnostics struct{}

func (fakeDiagnostics) Check(context.Context) usecase.Diagnostics {
	out := usecase.Diagnostics{Environment: "dev"}
	out.Connectivity.Database = "Connected"
	out.Connectivity.APISports = "No matches returned"
	out.Services.SportsAPIURL = "Not Set"
	return out
}

type fakeRunner struct {
	runs      map[string]syncrun.Run
	lastKey   string
	lastLimit int
}

func (f *fakeRunner) Run(_ context.Context, sportKey string) (syncrun.Run, error) {
	f.lastKey = sportKey
	if sportKey == "" {
		return syncrun.Run{}, fmt.Errorf("%w: sport key is required", usecase.ErrInvalidInput)
	}
	finished := time.Date(2026, 5, 1, 12, 0, 5, 0, time.UTC)
	return syncrun.Run{
		ID:         "run-1",
		SportKey:   sportKey,
		StartedAt:  time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt: &finished,
		Success:    true,
		Created:    2,
		Updated:    1,
	}, nil
}

func (f *fakeRunner) GetRun(_ context.Context, runID string) (syncrun.Run, error) {
	run, ok := f.runs[runID]
	if !ok {
		return syncrun.Run{}, fmt.Errorf("%w: sync run=%s", usecase.ErrNotFound, runID)
	}
	return run, nil
}

func (f *fakeRunner) ListRuns(_ context.Context, sportKey string, limit int) ([]syncrun.Run, error) {
	f.lastKey, f.lastLimit = sportKey, limit
	out := make([]syncrun.Run, 0, len(f.runs))
	for _, run := range f.runs {
		out = append(out, run)
	}
	return out, nil
}

type fakeDispatcher struct {
	lastJob usecase.SyncJobInput
	result  usecase.DispatchResult
}

func (f *fakeDispatcher) DispatchAll(context.Context) (usecase.DispatchResult, error) {
	return f.result, nil
}

func (f *fakeDispatcher) HandleJob(_ context.Context, input usecase.SyncJobInput) (usecase.SyncResult, error) {
	f.lastJob = input
	return usecase.SyncResult{Success: true, Created: 1, Errors: []string{}}, nil
}

type fakeTranslations struct {
	report usecase.CompletionReport
	err    error
}

func (f *fakeTranslations) Backfill(_ context.Context, entity, entityID string) (usecase.CompletionReport, error) {
	if f.err != nil {
		return f.report, f.err
	}
	return usecase.CompletionReport{Entity: entity, EntityID: entityID, Created: []string{"ar", "fa"}, Existing: []string{"en"}}, nil
}

type fakeContent struct{ lastLang string }

func (f *fakeContent) ListLeagues(_ context.Context, lang string) ([]usecase.LocalizedLeague, error) {
	f.lastLang = lang
	return []usecase.LocalizedLeague{{ID: "lg-1", SportKey: "soccer_epl", Country: "England", Name: "Premier League", Slug: "epl-en"}}, nil
}

func (f *fakeContent) ListBookmakers(_ context.Context, lang string) ([]usecase.LocalizedBookmaker, error) {
	f.lastLang = lang
	return []usecase.LocalizedBookmaker{{ID: "bk-1", Name: "Bet One", Rating: 4.8, AffiliateURL: "https://bet.example.com"}}, nil
}

type testServices struct {
	live         *fakeLiveScores
	runner       *fakeRunner
	dispatcher   *fakeDispatcher
	translations *fakeTranslations
	content      *fakeContent
}

func newTestRouter(t *testing.T) (http.Handler, *testServices) {
	t.Helper()

	deps := &testServices{
		live: &fakeLiveScores{scores: usecase.LiveScores{
			Success: true,
			Data: []usecase.ExternalScoreEvent{{
				ID:           "ev-1",
				SportKey:     "soccer_epl",
				HomeTeam:     "Chelsea",
				AwayTeam:     "Arsenal",
				CommenceTime: time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC),
				Scores:       []usecase.ExternalScore{{Name: "Chelsea", Score: 1}, {Name: "Arsenal", Score: 1}},
			}},
			Total: 1,
		}},
		runner: &fakeRunner{runs: map[string]syncrun.Run{
			"run-7": {ID: "run-7", SportKey: "soccer_epl", StartedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)},
		}},
		dispatcher:   &fakeDispatcher{result: usecase.DispatchResult{Mode: "queued", QueuedKeys: []string{"soccer_epl"}}},
		translations: &fakeTranslations{},
		content:      &fakeContent{},
	}

	handler := NewHandler(Services{
		LiveScores:   deps.live,
		Diagnostics:  fakeDiagnostics{},
		Runner:       deps.runner,
		Dispatcher:   deps.dispatcher,
		Translations: deps.translations,
		Content:      deps.content,
	}, 20*time.Millisecond, logging.NewNop())

	router := NewRouter(handler, logging.NewNop(), RouterConfig{InternalJobToken: testJobToken})
	return router, deps
}

func doRequest(t *testing.T, router http.Handler, method, path, body string, internal bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if internal {
		req.Header.Set(internalJobTokenHeader, testJobToken)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLiveScores_FlatContractOnBothPaths(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/api/live-scores", "/v1/live-scores"} {
		rec := doRequest(t, router, http.MethodGet, path, "", false)
		require.Equal(t, http.StatusOK, rec.Code, path)

		body := decodeBody(t, rec)
		require.Equal(t, true, body["success"])
		require.EqualValues(t, 1, body["total"])
		require.NotContains(t, body, "apiVersion")

		data, ok := body["data"].([]any)
		require.True(t, ok)
		require.Len(t, data, 1)
		first := data[0].(map[string]any)
		require.Equal(t, "Chelsea", first["home_team"])
	}
}

func TestLiveScores_RateLimitedMapsTo429(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.live.err = fmt.Errorf("%w: all sport keys throttled", usecase.ErrRateLimited)

	rec := doRequest(t, router, http.MethodGet, "/api/live-scores", "", false)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, false, body["success"])
	require.Contains(t, body["error"], "throttled")
}

func TestLiveScores_OtherFailureMapsTo500(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.live.err = fmt.Errorf("%w: provider down", usecase.ErrDependencyUnavailable)

	rec := doRequest(t, router, http.MethodGet, "/v1/live-scores", "", false)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, false, decodeBody(t, rec)["success"])
}

func TestDiagnostics_ReportsStrings(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/diag", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	connectivity := body["connectivity"].(map[string]any)
	require.Equal(t, "Connected", connectivity["database"])
	require.Equal(t, "No matches returned", connectivity["apiSports"])
}

func TestContent_ListLeaguesAndBookmakers(t *testing.T) {
	router, deps := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/fa/leagues", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "fa", deps.content.lastLang)
	data := decodeBody(t, rec)["data"].([]any)
	require.Equal(t, "epl-en", data[0].(map[string]any)["slug"])

	rec = doRequest(t, router, http.MethodGet, "/v1/ar/bookmakers", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ar", deps.content.lastLang)
}

func TestContent_RejectsMalformedLanguage(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/e1/leagues", "", false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInternalRoutes_RequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/v1/internal/sync/soccer_epl"},
		{http.MethodGet, "/v1/internal/sync/runs"},
		{http.MethodGet, "/v1/internal/sync/runs/run-7"},
		{http.MethodPost, "/v1/internal/jobs/sync"},
		{http.MethodPost, "/v1/internal/jobs/dispatch-sync"},
		{http.MethodPost, "/v1/internal/translations/backfill"},
	}
	for _, route := range routes {
		rec := doRequest(t, router, route.method, route.path, "", false)
		require.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}
}

func TestInternalRoutes_UnconfiguredTokenIsUnavailable(t *testing.T) {
	handler := NewHandler(Services{}, 0, logging.NewNop())
	router := NewRouter(handler, logging.NewNop(), RouterConfig{})

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/dispatch-sync", "", true)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSyncSportKey_ReturnsRun(t *testing.T) {
	router, deps := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/sync/soccer_epl", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "soccer_epl", deps.runner.lastKey)

	data := decodeBody(t, rec)["data"].(map[string]any)
	require.Equal(t, "run-1", data["run_id"])
	require.EqualValues(t, 2, data["created"])
	require.EqualValues(t, 1, data["updated"])
	require.Equal(t, []any{}, data["errors"])
	require.Equal(t, "2026-05-01T12:00:05Z", data["finished_at"])
}

func TestRunSyncJob_DecodesQueueDelivery(t *testing.T) {
	router, deps := newTestRouter(t)

	body := `{"sport_key":" soccer_epl ","dispatch_id":"sync-soccer_epl-20260501T120000Z","extra":"ignored"}`
	rec := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/sync", body, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "soccer_epl", deps.dispatcher.lastJob.SportKey)
	require.Equal(t, "sync-soccer_epl-20260501T120000Z", deps.dispatcher.lastJob.DispatchID)
}

func TestRunSyncJob_RequiresSportKey(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/sync", `{"sport_key":""}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/v1/internal/jobs/sync", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDispatchSync_QueuedAnswersAccepted(t *testing.T) {
	router, deps := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/dispatch-sync", "", true)
	require.Equal(t, http.StatusAccepted, rec.Code)

	deps.dispatcher.result = usecase.DispatchResult{Mode: "inline", RunIDs: []string{"run-1"}}
	rec = doRequest(t, router, http.MethodPost, "/v1/internal/jobs/dispatch-sync", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBackfillTranslations(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/translations/backfill", `{"entity":"Match","id":"m-1"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)["data"].(map[string]any)
	require.Equal(t, "match", data["entity"])
	require.Equal(t, []any{"ar", "fa"}, data["created"])
}

func TestBackfillTranslations_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/translations/backfill", `{"entity":"team","id":"t-1"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/v1/internal/translations/backfill", `{"entity":"league","id":"l-1","force":true}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBackfillTranslations_PartialFailureKeepsReport(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.translations.report = usecase.CompletionReport{Entity: "league", EntityID: "l-1", Created: []string{"ar"}, Failed: []string{"fa"}}
	deps.translations.err = fmt.Errorf("create fa translation: boom")

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/translations/backfill", `{"entity":"league","id":"l-1"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []any{"fa"}, decodeBody(t, rec)["data"].(map[string]any)["failed"])
}

func TestBackfillTranslations_NotFound(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.translations.err = fmt.Errorf("%w: league=missing", usecase.ErrNotFound)

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/translations/backfill", `{"entity":"league","id":"missing"}`, true)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBackfillTranslations_ArticleWithoutReferenceIsBadRequest(t *testing.T) {
	translations := usecase.NewTranslationService(
		memory.NewLanguageRepository(memory.SeedLanguages()),
		memory.NewLeagueRepository(nil),
		memory.NewMatchRepository(memory.NewPredictionRepository(), nil),
		memory.NewArticleRepository([]article.Article{{ID: "a-1", Category: "news"}}),
		nil, nil, nil,
		logging.NewNop(),
	)
	handler := NewHandler(Services{Translations: translations}, 0, logging.NewNop())
	router := NewRouter(handler, logging.NewNop(), RouterConfig{InternalJobToken: testJobToken})

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/translations/backfill", `{"entity":"article","id":"a-1"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotContains(t, rec.Body.String(), `"created"`)
}

func TestBackfillTranslations_StoreFailureIsNotPartial(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.translations.report = usecase.CompletionReport{}
	deps.translations.err = fmt.Errorf("%w: list article translations", usecase.ErrDependencyUnavailable)

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/translations/backfill", `{"entity":"article","id":"a-1"}`, true)
	require.NotEqual(t, http.StatusOK, rec.Code)
}

func TestSyncRuns_GetAndList(t *testing.T) {
	router, deps := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/internal/sync/runs/run-7", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "run-7", decodeBody(t, rec)["data"].(map[string]any)["run_id"])

	rec = doRequest(t, router, http.MethodGet, "/v1/internal/sync/runs/unknown", "", true)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/v1/internal/sync/runs?sport_key=soccer_epl&limit=5", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "soccer_epl", deps.runner.lastKey)
	require.Equal(t, 5, deps.runner.lastLimit)

	rec = doRequest(t, router, http.MethodGet, "/v1/internal/sync/runs?limit=abc", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLiveScoresStream_PushesPayload(t *testing.T) {
	router, _ := newTestRouter(t)
	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/live-scores/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var scores usecase.LiveScores
	require.NoError(t, sonic.Unmarshal(payload, &scores))
	require.True(t, scores.Success)
	require.Equal(t, 1, scores.Total)
	require.Equal(t, "Arsenal", scores.Data[0].AwayTeam)
}

func TestRecoverPanic_WritesInternalError(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/live-scores", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
