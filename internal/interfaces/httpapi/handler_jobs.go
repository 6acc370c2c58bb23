package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/livebaz/internal/domain/syncrun"
	"github.com/riskibarqy/livebaz/internal/usecase"
)

type syncRunDTO struct {
	RunID      string   `json:"run_id"`
	SportKey   string   `json:"sport_key"`
	Success    bool     `json:"success"`
	Created    int      `json:"created"`
	Updated    int      `json:"updated"`
	Errors     []string `json:"errors"`
	StartedAt  string   `json:"started_at"`
	FinishedAt string   `json:"finished_at,omitempty"`
}

type backfillRequest struct {
	Entity string `json:"entity" validate:"required,oneof=league match article"`
	ID     string `json:"id" validate:"required,max=64"`
}

type listSyncRunsRequest struct {
	SportKey string `validate:"omitempty,max=64"`
	Limit    int    `validate:"gte=0"`
}

// SyncSportKey runs one recorded sync synchronously for the path's sport key.
func (h *Handler) SyncSportKey(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncSportKey")
	defer span.End()

	if h.services.Runner == nil {
		writeError(ctx, w, notConfigured("sync runner"))
		return
	}

	sportKey := strings.TrimSpace(r.PathValue("sportKey"))
	run, err := h.services.Runner.Run(ctx, sportKey)
	if err != nil {
		h.logger.WarnContext(ctx, "sync failed", "sport_key", sportKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncRunToDTO(run))
}

// RunSyncJob is the QStash delivery target for one queued sport key.
func (h *Handler) RunSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncJob")
	defer span.End()

	if h.services.Dispatcher == nil {
		writeError(ctx, w, notConfigured("sync dispatcher"))
		return
	}

	var req usecase.SyncJobInput
	if err := decodeJSONBody(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.SportKey = strings.TrimSpace(req.SportKey)
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.services.Dispatcher.HandleJob(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync job failed", "sport_key", req.SportKey, "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) DispatchSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DispatchSync")
	defer span.End()

	if h.services.Dispatcher == nil {
		writeError(ctx, w, notConfigured("sync dispatcher"))
		return
	}

	result, err := h.services.Dispatcher.DispatchAll(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "dispatch sync failed", "mode", result.Mode, "queued", len(result.QueuedKeys), "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if result.Mode == "queued" {
		status = http.StatusAccepted
	}
	writeSuccess(ctx, w, status, result)
}

func (h *Handler) BackfillTranslations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BackfillTranslations")
	defer span.End()

	if h.services.Translations == nil {
		writeError(ctx, w, notConfigured("translation service"))
		return
	}

	var req backfillRequest
	if err := decodeJSONBody(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.Entity = strings.ToLower(strings.TrimSpace(req.Entity))
	req.ID = strings.TrimSpace(req.ID)
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.services.Translations.Backfill(ctx, req.Entity, req.ID)
	if err != nil {
		// Only per-language failures are partial; anything else failed the whole call.
		if len(report.Failed) == 0 {
			h.logger.WarnContext(ctx, "translation backfill failed", "entity", req.Entity, "id", req.ID, "error", err)
			writeError(ctx, w, err)
			return
		}
		h.logger.WarnContext(ctx, "translation backfill partially failed", "entity", req.Entity, "id", req.ID, "failed", report.Failed, "error", err)
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) GetSyncRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncRun")
	defer span.End()

	if h.services.Runner == nil {
		writeError(ctx, w, notConfigured("sync runner"))
		return
	}

	runID := strings.TrimSpace(r.PathValue("runID"))
	run, err := h.services.Runner.GetRun(ctx, runID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncRunToDTO(run))
}

func (h *Handler) ListSyncRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncRuns")
	defer span.End()

	if h.services.Runner == nil {
		writeError(ctx, w, notConfigured("sync runner"))
		return
	}

	query := r.URL.Query()
	req := listSyncRunsRequest{SportKey: strings.TrimSpace(query.Get("sport_key"))}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		req.Limit = limit
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	runs, err := h.services.Runner.ListRuns(ctx, req.SportKey, req.Limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]syncRunDTO, 0, len(runs))
	for _, run := range runs {
		items = append(items, syncRunToDTO(run))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

// decodeJSONBody decodes a JSON request body. Unknown fields are tolerated for queue deliveries, which may
// carry extra metadata.
func decodeJSONBody(r *http.Request, target any, strict bool) error {
	decoder := jsoniter.NewDecoder(r.Body)
	if strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func syncRunToDTO(run syncrun.Run) syncRunDTO {
	out := syncRunDTO{
		RunID:     run.ID,
		SportKey:  run.SportKey,
		Success:   run.Success,
		Created:   run.Created,
		Updated:   run.Updated,
		Errors:    run.Errors,
		StartedAt: run.StartedAt.UTC().Format(time.RFC3339),
	}
	if out.Errors == nil {
		out.Errors = []string{}
	}
	if run.FinishedAt != nil {
		out.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
	}
	return out
}
