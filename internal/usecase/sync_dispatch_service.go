package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/riskibarqy/livebaz/internal/domain/jobscheduler"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

const SyncJobPath = "/v1/internal/jobs/sync"

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

type SyncDispatchConfig struct {
	SportKeys []string
	// Interval buckets deduplication ids so one key is queued at most once per interval.
	Interval time.Duration
}

type DispatchResult struct {
	Mode       string   `json:"mode"`
	QueuedKeys []string `json:"queued_keys,omitempty"`
	RunIDs     []string `json:"run_ids,omitempty"`
}

// SyncJobInput is the body QStash delivers back to the sync job endpoint.
type SyncJobInput struct {
	SportKey   string `json:"sport_key" validate:"required,max=64"`
	DispatchID string `json:"dispatch_id,omitempty" validate:"omitempty,max=128"`
}

// SyncDispatchService schedules per-sport sync jobs through the job queue, or runs them inline when no
// queue is configured.
type SyncDispatchService struct {
	queue        JobQueue
	runner       *SyncRunner
	dispatchRepo jobscheduler.Repository
	cfg          SyncDispatchConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewSyncDispatchService(
	queue JobQueue,
	runner *SyncRunner,
	dispatchRepo jobscheduler.Repository,
	cfg SyncDispatchConfig,
	logger *logging.Logger,
) *SyncDispatchService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	return &SyncDispatchService{
		queue:        queue,
		runner:       runner,
		dispatchRepo: dispatchRepo,
		cfg:          cfg,
		logger:       logger.Named("dispatch"),
		now:          time.Now,
	}
}

func (s *SyncDispatchService) DispatchAll(ctx context.Context) (DispatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncDispatchService.DispatchAll")
	defer span.End()

	keys := uniqueKeys(s.cfg.SportKeys)
	if len(keys) == 0 {
		return DispatchResult{}, fmt.Errorf("%w: no sport keys configured", ErrInvalidInput)
	}

	if s.queue == nil {
		runs, err := s.runner.RunAll(ctx, keys)
		result := DispatchResult{Mode: "inline"}
		for _, run := range runs {
			if run.ID != "" {
				result.RunIDs = append(result.RunIDs, run.ID)
			}
		}
		return result, err
	}

	now := s.now().UTC()
	result := DispatchResult{Mode: "queued", QueuedKeys: make([]string, 0, len(keys))}
	for _, key := range keys {
		if err := s.enqueue(ctx, key, now); err != nil {
			return result, err
		}
		result.QueuedKeys = append(result.QueuedKeys, key)
	}
	return result, nil
}

// HandleJob runs a delivered job and closes its dispatch record.
func (s *SyncDispatchService) HandleJob(ctx context.Context, input SyncJobInput) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncDispatchService.HandleJob")
	defer span.End()

	run, err := s.runner.Run(ctx, input.SportKey)
	event := jobscheduler.DispatchEvent{
		DispatchID: input.DispatchID,
		JobPath:    SyncJobPath,
		SportKey:   input.SportKey,
		Status:     jobscheduler.StatusCompleted,
		Payload:    map[string]any{"sport_key": input.SportKey, "run_id": run.ID},
	}
	if err != nil {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = err.Error()
	} else if !run.Success {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = strings.Join(run.Errors, "; ")
	}
	s.recordDispatchEvent(ctx, event)
	if err != nil {
		return SyncResult{}, err
	}

	return SyncResult{Success: run.Success, Created: run.Created, Updated: run.Updated, Errors: run.Errors}, nil
}

func (s *SyncDispatchService) enqueue(ctx context.Context, sportKey string, now time.Time) error {
	dedupID := dedupKey("sync", sportKey, now, s.cfg.Interval)
	payload := map[string]any{
		"sport_key":   sportKey,
		"dispatch_id": dedupID,
	}
	event := jobscheduler.DispatchEvent{
		DispatchID: dedupID,
		JobPath:    SyncJobPath,
		SportKey:   sportKey,
		Status:     jobscheduler.StatusSent,
		Payload:    payload,
		OccurredAt: now,
	}

	if err := s.queue.Enqueue(ctx, SyncJobPath, payload, 0, dedupID); err != nil {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = err.Error()
		s.recordDispatchEvent(ctx, event)
		return fmt.Errorf("enqueue sync sport_key=%s: %w", sportKey, err)
	}
	s.recordDispatchEvent(ctx, event)
	return nil
}

func (s *SyncDispatchService) recordDispatchEvent(ctx context.Context, event jobscheduler.DispatchEvent) {
	if s.dispatchRepo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		event.TraceID = spanCtx.TraceID().String()
		event.SpanID = spanCtx.SpanID().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}

func dedupKey(prefix, key string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	return sanitizeDedupSegment(prefix) + "-" + sanitizeDedupSegment(key) + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}
