package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/livebaz/internal/domain/syncrun"
	"github.com/riskibarqy/livebaz/internal/platform/id"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
	"github.com/riskibarqy/livebaz/internal/platform/resilience"
)

const (
	defaultRunnerWorkers = 4
	defaultRunListLimit  = 20
	maxRunListLimit      = 200
)

// Syncer runs one synchronization for a sport key.
type Syncer interface {
	Sync(ctx context.Context, sportKey string) (SyncResult, error)
}

// SyncRunner records, serializes and announces sync runs. Runs for one sport key never overlap inside
// this process; different keys run in parallel on a bounded pool.
type SyncRunner struct {
	syncer    Syncer
	runRepo   syncrun.Repository
	publisher SyncEventPublisher
	ids       id.Generator
	locks     resilience.KeyedMutex
	workers   int
	logger    *logging.Logger
	now       func() time.Time
}

type SyncRunnerConfig struct {
	Workers int
}

func NewSyncRunner(
	syncer Syncer,
	runRepo syncrun.Repository,
	publisher SyncEventPublisher,
	ids id.Generator,
	cfg SyncRunnerConfig,
	logger *logging.Logger,
) *SyncRunner {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultRunnerWorkers
	}
	return &SyncRunner{
		syncer:    syncer,
		runRepo:   runRepo,
		publisher: publisher,
		ids:       ids,
		workers:   cfg.Workers,
		logger:    logger.Named("sync_runner"),
		now:       time.Now,
	}
}

// Run executes one recorded sync. Bookkeeping failures are logged and never change the result.
func (r *SyncRunner) Run(ctx context.Context, sportKey string) (syncrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncRunner.Run")
	defer span.End()

	sportKey = strings.TrimSpace(sportKey)
	if sportKey == "" {
		return syncrun.Run{}, fmt.Errorf("%w: sport key is required", ErrInvalidInput)
	}

	unlock := r.locks.Lock(sportKey)
	defer unlock()

	runID, err := r.ids.NewID()
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("generate run id: %w", err)
	}
	run := syncrun.Run{ID: runID, SportKey: sportKey, StartedAt: r.now().UTC()}
	if err := r.runRepo.Start(ctx, run); err != nil {
		r.logger.WarnContext(ctx, "record sync run start failed", "run_id", runID, "error", err)
	}

	// The caller may have gone away; the history row should still be closed.
	bookkeepingCtx := context.WithoutCancel(ctx)

	result, err := r.syncer.Sync(ctx, sportKey)
	if err != nil {
		failed := r.now().UTC()
		run.FinishedAt = &failed
		run.Errors = []string{"Sync failed: " + err.Error()}
		if finishErr := r.runRepo.Finish(bookkeepingCtx, run); finishErr != nil {
			r.logger.WarnContext(ctx, "record sync run finish failed", "run_id", runID, "error", finishErr)
		}
		return syncrun.Run{}, err
	}

	finished := r.now().UTC()
	run.FinishedAt = &finished
	run.Success = result.Success
	run.Created = result.Created
	run.Updated = result.Updated
	run.Errors = append([]string(nil), result.Errors...)

	if err := r.runRepo.Finish(bookkeepingCtx, run); err != nil {
		r.logger.WarnContext(ctx, "record sync run finish failed", "run_id", runID, "error", err)
	}
	if r.publisher != nil {
		if err := r.publisher.PublishSyncCompleted(bookkeepingCtx, SyncCompletedEvent{
			RunID:      run.ID,
			SportKey:   sportKey,
			Success:    run.Success,
			Created:    run.Created,
			Updated:    run.Updated,
			ErrorCount: len(run.Errors),
			FinishedAt: finished,
		}); err != nil {
			r.logger.WarnContext(ctx, "publish sync completed failed", "run_id", runID, "error", err)
		}
	}

	return run, nil
}

// RunAll fans distinct sport keys out over the worker pool and returns runs in input order.
func (r *SyncRunner) RunAll(ctx context.Context, sportKeys []string) ([]syncrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncRunner.RunAll")
	defer span.End()

	keys := uniqueKeys(sportKeys)
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: at least one sport key is required", ErrInvalidInput)
	}

	pool, err := ants.NewPool(min(r.workers, len(keys)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	runs := make([]syncrun.Run, len(keys))
	errs := make([]error, len(keys))

	var workers sync.WaitGroup
	for i, key := range keys {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			runs[i], errs[i] = r.Run(ctx, key)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit sync %s to worker pool: %w", key, err)
		}
	}
	workers.Wait()

	for i, err := range errs {
		if err != nil {
			return runs, fmt.Errorf("sync %s: %w", keys[i], err)
		}
	}
	return runs, nil
}

func (r *SyncRunner) GetRun(ctx context.Context, runID string) (syncrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncRunner.GetRun")
	defer span.End()

	runID = strings.TrimSpace(runID)
	if runID == "" {
		return syncrun.Run{}, fmt.Errorf("%w: run id is required", ErrInvalidInput)
	}
	run, ok, err := r.runRepo.GetByID(ctx, runID)
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("get sync run: %w", err)
	}
	if !ok {
		return syncrun.Run{}, fmt.Errorf("%w: sync run=%s", ErrNotFound, runID)
	}
	return run, nil
}

func (r *SyncRunner) ListRuns(ctx context.Context, sportKey string, limit int) ([]syncrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncRunner.ListRuns")
	defer span.End()

	if limit <= 0 {
		limit = defaultRunListLimit
	}
	if limit > maxRunListLimit {
		return nil, fmt.Errorf("%w: limit must be <= %d", ErrInvalidInput, maxRunListLimit)
	}
	runs, err := r.runRepo.ListRecent(ctx, strings.TrimSpace(sportKey), limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return runs, nil
}

func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
