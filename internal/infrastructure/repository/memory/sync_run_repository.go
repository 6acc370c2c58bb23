package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/livebaz/internal/domain/jobscheduler"
	"github.com/riskibarqy/livebaz/internal/domain/syncrun"
)

type SyncRunRepository struct {
	mu    sync.RWMutex
	items map[string]syncrun.Run
}

func NewSyncRunRepository() *SyncRunRepository {
	return &SyncRunRepository{items: make(map[string]syncrun.Run)}
}

func (r *SyncRunRepository) Start(_ context.Context, run syncrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[run.ID] = cloneRun(run)
	return nil
}

func (r *SyncRunRepository) Finish(_ context.Context, run syncrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[run.ID] = cloneRun(run)
	return nil
}

func (r *SyncRunRepository) GetByID(_ context.Context, runID string) (syncrun.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.items[runID]
	if !ok {
		return syncrun.Run{}, false, nil
	}
	return cloneRun(run), true, nil
}

func (r *SyncRunRepository) ListRecent(_ context.Context, sportKey string, limit int) ([]syncrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]syncrun.Run, 0, len(r.items))
	for _, run := range r.items {
		if sportKey != "" && run.SportKey != sportKey {
			continue
		}
		out = append(out, cloneRun(run))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneRun(run syncrun.Run) syncrun.Run {
	run.Errors = append([]string(nil), run.Errors...)
	if run.FinishedAt != nil {
		finished := *run.FinishedAt
		run.FinishedAt = &finished
	}
	return run
}

// JobDispatchRepository keeps the latest state per dispatch id.
type JobDispatchRepository struct {
	mu     sync.Mutex
	events map[string]jobscheduler.DispatchEvent
}

func NewJobDispatchRepository() *JobDispatchRepository {
	return &JobDispatchRepository{events: make(map[string]jobscheduler.DispatchEvent)}
}

func (r *JobDispatchRepository) UpsertEvent(_ context.Context, event jobscheduler.DispatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.DispatchID] = event
	return nil
}

func (r *JobDispatchRepository) Get(dispatchID string) (jobscheduler.DispatchEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[dispatchID]
	return event, ok
}
