package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/livebaz/internal/domain/jobscheduler"
	"github.com/riskibarqy/livebaz/internal/infrastructure/repository/memory"
)

type enqueuedJob struct {
	path    string
	payload any
	dedupID string
}

type fakeJobQueue struct {
	mu   sync.Mutex
	jobs []enqueuedJob
	err  error
}

func (q *fakeJobQueue) Enqueue(_ context.Context, path string, payload any, _ time.Duration, dedupID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, enqueuedJob{path: path, payload: payload, dedupID: dedupID})
	return nil
}

func newDispatchForTest(queue JobQueue, syncer Syncer, keys []string) (*SyncDispatchService, *memory.JobDispatchRepository) {
	dispatches := memory.NewJobDispatchRepository()
	runner := NewSyncRunner(syncer, memory.NewSyncRunRepository(), nil, &sequentialIDs{prefix: "run-"}, SyncRunnerConfig{}, nil)
	svc := NewSyncDispatchService(queue, runner, dispatches, SyncDispatchConfig{SportKeys: keys, Interval: 15 * time.Minute}, nil)
	svc.now = func() time.Time { return time.Date(2026, 4, 18, 14, 7, 30, 0, time.UTC) }
	return svc, dispatches
}

func TestSyncDispatchService_DispatchAll_QueuesOneJobPerKey(t *testing.T) {
	t.Parallel()

	queue := &fakeJobQueue{}
	svc, dispatches := newDispatchForTest(queue, &scriptedSyncer{}, []string{"soccer_epl", "soccer_spain_la_liga"})

	result, err := svc.DispatchAll(context.Background())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.Mode != "queued" || len(result.QueuedKeys) != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(queue.jobs) != 2 || queue.jobs[0].path != SyncJobPath {
		t.Fatalf("unexpected jobs: %+v", queue.jobs)
	}
	if queue.jobs[0].dedupID != "sync-soccer_epl-20260418T140000Z" {
		t.Fatalf("unexpected dedup id: %s", queue.jobs[0].dedupID)
	}

	event, ok := dispatches.Get("sync-soccer_epl-20260418T140000Z")
	if !ok || event.Status != jobscheduler.StatusSent {
		t.Fatalf("expected sent dispatch event, got %+v ok=%v", event, ok)
	}
}

func TestSyncDispatchService_DispatchAll_RecordsEnqueueFailure(t *testing.T) {
	t.Parallel()

	queue := &fakeJobQueue{err: errors.New("qstash 503")}
	svc, dispatches := newDispatchForTest(queue, &scriptedSyncer{}, []string{"soccer_epl"})

	if _, err := svc.DispatchAll(context.Background()); err == nil {
		t.Fatalf("expected enqueue error")
	}
	event, ok := dispatches.Get("sync-soccer_epl-20260418T140000Z")
	if !ok || event.Status != jobscheduler.StatusFailed || event.ErrorMessage != "qstash 503" {
		t.Fatalf("unexpected dispatch event: %+v ok=%v", event, ok)
	}
}

func TestSyncDispatchService_DispatchAll_RunsInlineWithoutQueue(t *testing.T) {
	t.Parallel()

	syncer := &scriptedSyncer{}
	svc, _ := newDispatchForTest(nil, syncer, []string{"soccer_epl", "soccer_epl", "soccer_germany_bundesliga"})

	result, err := svc.DispatchAll(context.Background())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.Mode != "inline" || len(result.RunIDs) != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if calls := syncer.calls.Load(); calls != 2 {
		t.Fatalf("expected 2 syncs, got %d", calls)
	}
}

func TestSyncDispatchService_HandleJob_ClosesDispatchRecord(t *testing.T) {
	t.Parallel()

	syncer := &scriptedSyncer{results: map[string]SyncResult{
		"soccer_epl": {Success: false, Errors: []string{"Sync failed: fetch events: boom"}},
	}}
	svc, dispatches := newDispatchForTest(&fakeJobQueue{}, syncer, []string{"soccer_epl"})

	result, err := svc.HandleJob(context.Background(), SyncJobInput{SportKey: "soccer_epl", DispatchID: "sync-soccer_epl-x"})
	if err != nil {
		t.Fatalf("handle job: %v", err)
	}
	if result.Success {
		t.Fatalf("expected unsuccessful result")
	}

	event, ok := dispatches.Get("sync-soccer_epl-x")
	if !ok || event.Status != jobscheduler.StatusFailed || event.ErrorMessage != "Sync failed: fetch events: boom" {
		t.Fatalf("unexpected dispatch event: %+v ok=%v", event, ok)
	}
}

func TestDedupKey_SanitizesSegments(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 4, 18, 14, 59, 0, 0, time.UTC)
	if got := dedupKey("sync", "soccer epl/2", at, time.Hour); got != "sync-soccer-epl-2-20260418T140000Z" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := dedupKey("sync", "", at, 0); got != "sync-unknown-20260418T145900Z" {
		t.Fatalf("unexpected key: %s", got)
	}
}
