package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/livebaz/internal/domain/syncrun"
	"github.com/riskibarqy/livebaz/internal/infrastructure/repository/memory"
	syncrunmock "github.com/riskibarqy/livebaz/internal/mocks/domain/syncrun"
	"github.com/stretchr/testify/mock"
)

type scriptedSyncer struct {
	mu       sync.Mutex
	results  map[string]SyncResult
	delay    time.Duration
	inFlight map[string]int
	overlap  atomic.Bool
	calls    atomic.Int32
}

func (s *scriptedSyncer) Sync(_ context.Context, sportKey string) (SyncResult, error) {
	s.calls.Add(1)

	s.mu.Lock()
	if s.inFlight == nil {
		s.inFlight = make(map[string]int)
	}
	s.inFlight[sportKey]++
	if s.inFlight[sportKey] > 1 {
		s.overlap.Store(true)
	}
	s.mu.Unlock()

	time.Sleep(s.delay)

	s.mu.Lock()
	s.inFlight[sportKey]--
	result, ok := s.results[sportKey]
	s.mu.Unlock()
	if !ok {
		result = SyncResult{Success: true, Errors: []string{}}
	}
	return result, nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []SyncCompletedEvent
	err    error
}

func (p *capturingPublisher) PublishSyncCompleted(_ context.Context, event SyncCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func TestSyncRunner_Run_RecordsAndPublishes(t *testing.T) {
	t.Parallel()

	syncer := &scriptedSyncer{results: map[string]SyncResult{
		"soccer_epl": {Success: true, Created: 2, Updated: 5, Errors: []string{"Error processing A vs B: boom"}},
	}}
	runs := memory.NewSyncRunRepository()
	publisher := &capturingPublisher{}
	runner := NewSyncRunner(syncer, runs, publisher, &sequentialIDs{prefix: "run-"}, SyncRunnerConfig{}, nil)

	run, err := runner.Run(context.Background(), "soccer_epl")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !run.Finished() || !run.Success || run.Created != 2 || run.Updated != 5 || len(run.Errors) != 1 {
		t.Fatalf("unexpected run: %+v", run)
	}

	stored, err := runner.GetRun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !stored.Finished() || stored.Created != 2 {
		t.Fatalf("unexpected stored run: %+v", stored)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.events))
	}
	event := publisher.events[0]
	if event.RunID != run.ID || event.SportKey != "soccer_epl" || event.ErrorCount != 1 || event.Created != 2 {
		t.Fatalf("unexpected event: %+v", event)
	}
}

type failingSyncer struct{ err error }

func (s failingSyncer) Sync(context.Context, string) (SyncResult, error) {
	return SyncResult{}, s.err
}

func TestSyncRunner_Run_SyncErrorClosesRunRecord(t *testing.T) {
	t.Parallel()

	runs := memory.NewSyncRunRepository()
	publisher := &capturingPublisher{}
	runner := NewSyncRunner(failingSyncer{err: errors.New("store offline")}, runs, publisher, &sequentialIDs{prefix: "run-"}, SyncRunnerConfig{}, nil)

	if _, err := runner.Run(context.Background(), "soccer_epl"); err == nil {
		t.Fatalf("expected sync error")
	}

	recent, err := runs.ListRecent(context.Background(), "soccer_epl", 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected one recorded run, got %d", len(recent))
	}
	if !recent[0].Finished() || recent[0].Success || len(recent[0].Errors) != 1 {
		t.Fatalf("expected closed failed run, got %+v", recent[0])
	}
	if len(publisher.events) != 0 {
		t.Fatalf("expected no published event, got %d", len(publisher.events))
	}
}

func TestSyncRunner_Run_BookkeepingFailuresDoNotFailRunUsingMockery(t *testing.T) {
	t.Parallel()

	runRepo := syncrunmock.NewRepository(t)
	runRepo.On("Start", mock.Anything, mock.AnythingOfType("syncrun.Run")).Return(errors.New("db down")).Once()
	runRepo.
		On("Finish", mock.Anything, mock.MatchedBy(func(run syncrun.Run) bool { return run.Finished() && run.Success })).
		Return(errors.New("db down")).
		Once()

	publisher := &capturingPublisher{err: errors.New("broker down")}
	runner := NewSyncRunner(&scriptedSyncer{}, runRepo, publisher, &sequentialIDs{prefix: "run-"}, SyncRunnerConfig{}, nil)

	run, err := runner.Run(context.Background(), "soccer_epl")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !run.Success {
		t.Fatalf("expected successful run, got %+v", run)
	}
}

func TestSyncRunner_Run_SerializesSameSportKey(t *testing.T) {
	t.Parallel()

	syncer := &scriptedSyncer{delay: 20 * time.Millisecond}
	runner := NewSyncRunner(syncer, memory.NewSyncRunRepository(), nil, &sequentialIDs{prefix: "run-"}, SyncRunnerConfig{}, nil)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := runner.Run(context.Background(), "soccer_epl"); err != nil {
				t.Errorf("run: %v", err)
			}
		}()
	}
	wg.Wait()

	if syncer.overlap.Load() {
		t.Fatalf("runs for the same sport key overlapped")
	}
	if calls := syncer.calls.Load(); calls != 4 {
		t.Fatalf("expected 4 sync calls, got %d", calls)
	}
}

func TestSyncRunner_RunAll_KeepsInputOrderAndDeduplicates(t *testing.T) {
	t.Parallel()

	syncer := &scriptedSyncer{results: map[string]SyncResult{
		"soccer_epl":           {Success: true, Created: 1},
		"soccer_spain_la_liga": {Success: false, Errors: []string{"Sync failed: boom"}},
	}}
	runner := NewSyncRunner(syncer, memory.NewSyncRunRepository(), nil, &sequentialIDs{prefix: "run-"}, SyncRunnerConfig{Workers: 2}, nil)

	runs, err := runner.RunAll(context.Background(), []string{"soccer_epl", " soccer_spain_la_liga ", "soccer_epl", ""})
	if err != nil {
		t.Fatalf("run all: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].SportKey != "soccer_epl" || runs[0].Created != 1 {
		t.Fatalf("unexpected first run: %+v", runs[0])
	}
	if runs[1].SportKey != "soccer_spain_la_liga" || runs[1].Success {
		t.Fatalf("unexpected second run: %+v", runs[1])
	}
}

func TestSyncRunner_ListRuns_ValidatesLimit(t *testing.T) {
	t.Parallel()

	runner := NewSyncRunner(&scriptedSyncer{}, memory.NewSyncRunRepository(), nil, &sequentialIDs{prefix: "run-"}, SyncRunnerConfig{}, nil)
	for range 3 {
		if _, err := runner.Run(context.Background(), "soccer_epl"); err != nil {
			t.Fatalf("run: %v", err)
		}
	}

	runs, err := runner.ListRuns(context.Background(), "soccer_epl", 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if _, err := runner.ListRuns(context.Background(), "", 500); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := runner.GetRun(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
