package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentLoads(t *testing.T) {
	var g SingleFlight
	var loads atomic.Int32

	const callers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)

	shared := atomic.Int32{}
	for range callers {
		go func() {
			defer wg.Done()
			<-start
			v, err, wasShared := g.Do("live-scores:soccer_epl", func() (any, error) {
				loads.Add(1)
				time.Sleep(20 * time.Millisecond)
				return 3, nil
			})
			if err != nil || v.(int) != 3 {
				t.Errorf("unexpected result v=%v err=%v", v, err)
			}
			if wasShared {
				shared.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := loads.Load(); got != 1 {
		t.Fatalf("expected one load, got %d", got)
	}
	if shared.Load() == 0 {
		t.Fatalf("expected waiters to report a shared result")
	}
}

func TestSingleFlight_ErrorIsNotCached(t *testing.T) {
	var g SingleFlight
	boom := errors.New("upstream 503")

	if _, err, _ := g.Do("sync:soccer_epl", func() (any, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	v, err, _ := g.Do("sync:soccer_epl", func() (any, error) { return "ok", nil })
	if err != nil || v != "ok" {
		t.Fatalf("expected fresh call after failure, got v=%v err=%v", v, err)
	}
}
