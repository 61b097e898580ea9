package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ghostalex7/Internet-speed-monitor/src/history"
	"github.com/Ghostalex7/Internet-speed-monitor/src/speedtest"
)

// fakeTester counts calls and optionally blocks until released.
type fakeTester struct {
	calls   atomic.Int32
	release chan struct{} // when non-nil, Run blocks until closed (or ctx done)
	err     error
}

func (f *fakeTester) Run(ctx context.Context) (speedtest.Result, error) {
	n := f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return speedtest.Result{}, ctx.Err()
		}
	}
	if f.err != nil {
		return speedtest.Result{}, f.err
	}
	return speedtest.Result{Timestamp: time.Now(), DownloadMbps: float64(n)}, nil
}

func TestOverlappingTickIsSkipped(t *testing.T) {
	ft := &fakeTester{release: make(chan struct{})}
	r := New(Config{Interval: 20 * time.Millisecond, Tester: ft})
	r.Start()
	// Several intervals elapse while the first measurement is still blocked.
	time.Sleep(150 * time.Millisecond)
	if got := ft.calls.Load(); got != 1 {
		close(ft.release)
		r.Stop()
		t.Fatalf("expected exactly 1 in-flight measurement, got %d", got)
	}
	close(ft.release)
	r.Stop()
}

func TestFailureDoesNotStopSubsequentTicks(t *testing.T) {
	ft := &fakeTester{err: errors.New("network unreachable")}
	errs := make(chan error, 16)
	r := New(Config{
		Interval: 10 * time.Millisecond,
		Tester:   ft,
		OnError:  func(err error) { errs <- err },
	})
	r.Start()
	defer r.Stop()
	// The immediate tick plus at least two scheduled ones must all report.
	for i := 0; i < 3; i++ {
		select {
		case <-errs:
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %d never fired after earlier failures", i+1)
		}
	}
}

func TestResultsAppendInOrder(t *testing.T) {
	ft := &fakeTester{}
	h := history.New()
	got := make(chan struct{}, 16)
	r := New(Config{
		Interval: 10 * time.Millisecond,
		Tester:   ft,
		OnResult: func(res speedtest.Result) {
			h.Append(history.Measurement{
				Timestamp:    res.Timestamp,
				DownloadMbps: res.DownloadMbps,
				UploadMbps:   res.UploadMbps,
			})
			got <- struct{}{}
		},
	})
	r.Start()
	for i := 0; i < 3; i++ {
		select {
		case <-got:
		case <-time.After(2 * time.Second):
			t.Fatalf("measurement %d never completed", i+1)
		}
	}
	r.Stop()
	snap := h.Snapshot()
	if len(snap) < 3 {
		t.Fatalf("history length %d want >= 3", len(snap))
	}
	for i := 1; i < len(snap); i++ {
		if snap[i].DownloadMbps <= snap[i-1].DownloadMbps {
			t.Fatalf("insertion order violated at %d: %v then %v", i, snap[i-1].DownloadMbps, snap[i].DownloadMbps)
		}
	}
}

func TestStopDropsInFlightOutcome(t *testing.T) {
	ft := &fakeTester{release: make(chan struct{})}
	var delivered atomic.Int32
	r := New(Config{
		Interval: 10 * time.Millisecond,
		Tester:   ft,
		OnResult: func(speedtest.Result) { delivered.Add(1) },
		OnError:  func(error) { delivered.Add(1) },
	})
	r.Start()
	time.Sleep(30 * time.Millisecond) // first measurement is blocked in flight
	r.Stop()                          // cancels ctx; worker returns without callback
	if n := delivered.Load(); n != 0 {
		t.Fatalf("callback fired for a canceled measurement: %d", n)
	}
	if r.Running() {
		t.Fatalf("runner still reports running after Stop")
	}
}

func TestStartStopIdempotent(t *testing.T) {
	ft := &fakeTester{}
	r := New(Config{Interval: time.Hour, Tester: ft})
	r.Stop() // stopping a stopped runner is a no-op
	r.Start()
	r.Start() // starting twice must not spawn a second loop
	if !r.Running() {
		t.Fatalf("runner not running after Start")
	}
	r.Stop()
	r.Stop()
	if r.Running() {
		t.Fatalf("runner running after Stop")
	}
}

func TestNewDefaultsInterval(t *testing.T) {
	r := New(Config{Tester: &fakeTester{}})
	if r.cfg.Interval != 10*time.Second {
		t.Fatalf("default interval %v want 10s", r.cfg.Interval)
	}
}
