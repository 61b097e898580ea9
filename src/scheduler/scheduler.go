// Package scheduler drives periodic speed measurements. A Runner owns one
// goroutine that fires at a fixed interval and dispatches each measurement to
// a worker goroutine, with a single in-flight guard: a tick that arrives while
// a measurement is still running is skipped, never queued.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Ghostalex7/Internet-speed-monitor/src/speedtest"
)

// Config wires a Runner. OnResult and OnError are invoked from the worker
// goroutine; callers that touch UI state must marshal onto the UI thread
// themselves (the desktop app wraps both in fyne.Do).
type Config struct {
	Interval time.Duration
	Tester   speedtest.Tester
	OnResult func(speedtest.Result)
	OnError  func(error)
}

// Runner executes measurements until Stop is called. A measurement failure
// only skips that tick; the ticker keeps scheduling subsequent ones.
type Runner struct {
	cfg      Config
	inFlight atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	wg     sync.WaitGroup
}

// New returns a stopped Runner. Interval must be positive.
func New(cfg Config) *Runner {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	return &Runner{cfg: cfg}
}

// Start launches the tick loop. The first measurement fires immediately.
// Starting a running Runner is a no-op.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	done := make(chan struct{})
	r.done = done
	go r.loop(ctx, done)
	speedtest.Infof("monitoring started (interval %s)", r.cfg.Interval)
}

// Stop cancels the tick loop and waits for it, and for any in-flight worker,
// to return. Stopping a stopped Runner is a no-op.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	done := r.done
	r.cancel = nil
	r.done = nil
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	r.wg.Wait()
	speedtest.Infof("monitoring stopped")
}

// Running reports whether the tick loop is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

func (r *Runner) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	t := time.NewTicker(r.cfg.Interval)
	defer t.Stop()
	r.dispatch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.dispatch(ctx)
		}
	}
}

// dispatch starts one measurement worker unless one is already in flight.
func (r *Runner) dispatch(ctx context.Context) {
	if !r.inFlight.CompareAndSwap(false, true) {
		speedtest.Debugf("tick skipped: measurement still in flight")
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.inFlight.Store(false)
		res, err := r.cfg.Tester.Run(ctx)
		if ctx.Err() != nil {
			// Stopped while measuring; drop the partial outcome.
			return
		}
		if err != nil {
			speedtest.Warnf("measurement failed: %v", err)
			if r.cfg.OnError != nil {
				r.cfg.OnError(err)
			}
			return
		}
		if r.cfg.OnResult != nil {
			r.cfg.OnResult(res)
		}
	}()
}
