// Package poll is the fixed-period refresh loop behind chat, the
// notification badge and the dashboard. A Runner is an explicit
// start/stop handle, so a page leaving the screen can guarantee no
// further fetches, and tests drive it with a fake clock.
package poll

import (
	"context"
	"sync"
	"time"

	"crm-console/internal/domain"
)

type Runner struct {
	clock    domain.Clock
	interval time.Duration
	tick     func(ctx context.Context)

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewRunner builds a stopped runner; tick runs on the runner's own
// goroutine once per interval.
func NewRunner(clk domain.Clock, interval time.Duration, tick func(ctx context.Context)) *Runner {
	return &Runner{clock: clk, interval: interval, tick: tick}
}

// Start begins ticking. Starting a running runner is a no-op: there is
// never more than one loop per runner.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		return
	}
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	// The ticker is created here, not in the loop goroutine, so the period
	// starts counting the moment Start returns.
	ticker := r.clock.NewTicker(r.interval)
	go r.loop(ticker, r.stop, r.done)
}

// Stop halts the loop and waits for it to exit; once Stop returns no
// further ticks will run. Stopping a stopped runner is a no-op.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stop == nil {
		r.mu.Unlock()
		return
	}
	stop, done := r.stop, r.done
	r.stop = nil
	r.done = nil
	r.mu.Unlock()

	close(stop)
	<-done
}

func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}

func (r *Runner) loop(ticker domain.Ticker, stop, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		cancel()
	}()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			r.tick(ctx)
		}
	}
}
