package clock

import (
	"sync"
	"time"

	"crm-console/internal/domain"
)

// Fake is a virtual clock. Advance moves time forward and fires any ticker
// whose period has elapsed, synchronously, so tests can assert "after three
// ticks" without sleeping.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
	afters  []*fakeAfter
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) NewTicker(d time.Duration) domain.Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{
		clock:  f,
		period: d,
		next:   f.now.Add(d),
		ch:     make(chan time.Time, 64),
	}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := &fakeAfter{deadline: f.now.Add(d), fn: fn}
	f.afters = append(f.afters, a)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		a.cancelled = true
	}
}

// Advance moves the clock by d, delivering ticks and firing timers in
// order. Tick delivery is buffered; consumers read from their ticker
// channel as usual.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)

	var fired []func()
	for {
		var earliest time.Time
		for _, t := range f.tickers {
			if !t.stopped && (earliest.IsZero() || t.next.Before(earliest)) {
				earliest = t.next
			}
		}
		for _, a := range f.afters {
			if !a.cancelled && !a.done && (earliest.IsZero() || a.deadline.Before(earliest)) {
				earliest = a.deadline
			}
		}
		if earliest.IsZero() || earliest.After(target) {
			break
		}
		f.now = earliest
		for _, t := range f.tickers {
			if !t.stopped && !t.next.After(f.now) {
				select {
				case t.ch <- f.now:
				default:
				}
				t.next = t.next.Add(t.period)
			}
		}
		for _, a := range f.afters {
			if !a.cancelled && !a.done && !a.deadline.After(f.now) {
				a.done = true
				fired = append(fired, a.fn)
			}
		}
	}
	f.now = target
	f.mu.Unlock()

	for _, fn := range fired {
		fn()
	}
}

type fakeTicker struct {
	clock   *Fake
	period  time.Duration
	next    time.Time
	ch      chan time.Time
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}

type fakeAfter struct {
	deadline  time.Time
	fn        func()
	cancelled bool
	done      bool
}
