// Package clock provides the system clock and a manually advanced fake;
// pollers and debouncers take a domain.Clock so tests never touch real
// timers.
package clock

import (
	"time"

	"crm-console/internal/domain"
)

type System struct{}

func NewSystem() System {
	return System{}
}

func (System) Now() time.Time {
	return time.Now()
}

func (System) NewTicker(d time.Duration) domain.Ticker {
	return systemTicker{time.NewTicker(d)}
}

func (System) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time {
	return s.t.C
}

func (s systemTicker) Stop() {
	s.t.Stop()
}
