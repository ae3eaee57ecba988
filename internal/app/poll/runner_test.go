package poll_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-console/internal/adapters/clock"
	"crm-console/internal/app/poll"
)

func TestRunnerTicksAtInterval(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	var ticks atomic.Int64
	r := poll.NewRunner(clk, 5*time.Second, func(ctx context.Context) {
		ticks.Add(1)
	})

	r.Start()
	defer r.Stop()

	clk.Advance(4 * time.Second)
	// Interval not reached yet.
	assert.EqualValues(t, 0, ticks.Load())

	clk.Advance(time.Second)
	require.Eventually(t, func() bool { return ticks.Load() == 1 }, time.Second, time.Millisecond)

	clk.Advance(10 * time.Second)
	require.Eventually(t, func() bool { return ticks.Load() == 3 }, time.Second, time.Millisecond)
}

func TestStopPreventsFurtherTicks(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	var ticks atomic.Int64
	r := poll.NewRunner(clk, 5*time.Second, func(ctx context.Context) {
		ticks.Add(1)
	})

	r.Start()
	clk.Advance(5 * time.Second)
	require.Eventually(t, func() bool { return ticks.Load() == 1 }, time.Second, time.Millisecond)

	r.Stop()
	require.False(t, r.Running())

	before := ticks.Load()
	clk.Advance(time.Minute)
	assert.Equal(t, before, ticks.Load())
}

func TestStartTwiceKeepsOneLoop(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	var ticks atomic.Int64
	r := poll.NewRunner(clk, 5*time.Second, func(ctx context.Context) {
		ticks.Add(1)
	})

	r.Start()
	r.Start()
	defer r.Stop()

	clk.Advance(5 * time.Second)
	require.Eventually(t, func() bool { return ticks.Load() >= 1 }, time.Second, time.Millisecond)
	// A doubled loop would tick twice per period.
	time.Sleep(10 * time.Millisecond)
	assert.EqualValues(t, 1, ticks.Load())
}

func TestStopIsIdempotentAndRestartable(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	var ticks atomic.Int64
	r := poll.NewRunner(clk, time.Second, func(ctx context.Context) {
		ticks.Add(1)
	})

	r.Stop() // stopping a never-started runner is fine
	r.Start()
	r.Stop()
	r.Stop()

	r.Start()
	defer r.Stop()
	clk.Advance(time.Second)
	require.Eventually(t, func() bool { return ticks.Load() == 1 }, time.Second, time.Millisecond)
}
