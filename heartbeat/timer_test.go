package heartbeat

import (
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_FiresOnceAfterDelay(t *testing.T) {
	timer := NewTimer("test_timer", log.NewNopLogger())
	defer timer.Stop()

	fired := make(chan time.Time, 2)
	start := time.Now()
	require.NoError(t, timer.Timeout(50*time.Millisecond, func() { fired <- time.Now() }))

	select {
	case at := <-fired:
		assert.GreaterOrEqual(t, at.Sub(start), 50*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	select {
	case <-fired:
		t.Fatal("timer fired twice")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTimer_ShorterDelayFiresFirst(t *testing.T) {
	timer := NewTimer("order_timer", log.NewNopLogger())
	defer timer.Stop()

	fired := make(chan string, 2)
	require.NoError(t, timer.Timeout(80*time.Millisecond, func() { fired <- "late" }))
	require.NoError(t, timer.Timeout(10*time.Millisecond, func() { fired <- "early" }))

	assert.Equal(t, "early", <-fired)
	assert.Equal(t, "late", <-fired)
}

func TestTimer_Stop(t *testing.T) {
	timer := NewTimer("stop_timer", log.NewNopLogger())

	fired := make(chan struct{}, 1)
	require.NoError(t, timer.Timeout(50*time.Millisecond, func() { fired <- struct{}{} }))
	timer.Stop()

	assert.ErrorIs(t, timer.Timeout(time.Millisecond, func() {}), ErrStopped)
	select {
	case <-fired:
		t.Fatal("callback ran after stop")
	case <-time.After(150 * time.Millisecond):
	}
}
