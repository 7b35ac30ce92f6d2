package heartbeat

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"myregistry/interfaces"
	"myregistry/interfaces/mock"

	"github.com/go-kit/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func newTestHub(t *testing.T, interval, timeout time.Duration) *Hub[testReq, testResp] {
	t.Helper()
	hub, err := NewHubBuilder[testReq, testResp](wrapperspb.UInt32(1)).
		Interval(interval).
		Timeout(timeout).
		Logger(log.NewNopLogger()).
		Build()
	require.NoError(t, err)
	t.Cleanup(hub.Stop)
	return hub
}

func addTarget(t *testing.T, hub *Hub[testReq, testResp], addr string, handler ResponseHandler[testResp]) uuid.UUID {
	t.Helper()
	target, err := NewTargetBuilder[testReq, testResp](addr).Handler(handler).Build()
	require.NoError(t, err)
	id, err := hub.AddTarget(target)
	require.NoError(t, err)
	require.Equal(t, target.ID(), id)
	return id
}

func next(t *testing.T, events <-chan probeResultEvent, within time.Duration) probeResultEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(within):
		t.Fatalf("no probe result within %s", within)
		return probeResultEvent{}
	}
}

func TestHub_ZeroRequest(t *testing.T) {
	_, err := NewHub[testReq, testResp](wrapperspb.UInt32(0), log.NewNopLogger())
	assert.ErrorIs(t, err, ErrZeroPayload)
}

func TestHub_ProbesAtInterval(t *testing.T) {
	const (
		interval = 100 * time.Millisecond
		probes   = 5
	)
	s := echoServer(t, 3)
	hub := newTestHub(t, interval, time.Second)
	handler, events := collect()

	start := time.Now()
	addTarget(t, hub, localAddr(s.Port()), handler)

	var last probeResultEvent
	for i := 0; i < probes; i++ {
		last = next(t, events, interval+epsilon)
		require.NoError(t, last.err)
		assert.Equal(t, uint32(3), last.resp.GetValue())
	}
	elapsed := last.at.Sub(start)
	assert.GreaterOrEqual(t, elapsed, (probes-1)*interval)
	assert.LessOrEqual(t, elapsed, probes*interval+epsilon)
}

func TestHub_TargetIntervalOverridesDefault(t *testing.T) {
	s := echoServer(t, 1)
	hub := newTestHub(t, time.Hour, time.Second)
	handler, events := collect()

	target, err := NewTargetBuilder[testReq, testResp](localAddr(s.Port())).
		Interval(50 * time.Millisecond).
		Request(wrapperspb.UInt32(5)).
		Handler(handler).
		Build()
	require.NoError(t, err)
	_, err = hub.AddTarget(target)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, next(t, events, 50*time.Millisecond+epsilon).err)
	}
}

func TestHub_FailureRemovesTarget(t *testing.T) {
	hub := newTestHub(t, 50*time.Millisecond, time.Second)
	handler, events := collect()

	id := addTarget(t, hub, localAddr(closedPort(t)), handler)

	ev := next(t, events, time.Second)
	assert.ErrorIs(t, ev.err, ErrIO)
	assert.Eventually(t, func() bool { return !hub.Contains(id) }, time.Second, 10*time.Millisecond)
	assert.Zero(t, hub.Len())

	// no retry after a failure
	select {
	case ev := <-events:
		t.Fatalf("unexpected probe result after removal: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestHub_TimeoutProperty(t *testing.T) {
	tests := []struct {
		name    string
		delay   time.Duration
		timeout time.Duration
		wantErr error
	}{
		{"timeout shorter than delay", 300 * time.Millisecond, 100 * time.Millisecond, ErrTimeout},
		{"timeout longer than delay", 100 * time.Millisecond, 500 * time.Millisecond, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := delayServer(t, tt.delay, 2)
			hub := newTestHub(t, time.Hour, tt.timeout)
			handler, events := collect()

			start := time.Now()
			addTarget(t, hub, localAddr(s.Port()), handler)
			ev := next(t, events, tt.timeout+tt.delay+epsilon)
			elapsed := ev.at.Sub(start)

			if tt.wantErr != nil {
				assert.ErrorIs(t, ev.err, tt.wantErr)
				assert.GreaterOrEqual(t, elapsed, tt.timeout)
				assert.Less(t, elapsed, tt.timeout+epsilon)
				return
			}
			require.NoError(t, ev.err)
			assert.Equal(t, uint32(2), ev.resp.GetValue())
			assert.GreaterOrEqual(t, elapsed, tt.delay)
			assert.Less(t, elapsed, tt.delay+epsilon)
		})
	}
}

func TestHub_AddThenRemove(t *testing.T) {
	const interval = 50 * time.Millisecond
	s := echoServer(t, 1)
	hub := newTestHub(t, interval, time.Second)
	handler, events := collect()

	id := addTarget(t, hub, localAddr(s.Port()), handler)
	removed, err := hub.RemoveTarget(id)
	require.NoError(t, err)
	assert.Equal(t, id, removed.ID())
	assert.False(t, hub.Contains(id))

	// the first probe may already be in flight; allow a bounded race window
	deadline := time.After(interval + epsilon)
	for {
		select {
		case <-events:
			t.Fatal("callback fired after removal")
		case <-deadline:
			_, err = hub.RemoveTarget(id)
			assert.ErrorIs(t, err, ErrTargetNotFound)
			return
		}
	}
}

func TestHub_ReAddKeepsSingleProbeChain(t *testing.T) {
	const (
		interval = 200 * time.Millisecond
		window   = 2 * time.Second
	)

	tests := []struct {
		name  string
		reAdd func(t *testing.T, hub *Hub[testReq, testResp], target *Target[testReq, testResp])
	}{
		{
			name: "removed target added back while its wakeup is pending",
			reAdd: func(t *testing.T, hub *Hub[testReq, testResp], target *Target[testReq, testResp]) {
				removed, err := hub.RemoveTarget(target.ID())
				require.NoError(t, err)
				_, err = hub.AddTarget(removed)
				require.NoError(t, err)
			},
		},
		{
			name: "target added twice",
			reAdd: func(t *testing.T, hub *Hub[testReq, testResp], target *Target[testReq, testResp]) {
				_, err := hub.AddTarget(target)
				require.NoError(t, err)
				assert.Equal(t, 1, hub.Len())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var answered atomic.Int32
			s := startServer(t, func(testReq) testResp {
				answered.Add(1)
				return wrapperspb.UInt32(1)
			})
			hub := newTestHub(t, interval, time.Second)

			target, err := NewTargetBuilder[testReq, testResp](localAddr(s.Port())).Build()
			require.NoError(t, err)
			_, err = hub.AddTarget(target)
			require.NoError(t, err)

			time.Sleep(50 * time.Millisecond)
			tt.reAdd(t, hub, target)

			time.Sleep(100 * time.Millisecond)
			before := answered.Load()
			time.Sleep(window)
			got := answered.Load() - before

			// one chain answers about window/interval times, two chains twice as often
			assert.LessOrEqual(t, got, int32(window/interval)+1)
			assert.GreaterOrEqual(t, got, int32(window/interval)/2)
		})
	}
}

func TestHub_HubHandlerAndMetrics(t *testing.T) {
	s := echoServer(t, 1)
	hubHandler, hubEvents := collect()
	targetHandler, targetEvents := collect()
	metrics := &mock.MetricsMock{}

	hub, err := NewHubBuilder[testReq, testResp](wrapperspb.UInt32(1)).
		Interval(time.Hour).
		Handler(hubHandler).
		Metrics(metrics).
		Build()
	require.NoError(t, err)
	defer hub.Stop()

	addTarget(t, hub, localAddr(s.Port()), targetHandler)
	require.NoError(t, next(t, targetEvents, time.Second).err)
	require.NoError(t, next(t, hubEvents, time.Second).err)

	calls := metrics.ObserveProbeCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, interfaces.ProbeOK, calls[0].Outcome)
	assert.NotEmpty(t, metrics.SetTargetsCalls())
	assert.Equal(t, 1, metrics.SetTargetsCalls()[0].N)
}

func TestHub_ManyTargets(t *testing.T) {
	hub := newTestHub(t, 50*time.Millisecond, time.Second)
	handler, events := collect()

	live := echoServer(t, 1)
	for i := 0; i < 5; i++ {
		addTarget(t, hub, localAddr(live.Port()), handler)
	}
	dead := addTarget(t, hub, localAddr(closedPort(t)), handler)

	assert.Eventually(t, func() bool { return !hub.Contains(dead) }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 5, hub.Len())

	ok := 0
	timeout := time.After(time.Second)
	for ok < 15 {
		select {
		case ev := <-events:
			if ev.err == nil {
				ok++
			}
		case <-timeout:
			t.Fatalf("only %d successful probes", ok)
		}
	}
}

func TestHub_TargetsGaugeFollowsConcurrentAdds(t *testing.T) {
	const n = 20
	s := echoServer(t, 1)
	metrics := &mock.MetricsMock{}
	hub, err := NewHubBuilder[testReq, testResp](wrapperspb.UInt32(1)).
		Interval(time.Hour).
		Logger(log.NewNopLogger()).
		Metrics(metrics).
		Build()
	require.NoError(t, err)
	defer hub.Stop()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			target, err := NewTargetBuilder[testReq, testResp](localAddr(s.Port())).Build()
			if assert.NoError(t, err) {
				_, err = hub.AddTarget(target)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	calls := metrics.SetTargetsCalls()
	require.Len(t, calls, n)
	assert.Equal(t, n, calls[n-1].N)
	assert.Equal(t, n, hub.Len())
}

func TestHub_Stop(t *testing.T) {
	s := echoServer(t, 1)
	hub := newTestHub(t, 50*time.Millisecond, time.Second)
	handler, events := collect()
	id := addTarget(t, hub, localAddr(s.Port()), handler)
	next(t, events, time.Second)

	handle := hub.Handle()
	hub.Stop()
	hub.Stop()

	target, err := NewTargetBuilder[testReq, testResp](localAddr(s.Port())).Build()
	require.NoError(t, err)
	_, err = hub.AddTarget(target)
	assert.ErrorIs(t, err, ErrHubStopped)
	_, err = handle.AddTarget(target)
	assert.ErrorIs(t, err, ErrHubStopped)
	_, err = handle.RemoveTarget(id)
	assert.ErrorIs(t, err, ErrHubStopped)
	assert.Zero(t, hub.Len())

	// drain what was delivered before stop, then expect silence
	time.Sleep(20 * time.Millisecond)
	for len(events) > 0 {
		<-events
	}
	select {
	case <-events:
		t.Fatal("callback after stop")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestHandle_ConcurrentAddRemove(t *testing.T) {
	s := echoServer(t, 1)
	hub := newTestHub(t, 20*time.Millisecond, time.Second)
	handle := hub.Handle()

	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 25; i++ {
				target, err := NewTargetBuilder[testReq, testResp](localAddr(s.Port())).Build()
				if !assert.NoError(t, err) {
					return
				}
				id, err := handle.AddTarget(target)
				if !assert.NoError(t, err) {
					return
				}
				if i%2 == 0 {
					_, err = handle.RemoveTarget(id)
					assert.NoError(t, err)
				}
			}
		}()
	}
	for g := 0; g < 4; g++ {
		<-done
	}
	assert.Equal(t, 4*12, hub.Len())
}
