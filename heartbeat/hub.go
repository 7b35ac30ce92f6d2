// Package heartbeat probes remote endpoints with length-prefixed protobuf frames and answers such probes.
//
// A Hub keeps a set of Targets and drives, for each of them, a probe → result → wait interval → probe
// cycle on a private loop goroutine. The first failed probe removes the target. A Server answers
// probes with a user handler.
package heartbeat

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/metrics"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
)

type hubEntry[Req, Resp proto.Message] struct {
	target *Target[Req, Resp]
	gen    uint64
}

const (
	DefaultInterval = time.Second
	DefaultTimeout  = 500 * time.Millisecond

	mailboxSize = 256
)

type probeTask struct {
	id      uuid.UUID
	gen     uint64
	addr    string
	timeout time.Duration
	payload []byte
}

type hubMessage interface{ hubMessage() }

type heartbeatRequest struct{ task probeTask }

type heartbeatResponse struct {
	id      uuid.UUID
	gen     uint64
	payload []byte
	err     error
	latency time.Duration
}

type wakeupTarget struct {
	id  uuid.UUID
	gen uint64
}

type stopHub struct{}

func (heartbeatRequest) hubMessage()  {}
func (heartbeatResponse) hubMessage() {}
func (wakeupTarget) hubMessage()      {}
func (stopHub) hubMessage()           {}

// Hub owns the live targets and the goroutines probing them: a loop goroutine consuming the
// mailbox, a Worker running probes and a Timer arming the next probe of each target.
//
// The target map is shared with callers of AddTarget/RemoveTarget and guarded by mu, which is
// never held across a handler call or a mailbox send. Every AddTarget stamps the target with a new
// generation that travels with its probes and wakeups. A result or a wakeup whose id is no longer
// in the map, or whose generation is not the current one, is dropped: a removed target gets no
// callback, and a target added again runs a single probe chain.
type Hub[Req, Resp proto.Message] struct {
	interval time.Duration
	timeout  time.Duration
	payload  []byte
	handler  ResponseHandler[Resp]
	logger   log.Logger
	metrics  interfaces.Metrics

	mu      sync.Mutex
	targets map[uuid.UUID]hubEntry[Req, Resp]
	gen     uint64

	worker   *Worker[probeTask]
	timer    *Timer
	mailbox  chan hubMessage
	stopped  atomic.Bool
	closing  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewHub builds a hub probing with request, DefaultInterval and DefaultTimeout unless targets override them.
// Returns ErrZeroPayload or ErrSerializeFailed when request cannot serve as a probe payload.
func NewHub[Req, Resp proto.Message](request Req, logger log.Logger) (*Hub[Req, Resp], error) {
	return NewHubBuilder[Req, Resp](request).Logger(logger).Build()
}

// AddTarget hands t over to the hub and schedules its first probe immediately.
//
// Parameter t — a built target, possibly one returned by RemoveTarget. Adding an id the hub already
// holds replaces it: the probe chain of the previous add stops.
//
// Returns: (t.ID(), nil) on success; (uuid.Nil, ErrHubStopped) once Stop has begun.
//
// Called from registry.Registry when a service is admitted, and from tests.
func (h *Hub[Req, Resp]) AddTarget(t *Target[Req, Resp]) (uuid.UUID, error) {
	if h.stopped.Load() {
		return uuid.Nil, ErrHubStopped
	}
	t = helpers.NilPanic(t, "heartbeat.hub.go: target is required")

	h.mu.Lock()
	h.gen++
	gen := h.gen
	h.targets[t.id] = hubEntry[Req, Resp]{target: t, gen: gen}
	h.metrics.SetTargets(len(h.targets))
	h.mu.Unlock()

	if err := h.send(heartbeatRequest{task: h.task(t, gen)}); err != nil {
		h.mu.Lock()
		if e, ok := h.targets[t.id]; ok && e.gen == gen {
			delete(h.targets, t.id)
			h.metrics.SetTargets(len(h.targets))
		}
		h.mu.Unlock()
		return uuid.Nil, err
	}

	level.Debug(h.logger).Log("msg", "target added", "target_id", t.id, "addr", t.addr)
	return t.id, nil
}

// RemoveTarget takes the target with id out of the hub and returns it. A probe already in flight
// completes on the network but its result is discarded.
//
// Returns: (target, nil) on success; (nil, ErrTargetNotFound) for an unknown id; (nil, ErrHubStopped) once Stop has begun.
func (h *Hub[Req, Resp]) RemoveTarget(id uuid.UUID) (*Target[Req, Resp], error) {
	if h.stopped.Load() {
		return nil, ErrHubStopped
	}

	h.mu.Lock()
	e, ok := h.targets[id]
	if ok {
		delete(h.targets, id)
		h.metrics.SetTargets(len(h.targets))
	}
	h.mu.Unlock()

	if !ok {
		return nil, ErrTargetNotFound
	}
	level.Debug(h.logger).Log("msg", "target removed", "target_id", id, "addr", e.target.addr)
	return e.target, nil
}

// Contains reports whether the target with id is still held by the hub.
func (h *Hub[Req, Resp]) Contains(id uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.targets[id]
	return ok
}

// Len returns the number of targets held by the hub.
func (h *Hub[Req, Resp]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.targets)
}

// Handle returns a view of the hub that can add and remove targets but not stop it.
func (h *Hub[Req, Resp]) Handle() *Handle[Req, Resp] {
	return &Handle[Req, Resp]{hub: h}
}

// Stop shuts the hub down in order: the worker (no new probes and no new results), the timer
// (no new wakeups), then the hub itself so that AddTarget/RemoveTarget fail with ErrHubStopped,
// and finally the loop goroutine. Targets still held are discarded. Safe to call more than once,
// but not from a ResponseHandler: Stop waits for the loop the handler runs on.
func (h *Hub[Req, Resp]) Stop() {
	h.stopOnce.Do(func() {
		h.worker.Stop()
		h.timer.Stop()
		h.stopped.Store(true)
		h.mailbox <- stopHub{}
		<-h.done
		close(h.closing)

		h.mu.Lock()
		clear(h.targets)
		h.metrics.SetTargets(0)
		h.mu.Unlock()
		level.Info(h.logger).Log("msg", "hub stopped")
	})
}

func (h *Hub[Req, Resp]) send(msg hubMessage) error {
	select {
	case h.mailbox <- msg:
		return nil
	case <-h.closing:
		return ErrHubStopped
	}
}

func (h *Hub[Req, Resp]) loop() {
	defer close(h.done)
	for msg := range h.mailbox {
		switch m := msg.(type) {
		case heartbeatRequest:
			h.schedule(m.task)
		case heartbeatResponse:
			h.handleResponse(m)
		case wakeupTarget:
			h.handleWakeup(m)
		case stopHub:
			return
		}
	}
}

func (h *Hub[Req, Resp]) schedule(task probeTask) {
	if err := h.worker.Schedule(task); err != nil {
		level.Error(h.logger).Log("msg", "scheduler stopped, probe dropped", "target_id", task.id, "err", err)
	}
}

// handleResponse runs on the loop goroutine. A failed probe removes the target for good;
// a successful one arms the timer for the next probe.
func (h *Hub[Req, Resp]) handleResponse(m heartbeatResponse) {
	resp, err := newMessage[Resp](), m.err
	if err == nil {
		if uerr := proto.Unmarshal(m.payload, resp); uerr != nil {
			err = wrapIO(uerr)
		}
	}

	h.mu.Lock()
	e, ok := h.targets[m.id]
	ok = ok && e.gen == m.gen
	if ok && err != nil {
		delete(h.targets, m.id)
		h.metrics.SetTargets(len(h.targets))
	}
	h.mu.Unlock()

	if !ok {
		level.Debug(h.logger).Log("msg", "stale result dropped", "target_id", m.id)
		return
	}
	t := e.target

	h.metrics.ObserveProbe(probeOutcome(err), m.latency)
	if t.handler != nil {
		t.handler.HandleResponse(m.id, resp, err)
	}
	if h.handler != nil {
		h.handler.HandleResponse(m.id, resp, err)
	}

	if err != nil {
		level.Warn(h.logger).Log("msg", "heartbeat failed, target removed", "target_id", m.id, "addr", t.addr, "err", err)
		return
	}

	wakeup := wakeupTarget{id: m.id, gen: m.gen}
	if terr := h.timer.Timeout(h.effectiveInterval(t), func() { _ = h.send(wakeup) }); terr != nil {
		level.Error(h.logger).Log("msg", "timer stopped, target will not be probed again", "target_id", m.id, "err", terr)
	}
}

// runProbe starts one probe on its own goroutine and posts the result back to the hub mailbox
// through the worker loop.
func (h *Hub[Req, Resp]) runProbe(ctx context.Context, task probeTask, post func(func())) {
	go func() {
		start := time.Now()
		reply, err := Probe(ctx, task.addr, task.payload, task.timeout)
		m := heartbeatResponse{id: task.id, gen: task.gen, payload: reply, err: err, latency: time.Since(start)}
		post(func() { _ = h.send(m) })
	}()
}

func (h *Hub[Req, Resp]) handleWakeup(m wakeupTarget) {
	h.mu.Lock()
	e, ok := h.targets[m.id]
	h.mu.Unlock()
	if !ok || e.gen != m.gen {
		return
	}
	h.schedule(h.task(e.target, e.gen))
}

// task resolves the effective probe parameters of t against the hub defaults.
func (h *Hub[Req, Resp]) task(t *Target[Req, Resp], gen uint64) probeTask {
	payload := t.payload
	if payload == nil {
		payload = h.payload
	}
	return probeTask{
		id:      t.id,
		gen:     gen,
		addr:    t.addr,
		timeout: orDefault(t.timeout, h.timeout),
		payload: payload,
	}
}

func (h *Hub[Req, Resp]) effectiveInterval(t *Target[Req, Resp]) time.Duration {
	return orDefault(t.interval, h.interval)
}

func orDefault(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func probeOutcome(err error) string {
	switch {
	case err == nil:
		return interfaces.ProbeOK
	case errors.Is(err, ErrTimeout):
		return interfaces.ProbeTimeout
	default:
		return interfaces.ProbeError
	}
}

// Handle adds and removes targets of a Hub it does not own.
type Handle[Req, Resp proto.Message] struct {
	hub *Hub[Req, Resp]
}

func (h *Handle[Req, Resp]) AddTarget(t *Target[Req, Resp]) (uuid.UUID, error) {
	return h.hub.AddTarget(t)
}

func (h *Handle[Req, Resp]) RemoveTarget(id uuid.UUID) (*Target[Req, Resp], error) {
	return h.hub.RemoveTarget(id)
}

// HubBuilder collects hub-wide defaults.
type HubBuilder[Req, Resp proto.Message] struct {
	request  Req
	interval time.Duration
	timeout  time.Duration
	handler  ResponseHandler[Resp]
	logger   log.Logger
	metrics  interfaces.Metrics
}

// NewHubBuilder starts a hub description whose default probe payload is request.
func NewHubBuilder[Req, Resp proto.Message](request Req) *HubBuilder[Req, Resp] {
	return &HubBuilder[Req, Resp]{
		request:  request,
		interval: DefaultInterval,
		timeout:  DefaultTimeout,
		logger:   log.NewNopLogger(),
		metrics:  metrics.NewNop(),
	}
}

func (b *HubBuilder[Req, Resp]) Interval(d time.Duration) *HubBuilder[Req, Resp] {
	b.interval = d
	return b
}

func (b *HubBuilder[Req, Resp]) Timeout(d time.Duration) *HubBuilder[Req, Resp] {
	b.timeout = d
	return b
}

// Handler sets a handler called for every probe of every target, after the target's own handler.
func (b *HubBuilder[Req, Resp]) Handler(h ResponseHandler[Resp]) *HubBuilder[Req, Resp] {
	b.handler = h
	return b
}

func (b *HubBuilder[Req, Resp]) Logger(logger log.Logger) *HubBuilder[Req, Resp] {
	b.logger = helpers.NilPanic(logger, "heartbeat.hub.go: logger is required")
	return b
}

func (b *HubBuilder[Req, Resp]) Metrics(m interfaces.Metrics) *HubBuilder[Req, Resp] {
	b.metrics = helpers.NilPanic(m, "heartbeat.hub.go: metrics is required")
	return b
}

// Build validates the default request and starts the hub goroutines.
// Returns ErrZeroPayload or ErrSerializeFailed when the request cannot serve as a probe payload.
func (b *HubBuilder[Req, Resp]) Build() (*Hub[Req, Resp], error) {
	payload, err := encodeRequest(b.request)
	if err != nil {
		return nil, err
	}

	h := &Hub[Req, Resp]{
		interval: orDefault(b.interval, DefaultInterval),
		timeout:  orDefault(b.timeout, DefaultTimeout),
		payload:  payload,
		handler:  b.handler,
		logger:   log.With(b.logger, "component", "heartbeat_hub"),
		metrics:  b.metrics,
		targets:  make(map[uuid.UUID]hubEntry[Req, Resp]),
		mailbox:  make(chan hubMessage, mailboxSize),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	h.worker = NewWorker("heartbeat_hub_worker", RunnerFunc[probeTask](h.runProbe), b.logger)
	h.timer = NewTimer("heartbeat_hub_timer", b.logger)
	go h.loop()
	return h, nil
}
