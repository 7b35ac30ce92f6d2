package heartbeat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
)

// ResponseHandler receives the outcome of every probe of a target. err is nil on success,
// wraps ErrIO or equals ErrTimeout on failure; resp is only meaningful when err is nil.
// Handlers run on the hub loop goroutine, must not block and must not call Hub.Stop.
type ResponseHandler[Resp proto.Message] interface {
	HandleResponse(id uuid.UUID, resp Resp, err error)
}

// ResponseHandlerFunc adapts a function to ResponseHandler.
type ResponseHandlerFunc[Resp proto.Message] func(id uuid.UUID, resp Resp, err error)

func (f ResponseHandlerFunc[Resp]) HandleResponse(id uuid.UUID, resp Resp, err error) {
	f(id, resp, err)
}

// Target is one heartbeat destination. Zero interval, zero timeout and nil payload fall back
// to the defaults of the hub the target is added to.
type Target[Req, Resp proto.Message] struct {
	id       uuid.UUID
	addr     string
	interval time.Duration
	timeout  time.Duration
	payload  []byte
	handler  ResponseHandler[Resp]
}

// NewTarget builds a target with every field set.
func NewTarget[Req, Resp proto.Message](
	addr string,
	interval, timeout time.Duration,
	request Req,
	handler ResponseHandler[Resp],
) (*Target[Req, Resp], error) {
	return NewTargetBuilder[Req, Resp](addr).
		Interval(interval).
		Timeout(timeout).
		Request(request).
		Handler(handler).
		Build()
}

func (t *Target[Req, Resp]) ID() uuid.UUID { return t.id }

func (t *Target[Req, Resp]) Addr() string { return t.addr }

// Interval is the target's own probe interval; zero when it uses the hub default.
func (t *Target[Req, Resp]) Interval() time.Duration { return t.interval }

// Timeout is the target's own probe timeout; zero when it uses the hub default.
func (t *Target[Req, Resp]) Timeout() time.Duration { return t.timeout }

// Payload is the target's own serialized request; nil when it uses the hub default.
func (t *Target[Req, Resp]) Payload() []byte { return t.payload }

func (t *Target[Req, Resp]) String() string {
	return fmt.Sprintf("Target[id=%s, addr=%s]", t.id, t.addr)
}

// TargetBuilder collects the optional fields of a Target.
type TargetBuilder[Req, Resp proto.Message] struct {
	addr       string
	interval   time.Duration
	timeout    time.Duration
	request    Req
	hasRequest bool
	handler    ResponseHandler[Resp]
}

func NewTargetBuilder[Req, Resp proto.Message](addr string) *TargetBuilder[Req, Resp] {
	return &TargetBuilder[Req, Resp]{addr: addr}
}

func (b *TargetBuilder[Req, Resp]) Interval(d time.Duration) *TargetBuilder[Req, Resp] {
	b.interval = d
	return b
}

func (b *TargetBuilder[Req, Resp]) Timeout(d time.Duration) *TargetBuilder[Req, Resp] {
	b.timeout = d
	return b
}

func (b *TargetBuilder[Req, Resp]) Request(req Req) *TargetBuilder[Req, Resp] {
	b.request = req
	b.hasRequest = true
	return b
}

func (b *TargetBuilder[Req, Resp]) Handler(h ResponseHandler[Resp]) *TargetBuilder[Req, Resp] {
	b.handler = h
	return b
}

// Build serializes the request, if one was set, and assigns a fresh random id.
// Returns ErrSerializeFailed when encoding fails and ErrZeroPayload when it yields no bytes.
func (b *TargetBuilder[Req, Resp]) Build() (*Target[Req, Resp], error) {
	t := &Target[Req, Resp]{
		id:       uuid.New(),
		addr:     b.addr,
		interval: b.interval,
		timeout:  b.timeout,
		handler:  b.handler,
	}
	if b.hasRequest {
		payload, err := encodeRequest(b.request)
		if err != nil {
			return nil, err
		}
		t.payload = payload
	}
	return t, nil
}

func encodeRequest[Req proto.Message](req Req) ([]byte, error) {
	payload, err := proto.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializeFailed, err)
	}
	if len(payload) == 0 {
		return nil, ErrZeroPayload
	}
	return payload, nil
}

// newMessage allocates an empty message of the concrete type behind M.
func newMessage[M proto.Message]() M {
	var zero M
	return zero.ProtoReflect().Type().New().Interface().(M)
}
