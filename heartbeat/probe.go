package heartbeat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

var errClosedByPeer = errors.New("connection closed by peer")

type probeResult struct {
	payload []byte
	err     error
}

// Probe opens a connection to addr, writes payload as one frame and reads one reply frame.
// The round trip races a timer of timeout: the first to finish decides the outcome and the
// loser is abandoned. Returns ErrTimeout when the timer wins, an error wrapping ErrIO when the
// round trip fails, and the raw reply otherwise.
func Probe(ctx context.Context, addr string, payload []byte, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	result := make(chan probeResult, 1)
	go func() {
		reply, err := roundTrip(ctx, addr, payload)
		result <- probeResult{payload: reply, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil, ErrTimeout
	case r := <-result:
		if r.err != nil {
			if ctx.Err() != nil {
				return nil, wrapIO(ctx.Err())
			}
			return nil, wrapIO(r.err)
		}
		return r.payload, nil
	case <-ctx.Done():
		return nil, wrapIO(ctx.Err())
	}
}

func wrapIO(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}

func roundTrip(ctx context.Context, addr string, payload []byte) ([]byte, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := WriteFrame(conn, payload); err != nil {
		return nil, err
	}
	reply, err := ReadFrame(conn)
	if errors.Is(err, io.EOF) {
		return nil, errClosedByPeer
	}
	return reply, err
}
