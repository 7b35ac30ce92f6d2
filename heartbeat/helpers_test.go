package heartbeat

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type (
	testReq  = *wrapperspb.UInt32Value
	testResp = *wrapperspb.UInt32Value
)

// startServer runs a heartbeat server on a free port answering with handler.
func startServer(t *testing.T, handler func(testReq) testResp) *Server[testReq, testResp] {
	t.Helper()
	s := NewServer[testReq, testResp]("test_server", HandlerFunc[testReq, testResp](handler), log.NewNopLogger())
	require.NoError(t, s.Start(0))
	t.Cleanup(s.Stop)
	return s
}

// echoServer answers every request with a response carrying value.
func echoServer(t *testing.T, value uint32) *Server[testReq, testResp] {
	return startServer(t, func(testReq) testResp { return wrapperspb.UInt32(value) })
}

// delayServer answers after delay.
func delayServer(t *testing.T, delay time.Duration, value uint32) *Server[testReq, testResp] {
	return startServer(t, func(testReq) testResp {
		time.Sleep(delay)
		return wrapperspb.UInt32(value)
	})
}

func localAddr(port uint16) string {
	return fmt.Sprintf("127.0.0.1:%d", port)
}

// closedPort returns a local port nothing listens on.
func closedPort(t *testing.T) uint16 {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := uint16(lis.Addr().(*net.TCPAddr).Port)
	require.NoError(t, lis.Close())
	return port
}

type probeResultEvent struct {
	resp testResp
	err  error
	at   time.Time
}

// collect returns a handler pushing every probe result to the returned channel.
func collect() (ResponseHandlerFunc[testResp], chan probeResultEvent) {
	events := make(chan probeResultEvent, 100)
	return func(_ uuid.UUID, resp testResp, err error) {
		events <- probeResultEvent{resp: resp, err: err, at: time.Now()}
	}, events
}
