package heartbeat

import (
	"encoding/binary"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func dial(t *testing.T, s *Server[testReq, testResp]) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", localAddr(s.Port()), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetDeadline(time.Now().Add(2*time.Second)))
	return conn
}

func TestServer_EchoRoundTrip(t *testing.T) {
	s := echoServer(t, 42)
	conn := dial(t, s)

	want, err := proto.Marshal(wrapperspb.UInt32(42))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		req, err := proto.Marshal(wrapperspb.UInt32(uint32(i + 1)))
		require.NoError(t, err)
		require.NoError(t, WriteFrame(conn, req))

		got, err := ReadFrame(conn)
		require.NoError(t, err)
		assert.Equal(t, want, got, "frame %d", i)
	}
}

func TestServer_HandlerSeesRequest(t *testing.T) {
	received := make(chan uint32, 1)
	s := startServer(t, func(req testReq) testResp {
		received <- req.GetValue()
		return wrapperspb.UInt32(req.GetValue() * 2)
	})

	reply, err := Probe(t.Context(), localAddr(s.Port()), mustMarshal(t, wrapperspb.UInt32(21)), time.Second)
	require.NoError(t, err)

	var resp wrapperspb.UInt32Value
	require.NoError(t, proto.Unmarshal(reply, &resp))
	assert.Equal(t, uint32(21), <-received)
	assert.Equal(t, uint32(42), resp.GetValue())
}

func TestServer_MalformedFrameClosesConnection(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
	}{
		{"oversized length", func() []byte {
			b := make([]byte, 4)
			binary.BigEndian.PutUint32(b, MaxFrameSize+1)
			return b
		}()},
		{"undecodable payload", []byte{0, 0, 0, 3, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := echoServer(t, 1)
			conn := dial(t, s)

			_, err := conn.Write(tt.frame)
			require.NoError(t, err)

			buf := make([]byte, 1)
			_, err = conn.Read(buf)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestServer_StartTwice(t *testing.T) {
	s := echoServer(t, 1)
	assert.ErrorIs(t, s.Start(0), ErrAlreadyStarted)
}

func TestServer_BindFailure(t *testing.T) {
	occupied, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer occupied.Close()

	s := NewServer[testReq, testResp]("busy", HandlerFunc[testReq, testResp](func(testReq) testResp {
		return wrapperspb.UInt32(1)
	}), log.NewNopLogger())
	err = s.Start(uint16(occupied.Addr().(*net.TCPAddr).Port))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyStarted)
	assert.Nil(t, s.Addr())

	// a failed bind leaves the server startable
	require.NoError(t, s.Start(0))
	s.Stop()
}

func TestServer_StopClosesConnections(t *testing.T) {
	s := echoServer(t, 1)
	conn := dial(t, s)

	s.Stop()
	assert.Nil(t, s.Addr())
	assert.Zero(t, s.Port())

	buf := make([]byte, 1)
	_, err := conn.Read(buf)
	assert.Error(t, err)

	// restart on a new port
	require.NoError(t, s.Start(0))
	assert.NotZero(t, s.Port())
}

func TestServer_StopDuringStart(t *testing.T) {
	s := NewServer[testReq, testResp]("racy", HandlerFunc[testReq, testResp](func(testReq) testResp {
		return wrapperspb.UInt32(1)
	}), log.NewNopLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = s.Start(0)
			}()
			go func() {
				defer wg.Done()
				s.Stop()
			}()
			wg.Wait()
		}
		s.Stop()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Start and Stop did not return")
	}
	assert.Nil(t, s.Addr())
	require.NoError(t, s.Start(0))
	s.Stop()
}

func TestNewServer_Panics(t *testing.T) {
	h := HandlerFunc[testReq, testResp](func(testReq) testResp { return nil })
	assert.Panics(t, func() { NewServer[testReq, testResp]("", h, log.NewNopLogger()) })
	assert.Panics(t, func() { NewServer[testReq, testResp]("s", nil, log.NewNopLogger()) })
	assert.Panics(t, func() { NewServer[testReq, testResp]("s", h, nil) })
}

func mustMarshal(t *testing.T, m proto.Message) []byte {
	t.Helper()
	b, err := proto.Marshal(m)
	require.NoError(t, err)
	return b
}
