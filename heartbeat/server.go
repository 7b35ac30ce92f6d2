package heartbeat

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"myregistry/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/protobuf/proto"
)

// Handler answers one heartbeat request. It runs on the goroutine of the connection the request
// arrived on, so it may be called concurrently.
type Handler[Req, Resp proto.Message] interface {
	Handle(req Req) Resp
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[Req, Resp proto.Message] func(req Req) Resp

func (f HandlerFunc[Req, Resp]) Handle(req Req) Resp { return f(req) }

// Server accepts heartbeat connections and answers every request frame with one response frame.
// A connection stays open until the peer closes it, sends a frame that cannot be decoded, or the
// server stops.
type Server[Req, Resp proto.Message] struct {
	name    string
	handler Handler[Req, Resp]
	logger  log.Logger

	// lifecycle serializes Start and Stop, so Stop never runs between Start and the bind.
	lifecycle sync.Mutex

	mu       sync.Mutex
	started  bool
	listener net.Listener
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
}

// NewServer creates a stopped server. Panics on empty name, nil handler or nil logger.
func NewServer[Req, Resp proto.Message](name string, handler Handler[Req, Resp], logger log.Logger) *Server[Req, Resp] {
	name = helpers.StrPanic(name, "heartbeat.server.go: name is required")
	return &Server[Req, Resp]{
		name:    name,
		handler: helpers.NilPanic(handler, "heartbeat.server.go: handler is required"),
		logger:  log.With(helpers.NilPanic(logger, "heartbeat.server.go: logger is required"), "component", "heartbeat_server", "server", name),
		conns:   make(map[net.Conn]struct{}),
	}
}

// Start binds port on all interfaces from the accept goroutine and returns once the bind is known
// to have succeeded or failed. Port 0 picks a free port, see Addr.
//
// Returns: nil when listening; the bind error otherwise (the server may then be started again);
// ErrAlreadyStarted when the server is running.
func (s *Server[Req, Resp]) Start(port uint16) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	bound := make(chan error, 1)
	s.wg.Add(1)
	go s.serve(port, bound)

	if err := <-bound; err != nil {
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return err
	}
	return nil
}

// Addr returns the bound address, or nil when the server is not listening.
func (s *Server[Req, Resp]) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the bound port, or 0 when the server is not listening.
func (s *Server[Req, Resp]) Port() uint16 {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return uint16(addr.Port)
	}
	return 0
}

// Stop closes the listener and every open connection and waits for their goroutines.
// A stopped server can be started again. No-op on a server that is not running.
func (s *Server[Req, Resp]) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	lis := s.listener
	s.listener = nil
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if lis != nil {
		_ = lis.Close()
	}
	s.wg.Wait()

	s.mu.Lock()
	if s.started && lis != nil {
		level.Info(s.logger).Log("msg", "heartbeat server stopped")
	}
	s.started = false
	s.mu.Unlock()
}

func (s *Server[Req, Resp]) serve(port uint16, bound chan<- error) {
	defer s.wg.Done()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		level.Warn(s.logger).Log("msg", "create listener failed", "port", port, "err", err)
		bound <- err
		return
	}
	s.mu.Lock()
	s.listener = lis
	s.mu.Unlock()
	bound <- nil

	level.Info(s.logger).Log("msg", "heartbeat server listening", "addr", lis.Addr())
	for {
		conn, err := lis.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				level.Error(s.logger).Log("msg", "accept failed, heartbeat server exits", "err", err)
			}
			return
		}
		if !s.track(conn) {
			_ = conn.Close()
			return
		}
		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

// track registers conn unless the server is stopping.
func (s *Server[Req, Resp]) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server[Req, Resp]) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

func (s *Server[Req, Resp]) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)

	remote := conn.RemoteAddr().String()
	for {
		frame, err := ReadFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				level.Warn(s.logger).Log("msg", "read frame failed, closing connection", "remote", remote, "err", err)
			}
			return
		}

		req := newMessage[Req]()
		if err := proto.Unmarshal(frame, req); err != nil {
			level.Warn(s.logger).Log("msg", "decode request failed, closing connection", "remote", remote, "err", err)
			return
		}

		reply, err := proto.Marshal(s.handler.Handle(req))
		if err != nil {
			level.Warn(s.logger).Log("msg", "encode response failed, closing connection", "remote", remote, "err", err)
			return
		}
		if err := WriteFrame(conn, reply); err != nil {
			level.Warn(s.logger).Log("msg", "send failed", "remote", remote, "err", err)
			return
		}
		level.Debug(s.logger).Log("msg", "heartbeat answered", "remote", remote)
	}
}
