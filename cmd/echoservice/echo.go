package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"myregistry/domain"
	"myregistry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// echoExecutor serves a TCP echo on the port the registry allocates.
type echoExecutor struct {
	id     domain.ServiceID
	meta   string
	logger log.Logger

	mu    sync.Mutex
	lis   net.Listener
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

var _ interfaces.Executor = (*echoExecutor)(nil)

func newEchoExecutor(id domain.ServiceID, meta string, logger log.Logger) *echoExecutor {
	return &echoExecutor{
		id:     id,
		meta:   meta,
		logger: log.With(logger, "component", "echo"),
		conns:  make(map[net.Conn]struct{}),
	}
}

func (e *echoExecutor) ServiceID() domain.ServiceID { return e.id }

func (e *echoExecutor) Meta() string { return e.meta }

// Run binds the port; false when it is taken.
func (e *echoExecutor) Run(port uint16) bool {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		level.Debug(e.logger).Log("msg", "port unavailable", "port", port, "err", err)
		return false
	}

	e.mu.Lock()
	e.lis = lis
	e.mu.Unlock()

	e.wg.Add(1)
	go e.accept(lis)
	level.Info(e.logger).Log("msg", "echo listening", "addr", lis.Addr())
	return true
}

func (e *echoExecutor) Stop() {
	e.mu.Lock()
	if e.lis != nil {
		_ = e.lis.Close()
		e.lis = nil
	}
	for conn := range e.conns {
		_ = conn.Close()
	}
	e.mu.Unlock()
	e.wg.Wait()
}

func (e *echoExecutor) accept(lis net.Listener) {
	defer e.wg.Done()
	for {
		conn, err := lis.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				level.Error(e.logger).Log("msg", "accept failed", "err", err)
			}
			return
		}

		e.mu.Lock()
		if e.lis != lis {
			e.mu.Unlock()
			_ = conn.Close()
			continue
		}
		e.conns[conn] = struct{}{}
		e.mu.Unlock()

		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			_, _ = io.Copy(conn, conn)
			_ = conn.Close()
			e.mu.Lock()
			delete(e.conns, conn)
			e.mu.Unlock()
		}()
	}
}
