package netrpc

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/rpc"
	"time"
)

// Server serves a single registered receiver over HTTP CONNECT. Each Server
// owns its own rpc.Server, so several can live in one process.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	errCh      chan error
}

// Serve registers rcvr under name and starts serving on l in the background.
func Serve(l net.Listener, name string, rcvr interface{}) (*Server, error) {
	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName(name, rcvr); err != nil {
		return nil, err
	}

	s := &Server{
		httpServer: &http.Server{
			Handler:           rpcServer,
			ReadHeaderTimeout: 10 * time.Second,
		},
		listener: l,
		errCh:    make(chan error, 1),
	}

	go func() {
		err := s.httpServer.Serve(l)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.errCh <- err
	}()

	return s, nil
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Err delivers the terminal error of the serve loop, nil on a clean close.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// Close stops accepting new connections. Calls already hijacked by net/rpc
// run to completion; Call dials per request so nothing new reaches a closed
// server.
func (s *Server) Close() error {
	if s == nil || s.httpServer == nil {
		return ErrServerNotStarted
	}

	return s.httpServer.Close()
}

// Shutdown stops accepting new connections and waits for idle ones until ctx
// expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return ErrServerNotStarted
	}

	return s.httpServer.Shutdown(ctx)
}
