package testutil

import (
	"context"
	"net/http"
	"sync"
)

// StubHTTPServer satisfies the server package's httpServer interface.
// ListenAndServe returns ListenErr immediately; use http.ErrServerClosed to
// mimic a clean close.
type StubHTTPServer struct {
	AddrVal     string
	HandlerVal  http.Handler
	ListenErr   error
	ShutdownErr error

	mu            sync.Mutex
	listenCalls   int
	shutdownCalls int
}

func (s *StubHTTPServer) ListenAndServe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listenCalls++
	return s.ListenErr
}

func (s *StubHTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdownCalls++
	return s.ShutdownErr
}

func (s *StubHTTPServer) Addr() string {
	if s.AddrVal == "" {
		return ":0"
	}
	return s.AddrVal
}

func (s *StubHTTPServer) Handler() http.Handler {
	if s.HandlerVal == nil {
		return http.NewServeMux()
	}
	return s.HandlerVal
}

// ListenCalls reports how many times ListenAndServe ran.
func (s *StubHTTPServer) ListenCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenCalls
}

// ShutdownCalls reports how many times Shutdown ran.
func (s *StubHTTPServer) ShutdownCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdownCalls
}

// BlockingHTTPServer simulates a shutdown that waits on Unblock or the context deadline.
type BlockingHTTPServer struct {
	StubHTTPServer
	Unblock chan struct{}
}

func (b *BlockingHTTPServer) Shutdown(ctx context.Context) error {
	_ = b.StubHTTPServer.Shutdown(ctx)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.Unblock:
		return nil
	}
}
