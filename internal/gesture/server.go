package gesture

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/litescript/ls-orrery/internal/logging"
)

// Server defaults.
const (
	DefaultAddr       = "127.0.0.1:8765"
	DefaultPath       = "/landmarks"
	defaultReadLimit  = 64 << 10
	defaultPongWait   = 30 * time.Second
	shutdownTimeout   = 2 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// Server accepts WebSocket connections from a tracker and forwards every
// decoded result to a Handler.
type Server struct {
	Addr string
	Path string

	upgrader websocket.Upgrader
	logger   *logging.Logger

	received atomic.Int64
	dropped  atomic.Int64
}

// NewServer creates a server for addr and path. Empty values use the defaults.
func NewServer(addr, path string, logger *logging.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		Addr: addr,
		Path: path,
		upgrader: websocket.Upgrader{
			// The tracker page is served from wherever the user opened it.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Received returns the number of results delivered to the handler.
func (s *Server) Received() int64 { return s.received.Load() }

// Dropped returns the number of payloads that failed to decode.
func (s *Server) Dropped() int64 { return s.dropped.Load() }

// Handler returns the HTTP handler that upgrades and reads tracker
// connections.
func (s *Server) Handler(h Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.Path, func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn("websocket upgrade from %s: %v", r.RemoteAddr, err)
			return
		}
		s.serveConn(r.Context(), conn, h)
	})
	return mux
}

func (s *Server) serveConn(ctx context.Context, conn *websocket.Conn, h Handler) {
	defer conn.Close()
	s.logger.Info("tracker connected from %s", conn.RemoteAddr())

	// Hijacked connections outlive http.Server.Shutdown, so unblock the
	// read when ctx ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	conn.SetReadLimit(defaultReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(defaultPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(defaultPongWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("tracker closed on shutdown")
				return
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("tracker read: %v", err)
			} else {
				s.logger.Info("tracker disconnected")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(defaultPongWait))

		res, err := Decode(data)
		if err != nil {
			s.dropped.Add(1)
			s.logger.Debug("drop payload: %v", err)
			continue
		}
		s.received.Add(1)
		h(res)
	}
}

// Run listens on Addr and serves until ctx is cancelled. A listen failure is
// returned immediately; a clean shutdown returns nil.
func (s *Server) Run(ctx context.Context, h Handler) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("gesture server listen %s: %w", s.Addr, err)
	}
	return s.Serve(ctx, ln, h)
}

// Serve serves on an existing listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener, h Handler) error {
	srv := &http.Server{
		Handler:           s.Handler(h),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gesture server listening on ws://%s%s", ln.Addr(), s.Path)
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("gesture server: %w", err)
	}
}
