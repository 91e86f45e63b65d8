package fileserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type State int32

const (
	StateStopped State = iota
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

var ErrAlreadyStarted = errors.New("file server already started")

// Server serves the files of one directory for the duration of a game session.
type Server struct {
	m             sync.Mutex
	state         atomic.Int32
	shutdownGrace time.Duration
	addr          net.Addr
	lc            *Lifecycle
}

type Option func(s *Server)

// WithShutdownGrace bounds how long in-flight downloads may continue after a stop
// request.
func WithShutdownGrace(d time.Duration) Option {
	return func(s *Server) {
		s.shutdownGrace = d
	}
}

func New(options ...Option) *Server {
	s := &Server{
		shutdownGrace: 5 * time.Second,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *Server) State() State {
	return State(s.state.Load())
}

// Addr is the bound address, or nil while the server is not running.
func (s *Server) Addr() net.Addr {
	s.m.Lock()
	defer s.m.Unlock()
	return s.addr
}

func newEngine(root string) *echo.Echo {
	engine := echo.New()
	engine.HideBanner = true
	engine.HidePort = true

	engine.Use(otelecho.Middleware("mclaunch-web"))
	engine.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			logArgs := []any{
				slog.Int("status", values.Status),
				slog.String("remote_ip", values.RemoteIP),
			}

			span := trace.SpanFromContext(c.Request().Context())
			if span.IsRecording() {
				logArgs = append(logArgs, slog.String("trace_id", span.SpanContext().TraceID().String()))
			}

			slog.Info(fmt.Sprintf("%s %s", values.Method, values.URI), logArgs...)
			return nil
		},
	}))
	engine.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root: root,
	}))

	return engine
}

// Start binds iface:port and serves root until lc asks for a stop. Bind errors are
// returned; everything after that is logged.
func (s *Server) Start(root, iface string, port int, lc *Lifecycle) error {
	s.m.Lock()
	defer s.m.Unlock()

	if s.lc != nil {
		return ErrAlreadyStarted
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(iface, strconv.Itoa(port)))
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Handler:           newEngine(root),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.lc = lc
	s.addr = listener.Addr()
	s.state.Store(int32(StateRunning))

	slog.Info("Serving HTTP server", slog.String("addr", listener.Addr().String()), slog.String("root", root))

	go s.serve(httpServer, listener, lc)

	return nil
}

func (s *Server) serve(httpServer *http.Server, listener net.Listener, lc *Lifecycle) {
	defer lc.markStopped()

	eg, ctx := errgroup.WithContext(context.Background())

	eg.Go(func() error {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		select {
		case <-lc.stopRequested():
		case <-ctx.Done():
		}
		s.state.Store(int32(StateStopping))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownGrace)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Downloads still in progress were interrupted", slog.Any("error", err))
			httpServer.Close()
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		slog.Error("HTTP server failed", slog.Any("error", err))
	}

	s.m.Lock()
	s.addr = nil
	s.m.Unlock()
	s.state.Store(int32(StateStopped))

	slog.Info("Stopped HTTP server")
}

// Stop requests a stop and waits until the socket is released. It is a no-op for a
// server that never started or has already stopped.
func (s *Server) Stop() error {
	s.m.Lock()
	lc := s.lc
	s.m.Unlock()

	if lc == nil {
		return nil
	}

	lc.RequestStop()
	<-lc.Done()
	return nil
}
