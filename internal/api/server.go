// Package api exposes the backtester over HTTP: submitting runs and
// batches, polling batch state, streaming batch progress over a websocket
// and listing the strategy catalog.
package api

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/overline-lab/backstrat/internal/logger"
	"github.com/overline-lab/backstrat/internal/strategy"
	"github.com/overline-lab/backstrat/internal/version"
	"github.com/overline-lab/backstrat/pkg/errors"
)

// Server serves the backtest API. Batches run asynchronously on the
// server's own context, so an interrupted HTTP client does not abort a
// running batch; Stop does.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	router     *mux.Router

	catalog  *strategy.Catalog
	logger   *logger.Logger
	validate *validator.Validate
	registry *batchRegistry
	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server around the given catalog. A nil catalog falls
// back to the built-in one, a nil logger to a no-op one.
func NewServer(catalog *strategy.Catalog, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if catalog == nil {
		var err error

		catalog, err = strategy.DefaultCatalog()
		if err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		catalog:  catalog,
		logger:   log,
		validate: validator.New(),
		registry: newBatchRegistry(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}
	s.router = s.buildRouter()

	return s, nil
}

func (s *Server) buildRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.loggingMiddleware)

	router.HandleFunc("/healthz", s.handleHealthz).Methods("GET")

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/backtests", s.handleCreateBacktest).Methods("POST")
	v1.HandleFunc("/backtests/batch", s.handleCreateBatch).Methods("POST")
	v1.HandleFunc("/backtests/batch/{id}", s.handleGetBatch).Methods("GET")
	v1.HandleFunc("/backtests/batch/{id}/ws", s.handleBatchProgress).Methods("GET")
	v1.HandleFunc("/strategies", s.handleListStrategies).Methods("GET")

	return router
}

// Handler returns the router, mostly for tests that drive the API through
// httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving on the given address. An empty address or ":0"
// picks a random available port.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to create listener", err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	s.logger.Info("API server listening", zap.String("address", s.Address()))

	return nil
}

// Stop cancels running batches and shuts the HTTP server down.
func (s *Server) Stop() error {
	s.cancel()

	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// BaseURL returns the base URL for the server.
func (s *Server) BaseURL() string {
	return "http://" + s.Address()
}

// WebSocketURL returns the websocket URL for the server.
func (s *Server) WebSocketURL() string {
	return "ws://" + s.Address()
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.GetVersion(),
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.logger.Info("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// statusRecorder captures the response status for the request log. It
// passes hijacking through so websocket upgrades keep working behind the
// middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeUnknown, "response writer does not support hijacking")
	}

	return hijacker.Hijack()
}
