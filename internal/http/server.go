package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/weather-tui/internal/observability"
)

// ServerConfig configures the debug server.
type ServerConfig struct {
	Addr           string
	RateLimitRPS   int // 0 disables rate limiting
	RateLimitBurst int
}

// Server is the debug HTTP server. It runs alongside the render loop and never
// writes to the terminal.
type Server struct {
	srv    *http.Server
	ln     net.Listener
	logger *zap.Logger
	done   chan struct{}
}

// NewRouter wires the debug routes and middleware.
func NewRouter(h *Handler, logger *zap.Logger, limiter *rate.Limiter) *mux.Router {
	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware)
	router.Use(RateLimitMiddleware(limiter))
	router.HandleFunc("/health", h.GetHealth).Methods("GET")
	router.HandleFunc("/snapshot", h.GetSnapshot).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())
	return router
}

// NewServer binds cfg.Addr and returns a server ready to Serve. Binding here lets
// the caller report a bad address before the terminal takes over the screen.
func NewServer(cfg ServerConfig, h *Handler, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		srv: &http.Server{
			Handler:      NewRouter(h, logger, limiter),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		ln:     ln,
		logger: logger,
		done:   make(chan struct{}),
	}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Start serves in a background goroutine.
func (s *Server) Start() {
	go func() {
		defer close(s.done)
		s.logger.Info("debug server starting", zap.String("addr", s.Addr()))
		if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("debug server", zap.Error(err))
		}
	}()
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	select {
	case <-s.done:
	case <-ctx.Done():
	}
	return err
}
