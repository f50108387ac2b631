package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apperrors "github.com/kbukum/callanalyzer/errors"
	"github.com/kbukum/callanalyzer/logger"
	"github.com/kbukum/callanalyzer/server/endpoint"
	"github.com/kbukum/callanalyzer/server/middleware"
)

// shutdownTimeout bounds how long in-flight analyses may run after Stop.
const shutdownTimeout = 5 * time.Second

// Server serves a Gin engine, mounted on a ServeMux, over HTTP/1.1 and h2c.
type Server struct {
	cfg    Config
	log    *logger.Logger
	engine *gin.Engine
	mux    *http.ServeMux
	h2s    *http2.Server
	srv    *http.Server
	bound  atomic.Value // string, set once the listener is bound
}

// New builds the server without middleware. Call ApplyDefaults, or
// ApplyMiddleware and RegisterDefaultEndpoints, before Start.
func New(cfg Config, log *logger.Logger) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(func(c *gin.Context) {
		RespondWithError(c, apperrors.NotFound("route", c.Request.URL.Path))
	})
	engine.NoMethod(func(c *gin.Context) {
		e := apperrors.InvalidInput("method", c.Request.Method+" is not allowed on "+c.Request.URL.Path)
		e.HTTPStatus = http.StatusMethodNotAllowed
		RespondWithError(c, e)
	})

	mux := http.NewServeMux()
	mux.Handle("/", engine)

	s := &Server{
		cfg:    cfg,
		log:    log.WithComponent("server"),
		engine: engine,
		mux:    mux,
		h2s:    &http2.Server{MaxConcurrentStreams: 250, IdleTimeout: cfg.IdleTimeout},
	}
	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h2c.NewHandler(mux, s.h2s),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// GinEngine is where API routes are registered.
func (s *Server) GinEngine() *gin.Engine { return s.engine }

// Handler is the fully wrapped handler, for httptest.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Handle mounts a plain http.Handler next to the Gin engine. It is still
// covered by the net/http middleware stack.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
	s.log.Debug("Handler mounted", logger.Fields("pattern", pattern))
}

// ApplyMiddleware wraps the mux, outermost first, in recovery, request id,
// CORS, the body size limit and request logging. extra runs innermost.
func (s *Server) ApplyMiddleware(extra ...middleware.Middleware) {
	stack := []middleware.Middleware{
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.cfg.CORS),
	}
	if s.cfg.MaxBodySize != "" {
		stack = append(stack, middleware.BodySizeLimit(s.cfg.MaxBodySize))
	}
	stack = append(stack, middleware.RequestLogger(s.log))
	stack = append(stack, extra...)
	s.srv.Handler = h2c.NewHandler(middleware.Chain(stack...)(s.mux), s.h2s)
}

// RegisterDefaultEndpoints serves the probes, /info, /version and /metrics.
func (s *Server) RegisterDefaultEndpoints(service string, checker endpoint.HealthChecker, providers endpoint.ProviderLister) {
	s.engine.GET("/health", endpoint.Health(service, checker))
	s.engine.GET("/alive", endpoint.Liveness(service))
	s.engine.GET("/ready", endpoint.Readiness(service, checker))
	s.engine.GET("/info", endpoint.Info(service, providers))
	s.engine.GET("/version", endpoint.Version())
	s.engine.GET("/metrics", endpoint.Metrics())
}

func (s *Server) ApplyDefaults(service string, checker endpoint.HealthChecker, providers endpoint.ProviderLister) {
	s.ApplyMiddleware()
	s.RegisterDefaultEndpoints(service, checker, providers)
}

// Start returns once the port is bound and serves in the background.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.srv.Addr, err)
	}
	s.bound.Store(ln.Addr().String())

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()
	s.log.Info("HTTP server started", logger.Fields("addr", ln.Addr().String()))
	return nil
}

// Stop drains in-flight requests for up to shutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Error("Server shutdown error", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.bound.Store("")
	s.log.Info("HTTP server stopped")
	return nil
}

// Listening reports whether Start has bound the port.
func (s *Server) Listening() bool {
	addr, _ := s.bound.Load().(string)
	return addr != ""
}

// Addr is the bound address once started, the configured one before.
func (s *Server) Addr() string {
	if addr, _ := s.bound.Load().(string); addr != "" {
		return addr
	}
	return s.srv.Addr
}
