package api

import (
	"context"
	"net"
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/codeready-toolchain/tarsy/pkg/config"
	"github.com/codeready-toolchain/tarsy/pkg/engine"
	"github.com/codeready-toolchain/tarsy/pkg/observability"
	"github.com/codeready-toolchain/tarsy/pkg/ratelimit"
	"github.com/codeready-toolchain/tarsy/pkg/registry"
	"github.com/codeready-toolchain/tarsy/pkg/storage"
)

// Server is the council's HTTP API server, matching pkg/api/server.go's
// shape: an echo.Echo wrapped with the domain dependencies its handlers
// need, constructed once at startup.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server

	cfg      *config.Config
	store    storage.ConversationStore
	registry *registry.Registry
	executor *engine.Executor
	services engine.Services

	generalLimiter  *ratelimit.Limiter
	workflowLimiter *ratelimit.Limiter

	titleGenerator storage.TitleGenerator
	tracer         observability.Tracer
}

// NewServer wires and registers every route from spec §6.
func NewServer(
	cfg *config.Config,
	store storage.ConversationStore,
	reg *registry.Registry,
	services engine.Services,
	tracer observability.Tracer,
) *Server {
	e := echo.New()

	s := &Server{
		echo:            e,
		cfg:             cfg,
		store:           store,
		registry:        reg,
		executor:        engine.NewExecutor(),
		services:        services,
		generalLimiter:  ratelimit.NewLimiter(cfg.RateLimit.Enabled),
		workflowLimiter: ratelimit.NewLimiter(cfg.RateLimit.Enabled),
		titleGenerator:  storage.NoopTitleGenerator{},
		tracer:          tracer,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.Use(middleware.BodyLimit(strconv.FormatInt(s.cfg.HTTP.MaxRequestSizeBytes, 10) + "B"))
	s.echo.Use(securityHeaders())
	s.echo.Use(correlationID())
	s.echo.Use(cors())

	s.echo.GET("/", s.statusHandler)

	grp := s.echo.Group("/api")
	grp.Use(authMiddleware())
	grp.Use(rateLimitMiddleware(s.generalLimiter, s.cfg.RateLimit.MaxRequests, s.cfg.RateLimit.Window))

	grp.GET("/conversations", s.listConversationsHandler)
	grp.POST("/conversations", s.createConversationHandler)
	grp.GET("/conversations/:id", s.getConversationHandler)

	grp.GET("/workflows", s.listWorkflowsHandler)
	grp.GET("/workflows/:id", s.getWorkflowHandler)

	grp.POST("/conversations/:id/execute/stream",
		s.executeStreamHandler,
		rateLimitMiddleware(s.workflowLimiter, s.cfg.RateLimit.MaxWorkflowExecutions, s.cfg.RateLimit.Window),
	)
}

// Start starts the HTTP server on addr (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.echo,
		ReadTimeout:  s.cfg.HTTP.RequestTimeout,
		WriteTimeout: 0, // streaming responses (SSE) must not be write-deadline-bounded
		IdleTimeout:  s.cfg.HTTP.KeepAliveTimeout,
	}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener, used
// by tests that need a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
