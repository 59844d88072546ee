// Package httpserver exposes the collaborator service over REST using echo.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/collabsync/internal/logging"
	"github.com/dmitrijs2005/collabsync/internal/server/models"
	"github.com/dmitrijs2005/collabsync/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	DefaultShutdownTimeout = 10 * time.Second

	readHeaderTimeout = 10 * time.Second
)

// Service is what the handlers need from the collaborator service.
type Service interface {
	ImportAll(ctx context.Context) (services.ImportResult, error)
	List(ctx context.Context, q services.ListQuery) (services.Page[models.Collaborator], error)
	GetByID(ctx context.Context, id string) (*models.Collaborator, error)
	DeleteByID(ctx context.Context, id string) error
}

type HTTPServer struct {
	address         string
	service         Service
	logger          logging.Logger
	shutdownTimeout time.Duration
	echo            *echo.Echo
}

func NewHTTPServer(a string, l logging.Logger, s Service, shutdownTimeout time.Duration) *HTTPServer {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}

	srv := &HTTPServer{
		address:         a,
		service:         s,
		logger:          l.With("module", "http_server"),
		shutdownTimeout: shutdownTimeout,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = srv.handleError

	e.Use(requestLogger(srv.logger))
	e.Use(middleware.Recover())

	srv.registerRoutes(e)
	srv.echo = e

	return srv
}

func (s *HTTPServer) registerRoutes(e *echo.Echo) {
	g := e.Group("/collaborators")
	g.GET("/health", s.health)
	g.POST("/import", s.importCollaborators)
	g.GET("", s.listCollaborators)
	g.GET("/:id", s.getCollaborator)
	g.DELETE("/:id", s.deleteCollaborator)
}

// Handler returns the routed handler, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is done, then drains in-flight requests for at most
// the shutdown timeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.echo,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...", "timeout", s.shutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
