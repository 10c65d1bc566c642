package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"user-registration-service/cmd/api/di"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server owns the HTTP listener for the REST API
type Server struct {
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance from the container's dependencies
func New(c *di.Container) *Server {
	if c.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{
		Logger: c.Logger,
		HTTP: SetupGinServer(
			c.GinHandler,
			c.RateLimiter,
			c.Metrics.Handler(),
			":"+c.Config.App.HTTPPort,
			c.Logger,
		),
	}
}

// Start listens and serves until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(context.Background(), "tcp", s.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.Logger.Info("HTTP server running", zap.String("address", lis.Addr().String()))
	s.Logger.Info("Swagger UI available at", zap.String("url", "http://"+lis.Addr().String()+"/swagger/index.html"))

	if err := s.HTTP.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.HTTP.Shutdown(ctx)
}
