package server

import (
	"net/http"
	"time"

	ginhandler "user-registration-service/internal/adapter/gin/handler"
	ginrouter "user-registration-service/internal/adapter/gin/router"
	"user-registration-service/internal/adapter/ratelimit"

	"go.uber.org/zap"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	handler *ginhandler.UserHandler,
	limiter ratelimit.Limiter,
	metricsHandler http.Handler,
	addr string,
	l *zap.Logger,
) *http.Server {
	router := ginrouter.SetupRouter(handler, limiter, metricsHandler, l)

	l.Info("Gin REST API configured",
		zap.String("address", addr),
		zap.Bool("rate_limit", limiter != nil),
	)

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
