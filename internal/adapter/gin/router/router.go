package router

import (
	"net/http"

	"user-registration-service/api"
	"user-registration-service/internal/adapter/gin/handler"
	"user-registration-service/internal/adapter/gin/middleware"
	"user-registration-service/internal/adapter/ratelimit"
	"user-registration-service/pkg/logger"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

const swaggerDocPath = "/swagger/users.swagger.json"

// SetupRouter configures and returns a Gin router with all routes and middleware.
// limiter and metricsHandler may be nil.
func SetupRouter(
	userHandler *handler.UserHandler,
	limiter ratelimit.Limiter,
	metricsHandler http.Handler,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestIDMiddleware())
	router.Use(middleware.Logger(log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-registration-service",
		})
	})

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	swaggerUI := httpSwagger.Handler(httpSwagger.URL(swaggerDocPath))
	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Request.URL.Path == swaggerDocPath {
			c.Data(http.StatusOK, "application/json", api.SwaggerJSON)
			return
		}
		swaggerUI.ServeHTTP(c.Writer, c.Request)
	})

	users := router.Group("/users", middleware.RateLimiter(limiter, log))
	{
		users.GET("", userHandler.GetAll)
		users.POST("/create-user", userHandler.CreateUser)
	}

	return router
}
