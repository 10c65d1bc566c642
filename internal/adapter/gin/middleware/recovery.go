package middleware

import (
	"fmt"
	"net/http"

	pkgerrors "user-registration-service/pkg/errors"
	"user-registration-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery turns a panic into a 500 carrying a correlation id; the panic value and
// stack are only logged.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				ie := pkgerrors.NewCorrelatedError(fmt.Errorf("panic: %v", r))
				logger.WithContext(c.Request.Context(), log).Error("panic recovered",
					zap.String("error_id", ie.ErrorID),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"isSuccess": false,
					"errors":    ie.PublicMessage(),
				})
			}
		}()
		c.Next()
	}
}
