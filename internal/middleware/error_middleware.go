package middleware

import (
	"whitebeat/internal/transport/httpdto"
	wb_errors "whitebeat/pkg/errors"
	"whitebeat/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler maps errors attached by handlers to the canonical envelope.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if l != nil {
			l.Errorf("request error: %s", err.Error())
		}
		c.JSON(wb_errors.HTTPStatus(err), httpdto.NewErrorResponse(err.Error(), wb_errors.CodeOf(err)))
	}
}
