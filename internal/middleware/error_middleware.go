package middleware

import (
	"net/http"

	"chatguard/internal/transport/httpdto"
	"chatguard/pkg/logger"

	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

// ErrorHandler logs errors attached with c.Error. Handlers normally write
// their own response; a generic 500 is sent only when nothing was written.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		log := l
		if log == nil {
			log = logger.GetGlobalLogger()
		}
		if log != nil {
			for _, e := range c.Errors {
				log.WithContext(c.Request.Context()).Error("request error", zap.Error(e.Err))
			}
		}

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
		}
	}
}
