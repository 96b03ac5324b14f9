package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const requestIdHeader = "X-Request-Id"

// RequestId tags every request with an id so log lines belonging to one
// request can be correlated.
func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader(requestIdHeader)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		c.Writer.Header().Set(requestIdHeader, requestId)
		c.Set("requestId", requestId)

		c.Next()

		log.Info().
			Str("requestId", requestId).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("Request handled")
	}
}
