package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// Upstream proxies may forward their own trace ids; anything else is replaced.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestIDMiddleware tags each request with an id that is echoed back in
// X-Request-ID and attached to every log line for the request.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := acceptRequestID(c.GetHeader(RequestIDHeader))

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

func acceptRequestID(inbound string) string {
	if _, err := uuid.Parse(inbound); err == nil {
		return inbound
	}
	if requestIDPattern.MatchString(inbound) {
		return inbound
	}
	return uuid.NewString()
}

// GetRequestID returns the id set by RequestIDMiddleware, or "" outside it.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
