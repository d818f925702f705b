package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

type contextKey string

const clientIPKey contextKey = "client_ip"

// ClientIPMiddleware extracts the client IP address from the request
// and injects it into the context for downstream handlers to use.
//
// Register early in the middleware chain so all handlers see the IP.
// The rate limiter keys anonymous promo validation on this value.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		// Gin-specific context
		c.Set("client_ip", clientIP)

		// Request context, for passing down to services
		ctx := context.WithValue(c.Request.Context(), clientIPKey, clientIP)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetClientIPFromContext retrieves the client IP from context.
// Returns empty string if not found.
func GetClientIPFromContext(ctx context.Context) string {
	if ip := ctx.Value(clientIPKey); ip != nil {
		if ipStr, ok := ip.(string); ok {
			return ipStr
		}
	}
	return ""
}
