package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"mamareykjavik-backend/internal/shared/response"
)

// Recovery converts panics into the standard error envelope so a bad
// handler never leaks a stack trace to the storefront or the payment
// gateway.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Str("path", c.Request.URL.Path).
					Interface("panic", r).
					Msg("panic recovered")

				response.ErrorResponse(c, http.StatusInternalServerError, "SYS_INTERNAL_ERROR", "internal error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
