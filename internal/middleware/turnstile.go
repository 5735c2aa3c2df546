package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inquizitor/inquizitor-backend/internal/response"
	"github.com/inquizitor/inquizitor-backend/internal/service"
)

// turnstileHeader carries the CAPTCHA token for endpoints whose JSON
// payload does not include it.
const turnstileHeader = "X-Turnstile-Token"

// RequireTurnstile verifies a Cloudflare Turnstile token taken from the
// request header. When no secret is configured the check is skipped.
func RequireTurnstile(turnstile *service.TurnstileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !turnstile.Enabled() {
			c.Next()
			return
		}

		token := c.GetHeader(turnstileHeader)
		if err := turnstile.Verify(c.Request.Context(), token, c.ClientIP()); err != nil {
			response.AbortFail(c, http.StatusForbidden, response.ErrTurnstileFailed)
			return
		}

		c.Next()
	}
}
