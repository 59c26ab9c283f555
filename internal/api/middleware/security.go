package middleware

import (
	"github.com/gin-gonic/gin"
)

// jotformSources are the origins JotForm embeds load scripts, frames and
// submissions from.
const jotformSources = "https://*.jotform.com https://*.jotfor.ms"

// SecurityHeaders sets the common protective response headers. The CSP
// admits JotForm so embedded forms keep working. hsts adds
// Strict-Transport-Security for HTTPS-only deployments.
func SecurityHeaders(hsts bool) gin.HandlerFunc {
	csp := "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' " + jotformSources + "; " +
		"style-src 'self' 'unsafe-inline' " + jotformSources + "; " +
		"img-src 'self' data: " + jotformSources + "; " +
		"frame-src 'self' " + jotformSources + "; " +
		"connect-src 'self' " + jotformSources + "; " +
		"font-src 'self' data:"

	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "SAMEORIGIN")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", csp)
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		if hsts {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
