package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ccrt-portal/backend/pkg/response"
)

// RequireHTTPS redirects plain HTTP reads to HTTPS and rejects plain HTTP
// writes. X-Forwarded-Proto is honoured only behind a trusted proxy.
func RequireHTTPS(trustProxy bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsSecure(c, trustProxy) {
			c.Next()
			return
		}

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Redirect(http.StatusMovedPermanently, "https://"+c.Request.Host+c.Request.URL.RequestURI())
			c.Abort()
			return
		}

		response.Forbidden(c, "HTTPS required")
		c.Abort()
	}
}

// IsSecure reports whether the request reached the client over TLS.
func IsSecure(c *gin.Context, trustProxy bool) bool {
	if c.Request.TLS != nil {
		return true
	}
	return trustProxy && c.GetHeader("X-Forwarded-Proto") == "https"
}
