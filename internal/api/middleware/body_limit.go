package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ccrt-portal/backend/pkg/response"
)

// BodyLimit caps request bodies at maxBytes. routes overrides the cap per
// route pattern (gin FullPath), e.g. for third-party callbacks carrying uploads.
func BodyLimit(maxBytes int64, routes map[string]int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxBytes
		if n, ok := routes[c.FullPath()]; ok {
			limit = n
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, err := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(err.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, "PayloadTooLarge", "Request body too large")
				return
			}
		}
	}
}
