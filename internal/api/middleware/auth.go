package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	pkgerrors "ccrt-portal/backend/pkg/errors"
	"ccrt-portal/backend/pkg/response"
	"ccrt-portal/backend/pkg/session"
)

const sessionKey = "session"

// Authenticator resolves a session cookie to its live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*session.Session, error)
}

// SessionAuth requires a valid session cookie.
func SessionAuth(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)
		sess, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if pkgerrors.KindOf(err) == pkgerrors.KindUnauthenticated {
				response.Unauthorized(c, "Login required")
			} else {
				_ = c.Error(err)
				response.InternalError(c)
			}
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// OptionalSession loads the session when a valid cookie is present and
// never rejects the request.
func OptionalSession(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			if sess, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(sessionKey, sess)
			}
		}
		c.Next()
	}
}

// RoleAuth requires the session loaded by SessionAuth to have one of roles.
func RoleAuth(roles ...session.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			response.Unauthorized(c, "Login required")
			c.Abort()
			return
		}

		for _, r := range roles {
			if sess.Role == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Access denied")
		c.Abort()
	}
}

// CurrentSession returns the session attached to the request, if any.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok && sess != nil
}
