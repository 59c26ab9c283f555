package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ccrt-portal/backend/config"
	"ccrt-portal/backend/internal/api/middleware"
)

// sessionCookie writes and clears the HTTP-only session cookie.
type sessionCookie struct {
	name       string
	sameSite   http.SameSite
	forceHTTPS bool
	trustProxy bool
}

func newSessionCookie(cfg *config.Config) *sessionCookie {
	return &sessionCookie{
		name:       cfg.Session.CookieName,
		sameSite:   parseSameSite(cfg.Session.SameSite),
		forceHTTPS: cfg.Server.ForceHTTPS,
		trustProxy: cfg.Server.TrustProxy,
	}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Name is the cookie name.
func (s *sessionCookie) Name() string { return s.name }

func (s *sessionCookie) read(c *gin.Context) string {
	v, err := c.Cookie(s.name)
	if err != nil {
		return ""
	}
	return v
}

func (s *sessionCookie) set(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(s.sameSite)
	c.SetCookie(s.name, token, maxAge, "/", "", s.secure(c), true)
}

func (s *sessionCookie) clear(c *gin.Context) {
	c.SetSameSite(s.sameSite)
	c.SetCookie(s.name, "", -1, "/", "", s.secure(c), true)
}

func (s *sessionCookie) secure(c *gin.Context) bool {
	// SameSite=None is rejected by browsers on non-secure cookies
	return s.forceHTTPS || s.sameSite == http.SameSiteNoneMode || middleware.IsSecure(c, s.trustProxy)
}
