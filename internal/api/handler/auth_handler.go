package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ccrt-portal/backend/internal/api/middleware"
	"ccrt-portal/backend/internal/dto"
	"ccrt-portal/backend/internal/service"
	"ccrt-portal/backend/pkg/response"
	"ccrt-portal/backend/pkg/session"
)

// AuthHandler login, logout and session status for every role.
type AuthHandler struct {
	authSvc service.AuthService
	cookies *sessionCookie
	logger  *zap.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc service.AuthService, cookies *sessionCookie, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cookies: cookies, logger: logger}
}

// CookieName is the session cookie the middleware should read.
func (h *AuthHandler) CookieName() string { return h.cookies.Name() }

// AdminLogin POST /api/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, service.ErrInvalidCredentials)
		return
	}
	h.login(c, session.RoleAdmin, service.Credentials{Username: req.Username, Password: req.Password})
}

// ParticipantLogin POST /api/participant/login
func (h *AuthHandler) ParticipantLogin(c *gin.Context) {
	var req dto.LoginIDRequest
	if !bindJSON(c, &req) {
		return
	}
	h.login(c, session.RoleParticipant, service.Credentials{LoginID: req.Value()})
}

// BAALogin POST /api/baa/login
func (h *AuthHandler) BAALogin(c *gin.Context) {
	var req dto.LoginIDRequest
	if !bindJSON(c, &req) {
		return
	}
	h.login(c, session.RoleBAA, service.Credentials{LoginID: req.Value()})
}

func (h *AuthHandler) login(c *gin.Context, role session.Role, cred service.Credentials) {
	ctx := c.Request.Context()

	// any session the client still holds is replaced
	if old := h.cookies.read(c); old != "" {
		if err := h.authSvc.Logout(ctx, old); err != nil {
			h.logger.Warn("failed to destroy previous session", zap.Error(err))
		}
	}

	result, err := h.authSvc.Login(ctx, role, cred)
	if err != nil {
		h.cookies.clear(c)
		respondError(c, h.logger, err)
		return
	}

	h.cookies.set(c, result.Token, result.Session.ExpiresAt)
	response.Success(c)
}

// Logout POST /api/{admin,participant,baa}/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := h.cookies.read(c); token != "" {
		if err := h.authSvc.Logout(c.Request.Context(), token); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	h.cookies.clear(c)
	response.Success(c)
}

// Session reports whether the caller holds a session of role.
// GET /api/{admin,participant,baa}/session
func (h *AuthHandler) Session(role session.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := middleware.CurrentSession(c)
		if !ok || sess.Role != role {
			response.OK(c, dto.SessionStatusResponse{LoggedIn: false})
			return
		}
		response.OK(c, dto.SessionStatusResponse{
			LoggedIn: true,
			Role:     string(sess.Role),
			ID:       sess.SubjectID,
			Username: sess.Username,
		})
	}
}

// ChangePassword POST /api/admin/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "oldPassword and newPassword are required")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), sess.Username, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Success(c)
}
