package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ccrt-portal/backend/internal/api/middleware"
	"ccrt-portal/backend/internal/dto"
	pkgerrors "ccrt-portal/backend/pkg/errors"
	"ccrt-portal/backend/pkg/response"
	"ccrt-portal/backend/pkg/session"
)

// mustSession returns the session loaded by the auth middleware, writing a
// 401 when there is none. Callers return when ok is false.
func mustSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Unauthorized(c, "Login required")
		return nil, false
	}
	return sess, true
}

// sessionOf returns the request's session when it has the given role.
func sessionOf(c *gin.Context, role session.Role) (*session.Session, bool) {
	sess, ok := middleware.CurrentSession(c)
	if !ok || sess.Role != role {
		return nil, false
	}
	return sess, true
}

// parseIDParam reads the :id path parameter, writing a 400 when it is not a
// positive integer.
func parseIDParam(c *gin.Context) (uint, bool) {
	id := dto.ParseID(c.Param("id"))
	if id == 0 {
		response.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

// respondError maps an error to its status and {error, code} body.
// Unclassified errors are logged and reported as a generic 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if e, ok := pkgerrors.As(err); ok && e.Kind != pkgerrors.KindInternal {
		response.Error(c, e.Kind.Status(), e.Code, e.Message)
		return
	}

	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err),
	)
	_ = c.Error(err)
	response.InternalError(c)
}

// bindJSON decodes the request body into req. An empty body leaves req at
// its zero value so services can report the missing fields themselves.
func bindJSON(c *gin.Context, req interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}
