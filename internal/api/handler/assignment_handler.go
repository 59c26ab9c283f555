package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ccrt-portal/backend/internal/dto"
	"ccrt-portal/backend/internal/service"
	"ccrt-portal/backend/pkg/response"
)

// AssignmentHandler participant to form assignment.
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
	logger        *zap.Logger
}

// NewAssignmentHandler creates an AssignmentHandler.
func NewAssignmentHandler(assignmentSvc service.AssignmentService, logger *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc, logger: logger}
}

// Assign POST /api/assign
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req dto.AssignRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.FormIDs == nil {
		response.BadRequest(c, "participant_id and form_ids array required")
		return
	}

	ctx := c.Request.Context()
	pid, formIDs := req.ParticipantID.Uint(), dto.FlexIDs(*req.FormIDs)
	var err error
	if req.Replace {
		err = h.assignmentSvc.ReplaceAssignments(ctx, pid, formIDs)
	} else {
		err = h.assignmentSvc.AssignForms(ctx, pid, formIDs)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Success(c)
}

// Replace PUT /api/participants/:id/assignments
func (h *AssignmentHandler) Replace(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.ReplaceAssignmentsRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.FormIDs == nil {
		response.BadRequest(c, "form_ids array required")
		return
	}

	if err := h.assignmentSvc.ReplaceAssignments(c.Request.Context(), id, dto.FlexIDs(*req.FormIDs)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Success(c)
}
