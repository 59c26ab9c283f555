package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ccrt-portal/backend/internal/dto"
	"ccrt-portal/backend/internal/model"
	"ccrt-portal/backend/internal/service"
	"ccrt-portal/backend/pkg/response"
)

// ParticipantHandler admin participant management and the participant's
// own portal endpoints.
type ParticipantHandler struct {
	participantSvc service.ParticipantService
	completionSvc  service.CompletionService
	logger         *zap.Logger
}

// NewParticipantHandler creates a ParticipantHandler.
func NewParticipantHandler(
	participantSvc service.ParticipantService,
	completionSvc service.CompletionService,
	logger *zap.Logger,
) *ParticipantHandler {
	return &ParticipantHandler{participantSvc: participantSvc, completionSvc: completionSvc, logger: logger}
}

// ── admin ──

// List GET /api/participants
func (h *ParticipantHandler) List(c *gin.Context) {
	list, err := h.participantSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"participants": list})
}

// Get GET /api/participants/:id
func (h *ParticipantHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	detail, err := h.participantSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, detail)
}

// Create POST /api/participants
func (h *ParticipantHandler) Create(c *gin.Context) {
	var req dto.CreateParticipantRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.participantSvc.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, id)
}

// Update PUT /api/participants/:id
func (h *ParticipantHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateParticipantRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.participantSvc.Update(c.Request.Context(), id, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Success(c)
}

// Delete DELETE /api/participants/:id
func (h *ParticipantHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.participantSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Success(c)
}

// ── participant portal ──

// Me GET /api/participant/me
func (h *ParticipantHandler) Me(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	detail, err := h.participantSvc.Get(c.Request.Context(), sess.SubjectID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, detail)
}

// Forms GET /api/participant/forms
func (h *ParticipantHandler) Forms(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	forms, err := h.participantSvc.Forms(c.Request.Context(), sess.SubjectID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"forms": forms})
}

// Complete POST /api/participant/complete
func (h *ParticipantHandler) Complete(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req dto.CompleteFormRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.completionSvc.RecordCompletion(c.Request.Context(), service.CompletionInput{
		ParticipantID: sess.SubjectID,
		FormID:        req.FormID.Uint(),
		Source:        model.SourceAPI,
		Payload:       map[string]interface{}{"form_id": req.FormID.Uint()},
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Success(c)
}
