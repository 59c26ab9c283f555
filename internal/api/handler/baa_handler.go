package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ccrt-portal/backend/internal/dto"
	"ccrt-portal/backend/internal/model"
	"ccrt-portal/backend/internal/service"
	"ccrt-portal/backend/pkg/response"
	"ccrt-portal/backend/pkg/session"
)

// BAAHandler admin BAA management and the BAA's own endpoints.
type BAAHandler struct {
	baaSvc        service.BAAService
	completionSvc service.CompletionService
	logger        *zap.Logger
}

// NewBAAHandler creates a BAAHandler.
func NewBAAHandler(baaSvc service.BAAService, completionSvc service.CompletionService, logger *zap.Logger) *BAAHandler {
	return &BAAHandler{baaSvc: baaSvc, completionSvc: completionSvc, logger: logger}
}

// List GET /api/baas
func (h *BAAHandler) List(c *gin.Context) {
	baas, err := h.baaSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"baas": baas})
}

// Get GET /api/baas/:id
func (h *BAAHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	baa, err := h.baaSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, baa)
}

// Create POST /api/baas
func (h *BAAHandler) Create(c *gin.Context) {
	var req dto.CreateBAARequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.baaSvc.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, id)
}

// Update PUT /api/baas/:id
func (h *BAAHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateBAARequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.baaSvc.Update(c.Request.Context(), id, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Success(c)
}

// Delete DELETE /api/baas/:id
func (h *BAAHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.baaSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Success(c)
}

// Form GET /api/baa/form
func (h *BAAHandler) Form(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	embed, err := h.baaSvc.EmbedCode(c.Request.Context(), sess.SubjectID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, dto.BAAFormResponse{EmbedCode: embed})
}

// Complete POST /api/baa/complete
func (h *BAAHandler) Complete(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	err := h.completionSvc.RecordBAACompletion(c.Request.Context(), service.BAACompletionInput{
		BAAID:  sess.SubjectID,
		Source: model.SourceBAAAPI,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Success(c)
}

// ThankYou is the JotForm redirect target after a BAA submits.
// GET /api/baa/thankyou?baa_id=
func (h *BAAHandler) ThankYou(c *gin.Context) {
	baaID := dto.ParseID(c.Query("baa_id"))
	if baaID == 0 {
		if sess, ok := sessionOf(c, session.RoleBAA); ok {
			baaID = sess.SubjectID
		}
	}

	err := h.completionSvc.RecordBAACompletion(c.Request.Context(), service.BAACompletionInput{
		BAAID:   baaID,
		Source:  model.SourceBAARedirect,
		Payload: queryPayload(c),
	})
	renderThankYou(c, h.logger, err, thankYouMessage{Type: "baa_form_completed"})
}
