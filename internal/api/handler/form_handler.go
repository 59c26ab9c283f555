package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ccrt-portal/backend/internal/dto"
	"ccrt-portal/backend/internal/service"
	"ccrt-portal/backend/pkg/response"
)

// FormHandler form catalog management.
type FormHandler struct {
	formSvc service.FormService
	logger  *zap.Logger
}

// NewFormHandler creates a FormHandler.
func NewFormHandler(formSvc service.FormService, logger *zap.Logger) *FormHandler {
	return &FormHandler{formSvc: formSvc, logger: logger}
}

// List GET /api/forms
func (h *FormHandler) List(c *gin.Context) {
	forms, err := h.formSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"forms": forms})
}

// Get GET /api/forms/:id
func (h *FormHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	form, err := h.formSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, form)
}

// Create POST /api/forms
func (h *FormHandler) Create(c *gin.Context) {
	var req dto.CreateFormRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.formSvc.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, id)
}

// Update PUT /api/forms/:id
func (h *FormHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateFormRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.formSvc.Update(c.Request.Context(), id, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Success(c)
}

// Delete DELETE /api/forms/:id
func (h *FormHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.formSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Success(c)
}
