package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ccrt-portal/backend/internal/service"
	"ccrt-portal/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SubmissionHandler completion reporting for admins.
type SubmissionHandler struct {
	reportSvc     service.ReportService
	exportSvc     service.ExportService
	completionSvc service.CompletionService
	logger        *zap.Logger
}

// NewSubmissionHandler creates a SubmissionHandler.
func NewSubmissionHandler(
	reportSvc service.ReportService,
	exportSvc service.ExportService,
	completionSvc service.CompletionService,
	logger *zap.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{reportSvc: reportSvc, exportSvc: exportSvc, completionSvc: completionSvc, logger: logger}
}

// List GET /api/admin/submissions
func (h *SubmissionHandler) List(c *gin.Context) {
	res, err := h.reportSvc.Submissions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, res)
}

// Export GET /api/admin/submissions/export
func (h *SubmissionHandler) Export(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportSubmissions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Events lists the completion audit ledger, newest first.
// GET /api/admin/completion-events?limit=
func (h *SubmissionHandler) Events(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(c, "Invalid limit")
			return
		}
		limit = n
	}

	evs, err := h.completionSvc.Events(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"events": evs})
}
