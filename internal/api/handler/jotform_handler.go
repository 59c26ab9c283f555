package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ccrt-portal/backend/internal/dto"
	"ccrt-portal/backend/internal/model"
	"ccrt-portal/backend/internal/service"
	"ccrt-portal/backend/pkg/response"
	"ccrt-portal/backend/pkg/session"
)

// maxWebhookMemory bounds the in-memory part of multipart submissions.
const maxWebhookMemory = 8 << 20

// JotFormHandler completion callbacks coming from JotForm.
type JotFormHandler struct {
	completionSvc service.CompletionService
	secret        string
	logger        *zap.Logger
}

// NewJotFormHandler creates a JotFormHandler. An empty secret disables the
// webhook secret check.
func NewJotFormHandler(completionSvc service.CompletionService, secret string, logger *zap.Logger) *JotFormHandler {
	return &JotFormHandler{completionSvc: completionSvc, secret: secret, logger: logger}
}

// ThankYou is the JotForm redirect target after a participant submits.
// GET /api/jotform/thankyou?pid=&fid=
func (h *JotFormHandler) ThankYou(c *gin.Context) {
	ids := service.ResolveWebhookFields(c.Request.URL.Query())
	pid := dto.ParseID(ids.ParticipantID)
	if pid == 0 {
		if sess, ok := sessionOf(c, session.RoleParticipant); ok {
			pid = sess.SubjectID
		}
	}
	fid := dto.ParseID(ids.FormID)

	err := h.completionSvc.RecordCompletion(c.Request.Context(), service.CompletionInput{
		ParticipantID: pid,
		FormID:        fid,
		Source:        model.SourceRedirect,
		Payload:       queryPayload(c),
	})
	renderThankYou(c, h.logger, err, thankYouMessage{Type: "form_completed", FormID: fid})
}

// Webhook receives JotForm's server to server submission post.
// POST /api/jotform/webhook
func (h *JotFormHandler) Webhook(c *gin.Context) {
	if h.secret != "" &&
		subtle.ConstantTimeCompare([]byte(c.Query("secret")), []byte(h.secret)) != 1 {
		response.Unauthorized(c, "Invalid webhook secret")
		return
	}

	if err := parseWebhookForm(c.Request); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("webhook body too large", zap.Int64("limit", tooLarge.Limit))
			response.Error(c, http.StatusRequestEntityTooLarge, "PayloadTooLarge", "Request body too large")
			return
		}
		response.BadRequest(c, "Invalid form submission")
		return
	}
	fields := c.Request.PostForm

	ids := service.ResolveWebhookFields(fields)
	err := h.completionSvc.RecordCompletion(c.Request.Context(), service.CompletionInput{
		ParticipantID: dto.ParseID(ids.ParticipantID),
		FormID:        dto.ParseID(ids.FormID),
		Source:        model.SourceWebhook,
		Payload:       valuesPayload(fields),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Success(c)
}

// queryPayload is the query string as stored with the completion event.
func queryPayload(c *gin.Context) map[string]interface{} {
	return valuesPayload(c.Request.URL.Query())
}

func valuesPayload(values map[string][]string) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for k, vs := range values {
		if k == "secret" {
			continue
		}
		if len(vs) == 1 {
			out[k] = vs[0]
		} else {
			out[k] = vs
		}
	}
	return out
}

// parseWebhookForm fills req.PostForm. ParseMultipartForm discards ParseForm
// errors for non-multipart bodies, so urlencoded posts are parsed directly.
func parseWebhookForm(req *http.Request) error {
	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
		return req.ParseMultipartForm(maxWebhookMemory)
	}
	return req.ParseForm()
}
