package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pkgerrors "ccrt-portal/backend/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates returns the HTML templates rendered by the redirect handlers.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// thankYouMessage is posted to the window that opened the form.
type thankYouMessage struct {
	Type   string
	FormID uint
}

type thankYouPage struct {
	Success bool
	Title   string
	Message string
	Notify  thankYouMessage
}

// renderThankYou renders the redirect landing page. The opener is notified
// on success only so it does not mark a failed submission as done.
func renderThankYou(c *gin.Context, logger *zap.Logger, err error, msg thankYouMessage) {
	if err == nil {
		c.HTML(http.StatusOK, "thankyou.html", thankYouPage{
			Success: true,
			Title:   "Thank you",
			Message: "Your submission has been recorded. This window will close automatically.",
			Notify:  msg,
		})
		return
	}

	status, message := http.StatusInternalServerError, "Something went wrong while recording your submission."
	if e, ok := pkgerrors.As(err); ok && e.Kind != pkgerrors.KindInternal {
		status, message = e.Kind.Status(), e.Message
	} else {
		logger.Error("failed to record redirect completion", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.HTML(status, "thankyou.html", thankYouPage{
		Title:   "Submission not recorded",
		Message: message,
		Notify:  msg,
	})
}
