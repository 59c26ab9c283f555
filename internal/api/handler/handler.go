package handler

import (
	"go.uber.org/zap"

	"ccrt-portal/backend/config"
	"ccrt-portal/backend/internal/service"
)

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth        *AuthHandler
	Participant *ParticipantHandler
	Form        *FormHandler
	BAA         *BAAHandler
	Assignment  *AssignmentHandler
	JotForm     *JotFormHandler
	Submission  *SubmissionHandler
	Health      *HealthHandler
}

// NewHandler creates the aggregate.
func NewHandler(cfg *config.Config, svc *service.Service, db Pinger, logger *zap.Logger) *Handler {
	cookies := newSessionCookie(cfg)
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth, cookies, logger),
		Participant: NewParticipantHandler(svc.Participant, svc.Completion, logger),
		Form:        NewFormHandler(svc.Form, logger),
		BAA:         NewBAAHandler(svc.BAA, svc.Completion, logger),
		Assignment:  NewAssignmentHandler(svc.Assignment, logger),
		JotForm:     NewJotFormHandler(svc.Completion, cfg.JotForm.WebhookSecret, logger),
		Submission:  NewSubmissionHandler(svc.Report, svc.Export, svc.Completion, logger),
		Health:      NewHealthHandler(db),
	}
}
