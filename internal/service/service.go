package service

import (
	"go.uber.org/zap"

	"ccrt-portal/backend/config"
	"ccrt-portal/backend/internal/repository"
	"ccrt-portal/backend/pkg/jwt"
)

// Service aggregates every service.
type Service struct {
	Auth        AuthService
	Participant ParticipantService
	Form        FormService
	BAA         BAAService
	Assignment  AssignmentService
	Completion  CompletionService
	Report      ReportService
	Export      ExportService
}

// NewService creates the aggregate.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	sessions SessionStore,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	report := NewReportService(repo, logger)
	return &Service{
		Auth:        NewAuthService(cfg, repo, sessions, jwtMgr, logger),
		Participant: NewParticipantService(repo, logger),
		Form:        NewFormService(repo, logger),
		BAA:         NewBAAService(repo, logger),
		Assignment:  NewAssignmentService(repo, logger),
		Completion:  NewCompletionService(repo, logger),
		Report:      report,
		Export:      NewExportService(report, logger),
	}
}
