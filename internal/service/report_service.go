package service

import (
	"context"

	"go.uber.org/zap"

	"ccrt-portal/backend/internal/dto"
	"ccrt-portal/backend/internal/repository"
)

// ReportService read-only submission views for administrators.
type ReportService interface {
	// ParticipantSubmissions lists every participant, ordered by name, with
	// its completed forms in completion order.
	ParticipantSubmissions(ctx context.Context) ([]dto.ParticipantSubmission, error)
	// BAASubmissions lists every BAA, ordered by name, with its completion time.
	BAASubmissions(ctx context.Context) ([]dto.BAASubmission, error)
	Submissions(ctx context.Context) (*dto.SubmissionsResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService creates a ReportService.
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

func (s *reportService) ParticipantSubmissions(ctx context.Context) ([]dto.ParticipantSubmission, error) {
	rows, err := s.repo.Report.ParticipantSubmissions(ctx)
	if err != nil {
		s.logger.Error("failed to query participant submissions", zap.Error(err))
		return nil, err
	}

	out := []dto.ParticipantSubmission{}
	index := make(map[uint]int)
	for _, r := range rows {
		i, ok := index[r.ParticipantID]
		if !ok {
			i = len(out)
			index[r.ParticipantID] = i
			out = append(out, dto.ParticipantSubmission{
				Participant: dto.SubmissionParticipant{ID: r.ParticipantID, Name: r.Name, LoginID: r.LoginID},
				Assigned:    r.Assigned,
				Completed:   []dto.CompletedForm{},
			})
		}
		if r.FormID == nil {
			continue
		}
		name := ""
		if r.FormName != nil {
			name = *r.FormName
		}
		out[i].Completed = append(out[i].Completed, dto.CompletedForm{
			FormID:      *r.FormID,
			Name:        name,
			CompletedAt: r.CompletedAt,
		})
	}
	return out, nil
}

func (s *reportService) BAASubmissions(ctx context.Context) ([]dto.BAASubmission, error) {
	rows, err := s.repo.Report.BAASubmissions(ctx)
	if err != nil {
		s.logger.Error("failed to query baa submissions", zap.Error(err))
		return nil, err
	}

	out := make([]dto.BAASubmission, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.BAASubmission{
			ID:          r.BAAID,
			Name:        r.Name,
			Email:       r.Email,
			LoginID:     r.LoginID,
			CompletedAt: r.CompletedAt,
		})
	}
	return out, nil
}

func (s *reportService) Submissions(ctx context.Context) (*dto.SubmissionsResponse, error) {
	participants, err := s.ParticipantSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	baas, err := s.BAASubmissions(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SubmissionsResponse{Participants: participants, BAAs: baas}, nil
}
