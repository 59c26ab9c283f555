package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ccrt-portal/backend/internal/dto"
	"ccrt-portal/backend/internal/model"
	"ccrt-portal/backend/internal/repository"
)

// ParticipantService participant administration and self-service reads.
type ParticipantService interface {
	List(ctx context.Context) ([]model.Participant, error)
	// Get returns the participant with its assigned form ids.
	Get(ctx context.Context, id uint) (*dto.ParticipantDetailResponse, error)
	Create(ctx context.Context, req *dto.CreateParticipantRequest) (uint, error)
	Update(ctx context.Context, id uint, req *dto.UpdateParticipantRequest) error
	Delete(ctx context.Context, id uint) error
	// Forms lists the participant's assigned forms with completion flags.
	Forms(ctx context.Context, id uint) ([]repository.ParticipantForm, error)
}

type participantService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewParticipantService creates a ParticipantService.
func NewParticipantService(repo *repository.Repository, logger *zap.Logger) ParticipantService {
	return &participantService{repo: repo, logger: logger}
}

func (s *participantService) List(ctx context.Context) ([]model.Participant, error) {
	ps, err := s.repo.Participant.List(ctx)
	if err != nil {
		s.logger.Error("failed to list participants", zap.Error(err))
		return nil, err
	}
	if ps == nil {
		ps = []model.Participant{}
	}
	return ps, nil
}

func (s *participantService) Get(ctx context.Context, id uint) (*dto.ParticipantDetailResponse, error) {
	p, err := s.repo.Participant.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		s.logger.Error("failed to load participant", zap.Error(err))
		return nil, err
	}
	ids, err := s.repo.Assignment.ListFormIDs(ctx, id)
	if err != nil {
		s.logger.Error("failed to list assignments", zap.Error(err))
		return nil, err
	}
	return &dto.ParticipantDetailResponse{Participant: *p, FormIDs: ids}, nil
}

func (s *participantService) Create(ctx context.Context, req *dto.CreateParticipantRequest) (uint, error) {
	name := strings.TrimSpace(req.Name)
	loginID := strings.TrimSpace(req.LoginIDValue())
	if name == "" || loginID == "" {
		return 0, ErrInvalidInput.WithMessage("Name and Login ID required")
	}
	if err := s.ensureLoginIDFree(ctx, loginID, 0); err != nil {
		return 0, err
	}

	var formIDs []uint
	if req.AssignedForms != nil {
		formIDs = dto.FlexIDs(*req.AssignedForms)
		if err := checkForms(ctx, s.repo.Form, formIDs); err != nil {
			return 0, err
		}
	}

	p := &model.Participant{Name: name, LoginID: loginID}
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Participant.Create(ctx, p); err != nil {
			return err
		}
		return tx.Assignment.Replace(ctx, p.ID, formIDs)
	})
	if err != nil {
		s.logger.Error("failed to create participant", zap.Error(err))
		return 0, err
	}
	return p.ID, nil
}

func (s *participantService) Update(ctx context.Context, id uint, req *dto.UpdateParticipantRequest) error {
	p, err := s.repo.Participant.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}

	if req.Name != nil {
		if p.Name = strings.TrimSpace(*req.Name); p.Name == "" {
			return ErrInvalidInput.WithMessage("Name must not be empty")
		}
	}
	if loginID := req.LoginIDValue(); loginID != nil {
		if p.LoginID = strings.TrimSpace(*loginID); p.LoginID == "" {
			return ErrInvalidInput.WithMessage("Login ID must not be empty")
		}
		if err := s.ensureLoginIDFree(ctx, p.LoginID, id); err != nil {
			return err
		}
	}

	var formIDs []uint
	if req.AssignedForms != nil {
		formIDs = dto.FlexIDs(*req.AssignedForms)
		if err := checkForms(ctx, s.repo.Form, formIDs); err != nil {
			return err
		}
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Participant.Update(ctx, p); err != nil {
			return err
		}
		if req.AssignedForms == nil {
			return nil
		}
		return tx.Assignment.Replace(ctx, id, formIDs)
	})
	if err != nil {
		s.logger.Error("failed to update participant", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *participantService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Participant.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParticipantNotFound
		}
		s.logger.Error("failed to delete participant", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("participant deleted", zap.Uint("id", id))
	return nil
}

func (s *participantService) Forms(ctx context.Context, id uint) ([]repository.ParticipantForm, error) {
	forms, err := s.repo.Assignment.ListParticipantForms(ctx, id)
	if err != nil {
		s.logger.Error("failed to list participant forms", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return forms, nil
}

func (s *participantService) ensureLoginIDFree(ctx context.Context, loginID string, excludeID uint) error {
	taken, err := s.repo.Participant.LoginIDTaken(ctx, loginID, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrLoginIDTaken
	}
	return nil
}
