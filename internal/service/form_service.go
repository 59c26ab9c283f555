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

// FormService form catalog administration.
type FormService interface {
	List(ctx context.Context) ([]model.Form, error)
	Get(ctx context.Context, id uint) (*model.Form, error)
	Create(ctx context.Context, req *dto.CreateFormRequest) (uint, error)
	Update(ctx context.Context, id uint, req *dto.UpdateFormRequest) error
	// Delete removes the form and every assignment and completion of it.
	Delete(ctx context.Context, id uint) error
}

type formService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFormService creates a FormService.
func NewFormService(repo *repository.Repository, logger *zap.Logger) FormService {
	return &formService{repo: repo, logger: logger}
}

func (s *formService) List(ctx context.Context) ([]model.Form, error) {
	fs, err := s.repo.Form.List(ctx)
	if err != nil {
		s.logger.Error("failed to list forms", zap.Error(err))
		return nil, err
	}
	if fs == nil {
		fs = []model.Form{}
	}
	return fs, nil
}

func (s *formService) Get(ctx context.Context, id uint) (*model.Form, error) {
	f, err := s.repo.Form.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *formService) Create(ctx context.Context, req *dto.CreateFormRequest) (uint, error) {
	f := &model.Form{
		Name:         strings.TrimSpace(req.Name),
		JotformEmbed: strings.TrimSpace(req.JotformEmbed),
		ButtonImage:  strings.TrimSpace(req.ButtonImage),
	}
	if f.Name == "" || f.JotformEmbed == "" {
		return 0, ErrInvalidInput.WithMessage("Name and JotForm embed code required")
	}
	if err := s.repo.Form.Create(ctx, f); err != nil {
		s.logger.Error("failed to create form", zap.Error(err))
		return 0, err
	}
	return f.ID, nil
}

func (s *formService) Update(ctx context.Context, id uint, req *dto.UpdateFormRequest) error {
	f, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if req.Name == nil && req.JotformEmbed == nil && req.ButtonImage == nil {
		return ErrInvalidInput.WithMessage("Nothing to update")
	}
	if req.Name != nil {
		if f.Name = strings.TrimSpace(*req.Name); f.Name == "" {
			return ErrInvalidInput.WithMessage("Name must not be empty")
		}
	}
	if req.JotformEmbed != nil {
		if f.JotformEmbed = strings.TrimSpace(*req.JotformEmbed); f.JotformEmbed == "" {
			return ErrInvalidInput.WithMessage("JotForm embed code must not be empty")
		}
	}
	if req.ButtonImage != nil {
		f.ButtonImage = strings.TrimSpace(*req.ButtonImage)
	}
	if err := s.repo.Form.Update(ctx, f); err != nil {
		s.logger.Error("failed to update form", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *formService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Form.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFormNotFound
		}
		s.logger.Error("failed to delete form", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("form deleted", zap.Uint("id", id))
	return nil
}
