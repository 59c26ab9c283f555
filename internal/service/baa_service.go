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

// BAAService business associate administration.
type BAAService interface {
	List(ctx context.Context) ([]model.BAA, error)
	Get(ctx context.Context, id uint) (*model.BAA, error)
	Create(ctx context.Context, req *dto.CreateBAARequest) (uint, error)
	Update(ctx context.Context, id uint, req *dto.UpdateBAARequest) error
	Delete(ctx context.Context, id uint) error
	// EmbedCode returns the form markup assigned to the BAA.
	EmbedCode(ctx context.Context, id uint) (string, error)
}

type baaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBAAService creates a BAAService.
func NewBAAService(repo *repository.Repository, logger *zap.Logger) BAAService {
	return &baaService{repo: repo, logger: logger}
}

func (s *baaService) List(ctx context.Context) ([]model.BAA, error) {
	bs, err := s.repo.BAA.List(ctx)
	if err != nil {
		s.logger.Error("failed to list baas", zap.Error(err))
		return nil, err
	}
	if bs == nil {
		bs = []model.BAA{}
	}
	return bs, nil
}

func (s *baaService) Get(ctx context.Context, id uint) (*model.BAA, error) {
	b, err := s.repo.BAA.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBAANotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *baaService) Create(ctx context.Context, req *dto.CreateBAARequest) (uint, error) {
	b := &model.BAA{
		Name:         trimOptional(req.Name),
		Email:        trimOptional(req.Email),
		LoginID:      strings.TrimSpace(req.LoginID),
		JotformEmbed: strings.TrimSpace(req.JotformEmbed),
	}
	if b.LoginID == "" || b.JotformEmbed == "" {
		return 0, ErrInvalidInput.WithMessage("Login ID and JotForm embed code required")
	}
	if err := s.ensureLoginIDFree(ctx, b.LoginID, 0); err != nil {
		return 0, err
	}
	if err := s.repo.BAA.Create(ctx, b); err != nil {
		s.logger.Error("failed to create baa", zap.Error(err))
		return 0, err
	}
	return b.ID, nil
}

func (s *baaService) Update(ctx context.Context, id uint, req *dto.UpdateBAARequest) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if req.Name == nil && req.Email == nil && req.LoginID == nil && req.JotformEmbed == nil {
		return ErrInvalidInput.WithMessage("Nothing to update")
	}
	if req.Name != nil {
		b.Name = trimOptional(req.Name)
	}
	if req.Email != nil {
		b.Email = trimOptional(req.Email)
	}
	if req.LoginID != nil {
		if b.LoginID = strings.TrimSpace(*req.LoginID); b.LoginID == "" {
			return ErrInvalidInput.WithMessage("Login ID must not be empty")
		}
		if err := s.ensureLoginIDFree(ctx, b.LoginID, id); err != nil {
			return err
		}
	}
	if req.JotformEmbed != nil {
		if b.JotformEmbed = strings.TrimSpace(*req.JotformEmbed); b.JotformEmbed == "" {
			return ErrInvalidInput.WithMessage("JotForm embed code must not be empty")
		}
	}
	if err := s.repo.BAA.Update(ctx, b); err != nil {
		s.logger.Error("failed to update baa", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *baaService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.BAA.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBAANotFound
		}
		s.logger.Error("failed to delete baa", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("baa deleted", zap.Uint("id", id))
	return nil
}

func (s *baaService) EmbedCode(ctx context.Context, id uint) (string, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return b.JotformEmbed, nil
}

func (s *baaService) ensureLoginIDFree(ctx context.Context, loginID string, excludeID uint) error {
	taken, err := s.repo.BAA.LoginIDTaken(ctx, loginID, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrLoginIDTaken
	}
	return nil
}

// trimOptional trims v and maps empty to nil.
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
