package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ccrt-portal/backend/internal/repository"
)

// AssignmentService participant ↔ form membership.
type AssignmentService interface {
	// AssignForms adds formIDs to the participant's set.
	AssignForms(ctx context.Context, participantID uint, formIDs []uint) error
	// ReplaceAssignments makes formIDs the participant's whole set; an empty
	// slice unassigns everything.
	ReplaceAssignments(ctx context.Context, participantID uint, formIDs []uint) error
	ListAssignments(ctx context.Context, participantID uint) ([]uint, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService creates an AssignmentService.
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

func (s *assignmentService) AssignForms(ctx context.Context, participantID uint, formIDs []uint) error {
	if err := s.validate(ctx, participantID, formIDs); err != nil {
		return err
	}
	if err := s.repo.Assignment.Assign(ctx, participantID, formIDs); err != nil {
		s.logger.Error("failed to assign forms", zap.Uint("participant_id", participantID), zap.Error(err))
		return err
	}
	return nil
}

func (s *assignmentService) ReplaceAssignments(ctx context.Context, participantID uint, formIDs []uint) error {
	if err := s.validate(ctx, participantID, formIDs); err != nil {
		return err
	}
	if err := s.repo.Assignment.Replace(ctx, participantID, formIDs); err != nil {
		s.logger.Error("failed to replace assignments", zap.Uint("participant_id", participantID), zap.Error(err))
		return err
	}
	return nil
}

func (s *assignmentService) ListAssignments(ctx context.Context, participantID uint) ([]uint, error) {
	if _, err := s.repo.Participant.GetByID(ctx, participantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return s.repo.Assignment.ListFormIDs(ctx, participantID)
}

func (s *assignmentService) validate(ctx context.Context, participantID uint, formIDs []uint) error {
	if participantID == 0 {
		return ErrInvalidInput.WithMessage("participant_id and form_ids required")
	}
	if _, err := s.repo.Participant.GetByID(ctx, participantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}
	return checkForms(ctx, s.repo.Form, formIDs)
}

// checkForms rejects zero ids and ids that are not in the catalog.
func checkForms(ctx context.Context, forms repository.FormRepository, ids []uint) error {
	for _, id := range ids {
		if id == 0 {
			return ErrInvalidInput.WithMessage("form ids must be positive integers")
		}
	}
	found, err := forms.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[uint]bool, len(found))
	for _, f := range found {
		known[f.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !known[id] {
			missing = append(missing, fmt.Sprint(id))
			known[id] = true
		}
	}
	if len(missing) > 0 {
		return ErrUnknownForms.WithMessage("Unknown form ids: " + strings.Join(missing, ", "))
	}
	return nil
}
