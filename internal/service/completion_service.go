package service

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ccrt-portal/backend/internal/model"
	"ccrt-portal/backend/internal/repository"
	pkgerrors "ccrt-portal/backend/pkg/errors"
)

// CompletionInput one completion trigger. Zero ids mean the caller could
// not supply an integral identifier.
type CompletionInput struct {
	ParticipantID uint
	FormID        uint
	Source        string
	// Payload is stored with the audit event; nil is fine.
	Payload map[string]interface{}
}

// BAACompletionInput one BAA completion trigger.
type BAACompletionInput struct {
	BAAID   uint
	Source  string
	Payload map[string]interface{}
}

// CompletionService records form completions from any trigger.
type CompletionService interface {
	// RecordCompletion requires an existing assignment and is idempotent.
	RecordCompletion(ctx context.Context, in CompletionInput) error
	// RecordBAACompletion upserts the BAA's completion time.
	RecordBAACompletion(ctx context.Context, in BAACompletionInput) error
	// Events returns the newest completion audit events. limit is clamped
	// to [1, MaxEventsLimit]; zero selects DefaultEventsLimit.
	Events(ctx context.Context, limit int) ([]model.CompletionEvent, error)
}

const (
	DefaultEventsLimit = 100
	MaxEventsLimit     = 500
)

type completionService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCompletionService creates a CompletionService.
func NewCompletionService(repo *repository.Repository, logger *zap.Logger) CompletionService {
	return &completionService{repo: repo, logger: logger, now: time.Now}
}

func (s *completionService) RecordCompletion(ctx context.Context, in CompletionInput) error {
	err := s.recordCompletion(ctx, in)
	ev := &model.CompletionEvent{
		Source:        in.Source,
		ParticipantID: optionalID(in.ParticipantID),
		FormID:        optionalID(in.FormID),
	}
	s.audit(ctx, ev, in.Payload, err)
	return err
}

func (s *completionService) recordCompletion(ctx context.Context, in CompletionInput) error {
	if in.ParticipantID == 0 || in.FormID == 0 {
		return ErrMissingIdentifiers
	}

	assigned, err := s.repo.Assignment.Exists(ctx, in.ParticipantID, in.FormID)
	if err != nil {
		s.logger.Error("failed to check assignment", zap.Error(err))
		return err
	}
	if !assigned {
		s.logger.Warn("completion for unassigned form rejected",
			zap.String("source", in.Source),
			zap.Uint("participant_id", in.ParticipantID),
			zap.Uint("form_id", in.FormID),
		)
		return ErrAssignmentNotFound
	}

	inserted, err := s.repo.Completion.Record(ctx, in.ParticipantID, in.FormID, s.now())
	if err != nil {
		s.logger.Error("failed to record completion", zap.Error(err))
		return err
	}
	s.logger.Info("completion recorded",
		zap.String("source", in.Source),
		zap.Uint("participant_id", in.ParticipantID),
		zap.Uint("form_id", in.FormID),
		zap.Bool("new", inserted),
	)
	return nil
}

func (s *completionService) RecordBAACompletion(ctx context.Context, in BAACompletionInput) error {
	err := s.recordBAACompletion(ctx, in)
	s.audit(ctx, &model.CompletionEvent{Source: in.Source, BAAID: optionalID(in.BAAID)}, in.Payload, err)
	return err
}

func (s *completionService) recordBAACompletion(ctx context.Context, in BAACompletionInput) error {
	if in.BAAID == 0 {
		return ErrMissingIdentifiers.WithMessage("Missing BAA identifier")
	}
	if _, err := s.repo.BAA.GetByID(ctx, in.BAAID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBAANotFound
		}
		s.logger.Error("failed to load baa", zap.Error(err))
		return err
	}
	if err := s.repo.Completion.RecordBAA(ctx, in.BAAID, s.now()); err != nil {
		s.logger.Error("failed to record baa completion", zap.Error(err))
		return err
	}
	s.logger.Info("baa completion recorded", zap.String("source", in.Source), zap.Uint("baa_id", in.BAAID))
	return nil
}

func (s *completionService) Events(ctx context.Context, limit int) ([]model.CompletionEvent, error) {
	switch {
	case limit <= 0:
		limit = DefaultEventsLimit
	case limit > MaxEventsLimit:
		limit = MaxEventsLimit
	}
	evs, err := s.repo.Completion.ListEvents(ctx, limit)
	if err != nil {
		s.logger.Error("failed to list completion events", zap.Error(err))
		return nil, err
	}
	return evs, nil
}

// audit appends the trigger to the completion ledger. Failures are logged
// and never change the trigger's outcome.
func (s *completionService) audit(ctx context.Context, ev *model.CompletionEvent, payload map[string]interface{}, outcome error) {
	ev.Outcome = model.OutcomeRecorded
	if outcome != nil {
		ev.Outcome = model.OutcomeRejected
		ev.Reason = string(pkgerrors.KindInternal)
		if e, ok := pkgerrors.As(outcome); ok {
			ev.Reason = e.Code
		}
	}
	if len(payload) > 0 {
		if raw, err := sonic.Marshal(payload); err == nil {
			ev.Payload = datatypes.JSON(raw)
		}
	}
	ev.CreatedAt = s.now().UTC()
	if err := s.repo.Completion.AddEvent(ctx, ev); err != nil {
		s.logger.Warn("failed to write completion event", zap.String("source", ev.Source), zap.Error(err))
	}
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
