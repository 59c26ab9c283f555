package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ccrt-portal/backend/internal/model"
)

// CompletionRepository completion records and their audit trail.
type CompletionRepository interface {
	// Record inserts the completion unless it already exists and reports
	// whether a new row was written.
	Record(ctx context.Context, participantID, formID uint, at time.Time) (bool, error)
	// RecordBAA upserts the BAA's completion, overwriting completed_at.
	RecordBAA(ctx context.Context, baaID uint, at time.Time) error
	AddEvent(ctx context.Context, ev *model.CompletionEvent) error
	// ListEvents returns the newest audit events first.
	ListEvents(ctx context.Context, limit int) ([]model.CompletionEvent, error)
}

type completionRepo struct {
	db *gorm.DB
}

// NewCompletionRepo creates a CompletionRepository.
func NewCompletionRepo(db *gorm.DB) CompletionRepository {
	return &completionRepo{db: db}
}

func (r *completionRepo) Record(ctx context.Context, participantID, formID uint, at time.Time) (bool, error) {
	row := model.Completion{ParticipantID: participantID, FormID: formID, CompletedAt: at.UTC()}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *completionRepo) RecordBAA(ctx context.Context, baaID uint, at time.Time) error {
	row := model.BAACompletion{BAAID: baaID, CompletedAt: at.UTC()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "baa_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed_at"}),
		}).
		Create(&row).Error
}

func (r *completionRepo) AddEvent(ctx context.Context, ev *model.CompletionEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *completionRepo) ListEvents(ctx context.Context, limit int) ([]model.CompletionEvent, error) {
	var evs []model.CompletionEvent
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&evs).Error
	return evs, err
}
