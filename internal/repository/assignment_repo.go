package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ccrt-portal/backend/internal/model"
)

// ParticipantForm is an assigned form with its completion flag.
type ParticipantForm struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	JotformEmbed string `json:"jotform_embed"`
	ButtonImage  string `json:"button_image"`
	Completed    int    `json:"completed"`
}

// AssignmentRepository participant ↔ form relation access.
type AssignmentRepository interface {
	// Assign adds pairs; already assigned pairs are left untouched.
	Assign(ctx context.Context, participantID uint, formIDs []uint) error
	// Replace makes formIDs the participant's complete assignment set.
	Replace(ctx context.Context, participantID uint, formIDs []uint) error
	Exists(ctx context.Context, participantID, formID uint) (bool, error)
	ListFormIDs(ctx context.Context, participantID uint) ([]uint, error)
	ListParticipantForms(ctx context.Context, participantID uint) ([]ParticipantForm, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo creates an AssignmentRepository.
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Assign(ctx context.Context, participantID uint, formIDs []uint) error {
	return insertAssignments(r.db.WithContext(ctx), participantID, formIDs)
}

func (r *assignmentRepo) Replace(ctx context.Context, participantID uint, formIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("participant_id = ?", participantID).Delete(&model.Assignment{}).Error; err != nil {
			return err
		}
		return insertAssignments(tx, participantID, formIDs)
	})
}

func insertAssignments(db *gorm.DB, participantID uint, formIDs []uint) error {
	if len(formIDs) == 0 {
		return nil
	}
	rows := make([]model.Assignment, 0, len(formIDs))
	seen := make(map[uint]bool, len(formIDs))
	for _, fid := range formIDs {
		if seen[fid] {
			continue
		}
		seen[fid] = true
		rows = append(rows, model.Assignment{ParticipantID: participantID, FormID: fid})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *assignmentRepo) Exists(ctx context.Context, participantID, formID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("participant_id = ? AND form_id = ?", participantID, formID).
		Count(&count).Error
	return count > 0, err
}

func (r *assignmentRepo) ListFormIDs(ctx context.Context, participantID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("participant_id = ?", participantID).
		Order("form_id ASC").
		Pluck("form_id", &ids).Error
	return ids, err
}

func (r *assignmentRepo) ListParticipantForms(ctx context.Context, participantID uint) ([]ParticipantForm, error) {
	forms := []ParticipantForm{}
	err := r.db.WithContext(ctx).
		Table("forms AS f").
		Select(`f.id, f.name, COALESCE(f.jotform_embed, '') AS jotform_embed,
			COALESCE(f.button_image, '') AS button_image,
			CASE WHEN c.form_id IS NOT NULL THEN 1 ELSE 0 END AS completed`).
		Joins("JOIN assignments a ON a.form_id = f.id AND a.participant_id = ?", participantID).
		Joins("LEFT JOIN completions c ON c.form_id = f.id AND c.participant_id = ?", participantID).
		Order("f.id ASC").
		Scan(&forms).Error
	return forms, err
}
