package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ParticipantSubmissionRow is one participant × completion row of the
// submissions report. Form fields are nil for participants without
// completions.
type ParticipantSubmissionRow struct {
	ParticipantID uint
	Name          string
	LoginID       string
	Assigned      int
	FormID        *uint
	FormName      *string
	CompletedAt   *time.Time
}

// BAASubmissionRow is one BAA with its completion time, if any.
type BAASubmissionRow struct {
	BAAID       uint `gorm:"column:baa_id"`
	Name        *string
	Email       *string
	LoginID     string
	CompletedAt *time.Time
}

// ReportRepository read-only joins for the admin submissions view.
type ReportRepository interface {
	ParticipantSubmissions(ctx context.Context) ([]ParticipantSubmissionRow, error)
	BAASubmissions(ctx context.Context) ([]BAASubmissionRow, error)
}

type reportRepo struct {
	db *gorm.DB
}

// NewReportRepo creates a ReportRepository.
func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) ParticipantSubmissions(ctx context.Context) ([]ParticipantSubmissionRow, error) {
	var rows []ParticipantSubmissionRow
	err := r.db.WithContext(ctx).
		Table("participants AS p").
		Select(`p.id AS participant_id, COALESCE(p.name, '') AS name, COALESCE(p.login_id, '') AS login_id,
			(SELECT COUNT(*) FROM assignments a WHERE a.participant_id = p.id) AS assigned,
			f.id AS form_id, f.name AS form_name, c.completed_at AS completed_at`).
		Joins("LEFT JOIN completions c ON c.participant_id = p.id").
		Joins("LEFT JOIN forms f ON f.id = c.form_id").
		Order("LOWER(p.name) ASC, p.id ASC, c.completed_at ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) BAASubmissions(ctx context.Context) ([]BAASubmissionRow, error) {
	var rows []BAASubmissionRow
	err := r.db.WithContext(ctx).
		Table("baas AS b").
		Select(`b.id AS baa_id, b.name AS name, b.email AS email, COALESCE(b.login_id, '') AS login_id,
			bc.completed_at AS completed_at`).
		Joins("LEFT JOIN baa_completions bc ON bc.baa_id = b.id").
		Order("LOWER(COALESCE(b.name, b.login_id, '')) ASC, b.id ASC").
		Scan(&rows).Error
	return rows, err
}
