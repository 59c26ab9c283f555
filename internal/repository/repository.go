package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository over one database handle.
type Repository struct {
	db *gorm.DB

	Admin       AdminRepository
	Participant ParticipantRepository
	Form        FormRepository
	BAA         BAARepository
	Assignment  AssignmentRepository
	Completion  CompletionRepository
	Report      ReportRepository
}

// NewRepository creates the aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		Admin:       NewAdminRepo(db),
		Participant: NewParticipantRepo(db),
		Form:        NewFormRepo(db),
		BAA:         NewBAARepo(db),
		Assignment:  NewAssignmentRepo(db),
		Completion:  NewCompletionRepo(db),
		Report:      NewReportRepo(db),
	}
}

// Transaction runs fn with an aggregate bound to a single transaction.
// Any error returned by fn rolls everything back.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Ping verifies a round-trip to the database.
func (r *Repository) Ping(ctx context.Context) error {
	var one int
	return r.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error
}
