package repository

import (
	"context"

	"gorm.io/gorm"

	"ccrt-portal/backend/internal/model"
)

// ParticipantRepository participant data access.
type ParticipantRepository interface {
	Create(ctx context.Context, p *model.Participant) error
	GetByID(ctx context.Context, id uint) (*model.Participant, error)
	GetByLoginID(ctx context.Context, loginID string) (*model.Participant, error)
	LoginIDTaken(ctx context.Context, loginID string, excludeID uint) (bool, error)
	List(ctx context.Context) ([]model.Participant, error)
	Update(ctx context.Context, p *model.Participant) error
	// Delete removes the participant with its assignments and completions.
	Delete(ctx context.Context, id uint) error
}

type participantRepo struct {
	db *gorm.DB
}

// NewParticipantRepo creates a ParticipantRepository.
func NewParticipantRepo(db *gorm.DB) ParticipantRepository {
	return &participantRepo{db: db}
}

func (r *participantRepo) Create(ctx context.Context, p *model.Participant) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *participantRepo) GetByID(ctx context.Context, id uint) (*model.Participant, error) {
	var p model.Participant
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *participantRepo) GetByLoginID(ctx context.Context, loginID string) (*model.Participant, error) {
	var p model.Participant
	err := r.db.WithContext(ctx).
		Where("login_id = ?", loginID).
		Order("id ASC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *participantRepo) LoginIDTaken(ctx context.Context, loginID string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Participant{}).
		Where("login_id = ? AND id <> ?", loginID, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *participantRepo) List(ctx context.Context) ([]model.Participant, error) {
	var ps []model.Participant
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&ps).Error
	return ps, err
}

func (r *participantRepo) Update(ctx context.Context, p *model.Participant) error {
	return r.db.WithContext(ctx).
		Model(p).
		Select("name", "login_id").
		Updates(p).Error
}

func (r *participantRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("participant_id = ?", id).Delete(&model.Completion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("participant_id = ?", id).Delete(&model.Assignment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Participant{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
