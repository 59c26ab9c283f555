package repository

import (
	"context"

	"gorm.io/gorm"

	"ccrt-portal/backend/internal/model"
)

// BAARepository business associate access.
type BAARepository interface {
	Create(ctx context.Context, b *model.BAA) error
	GetByID(ctx context.Context, id uint) (*model.BAA, error)
	GetByLoginID(ctx context.Context, loginID string) (*model.BAA, error)
	LoginIDTaken(ctx context.Context, loginID string, excludeID uint) (bool, error)
	List(ctx context.Context) ([]model.BAA, error)
	Update(ctx context.Context, b *model.BAA) error
	// Delete removes the BAA and its completion record.
	Delete(ctx context.Context, id uint) error
}

type baaRepo struct {
	db *gorm.DB
}

// NewBAARepo creates a BAARepository.
func NewBAARepo(db *gorm.DB) BAARepository {
	return &baaRepo{db: db}
}

func (r *baaRepo) Create(ctx context.Context, b *model.BAA) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *baaRepo) GetByID(ctx context.Context, id uint) (*model.BAA, error) {
	var b model.BAA
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *baaRepo) GetByLoginID(ctx context.Context, loginID string) (*model.BAA, error) {
	var b model.BAA
	err := r.db.WithContext(ctx).
		Where("login_id = ?", loginID).
		Order("id ASC").
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *baaRepo) LoginIDTaken(ctx context.Context, loginID string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.BAA{}).
		Where("login_id = ? AND id <> ?", loginID, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *baaRepo) List(ctx context.Context) ([]model.BAA, error) {
	var bs []model.BAA
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&bs).Error
	return bs, err
}

func (r *baaRepo) Update(ctx context.Context, b *model.BAA) error {
	return r.db.WithContext(ctx).
		Model(b).
		Select("name", "email", "login_id", "jotform_embed").
		Updates(b).Error
}

func (r *baaRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("baa_id = ?", id).Delete(&model.BAACompletion{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.BAA{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
