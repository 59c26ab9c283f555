package repository

import (
	"context"

	"gorm.io/gorm"

	"ccrt-portal/backend/internal/model"
)

// FormRepository form catalog access.
type FormRepository interface {
	Create(ctx context.Context, f *model.Form) error
	GetByID(ctx context.Context, id uint) (*model.Form, error)
	List(ctx context.Context) ([]model.Form, error)
	ListByIDs(ctx context.Context, ids []uint) ([]model.Form, error)
	Update(ctx context.Context, f *model.Form) error
	// Delete removes the form with every assignment and completion of it.
	Delete(ctx context.Context, id uint) error
}

type formRepo struct {
	db *gorm.DB
}

// NewFormRepo creates a FormRepository.
func NewFormRepo(db *gorm.DB) FormRepository {
	return &formRepo{db: db}
}

func (r *formRepo) Create(ctx context.Context, f *model.Form) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *formRepo) GetByID(ctx context.Context, id uint) (*model.Form, error) {
	var f model.Form
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *formRepo) List(ctx context.Context) ([]model.Form, error) {
	var fs []model.Form
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&fs).Error
	return fs, err
}

func (r *formRepo) ListByIDs(ctx context.Context, ids []uint) ([]model.Form, error) {
	var fs []model.Form
	if len(ids) == 0 {
		return fs, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&fs).Error
	return fs, err
}

func (r *formRepo) Update(ctx context.Context, f *model.Form) error {
	return r.db.WithContext(ctx).
		Model(f).
		Select("name", "jotform_embed", "button_image").
		Updates(f).Error
}

func (r *formRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("form_id = ?", id).Delete(&model.Completion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", id).Delete(&model.Assignment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Form{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
