package repository

import (
	"context"

	"gorm.io/gorm"

	"ccrt-portal/backend/internal/model"
)

// AdminRepository administrator credential access.
type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	UpdatePasswordHash(ctx context.Context, username, hash string) error
}

type adminRepo struct {
	db *gorm.DB
}

// NewAdminRepo creates an AdminRepository.
func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) Create(ctx context.Context, admin *model.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepo) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("username = ?", username).
		Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
