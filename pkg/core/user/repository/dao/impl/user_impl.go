package dao

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperr "startup-directory/pkg/common/errors"
	"startup-directory/pkg/core/user/model"
	"startup-directory/pkg/core/user/repository/dao"
)

var ErrUserNotFound = apperr.NotFound("user not found")

type GormUserRepository struct {
	db *gorm.DB
}

var _ dao.UserRepository = (*GormUserRepository)(nil)

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) QueryByID(ctx context.Context, id string) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Select("id", "username", "avatar", "created_at", "updated_at").
		Where("id = ?", id).
		First(&user).
		Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.User{}, ErrUserNotFound
	case err != nil:
		return model.User{}, fmt.Errorf("user query failed: %w", apperr.WrapGormError(err))
	default:
		return user, nil
	}
}

func (r *GormUserRepository) QueryByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).
		Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.User{}, ErrUserNotFound
	case err != nil:
		return model.User{}, fmt.Errorf("credential lookup failed: %w", apperr.WrapGormError(err))
	default:
		return user, nil
	}
}

// Check username existence
func (r *GormUserRepository) IsUsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", apperr.WrapGormError(err))
	}
	return count > 0, nil
}

// Create new user with transaction
func (r *GormUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if apperr.IsDuplicateError(err) {
				return apperr.WrapGormError(err)
			}
			return fmt.Errorf("user creation failed: %w", apperr.WrapGormError(err))
		}
		return nil
	})
}
