// Package mysql 用户仓储的 MySQL 实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wyfcoding/loanorigination/internal/auth/domain"
	"github.com/wyfcoding/loanorigination/pkg/db"
)

// UserRepository 用户仓储
type UserRepository struct {
	db *db.DB
}

// NewUserRepository 创建用户仓储实例
func NewUserRepository(database *db.DB) *UserRepository {
	return &UserRepository{db: database}
}

// GetByUsername 按用户名查询，未找到返回 (nil, nil)
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// GetByID 按 ID 查询，未找到返回 (nil, nil)
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.DB.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Create 新增用户
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}
