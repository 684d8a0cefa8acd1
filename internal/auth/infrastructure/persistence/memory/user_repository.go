// Package memory 用户仓储的内存实现，供测试使用
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/wyfcoding/loanorigination/internal/auth/domain"
)

// UserRepository 内存用户仓储
type UserRepository struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]domain.User
}

// NewUserRepository 创建内存用户仓储
func NewUserRepository() *UserRepository {
	return &UserRepository{nextID: 1, users: make(map[uint]domain.User)}
}

// GetByUsername 未找到返回 (nil, nil)
func (r *UserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

// GetByID 未找到返回 (nil, nil)
func (r *UserRepository) GetByID(_ context.Context, id uint) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	user := u
	return &user, nil
}

// Create 新增用户
func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = r.nextID
	r.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}
