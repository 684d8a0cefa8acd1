// Package domain 后台用户领域模型
package domain

import (
	"context"
	"time"
)

// User 后台操作用户。is_approved 为 false 时禁止登录。
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"column:username;type:varchar(255);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	FullName     *string   `gorm:"column:full_name;type:varchar(255)" json:"full_name"`
	IsApproved   bool      `gorm:"column:is_approved;not null;default:false" json:"is_approved"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 表名
func (User) TableName() string { return "users" }

// Repository 用户仓储接口
type Repository interface {
	// GetByUsername 按用户名查询，未找到返回 (nil, nil)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// GetByID 按 ID 查询，未找到返回 (nil, nil)
	GetByID(ctx context.Context, id uint) (*User, error)
	// Create 新增用户
	Create(ctx context.Context, user *User) error
}
