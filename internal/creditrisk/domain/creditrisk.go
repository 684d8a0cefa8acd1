// Package domain 信用风险目录领域模型
package domain

import (
	"context"
	"time"
)

// CreditRiskCategory 风险分类
type CreditRiskCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);uniqueIndex;not null" json:"name"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 表名
func (CreditRiskCategory) TableName() string { return "credit_risk_categories" }

// CreditRisk 具体风险项，贷款分析时关联到申请
type CreditRisk struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CategoryID  *uint     `gorm:"column:category_id;index" json:"category_id"`
	Name        string    `gorm:"column:name;type:varchar(255);uniqueIndex;not null" json:"name"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 表名
func (CreditRisk) TableName() string { return "credit_risks" }

// Repository 信用风险目录仓储接口
type Repository interface {
	// ListCategories 全量返回风险分类
	ListCategories(ctx context.Context) ([]CreditRiskCategory, error)
	// ListRisks 全量返回有效风险项
	ListRisks(ctx context.Context) ([]CreditRisk, error)
	// GetRisk 按 ID 查询风险项，未找到返回 (nil, nil)
	GetRisk(ctx context.Context, id uint) (*CreditRisk, error)
	// CountRisks 风险项总数，用于判断是否需要灌入默认目录
	CountRisks(ctx context.Context) (int64, error)
	// CreateCategory 新增风险分类
	CreateCategory(ctx context.Context, category *CreditRiskCategory) error
	// CreateRisk 新增风险项
	CreateRisk(ctx context.Context, risk *CreditRisk) error
}
