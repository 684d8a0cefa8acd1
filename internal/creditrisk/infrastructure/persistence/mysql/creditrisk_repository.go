// Package mysql 信用风险目录的 MySQL 仓储实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wyfcoding/loanorigination/internal/creditrisk/domain"
	"github.com/wyfcoding/loanorigination/pkg/db"
)

// CreditRiskRepository 信用风险目录仓储
type CreditRiskRepository struct {
	db *db.DB
}

// NewCreditRiskRepository 创建信用风险仓储实例
func NewCreditRiskRepository(database *db.DB) *CreditRiskRepository {
	return &CreditRiskRepository{db: database}
}

// ListCategories 全量返回风险分类
func (r *CreditRiskRepository) ListCategories(ctx context.Context) ([]domain.CreditRiskCategory, error) {
	var categories []domain.CreditRiskCategory
	if err := r.db.DB.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list credit risk categories: %w", err)
	}
	return categories, nil
}

// ListRisks 全量返回有效风险项
func (r *CreditRiskRepository) ListRisks(ctx context.Context) ([]domain.CreditRisk, error) {
	var risks []domain.CreditRisk
	err := r.db.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&risks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list credit risks: %w", err)
	}
	return risks, nil
}

// GetRisk 按 ID 查询风险项，未找到返回 (nil, nil)
func (r *CreditRiskRepository) GetRisk(ctx context.Context, id uint) (*domain.CreditRisk, error) {
	var risk domain.CreditRisk
	if err := r.db.DB.WithContext(ctx).First(&risk, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get credit risk: %w", err)
	}
	return &risk, nil
}

// CountRisks 风险项总数
func (r *CreditRiskRepository) CountRisks(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.DB.WithContext(ctx).Model(&domain.CreditRisk{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count credit risks: %w", err)
	}
	return count, nil
}

// CreateCategory 新增风险分类
func (r *CreditRiskRepository) CreateCategory(ctx context.Context, category *domain.CreditRiskCategory) error {
	if err := r.db.DB.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create credit risk category: %w", err)
	}
	return nil
}

// CreateRisk 新增风险项
func (r *CreditRiskRepository) CreateRisk(ctx context.Context, risk *domain.CreditRisk) error {
	if err := r.db.DB.WithContext(ctx).Create(risk).Error; err != nil {
		return fmt.Errorf("failed to create credit risk: %w", err)
	}
	return nil
}
