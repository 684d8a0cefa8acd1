package mysql

import (
	"context"
	"fmt"

	"github.com/wyfcoding/loanorigination/internal/customer/domain"
	"github.com/wyfcoding/loanorigination/pkg/db"
)

// PortfolioRepository 组合与推广员目录仓储
type PortfolioRepository struct {
	db *db.DB
}

// NewPortfolioRepository 创建目录仓储实例
func NewPortfolioRepository(database *db.DB) *PortfolioRepository {
	return &PortfolioRepository{db: database}
}

// PortfolioExists 组合是否存在且有效
func (r *PortfolioRepository) PortfolioExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&domain.Portfolio{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check portfolio: %w", err)
	}
	return count > 0, nil
}

// PromoterExists 推广员是否存在且有效
func (r *PortfolioRepository) PromoterExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&domain.Promoter{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check promoter: %w", err)
	}
	return count > 0, nil
}
