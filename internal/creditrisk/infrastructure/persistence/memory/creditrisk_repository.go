// Package memory 信用风险目录的内存实现，供测试使用
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wyfcoding/loanorigination/internal/creditrisk/domain"
)

// CreditRiskRepository 内存信用风险仓储
type CreditRiskRepository struct {
	mu         sync.RWMutex
	nextID     uint
	categories map[uint]domain.CreditRiskCategory
	risks      map[uint]domain.CreditRisk
}

// NewCreditRiskRepository 创建内存信用风险仓储
func NewCreditRiskRepository() *CreditRiskRepository {
	return &CreditRiskRepository{
		nextID:     1,
		categories: make(map[uint]domain.CreditRiskCategory),
		risks:      make(map[uint]domain.CreditRisk),
	}
}

// ListCategories 全量返回风险分类
func (r *CreditRiskRepository) ListCategories(_ context.Context) ([]domain.CreditRiskCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CreditRiskCategory, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListRisks 全量返回有效风险项
func (r *CreditRiskRepository) ListRisks(_ context.Context) ([]domain.CreditRisk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CreditRisk, 0, len(r.risks))
	for _, risk := range r.risks {
		if risk.IsActive {
			out = append(out, risk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetRisk 未找到返回 (nil, nil)
func (r *CreditRiskRepository) GetRisk(_ context.Context, id uint) (*domain.CreditRisk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risk, ok := r.risks[id]
	if !ok {
		return nil, nil
	}
	return &risk, nil
}

// CountRisks 风险项总数
func (r *CreditRiskRepository) CountRisks(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.risks)), nil
}

// CreateCategory 新增风险分类
func (r *CreditRiskRepository) CreateCategory(_ context.Context, category *domain.CreditRiskCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	category.ID = r.nextID
	r.nextID++
	r.categories[category.ID] = *category
	return nil
}

// CreateRisk 新增风险项
func (r *CreditRiskRepository) CreateRisk(_ context.Context, risk *domain.CreditRisk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	risk.ID = r.nextID
	r.nextID++
	r.risks[risk.ID] = *risk
	return nil
}
