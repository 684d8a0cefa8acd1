package memory

import (
	"context"
	"sync"
)

// PortfolioRepository 内存组合/推广员目录，供测试使用
type PortfolioRepository struct {
	mu         sync.RWMutex
	portfolios map[uint]bool
	promoters  map[uint]bool
}

// NewPortfolioRepository 创建内存目录仓储
func NewPortfolioRepository() *PortfolioRepository {
	return &PortfolioRepository{
		portfolios: make(map[uint]bool),
		promoters:  make(map[uint]bool),
	}
}

// AddPortfolio 注册一个有效组合
func (r *PortfolioRepository) AddPortfolio(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.portfolios[id] = true
}

// AddPromoter 注册一个有效推广员
func (r *PortfolioRepository) AddPromoter(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promoters[id] = true
}

// PortfolioExists 组合是否存在
func (r *PortfolioRepository) PortfolioExists(_ context.Context, id uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.portfolios[id], nil
}

// PromoterExists 推广员是否存在
func (r *PortfolioRepository) PromoterExists(_ context.Context, id uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.promoters[id], nil
}
