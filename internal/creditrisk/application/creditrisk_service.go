// Package application 信用风险目录应用服务
package application

import (
	"context"

	"github.com/wyfcoding/loanorigination/internal/creditrisk/domain"
	"github.com/wyfcoding/loanorigination/pkg/apperrors"
	"github.com/wyfcoding/loanorigination/pkg/logger"
)

// 默认风险目录，空库启动时灌入
var defaultCatalog = map[string][]string{
	"Capacity":  {"Over-indebtedness", "Unstable income", "Insufficient income"},
	"Character": {"Payment delinquency", "Adverse credit bureau record"},
	"Identity":  {"Identity mismatch", "Unverifiable references"},
}

// CreditRiskService 信用风险目录应用服务
type CreditRiskService struct {
	repo domain.Repository
}

// NewCreditRiskService 创建信用风险应用服务
func NewCreditRiskService(repo domain.Repository) *CreditRiskService {
	return &CreditRiskService{repo: repo}
}

// ListCategories 返回全部风险分类
func (s *CreditRiskService) ListCategories(ctx context.Context) ([]domain.CreditRiskCategory, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list credit risk categories", err)
	}
	return categories, nil
}

// ListRisks 返回全部有效风险项
func (s *CreditRiskService) ListRisks(ctx context.Context) ([]domain.CreditRisk, error) {
	risks, err := s.repo.ListRisks(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list credit risks", err)
	}
	return risks, nil
}

// GetRisk 按 ID 返回风险项
func (s *CreditRiskService) GetRisk(ctx context.Context, id uint) (*domain.CreditRisk, error) {
	risk, err := s.repo.GetRisk(ctx, id)
	if err != nil {
		return nil, apperrors.Persistence("get credit risk", err)
	}
	if risk == nil {
		return nil, apperrors.NotFound("CreditRisk", id)
	}
	return risk, nil
}

// GetRiskName 返回有效风险项名称，未找到返回空串，供贷款模块关联校验
func (s *CreditRiskService) GetRiskName(ctx context.Context, id uint) (string, error) {
	risk, err := s.repo.GetRisk(ctx, id)
	if err != nil {
		return "", err
	}
	if risk == nil || !risk.IsActive {
		return "", nil
	}
	return risk.Name, nil
}

// EnsureDefaultCatalog 空库时灌入默认风险目录，幂等
func (s *CreditRiskService) EnsureDefaultCatalog(ctx context.Context) error {
	count, err := s.repo.CountRisks(ctx)
	if err != nil {
		return apperrors.Persistence("count credit risks", err)
	}
	if count > 0 {
		return nil
	}

	for name, risks := range defaultCatalog {
		category := &domain.CreditRiskCategory{Name: name}
		if err := s.repo.CreateCategory(ctx, category); err != nil {
			return apperrors.Persistence("seed credit risk category", err)
		}
		for _, riskName := range risks {
			risk := &domain.CreditRisk{
				CategoryID: &category.ID,
				Name:       riskName,
				IsActive:   true,
			}
			if err := s.repo.CreateRisk(ctx, risk); err != nil {
				return apperrors.Persistence("seed credit risk", err)
			}
		}
	}

	logger.Info(ctx, "Default credit risk catalog seeded")
	return nil
}
