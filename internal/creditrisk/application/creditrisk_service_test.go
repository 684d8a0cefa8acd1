package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/loanorigination/internal/creditrisk/infrastructure/persistence/memory"
	"github.com/wyfcoding/loanorigination/pkg/apperrors"
)

func TestEnsureDefaultCatalogIdempotent(t *testing.T) {
	svc := NewCreditRiskService(memory.NewCreditRiskRepository())
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaultCatalog(ctx))

	risks, err := svc.ListRisks(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, risks)
	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, categories)

	// 再跑一遍不得重复灌入
	require.NoError(t, svc.EnsureDefaultCatalog(ctx))
	again, err := svc.ListRisks(ctx)
	require.NoError(t, err)
	assert.Len(t, again, len(risks))
}

func TestGetRisk(t *testing.T) {
	svc := NewCreditRiskService(memory.NewCreditRiskRepository())
	ctx := context.Background()
	require.NoError(t, svc.EnsureDefaultCatalog(ctx))

	risks, err := svc.ListRisks(ctx)
	require.NoError(t, err)

	risk, err := svc.GetRisk(ctx, risks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, risks[0].Name, risk.Name)

	_, err = svc.GetRisk(ctx, 9999)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestGetRiskName(t *testing.T) {
	svc := NewCreditRiskService(memory.NewCreditRiskRepository())
	ctx := context.Background()
	require.NoError(t, svc.EnsureDefaultCatalog(ctx))

	risks, err := svc.ListRisks(ctx)
	require.NoError(t, err)

	name, err := svc.GetRiskName(ctx, risks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, risks[0].Name, name)

	// 未找到返回空串而非错误，由调用方决定语义
	name, err = svc.GetRiskName(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, name)
}
