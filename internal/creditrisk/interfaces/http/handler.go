// Package http 信用风险目录 HTTP 接口层
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/loanorigination/internal/creditrisk/application"
	"github.com/wyfcoding/loanorigination/pkg/apperrors"
	"github.com/wyfcoding/loanorigination/pkg/response"
)

// CreditRiskHandler 信用风险 HTTP 处理器
type CreditRiskHandler struct {
	svc *application.CreditRiskService
}

// NewCreditRiskHandler 创建信用风险 HTTP 处理器
func NewCreditRiskHandler(svc *application.CreditRiskService) *CreditRiskHandler {
	return &CreditRiskHandler{svc: svc}
}

// RegisterRoutes 注册信用风险路由
func (h *CreditRiskHandler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/credit-risks")
	{
		group.GET("", h.ListCategories)
		group.GET("/risks", h.ListRisks)
		group.GET("/risks/:id", h.GetRisk)
	}
}

// ListCategories 返回全部风险分类
func (h *CreditRiskHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// ListRisks 返回全部有效风险项
func (h *CreditRiskHandler) ListRisks(c *gin.Context) {
	risks, err := h.svc.ListRisks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, risks)
}

// GetRisk 按 ID 返回风险项
func (h *CreditRiskHandler) GetRisk(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.Validation("invalid credit risk id"))
		return
	}

	risk, err := h.svc.GetRisk(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, risk)
}
