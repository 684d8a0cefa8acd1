// Package http 客户模块 HTTP 接口层
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/loanorigination/internal/customer/application"
	"github.com/wyfcoding/loanorigination/internal/customer/domain"
	"github.com/wyfcoding/loanorigination/pkg/apperrors"
	"github.com/wyfcoding/loanorigination/pkg/response"
)

// CustomerHandler 客户 HTTP 处理器
type CustomerHandler struct {
	svc *application.CustomerService
}

// NewCustomerHandler 创建客户 HTTP 处理器
func NewCustomerHandler(svc *application.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// RegisterRoutes 注册需要鉴权的客户路由
func (h *CustomerHandler) RegisterRoutes(r *gin.RouterGroup) {
	customers := r.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.POST("/simple", h.CreateSimple)
		customers.GET("", h.List)
		customers.GET("/:id", h.Get)
		customers.PUT("/:id", h.Update)
		customers.PATCH("/:id/assign", h.Assign)
	}
}

// RegisterPublicRoutes 注册免鉴权路由
func (h *CustomerHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/customers/validate-nid", h.ValidateNID)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid customer id")
	}
	return uint(id), nil
}

// Create 创建完整客户聚合
func (h *CustomerHandler) Create(c *gin.Context) {
	var req application.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	customer, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// CreateSimple 快捷建档
func (h *CustomerHandler) CreateSimple(c *gin.Context) {
	var req application.CreateSimpleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	customer, err := h.svc.CreateSimple(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// Get 查询客户聚合
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	customer, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Update 更新客户
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req application.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	customer, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Assign 分派客户，目标组合或推广员经查询参数给出
func (h *CustomerHandler) Assign(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req application.AssignCustomerRequest
	if v, ok := queryUint(c, "portfolio_id"); ok {
		req.PortfolioID = &v
	}
	if v, ok := queryUint(c, "promoter_id"); ok {
		req.PromoterID = &v
	}
	if req.PortfolioID == nil && req.PromoterID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either portfolio_id or promoter_id is required"})
		return
	}

	customer, err := h.svc.Assign(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// List 分页查询客户列表
func (h *CustomerHandler) List(c *gin.Context) {
	page, perPage, err := response.PageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := domain.SearchFilter{Page: page, PerPage: perPage}
	if nid := c.Query("nid"); nid != "" {
		filter.NID = &nid
	}
	if name := c.Query("name"); name != "" {
		filter.Name = &name
	}
	if email := c.Query("email"); email != "" {
		filter.Email = &email
	}
	if v, ok := queryBool(c, "is_active"); ok {
		filter.IsActive = &v
	}
	if v, ok := queryBool(c, "is_assigned"); ok {
		filter.IsAssigned = &v
	}
	if v, ok := queryUint(c, "portfolio_id"); ok {
		filter.PortfolioID = &v
	}
	if v, ok := queryUint(c, "promoter_id"); ok {
		filter.PromoterID = &v
	}

	items, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPage(items, total, page, perPage))
}

// ValidateNID 公开的身份证号可用性校验
func (h *CustomerHandler) ValidateNID(c *gin.Context) {
	result, err := h.svc.ValidateNID(c.Request.Context(), c.Query("nid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func queryBool(c *gin.Context, key string) (bool, bool) {
	raw := c.Query(key)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

func queryUint(c *gin.Context, key string) (uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}
