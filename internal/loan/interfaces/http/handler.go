// Package http 贷款模块 HTTP 接口层
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authhttp "github.com/wyfcoding/loanorigination/internal/auth/interfaces/http"
	"github.com/wyfcoding/loanorigination/internal/loan/application"
	"github.com/wyfcoding/loanorigination/internal/loan/domain"
	"github.com/wyfcoding/loanorigination/pkg/apperrors"
	"github.com/wyfcoding/loanorigination/pkg/response"
)

// LoanHandler 贷款 HTTP 处理器
type LoanHandler struct {
	svc *application.LoanService
}

// NewLoanHandler 创建贷款 HTTP 处理器
func NewLoanHandler(svc *application.LoanService) *LoanHandler {
	return &LoanHandler{svc: svc}
}

// RegisterRoutes 注册贷款路由
func (h *LoanHandler) RegisterRoutes(r *gin.RouterGroup) {
	loans := r.Group("/loan-applications")
	{
		loans.POST("", h.Create)
		loans.GET("", h.List)
		loans.GET("/:id", h.Get)
		loans.PUT("/:id", h.Update)
		loans.DELETE("/:id", h.Delete)
		loans.PATCH("/:id/status", h.Transition)
		loans.PATCH("/:id/credit-risk", h.AssociateCreditRisk)
		loans.POST("/:id/notes", h.AddNote)
		loans.GET("/:id/notes", h.ListNotes)
		loans.POST("/:id/evaluate", h.Evaluate)
	}
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid loan application id")
	}
	return uint(id), nil
}

// actorID 取当前鉴权用户，未经过鉴权中间件时为空
func actorID(c *gin.Context) *uint {
	user, ok := authhttp.CurrentUser(c)
	if !ok {
		return nil
	}
	id := user.ID
	return &id
}

// Create 建档贷款申请
func (h *LoanHandler) Create(c *gin.Context) {
	var req application.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	loan, err := h.svc.Create(c.Request.Context(), &req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

// Get 查询申请
func (h *LoanHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	loan, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// List 分页查询申请列表
func (h *LoanHandler) List(c *gin.Context) {
	page, perPage, err := response.PageParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := domain.SearchFilter{Page: page, PerPage: perPage}
	if raw := c.Query("customer_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, apperrors.Validation("invalid customer_id filter"))
			return
		}
		id := uint(v)
		filter.CustomerID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			response.Error(c, apperrors.Validation("invalid status filter %q", raw))
			return
		}
		filter.Status = &status
	}
	filter.IsActive = queryBool(c, "is_active")
	filter.IsNew = queryBool(c, "is_new")
	filter.IsAnswered = queryBool(c, "is_answered")
	filter.IsApproved = queryBool(c, "is_approved")
	filter.IsRejected = queryBool(c, "is_rejected")
	filter.IsArchived = queryBool(c, "is_archived")

	loans, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPage(loans, total, page, perPage))
}

// Update 更新财务条款
func (h *LoanHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req application.UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	loan, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// Delete 软删除申请
func (h *LoanHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.svc.SoftDelete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Transition 执行状态转换
func (h *LoanHandler) Transition(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req application.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	loan, err := h.svc.TransitionStatus(c.Request.Context(), id, &req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// AssociateCreditRisk 关联信用风险
func (h *LoanHandler) AssociateCreditRisk(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req application.AssociateCreditRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	note, err := h.svc.AssociateCreditRisk(c.Request.Context(), id, &req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// AddNote 追加备注
func (h *LoanHandler) AddNote(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req application.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	note, err := h.svc.AddNote(c.Request.Context(), id, &req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// ListNotes 返回申请的全部备注
func (h *LoanHandler) ListNotes(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	notes, err := h.svc.ListNotes(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

// Evaluate 触发自动评估
func (h *LoanHandler) Evaluate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.svc.Evaluate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func queryBool(c *gin.Context, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
