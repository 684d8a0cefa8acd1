// Package response 提供统一的 HTTP 响应封装、错误码映射与分页结构
package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/loanorigination/pkg/apperrors"
)

// Error 将业务错误映射为 HTTP 状态码并输出 JSON
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindInvalidTransition:
		status = http.StatusUnprocessableEntity
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindConflict:
		status = http.StatusConflict
	case apperrors.KindPersistence:
		status = http.StatusBadRequest
	case apperrors.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.KindForbidden:
		status = http.StatusForbidden
	}
	c.JSON(status, gin.H{"error": apperrors.MessageOf(err)})
}

// Page 通用分页响应
type Page[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Pages   int   `json:"pages"`
}

// NewPage 构造分页响应，pages = ceil(total/perPage)，total 为 0 时 pages 为 0
func NewPage[T any](items []T, total int64, page, perPage int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if total > 0 {
		pages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Page[T]{Items: items, Total: total, Page: page, PerPage: perPage, Pages: pages}
}

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// PageParams 解析并校验 page/per_page 查询参数（page ≥ 1，1 ≤ per_page ≤ 100）
func PageParams(c *gin.Context) (page, perPage int, err error) {
	page, err = queryInt(c, "page", 1)
	if err != nil || page < 1 {
		return 0, 0, apperrors.Validation("page must be an integer >= 1")
	}
	perPage, err = queryInt(c, "per_page", defaultPerPage)
	if err != nil || perPage < 1 || perPage > maxPerPage {
		return 0, 0, apperrors.Validation("per_page must be an integer between 1 and %d", maxPerPage)
	}
	return page, perPage, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
