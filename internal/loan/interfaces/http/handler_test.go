package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/loanorigination/internal/loan/application"
	"github.com/wyfcoding/loanorigination/internal/loan/domain"
	"github.com/wyfcoding/loanorigination/internal/loan/infrastructure/persistence/memory"
)

type stubCustomers map[uint]bool

func (s stubCustomers) CustomerExists(_ context.Context, id uint) (bool, error) {
	return s[id], nil
}

type stubRisks map[uint]string

func (s stubRisks) GetRiskName(_ context.Context, id uint) (string, error) {
	return s[id], nil
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := application.NewLoanService(
		memory.NewLoanRepository(),
		stubCustomers{1: true},
		stubRisks{10: "Over-indebtedness"},
		application.NoopTxManager(), nil, nil)

	engine := gin.New()
	NewLoanHandler(svc).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func createLoan(t *testing.T, engine *gin.Engine) uint {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/v1/loan-applications", gin.H{
		"customer_id": 1,
		"amount":      "250000",
		"term":        36,
		"rate":        "15.5",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var loan domain.LoanApplication
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loan))
	return loan.ID
}

func TestCreateLoanStatusCodes(t *testing.T) {
	engine := newRouter(t)

	// 201 建档成功
	createLoan(t, engine)

	// 404 客户不存在
	w := doJSON(t, engine, http.MethodPost, "/api/v1/loan-applications", gin.H{
		"customer_id": 99999,
		"amount":      "250000",
		"term":        36,
		"rate":        "15.5",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Customer with ID 99999 not found")

	// 422 金额为零
	w = doJSON(t, engine, http.MethodPost, "/api/v1/loan-applications", gin.H{
		"customer_id": 1,
		"amount":      "0",
		"term":        36,
		"rate":        "15.5",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// 422 请求体不是 JSON
	req := httptest.NewRequest(http.MethodPost, "/api/v1/loan-applications", bytes.NewBufferString("{broken"))
	req.Header.Set("Content-Type", "application/json")
	w2 := httptest.NewRecorder()
	engine.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w2.Code)
}

func TestTransitionStatusCodes(t *testing.T) {
	engine := newRouter(t)
	createLoan(t, engine)

	// 422 非法转换，消息点名允许的目标
	w := doJSON(t, engine, http.MethodPatch, "/api/v1/loan-applications/1/status", gin.H{"status": "approved"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "verified")

	// 200 合法转换
	w = doJSON(t, engine, http.MethodPatch, "/api/v1/loan-applications/1/status", gin.H{"status": "verified"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var loan domain.LoanApplication
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loan))
	assert.Equal(t, domain.StatusVerified, loan.Status)
	assert.False(t, loan.IsNew)

	// 422 未知状态
	w = doJSON(t, engine, http.MethodPatch, "/api/v1/loan-applications/1/status", gin.H{"status": "pending"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetAndDeleteStatusCodes(t *testing.T) {
	engine := newRouter(t)
	createLoan(t, engine)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/loan-applications/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/loan-applications/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodDelete, "/api/v1/loan-applications/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// 软删除后行仍可查，is_active 翻为 false
	w = doJSON(t, engine, http.MethodGet, "/api/v1/loan-applications/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var loan domain.LoanApplication
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loan))
	assert.False(t, loan.IsActive)

	w = doJSON(t, engine, http.MethodDelete, "/api/v1/loan-applications/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssociateCreditRiskEndpoint(t *testing.T) {
	engine := newRouter(t)
	createLoan(t, engine)

	w := doJSON(t, engine, http.MethodPatch, "/api/v1/loan-applications/1/credit-risk", gin.H{"credit_risk_id": 10})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var note domain.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &note))
	assert.Equal(t, "[CREDIT_RISK] Associated credit risk: 'Over-indebtedness' (ID: 10)", note.Content)

	w = doJSON(t, engine, http.MethodPatch, "/api/v1/loan-applications/1/credit-risk", gin.H{"credit_risk_id": 77})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListEndpointPagination(t *testing.T) {
	engine := newRouter(t)
	createLoan(t, engine)
	createLoan(t, engine)
	createLoan(t, engine)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/loan-applications?page=1&per_page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Items   []domain.LoanApplication `json:"items"`
		Total   int64                    `json:"total"`
		Pages   int                      `json:"pages"`
		PerPage int                      `json:"per_page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Items, 2)

	// 422 非法分页参数
	w = doJSON(t, engine, http.MethodGet, "/api/v1/loan-applications?per_page=500", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// 422 非法状态过滤
	w = doJSON(t, engine, http.MethodGet, "/api/v1/loan-applications?status=bogus", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateEndpoint(t *testing.T) {
	engine := newRouter(t)
	createLoan(t, engine)

	w := doJSON(t, engine, http.MethodPut, "/api/v1/loan-applications/1", gin.H{"amount": "300000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var loan domain.LoanApplication
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loan))
	assert.True(t, loan.IsEdited)
	require.NotNil(t, loan.Detail)
	assert.True(t, loan.Detail.Amount.Equal(decimal.NewFromInt(300000)))
}

func TestEvaluateEndpoint(t *testing.T) {
	engine := newRouter(t)
	createLoan(t, engine)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/loan-applications/1/evaluate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result application.EvaluationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, uint(1), result.LoanID)
	assert.Equal(t, "pending", result.Status)
	assert.Equal(t, domain.StatusReceived, result.LoanStatus)
}
