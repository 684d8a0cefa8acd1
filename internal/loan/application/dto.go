package application

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/loanorigination/internal/loan/domain"
	"github.com/wyfcoding/loanorigination/pkg/apperrors"
)

// CreateLoanRequest 贷款申请建档入参
type CreateLoanRequest struct {
	CustomerID       uint             `json:"customer_id"`
	Amount           decimal.Decimal  `json:"amount"`
	Term             int              `json:"term"`
	Rate             decimal.Decimal  `json:"rate"`
	Quota            *decimal.Decimal `json:"quota"`
	Purpose          *string          `json:"purpose"`
	PaymentFrequency *string          `json:"payment_frequency"`
	CustomerComment  *string          `json:"customer_comment"`
}

// Validate 校验建档入参
func (req *CreateLoanRequest) Validate() error {
	if req.CustomerID == 0 {
		return apperrors.Validation("customer_id is required")
	}
	return req.toDetail().Validate()
}

func (req *CreateLoanRequest) toDetail() *domain.LoanApplicationDetail {
	detail := &domain.LoanApplicationDetail{
		Amount:           req.Amount,
		Term:             req.Term,
		Rate:             req.Rate,
		Purpose:          req.Purpose,
		PaymentFrequency: req.PaymentFrequency,
		CustomerComment:  req.CustomerComment,
	}
	if req.Quota != nil {
		detail.Quota = *req.Quota
	}
	return detail
}

// UpdateLoanRequest 贷款条款更新入参，空指针字段保持原值
type UpdateLoanRequest struct {
	Amount           *decimal.Decimal `json:"amount"`
	Term             *int             `json:"term"`
	Rate             *decimal.Decimal `json:"rate"`
	Quota            *decimal.Decimal `json:"quota"`
	Purpose          *string          `json:"purpose"`
	PaymentFrequency *string          `json:"payment_frequency"`
	CustomerComment  *string          `json:"customer_comment"`
}

// TransitionRequest 状态转换入参，备注可选、同事务写入
type TransitionRequest struct {
	Status string  `json:"status"`
	Note   *string `json:"note"`
}

// NoteRequest 备注入参
type NoteRequest struct {
	Content string `json:"content"`
}

// Validate 校验备注入参
func (req *NoteRequest) Validate() error {
	if strings.TrimSpace(req.Content) == "" {
		return apperrors.Validation("note content must not be empty")
	}
	return nil
}

// AssociateCreditRiskRequest 关联信用风险入参
type AssociateCreditRiskRequest struct {
	CreditRiskID uint `json:"credit_risk_id"`
}

// Validate 校验关联入参
func (req *AssociateCreditRiskRequest) Validate() error {
	if req.CreditRiskID == 0 {
		return apperrors.Validation("credit_risk_id is required")
	}
	return nil
}

// EvaluationResult 自动评估结果。评估引擎尚未接入，固定返回 pending。
type EvaluationResult struct {
	LoanID     uint          `json:"loan_id"`
	Status     string        `json:"status"`
	Message    string        `json:"message"`
	LoanStatus domain.Status `json:"loan_status"`
}
