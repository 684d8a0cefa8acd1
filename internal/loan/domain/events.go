package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LoanCreatedEvent 申请建档事件
type LoanCreatedEvent struct {
	LoanID     uint            `json:"loan_id"`
	CustomerID uint            `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     Status          `json:"status"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// LoanStatusChangedEvent 状态转换事件
type LoanStatusChangedEvent struct {
	LoanID     uint      `json:"loan_id"`
	CustomerID uint      `json:"customer_id"`
	FromStatus Status    `json:"from_status"`
	ToStatus   Status    `json:"to_status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher 领域事件发布接口。发布失败不阻塞主流程。
type EventPublisher interface {
	PublishLoanCreated(ctx context.Context, event *LoanCreatedEvent) error
	PublishStatusChanged(ctx context.Context, event *LoanStatusChangedEvent) error
}
