// Package domain 贷款申请聚合领域模型与状态机
package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/loanorigination/pkg/apperrors"
)

// LoanApplication 贷款申请聚合根。状态标志由 ApplyStatus 维护，不得手工改写。
type LoanApplication struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CustomerID uint   `gorm:"column:customer_id;index;not null" json:"customer_id"`
	Status     Status `gorm:"column:status;type:varchar(50);not null;index" json:"status"`

	// UserID 建档经办用户，系统外写入（如批量导入）时为空
	UserID *uint `gorm:"column:user_id;index" json:"user_id"`

	// IsActive 软删除标志，false 表示已删除但行保留可查
	IsActive bool `gorm:"column:is_active;not null;default:true" json:"is_active"`

	IsNew      bool `gorm:"column:is_new;not null;default:true" json:"is_new"`
	IsEdited   bool `gorm:"column:is_edited;not null;default:false" json:"is_edited"`
	IsAnswered bool `gorm:"column:is_answered;not null;default:false" json:"is_answered"`
	IsApproved bool `gorm:"column:is_approved;not null;default:false" json:"is_approved"`
	IsRejected bool `gorm:"column:is_rejected;not null;default:false" json:"is_rejected"`
	IsArchived bool `gorm:"column:is_archived;not null;default:false" json:"is_archived"`

	ChangedStatusAt *time.Time `gorm:"column:changed_status_at" json:"changed_status_at"`
	ApprovedAt      *time.Time `gorm:"column:approved_at" json:"approved_at"`
	RejectedAt      *time.Time `gorm:"column:rejected_at" json:"rejected_at"`
	ArchivedAt      *time.Time `gorm:"column:archived_at" json:"archived_at"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	Detail *LoanApplicationDetail `gorm:"foreignKey:LoanApplicationID" json:"detail"`
	Notes  []Note                 `gorm:"foreignKey:LoanApplicationID" json:"notes"`
}

// TableName 表名
func (LoanApplication) TableName() string { return "loan_applications" }

// NewLoanApplication 以 received 状态创建申请
func NewLoanApplication(customerID uint, detail *LoanApplicationDetail) *LoanApplication {
	return &LoanApplication{
		CustomerID: customerID,
		Status:     StatusReceived,
		IsActive:   true,
		IsNew:      true,
		Detail:     detail,
	}
}

// ApplyStatus 执行状态转换并同步全部派生标志与时间戳
func (l *LoanApplication) ApplyStatus(target Status, now time.Time) error {
	if l.Status.IsTerminal() {
		return apperrors.InvalidTransition(
			"cannot transition from '%s': it is a terminal status", l.Status)
	}
	if !l.Status.CanTransitionTo(target) {
		return apperrors.InvalidTransition(
			"cannot transition from '%s' to '%s'; allowed transitions: %s",
			l.Status, target, joinStatuses(l.Status.AllowedNext()))
	}

	l.Status = target
	l.ChangedStatusAt = &now
	l.IsNew = false

	switch target {
	case StatusApproved:
		l.IsApproved = true
		l.IsAnswered = true
		l.ApprovedAt = &now
	case StatusRejected:
		l.IsRejected = true
		l.IsAnswered = true
		l.RejectedAt = &now
	case StatusArchived:
		l.IsArchived = true
		l.ArchivedAt = &now
	}
	return nil
}

// LoanApplicationDetail 贷款申请财务条款
type LoanApplicationDetail struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	LoanApplicationID uint            `gorm:"column:loan_application_id;index;not null" json:"-"`
	Amount            decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	Term              int             `gorm:"column:term;not null" json:"term"`
	Rate              decimal.Decimal `gorm:"column:rate;type:decimal(10,4);not null" json:"rate"`
	Quota             decimal.Decimal `gorm:"column:quota;type:decimal(20,2);default:0" json:"quota"`
	Purpose           *string         `gorm:"column:purpose;type:varchar(255)" json:"purpose"`
	PaymentFrequency  *string         `gorm:"column:payment_frequency;type:varchar(50)" json:"payment_frequency"`
	CustomerComment   *string         `gorm:"column:customer_comment;type:text" json:"customer_comment"`
	CreatedAt         time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 表名
func (LoanApplicationDetail) TableName() string { return "loan_application_details" }

var (
	rateCeiling = decimal.NewFromInt(100)
)

// Validate 校验财务条款
func (d *LoanApplicationDetail) Validate() error {
	if !d.Amount.IsPositive() {
		return apperrors.Validation("amount must be greater than 0")
	}
	if d.Term <= 0 {
		return apperrors.Validation("term must be greater than 0")
	}
	if d.Rate.IsNegative() || d.Rate.GreaterThan(rateCeiling) {
		return apperrors.Validation("rate must be between 0 and 100")
	}
	if d.Quota.IsNegative() {
		return apperrors.Validation("quota must be greater than or equal to 0")
	}
	return nil
}

// Note 贷款申请备注，追加式日志，信用风险关联以备注为准
type Note struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	LoanApplicationID uint      `gorm:"column:loan_application_id;index;not null" json:"-"`
	Content           string    `gorm:"column:content;type:text;not null" json:"content"`
	AuthorID          *uint     `gorm:"column:author_id" json:"author_id"`
	CreatedAt         time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName 表名
func (Note) TableName() string { return "loan_application_notes" }
