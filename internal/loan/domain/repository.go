package domain

import "context"

// SearchFilter 贷款申请列表查询条件，指针字段为空表示不过滤
type SearchFilter struct {
	CustomerID *uint
	Status     *Status
	IsActive   *bool
	IsNew      *bool
	IsAnswered *bool
	IsApproved *bool
	IsRejected *bool
	IsArchived *bool
	Page       int
	PerPage    int
}

// Repository 贷款申请仓储接口
type Repository interface {
	// Create 落库申请根与财务条款，需在事务语境内调用
	Create(ctx context.Context, loan *LoanApplication) error
	// GetByID 返回带条款与备注的申请，未找到返回 (nil, nil)
	GetByID(ctx context.Context, id uint) (*LoanApplication, error)
	// UpdateRoot 仅保存申请根标量字段
	UpdateRoot(ctx context.Context, loan *LoanApplication) error
	// SaveDetail 更新财务条款
	SaveDetail(ctx context.Context, detail *LoanApplicationDetail) error
	// AddNote 追加备注
	AddNote(ctx context.Context, note *Note) error
	// ListNotes 按时间顺序返回申请的全部备注
	ListNotes(ctx context.Context, loanID uint) ([]Note, error)
	// Search 按条件分页查询，预加载条款，按创建时间倒序
	Search(ctx context.Context, filter SearchFilter) ([]LoanApplication, int64, error)
	// SoftDelete 将申请标记为非活跃，行保留且仍可查询
	SoftDelete(ctx context.Context, id uint) error
}

// CustomerDirectory 客户目录查询接口，用于建档引用校验
type CustomerDirectory interface {
	CustomerExists(ctx context.Context, id uint) (bool, error)
}

// CreditRiskCatalog 信用风险目录查询接口，用于风险关联校验
type CreditRiskCatalog interface {
	// GetRiskName 返回风险项名称，未找到返回 ("", nil)
	GetRiskName(ctx context.Context, id uint) (string, error)
}
