package domain

import "context"

// SearchFilter 客户列表查询条件，指针字段为空表示不过滤
type SearchFilter struct {
	NID         *string
	Name        *string
	Email       *string
	IsActive    *bool
	IsAssigned  *bool
	PortfolioID *uint
	PromoterID  *uint
	Page        int
	PerPage     int
}

// Repository 客户聚合仓储接口
type Repository interface {
	// CreateAggregate 在单个事务语境内落库聚合根及其全部子记录
	CreateAggregate(ctx context.Context, customer *Customer) error
	// GetByID 返回带全部子记录的聚合，未找到返回 (nil, nil)
	GetByID(ctx context.Context, id uint) (*Customer, error)
	// GetByNID 按身份证号查询聚合根（不带子记录），未找到返回 (nil, nil)
	GetByNID(ctx context.Context, nid string) (*Customer, error)
	// NIDExists 身份证号是否已被占用
	NIDExists(ctx context.Context, nid string) (bool, error)
	// UpdateRoot 仅保存聚合根标量字段，不触碰关联
	UpdateRoot(ctx context.Context, customer *Customer) error
	// SaveDetail 新增或更新个人信息
	SaveDetail(ctx context.Context, detail *CustomerDetail) error
	// SaveFinancialInfo 新增或更新财务信息
	SaveFinancialInfo(ctx context.Context, info *FinancialInfo) error
	// SaveJobInfo 新增或更新工作信息
	SaveJobInfo(ctx context.Context, info *JobInfo) error
	// SaveVehicle 新增或更新车辆信息
	SaveVehicle(ctx context.Context, vehicle *Vehicle) error
	// SaveCompany 新增或更新雇主信息
	SaveCompany(ctx context.Context, company *Company) error
	// Search 按条件分页查询，结果预加载个人信息，按创建时间倒序
	Search(ctx context.Context, filter SearchFilter) ([]Customer, int64, error)
}

// PortfolioRepository 组合与推广员目录查询接口
type PortfolioRepository interface {
	PortfolioExists(ctx context.Context, id uint) (bool, error)
	PromoterExists(ctx context.Context, id uint) (bool, error)
}
