// Package mysql 客户聚合的 MySQL 仓储实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/loanorigination/internal/customer/domain"
	"github.com/wyfcoding/loanorigination/pkg/db"
)

// CustomerRepository 客户聚合仓储
type CustomerRepository struct {
	db *db.DB
}

// NewCustomerRepository 创建客户仓储实例
func NewCustomerRepository(database *db.DB) *CustomerRepository {
	return &CustomerRepository{db: database}
}

// getDB 优先使用上下文中的事务连接
func (r *CustomerRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := db.TxFromContext(ctx); ok {
		return tx
	}
	return r.db.DB.WithContext(ctx)
}

// CreateAggregate 落库聚合根与全部子记录，需在事务上下文中调用
func (r *CustomerRepository) CreateAggregate(ctx context.Context, customer *domain.Customer) error {
	conn := r.getDB(ctx)

	phones := customer.Phones
	addresses := customer.Addresses

	if err := conn.Omit(clause.Associations).Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	if customer.Detail != nil {
		customer.Detail.CustomerID = customer.ID
		if err := conn.Create(customer.Detail).Error; err != nil {
			return fmt.Errorf("failed to create customer detail: %w", err)
		}
	}
	if customer.FinancialInfo != nil {
		customer.FinancialInfo.CustomerID = customer.ID
		if err := conn.Create(customer.FinancialInfo).Error; err != nil {
			return fmt.Errorf("failed to create financial info: %w", err)
		}
	}
	if customer.JobInfo != nil {
		customer.JobInfo.CustomerID = customer.ID
		if err := conn.Create(customer.JobInfo).Error; err != nil {
			return fmt.Errorf("failed to create job info: %w", err)
		}
	}
	if customer.Vehicle != nil {
		customer.Vehicle.CustomerID = customer.ID
		if err := conn.Create(customer.Vehicle).Error; err != nil {
			return fmt.Errorf("failed to create vehicle: %w", err)
		}
	}
	if customer.Company != nil {
		customer.Company.CustomerID = customer.ID
		if err := conn.Create(customer.Company).Error; err != nil {
			return fmt.Errorf("failed to create company: %w", err)
		}
	}
	for i := range customer.References {
		customer.References[i].CustomerID = customer.ID
		if err := conn.Create(&customer.References[i]).Error; err != nil {
			return fmt.Errorf("failed to create reference: %w", err)
		}
	}
	for i := range customer.Accounts {
		customer.Accounts[i].CustomerID = customer.ID
		if err := conn.Create(&customer.Accounts[i]).Error; err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
	}

	owner := domain.OwnerRef{Kind: domain.OwnerKindCustomer, ID: customer.ID}
	if !domain.ValidOwnerKind(owner.Kind) {
		return fmt.Errorf("unsupported owner kind %q", owner.Kind)
	}
	for i := range phones {
		phones[i].Owner = owner
		if err := conn.Create(&phones[i]).Error; err != nil {
			return fmt.Errorf("failed to create phone: %w", err)
		}
	}
	for i := range addresses {
		if err := conn.Create(&addresses[i]).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		link := domain.Addressable{AddressID: addresses[i].ID, Owner: owner}
		if err := conn.Create(&link).Error; err != nil {
			return fmt.Errorf("failed to link address: %w", err)
		}
	}
	customer.Phones = phones
	customer.Addresses = addresses

	return nil
}

// GetByID 返回带全部子记录的聚合，未找到返回 (nil, nil)
func (r *CustomerRepository) GetByID(ctx context.Context, id uint) (*domain.Customer, error) {
	conn := r.getDB(ctx)

	var customer domain.Customer
	err := conn.
		Preload("Detail").
		Preload("FinancialInfo").
		Preload("JobInfo").
		Preload("References").
		Preload("Vehicle").
		Preload("Company").
		Preload("Accounts").
		First(&customer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if err := r.loadContacts(conn, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// loadContacts 手工装载多态电话与地址
func (r *CustomerRepository) loadContacts(conn *gorm.DB, customer *domain.Customer) error {
	owner := domain.OwnerRef{Kind: domain.OwnerKindCustomer, ID: customer.ID}

	var phones []domain.Phone
	if err := conn.
		Where("owner_type = ? AND owner_id = ?", owner.Kind, owner.ID).
		Order("id ASC").
		Find(&phones).Error; err != nil {
		return fmt.Errorf("failed to load phones: %w", err)
	}
	customer.Phones = phones

	var addresses []domain.Address
	if err := conn.
		Joins("JOIN addressables ON addressables.address_id = addresses.id").
		Where("addressables.owner_type = ? AND addressables.owner_id = ?", owner.Kind, owner.ID).
		Order("addresses.id ASC").
		Find(&addresses).Error; err != nil {
		return fmt.Errorf("failed to load addresses: %w", err)
	}
	customer.Addresses = addresses

	return nil
}

// GetByNID 按身份证号查询聚合根，未找到返回 (nil, nil)
func (r *CustomerRepository) GetByNID(ctx context.Context, nid string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.getDB(ctx).Where("nid = ?", nid).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer by nid: %w", err)
	}
	return &customer, nil
}

// NIDExists 身份证号是否已被占用
func (r *CustomerRepository) NIDExists(ctx context.Context, nid string) (bool, error) {
	var count int64
	if err := r.getDB(ctx).Model(&domain.Customer{}).Where("nid = ?", nid).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check nid: %w", err)
	}
	return count > 0, nil
}

// UpdateRoot 仅保存聚合根标量字段
func (r *CustomerRepository) UpdateRoot(ctx context.Context, customer *domain.Customer) error {
	if err := r.getDB(ctx).Omit(clause.Associations).Save(customer).Error; err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

// SaveDetail 新增或更新个人信息
func (r *CustomerRepository) SaveDetail(ctx context.Context, detail *domain.CustomerDetail) error {
	if err := r.getDB(ctx).Save(detail).Error; err != nil {
		return fmt.Errorf("failed to save customer detail: %w", err)
	}
	return nil
}

// SaveFinancialInfo 新增或更新财务信息
func (r *CustomerRepository) SaveFinancialInfo(ctx context.Context, info *domain.FinancialInfo) error {
	if err := r.getDB(ctx).Save(info).Error; err != nil {
		return fmt.Errorf("failed to save financial info: %w", err)
	}
	return nil
}

// SaveJobInfo 新增或更新工作信息
func (r *CustomerRepository) SaveJobInfo(ctx context.Context, info *domain.JobInfo) error {
	if err := r.getDB(ctx).Save(info).Error; err != nil {
		return fmt.Errorf("failed to save job info: %w", err)
	}
	return nil
}

// SaveVehicle 新增或更新车辆信息
func (r *CustomerRepository) SaveVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	if err := r.getDB(ctx).Save(vehicle).Error; err != nil {
		return fmt.Errorf("failed to save vehicle: %w", err)
	}
	return nil
}

// SaveCompany 新增或更新雇主信息
func (r *CustomerRepository) SaveCompany(ctx context.Context, company *domain.Company) error {
	if err := r.getDB(ctx).Save(company).Error; err != nil {
		return fmt.Errorf("failed to save company: %w", err)
	}
	return nil
}

// Search 按条件分页查询，预加载个人信息，按创建时间倒序
func (r *CustomerRepository) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Customer, int64, error) {
	conn := r.getDB(ctx).Model(&domain.Customer{})

	if filter.NID != nil {
		conn = conn.Where("customers.nid = ?", *filter.NID)
	}
	if filter.IsActive != nil {
		conn = conn.Where("customers.is_active = ?", *filter.IsActive)
	}
	if filter.IsAssigned != nil {
		conn = conn.Where("customers.is_assigned = ?", *filter.IsAssigned)
	}
	if filter.PortfolioID != nil {
		conn = conn.Where("customers.portfolio_id = ?", *filter.PortfolioID)
	}
	if filter.PromoterID != nil {
		conn = conn.Where("customers.promoter_id = ?", *filter.PromoterID)
	}

	// 姓名与邮箱存在 customer_details，需要联表过滤
	if filter.Name != nil || filter.Email != nil {
		conn = conn.
			Select("customers.*").
			Joins("JOIN customer_details ON customer_details.customer_id = customers.id")
		if filter.Name != nil {
			pattern := "%" + *filter.Name + "%"
			conn = conn.Where(
				"(customer_details.first_name LIKE ? OR customer_details.last_name LIKE ?)",
				pattern, pattern)
		}
		if filter.Email != nil {
			conn = conn.Where("customer_details.email = ?", *filter.Email)
		}
	}

	var total int64
	if err := conn.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	var customers []domain.Customer
	offset := (filter.Page - 1) * filter.PerPage
	err := conn.
		Preload("Detail").
		Order("customers.created_at DESC").
		Offset(offset).
		Limit(filter.PerPage).
		Find(&customers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search customers: %w", err)
	}

	return customers, total, nil
}
