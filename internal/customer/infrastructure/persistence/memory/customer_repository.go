// Package memory 客户仓储的内存实现，供测试与本地联调使用
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wyfcoding/loanorigination/internal/customer/domain"
)

// CustomerRepository 内存客户仓储
type CustomerRepository struct {
	mu        sync.RWMutex
	nextID    uint
	customers map[uint]*domain.Customer
}

// NewCustomerRepository 创建内存客户仓储
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		nextID:    1,
		customers: make(map[uint]*domain.Customer),
	}
}

func (r *CustomerRepository) allocate() uint {
	id := r.nextID
	r.nextID++
	return id
}

func clone(c *domain.Customer) *domain.Customer {
	cp := *c
	if c.Detail != nil {
		d := *c.Detail
		cp.Detail = &d
	}
	if c.FinancialInfo != nil {
		f := *c.FinancialInfo
		cp.FinancialInfo = &f
	}
	if c.JobInfo != nil {
		j := *c.JobInfo
		cp.JobInfo = &j
	}
	if c.Vehicle != nil {
		v := *c.Vehicle
		cp.Vehicle = &v
	}
	if c.Company != nil {
		co := *c.Company
		cp.Company = &co
	}
	cp.References = append([]domain.Reference(nil), c.References...)
	cp.Accounts = append([]domain.Account(nil), c.Accounts...)
	cp.Phones = append([]domain.Phone(nil), c.Phones...)
	cp.Addresses = append([]domain.Address(nil), c.Addresses...)
	return &cp
}

// CreateAggregate 落库聚合根与全部子记录
func (r *CustomerRepository) CreateAggregate(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	customer.ID = r.allocate()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	if customer.Detail != nil {
		customer.Detail.ID = r.allocate()
		customer.Detail.CustomerID = customer.ID
	}
	if customer.FinancialInfo != nil {
		customer.FinancialInfo.ID = r.allocate()
		customer.FinancialInfo.CustomerID = customer.ID
	}
	if customer.JobInfo != nil {
		customer.JobInfo.ID = r.allocate()
		customer.JobInfo.CustomerID = customer.ID
	}
	if customer.Vehicle != nil {
		customer.Vehicle.ID = r.allocate()
		customer.Vehicle.CustomerID = customer.ID
	}
	if customer.Company != nil {
		customer.Company.ID = r.allocate()
		customer.Company.CustomerID = customer.ID
	}
	for i := range customer.References {
		customer.References[i].ID = r.allocate()
		customer.References[i].CustomerID = customer.ID
	}
	for i := range customer.Accounts {
		customer.Accounts[i].ID = r.allocate()
		customer.Accounts[i].CustomerID = customer.ID
	}
	owner := domain.OwnerRef{Kind: domain.OwnerKindCustomer, ID: customer.ID}
	if !domain.ValidOwnerKind(owner.Kind) {
		return fmt.Errorf("unsupported owner kind %q", owner.Kind)
	}
	for i := range customer.Phones {
		customer.Phones[i].ID = r.allocate()
		customer.Phones[i].Owner = owner
	}
	for i := range customer.Addresses {
		customer.Addresses[i].ID = r.allocate()
	}

	r.customers[customer.ID] = clone(customer)
	return nil
}

// GetByID 未找到返回 (nil, nil)
func (r *CustomerRepository) GetByID(_ context.Context, id uint) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	return clone(c), nil
}

// GetByNID 未找到返回 (nil, nil)
func (r *CustomerRepository) GetByNID(_ context.Context, nid string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.NID == nid {
			return clone(c), nil
		}
	}
	return nil, nil
}

// NIDExists 身份证号是否已被占用
func (r *CustomerRepository) NIDExists(ctx context.Context, nid string) (bool, error) {
	c, err := r.GetByNID(ctx, nid)
	if err != nil {
		return false, err
	}
	return c != nil, nil
}

// UpdateRoot 仅保存聚合根标量字段
func (r *CustomerRepository) UpdateRoot(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.customers[customer.ID]
	if !ok {
		return nil
	}
	customer.UpdatedAt = time.Now()
	updated := clone(customer)
	updated.Detail = stored.Detail
	updated.FinancialInfo = stored.FinancialInfo
	updated.JobInfo = stored.JobInfo
	updated.Vehicle = stored.Vehicle
	updated.Company = stored.Company
	updated.References = stored.References
	updated.Accounts = stored.Accounts
	updated.Phones = stored.Phones
	updated.Addresses = stored.Addresses
	r.customers[customer.ID] = updated
	return nil
}

// SaveDetail 新增或更新个人信息
func (r *CustomerRepository) SaveDetail(_ context.Context, detail *domain.CustomerDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.customers[detail.CustomerID]; ok {
		if detail.ID == 0 {
			detail.ID = r.allocate()
		}
		d := *detail
		c.Detail = &d
	}
	return nil
}

// SaveFinancialInfo 新增或更新财务信息
func (r *CustomerRepository) SaveFinancialInfo(_ context.Context, info *domain.FinancialInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.customers[info.CustomerID]; ok {
		if info.ID == 0 {
			info.ID = r.allocate()
		}
		f := *info
		c.FinancialInfo = &f
	}
	return nil
}

// SaveJobInfo 新增或更新工作信息
func (r *CustomerRepository) SaveJobInfo(_ context.Context, info *domain.JobInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.customers[info.CustomerID]; ok {
		if info.ID == 0 {
			info.ID = r.allocate()
		}
		j := *info
		c.JobInfo = &j
	}
	return nil
}

// SaveVehicle 新增或更新车辆信息
func (r *CustomerRepository) SaveVehicle(_ context.Context, vehicle *domain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.customers[vehicle.CustomerID]; ok {
		if vehicle.ID == 0 {
			vehicle.ID = r.allocate()
		}
		v := *vehicle
		c.Vehicle = &v
	}
	return nil
}

// SaveCompany 新增或更新雇主信息
func (r *CustomerRepository) SaveCompany(_ context.Context, company *domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.customers[company.CustomerID]; ok {
		if company.ID == 0 {
			company.ID = r.allocate()
		}
		co := *company
		c.Company = &co
	}
	return nil
}

// Search 按条件分页查询，按创建时间倒序
func (r *CustomerRepository) Search(_ context.Context, filter domain.SearchFilter) ([]domain.Customer, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Customer
	for _, c := range r.customers {
		if filter.NID != nil && c.NID != *filter.NID {
			continue
		}
		if filter.Name != nil && !matchesName(c, *filter.Name) {
			continue
		}
		if filter.Email != nil && !matchesEmail(c, *filter.Email) {
			continue
		}
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		if filter.IsAssigned != nil && c.IsAssigned != *filter.IsAssigned {
			continue
		}
		if filter.PortfolioID != nil && (c.PortfolioID == nil || *c.PortfolioID != *filter.PortfolioID) {
			continue
		}
		if filter.PromoterID != nil && (c.PromoterID == nil || *c.PromoterID != *filter.PromoterID) {
			continue
		}
		matched = append(matched, c)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PerPage
	if start >= len(matched) {
		return []domain.Customer{}, total, nil
	}
	end := start + filter.PerPage
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]domain.Customer, 0, end-start)
	for _, c := range matched[start:end] {
		page = append(page, *clone(c))
	}
	return page, total, nil
}

func matchesName(c *domain.Customer, name string) bool {
	if c.Detail == nil {
		return false
	}
	needle := strings.ToLower(name)
	return strings.Contains(strings.ToLower(c.Detail.FirstName), needle) ||
		strings.Contains(strings.ToLower(c.Detail.LastName), needle)
}

func matchesEmail(c *domain.Customer, email string) bool {
	return c.Detail != nil && c.Detail.Email != nil && *c.Detail.Email == email
}
