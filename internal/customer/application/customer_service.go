// Package application 客户模块应用服务
package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wyfcoding/loanorigination/internal/customer/domain"
	"github.com/wyfcoding/loanorigination/pkg/apperrors"
	"github.com/wyfcoding/loanorigination/pkg/logger"
	"github.com/wyfcoding/loanorigination/pkg/metrics"
	"github.com/wyfcoding/loanorigination/pkg/validation"
)

// TxManager 事务管理接口，fn 内部经由上下文共享同一事务连接
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// noopTx 无事务语境（内存仓储）下的透传实现
type noopTx struct{}

// WithTx 直接执行
func (noopTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// NoopTxManager 返回透传事务管理器，供测试使用
func NoopTxManager() TxManager { return noopTx{} }

// CustomerService 客户应用服务
type CustomerService struct {
	repo          domain.Repository
	portfolioRepo domain.PortfolioRepository
	tx            TxManager
	metrics       *metrics.Metrics
}

// NewCustomerService 创建客户应用服务
func NewCustomerService(repo domain.Repository, portfolioRepo domain.PortfolioRepository, tx TxManager, m *metrics.Metrics) *CustomerService {
	return &CustomerService{repo: repo, portfolioRepo: portfolioRepo, tx: tx, metrics: m}
}

// ValidateNID 校验身份证号格式并回答可用性
func (s *CustomerService) ValidateNID(ctx context.Context, nid string) (*NIDValidationResult, error) {
	result := &NIDValidationResult{NID: nid}
	if !validation.ValidNID(nid) {
		msg := "NID must be exactly 11 digits"
		result.Message = &msg
		return result, nil
	}
	result.Valid = true

	exists, err := s.repo.NIDExists(ctx, nid)
	if err != nil {
		return nil, apperrors.Persistence("validate nid", err)
	}
	result.Available = !exists
	if exists {
		msg := "NID already exists"
		result.Message = &msg
	}
	return result, nil
}

// Create 创建完整客户聚合
func (s *CustomerService) Create(ctx context.Context, req *CreateCustomerRequest) (*domain.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.create(ctx, req)
}

// create 落库聚合，入参已通过各自路径的校验
func (s *CustomerService) create(ctx context.Context, req *CreateCustomerRequest) (*domain.Customer, error) {
	if req.PortfolioID != nil {
		ok, err := s.portfolioRepo.PortfolioExists(ctx, *req.PortfolioID)
		if err != nil {
			return nil, apperrors.Persistence("check portfolio", err)
		}
		if !ok {
			return nil, apperrors.NotFound("Portfolio", *req.PortfolioID)
		}
	}
	if req.PromoterID != nil {
		ok, err := s.portfolioRepo.PromoterExists(ctx, *req.PromoterID)
		if err != nil {
			return nil, apperrors.Persistence("check promoter", err)
		}
		if !ok {
			return nil, apperrors.NotFound("Promoter", *req.PromoterID)
		}
	}

	exists, err := s.repo.NIDExists(ctx, req.NID)
	if err != nil {
		return nil, apperrors.Persistence("check nid", err)
	}
	if exists {
		return nil, apperrors.Conflict("customer with NID %s already exists", req.NID)
	}

	customer := req.toDomain()
	customer.PortfolioID = req.PortfolioID
	customer.PromoterID = req.PromoterID

	err = s.tx.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.CreateAggregate(txCtx, customer)
	})
	if err != nil {
		// 唯一索引兜底并发建档
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("customer with NID %s already exists", req.NID)
		}
		return nil, apperrors.Persistence("create customer", err)
	}

	if s.metrics != nil {
		s.metrics.CustomersCreatedTotal.Inc()
	}
	logger.Info(ctx, "Customer created", "customer_id", customer.ID, "nid", customer.NID)
	return customer, nil
}

// CreateSimple 快捷建档，仅身份证号、姓名与一个手机号，地址可后补
func (s *CustomerService) CreateSimple(ctx context.Context, req *CreateSimpleRequest) (*domain.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	full := &CreateCustomerRequest{
		NID:         req.NID,
		LeadChannel: req.LeadChannel,
		Detail: &DetailInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
		},
		Phones: []PhoneInput{{Number: req.PhoneNumber, Type: "mobile"}},
	}
	return s.create(ctx, full)
}

// GetByID 返回完整聚合
func (s *CustomerService) GetByID(ctx context.Context, id uint) (*domain.Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Persistence("get customer", err)
	}
	if customer == nil {
		return nil, apperrors.NotFound("Customer", id)
	}
	return customer, nil
}

// Update 更新聚合根标量与一对一子记录，身份证号与集合类子记录不可经此变更
func (s *CustomerService) Update(ctx context.Context, id uint, req *UpdateCustomerRequest) (*domain.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.LeadChannel != nil {
		customer.LeadChannel = req.LeadChannel
	}
	if req.IsReferred != nil {
		customer.IsReferred = *req.IsReferred
	}
	if req.ReferredBy != nil {
		customer.ReferredBy = req.ReferredBy
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}

	err = s.tx.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpdateRoot(txCtx, customer); err != nil {
			return err
		}

		if req.Detail != nil {
			detail := customer.Detail
			if detail == nil {
				detail = &domain.CustomerDetail{CustomerID: customer.ID}
			}
			applyDetailUpdate(detail, req.Detail)
			if err := s.repo.SaveDetail(txCtx, detail); err != nil {
				return err
			}
			customer.Detail = detail
		}
		if req.FinancialInfo != nil {
			info := req.FinancialInfo.toDomain()
			info.CustomerID = customer.ID
			if customer.FinancialInfo != nil {
				info.ID = customer.FinancialInfo.ID
				info.CreatedAt = customer.FinancialInfo.CreatedAt
			}
			if err := s.repo.SaveFinancialInfo(txCtx, info); err != nil {
				return err
			}
			customer.FinancialInfo = info
		}
		if req.JobInfo != nil {
			info := req.JobInfo.toDomain()
			info.CustomerID = customer.ID
			if customer.JobInfo != nil {
				info.ID = customer.JobInfo.ID
				info.CreatedAt = customer.JobInfo.CreatedAt
			}
			if err := s.repo.SaveJobInfo(txCtx, info); err != nil {
				return err
			}
			customer.JobInfo = info
		}
		if req.Vehicle != nil {
			vehicle := req.Vehicle.toDomain()
			vehicle.CustomerID = customer.ID
			if customer.Vehicle != nil {
				vehicle.ID = customer.Vehicle.ID
				vehicle.CreatedAt = customer.Vehicle.CreatedAt
			}
			if err := s.repo.SaveVehicle(txCtx, vehicle); err != nil {
				return err
			}
			customer.Vehicle = vehicle
		}
		if req.Company != nil {
			company := &domain.Company{
				CustomerID: customer.ID,
				Name:       strings.TrimSpace(req.Company.Name),
				Email:      req.Company.Email,
				Type:       req.Company.Type,
				Website:    req.Company.Website,
				RNC:        req.Company.RNC,
				Department: req.Company.Department,
				Branch:     req.Company.Branch,
			}
			if customer.Company != nil {
				company.ID = customer.Company.ID
				company.CreatedAt = customer.Company.CreatedAt
			}
			if err := s.repo.SaveCompany(txCtx, company); err != nil {
				return err
			}
			customer.Company = company
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Persistence("update customer", err)
	}

	logger.Info(ctx, "Customer updated", "customer_id", customer.ID)
	return customer, nil
}

func applyDetailUpdate(detail *domain.CustomerDetail, in *DetailUpdate) {
	if in.FirstName != nil {
		detail.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		detail.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		detail.Email = in.Email
	}
	if in.Nickname != nil {
		detail.Nickname = in.Nickname
	}
	if in.Birthday != nil {
		detail.Birthday = in.Birthday
	}
	if in.Gender != nil {
		detail.Gender = in.Gender
	}
	if in.MaritalStatus != nil {
		detail.MaritalStatus = in.MaritalStatus
	}
	if in.EducationLevel != nil {
		detail.EducationLevel = in.EducationLevel
	}
	if in.Nationality != nil {
		detail.Nationality = in.Nationality
	}
	if in.HousingType != nil {
		detail.HousingType = in.HousingType
	}
	if in.HousingPossessionType != nil {
		detail.HousingPossessionType = in.HousingPossessionType
	}
	if in.MoveInDate != nil {
		detail.MoveInDate = in.MoveInDate
	}
	if in.ModeOfTransport != nil {
		detail.ModeOfTransport = in.ModeOfTransport
	}
}

// Assign 将客户分派到组合或推广员
func (s *CustomerService) Assign(ctx context.Context, id uint, req *AssignCustomerRequest) (*domain.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PortfolioID != nil {
		ok, err := s.portfolioRepo.PortfolioExists(ctx, *req.PortfolioID)
		if err != nil {
			return nil, apperrors.Persistence("check portfolio", err)
		}
		if !ok {
			return nil, apperrors.NotFound("Portfolio", *req.PortfolioID)
		}
		customer.PortfolioID = req.PortfolioID
	}
	if req.PromoterID != nil {
		ok, err := s.portfolioRepo.PromoterExists(ctx, *req.PromoterID)
		if err != nil {
			return nil, apperrors.Persistence("check promoter", err)
		}
		if !ok {
			return nil, apperrors.NotFound("Promoter", *req.PromoterID)
		}
		customer.PromoterID = req.PromoterID
	}

	now := time.Now()
	customer.IsAssigned = true
	customer.AssignedAt = &now

	if err := s.repo.UpdateRoot(ctx, customer); err != nil {
		return nil, apperrors.Persistence("assign customer", err)
	}

	logger.Info(ctx, "Customer assigned",
		"customer_id", customer.ID,
		"portfolio_id", customer.PortfolioID,
		"promoter_id", customer.PromoterID,
	)
	return customer, nil
}

// List 按条件分页查询客户列表投影
func (s *CustomerService) List(ctx context.Context, filter domain.SearchFilter) ([]CustomerListItem, int64, error) {
	customers, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Persistence("list customers", err)
	}

	items := make([]CustomerListItem, 0, len(customers))
	for i := range customers {
		items = append(items, toListItem(&customers[i]))
	}
	return items, total, nil
}

// CustomerExists 客户是否存在，供贷款模块引用校验
func (s *CustomerService) CustomerExists(ctx context.Context, id uint) (bool, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return customer != nil, nil
}
