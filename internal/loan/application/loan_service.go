// Package application 贷款申请应用服务
package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wyfcoding/loanorigination/internal/loan/domain"
	"github.com/wyfcoding/loanorigination/pkg/apperrors"
	"github.com/wyfcoding/loanorigination/pkg/logger"
	"github.com/wyfcoding/loanorigination/pkg/metrics"
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

// LoanService 贷款申请应用服务
type LoanService struct {
	repo      domain.Repository
	customers domain.CustomerDirectory
	risks     domain.CreditRiskCatalog
	tx        TxManager
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewLoanService 创建贷款应用服务。publisher 与 metrics 可为空。
func NewLoanService(
	repo domain.Repository,
	customers domain.CustomerDirectory,
	risks domain.CreditRiskCatalog,
	tx TxManager,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *LoanService {
	return &LoanService{
		repo:      repo,
		customers: customers,
		risks:     risks,
		tx:        tx,
		publisher: publisher,
		metrics:   m,
	}
}

// Create 以 received 状态建档贷款申请，actorID 为经办用户
func (s *LoanService) Create(ctx context.Context, req *CreateLoanRequest, actorID *uint) (*domain.LoanApplication, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.customers.CustomerExists(ctx, req.CustomerID)
	if err != nil {
		return nil, apperrors.Persistence("check customer", err)
	}
	if !exists {
		return nil, apperrors.NotFound("Customer", req.CustomerID)
	}

	loan := domain.NewLoanApplication(req.CustomerID, req.toDetail())
	loan.UserID = actorID
	err = s.tx.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, loan)
	})
	if err != nil {
		return nil, apperrors.Persistence("create loan application", err)
	}

	if s.metrics != nil {
		s.metrics.LoansCreatedTotal.Inc()
	}
	logger.Info(ctx, "Loan application created",
		"loan_id", loan.ID, "customer_id", loan.CustomerID, "amount", loan.Detail.Amount)

	s.publishCreated(ctx, loan)
	return loan, nil
}

// Get 返回带条款与备注的申请
func (s *LoanService) Get(ctx context.Context, id uint) (*domain.LoanApplication, error) {
	loan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Persistence("get loan application", err)
	}
	if loan == nil {
		return nil, apperrors.NotFound("LoanApplication", id)
	}
	return loan, nil
}

// List 按条件分页查询
func (s *LoanService) List(ctx context.Context, filter domain.SearchFilter) ([]domain.LoanApplication, int64, error) {
	loans, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Persistence("list loan applications", err)
	}
	return loans, total, nil
}

// Update 更新财务条款并标记 is_edited，归档件不可更新
func (s *LoanService) Update(ctx context.Context, id uint, req *UpdateLoanRequest) (*domain.LoanApplication, error) {
	loan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan.IsArchived {
		return nil, apperrors.Validation("cannot update an archived loan application")
	}

	// 条款行缺失时补建
	detail := loan.Detail
	if detail == nil {
		detail = &domain.LoanApplicationDetail{LoanApplicationID: loan.ID}
		loan.Detail = detail
	}
	if req.Amount != nil {
		detail.Amount = *req.Amount
	}
	if req.Term != nil {
		detail.Term = *req.Term
	}
	if req.Rate != nil {
		detail.Rate = *req.Rate
	}
	if req.Quota != nil {
		detail.Quota = *req.Quota
	}
	if req.Purpose != nil {
		detail.Purpose = req.Purpose
	}
	if req.PaymentFrequency != nil {
		detail.PaymentFrequency = req.PaymentFrequency
	}
	if req.CustomerComment != nil {
		detail.CustomerComment = req.CustomerComment
	}
	if err := detail.Validate(); err != nil {
		return nil, err
	}

	loan.IsEdited = true
	err = s.tx.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpdateRoot(txCtx, loan); err != nil {
			return err
		}
		return s.repo.SaveDetail(txCtx, detail)
	})
	if err != nil {
		return nil, apperrors.Persistence("update loan application", err)
	}

	logger.Info(ctx, "Loan application updated", "loan_id", loan.ID)
	return loan, nil
}

// TransitionStatus 执行状态转换，可附带备注并在同一事务内写入，actorID 记为备注作者
func (s *LoanService) TransitionStatus(ctx context.Context, id uint, req *TransitionRequest, actorID *uint) (*domain.LoanApplication, error) {
	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		return nil, apperrors.Validation("invalid status %q", req.Status)
	}
	if req.Note != nil && strings.TrimSpace(*req.Note) == "" {
		return nil, apperrors.Validation("note content must not be empty")
	}

	loan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := loan.Status
	now := time.Now()
	if err := loan.ApplyStatus(target, now); err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpdateRoot(txCtx, loan); err != nil {
			return err
		}
		if req.Note != nil {
			note := &domain.Note{
				LoanApplicationID: loan.ID,
				Content:           strings.TrimSpace(*req.Note),
				AuthorID:          actorID,
				CreatedAt:         now,
			}
			if err := s.repo.AddNote(txCtx, note); err != nil {
				return err
			}
			loan.Notes = append(loan.Notes, *note)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Persistence("transition loan application", err)
	}

	if s.metrics != nil {
		s.metrics.LoanTransitionsTotal.WithLabelValues(string(target)).Inc()
	}
	logger.Info(ctx, "Loan application status changed",
		"loan_id", loan.ID, "from", from, "to", target)

	s.publishStatusChanged(ctx, loan, from, target, now)
	return loan, nil
}

// AssociateCreditRisk 以备注为载体关联信用风险项
func (s *LoanService) AssociateCreditRisk(ctx context.Context, id uint, req *AssociateCreditRiskRequest, actorID *uint) (*domain.Note, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	loan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := s.risks.GetRiskName(ctx, req.CreditRiskID)
	if err != nil {
		return nil, apperrors.Persistence("get credit risk", err)
	}
	if name == "" {
		return nil, apperrors.NotFound("CreditRisk", req.CreditRiskID)
	}

	note := &domain.Note{
		LoanApplicationID: loan.ID,
		Content:           fmt.Sprintf("[CREDIT_RISK] Associated credit risk: '%s' (ID: %d)", name, req.CreditRiskID),
		AuthorID:          actorID,
		CreatedAt:         time.Now(),
	}
	if err := s.repo.AddNote(ctx, note); err != nil {
		return nil, apperrors.Persistence("associate credit risk", err)
	}

	logger.Info(ctx, "Credit risk associated",
		"loan_id", loan.ID, "credit_risk_id", req.CreditRiskID)
	return note, nil
}

// AddNote 追加备注，actorID 记为作者
func (s *LoanService) AddNote(ctx context.Context, id uint, req *NoteRequest, actorID *uint) (*domain.Note, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	loan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	note := &domain.Note{
		LoanApplicationID: loan.ID,
		Content:           strings.TrimSpace(req.Content),
		AuthorID:          actorID,
		CreatedAt:         time.Now(),
	}
	if err := s.repo.AddNote(ctx, note); err != nil {
		return nil, apperrors.Persistence("add note", err)
	}
	return note, nil
}

// ListNotes 按时间顺序返回备注
func (s *LoanService) ListNotes(ctx context.Context, id uint) ([]domain.Note, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	notes, err := s.repo.ListNotes(ctx, id)
	if err != nil {
		return nil, apperrors.Persistence("list notes", err)
	}
	return notes, nil
}

// Evaluate 自动评估占位实现，评估引擎接入前固定返回 pending
func (s *LoanService) Evaluate(ctx context.Context, id uint) (*EvaluationResult, error) {
	loan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EvaluationResult{
		LoanID:     loan.ID,
		Status:     "pending",
		Message:    "automatic evaluation is not available yet",
		LoanStatus: loan.Status,
	}, nil
}

// SoftDelete 将申请标记为非活跃，行保留且 Get 仍可查到
func (s *LoanService) SoftDelete(ctx context.Context, id uint) error {
	loan, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, loan.ID); err != nil {
		return apperrors.Persistence("delete loan application", err)
	}
	logger.Info(ctx, "Loan application deleted", "loan_id", loan.ID)
	return nil
}

// publishCreated 发布建档事件，失败只记日志
func (s *LoanService) publishCreated(ctx context.Context, loan *domain.LoanApplication) {
	if s.publisher == nil {
		return
	}
	event := &domain.LoanCreatedEvent{
		LoanID:     loan.ID,
		CustomerID: loan.CustomerID,
		Amount:     loan.Detail.Amount,
		Status:     loan.Status,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.PublishLoanCreated(ctx, event); err != nil {
		logger.Warn(ctx, "Failed to publish loan created event", "loan_id", loan.ID, "error", err)
	}
}

// publishStatusChanged 发布状态转换事件，失败只记日志
func (s *LoanService) publishStatusChanged(ctx context.Context, loan *domain.LoanApplication, from, to domain.Status, at time.Time) {
	if s.publisher == nil {
		return
	}
	event := &domain.LoanStatusChangedEvent{
		LoanID:     loan.ID,
		CustomerID: loan.CustomerID,
		FromStatus: from,
		ToStatus:   to,
		OccurredAt: at,
	}
	if err := s.publisher.PublishStatusChanged(ctx, event); err != nil {
		logger.Warn(ctx, "Failed to publish status changed event", "loan_id", loan.ID, "error", err)
	}
}
