// Package mysql 贷款申请的 MySQL 仓储实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/loanorigination/internal/loan/domain"
	"github.com/wyfcoding/loanorigination/pkg/db"
)

// LoanRepository 贷款申请仓储
type LoanRepository struct {
	db *db.DB
}

// NewLoanRepository 创建贷款仓储实例
func NewLoanRepository(database *db.DB) *LoanRepository {
	return &LoanRepository{db: database}
}

// getDB 优先使用上下文中的事务连接
func (r *LoanRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := db.TxFromContext(ctx); ok {
		return tx
	}
	return r.db.DB.WithContext(ctx)
}

// Create 落库申请根与财务条款
func (r *LoanRepository) Create(ctx context.Context, loan *domain.LoanApplication) error {
	conn := r.getDB(ctx)

	if err := conn.Omit(clause.Associations).Create(loan).Error; err != nil {
		return fmt.Errorf("failed to create loan application: %w", err)
	}
	if loan.Detail != nil {
		loan.Detail.LoanApplicationID = loan.ID
		if err := conn.Create(loan.Detail).Error; err != nil {
			return fmt.Errorf("failed to create loan application detail: %w", err)
		}
	}
	return nil
}

// GetByID 返回带条款与备注的申请，未找到返回 (nil, nil)
func (r *LoanRepository) GetByID(ctx context.Context, id uint) (*domain.LoanApplication, error) {
	var loan domain.LoanApplication
	err := r.getDB(ctx).
		Preload("Detail").
		Preload("Notes", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		First(&loan, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get loan application: %w", err)
	}
	return &loan, nil
}

// UpdateRoot 仅保存申请根标量字段
func (r *LoanRepository) UpdateRoot(ctx context.Context, loan *domain.LoanApplication) error {
	if err := r.getDB(ctx).Omit(clause.Associations).Save(loan).Error; err != nil {
		return fmt.Errorf("failed to update loan application: %w", err)
	}
	return nil
}

// SaveDetail 更新财务条款
func (r *LoanRepository) SaveDetail(ctx context.Context, detail *domain.LoanApplicationDetail) error {
	if err := r.getDB(ctx).Save(detail).Error; err != nil {
		return fmt.Errorf("failed to save loan application detail: %w", err)
	}
	return nil
}

// AddNote 追加备注
func (r *LoanRepository) AddNote(ctx context.Context, note *domain.Note) error {
	if err := r.getDB(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}
	return nil
}

// ListNotes 按时间顺序返回申请的全部备注
func (r *LoanRepository) ListNotes(ctx context.Context, loanID uint) ([]domain.Note, error) {
	var notes []domain.Note
	err := r.getDB(ctx).
		Where("loan_application_id = ?", loanID).
		Order("created_at ASC, id ASC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// Search 按条件分页查询，预加载条款，按创建时间倒序
func (r *LoanRepository) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.LoanApplication, int64, error) {
	conn := r.getDB(ctx).Model(&domain.LoanApplication{})

	if filter.CustomerID != nil {
		conn = conn.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		conn = conn.Where("status = ?", *filter.Status)
	}
	if filter.IsActive != nil {
		conn = conn.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsNew != nil {
		conn = conn.Where("is_new = ?", *filter.IsNew)
	}
	if filter.IsAnswered != nil {
		conn = conn.Where("is_answered = ?", *filter.IsAnswered)
	}
	if filter.IsApproved != nil {
		conn = conn.Where("is_approved = ?", *filter.IsApproved)
	}
	if filter.IsRejected != nil {
		conn = conn.Where("is_rejected = ?", *filter.IsRejected)
	}
	if filter.IsArchived != nil {
		conn = conn.Where("is_archived = ?", *filter.IsArchived)
	}

	var total int64
	if err := conn.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count loan applications: %w", err)
	}

	var loans []domain.LoanApplication
	offset := (filter.Page - 1) * filter.PerPage
	err := conn.
		Preload("Detail").
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.PerPage).
		Find(&loans).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search loan applications: %w", err)
	}

	return loans, total, nil
}

// SoftDelete 将申请标记为非活跃，行保留且仍可查询
func (r *LoanRepository) SoftDelete(ctx context.Context, id uint) error {
	err := r.getDB(ctx).
		Model(&domain.LoanApplication{}).
		Where("id = ?", id).
		Update("is_active", false).Error
	if err != nil {
		return fmt.Errorf("failed to delete loan application: %w", err)
	}
	return nil
}
