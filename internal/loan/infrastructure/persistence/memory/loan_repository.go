// Package memory 贷款申请仓储的内存实现，供测试使用
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wyfcoding/loanorigination/internal/loan/domain"
)

// LoanRepository 内存贷款申请仓储
type LoanRepository struct {
	mu     sync.RWMutex
	nextID uint
	loans  map[uint]*domain.LoanApplication
}

// NewLoanRepository 创建内存贷款仓储
func NewLoanRepository() *LoanRepository {
	return &LoanRepository{
		nextID: 1,
		loans:  make(map[uint]*domain.LoanApplication),
	}
}

func (r *LoanRepository) allocate() uint {
	id := r.nextID
	r.nextID++
	return id
}

func clone(l *domain.LoanApplication) *domain.LoanApplication {
	cp := *l
	if l.Detail != nil {
		d := *l.Detail
		cp.Detail = &d
	}
	cp.Notes = append([]domain.Note(nil), l.Notes...)
	return &cp
}

// Create 落库申请根与财务条款
func (r *LoanRepository) Create(_ context.Context, loan *domain.LoanApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	loan.ID = r.allocate()
	loan.CreatedAt = now
	loan.UpdatedAt = now
	if loan.Detail != nil {
		loan.Detail.ID = r.allocate()
		loan.Detail.LoanApplicationID = loan.ID
	}
	r.loans[loan.ID] = clone(loan)
	return nil
}

// GetByID 未找到返回 (nil, nil)，软删除的行照常返回
func (r *LoanRepository) GetByID(_ context.Context, id uint) (*domain.LoanApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loan, ok := r.loans[id]
	if !ok {
		return nil, nil
	}
	return clone(loan), nil
}

// UpdateRoot 仅保存申请根标量字段
func (r *LoanRepository) UpdateRoot(_ context.Context, loan *domain.LoanApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.loans[loan.ID]
	if !ok {
		return nil
	}
	loan.UpdatedAt = time.Now()
	updated := clone(loan)
	updated.Detail = stored.Detail
	updated.Notes = stored.Notes
	r.loans[loan.ID] = updated
	return nil
}

// SaveDetail 更新财务条款
func (r *LoanRepository) SaveDetail(_ context.Context, detail *domain.LoanApplicationDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if loan, ok := r.loans[detail.LoanApplicationID]; ok {
		if detail.ID == 0 {
			detail.ID = r.allocate()
		}
		d := *detail
		loan.Detail = &d
	}
	return nil
}

// AddNote 追加备注
func (r *LoanRepository) AddNote(_ context.Context, note *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	loan, ok := r.loans[note.LoanApplicationID]
	if !ok {
		return nil
	}
	note.ID = r.allocate()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	loan.Notes = append(loan.Notes, *note)
	return nil
}

// ListNotes 按时间顺序返回申请的全部备注
func (r *LoanRepository) ListNotes(_ context.Context, loanID uint) ([]domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loan, ok := r.loans[loanID]
	if !ok {
		return []domain.Note{}, nil
	}
	return append([]domain.Note(nil), loan.Notes...), nil
}

// Search 按条件分页查询，按创建时间倒序
func (r *LoanRepository) Search(_ context.Context, filter domain.SearchFilter) ([]domain.LoanApplication, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.LoanApplication
	for _, l := range r.loans {
		if filter.CustomerID != nil && l.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		if filter.IsActive != nil && l.IsActive != *filter.IsActive {
			continue
		}
		if filter.IsNew != nil && l.IsNew != *filter.IsNew {
			continue
		}
		if filter.IsAnswered != nil && l.IsAnswered != *filter.IsAnswered {
			continue
		}
		if filter.IsApproved != nil && l.IsApproved != *filter.IsApproved {
			continue
		}
		if filter.IsRejected != nil && l.IsRejected != *filter.IsRejected {
			continue
		}
		if filter.IsArchived != nil && l.IsArchived != *filter.IsArchived {
			continue
		}
		matched = append(matched, l)
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
		return []domain.LoanApplication{}, total, nil
	}
	end := start + filter.PerPage
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]domain.LoanApplication, 0, end-start)
	for _, l := range matched[start:end] {
		page = append(page, *clone(l))
	}
	return page, total, nil
}

// SoftDelete 将申请标记为非活跃，行保留且仍可查询
func (r *LoanRepository) SoftDelete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	loan, ok := r.loans[id]
	if !ok {
		return nil
	}
	loan.IsActive = false
	loan.UpdatedAt = time.Now()
	return nil
}
