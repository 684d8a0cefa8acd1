package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/loanorigination/internal/loan/domain"
	"github.com/wyfcoding/loanorigination/internal/loan/infrastructure/persistence/memory"
	"github.com/wyfcoding/loanorigination/pkg/apperrors"
)

type stubCustomers map[uint]bool

func (s stubCustomers) CustomerExists(_ context.Context, id uint) (bool, error) {
	return s[id], nil
}

type stubRisks map[uint]string

func (s stubRisks) GetRiskName(_ context.Context, id uint) (string, error) {
	return s[id], nil
}

type capturedEvents struct {
	created []*domain.LoanCreatedEvent
	changed []*domain.LoanStatusChangedEvent
}

func (c *capturedEvents) PublishLoanCreated(_ context.Context, e *domain.LoanCreatedEvent) error {
	c.created = append(c.created, e)
	return nil
}

func (c *capturedEvents) PublishStatusChanged(_ context.Context, e *domain.LoanStatusChangedEvent) error {
	c.changed = append(c.changed, e)
	return nil
}

func newService(t *testing.T) (*LoanService, *memory.LoanRepository, *capturedEvents) {
	t.Helper()
	repo := memory.NewLoanRepository()
	events := &capturedEvents{}
	svc := NewLoanService(repo,
		stubCustomers{1: true, 2: true},
		stubRisks{10: "Over-indebtedness"},
		NoopTxManager(), events, nil)
	return svc, repo, events
}

func validCreate(customerID uint) *CreateLoanRequest {
	return &CreateLoanRequest{
		CustomerID: customerID,
		Amount:     decimal.NewFromInt(250000),
		Term:       36,
		Rate:       decimal.NewFromFloat(15.5),
	}
}

func TestCreateUnknownCustomer(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Create(context.Background(), validCreate(99999), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "Customer with ID 99999 not found", apperrors.MessageOf(err))
}

func TestCreateZeroAmount(t *testing.T) {
	svc, _, _ := newService(t)

	req := validCreate(1)
	req.Amount = decimal.Zero
	_, err := svc.Create(context.Background(), req, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "amount")
}

func TestCreateStartsReceived(t *testing.T) {
	svc, _, events := newService(t)

	loan, err := svc.Create(context.Background(), validCreate(1), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReceived, loan.Status)
	assert.True(t, loan.IsNew)
	assert.False(t, loan.IsEdited)
	require.NotNil(t, loan.Detail)
	assert.True(t, loan.Detail.Amount.Equal(decimal.NewFromInt(250000)))

	require.Len(t, events.created, 1)
	assert.Equal(t, loan.ID, events.created[0].LoanID)
}

func TestTransitionWalkToApproved(t *testing.T) {
	svc, _, events := newService(t)
	ctx := context.Background()

	loan, err := svc.Create(ctx, validCreate(1), nil)
	require.NoError(t, err)

	for _, target := range []string{"verified", "assigned", "analyzed", "approved"} {
		loan, err = svc.TransitionStatus(ctx, loan.ID, &TransitionRequest{Status: target}, nil)
		require.NoError(t, err, target)
	}

	assert.Equal(t, domain.StatusApproved, loan.Status)
	assert.True(t, loan.IsApproved)
	assert.True(t, loan.IsAnswered)
	assert.False(t, loan.IsNew)
	require.NotNil(t, loan.ApprovedAt)

	require.Len(t, events.changed, 4)
	assert.Equal(t, domain.StatusAnalyzed, events.changed[3].FromStatus)
	assert.Equal(t, domain.StatusApproved, events.changed[3].ToStatus)
}

func TestTransitionDirectApproveRejected(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	loan, err := svc.Create(ctx, validCreate(1), nil)
	require.NoError(t, err)

	_, err = svc.TransitionStatus(ctx, loan.ID, &TransitionRequest{Status: "approved"}, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
	assert.Contains(t, apperrors.MessageOf(err), "verified")

	// 状态未被改动
	reloaded, err := svc.Get(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReceived, reloaded.Status)
	assert.True(t, reloaded.IsNew)
}

func TestTransitionUnknownStatus(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	loan, err := svc.Create(ctx, validCreate(1), nil)
	require.NoError(t, err)

	_, err = svc.TransitionStatus(ctx, loan.ID, &TransitionRequest{Status: "pending"}, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestTransitionWithNote(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	loan, err := svc.Create(ctx, validCreate(1), nil)
	require.NoError(t, err)

	note := "documents verified against registry"
	_, err = svc.TransitionStatus(ctx, loan.ID, &TransitionRequest{Status: "verified", Note: &note}, nil)
	require.NoError(t, err)

	notes, err := repo.ListNotes(ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note, notes[0].Content)
}

func TestUpdateMarksEdited(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	loan, err := svc.Create(ctx, validCreate(1), nil)
	require.NoError(t, err)

	amount := decimal.NewFromInt(300000)
	updated, err := svc.Update(ctx, loan.ID, &UpdateLoanRequest{Amount: &amount})
	require.NoError(t, err)
	assert.True(t, updated.IsEdited)
	assert.True(t, updated.Detail.Amount.Equal(amount))
	// 未给出的字段保持原值
	assert.Equal(t, 36, updated.Detail.Term)
}

func TestUpdateRejectsInvalidTerms(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	loan, err := svc.Create(ctx, validCreate(1), nil)
	require.NoError(t, err)

	bad := decimal.NewFromInt(-1)
	_, err = svc.Update(ctx, loan.ID, &UpdateLoanRequest{Amount: &bad})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestUpdateArchivedRejected(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	loan, err := svc.Create(ctx, validCreate(1), nil)
	require.NoError(t, err)
	_, err = svc.TransitionStatus(ctx, loan.ID, &TransitionRequest{Status: "archived"}, nil)
	require.NoError(t, err)

	amount := decimal.NewFromInt(1)
	_, err = svc.Update(ctx, loan.ID, &UpdateLoanRequest{Amount: &amount})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestNoteAuthorRoundTrip(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()
	actor := uint(7)

	loan, err := svc.Create(ctx, validCreate(1), &actor)
	require.NoError(t, err)
	require.NotNil(t, loan.UserID)
	assert.Equal(t, actor, *loan.UserID)

	note := "documents verified against registry"
	_, err = svc.TransitionStatus(ctx, loan.ID, &TransitionRequest{Status: "verified", Note: &note}, &actor)
	require.NoError(t, err)

	_, err = svc.AddNote(ctx, loan.ID, &NoteRequest{Content: "call customer back"}, &actor)
	require.NoError(t, err)

	_, err = svc.AssociateCreditRisk(ctx, loan.ID, &AssociateCreditRiskRequest{CreditRiskID: 10}, &actor)
	require.NoError(t, err)

	notes, err := repo.ListNotes(ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	for _, n := range notes {
		require.NotNil(t, n.AuthorID, n.Content)
		assert.Equal(t, actor, *n.AuthorID)
	}
}

func TestCustomerCommentRoundTrip(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	req := validCreate(1)
	comment := "I need a car for work."
	req.CustomerComment = &comment
	loan, err := svc.Create(ctx, req, nil)
	require.NoError(t, err)
	require.NotNil(t, loan.Detail.CustomerComment)
	assert.Equal(t, comment, *loan.Detail.CustomerComment)

	// 其他字段更新时保持原值
	amount := decimal.NewFromInt(300000)
	updated, err := svc.Update(ctx, loan.ID, &UpdateLoanRequest{Amount: &amount})
	require.NoError(t, err)
	require.NotNil(t, updated.Detail.CustomerComment)
	assert.Equal(t, comment, *updated.Detail.CustomerComment)

	revised := "Need it for the new job."
	updated, err = svc.Update(ctx, loan.ID, &UpdateLoanRequest{CustomerComment: &revised})
	require.NoError(t, err)
	assert.Equal(t, revised, *updated.Detail.CustomerComment)
}

func TestUpdateCreatesMissingDetail(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	// 条款行缺失的历史数据
	loan := &domain.LoanApplication{CustomerID: 1, Status: domain.StatusReceived, IsActive: true, IsNew: true}
	require.NoError(t, repo.Create(ctx, loan))

	amount := decimal.NewFromInt(100000)
	term := 12
	rate := decimal.NewFromFloat(10.0)
	updated, err := svc.Update(ctx, loan.ID, &UpdateLoanRequest{Amount: &amount, Term: &term, Rate: &rate})
	require.NoError(t, err)
	require.NotNil(t, updated.Detail)
	assert.True(t, updated.Detail.Amount.Equal(amount))
	assert.Equal(t, term, updated.Detail.Term)

	reloaded, err := svc.Get(ctx, loan.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Detail)
	assert.True(t, reloaded.Detail.Amount.Equal(amount))
}

func TestAssociateCreditRiskNoteFormat(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	loan, err := svc.Create(ctx, validCreate(1), nil)
	require.NoError(t, err)

	note, err := svc.AssociateCreditRisk(ctx, loan.ID, &AssociateCreditRiskRequest{CreditRiskID: 10}, nil)
	require.NoError(t, err)
	expected := fmt.Sprintf("[CREDIT_RISK] Associated credit risk: 'Over-indebtedness' (ID: %d)", 10)
	assert.Equal(t, expected, note.Content)

	notes, err := repo.ListNotes(ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, expected, notes[0].Content)
}

func TestAssociateUnknownCreditRisk(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	loan, err := svc.Create(ctx, validCreate(1), nil)
	require.NoError(t, err)

	_, err = svc.AssociateCreditRisk(ctx, loan.ID, &AssociateCreditRiskRequest{CreditRiskID: 77}, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestAddNoteValidation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	loan, err := svc.Create(ctx, validCreate(1), nil)
	require.NoError(t, err)

	_, err = svc.AddNote(ctx, loan.ID, &NoteRequest{Content: "   "}, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	note, err := svc.AddNote(ctx, loan.ID, &NoteRequest{Content: " call customer back "}, nil)
	require.NoError(t, err)
	assert.Equal(t, "call customer back", note.Content)
}

func TestSoftDeletePreservesRow(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	loan, err := svc.Create(ctx, validCreate(1), nil)
	require.NoError(t, err)
	assert.True(t, loan.IsActive)

	require.NoError(t, svc.SoftDelete(ctx, loan.ID))

	// 行仍可查询，仅 is_active 翻为 false
	reloaded, err := svc.Get(ctx, loan.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, domain.StatusReceived, reloaded.Status)

	_, err = svc.Get(ctx, loan.ID+100)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestListIsActiveFilter(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	kept, err := svc.Create(ctx, validCreate(1), nil)
	require.NoError(t, err)
	removed, err := svc.Create(ctx, validCreate(2), nil)
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(ctx, removed.ID))

	active := true
	loans, total, err := svc.List(ctx, domain.SearchFilter{IsActive: &active, Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, loans, 1)
	assert.Equal(t, kept.ID, loans[0].ID)
}

func TestEvaluateStub(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	loan, err := svc.Create(ctx, validCreate(1), nil)
	require.NoError(t, err)

	result, err := svc.Evaluate(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.ID, result.LoanID)
	assert.Equal(t, "pending", result.Status)
	assert.Equal(t, domain.StatusReceived, result.LoanStatus)
	assert.NotEmpty(t, result.Message)
}

func TestListFilters(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreate(1), nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, validCreate(2), nil)
	require.NoError(t, err)

	_, err = svc.TransitionStatus(ctx, first.ID, &TransitionRequest{Status: "verified"}, nil)
	require.NoError(t, err)

	status := domain.StatusVerified
	loans, total, err := svc.List(ctx, domain.SearchFilter{Status: &status, Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, loans, 1)
	assert.Equal(t, first.ID, loans[0].ID)

	customerID := uint(2)
	loans, total, err = svc.List(ctx, domain.SearchFilter{CustomerID: &customerID, Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, loans, 1)
	assert.Equal(t, uint(2), loans[0].CustomerID)
}
