package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/loanorigination/pkg/apperrors"
)

func TestTransitionMatrix(t *testing.T) {
	all := []Status{
		StatusReceived, StatusVerified, StatusAssigned, StatusAnalyzed,
		StatusApproved, StatusRejected, StatusArchived,
	}
	allowed := map[Status][]Status{
		StatusReceived: {StatusVerified, StatusArchived},
		StatusVerified: {StatusAssigned, StatusArchived},
		StatusAssigned: {StatusAnalyzed, StatusArchived},
		StatusAnalyzed: {StatusApproved, StatusRejected, StatusArchived},
		StatusApproved: {StatusArchived},
		StatusRejected: {StatusArchived},
		StatusArchived: {},
	}

	for _, from := range all {
		permitted := map[Status]bool{}
		for _, to := range allowed[from] {
			permitted[to] = true
		}
		for _, to := range all {
			assert.Equal(t, permitted[to], from.CanTransitionTo(to),
				"%s -> %s", from, to)
		}
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("received")
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, s)

	s, err = ParseStatus("  APPROVED ")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, s)

	_, err = ParseStatus("pending")
	assert.Error(t, err)
	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusArchived.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.False(t, StatusReceived.IsTerminal())
}

func newTestLoan() *LoanApplication {
	return NewLoanApplication(1, &LoanApplicationDetail{
		Amount: decimal.NewFromInt(150000),
		Term:   24,
		Rate:   decimal.NewFromFloat(18.5),
	})
}

func TestApplyStatusHappyPathToApproved(t *testing.T) {
	loan := newTestLoan()
	now := time.Now()

	require.True(t, loan.IsNew)
	for _, target := range []Status{StatusVerified, StatusAssigned, StatusAnalyzed, StatusApproved} {
		require.NoError(t, loan.ApplyStatus(target, now))
		assert.Equal(t, target, loan.Status)
		assert.False(t, loan.IsNew)
		require.NotNil(t, loan.ChangedStatusAt)
	}

	assert.True(t, loan.IsApproved)
	assert.True(t, loan.IsAnswered)
	assert.False(t, loan.IsRejected)
	assert.False(t, loan.IsArchived)
	require.NotNil(t, loan.ApprovedAt)
	assert.Nil(t, loan.RejectedAt)
	assert.Nil(t, loan.ArchivedAt)
}

func TestApplyStatusRejectedFlags(t *testing.T) {
	loan := newTestLoan()
	now := time.Now()
	require.NoError(t, loan.ApplyStatus(StatusVerified, now))
	require.NoError(t, loan.ApplyStatus(StatusAssigned, now))
	require.NoError(t, loan.ApplyStatus(StatusAnalyzed, now))
	require.NoError(t, loan.ApplyStatus(StatusRejected, now))

	assert.True(t, loan.IsRejected)
	assert.True(t, loan.IsAnswered)
	assert.False(t, loan.IsApproved)
	require.NotNil(t, loan.RejectedAt)
	assert.Nil(t, loan.ApprovedAt)
}

func TestApplyStatusArchivedFlags(t *testing.T) {
	loan := newTestLoan()
	now := time.Now()
	require.NoError(t, loan.ApplyStatus(StatusArchived, now))

	assert.True(t, loan.IsArchived)
	assert.False(t, loan.IsAnswered)
	require.NotNil(t, loan.ArchivedAt)
	assert.Equal(t, now, *loan.ChangedStatusAt)
}

func TestApplyStatusInvalidTransitionNamesAllowed(t *testing.T) {
	loan := newTestLoan()
	err := loan.ApplyStatus(StatusApproved, time.Now())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "'received'")
	assert.Contains(t, err.Error(), "'approved'")
	assert.Contains(t, err.Error(), "verified")

	// 状态未被改动
	assert.Equal(t, StatusReceived, loan.Status)
	assert.True(t, loan.IsNew)
	assert.False(t, loan.IsApproved)
}

func TestApplyStatusTerminal(t *testing.T) {
	loan := newTestLoan()
	require.NoError(t, loan.ApplyStatus(StatusArchived, time.Now()))

	err := loan.ApplyStatus(StatusVerified, time.Now())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "terminal")
}

func TestDetailValidate(t *testing.T) {
	valid := LoanApplicationDetail{
		Amount: decimal.NewFromInt(1000),
		Term:   12,
		Rate:   decimal.NewFromInt(20),
	}
	assert.NoError(t, valid.Validate())

	zeroAmount := valid
	zeroAmount.Amount = decimal.Zero
	err := zeroAmount.Validate()
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	negAmount := valid
	negAmount.Amount = decimal.NewFromInt(-5)
	assert.Error(t, negAmount.Validate())

	zeroTerm := valid
	zeroTerm.Term = 0
	assert.Error(t, zeroTerm.Validate())

	highRate := valid
	highRate.Rate = decimal.NewFromFloat(100.01)
	assert.Error(t, highRate.Validate())

	zeroRate := valid
	zeroRate.Rate = decimal.Zero
	assert.NoError(t, zeroRate.Validate())

	negQuota := valid
	negQuota.Quota = decimal.NewFromInt(-1)
	assert.Error(t, negQuota.Validate())
}
