package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/loanorigination/internal/customer/domain"
	"github.com/wyfcoding/loanorigination/internal/customer/infrastructure/persistence/memory"
	"github.com/wyfcoding/loanorigination/pkg/apperrors"
)

func newService(t *testing.T) (*CustomerService, *memory.PortfolioRepository) {
	t.Helper()
	catalog := memory.NewPortfolioRepository()
	catalog.AddPortfolio(1)
	catalog.AddPromoter(5)
	svc := NewCustomerService(memory.NewCustomerRepository(), catalog, NoopTxManager(), nil)
	return svc, catalog
}

func validCreate(nid string) *CreateCustomerRequest {
	gender := "M"
	return &CreateCustomerRequest{
		NID: nid,
		Detail: &DetailInput{
			FirstName: "Juan",
			LastName:  "Perez",
			Gender:    &gender,
		},
		Phones:    []PhoneInput{{Number: "8091234567", Type: "mobile"}},
		Addresses: []AddressInput{{Street: "Av. Principal", City: "Santo Domingo"}},
	}
}

func TestValidateNID(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	result, err := svc.ValidateNID(ctx, "not-a-nid")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.False(t, result.Available)
	require.NotNil(t, result.Message)
	assert.Equal(t, "NID must be exactly 11 digits", *result.Message)

	result, err = svc.ValidateNID(ctx, "00112345678")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.True(t, result.Available)
	assert.Nil(t, result.Message)

	_, err = svc.Create(ctx, validCreate("00112345678"))
	require.NoError(t, err)

	result, err = svc.ValidateNID(ctx, "00112345678")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.False(t, result.Available)
	require.NotNil(t, result.Message)
	assert.Equal(t, "NID already exists", *result.Message)
}

func TestCreateRoundTrip(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	req := validCreate("00112345678")
	req.References = []ReferenceInput{{Name: "Maria Gomez", Relationship: "sister"}}
	req.Accounts = []AccountInput{{Number: "123-456-789"}}

	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.True(t, created.IsActive)
	assert.False(t, created.IsAssigned)

	loaded, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "00112345678", loaded.NID)
	require.NotNil(t, loaded.Detail)
	assert.Equal(t, "Juan", loaded.Detail.FirstName)
	require.Len(t, loaded.Phones, 1)
	assert.Equal(t, "8091234567", loaded.Phones[0].Number)
	assert.Equal(t, domain.OwnerKindCustomer, loaded.Phones[0].Owner.Kind)
	assert.Equal(t, created.ID, loaded.Phones[0].Owner.ID)
	require.Len(t, loaded.Addresses, 1)
	assert.Equal(t, "Santo Domingo", loaded.Addresses[0].City)
	require.Len(t, loaded.References, 1)
	require.Len(t, loaded.Accounts, 1)
}

func TestCreateDuplicateNID(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreate("00112345678"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, validCreate("00112345678"))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Contains(t, apperrors.MessageOf(err), "00112345678")
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	bad := validCreate("123")
	_, err := svc.Create(ctx, bad)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	bad = validCreate("00112345678")
	bad.Detail.FirstName = "J"
	_, err = svc.Create(ctx, bad)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	bad = validCreate("00112345678")
	bad.Phones[0].Number = "12345"
	_, err = svc.Create(ctx, bad)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	bad = validCreate("00112345678")
	bad.Phones[0].Type = "fax"
	_, err = svc.Create(ctx, bad)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	bad = validCreate("00112345678")
	invalid := "X"
	bad.Detail.Gender = &invalid
	_, err = svc.Create(ctx, bad)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	bad = validCreate("00112345678")
	bad.Detail = nil
	_, err = svc.Create(ctx, bad)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCreateFullRequiresContacts(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	// 完整建档至少要一个电话与一个地址
	bad := validCreate("00112345678")
	bad.Phones = nil
	_, err := svc.Create(ctx, bad)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, apperrors.MessageOf(err), "phone")

	bad = validCreate("00112345678")
	bad.Addresses = []AddressInput{}
	_, err = svc.Create(ctx, bad)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, apperrors.MessageOf(err), "address")
}

func TestCreateUnknownPortfolio(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	req := validCreate("00112345678")
	missing := uint(42)
	req.PortfolioID = &missing
	_, err := svc.Create(ctx, req)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestCreateSimple(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateSimple(ctx, &CreateSimpleRequest{
		NID:         "00112345678",
		FirstName:   "Ana",
		LastName:    "Diaz",
		PhoneNumber: "8095550001",
	})
	require.NoError(t, err)

	loaded, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", loaded.Detail.FirstName)
	require.Len(t, loaded.Phones, 1)
	assert.Equal(t, "mobile", loaded.Phones[0].Type)
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.GetByID(context.Background(), 99999)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "Customer with ID 99999 not found", apperrors.MessageOf(err))
}

func TestUpdateExcludesUnset(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate("00112345678"))
	require.NoError(t, err)

	channel := "referral"
	updated, err := svc.Update(ctx, created.ID, &UpdateCustomerRequest{LeadChannel: &channel})
	require.NoError(t, err)

	assert.Equal(t, "referral", *updated.LeadChannel)
	// 未给出的字段保持原值
	assert.Equal(t, "00112345678", updated.NID)
	assert.True(t, updated.IsActive)
	assert.Equal(t, "Juan", updated.Detail.FirstName)
}

func TestUpdateNestedDetail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate("00112345678"))
	require.NoError(t, err)

	nickname := "JP"
	updated, err := svc.Update(ctx, created.ID, &UpdateCustomerRequest{
		Detail: &DetailUpdate{Nickname: &nickname},
	})
	require.NoError(t, err)
	assert.Equal(t, "JP", *updated.Detail.Nickname)
	assert.Equal(t, "Juan", updated.Detail.FirstName)
}

func TestUpdateRejectsCollections(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate("00112345678"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, &UpdateCustomerRequest{
		Phones: []PhoneInput{{Number: "8090000000", Type: "mobile"}},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, apperrors.MessageOf(err), "not supported")
}

func TestAssign(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate("00112345678"))
	require.NoError(t, err)

	// 组合与推广员都缺失
	_, err = svc.Assign(ctx, created.ID, &AssignCustomerRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	// 未知组合
	missing := uint(42)
	_, err = svc.Assign(ctx, created.ID, &AssignCustomerRequest{PortfolioID: &missing})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	// 正常分派
	portfolioID := uint(1)
	assigned, err := svc.Assign(ctx, created.ID, &AssignCustomerRequest{PortfolioID: &portfolioID})
	require.NoError(t, err)
	assert.True(t, assigned.IsAssigned)
	require.NotNil(t, assigned.AssignedAt)
	assert.Equal(t, uint(1), *assigned.PortfolioID)

	// 追加推广员
	promoterID := uint(5)
	assigned, err = svc.Assign(ctx, created.ID, &AssignCustomerRequest{PromoterID: &promoterID})
	require.NoError(t, err)
	assert.Equal(t, uint(5), *assigned.PromoterID)
	assert.Equal(t, uint(1), *assigned.PortfolioID)
}

func TestListProjection(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreate("00112345678"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, validCreate("00112345679"))
	require.NoError(t, err)

	items, total, err := svc.List(ctx, domain.SearchFilter{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Juan Perez", items[0].FullName)

	nid := "00112345679"
	items, total, err = svc.List(ctx, domain.SearchFilter{NID: &nid, Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "00112345679", items[0].NID)
}

func TestListNameAndEmailFilters(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first := validCreate("00112345678")
	email := "juan@example.com"
	first.Detail.Email = &email
	_, err := svc.Create(ctx, first)
	require.NoError(t, err)

	second := validCreate("00112345679")
	second.Detail.FirstName = "Maria"
	second.Detail.LastName = "Gomez"
	_, err = svc.Create(ctx, second)
	require.NoError(t, err)

	// 姓名模糊匹配，不区分大小写
	name := "mar"
	items, total, err := svc.List(ctx, domain.SearchFilter{Name: &name, Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Maria Gomez", items[0].FullName)

	items, total, err = svc.List(ctx, domain.SearchFilter{Email: &email, Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "00112345678", items[0].NID)

	missing := "nobody@example.com"
	_, total, err = svc.List(ctx, domain.SearchFilter{Email: &missing, Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestListPagination(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	nids := []string{"00000000001", "00000000002", "00000000003"}
	for _, nid := range nids {
		_, err := svc.Create(ctx, validCreate(nid))
		require.NoError(t, err)
	}

	items, total, err := svc.List(ctx, domain.SearchFilter{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 1)

	items, _, err = svc.List(ctx, domain.SearchFilter{Page: 5, PerPage: 2})
	require.NoError(t, err)
	assert.Empty(t, items)
}
