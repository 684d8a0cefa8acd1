package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/loanorigination/internal/customer/domain"
	"github.com/wyfcoding/loanorigination/pkg/apperrors"
	"github.com/wyfcoding/loanorigination/pkg/validation"
)

var (
	phoneTypes      = map[string]bool{"mobile": true, "home": true, "work": true}
	genders         = map[string]bool{"M": true, "F": true, "O": true}
	maritalStatuses = map[string]bool{"single": true, "married": true, "divorced": true, "widowed": true}
)

// DetailInput 个人信息入参
type DetailInput struct {
	FirstName             string     `json:"first_name"`
	LastName              string     `json:"last_name"`
	Email                 *string    `json:"email"`
	Nickname              *string    `json:"nickname"`
	Birthday              *time.Time `json:"birthday"`
	Gender                *string    `json:"gender"`
	MaritalStatus         *string    `json:"marital_status"`
	EducationLevel        *string    `json:"education_level"`
	Nationality           *string    `json:"nationality"`
	HousingType           *string    `json:"housing_type"`
	HousingPossessionType *string    `json:"housing_possession_type"`
	MoveInDate            *time.Time `json:"move_in_date"`
	ModeOfTransport       *string    `json:"mode_of_transport"`
}

// Validate 校验个人信息入参
func (in *DetailInput) Validate() error {
	if len(strings.TrimSpace(in.FirstName)) < 2 {
		return apperrors.Validation("first_name must be at least 2 characters")
	}
	if in.Gender != nil && !genders[*in.Gender] {
		return apperrors.Validation("gender must be one of M, F, O")
	}
	if in.MaritalStatus != nil && !maritalStatuses[*in.MaritalStatus] {
		return apperrors.Validation("marital_status must be one of single, married, divorced, widowed")
	}
	return nil
}

func (in *DetailInput) toDomain() *domain.CustomerDetail {
	return &domain.CustomerDetail{
		FirstName:             strings.TrimSpace(in.FirstName),
		LastName:              strings.TrimSpace(in.LastName),
		Email:                 in.Email,
		Nickname:              in.Nickname,
		Birthday:              in.Birthday,
		Gender:                in.Gender,
		MaritalStatus:         in.MaritalStatus,
		EducationLevel:        in.EducationLevel,
		Nationality:           in.Nationality,
		HousingType:           in.HousingType,
		HousingPossessionType: in.HousingPossessionType,
		MoveInDate:            in.MoveInDate,
		ModeOfTransport:       in.ModeOfTransport,
	}
}

// PhoneInput 电话入参
type PhoneInput struct {
	Number string `json:"number"`
	Type   string `json:"type"`
}

// Validate 校验电话入参
func (in *PhoneInput) Validate() error {
	if !validation.ValidPhone(in.Number) {
		return apperrors.Validation("phone number must be exactly 10 digits")
	}
	if !phoneTypes[in.Type] {
		return apperrors.Validation("phone type must be one of mobile, home, work")
	}
	return nil
}

// AddressInput 地址入参
type AddressInput struct {
	Street     string  `json:"street"`
	Number     *string `json:"number"`
	City       string  `json:"city"`
	State      *string `json:"state"`
	Country    *string `json:"country"`
	PostalCode *string `json:"postal_code"`
	Type       *string `json:"type"`
}

// Validate 校验地址入参
func (in *AddressInput) Validate() error {
	if strings.TrimSpace(in.Street) == "" {
		return apperrors.Validation("address street is required")
	}
	if strings.TrimSpace(in.City) == "" {
		return apperrors.Validation("address city is required")
	}
	return nil
}

// FinancialInfoInput 财务信息入参
type FinancialInfoInput struct {
	OtherIncomes          *decimal.Decimal `json:"other_incomes"`
	Discounts             *decimal.Decimal `json:"discounts"`
	HousingType           *string          `json:"housing_type"`
	MonthlyHousingPayment *decimal.Decimal `json:"monthly_housing_payment"`
	TotalDebts            *decimal.Decimal `json:"total_debts"`
	LoanInstallments      *decimal.Decimal `json:"loan_installments"`
	HouseholdExpenses     *decimal.Decimal `json:"household_expenses"`
	LaborBenefits         *decimal.Decimal `json:"labor_benefits"`
	GuaranteeAssets       *string          `json:"guarantee_assets"`
	TotalIncomes          *decimal.Decimal `json:"total_incomes"`
}

func (in *FinancialInfoInput) toDomain() *domain.FinancialInfo {
	info := &domain.FinancialInfo{
		HousingType:           in.HousingType,
		MonthlyHousingPayment: in.MonthlyHousingPayment,
		TotalDebts:            in.TotalDebts,
		LoanInstallments:      in.LoanInstallments,
		HouseholdExpenses:     in.HouseholdExpenses,
		LaborBenefits:         in.LaborBenefits,
		GuaranteeAssets:       in.GuaranteeAssets,
		TotalIncomes:          in.TotalIncomes,
	}
	if in.OtherIncomes != nil {
		info.OtherIncomes = *in.OtherIncomes
	}
	if in.Discounts != nil {
		info.Discounts = *in.Discounts
	}
	return info
}

// JobInfoInput 工作信息入参
type JobInfoInput struct {
	IsSelfEmployed       bool             `json:"is_self_employed"`
	Role                 *string          `json:"role"`
	Level                *string          `json:"level"`
	StartDate            *time.Time       `json:"start_date"`
	Salary               *decimal.Decimal `json:"salary"`
	OtherIncomes         *decimal.Decimal `json:"other_incomes"`
	OtherIncomesSource   *string          `json:"other_incomes_source"`
	PaymentType          *string          `json:"payment_type"`
	PaymentFrequency     *string          `json:"payment_frequency"`
	PaymentBank          *string          `json:"payment_bank"`
	PaymentAccountNumber *string          `json:"payment_account_number"`
	Schedule             *string          `json:"schedule"`
	SupervisorName       *string          `json:"supervisor_name"`
}

func (in *JobInfoInput) toDomain() *domain.JobInfo {
	return &domain.JobInfo{
		IsSelfEmployed:       in.IsSelfEmployed,
		Role:                 in.Role,
		Level:                in.Level,
		StartDate:            in.StartDate,
		Salary:               in.Salary,
		OtherIncomes:         in.OtherIncomes,
		OtherIncomesSource:   in.OtherIncomesSource,
		PaymentType:          in.PaymentType,
		PaymentFrequency:     in.PaymentFrequency,
		PaymentBank:          in.PaymentBank,
		PaymentAccountNumber: in.PaymentAccountNumber,
		Schedule:             in.Schedule,
		SupervisorName:       in.SupervisorName,
	}
}

// ReferenceInput 个人推荐人入参
type ReferenceInput struct {
	Name           string     `json:"name"`
	NID            *string    `json:"nid"`
	Email          *string    `json:"email"`
	Relationship   string     `json:"relationship"`
	ReferenceSince *time.Time `json:"reference_since"`
	Occupation     *string    `json:"occupation"`
	IsWhoReferred  bool       `json:"is_who_referred"`
	Type           *string    `json:"type"`
	Address        *string    `json:"address"`
}

// Validate 校验推荐人入参
func (in *ReferenceInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.Validation("reference name is required")
	}
	if strings.TrimSpace(in.Relationship) == "" {
		return apperrors.Validation("reference relationship is required")
	}
	if in.NID != nil && !validation.ValidNID(*in.NID) {
		return apperrors.Validation("reference nid must be exactly 11 digits")
	}
	return nil
}

// VehicleInput 车辆信息入参
type VehicleInput struct {
	VehicleType        *string `json:"vehicle_type"`
	VehicleBrand       *string `json:"vehicle_brand"`
	VehicleModel       *string `json:"vehicle_model"`
	VehicleYear        *int    `json:"vehicle_year"`
	VehicleColor       *string `json:"vehicle_color"`
	VehiclePlateNumber *string `json:"vehicle_plate_number"`
	IsFinanced         bool    `json:"is_financed"`
	IsOwned            bool    `json:"is_owned"`
	IsLeased           bool    `json:"is_leased"`
	IsRented           bool    `json:"is_rented"`
	IsShared           bool    `json:"is_shared"`
}

func (in *VehicleInput) toDomain() *domain.Vehicle {
	return &domain.Vehicle{
		VehicleType:        in.VehicleType,
		VehicleBrand:       in.VehicleBrand,
		VehicleModel:       in.VehicleModel,
		VehicleYear:        in.VehicleYear,
		VehicleColor:       in.VehicleColor,
		VehiclePlateNumber: in.VehiclePlateNumber,
		IsFinanced:         in.IsFinanced,
		IsOwned:            in.IsOwned,
		IsLeased:           in.IsLeased,
		IsRented:           in.IsRented,
		IsShared:           in.IsShared,
	}
}

// CompanyInput 雇主信息入参
type CompanyInput struct {
	Name       string  `json:"name"`
	Email      *string `json:"email"`
	Type       *string `json:"type"`
	Website    *string `json:"website"`
	RNC        *string `json:"rnc"`
	Department *string `json:"department"`
	Branch     *string `json:"branch"`
}

// Validate 校验雇主入参
func (in *CompanyInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.Validation("company name is required")
	}
	return nil
}

// AccountInput 银行账户入参
type AccountInput struct {
	Number string  `json:"number"`
	Type   *string `json:"type"`
}

// Validate 校验账户入参
func (in *AccountInput) Validate() error {
	if strings.TrimSpace(in.Number) == "" {
		return apperrors.Validation("account number is required")
	}
	return nil
}

// CreateCustomerRequest 创建客户聚合入参
type CreateCustomerRequest struct {
	NID           string              `json:"nid"`
	LeadChannel   *string             `json:"lead_channel"`
	IsReferred    bool                `json:"is_referred"`
	ReferredBy    *string             `json:"referred_by"`
	Detail        *DetailInput        `json:"detail"`
	Phones        []PhoneInput        `json:"phones"`
	Addresses     []AddressInput      `json:"addresses"`
	FinancialInfo *FinancialInfoInput `json:"financial_info"`
	JobInfo       *JobInfoInput       `json:"job_info"`
	References    []ReferenceInput    `json:"references"`
	Vehicle       *VehicleInput       `json:"vehicle"`
	Company       *CompanyInput       `json:"company"`
	Accounts      []AccountInput      `json:"accounts"`
	PortfolioID   *uint               `json:"portfolio_id"`
	PromoterID    *uint               `json:"promoter_id"`
}

// Validate 校验创建入参
func (req *CreateCustomerRequest) Validate() error {
	if !validation.ValidNID(req.NID) {
		return apperrors.Validation("nid must be exactly 11 digits")
	}
	if req.ReferredBy != nil && !validation.ValidNID(*req.ReferredBy) {
		return apperrors.Validation("referred_by must be exactly 11 digits")
	}
	if req.Detail == nil {
		return apperrors.Validation("detail is required")
	}
	if err := req.Detail.Validate(); err != nil {
		return err
	}
	if len(req.Phones) == 0 {
		return apperrors.Validation("at least one phone is required")
	}
	if len(req.Addresses) == 0 {
		return apperrors.Validation("at least one address is required")
	}
	for i := range req.Phones {
		if err := req.Phones[i].Validate(); err != nil {
			return err
		}
	}
	for i := range req.Addresses {
		if err := req.Addresses[i].Validate(); err != nil {
			return err
		}
	}
	for i := range req.References {
		if err := req.References[i].Validate(); err != nil {
			return err
		}
	}
	if req.Company != nil {
		if err := req.Company.Validate(); err != nil {
			return err
		}
	}
	for i := range req.Accounts {
		if err := req.Accounts[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (req *CreateCustomerRequest) toDomain() *domain.Customer {
	customer := &domain.Customer{
		NID:         req.NID,
		LeadChannel: req.LeadChannel,
		IsReferred:  req.IsReferred,
		ReferredBy:  req.ReferredBy,
		IsActive:    true,
		Detail:      req.Detail.toDomain(),
	}
	if req.FinancialInfo != nil {
		customer.FinancialInfo = req.FinancialInfo.toDomain()
	}
	if req.JobInfo != nil {
		customer.JobInfo = req.JobInfo.toDomain()
	}
	if req.Vehicle != nil {
		customer.Vehicle = req.Vehicle.toDomain()
	}
	if req.Company != nil {
		customer.Company = &domain.Company{
			Name:       strings.TrimSpace(req.Company.Name),
			Email:      req.Company.Email,
			Type:       req.Company.Type,
			Website:    req.Company.Website,
			RNC:        req.Company.RNC,
			Department: req.Company.Department,
			Branch:     req.Company.Branch,
		}
	}
	for i := range req.References {
		in := &req.References[i]
		customer.References = append(customer.References, domain.Reference{
			Name:           strings.TrimSpace(in.Name),
			NID:            in.NID,
			Email:          in.Email,
			Relationship:   strings.TrimSpace(in.Relationship),
			ReferenceSince: in.ReferenceSince,
			IsActive:       true,
			Occupation:     in.Occupation,
			IsWhoReferred:  in.IsWhoReferred,
			Type:           in.Type,
			Address:        in.Address,
		})
	}
	for i := range req.Accounts {
		customer.Accounts = append(customer.Accounts, domain.Account{
			Number: strings.TrimSpace(req.Accounts[i].Number),
			Type:   req.Accounts[i].Type,
		})
	}
	for i := range req.Phones {
		customer.Phones = append(customer.Phones, domain.Phone{
			Number:   req.Phones[i].Number,
			Type:     req.Phones[i].Type,
			IsActive: true,
		})
	}
	for i := range req.Addresses {
		in := &req.Addresses[i]
		customer.Addresses = append(customer.Addresses, domain.Address{
			Street:     strings.TrimSpace(in.Street),
			Number:     in.Number,
			City:       strings.TrimSpace(in.City),
			State:      in.State,
			Country:    in.Country,
			PostalCode: in.PostalCode,
			Type:       in.Type,
		})
	}
	return customer
}

// CreateSimpleRequest 快捷建档入参，仅身份证号、姓名与一个手机号
type CreateSimpleRequest struct {
	NID         string  `json:"nid"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhoneNumber string  `json:"phone_number"`
	LeadChannel *string `json:"lead_channel"`
}

// Validate 校验快捷建档入参
func (req *CreateSimpleRequest) Validate() error {
	if !validation.ValidNID(req.NID) {
		return apperrors.Validation("nid must be exactly 11 digits")
	}
	if len(strings.TrimSpace(req.FirstName)) < 2 {
		return apperrors.Validation("first_name must be at least 2 characters")
	}
	if !validation.ValidPhone(req.PhoneNumber) {
		return apperrors.Validation("phone number must be exactly 10 digits")
	}
	return nil
}

// DetailUpdate 个人信息更新入参，空指针字段保持原值
type DetailUpdate struct {
	FirstName             *string    `json:"first_name"`
	LastName              *string    `json:"last_name"`
	Email                 *string    `json:"email"`
	Nickname              *string    `json:"nickname"`
	Birthday              *time.Time `json:"birthday"`
	Gender                *string    `json:"gender"`
	MaritalStatus         *string    `json:"marital_status"`
	EducationLevel        *string    `json:"education_level"`
	Nationality           *string    `json:"nationality"`
	HousingType           *string    `json:"housing_type"`
	HousingPossessionType *string    `json:"housing_possession_type"`
	MoveInDate            *time.Time `json:"move_in_date"`
	ModeOfTransport       *string    `json:"mode_of_transport"`
}

// Validate 校验个人信息更新入参
func (in *DetailUpdate) Validate() error {
	if in.FirstName != nil && len(strings.TrimSpace(*in.FirstName)) < 2 {
		return apperrors.Validation("first_name must be at least 2 characters")
	}
	if in.Gender != nil && !genders[*in.Gender] {
		return apperrors.Validation("gender must be one of M, F, O")
	}
	if in.MaritalStatus != nil && !maritalStatuses[*in.MaritalStatus] {
		return apperrors.Validation("marital_status must be one of single, married, divorced, widowed")
	}
	return nil
}

// UpdateCustomerRequest 更新客户入参。集合类子记录不支持经由本接口更新。
type UpdateCustomerRequest struct {
	LeadChannel   *string             `json:"lead_channel"`
	IsReferred    *bool               `json:"is_referred"`
	ReferredBy    *string             `json:"referred_by"`
	IsActive      *bool               `json:"is_active"`
	Detail        *DetailUpdate       `json:"detail"`
	FinancialInfo *FinancialInfoInput `json:"financial_info"`
	JobInfo       *JobInfoInput       `json:"job_info"`
	Vehicle       *VehicleInput       `json:"vehicle"`
	Company       *CompanyInput       `json:"company"`

	// 以下集合字段若出现即拒绝
	Phones     []PhoneInput     `json:"phones"`
	Addresses  []AddressInput   `json:"addresses"`
	References []ReferenceInput `json:"references"`
	Accounts   []AccountInput   `json:"accounts"`
}

// Validate 校验更新入参
func (req *UpdateCustomerRequest) Validate() error {
	if len(req.Phones) > 0 || len(req.Addresses) > 0 || len(req.References) > 0 || len(req.Accounts) > 0 {
		return apperrors.Validation("updating phones, addresses, references or accounts through customer update is not supported")
	}
	if req.ReferredBy != nil && !validation.ValidNID(*req.ReferredBy) {
		return apperrors.Validation("referred_by must be exactly 11 digits")
	}
	if req.Detail != nil {
		if err := req.Detail.Validate(); err != nil {
			return err
		}
	}
	if req.Company != nil {
		if err := req.Company.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AssignCustomerRequest 分派客户入参，组合与推广员至少给一个
type AssignCustomerRequest struct {
	PortfolioID *uint `json:"portfolio_id"`
	PromoterID  *uint `json:"promoter_id"`
}

// Validate 校验分派入参
func (req *AssignCustomerRequest) Validate() error {
	if req.PortfolioID == nil && req.PromoterID == nil {
		return apperrors.Validation("either portfolio_id or promoter_id is required")
	}
	return nil
}

// CustomerListItem 客户列表投影
type CustomerListItem struct {
	ID          uint       `json:"id"`
	NID         string     `json:"nid"`
	FullName    string     `json:"full_name"`
	IsActive    bool       `json:"is_active"`
	IsAssigned  bool       `json:"is_assigned"`
	PortfolioID *uint      `json:"portfolio_id"`
	PromoterID  *uint      `json:"promoter_id"`
	CreatedAt   time.Time  `json:"created_at"`
	AssignedAt  *time.Time `json:"assigned_at"`
}

func toListItem(c *domain.Customer) CustomerListItem {
	item := CustomerListItem{
		ID:          c.ID,
		NID:         c.NID,
		IsActive:    c.IsActive,
		IsAssigned:  c.IsAssigned,
		PortfolioID: c.PortfolioID,
		PromoterID:  c.PromoterID,
		CreatedAt:   c.CreatedAt,
		AssignedAt:  c.AssignedAt,
	}
	if c.Detail != nil {
		item.FullName = strings.TrimSpace(fmt.Sprintf("%s %s", c.Detail.FirstName, c.Detail.LastName))
	}
	return item
}

// NIDValidationResult 身份证号校验结果，不合法或已占用时附带说明
type NIDValidationResult struct {
	NID       string  `json:"nid"`
	Valid     bool    `json:"valid"`
	Available bool    `json:"available"`
	Message   *string `json:"message"`
}
