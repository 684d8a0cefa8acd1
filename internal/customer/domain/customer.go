// Package domain 客户聚合领域模型
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer 客户聚合根
type Customer struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	NID         string     `gorm:"column:nid;type:varchar(11);uniqueIndex;not null" json:"nid"`
	LeadChannel *string    `gorm:"column:lead_channel;type:varchar(255)" json:"lead_channel"`
	IsReferred  bool       `gorm:"column:is_referred;not null;default:false" json:"is_referred"`
	ReferredBy  *string    `gorm:"column:referred_by;type:varchar(11)" json:"referred_by"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsAssigned  bool       `gorm:"column:is_assigned;not null;default:false" json:"is_assigned"`
	PortfolioID *uint      `gorm:"column:portfolio_id;index" json:"portfolio_id"`
	PromoterID  *uint      `gorm:"column:promoter_id;index" json:"promoter_id"`
	AssignedAt  *time.Time `gorm:"column:assigned_at" json:"assigned_at"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`

	Detail        *CustomerDetail `gorm:"foreignKey:CustomerID" json:"detail"`
	FinancialInfo *FinancialInfo  `gorm:"foreignKey:CustomerID" json:"financial_info"`
	JobInfo       *JobInfo        `gorm:"foreignKey:CustomerID" json:"job_info"`
	References    []Reference     `gorm:"foreignKey:CustomerID" json:"references"`
	Vehicle       *Vehicle        `gorm:"foreignKey:CustomerID" json:"vehicle"`
	Company       *Company        `gorm:"foreignKey:CustomerID" json:"company"`
	Accounts      []Account       `gorm:"foreignKey:CustomerID" json:"accounts"`

	// 多态关系，由仓储手工装载
	Phones    []Phone   `gorm:"-" json:"phones"`
	Addresses []Address `gorm:"-" json:"addresses"`
}

// TableName 表名
func (Customer) TableName() string { return "customers" }

// CustomerDetail 客户个人信息，每个客户至多一条，创建聚合时必填
type CustomerDetail struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	CustomerID            uint       `gorm:"column:customer_id;index;not null" json:"-"`
	FirstName             string     `gorm:"column:first_name;type:varchar(255);not null" json:"first_name"`
	LastName              string     `gorm:"column:last_name;type:varchar(255)" json:"last_name"`
	Email                 *string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Nickname              *string    `gorm:"column:nickname;type:varchar(255)" json:"nickname"`
	Birthday              *time.Time `gorm:"column:birthday;type:date" json:"birthday"`
	Gender                *string    `gorm:"column:gender;type:varchar(50)" json:"gender"`
	MaritalStatus         *string    `gorm:"column:marital_status;type:varchar(50)" json:"marital_status"`
	EducationLevel        *string    `gorm:"column:education_level;type:varchar(100)" json:"education_level"`
	Nationality           *string    `gorm:"column:nationality;type:varchar(100)" json:"nationality"`
	HousingType           *string    `gorm:"column:housing_type;type:varchar(100)" json:"housing_type"`
	HousingPossessionType *string    `gorm:"column:housing_possession_type;type:varchar(100)" json:"housing_possession_type"`
	MoveInDate            *time.Time `gorm:"column:move_in_date;type:date" json:"move_in_date"`
	ModeOfTransport       *string    `gorm:"column:mode_of_transport;type:varchar(100)" json:"mode_of_transport"`
	CreatedAt             time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 表名
func (CustomerDetail) TableName() string { return "customer_details" }

// FinancialInfo 客户财务信息
type FinancialInfo struct {
	ID                    uint             `gorm:"primaryKey" json:"id"`
	CustomerID            uint             `gorm:"column:customer_id;index;not null" json:"-"`
	OtherIncomes          decimal.Decimal  `gorm:"column:other_incomes;type:decimal(20,2);default:0" json:"other_incomes"`
	Discounts             decimal.Decimal  `gorm:"column:discounts;type:decimal(20,2);default:0" json:"discounts"`
	HousingType           *string          `gorm:"column:housing_type;type:varchar(100)" json:"housing_type"`
	MonthlyHousingPayment *decimal.Decimal `gorm:"column:monthly_housing_payment;type:decimal(20,2)" json:"monthly_housing_payment"`
	TotalDebts            *decimal.Decimal `gorm:"column:total_debts;type:decimal(20,2)" json:"total_debts"`
	LoanInstallments      *decimal.Decimal `gorm:"column:loan_installments;type:decimal(20,2)" json:"loan_installments"`
	HouseholdExpenses     *decimal.Decimal `gorm:"column:household_expenses;type:decimal(20,2)" json:"household_expenses"`
	LaborBenefits         *decimal.Decimal `gorm:"column:labor_benefits;type:decimal(20,2)" json:"labor_benefits"`
	GuaranteeAssets       *string          `gorm:"column:guarantee_assets;type:text" json:"guarantee_assets"`
	TotalIncomes          *decimal.Decimal `gorm:"column:total_incomes;type:decimal(20,2)" json:"total_incomes"`
	CreatedAt             time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt             time.Time        `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 表名
func (FinancialInfo) TableName() string { return "customer_financial_info" }

// JobInfo 客户工作信息
type JobInfo struct {
	ID                   uint             `gorm:"primaryKey" json:"id"`
	CustomerID           uint             `gorm:"column:customer_id;index;not null" json:"-"`
	IsSelfEmployed       bool             `gorm:"column:is_self_employed;not null;default:false" json:"is_self_employed"`
	Role                 *string          `gorm:"column:role;type:varchar(255)" json:"role"`
	Level                *string          `gorm:"column:level;type:varchar(100)" json:"level"`
	StartDate            *time.Time       `gorm:"column:start_date;type:date" json:"start_date"`
	Salary               *decimal.Decimal `gorm:"column:salary;type:decimal(20,2)" json:"salary"`
	OtherIncomes         *decimal.Decimal `gorm:"column:other_incomes;type:decimal(20,2)" json:"other_incomes"`
	OtherIncomesSource   *string          `gorm:"column:other_incomes_source;type:varchar(255)" json:"other_incomes_source"`
	PaymentType          *string          `gorm:"column:payment_type;type:varchar(100)" json:"payment_type"`
	PaymentFrequency     *string          `gorm:"column:payment_frequency;type:varchar(100)" json:"payment_frequency"`
	PaymentBank          *string          `gorm:"column:payment_bank;type:varchar(255)" json:"payment_bank"`
	PaymentAccountNumber *string          `gorm:"column:payment_account_number;type:varchar(100)" json:"payment_account_number"`
	Schedule             *string          `gorm:"column:schedule;type:varchar(255)" json:"schedule"`
	SupervisorName       *string          `gorm:"column:supervisor_name;type:varchar(255)" json:"supervisor_name"`
	CreatedAt            time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt            time.Time        `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 表名
func (JobInfo) TableName() string { return "customer_job_info" }

// Reference 客户个人推荐人
type Reference struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	CustomerID     uint       `gorm:"column:customer_id;index;not null" json:"-"`
	Name           string     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	NID            *string    `gorm:"column:nid;type:varchar(11)" json:"nid"`
	Email          *string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Relationship   string     `gorm:"column:relationship;type:varchar(100);not null" json:"relationship"`
	ReferenceSince *time.Time `gorm:"column:reference_since;type:date" json:"reference_since"`
	IsActive       bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Occupation     *string    `gorm:"column:occupation;type:varchar(255)" json:"occupation"`
	IsWhoReferred  bool       `gorm:"column:is_who_referred;not null;default:false" json:"is_who_referred"`
	Type           *string    `gorm:"column:type;type:varchar(50)" json:"type"`
	Address        *string    `gorm:"column:address;type:text" json:"address"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 表名
func (Reference) TableName() string { return "customer_references" }

// Vehicle 客户车辆信息
type Vehicle struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	CustomerID         uint      `gorm:"column:customer_id;index;not null" json:"-"`
	VehicleType        *string   `gorm:"column:vehicle_type;type:varchar(100)" json:"vehicle_type"`
	VehicleBrand       *string   `gorm:"column:vehicle_brand;type:varchar(100)" json:"vehicle_brand"`
	VehicleModel       *string   `gorm:"column:vehicle_model;type:varchar(100)" json:"vehicle_model"`
	VehicleYear        *int      `gorm:"column:vehicle_year" json:"vehicle_year"`
	VehicleColor       *string   `gorm:"column:vehicle_color;type:varchar(50)" json:"vehicle_color"`
	VehiclePlateNumber *string   `gorm:"column:vehicle_plate_number;type:varchar(20)" json:"vehicle_plate_number"`
	IsFinanced         bool      `gorm:"column:is_financed;not null;default:false" json:"is_financed"`
	IsOwned            bool      `gorm:"column:is_owned;not null;default:false" json:"is_owned"`
	IsLeased           bool      `gorm:"column:is_leased;not null;default:false" json:"is_leased"`
	IsRented           bool      `gorm:"column:is_rented;not null;default:false" json:"is_rented"`
	IsShared           bool      `gorm:"column:is_shared;not null;default:false" json:"is_shared"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 表名
func (Vehicle) TableName() string { return "customer_vehicles" }

// Company 客户雇主信息
type Company struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"column:customer_id;index;not null" json:"-"`
	Name       string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email      *string   `gorm:"column:email;type:varchar(255)" json:"email"`
	Type       *string   `gorm:"column:type;type:varchar(100)" json:"type"`
	Website    *string   `gorm:"column:website;type:varchar(255)" json:"website"`
	RNC        *string   `gorm:"column:rnc;type:varchar(50)" json:"rnc"`
	Department *string   `gorm:"column:department;type:varchar(255)" json:"department"`
	Branch     *string   `gorm:"column:branch;type:varchar(255)" json:"branch"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 表名
func (Company) TableName() string { return "companies" }

// Account 客户银行账户
type Account struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"column:customer_id;index;not null" json:"-"`
	Number     string    `gorm:"column:number;type:varchar(100);not null" json:"number"`
	Type       *string   `gorm:"column:type;type:varchar(50)" json:"type"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 表名
func (Account) TableName() string { return "customers_accounts" }
