package domain

import "time"

// OwnerKindCustomer 当前唯一支持的多态归属类型
const OwnerKindCustomer = "Customer"

// ValidOwnerKind 校验多态归属类型是否在支持集合内
func ValidOwnerKind(kind string) bool {
	return kind == OwnerKindCustomer
}

// OwnerRef 多态归属引用，电话与地址通过它挂接到任意聚合
type OwnerRef struct {
	Kind string `gorm:"column:owner_type;type:varchar(50);not null;index:idx_owner,priority:1" json:"owner_type"`
	ID   uint   `gorm:"column:owner_id;not null;index:idx_owner,priority:2" json:"owner_id"`
}

// Phone 电话号码，多态归属
type Phone struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Owner     OwnerRef  `gorm:"embedded" json:"-"`
	Number    string    `gorm:"column:number;type:varchar(10);not null" json:"number"`
	Type      string    `gorm:"column:type;type:varchar(50);not null" json:"type"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 表名
func (Phone) TableName() string { return "phones" }

// Address 地址，经 addressables 中间表多态挂接
type Address struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Street     string    `gorm:"column:street;type:varchar(255);not null" json:"street"`
	Number     *string   `gorm:"column:number;type:varchar(50)" json:"number"`
	City       string    `gorm:"column:city;type:varchar(100);not null" json:"city"`
	State      *string   `gorm:"column:state;type:varchar(100)" json:"state"`
	Country    *string   `gorm:"column:country;type:varchar(100)" json:"country"`
	PostalCode *string   `gorm:"column:postal_code;type:varchar(20)" json:"postal_code"`
	Type       *string   `gorm:"column:type;type:varchar(50)" json:"type"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName 表名
func (Address) TableName() string { return "addresses" }

// Addressable 地址多态中间表
type Addressable struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	AddressID uint     `gorm:"column:address_id;not null;index" json:"address_id"`
	Owner     OwnerRef `gorm:"embedded" json:"-"`
}

// TableName 表名
func (Addressable) TableName() string { return "addressables" }
