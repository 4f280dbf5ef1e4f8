package model

import (
	"time"
)

// Supplier status enum constants
const (
	SupplierStatusPending  = "pending"
	SupplierStatusApproved = "approved"
	SupplierStatusRejected = "rejected"
)

// Supplier represents a supplier company, optionally linked to a user
// account once approved
type Supplier struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CompanyName  string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"company_name"`
	Description  string    `gorm:"type:text" json:"description"`
	ContactEmail string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"contact_email"`
	ContactPhone string    `gorm:"type:varchar(50)" json:"contact_phone"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // pending, approved, rejected
	UserInfoID   *uint     `gorm:"uniqueIndex" json:"user_info_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
