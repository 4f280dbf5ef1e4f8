package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory item category constants for telecom equipment
const (
	ItemCategoryRouter  = "ROUTER"
	ItemCategorySwitch  = "SWITCH"
	ItemCategoryAntenna = "ANTENNA"
	ItemCategoryCable   = "CABLE"
	ItemCategoryHandset = "HANDSET"
	ItemCategorySimCard = "SIM_CARD"
	ItemCategoryModem   = "MODEM"
	ItemCategoryOther   = "OTHER"
)

// InventoryItem represents a stocked telecom equipment item
type InventoryItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	SKU         string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Category    string          `gorm:"type:varchar(30);not null;index" json:"category"`
	Description string          `gorm:"type:text" json:"description"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	Quantity    int             `gorm:"not null;default:0" json:"quantity"`
	SupplierID  *uint           `gorm:"index" json:"supplier_id"`
	Supplier    *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
