package model

import (
	"time"
)

// Audit operation type constants
const (
	OpCreate           = "create"
	OpUpdate           = "update"
	OpDelete           = "delete"
	OpLogin            = "login"
	OpLogout           = "logout"
	OpRoleChange       = "role_change"
	OpPermissionChange = "permission_change"
	OpCustom           = "custom"
)

// AuditTrail is an append-only record of a tracked mutation. Rows are never
// updated after insert. The approval fields exist for future workflows and
// are not written by any current flow.
type AuditTrail struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`

	// Actor context
	UserID   *uint  `gorm:"index" json:"user_id"`
	Username string `gorm:"type:varchar(255);not null;default:'system';index" json:"username"`

	// Operation context
	OperationType string `gorm:"type:varchar(30);not null;index" json:"operation_type"`
	OperationName string `gorm:"type:varchar(255);not null;index" json:"operation_name"`

	// Entity context
	EntityType string `gorm:"type:varchar(100);not null;index" json:"entity_type"`
	EntityID   string `gorm:"type:varchar(255);index" json:"entity_id"`

	// Serialized change set and metadata
	Changes  string `gorm:"type:jsonb" json:"changes"`
	Metadata string `gorm:"type:jsonb" json:"metadata"`

	// Groups multi-step operations
	TransactionID string `gorm:"type:varchar(36);index" json:"transaction_id"`

	// Approval workflow fields (unused by current flows)
	RequiresApproval bool       `gorm:"default:false" json:"requires_approval"`
	ApprovalStatus   string     `gorm:"type:varchar(20)" json:"approval_status,omitempty"`
	ApprovedBy       *uint      `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`

	Success      bool   `gorm:"default:true;index" json:"success"`
	ErrorMessage string `gorm:"type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
