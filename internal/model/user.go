package model

import (
	"time"
)

// User represents the local authentication account
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"` // Omit hash from JSON requests/responses
	Enabled      bool      `gorm:"default:true" json:"enabled"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// UserInfo is the profile row linked one-to-one with a User account.
// Role membership lives exclusively in the user_roles join table; there is
// no scalar role column.
type UserInfo struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User           User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	ProfilePicture string    `gorm:"type:varchar(500)" json:"profile_picture"`
	IsAdmin        bool      `gorm:"default:false" json:"is_admin"`
	IsSupplier     bool      `gorm:"default:false" json:"is_supplier"`
	Roles          []Role    `gorm:"many2many:user_roles;" json:"roles"`
	Supplier       *Supplier `gorm:"foreignKey:UserInfoID;constraint:OnDelete:CASCADE" json:"supplier,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// UserRole is the explicit join row between UserInfo and Role
type UserRole struct {
	UserInfoID uint      `gorm:"primaryKey" json:"user_info_id"`
	RoleID     uint      `gorm:"primaryKey" json:"role_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// RoleNames returns the names of the user's active roles
func (u *UserInfo) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		if r.IsActive {
			names = append(names, r.Name)
		}
	}
	return names
}

// PermissionNames returns the deduplicated permission names granted through
// the user's active roles. Roles must be preloaded with their permissions.
func (u *UserInfo) PermissionNames() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, r := range u.Roles {
		if !r.IsActive {
			continue
		}
		for _, p := range r.Permissions {
			if !seen[p.Name] {
				seen[p.Name] = true
				names = append(names, p.Name)
			}
		}
	}
	return names
}
