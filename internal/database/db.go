package database

import (
	"fmt"
	"log"

	"telecom-inventory/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection opens a database connection based on the driver name and
// runs migrations. Supported drivers: "postgres" and "sqlite".
func NewConnection(driver, dsn string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	switch driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate wires the explicit join models and auto-migrates all tables
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.UserInfo{}, "Roles", &model.UserRole{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&model.Role{}, "Permissions", &model.RolePermission{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&model.User{},
		&model.UserInfo{},
		&model.Role{},
		&model.Permission{},
		&model.Supplier{},
		&model.InventoryItem{},
		&model.AuditTrail{},
	)
}
