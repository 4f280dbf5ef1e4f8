package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"telecom-inventory/internal/audit"
	"telecom-inventory/internal/database"
	"telecom-inventory/internal/model"
	"telecom-inventory/internal/repository"
	ws "telecom-inventory/internal/websocket"
	"telecom-inventory/pkg/pagination"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testJWTSecret = "test_secret"

// newTestDB opens an in-memory SQLite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite memory: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	db        *gorm.DB
	tx        repository.TransactionManager
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	rbac      RBACService
	users     UserService
	suppliers SupplierService
	items     ItemService
}

// newFixture wires repositories and services over a fresh database and
// seeds the default role catalog.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	sink := audit.NewRecorder(db, zap.NewNop())
	tx := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	itemRepo := repository.NewItemRepository(db)

	allowlistPath := filepath.Join(t.TempDir(), "user_data.json")
	if err := os.WriteFile(allowlistPath, []byte(`[{"ID": 1001, "Email": "alice@corp.example"}]`), 0644); err != nil {
		t.Fatalf("write allowlist: %v", err)
	}
	allowlist, err := LoadAllowlist(allowlistPath)
	if err != nil {
		t.Fatalf("load allowlist: %v", err)
	}

	hub := ws.NewHub(zap.NewNop())
	go hub.Run()

	f := &fixture{
		db:        db,
		tx:        tx,
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		rbac:      NewRBACService(roleRepo, userRepo, tx, sink),
		users:     NewUserService(userRepo, roleRepo, tx, sink, allowlist, testJWTSecret),
		suppliers: NewSupplierService(supplierRepo, userRepo, roleRepo, tx, sink),
		items:     NewItemService(itemRepo, supplierRepo, tx, sink, hub),
	}
	if err := f.rbac.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("seed defaults: %v", err)
	}
	return f
}

// createUser provisions an employee account through the admin path
func (f *fixture) createUser(t *testing.T, username, email string) *UserResponse {
	t.Helper()
	user, err := f.users.CreateUser(context.Background(), audit.SystemActor, CreateUserRequest{
		Username: username,
		Password: "Passw0rd!",
		Email:    email,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// testPageParams returns the first page with the default list size
func testPageParams() pagination.Params {
	return pagination.Params{Page: 1, Limit: pagination.DefaultLimit}
}

func (f *fixture) auditCount(t *testing.T, opName string) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&model.AuditTrail{}).Where("operation_name = ?", opName).Count(&n).Error; err != nil {
		t.Fatalf("count audit rows: %v", err)
	}
	return n
}
