package audit

import (
	"context"
	"encoding/json"
	"testing"

	"telecom-inventory/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestRecorder(t *testing.T) (*Recorder, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite memory: %v", err)
	}
	if err := db.AutoMigrate(&model.AuditTrail{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewRecorder(db, zap.NewNop()), db
}

func auditRows(t *testing.T, db *gorm.DB) []model.AuditTrail {
	t.Helper()
	var rows []model.AuditTrail
	if err := db.Find(&rows).Error; err != nil {
		t.Fatalf("fetch audit rows: %v", err)
	}
	return rows
}

func TestRecorder_Created(t *testing.T) {
	rec, db := newTestRecorder(t)

	role := &model.Role{ID: 7, Name: "auditor", Description: "read only", IsActive: true}
	rec.Created(context.Background(), SystemActor, role)

	rows := auditRows(t, db)
	assert.Len(t, rows, 1)
	entry := rows[0]
	assert.Equal(t, model.OpCreate, entry.OperationType)
	assert.Equal(t, "create_role", entry.OperationName)
	assert.Equal(t, "role", entry.EntityType)
	assert.Equal(t, "7", entry.EntityID)
	assert.Equal(t, "system", entry.Username)
	assert.True(t, entry.Success)

	var changes map[string]Change
	assert.NoError(t, json.Unmarshal([]byte(entry.Changes), &changes))
	assert.Nil(t, changes["name"].Old)
	assert.Equal(t, "auditor", changes["name"].New)
}

func TestRecorder_UpdatedRecordsOnlyChangedFields(t *testing.T) {
	rec, db := newTestRecorder(t)

	before := &model.Supplier{ID: 3, CompanyName: "NetCo", ContactEmail: "ops@netco.example", Status: model.SupplierStatusPending}
	after := *before
	after.Status = model.SupplierStatusApproved

	rec.Updated(context.Background(), Actor{Username: "carol"}, before, &after)

	rows := auditRows(t, db)
	assert.Len(t, rows, 1)
	entry := rows[0]
	assert.Equal(t, model.OpUpdate, entry.OperationType)
	assert.Equal(t, "carol", entry.Username)

	var changes map[string]Change
	assert.NoError(t, json.Unmarshal([]byte(entry.Changes), &changes))
	assert.Len(t, changes, 1)
	assert.Equal(t, "pending", changes["status"].Old)
	assert.Equal(t, "approved", changes["status"].New)
}

func TestRecorder_UpdatedNoChangesWritesNothing(t *testing.T) {
	rec, db := newTestRecorder(t)

	before := &model.Supplier{ID: 3, CompanyName: "NetCo", Status: model.SupplierStatusPending}
	same := *before
	rec.Updated(context.Background(), SystemActor, before, &same)

	assert.Empty(t, auditRows(t, db))
}

func TestRecorder_DeletedSnapshotsOldValues(t *testing.T) {
	rec, db := newTestRecorder(t)

	perm := &model.Permission{ID: 11, Name: "view_supplier", Category: "Suppliers"}
	rec.Deleted(context.Background(), Actor{Username: "admin"}, perm)

	rows := auditRows(t, db)
	assert.Len(t, rows, 1)
	assert.Equal(t, model.OpDelete, rows[0].OperationType)
	assert.Equal(t, "permission", rows[0].EntityType)
	assert.Equal(t, "11", rows[0].EntityID)

	var changes map[string]Change
	assert.NoError(t, json.Unmarshal([]byte(rows[0].Changes), &changes))
	assert.Equal(t, "view_supplier", changes["name"].Old)
	assert.Nil(t, changes["name"].New)
}

func TestRecorder_ActorResolution(t *testing.T) {
	rec, db := newTestRecorder(t)

	// Explicit actor wins
	uid := uint(42)
	rec.Created(context.Background(), Actor{UserID: &uid, Username: "dave"},
		&model.Role{ID: 1, Name: "r1"})

	// No actor: UserID field on the row resolves the actor id
	info := &model.UserInfo{ID: 5, UserID: 9, Email: "x@example.com"}
	rec.Created(context.Background(), Actor{}, info)

	// No actor and no user field: system
	rec.Created(context.Background(), Actor{}, &model.Permission{ID: 2, Name: "p"})

	rows := auditRows(t, db)
	assert.Len(t, rows, 3)
	assert.Equal(t, "dave", rows[0].Username)
	assert.Equal(t, uint(42), *rows[0].UserID)
	assert.Equal(t, uint(9), *rows[1].UserID)
	assert.Equal(t, "system", rows[2].Username)
	assert.Nil(t, rows[2].UserID)
}

func TestRecorder_TransactionIDFromContext(t *testing.T) {
	rec, db := newTestRecorder(t)

	ctx := ContextWithTransactionID(context.Background(), "3e8a1c1e-0000-4000-8000-000000000001")
	rec.Action(ctx, SystemActor, model.OpUpdate, "supplier_approval", "supplier", "4",
		map[string]Change{"status": {Old: "pending", New: "approved"}}, true, "")

	rows := auditRows(t, db)
	assert.Len(t, rows, 1)
	assert.Equal(t, "3e8a1c1e-0000-4000-8000-000000000001", rows[0].TransactionID)
	assert.Equal(t, "supplier_approval", rows[0].OperationName)
}

func TestDiff(t *testing.T) {
	before := &model.InventoryItem{ID: 1, Name: "LTE Router", SKU: "RT-100", Quantity: 5}
	after := *before
	after.Quantity = 8
	after.Name = "LTE Router v2"

	changes := Diff(before, &after)
	assert.Len(t, changes, 2)
	// Integers serialize as int64 regardless of the field's width
	assert.Equal(t, int64(5), changes["quantity"].Old)
	assert.Equal(t, int64(8), changes["quantity"].New)
	assert.Equal(t, "LTE Router", changes["name"].Old)

	assert.Empty(t, Diff(before, before))
}

func TestSnapshotSkipsSensitiveAndAssociationFields(t *testing.T) {
	user := &model.User{ID: 1, Username: "alice", PasswordHash: "secret", Enabled: true}
	snap := Snapshot(user)

	assert.Equal(t, "alice", snap["username"])
	assert.NotContains(t, snap, "PasswordHash")
	for _, v := range snap {
		assert.NotEqual(t, "secret", v)
	}

	info := &model.UserInfo{ID: 2, UserID: 1, Email: "a@example.com"}
	infoSnap := Snapshot(info)
	assert.NotContains(t, infoSnap, "roles")
	assert.Equal(t, "a@example.com", infoSnap["email"])
}
