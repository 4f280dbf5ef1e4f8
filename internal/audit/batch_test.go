package audit

import (
	"context"
	"testing"
	"time"

	"telecom-inventory/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestBatchRecorder(t *testing.T) (*BatchRecorder, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite memory: %v", err)
	}
	if err := db.AutoMigrate(&model.AuditTrail{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	// Long interval so tests control flushing explicitly
	rec := NewBatchRecorder(db, zap.NewNop(), time.Hour)
	t.Cleanup(rec.Close)
	return rec, db
}

func TestBatchRecorder_BuffersUntilFlush(t *testing.T) {
	rec, db := newTestBatchRecorder(t)
	ctx := context.Background()

	rec.Created(ctx, SystemActor, &model.Role{ID: 1, Name: "auditor", IsActive: true})
	rec.Action(ctx, SystemActor, model.OpUpdate, "supplier_approval", "supplier", "4", nil, true, "")

	assert.Empty(t, auditRows(t, db))

	rec.Flush()
	rows := auditRows(t, db)
	assert.Len(t, rows, 2)
	assert.Equal(t, "create_role", rows[0].OperationName)
	assert.Equal(t, "supplier_approval", rows[1].OperationName)
}

func TestBatchRecorder_UpdatedNoChangesBuffersNothing(t *testing.T) {
	rec, db := newTestBatchRecorder(t)

	role := &model.Role{ID: 1, Name: "auditor", IsActive: true}
	rec.Updated(context.Background(), SystemActor, role, role)

	rec.Flush()
	assert.Empty(t, auditRows(t, db))
}

func TestBatchRecorder_CloseDrainsBuffer(t *testing.T) {
	rec, db := newTestBatchRecorder(t)

	rec.Created(context.Background(), SystemActor, &model.Role{ID: 1, Name: "auditor", IsActive: true})
	rec.Close()

	// Close triggers a final flush from the background loop
	assert.Eventually(t, func() bool {
		var n int64
		db.Model(&model.AuditTrail{}).Count(&n)
		return n == 1
	}, time.Second, 10*time.Millisecond)
}
