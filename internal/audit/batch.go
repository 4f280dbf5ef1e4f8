package audit

import (
	"context"
	"sync"
	"time"

	"telecom-inventory/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BatchRecorder is an alternate Sink that buffers audit entries and flushes
// them in the background, trading write latency on the hot path for batched
// inserts. Entries that cannot be written are logged and dropped, never
// surfaced to the caller.
type BatchRecorder struct {
	db       *gorm.DB
	log      *zap.Logger
	interval time.Duration

	mu      sync.Mutex
	pending []*model.AuditTrail

	done chan struct{}
	once sync.Once
}

func NewBatchRecorder(db *gorm.DB, log *zap.Logger, interval time.Duration) *BatchRecorder {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	b := &BatchRecorder{
		db:       db,
		log:      log,
		interval: interval,
		done:     make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *BatchRecorder) Created(ctx context.Context, actor Actor, entity interface{}) {
	snap := Snapshot(entity)
	changes := make(map[string]Change, len(snap))
	for k, v := range snap {
		if v == nil {
			continue
		}
		changes[k] = Change{Old: nil, New: v}
	}
	entityType, entityID := identify(entity)
	b.enqueue(buildEntry(ctx, resolveActor(actor, entity), model.OpCreate, entityType, entityID, changes))
}

func (b *BatchRecorder) Updated(ctx context.Context, actor Actor, before, after interface{}) {
	changes := Diff(before, after)
	if len(changes) == 0 {
		return
	}
	entityType, entityID := identify(after)
	b.enqueue(buildEntry(ctx, resolveActor(actor, after), model.OpUpdate, entityType, entityID, changes))
}

func (b *BatchRecorder) Deleted(ctx context.Context, actor Actor, entity interface{}) {
	snap := Snapshot(entity)
	changes := make(map[string]Change, len(snap))
	for k, v := range snap {
		if v == nil {
			continue
		}
		changes[k] = Change{Old: v, New: nil}
	}
	entityType, entityID := identify(entity)
	b.enqueue(buildEntry(ctx, resolveActor(actor, entity), model.OpDelete, entityType, entityID, changes))
}

func (b *BatchRecorder) Action(ctx context.Context, actor Actor, opType, opName, entityType, entityID string, changes map[string]Change, success bool, errMsg string) {
	entry := buildEntry(ctx, resolveActor(actor, nil), opType, entityType, entityID, changes)
	entry.OperationName = opName
	entry.Success = success
	entry.ErrorMessage = errMsg
	b.enqueue(entry)
}

func (b *BatchRecorder) enqueue(entry *model.AuditTrail) {
	b.mu.Lock()
	b.pending = append(b.pending, entry)
	b.mu.Unlock()
}

func (b *BatchRecorder) run() {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.Flush()
		case <-b.done:
			b.Flush()
			return
		}
	}
}

// Flush writes all buffered entries in one insert
func (b *BatchRecorder) Flush() {
	b.mu.Lock()
	batch := b.pending
	b.pending = nil
	b.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	if err := b.db.Create(&batch).Error; err != nil {
		b.log.Error("audit batch flush failed",
			zap.String("event", "audit_flush_failed"),
			zap.Int("entry_count", len(batch)),
			zap.Error(err),
		)
	}
}

// Close stops the flush loop after draining the buffer
func (b *BatchRecorder) Close() {
	b.once.Do(func() { close(b.done) })
}
