package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"telecom-inventory/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actor identifies who performed an operation. A zero Actor resolves to
// "system".
type Actor struct {
	UserID   *uint
	Username string
}

// SystemActor is used for mutations with no authenticated user behind them
var SystemActor = Actor{Username: "system"}

// Change is an old/new value pair for one attribute
type Change struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// Sink receives audit events after successful mutations. Implementations
// must never propagate their own failures to the caller.
type Sink interface {
	Created(ctx context.Context, actor Actor, entity interface{})
	Updated(ctx context.Context, actor Actor, before, after interface{})
	Deleted(ctx context.Context, actor Actor, entity interface{})
	Action(ctx context.Context, actor Actor, opType, opName, entityType, entityID string, changes map[string]Change, success bool, errMsg string)
}

type txIDKey struct{}

// ContextWithTransactionID groups the audit entries of a multi-step
// operation under one transaction id (a UUID by convention).
func ContextWithTransactionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, txIDKey{}, id)
}

func transactionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(txIDKey{}).(string)
	return id
}

// Recorder writes one audit trail row per event, immediately, through its
// own database session. A failed audit write is logged and swallowed: it
// must never fail or roll back the operation that triggered it.
type Recorder struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRecorder(db *gorm.DB, log *zap.Logger) *Recorder {
	return &Recorder{db: db, log: log}
}

func (r *Recorder) Created(ctx context.Context, actor Actor, entity interface{}) {
	snap := Snapshot(entity)
	changes := make(map[string]Change, len(snap))
	for k, v := range snap {
		if v == nil {
			continue
		}
		changes[k] = Change{Old: nil, New: v}
	}
	entityType, entityID := identify(entity)
	r.persist(ctx, buildEntry(ctx, resolveActor(actor, entity), model.OpCreate, entityType, entityID, changes))
}

func (r *Recorder) Updated(ctx context.Context, actor Actor, before, after interface{}) {
	changes := Diff(before, after)
	if len(changes) == 0 {
		// No attribute actually changed: no audit row
		return
	}
	entityType, entityID := identify(after)
	r.persist(ctx, buildEntry(ctx, resolveActor(actor, after), model.OpUpdate, entityType, entityID, changes))
}

func (r *Recorder) Deleted(ctx context.Context, actor Actor, entity interface{}) {
	snap := Snapshot(entity)
	changes := make(map[string]Change, len(snap))
	for k, v := range snap {
		if v == nil {
			continue
		}
		changes[k] = Change{Old: v, New: nil}
	}
	entityType, entityID := identify(entity)
	r.persist(ctx, buildEntry(ctx, resolveActor(actor, entity), model.OpDelete, entityType, entityID, changes))
}

func (r *Recorder) Action(ctx context.Context, actor Actor, opType, opName, entityType, entityID string, changes map[string]Change, success bool, errMsg string) {
	entry := buildEntry(ctx, resolveActor(actor, nil), opType, entityType, entityID, changes)
	entry.OperationName = opName
	entry.Success = success
	entry.ErrorMessage = errMsg
	r.persist(ctx, entry)
}

func (r *Recorder) persist(ctx context.Context, entry *model.AuditTrail) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		r.log.Error("audit write failed",
			zap.String("event", "audit_write_failed"),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID),
			zap.String("operation", entry.OperationName),
			zap.Error(err),
		)
	}
}

func buildEntry(ctx context.Context, actor Actor, opType, entityType, entityID string, changes map[string]Change) *model.AuditTrail {
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		changesJSON = []byte("{}")
	}
	metadata, _ := json.Marshal(map[string]interface{}{
		"change_count": len(changes),
	})
	now := time.Now().UTC()
	return &model.AuditTrail{
		Timestamp:     now,
		UserID:        actor.UserID,
		Username:      actor.Username,
		OperationType: opType,
		OperationName: opType + "_" + entityType,
		EntityType:    entityType,
		EntityID:      entityID,
		Changes:       string(changesJSON),
		Metadata:      string(metadata),
		TransactionID: transactionIDFrom(ctx),
		Success:       true,
	}
}

// resolveActor applies the resolution order: explicit actor, then the
// target row's own user_id field, then "system".
func resolveActor(actor Actor, entity interface{}) Actor {
	if actor.UserID != nil || actor.Username != "" {
		if actor.Username == "" {
			actor.Username = "system"
		}
		return actor
	}
	if entity != nil {
		if id, ok := userIDOf(entity); ok {
			return Actor{UserID: &id, Username: "system"}
		}
	}
	return SystemActor
}

func userIDOf(entity interface{}) (uint, bool) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return 0, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return 0, false
	}
	field := v.FieldByName("UserID")
	if !field.IsValid() {
		return 0, false
	}
	switch field.Kind() {
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		return uint(field.Uint()), true
	case reflect.Ptr:
		if field.IsNil() {
			return 0, false
		}
		elem := field.Elem()
		if elem.CanUint() {
			return uint(elem.Uint()), true
		}
	}
	return 0, false
}

// identify derives the audit entity type (lowercased struct name) and the
// primary key rendered as a string
func identify(entity interface{}) (string, string) {
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "", ""
		}
		v = v.Elem()
	}
	entityType := strings.ToLower(v.Type().Name())
	entityID := ""
	if field := v.FieldByName("ID"); field.IsValid() && field.CanUint() {
		if field.Uint() != 0 {
			entityID = fmt.Sprint(field.Uint())
		}
	}
	return entityType, entityID
}

// Snapshot extracts the column values of a model struct as JSON-safe
// primitives. Associations and hidden fields (json:"-") are skipped;
// datetimes become RFC3339 strings.
func Snapshot(entity interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return out
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return out
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := columnName(field)
		if name == "" {
			continue
		}
		value := v.Field(i)
		if serialized, ok := serialize(value); ok {
			out[name] = serialized
		}
	}
	return out
}

// Diff returns the attributes whose serialized value differs between the
// two snapshots, as old/new pairs.
func Diff(before, after interface{}) map[string]Change {
	oldSnap := Snapshot(before)
	newSnap := Snapshot(after)
	changes := make(map[string]Change)
	for k, newVal := range newSnap {
		oldVal := oldSnap[k]
		if !reflect.DeepEqual(oldVal, newVal) {
			changes[k] = Change{Old: oldVal, New: newVal}
		}
	}
	for k, oldVal := range oldSnap {
		if _, ok := newSnap[k]; !ok && oldVal != nil {
			changes[k] = Change{Old: oldVal, New: nil}
		}
	}
	return changes
}

func columnName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if tag != "" {
		if name := strings.Split(tag, ",")[0]; name != "" {
			return name
		}
	}
	return strings.ToLower(field.Name)
}

func serialize(v reflect.Value) (interface{}, bool) {
	switch val := v.Interface().(type) {
	case time.Time:
		if val.IsZero() {
			return nil, true
		}
		return val.UTC().Format(time.RFC3339), true
	case *time.Time:
		if val == nil {
			return nil, true
		}
		return val.UTC().Format(time.RFC3339), true
	case decimal.Decimal:
		return val.String(), true
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return v.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Ptr:
		if v.IsNil() {
			return nil, true
		}
		return serialize(v.Elem())
	default:
		// Associations, slices and nested structs are not column values
		return nil, false
	}
}
