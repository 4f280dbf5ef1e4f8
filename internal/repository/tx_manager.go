package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type contextKey string

const txKey contextKey = "gorm_tx"

// TransactionManager manages database transactions via context injection.
// Repositories pick up the active transaction transparently through GetDB,
// so a service can span multiple repository calls in one commit-or-rollback
// unit.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
	// RunNested runs fn in a nested transaction: a savepoint when the
	// context already carries a transaction, a plain transaction otherwise.
	RunNested(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &transactionManager{db: db}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey, tx)
		return fn(txCtx)
	})
}

func (t *transactionManager) RunNested(ctx context.Context, fn func(txCtx context.Context) error) error {
	return GetDB(ctx, t.db).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey, tx)
		return fn(txCtx)
	})
}

// forUpdate adds a row lock on engines that support it. SQLite has no
// FOR UPDATE syntax and serializes writers anyway.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// GetDB extracts the transaction DB from context if present, otherwise
// returns the root DB. Calling it inside RunInTx yields the transaction;
// outside, plain sessions.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}
