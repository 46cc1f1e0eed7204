package repository

import (
	"context"

	"gorm.io/gorm"
)

// txContextKey carries an open transaction through the context so every
// repository call made inside RunInTx lands on the same transaction.
type txContextKey struct{}

// TransactionManager runs a unit of work atomically, e.g. the
// count-then-delete sequence guarding role removal. The callback receives
// a context routing repository calls through one transaction; it commits
// when the callback returns nil and rolls back on error.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &transactionManager{db: db}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// GetDB resolves the handle a repository should use: the in-flight
// transaction when the context carries one, the root connection otherwise.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}
