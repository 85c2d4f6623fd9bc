package database

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// InTransaction runs fn inside a single database transaction. The transaction
// handle travels in the context so that repositories sharing the context join
// the same transaction. Nested calls reuse the outer transaction.
func InTransaction(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// Conn returns the transaction bound to ctx when present, otherwise the
// fallback handle scoped to ctx. Repositories call this for every query so
// they transparently participate in caller-demarcated transactions.
func Conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}
