package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// From returns a non-transactional context.
func From(ctx context.Context) Context {
	return Context{Ctx: ctx}
}

// InTx reports whether the context carries a transaction.
func (c Context) InTx() bool { return c.Tx != nil }
